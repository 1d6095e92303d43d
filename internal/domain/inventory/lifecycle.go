// internal/domain/inventory/lifecycle.go
package inventory

import (
	"math"
	"time"
)

// NearExpiryFloorDays is the system-wide threshold at which a batch turns
// NEAR_EXPIRY. It is deliberately independent of configured alert rules:
// rules only gate alerting, never the lifecycle itself.
const NearExpiryFloorDays = 3

// Midnight strips the time-of-day from t, keeping its location
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysToExpiry returns the day-granularity distance from now to the expiry
// date, rounding partial days up. Negative once the expiry date has passed.
func DaysToExpiry(expiryDate, now time.Time) int {
	today := Midnight(now)
	diff := expiryDate.Sub(today)
	return int(math.Ceil(diff.Hours() / 24))
}

// Classify computes the lifecycle status a batch with the given expiry date
// should hold as of now. Classification is recomputed from scratch on every
// sweep, so a batch may legitimately move back from NEAR_EXPIRY to ACTIVE
// after an expiry-date correction.
//
// Only transient batches may be classified; callers must exclude terminal
// batches before calling.
func Classify(expiryDate, now time.Time) (BatchStatus, int) {
	daysToExpiry := DaysToExpiry(expiryDate, now)

	switch {
	case daysToExpiry < 0:
		return BatchStatusExpired, daysToExpiry
	case daysToExpiry <= NearExpiryFloorDays:
		return BatchStatusNearExpiry, daysToExpiry
	default:
		return BatchStatusActive, daysToExpiry
	}
}
