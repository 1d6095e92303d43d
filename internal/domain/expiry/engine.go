// internal/domain/expiry/engine.go
package expiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/alert"
	"github.com/your-org/freshtrack-backend/internal/domain/inventory"
)

// sweepLockKey serializes sweep instances across processes
const sweepLockKey = "expiry:sweep:lock"

// ErrSweepInProgress is returned when another sweep holds the lock
var ErrSweepInProgress = errors.New("expiry sweep already in progress")

// Locker is the distributed lock the engine uses to guarantee a single
// running sweep. A nil Locker disables serialization (tests).
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// SweepResult reports what one reconciliation sweep did. The counts are for
// observability; correctness never depends on them.
type SweepResult struct {
	BatchesUpdated int `json:"batches_updated"`
	AlertsCreated  int `json:"alerts_created"`
	ProductsSynced int `json:"products_synced"`
}

// Engine orchestrates the reconciliation sweep: lifecycle reclassification,
// deduplicated alerting with notification fan-out, and the per-product
// aggregate resync
type Engine struct {
	config    *config.Config
	logger    *logrus.Logger
	inventory *inventory.Service
	alerts    *alert.Service
	locker    Locker
}

// NewEngine creates a new expiry engine
func NewEngine(cfg *config.Config, logger *logrus.Logger, inventoryService *inventory.Service, alertService *alert.Service, locker Locker) *Engine {
	return &Engine{
		config:    cfg,
		logger:    logger,
		inventory: inventoryService,
		alerts:    alertService,
		locker:    locker,
	}
}

// RunSweep executes one reconciliation sweep as of now. Safe to re-run: a
// second sweep with the same now reclassifies identically and the 24h dedup
// window prevents duplicate alerts. Failures on individual batches are
// logged and reported; already-committed work stands and the next invocation
// completes whatever remains.
func (e *Engine) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	if e.locker != nil {
		acquired, err := e.locker.AcquireLock(ctx, sweepLockKey, e.config.Expiry.SweepLockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
		}
		if !acquired {
			return nil, ErrSweepInProgress
		}
		defer func() {
			if err := e.locker.ReleaseLock(ctx, sweepLockKey); err != nil {
				e.logger.WithError(err).Warn("Failed to release sweep lock")
			}
		}()
	}

	e.logger.WithField("now", now.Format(time.RFC3339)).Info("Expiry sweep starting")

	rules, err := e.alerts.EnsureDefaultRule()
	if err != nil {
		return nil, err
	}

	batches, err := e.inventory.GetTransientBatches()
	if err != nil {
		return nil, err
	}

	e.logger.WithField("batches", len(batches)).Debug("Loaded transient batches")

	result := &SweepResult{}
	productsToSync := make(map[string]struct{})
	var firstErr error

	for i := range batches {
		batch := &batches[i]

		newStatus, daysToExpiry := inventory.Classify(batch.ExpiryDate, now)

		if newStatus != batch.Status {
			if err := e.inventory.TransitionBatchStatus(batch, newStatus); err != nil {
				e.logger.WithError(err).WithField("batch_id", batch.ID).Error("Failed to transition batch status")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			productsToSync[batch.ProductID] = struct{}{}
			result.BatchesUpdated++

			e.logger.WithFields(logrus.Fields{
				"batch_id":       batch.ID,
				"status":         newStatus,
				"days_to_expiry": daysToExpiry,
			}).Info("Batch status transitioned")
		}

		created, err := e.evaluateRules(batch, rules, newStatus, daysToExpiry, now)
		if err != nil {
			e.logger.WithError(err).WithField("batch_id", batch.ID).Error("Failed to evaluate alert rules")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.AlertsCreated += created
	}

	for productID := range productsToSync {
		if _, err := e.inventory.ResyncProductQuantity(productID); err != nil {
			e.logger.WithError(err).WithField("product_id", productID).Error("Failed to resync product quantity")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.ProductsSynced++
	}

	e.logger.WithFields(logrus.Fields{
		"batches_updated": result.BatchesUpdated,
		"alerts_created":  result.AlertsCreated,
		"products_synced": result.ProductsSynced,
	}).Info("Expiry sweep completed")

	if firstErr != nil {
		return result, fmt.Errorf("sweep completed with errors: %w", firstErr)
	}
	return result, nil
}

// evaluateRules raises at most one deduplicated alert per rule for the batch
func (e *Engine) evaluateRules(batch *inventory.Batch, rules []alert.AlertRule, status inventory.BatchStatus, daysToExpiry int, now time.Time) (int, error) {
	created := 0

	for _, rule := range rules {
		shouldAlert := (status == inventory.BatchStatusNearExpiry && daysToExpiry <= rule.DaysBeforeExpiry) ||
			(status == inventory.BatchStatusExpired && daysToExpiry < 0)
		if !shouldAlert {
			continue
		}

		recent, err := e.alerts.HasRecentAlert(batch.ID, rule.ID, now)
		if err != nil {
			return created, err
		}
		if recent {
			continue
		}

		alertType := alert.AlertTypeNearExpiry
		if status == inventory.BatchStatusExpired {
			alertType = alert.AlertTypeExpired
		}

		newAlert, err := e.alerts.CreateAlertWithNotifications(batch.ID, rule.ID, alertType, now)
		if err != nil {
			return created, err
		}
		created++

		e.logger.WithFields(logrus.Fields{
			"alert_id":   newAlert.ID,
			"alert_type": newAlert.AlertType,
			"batch_id":   batch.ID,
			"rule":       rule.Name,
		}).Info("Alert created")
	}

	return created, nil
}
