// internal/domain/inventory/errors.go
package inventory

import "errors"

var (
	// ErrBatchNotFound is returned when a batch lookup misses
	ErrBatchNotFound = errors.New("batch not found")

	// ErrInvalidQuantity is returned for zero or negative quantities and
	// for edits that would break 0 <= available <= total
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidStatus is returned for unknown batch statuses and for
	// mutations attempted on a terminal batch
	ErrInvalidStatus = errors.New("invalid batch status")

	// ErrInsufficientInventory is returned by FEFO depletion when the
	// product has no ACTIVE batches at all. Partial fulfillment is not
	// an error; see DepletionResult.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrConcurrencyConflict is returned when a version check fails on a
	// batch write; the caller should retry the whole operation
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
)
