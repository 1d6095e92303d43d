// internal/domain/inventory/service.go
package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles batch business logic: creation, quantity edits, FEFO
// depletion and the product aggregate resync
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// CreateBatchRequest represents batch creation data
type CreateBatchRequest struct {
	ProductID      string     `json:"product_id" binding:"required"`
	ExpiryDate     time.Time  `json:"expiry_date" binding:"required"`
	ProductionDate *time.Time `json:"production_date,omitempty"`
	QuantityTotal  int        `json:"quantity_total" binding:"required"`
}

// BatchDepletion describes what a single batch gave up during FEFO depletion
type BatchDepletion struct {
	BatchID         string      `json:"batch_id"`
	QuantityReduced int         `json:"quantity_reduced"`
	NewAvailable    int         `json:"new_available"`
	NewStatus       BatchStatus `json:"new_status"`
}

// DepletionResult is the outcome of a FEFO depletion. When the product's
// ACTIVE stock cannot cover the request, TotalReduced is less than
// QuantityRequested; that partial fulfillment is a success, not an error.
type DepletionResult struct {
	ProductID         string           `json:"product_id"`
	QuantityRequested int              `json:"quantity_requested"`
	TotalReduced      int              `json:"total_reduced"`
	BatchesAffected   []BatchDepletion `json:"batches_affected"`
}

// ExpirySummary holds batch counts per lifecycle status
type ExpirySummary struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	NearExpiry int64 `json:"near_expiry"`
	Expired    int64 `json:"expired"`
	Removed    int64 `json:"removed"`
	Disposed   int64 `json:"disposed"`
}

// ProductInventorySummary is the per-product batch breakdown
type ProductInventorySummary struct {
	ProductID         string  `json:"product_id"`
	ProductName       string  `json:"product_name"`
	TotalQuantity     int     `json:"total_quantity"`
	Batches           []Batch `json:"batches"`
	ActiveBatches     int     `json:"active_batches"`
	NearExpiryBatches int     `json:"near_expiry_batches"`
	ExpiredBatches    int     `json:"expired_batches"`
}

// BATCH MANAGEMENT

// CreateBatch creates a new batch with available = total and status ACTIVE,
// then resyncs the owning product's aggregate quantity
func (s *Service) CreateBatch(req *CreateBatchRequest) (*Batch, error) {
	if req.QuantityTotal <= 0 {
		return nil, fmt.Errorf("%w: quantity_total must be positive", ErrInvalidQuantity)
	}
	if req.ExpiryDate.IsZero() {
		return nil, fmt.Errorf("expiry_date is required")
	}

	var prod product.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	batch := &Batch{
		ProductID:         req.ProductID,
		ExpiryDate:        req.ExpiryDate,
		ProductionDate:    req.ProductionDate,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: req.QuantityTotal,
		Status:            BatchStatusActive,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(batch).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	if _, err := s.resyncProduct(tx, req.ProductID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit batch creation: %w", err)
	}

	return batch, nil
}

// GetBatch retrieves a batch by ID
func (s *Service) GetBatch(batchID string) (*Batch, error) {
	var batch Batch
	if err := s.db.Preload("Product").Where("id = ?", batchID).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to retrieve batch: %w", err)
	}
	return &batch, nil
}

// GetBatches retrieves batches with optional status and product filters,
// ordered by expiry date
func (s *Service) GetBatches(status BatchStatus, productID string, page, limit int) ([]Batch, int64, error) {
	query := s.db.Model(&Batch{})

	if status != "" {
		if !IsValidStatus(status) {
			return nil, 0, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
		}
		query = query.Where("status = ?", status)
	}
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count batches: %w", err)
	}

	var batches []Batch
	offset := (page - 1) * limit
	if err := query.Preload("Product").Order("expiry_date ASC").Offset(offset).Limit(limit).Find(&batches).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve batches: %w", err)
	}

	return batches, total, nil
}

// GetBatchesByStatus retrieves every batch in the given status
func (s *Service) GetBatchesByStatus(status BatchStatus) ([]Batch, error) {
	if !IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var batches []Batch
	if err := s.db.Preload("Product").Where("status = ?", status).Order("expiry_date ASC").Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve batches: %w", err)
	}
	return batches, nil
}

// UpdateBatchQuantity sets a batch's available quantity directly (recount
// path) and resyncs the product aggregate
func (s *Service) UpdateBatchQuantity(batchID string, quantityAvailable int) (*Batch, error) {
	if quantityAvailable < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidQuantity)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var batch Batch
	if err := tx.Where("id = ?", batchID).First(&batch).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to retrieve batch: %w", err)
	}

	if batch.IsTerminal() {
		tx.Rollback()
		return nil, fmt.Errorf("%w: batch %s is %s", ErrInvalidStatus, batch.ID, batch.Status)
	}
	if quantityAvailable > batch.QuantityTotal {
		tx.Rollback()
		return nil, fmt.Errorf("%w: available %d exceeds total %d", ErrInvalidQuantity, quantityAvailable, batch.QuantityTotal)
	}

	if err := s.writeBatch(tx, &batch, map[string]interface{}{
		"quantity_available": quantityAvailable,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}
	batch.QuantityAvailable = quantityAvailable

	if _, err := s.resyncProduct(tx, batch.ProductID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit quantity update: %w", err)
	}

	return &batch, nil
}

// AdjustAvailability applies a signed delta to a batch's available quantity.
// Every manual action funnels through here: when the batch hits zero and
// terminalStatus is set, the batch leaves the transient lifecycle for good.
// The product aggregate is resynced before returning.
func (s *Service) AdjustAvailability(batchID string, delta int, terminalStatus BatchStatus) (*Batch, error) {
	if terminalStatus != "" && terminalStatus != BatchStatusRemoved && terminalStatus != BatchStatusDisposedReturned {
		return nil, fmt.Errorf("%w: %s is not terminal", ErrInvalidStatus, terminalStatus)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var batch Batch
	if err := tx.Where("id = ?", batchID).First(&batch).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to retrieve batch: %w", err)
	}

	if batch.IsTerminal() {
		tx.Rollback()
		return nil, fmt.Errorf("%w: batch %s is %s", ErrInvalidStatus, batch.ID, batch.Status)
	}

	newAvailable := batch.QuantityAvailable + delta
	if newAvailable < 0 {
		tx.Rollback()
		return nil, fmt.Errorf("%w: cannot remove %d units, only %d available", ErrInvalidQuantity, -delta, batch.QuantityAvailable)
	}
	if newAvailable > batch.QuantityTotal {
		tx.Rollback()
		return nil, fmt.Errorf("%w: available %d would exceed total %d", ErrInvalidQuantity, newAvailable, batch.QuantityTotal)
	}

	updates := map[string]interface{}{
		"quantity_available": newAvailable,
	}
	newStatus := batch.Status
	if newAvailable == 0 && terminalStatus != "" {
		newStatus = terminalStatus
		updates["status"] = newStatus
	}

	if err := s.writeBatch(tx, &batch, updates); err != nil {
		tx.Rollback()
		return nil, err
	}
	batch.QuantityAvailable = newAvailable
	batch.Status = newStatus

	if _, err := s.resyncProduct(tx, batch.ProductID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit availability adjustment: %w", err)
	}

	return &batch, nil
}

// FEFO DEPLETION

// DepleteFEFO draws down a product's stock oldest-expiry-first. All batch
// writes and the aggregate resync commit as one transaction, so readers never
// observe a partially-depleted batch set.
func (s *Service) DepleteFEFO(productID string, quantity int) (*DepletionResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Oldest expiry first; created_at then id make equal expiry dates
	// deterministic
	var batches []Batch
	if err := tx.Where("product_id = ? AND status = ?", productID, BatchStatusActive).
		Order("expiry_date ASC, created_at ASC, id ASC").
		Find(&batches).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load active batches: %w", err)
	}

	if len(batches) == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("%w: no active batches for product %s", ErrInsufficientInventory, productID)
	}

	remaining := quantity
	result := &DepletionResult{
		ProductID:         productID,
		QuantityRequested: quantity,
		BatchesAffected:   []BatchDepletion{},
	}

	for i := range batches {
		if remaining <= 0 {
			break
		}
		batch := &batches[i]

		reduce := remaining
		if batch.QuantityAvailable < reduce {
			reduce = batch.QuantityAvailable
		}
		if reduce == 0 {
			continue
		}

		newAvailable := batch.QuantityAvailable - reduce
		updates := map[string]interface{}{
			"quantity_available": newAvailable,
		}
		newStatus := batch.Status
		if newAvailable == 0 {
			newStatus = BatchStatusRemoved
			updates["status"] = newStatus
		}

		if err := s.writeBatch(tx, batch, updates); err != nil {
			tx.Rollback()
			return nil, err
		}

		result.BatchesAffected = append(result.BatchesAffected, BatchDepletion{
			BatchID:         batch.ID,
			QuantityReduced: reduce,
			NewAvailable:    newAvailable,
			NewStatus:       newStatus,
		})
		result.TotalReduced += reduce
		remaining -= reduce
	}

	if _, err := s.resyncProduct(tx, productID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit depletion: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id":      productID,
		"requested":       quantity,
		"reduced":         result.TotalReduced,
		"batches_touched": len(result.BatchesAffected),
	}).Info("FEFO depletion completed")

	return result, nil
}

// AGGREGATE SYNCHRONIZATION

// ResyncProductQuantity recomputes the product quantity as the sum of
// available stock over its ACTIVE batches and persists it. This is the only
// code path that writes a product's quantity.
func (s *Service) ResyncProductQuantity(productID string) (int, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	total, err := s.resyncProduct(tx, productID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("failed to commit resync: %w", err)
	}

	return total, nil
}

// resyncProduct performs the aggregate recomputation inside the caller's
// transaction, so the sum always sees a consistent batch snapshot
func (s *Service) resyncProduct(tx *gorm.DB, productID string) (int, error) {
	var prod product.Product
	if err := tx.Where("id = ?", productID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, product.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to retrieve product: %w", err)
	}

	var total int64
	if err := tx.Model(&Batch{}).
		Where("product_id = ? AND status = ?", productID, BatchStatusActive).
		Select("COALESCE(SUM(quantity_available), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum active batches: %w", err)
	}

	if err := tx.Model(&product.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"quantity": total,
		"in_stock": total > 0,
	}).Error; err != nil {
		return 0, fmt.Errorf("failed to update product quantity: %w", err)
	}

	return int(total), nil
}

// writeBatch applies updates to a batch with an optimistic version check;
// a stale read surfaces as ErrConcurrencyConflict and bumps nothing
func (s *Service) writeBatch(tx *gorm.DB, batch *Batch, updates map[string]interface{}) error {
	updates["version"] = batch.Version + 1

	result := tx.Model(&Batch{}).
		Where("id = ? AND version = ?", batch.ID, batch.Version).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update batch %s: %w", batch.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: batch %s", ErrConcurrencyConflict, batch.ID)
	}

	batch.Version++
	return nil
}

// TransitionBatchStatus moves a transient batch to a recomputed lifecycle
// status with an optimistic version check. Used by the reconciliation sweep;
// it deliberately does not resync the product, the sweep does that once per
// touched product after all transitions.
func (s *Service) TransitionBatchStatus(batch *Batch, newStatus BatchStatus) error {
	if batch.IsTerminal() {
		return fmt.Errorf("%w: batch %s is %s", ErrInvalidStatus, batch.ID, batch.Status)
	}

	if err := s.writeBatch(s.db, batch, map[string]interface{}{
		"status": newStatus,
	}); err != nil {
		return err
	}

	batch.Status = newStatus
	return nil
}

// GetTransientBatches loads every batch still subject to lifecycle
// re-evaluation
func (s *Service) GetTransientBatches() ([]Batch, error) {
	var batches []Batch
	if err := s.db.Where("status IN ?", TransientStatuses).Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to load transient batches: %w", err)
	}
	return batches, nil
}

// REPORTING

// GetExpirySummary returns batch counts per lifecycle status
func (s *Service) GetExpirySummary() (*ExpirySummary, error) {
	summary := &ExpirySummary{}

	counts := []struct {
		status BatchStatus
		target *int64
	}{
		{BatchStatusActive, &summary.Active},
		{BatchStatusNearExpiry, &summary.NearExpiry},
		{BatchStatusExpired, &summary.Expired},
		{BatchStatusRemoved, &summary.Removed},
		{BatchStatusDisposedReturned, &summary.Disposed},
	}

	if err := s.db.Model(&Batch{}).Count(&summary.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count batches: %w", err)
	}

	for _, c := range counts {
		if err := s.db.Model(&Batch{}).Where("status = ?", c.status).Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s batches: %w", c.status, err)
		}
	}

	return summary, nil
}

// GetProductInventorySummary returns a product's quantity with its full
// batch breakdown, ordered by expiry
func (s *Service) GetProductInventorySummary(productID string) (*ProductInventorySummary, error) {
	var prod product.Product
	if err := s.db.Where("id = ?", productID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	var batches []Batch
	if err := s.db.Where("product_id = ?", productID).Order("expiry_date ASC").Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve batches: %w", err)
	}

	summary := &ProductInventorySummary{
		ProductID:     productID,
		ProductName:   prod.Name,
		TotalQuantity: prod.Quantity,
		Batches:       batches,
	}
	for _, b := range batches {
		switch b.Status {
		case BatchStatusActive:
			summary.ActiveBatches++
		case BatchStatusNearExpiry:
			summary.NearExpiryBatches++
		case BatchStatusExpired:
			summary.ExpiredBatches++
		}
	}

	return summary, nil
}
