// internal/domain/action/service.go
package action

import (
	"errors"
	"fmt"

	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// ErrActionNotFound is returned when an action lookup misses
var ErrActionNotFound = errors.New("action not found")

// Service handles the manual-action log. Every action funnels into the
// inventory service's availability adjustment, which owns the terminal
// status transition and the product aggregate resync.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	inventory *inventory.Service
}

// NewService creates a new action service
func NewService(db *gorm.DB, cfg *config.Config, inventoryService *inventory.Service) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		inventory: inventoryService,
	}
}

// LogActionRequest represents action logging data
type LogActionRequest struct {
	BatchID          string     `json:"batch_id" binding:"required"`
	AlertID          *string    `json:"alert_id,omitempty"`
	ActionType       ActionType `json:"action_type" binding:"required"`
	QuantityAffected *int       `json:"quantity_affected" binding:"required"`
	PerformedBy      string     `json:"performed_by" binding:"required"`
	Notes            string     `json:"notes,omitempty"`
}

// LogActionResult pairs the recorded action with the batch it mutated
type LogActionResult struct {
	Action *Action          `json:"action"`
	Batch  *inventory.Batch `json:"batch"`
}

// terminalStatusFor maps action types to the terminal status a batch takes
// once its availability reaches zero through that action. Recounts and
// generic actions never terminate a batch.
func terminalStatusFor(actionType ActionType) inventory.BatchStatus {
	switch actionType {
	case ActionTypeDisposed:
		return inventory.BatchStatusDisposedReturned
	case ActionTypeRemovedFromShelf, ActionTypeReturnedToSupplier:
		return inventory.BatchStatusRemoved
	default:
		return ""
	}
}

// LogAction records a manual intervention and applies its quantity effect to
// the batch: availability drops by QuantityAffected, a batch emptied by a
// disposal-type action turns terminal, and the product aggregate is resynced
func (s *Service) LogAction(req *LogActionRequest) (*LogActionResult, error) {
	if !IsValidActionType(req.ActionType) {
		return nil, fmt.Errorf("invalid action type: %s", req.ActionType)
	}
	if *req.QuantityAffected < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", inventory.ErrInvalidQuantity)
	}

	batch, err := s.inventory.AdjustAvailability(req.BatchID, -*req.QuantityAffected, terminalStatusFor(req.ActionType))
	if err != nil {
		return nil, err
	}

	record := &Action{
		BatchID:          req.BatchID,
		AlertID:          req.AlertID,
		ActionType:       req.ActionType,
		QuantityAffected: *req.QuantityAffected,
		PerformedBy:      req.PerformedBy,
		Notes:            req.Notes,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to record action: %w", err)
	}

	return &LogActionResult{Action: record, Batch: batch}, nil
}

// GetActions retrieves actions with an optional batch filter and pagination,
// most recent intervention first
func (s *Service) GetActions(batchID string, page, limit int) ([]Action, int64, error) {
	query := s.db.Model(&Action{})
	if batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count actions: %w", err)
	}

	var actions []Action
	offset := (page - 1) * limit
	if err := query.Order("performed_at DESC").Offset(offset).Limit(limit).Find(&actions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve actions: %w", err)
	}

	return actions, total, nil
}

// GetAction retrieves an action by ID
func (s *Service) GetAction(actionID string) (*Action, error) {
	var a Action
	if err := s.db.Where("id = ?", actionID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve action: %w", err)
	}
	return &a, nil
}

// GetActionsByBatch retrieves every action logged against a batch
func (s *Service) GetActionsByBatch(batchID string) ([]Action, error) {
	var actions []Action
	if err := s.db.Where("batch_id = ?", batchID).Order("performed_at DESC").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve actions for batch: %w", err)
	}
	return actions, nil
}
