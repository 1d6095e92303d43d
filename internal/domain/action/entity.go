// internal/domain/action/entity.go
package action

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionType categorizes a manual operator intervention on a batch
type ActionType string

const (
	ActionTypeRemovedFromShelf   ActionType = "REMOVED_FROM_SHELF"
	ActionTypeDisposed           ActionType = "DISPOSED"
	ActionTypeReturnedToSupplier ActionType = "RETURNED_TO_SUPPLIER"
	ActionTypeRecounted          ActionType = "RECOUNTED"
	ActionTypeOther              ActionType = "OTHER"
)

// ValidActionTypes lists every accepted action type
var ValidActionTypes = []ActionType{
	ActionTypeRemovedFromShelf,
	ActionTypeDisposed,
	ActionTypeReturnedToSupplier,
	ActionTypeRecounted,
	ActionTypeOther,
}

// Action is the audit record of one manual intervention: who removed how
// many units from which batch, and optionally which alert prompted it
type Action struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	BatchID          string     `gorm:"not null;size:36;index" json:"batch_id"`
	AlertID          *string    `gorm:"size:36" json:"alert_id,omitempty"`
	ActionType       ActionType `gorm:"not null;size:30" json:"action_type"`
	QuantityAffected int        `gorm:"not null" json:"quantity_affected"`
	PerformedBy      string     `gorm:"not null;size:100" json:"performed_by"`
	PerformedAt      time.Time  `gorm:"not null" json:"performed_at"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BeforeCreate hook to assign an ID and default timestamp
func (a *Action) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.PerformedAt.IsZero() {
		a.PerformedAt = time.Now().UTC()
	}
	return nil
}

// IsValidActionType reports whether t is a known action type
func IsValidActionType(t ActionType) bool {
	for _, valid := range ValidActionTypes {
		if t == valid {
			return true
		}
	}
	return false
}
