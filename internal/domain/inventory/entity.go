// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/your-org/freshtrack-backend/internal/domain/product"
	"gorm.io/gorm"
)

// BatchStatus represents the lifecycle state of a batch
type BatchStatus string

const (
	// Transient statuses, re-evaluated by every reconciliation sweep
	BatchStatusActive     BatchStatus = "ACTIVE"
	BatchStatusNearExpiry BatchStatus = "NEAR_EXPIRY"
	BatchStatusExpired    BatchStatus = "EXPIRED"

	// Terminal statuses, reached through consumption or disposal and
	// never reconsidered by the sweep
	BatchStatusRemoved          BatchStatus = "REMOVED"
	BatchStatusDisposedReturned BatchStatus = "DISPOSED_RETURNED"
)

// TransientStatuses lists the statuses the reconciliation sweep re-evaluates
var TransientStatuses = []BatchStatus{
	BatchStatusActive,
	BatchStatusNearExpiry,
	BatchStatusExpired,
}

// AllStatuses lists every valid batch status
var AllStatuses = []BatchStatus{
	BatchStatusActive,
	BatchStatusNearExpiry,
	BatchStatusExpired,
	BatchStatusRemoved,
	BatchStatusDisposedReturned,
}

// Batch represents a dated lot of a product with its own expiry and
// depleting quantity
type Batch struct {
	ID                string      `gorm:"primaryKey;size:36" json:"id"`
	ProductID         string      `gorm:"not null;size:36;index" json:"product_id"`
	ExpiryDate        time.Time   `gorm:"not null;index" json:"expiry_date"`
	ProductionDate    *time.Time  `json:"production_date,omitempty"`
	QuantityTotal     int         `gorm:"not null" json:"quantity_total"`
	QuantityAvailable int         `gorm:"not null" json:"quantity_available"`
	Status            BatchStatus `gorm:"default:'ACTIVE';size:20;index" json:"status"`
	Version           uint        `gorm:"default:0" json:"version"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate hook to assign an ID
func (b *Batch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal reports whether the batch has reached a terminal status
func (b *Batch) IsTerminal() bool {
	return b.Status == BatchStatusRemoved || b.Status == BatchStatusDisposedReturned
}

// IsTransient reports whether the sweep still re-evaluates this batch
func (b *Batch) IsTransient() bool {
	return !b.IsTerminal()
}

// IsValidStatus reports whether s is a known batch status
func IsValidStatus(s BatchStatus) bool {
	for _, valid := range AllStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
