// internal/domain/alert/entity.go
package alert

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertType distinguishes the two raised conditions
type AlertType string

const (
	AlertTypeNearExpiry AlertType = "NEAR_EXPIRY"
	AlertTypeExpired    AlertType = "EXPIRED"
)

// NotificationChannel is a delivery channel for alert notifications
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelInApp NotificationChannel = "IN_APP"
)

// Channels lists every channel that gets a work item when an alert fires
var Channels = []NotificationChannel{ChannelEmail, ChannelInApp}

// NotificationStatus tracks delivery of a single work item. The engine only
// ever writes PENDING; SENT and FAILED belong to the external dispatcher.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// AlertRule is a named days-before-expiry threshold that gates alerting
type AlertRule struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	DaysBeforeExpiry int       `gorm:"not null" json:"days_before_expiry"`
	Active           bool      `gorm:"default:true" json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Alert is a raised condition on a batch for a specific rule
type Alert struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	BatchID        string     `gorm:"not null;size:36;index" json:"batch_id"`
	RuleID         string     `gorm:"not null;size:36;index" json:"rule_id"`
	AlertType      AlertType  `gorm:"not null;size:20" json:"alert_type"`
	AlertDate      time.Time  `gorm:"not null" json:"alert_date"`
	Acknowledged   bool       `gorm:"default:false;index" json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string     `gorm:"size:100" json:"acknowledged_by,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Rule          AlertRule      `gorm:"foreignKey:RuleID" json:"rule,omitempty"`
	Notifications []Notification `gorm:"foreignKey:AlertID" json:"notifications,omitempty"`
}

// Notification is one pending delivery work item per channel per alert
type Notification struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`
	AlertID      string              `gorm:"not null;size:36;index" json:"alert_id"`
	Channel      NotificationChannel `gorm:"not null;size:20" json:"channel"`
	Status       NotificationStatus  `gorm:"default:'PENDING';size:20" json:"status"`
	SentAt       *time.Time          `json:"sent_at,omitempty"`
	ErrorMessage string              `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// BeforeCreate hooks to assign IDs

func (r *AlertRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
