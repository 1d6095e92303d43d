// internal/domain/alert/service.go
package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/freshtrack-backend/internal/config"
	"gorm.io/gorm"
)

// DedupWindow is the rolling interval within which at most one alert may be
// raised for the same (batch, rule) pair
const DedupWindow = 24 * time.Hour

var (
	// ErrRuleNotFound is returned when a rule lookup misses
	ErrRuleNotFound = errors.New("alert rule not found")

	// ErrAlertNotFound is returned when an alert lookup misses
	ErrAlertNotFound = errors.New("alert not found")

	// ErrRuleExists is returned when creating a rule with a taken name
	ErrRuleExists = errors.New("alert rule with this name already exists")
)

// Service handles alert rules, alerts and their notification work items
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new alert service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRuleRequest represents alert rule creation data
type CreateRuleRequest struct {
	Name             string `json:"name" binding:"required"`
	DaysBeforeExpiry *int   `json:"days_before_expiry" binding:"required"`
	Active           *bool  `json:"active"`
}

// UpdateRuleRequest represents a partial alert rule update
type UpdateRuleRequest struct {
	Name             *string `json:"name"`
	DaysBeforeExpiry *int    `json:"days_before_expiry"`
	Active           *bool   `json:"active"`
}

// RULE MANAGEMENT

// CreateRule creates a new alert rule
func (s *Service) CreateRule(req *CreateRuleRequest) (*AlertRule, error) {
	if *req.DaysBeforeExpiry < 0 {
		return nil, fmt.Errorf("days_before_expiry must not be negative")
	}

	var existing AlertRule
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, ErrRuleExists
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule := &AlertRule{
		Name:             req.Name,
		DaysBeforeExpiry: *req.DaysBeforeExpiry,
		Active:           active,
	}

	if err := s.db.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create alert rule: %w", err)
	}

	return rule, nil
}

// GetRules retrieves alert rules, optionally filtered by active flag,
// ordered by threshold
func (s *Service) GetRules(active *bool) ([]AlertRule, error) {
	query := s.db.Model(&AlertRule{})
	if active != nil {
		query = query.Where("active = ?", *active)
	}

	var rules []AlertRule
	if err := query.Order("days_before_expiry ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve alert rules: %w", err)
	}
	return rules, nil
}

// GetRule retrieves an alert rule by ID
func (s *Service) GetRule(ruleID string) (*AlertRule, error) {
	var rule AlertRule
	if err := s.db.Where("id = ?", ruleID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to retrieve alert rule: %w", err)
	}
	return &rule, nil
}

// UpdateRule applies a partial update to an alert rule
func (s *Service) UpdateRule(ruleID string, req *UpdateRuleRequest) (*AlertRule, error) {
	if req.DaysBeforeExpiry != nil && *req.DaysBeforeExpiry < 0 {
		return nil, fmt.Errorf("days_before_expiry must not be negative")
	}

	rule, err := s.GetRule(ruleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DaysBeforeExpiry != nil {
		updates["days_before_expiry"] = *req.DaysBeforeExpiry
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.db.Model(rule).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update alert rule: %w", err)
		}
	}

	return rule, nil
}

// DeleteRule removes an alert rule
func (s *Service) DeleteRule(ruleID string) error {
	result := s.db.Where("id = ?", ruleID).Delete(&AlertRule{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// EnsureDefaultRule returns the active rule set, creating and persisting the
// configured default rule when none exists. A sweep never runs against an
// empty rule set.
func (s *Service) EnsureDefaultRule() ([]AlertRule, error) {
	active := true
	rules, err := s.GetRules(&active)
	if err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		return rules, nil
	}

	rule := &AlertRule{
		Name:             s.config.Expiry.DefaultRuleName,
		DaysBeforeExpiry: s.config.Expiry.DefaultRuleDays,
		Active:           true,
	}
	if err := s.db.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create default alert rule: %w", err)
	}

	return []AlertRule{*rule}, nil
}

// ALERTS

// HasRecentAlert reports whether an alert for the (batch, rule) pair was
// created within the dedup window ending at now
func (s *Service) HasRecentAlert(batchID, ruleID string, now time.Time) (bool, error) {
	var count int64
	cutoff := now.Add(-DedupWindow)
	if err := s.db.Model(&Alert{}).
		Where("batch_id = ? AND rule_id = ? AND created_at >= ?", batchID, ruleID, cutoff).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recent alerts: %w", err)
	}
	return count > 0, nil
}

// CreateAlertWithNotifications creates an alert and its per-channel
// notification work items as one unit: either all rows exist or none do
func (s *Service) CreateAlertWithNotifications(batchID, ruleID string, alertType AlertType, now time.Time) (*Alert, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	newAlert := &Alert{
		BatchID:      batchID,
		RuleID:       ruleID,
		AlertType:    alertType,
		AlertDate:    now,
		Acknowledged: false,
		CreatedAt:    now,
	}
	if err := tx.Create(newAlert).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	for _, channel := range Channels {
		notification := &Notification{
			AlertID: newAlert.ID,
			Channel: channel,
			Status:  NotificationStatusPending,
		}
		if err := tx.Create(notification).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create %s notification: %w", channel, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit alert creation: %w", err)
	}

	return newAlert, nil
}

// GetAlerts retrieves alerts with an acknowledged filter and pagination,
// newest first
func (s *Service) GetAlerts(acknowledged *bool, page, limit int) ([]Alert, int64, error) {
	query := s.db.Model(&Alert{})
	if acknowledged != nil {
		query = query.Where("acknowledged = ?", *acknowledged)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	var alerts []Alert
	offset := (page - 1) * limit
	if err := query.Preload("Rule").Preload("Notifications").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&alerts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve alerts: %w", err)
	}

	return alerts, total, nil
}

// GetOpenAlerts retrieves every unacknowledged alert, newest first
func (s *Service) GetOpenAlerts() ([]Alert, error) {
	var alerts []Alert
	if err := s.db.Preload("Rule").Preload("Notifications").
		Where("acknowledged = ?", false).
		Order("alert_date DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve open alerts: %w", err)
	}
	return alerts, nil
}

// GetAlert retrieves an alert by ID
func (s *Service) GetAlert(alertID string) (*Alert, error) {
	var a Alert
	if err := s.db.Preload("Rule").Preload("Notifications").Where("id = ?", alertID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to retrieve alert: %w", err)
	}
	return &a, nil
}

// GetAlertsByBatch retrieves every alert raised for a batch, newest first
func (s *Service) GetAlertsByBatch(batchID string) ([]Alert, error) {
	var alerts []Alert
	if err := s.db.Preload("Rule").Where("batch_id = ?", batchID).
		Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve alerts for batch: %w", err)
	}
	return alerts, nil
}

// AcknowledgeAlert marks an alert as handled by the given operator
func (s *Service) AcknowledgeAlert(alertID, acknowledgedBy string) (*Alert, error) {
	a, err := s.GetAlert(alertID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.db.Model(a).Updates(map[string]interface{}{
		"acknowledged":    true,
		"acknowledged_at": now,
		"acknowledged_by": acknowledgedBy,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	a.Acknowledged = true
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = acknowledgedBy
	return a, nil
}
