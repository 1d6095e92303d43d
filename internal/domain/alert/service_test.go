package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/freshtrack-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAlertTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&AlertRule{}, &Alert{}, &Notification{})
	require.NoError(t, err)

	return db
}

func newTestAlertService(t *testing.T) (*Service, *gorm.DB) {
	db := setupAlertTestDB(t)

	cfg := &config.Config{
		Expiry: config.ExpiryConfig{
			DefaultRuleName: "Default",
			DefaultRuleDays: 3,
		},
	}

	return NewService(db, cfg), db
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestRuleCRUD(t *testing.T) {
	svc, _ := newTestAlertService(t)

	t.Run("create and fetch", func(t *testing.T) {
		rule, err := svc.CreateRule(&CreateRuleRequest{
			Name:             "Short shelf life",
			DaysBeforeExpiry: intPtr(2),
		})
		require.NoError(t, err)
		assert.True(t, rule.Active)

		fetched, err := svc.GetRule(rule.ID)
		require.NoError(t, err)
		assert.Equal(t, "Short shelf life", fetched.Name)
		assert.Equal(t, 2, fetched.DaysBeforeExpiry)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := svc.CreateRule(&CreateRuleRequest{
			Name:             "Short shelf life",
			DaysBeforeExpiry: intPtr(5),
		})
		assert.ErrorIs(t, err, ErrRuleExists)
	})

	t.Run("negative threshold is rejected", func(t *testing.T) {
		_, err := svc.CreateRule(&CreateRuleRequest{
			Name:             "Broken",
			DaysBeforeExpiry: intPtr(-1),
		})
		assert.Error(t, err)
	})

	t.Run("partial update", func(t *testing.T) {
		rule, err := svc.CreateRule(&CreateRuleRequest{
			Name:             "Updatable",
			DaysBeforeExpiry: intPtr(7),
		})
		require.NoError(t, err)

		updated, err := svc.UpdateRule(rule.ID, &UpdateRuleRequest{
			Active: boolPtr(false),
		})
		require.NoError(t, err)

		fetched, err := svc.GetRule(updated.ID)
		require.NoError(t, err)
		assert.False(t, fetched.Active)
		assert.Equal(t, 7, fetched.DaysBeforeExpiry)
	})

	t.Run("delete", func(t *testing.T) {
		rule, err := svc.CreateRule(&CreateRuleRequest{
			Name:             "Disposable",
			DaysBeforeExpiry: intPtr(1),
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteRule(rule.ID))

		_, err = svc.GetRule(rule.ID)
		assert.ErrorIs(t, err, ErrRuleNotFound)

		assert.ErrorIs(t, svc.DeleteRule(rule.ID), ErrRuleNotFound)
	})
}

func TestEnsureDefaultRule(t *testing.T) {
	t.Run("bootstraps the configured default", func(t *testing.T) {
		svc, _ := newTestAlertService(t)

		rules, err := svc.EnsureDefaultRule()
		require.NoError(t, err)

		require.Len(t, rules, 1)
		assert.Equal(t, "Default", rules[0].Name)
		assert.Equal(t, 3, rules[0].DaysBeforeExpiry)
		assert.True(t, rules[0].Active)

		// Second call returns the persisted rule, no duplicate
		again, err := svc.EnsureDefaultRule()
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Equal(t, rules[0].ID, again[0].ID)
	})

	t.Run("leaves an existing rule set alone", func(t *testing.T) {
		svc, _ := newTestAlertService(t)

		existing, err := svc.CreateRule(&CreateRuleRequest{
			Name:             "Custom",
			DaysBeforeExpiry: intPtr(5),
		})
		require.NoError(t, err)

		rules, err := svc.EnsureDefaultRule()
		require.NoError(t, err)

		require.Len(t, rules, 1)
		assert.Equal(t, existing.ID, rules[0].ID)
	})

	t.Run("inactive rules do not count", func(t *testing.T) {
		svc, _ := newTestAlertService(t)

		_, err := svc.CreateRule(&CreateRuleRequest{
			Name:             "Disabled",
			DaysBeforeExpiry: intPtr(5),
			Active:           boolPtr(false),
		})
		require.NoError(t, err)

		rules, err := svc.EnsureDefaultRule()
		require.NoError(t, err)

		require.Len(t, rules, 1)
		assert.Equal(t, "Default", rules[0].Name)
	})
}

func TestCreateAlertWithNotifications(t *testing.T) {
	svc, db := newTestAlertService(t)

	rule, err := svc.CreateRule(&CreateRuleRequest{
		Name:             "Default",
		DaysBeforeExpiry: intPtr(3),
	})
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	created, err := svc.CreateAlertWithNotifications("batch-1", rule.ID, AlertTypeNearExpiry, now)
	require.NoError(t, err)

	fetched, err := svc.GetAlert(created.ID)
	require.NoError(t, err)

	assert.Equal(t, AlertTypeNearExpiry, fetched.AlertType)
	assert.False(t, fetched.Acknowledged)

	// Exactly one pending work item per channel
	require.Len(t, fetched.Notifications, 2)
	channels := map[NotificationChannel]bool{}
	for _, n := range fetched.Notifications {
		assert.Equal(t, NotificationStatusPending, n.Status)
		channels[n.Channel] = true
	}
	assert.True(t, channels[ChannelEmail])
	assert.True(t, channels[ChannelInApp])

	var count int64
	require.NoError(t, db.Model(&Notification{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestHasRecentAlert(t *testing.T) {
	svc, _ := newTestAlertService(t)

	rule, err := svc.CreateRule(&CreateRuleRequest{
		Name:             "Default",
		DaysBeforeExpiry: intPtr(3),
	})
	require.NoError(t, err)

	base := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	_, err = svc.CreateAlertWithNotifications("batch-1", rule.ID, AlertTypeNearExpiry, base)
	require.NoError(t, err)

	t.Run("alert inside the window is recent", func(t *testing.T) {
		recent, err := svc.HasRecentAlert("batch-1", rule.ID, base.Add(1*time.Hour))
		require.NoError(t, err)
		assert.True(t, recent)
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		recent, err := svc.HasRecentAlert("batch-1", rule.ID, base.Add(DedupWindow))
		require.NoError(t, err)
		assert.True(t, recent)
	})

	t.Run("alert outside the window is stale", func(t *testing.T) {
		recent, err := svc.HasRecentAlert("batch-1", rule.ID, base.Add(25*time.Hour))
		require.NoError(t, err)
		assert.False(t, recent)
	})

	t.Run("other batch or rule does not match", func(t *testing.T) {
		recent, err := svc.HasRecentAlert("batch-2", rule.ID, base.Add(1*time.Hour))
		require.NoError(t, err)
		assert.False(t, recent)
	})
}

func TestAcknowledgeAlert(t *testing.T) {
	svc, _ := newTestAlertService(t)

	rule, err := svc.CreateRule(&CreateRuleRequest{
		Name:             "Default",
		DaysBeforeExpiry: intPtr(3),
	})
	require.NoError(t, err)

	created, err := svc.CreateAlertWithNotifications("batch-1", rule.ID, AlertTypeExpired, time.Now().UTC())
	require.NoError(t, err)

	acked, err := svc.AcknowledgeAlert(created.ID, "ops@freshtrack.local")
	require.NoError(t, err)

	assert.True(t, acked.Acknowledged)
	assert.Equal(t, "ops@freshtrack.local", acked.AcknowledgedBy)
	require.NotNil(t, acked.AcknowledgedAt)

	open, err := svc.GetOpenAlerts()
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = svc.AcknowledgeAlert("missing", "ops@freshtrack.local")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestGetAlertsFiltering(t *testing.T) {
	svc, _ := newTestAlertService(t)

	rule, err := svc.CreateRule(&CreateRuleRequest{
		Name:             "Default",
		DaysBeforeExpiry: intPtr(3),
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	first, err := svc.CreateAlertWithNotifications("batch-1", rule.ID, AlertTypeNearExpiry, now.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = svc.CreateAlertWithNotifications("batch-2", rule.ID, AlertTypeExpired, now)
	require.NoError(t, err)

	_, err = svc.AcknowledgeAlert(first.ID, "ops@freshtrack.local")
	require.NoError(t, err)

	acked := true
	alerts, total, err := svc.GetAlerts(&acked, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, alerts, 1)
	assert.Equal(t, first.ID, alerts[0].ID)

	all, total, err := svc.GetAlerts(nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	byBatch, err := svc.GetAlertsByBatch("batch-2")
	require.NoError(t, err)
	assert.Len(t, byBatch, 1)
}
