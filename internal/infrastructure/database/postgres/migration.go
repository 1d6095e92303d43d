// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/freshtrack-backend/internal/domain/action"
	"github.com/your-org/freshtrack-backend/internal/domain/alert"
	"github.com/your-org/freshtrack-backend/internal/domain/inventory"
	"github.com/your-org/freshtrack-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&product.Product{},
		&inventory.Batch{},
		&alert.AlertRule{},
		&alert.Alert{},
		&alert.Notification{},
		&action.Action{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes the sweep and dedup queries rely on
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating database indexes...")

	indexes := []string{
		// Sweep loads transient batches, FEFO orders by expiry within product
		"CREATE INDEX IF NOT EXISTS idx_batches_product_status_expiry ON batches (product_id, status, expiry_date)",
		// Alert dedup queries by (batch, rule) within the 24h window
		"CREATE INDEX IF NOT EXISTS idx_alerts_batch_rule_created ON alerts (batch_id, rule_id, created_at)",
		// Notification dispatcher polls by status
		"CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications (status)",
	}

	for _, idx := range indexes {
		if err := m.db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created")
	return nil
}

// SeedInitialData seeds development data: the default alert rule and a few
// perishable products with dated batches
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	var ruleCount int64
	if err := m.db.Model(&alert.AlertRule{}).Count(&ruleCount).Error; err != nil {
		return fmt.Errorf("failed to count alert rules: %w", err)
	}
	if ruleCount == 0 {
		defaultRule := &alert.AlertRule{
			Name:             "Default",
			DaysBeforeExpiry: 3,
			Active:           true,
		}
		if err := m.db.Create(defaultRule).Error; err != nil {
			return fmt.Errorf("failed to seed default alert rule: %w", err)
		}
	}

	var productCount int64
	if err := m.db.Model(&product.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		log.Println("✅ Data already seeded, skipping")
		return nil
	}

	products := []product.Product{
		{Name: "Whole Milk 1L", SKU: "MILK-1L", Description: "Fresh whole milk", Price: 189, Type: product.ProductTypePerishable},
		{Name: "Greek Yogurt 500g", SKU: "YOG-500", Description: "Plain greek yogurt", Price: 349, Type: product.ProductTypePerishable},
		{Name: "Canned Beans 400g", SKU: "BEAN-400", Description: "Shelf-stable beans", Price: 129, Type: product.ProductTypeRegular},
	}

	now := time.Now().UTC()
	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product: %w", err)
		}
	}

	batches := []inventory.Batch{
		{ProductID: products[0].ID, ExpiryDate: now.AddDate(0, 0, 2), QuantityTotal: 24, QuantityAvailable: 24, Status: inventory.BatchStatusActive},
		{ProductID: products[0].ID, ExpiryDate: now.AddDate(0, 0, 10), QuantityTotal: 48, QuantityAvailable: 48, Status: inventory.BatchStatusActive},
		{ProductID: products[1].ID, ExpiryDate: now.AddDate(0, 0, 7), QuantityTotal: 30, QuantityAvailable: 30, Status: inventory.BatchStatusActive},
	}
	for i := range batches {
		if err := m.db.Create(&batches[i]).Error; err != nil {
			return fmt.Errorf("failed to seed batch: %w", err)
		}
	}

	// Keep seeded product aggregates consistent with their batches
	for _, p := range products {
		var total int64
		if err := m.db.Model(&inventory.Batch{}).
			Where("product_id = ? AND status = ?", p.ID, inventory.BatchStatusActive).
			Select("COALESCE(SUM(quantity_available), 0)").
			Scan(&total).Error; err != nil {
			return fmt.Errorf("failed to sum seeded batches: %w", err)
		}
		if err := m.db.Model(&product.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"quantity": total,
			"in_stock": total > 0,
		}).Error; err != nil {
			return fmt.Errorf("failed to sync seeded product quantity: %w", err)
		}
	}

	log.Println("✅ Initial data seeded")
	return nil
}

// GetTableInfo logs row counts per table for development visibility
func (m *Migration) GetTableInfo() {
	tables := map[string]interface{}{
		"products":      &product.Product{},
		"batches":       &inventory.Batch{},
		"alert_rules":   &alert.AlertRule{},
		"alerts":        &alert.Alert{},
		"notifications": &alert.Notification{},
		"actions":       &action.Action{},
	}

	for name, model := range tables {
		var count int64
		if err := m.db.Model(model).Count(&count).Error; err != nil {
			log.Printf("⚠️  Failed to count %s: %v", name, err)
			continue
		}
		log.Printf("📊 Table %s: %d rows", name, count)
	}
}
