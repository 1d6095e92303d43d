package action

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/inventory"
	"github.com/your-org/freshtrack-backend/internal/domain/product"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupActionTest(t *testing.T) (*Service, *inventory.Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&product.Product{}, &inventory.Batch{}, &Action{})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	inventoryService := inventory.NewService(db, cfg, logger)

	return NewService(db, cfg, inventoryService), inventoryService, db
}

func createBatch(t *testing.T, db *gorm.DB, inv *inventory.Service, qty int) *inventory.Batch {
	p := &product.Product{
		Name:    "Yogurt",
		SKU:     "SKU-" + uuid.NewString(),
		Price:   199,
		Type:    product.ProductTypePerishable,
		InStock: true,
	}
	require.NoError(t, db.Create(p).Error)

	batch, err := inv.CreateBatch(&inventory.CreateBatchRequest{
		ProductID:     p.ID,
		ExpiryDate:    time.Now().AddDate(0, 0, 5),
		QuantityTotal: qty,
	})
	require.NoError(t, err)
	return batch
}

func TestLogAction(t *testing.T) {
	svc, inv, db := setupActionTest(t)

	t.Run("disposal draining the batch turns it disposed", func(t *testing.T) {
		batch := createBatch(t, db, inv, 10)
		qty := 10

		result, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeDisposed,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
			Notes:            "failed temperature check",
		})
		require.NoError(t, err)

		assert.Equal(t, inventory.BatchStatusDisposedReturned, result.Batch.Status)
		assert.Equal(t, 0, result.Batch.QuantityAvailable)
		assert.NotEmpty(t, result.Action.ID)
		assert.False(t, result.Action.PerformedAt.IsZero())
	})

	t.Run("shelf removal draining the batch turns it removed", func(t *testing.T) {
		batch := createBatch(t, db, inv, 4)
		qty := 4

		result, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeRemovedFromShelf,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		require.NoError(t, err)
		assert.Equal(t, inventory.BatchStatusRemoved, result.Batch.Status)
	})

	t.Run("supplier return draining the batch turns it removed", func(t *testing.T) {
		batch := createBatch(t, db, inv, 4)
		qty := 4

		result, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeReturnedToSupplier,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		require.NoError(t, err)
		assert.Equal(t, inventory.BatchStatusRemoved, result.Batch.Status)
	})

	t.Run("recount to zero never terminates the batch", func(t *testing.T) {
		batch := createBatch(t, db, inv, 4)
		qty := 4

		result, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeRecounted,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		require.NoError(t, err)

		assert.Equal(t, 0, result.Batch.QuantityAvailable)
		assert.Equal(t, inventory.BatchStatusActive, result.Batch.Status)
	})

	t.Run("partial disposal keeps the batch transient", func(t *testing.T) {
		batch := createBatch(t, db, inv, 10)
		qty := 3

		result, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeDisposed,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		require.NoError(t, err)

		assert.Equal(t, 7, result.Batch.QuantityAvailable)
		assert.Equal(t, inventory.BatchStatusActive, result.Batch.Status)
	})

	t.Run("over-removal is rejected and nothing is recorded", func(t *testing.T) {
		batch := createBatch(t, db, inv, 2)
		qty := 3

		_, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeDisposed,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

		actions, err := svc.GetActionsByBatch(batch.ID)
		require.NoError(t, err)
		assert.Empty(t, actions)

		reloaded, err := inv.GetBatch(batch.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.QuantityAvailable)
	})

	t.Run("terminal batch rejects further actions", func(t *testing.T) {
		batch := createBatch(t, db, inv, 2)
		qty := 2

		_, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeDisposed,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		require.NoError(t, err)

		one := 1
		_, err = svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeRecounted,
			QuantityAffected: &one,
			PerformedBy:      "ops@freshtrack.local",
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidStatus)
	})

	t.Run("invalid action type is rejected", func(t *testing.T) {
		qty := 1
		_, err := svc.LogAction(&LogActionRequest{
			BatchID:          "whatever",
			ActionType:       "SHREDDED",
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		assert.Error(t, err)
	})
}

func TestGetActions(t *testing.T) {
	svc, inv, db := setupActionTest(t)

	batch := createBatch(t, db, inv, 10)
	for i := 0; i < 3; i++ {
		qty := 1
		_, err := svc.LogAction(&LogActionRequest{
			BatchID:          batch.ID,
			ActionType:       ActionTypeRecounted,
			QuantityAffected: &qty,
			PerformedBy:      "ops@freshtrack.local",
		})
		require.NoError(t, err)
	}

	actions, total, err := svc.GetActions(batch.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, actions, 2)

	byBatch, err := svc.GetActionsByBatch(batch.ID)
	require.NoError(t, err)
	assert.Len(t, byBatch, 3)

	fetched, err := svc.GetAction(byBatch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, batch.ID, fetched.BatchID)

	_, err = svc.GetAction("missing")
	assert.ErrorIs(t, err, ErrActionNotFound)
}
