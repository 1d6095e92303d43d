package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/freshtrack-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestProductService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Product{}))

	return NewService(db, &config.Config{}), db
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestProductService(t)

	t.Run("quantity always starts at zero", func(t *testing.T) {
		p, err := svc.CreateProduct(&CreateProductRequest{
			Name:  "Greek Yogurt",
			SKU:   "YOG-001",
			Price: 349,
			Type:  ProductTypePerishable,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, 0, p.Quantity)
		assert.True(t, p.IsPerishable())
	})

	t.Run("defaults to regular type", func(t *testing.T) {
		p, err := svc.CreateProduct(&CreateProductRequest{
			Name:  "Canned Beans",
			SKU:   "CAN-001",
			Price: 199,
		})
		require.NoError(t, err)
		assert.Equal(t, ProductTypeRegular, p.Type)
		assert.False(t, p.IsPerishable())
	})

	t.Run("duplicate SKU is rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(&CreateProductRequest{
			Name:  "Another Yogurt",
			SKU:   "YOG-001",
			Price: 299,
		})
		assert.Error(t, err)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(&CreateProductRequest{
			Name:  "Mystery",
			SKU:   "MYS-001",
			Price: 100,
			Type:  "frozen",
		})
		assert.Error(t, err)
	})
}

func TestGetProduct(t *testing.T) {
	svc, _ := newTestProductService(t)

	created, err := svc.CreateProduct(&CreateProductRequest{
		Name:  "Milk",
		SKU:   "MLK-001",
		Price: 250,
	})
	require.NoError(t, err)

	fetched, err := svc.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", fetched.Name)

	_, err = svc.GetProduct("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProducts(t *testing.T) {
	svc, _ := newTestProductService(t)

	for _, sku := range []string{"A-1", "A-2", "A-3"} {
		_, err := svc.CreateProduct(&CreateProductRequest{
			Name:  "Product " + sku,
			SKU:   sku,
			Price: 100,
		})
		require.NoError(t, err)
	}

	products, total, err := svc.GetProducts(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, products, 2)
}

func TestMigrateProductTypes(t *testing.T) {
	svc, db := newTestProductService(t)

	// Rows predating the type column. The column default would backfill on
	// insert, so blank the type explicitly to mimic legacy data.
	for _, sku := range []string{"OLD-1", "OLD-2"} {
		p := &Product{
			Name:  "Legacy " + sku,
			SKU:   sku,
			Price: 100,
		}
		require.NoError(t, db.Create(p).Error)
		require.NoError(t, db.Model(p).Update("type", "").Error)
	}
	_, err := svc.CreateProduct(&CreateProductRequest{
		Name:  "New",
		SKU:   "NEW-1",
		Price: 100,
		Type:  ProductTypePerishable,
	})
	require.NoError(t, err)

	updated, err := svc.MigrateProductTypes()
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	var count int64
	require.NoError(t, db.Model(&Product{}).Where("type = ?", ProductTypeRegular).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
