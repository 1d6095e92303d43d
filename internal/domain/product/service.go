// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/your-org/freshtrack-backend/internal/config"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product lookup misses
var ErrProductNotFound = errors.New("product not found")

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	SKU         string      `json:"sku" binding:"required"`
	Description string      `json:"description"`
	Price       int64       `json:"price" binding:"required"`
	Type        ProductType `json:"type"`
}

// CreateProduct creates a new product. Quantity is always derived from
// batches, so it starts at zero regardless of the request.
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	var existing Product
	if err := s.db.Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("product with SKU '%s' already exists", req.SKU)
	}

	productType := req.Type
	if productType == "" {
		productType = ProductTypeRegular
	}
	if productType != ProductTypeRegular && productType != ProductTypePerishable {
		return nil, fmt.Errorf("invalid product type: %s", productType)
	}

	product := &Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    0,
		Type:        productType,
		InStock:     true,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *Service) GetProduct(productID string) (*Product, error) {
	var product Product
	if err := s.db.Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// GetProducts retrieves products with pagination
func (s *Service) GetProducts(page, limit int) ([]Product, int64, error) {
	var products []Product
	var total int64

	if err := s.db.Model(&Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * limit
	if err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return products, total, nil
}

// MigrateProductTypes backfills the type column for rows created before the
// perishable/regular split existed. Admin-only maintenance operation.
func (s *Service) MigrateProductTypes() (int64, error) {
	result := s.db.Model(&Product{}).
		Where("type IS NULL OR type = ''").
		Update("type", ProductTypeRegular)
	if result.Error != nil {
		return 0, fmt.Errorf("product type migration failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}
