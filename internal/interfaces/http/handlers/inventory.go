// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/inventory"
	"github.com/your-org/freshtrack-backend/internal/domain/product"
	"gorm.io/gorm"
)

// InventoryHandler handles stock depletion, resync and summary endpoints
type InventoryHandler struct {
	inventoryService *inventory.Service
	config           *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventory.NewService(db, cfg, logger),
		config:           cfg,
	}
}

// DepleteRequest represents a FEFO stock draw-down
type DepleteRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// Deplete handles POST /inventory/deplete
func (h *InventoryHandler) Deplete(c *gin.Context) {
	var req DepleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.inventoryService.DepleteFEFO(req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrInsufficientInventory):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, inventory.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, inventory.ErrConcurrencyConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Inventory was modified concurrently, please retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to deplete inventory",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory depleted successfully",
		"data":    result,
	})
}

// ResyncProduct handles POST /inventory/products/:productId/resync
func (h *InventoryHandler) ResyncProduct(c *gin.Context) {
	productID := c.Param("productId")

	total, err := h.inventoryService.ResyncProductQuantity(productID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resync product quantity",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product quantity resynced successfully",
		"data": gin.H{
			"product_id": productID,
			"quantity":   total,
		},
	})
}

// GetProductSummary handles GET /inventory/products/:productId/summary
func (h *InventoryHandler) GetProductSummary(c *gin.Context) {
	productID := c.Param("productId")

	summary, err := h.inventoryService.GetProductInventorySummary(productID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product summary retrieved successfully",
		"data":    summary,
	})
}

// GetExpirySummary handles GET /inventory/expiry-summary
func (h *InventoryHandler) GetExpirySummary(c *gin.Context) {
	summary, err := h.inventoryService.GetExpirySummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve expiry summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expiry summary retrieved successfully",
		"data":    summary,
	})
}
