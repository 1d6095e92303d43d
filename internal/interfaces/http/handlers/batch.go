// internal/interfaces/http/handlers/batch.go
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

// BatchHandler handles batch endpoints
type BatchHandler struct {
	inventoryService *inventory.Service
	config           *config.Config
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *BatchHandler {
	return &BatchHandler{
		inventoryService: inventory.NewService(db, cfg, logger),
		config:           cfg,
	}
}

// CreateBatch handles POST /batches
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	var req inventory.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	batch, err := h.inventoryService.CreateBatch(&req)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, inventory.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create batch",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Batch created successfully",
		"data":    batch,
	})
}

// GetBatches handles GET /batches
func (h *BatchHandler) GetBatches(c *gin.Context) {
	page, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	status := inventory.BatchStatus(c.Query("status"))
	productID := c.Query("product_id")

	batches, total, err := h.inventoryService.GetBatches(status, productID, page, limit)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve batches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Batches retrieved successfully",
		"data": gin.H{
			"batches": batches,
			"pagination": gin.H{
				"page":        page,
				"limit":       limit,
				"total":       total,
				"total_pages": totalPages(total, limit),
			},
		},
	})
}

// GetBatch handles GET /batches/:id
func (h *BatchHandler) GetBatch(c *gin.Context) {
	batchID := c.Param("id")

	batch, err := h.inventoryService.GetBatch(batchID)
	if err != nil {
		if errors.Is(err, inventory.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Batch not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve batch",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Batch retrieved successfully",
		"data":    batch,
	})
}

// UpdateBatchQuantityRequest represents a direct quantity update
type UpdateBatchQuantityRequest struct {
	QuantityAvailable *int `json:"quantity_available" binding:"required"`
}

// UpdateBatchQuantity handles PUT /batches/:id/quantity
func (h *BatchHandler) UpdateBatchQuantity(c *gin.Context) {
	batchID := c.Param("id")

	var req UpdateBatchQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	batch, err := h.inventoryService.UpdateBatchQuantity(batchID, *req.QuantityAvailable)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrBatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Batch not found",
			})
		case errors.Is(err, inventory.ErrInvalidQuantity), errors.Is(err, inventory.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, inventory.ErrConcurrencyConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Batch was modified concurrently, please retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update batch quantity",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Batch quantity updated successfully",
		"data":    batch,
	})
}

// GetBatchesByStatus handles GET /batches/status/:status
func (h *BatchHandler) GetBatchesByStatus(c *gin.Context) {
	status := inventory.BatchStatus(c.Param("status"))

	batches, err := h.inventoryService.GetBatchesByStatus(status)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve batches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Batches retrieved successfully",
		"data": gin.H{
			"batches": batches,
			"count":   len(batches),
		},
	})
}
