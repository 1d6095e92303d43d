// internal/interfaces/http/handlers/action.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/action"
	"github.com/your-org/freshtrack-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// ActionHandler handles manual-action endpoints
type ActionHandler struct {
	actionService *action.Service
	config        *config.Config
}

// NewActionHandler creates a new action handler
func NewActionHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *ActionHandler {
	inventoryService := inventory.NewService(db, cfg, logger)
	return &ActionHandler{
		actionService: action.NewService(db, cfg, inventoryService),
		config:        cfg,
	}
}

// LogAction handles POST /actions
func (h *ActionHandler) LogAction(c *gin.Context) {
	var req action.LogActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.actionService.LogAction(&req)
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
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Action logged successfully",
		"data":    result,
	})
}

// GetActions handles GET /actions
func (h *ActionHandler) GetActions(c *gin.Context) {
	page, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	batchID := c.Query("batch_id")

	actions, total, err := h.actionService.GetActions(batchID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve actions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Actions retrieved successfully",
		"data": gin.H{
			"actions": actions,
			"pagination": gin.H{
				"page":        page,
				"limit":       limit,
				"total":       total,
				"total_pages": totalPages(total, limit),
			},
		},
	})
}

// GetAction handles GET /actions/:id
func (h *ActionHandler) GetAction(c *gin.Context) {
	actionID := c.Param("id")

	a, err := h.actionService.GetAction(actionID)
	if err != nil {
		if errors.Is(err, action.ErrActionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Action not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve action",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Action retrieved successfully",
		"data":    a,
	})
}

// GetActionsByBatch handles GET /actions/batch/:batchId
func (h *ActionHandler) GetActionsByBatch(c *gin.Context) {
	batchID := c.Param("batchId")

	actions, err := h.actionService.GetActionsByBatch(batchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve actions for batch",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Actions retrieved successfully",
		"data": gin.H{
			"actions": actions,
			"count":   len(actions),
		},
	})
}
