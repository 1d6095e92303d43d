// internal/interfaces/http/handlers/alert.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/alert"
	"github.com/your-org/freshtrack-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	alertService *alert.Service
	config       *config.Config
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(db *gorm.DB, cfg *config.Config) *AlertHandler {
	return &AlertHandler{
		alertService: alert.NewService(db, cfg),
		config:       cfg,
	}
}

// GetAlerts handles GET /alerts
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	page, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	var acknowledged *bool
	if ackParam := c.Query("acknowledged"); ackParam != "" {
		parsed, err := strconv.ParseBool(ackParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid acknowledged filter",
			})
			return
		}
		acknowledged = &parsed
	}

	alerts, total, err := h.alertService.GetAlerts(acknowledged, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve alerts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alerts retrieved successfully",
		"data": gin.H{
			"alerts": alerts,
			"pagination": gin.H{
				"page":        page,
				"limit":       limit,
				"total":       total,
				"total_pages": totalPages(total, limit),
			},
		},
	})
}

// GetOpenAlerts handles GET /alerts/open
func (h *AlertHandler) GetOpenAlerts(c *gin.Context) {
	alerts, err := h.alertService.GetOpenAlerts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve open alerts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Open alerts retrieved successfully",
		"data": gin.H{
			"alerts": alerts,
			"count":  len(alerts),
		},
	})
}

// GetAlert handles GET /alerts/:id
func (h *AlertHandler) GetAlert(c *gin.Context) {
	alertID := c.Param("id")

	a, err := h.alertService.GetAlert(alertID)
	if err != nil {
		if errors.Is(err, alert.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Alert not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve alert",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert retrieved successfully",
		"data":    a,
	})
}

// GetAlertsByBatch handles GET /alerts/batch/:batchId
func (h *AlertHandler) GetAlertsByBatch(c *gin.Context) {
	batchID := c.Param("batchId")

	alerts, err := h.alertService.GetAlertsByBatch(batchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve alerts for batch",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alerts retrieved successfully",
		"data": gin.H{
			"alerts": alerts,
			"count":  len(alerts),
		},
	})
}

// AcknowledgeAlert handles POST /alerts/:id/acknowledge
func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	alertID := c.Param("id")

	acknowledgedBy, exists := middleware.GetUserEmailFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	a, err := h.alertService.AcknowledgeAlert(alertID, acknowledgedBy)
	if err != nil {
		if errors.Is(err, alert.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Alert not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to acknowledge alert",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert acknowledged successfully",
		"data":    a,
	})
}
