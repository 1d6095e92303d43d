// internal/interfaces/http/handlers/expiry.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/alert"
	"github.com/your-org/freshtrack-backend/internal/domain/expiry"
	"github.com/your-org/freshtrack-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// ExpiryHandler exposes the reconciliation sweep over HTTP
type ExpiryHandler struct {
	engine *expiry.Engine
	config *config.Config
}

// NewExpiryHandler creates a new expiry handler
func NewExpiryHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger, locker expiry.Locker) *ExpiryHandler {
	inventoryService := inventory.NewService(db, cfg, logger)
	alertService := alert.NewService(db, cfg)
	return &ExpiryHandler{
		engine: expiry.NewEngine(cfg, logger, inventoryService, alertService, locker),
		config: cfg,
	}
}

// TriggerSweep handles POST /expiry/sweep (admin only)
func (h *ExpiryHandler) TriggerSweep(c *gin.Context) {
	result, err := h.engine.RunSweep(c.Request.Context(), time.Now().UTC())
	if err != nil {
		if errors.Is(err, expiry.ErrSweepInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An expiry sweep is already in progress",
			})
			return
		}
		// Partial progress is still reported alongside the failure
		if result != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Sweep completed with errors",
				"data":  result,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to run expiry sweep",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expiry sweep completed successfully",
		"data":    result,
	})
}
