// internal/interfaces/http/handlers/alert_rule.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/alert"
	"gorm.io/gorm"
)

// AlertRuleHandler handles alert rule endpoints
type AlertRuleHandler struct {
	alertService *alert.Service
	config       *config.Config
}

// NewAlertRuleHandler creates a new alert rule handler
func NewAlertRuleHandler(db *gorm.DB, cfg *config.Config) *AlertRuleHandler {
	return &AlertRuleHandler{
		alertService: alert.NewService(db, cfg),
		config:       cfg,
	}
}

// CreateRule handles POST /alert-rules
func (h *AlertRuleHandler) CreateRule(c *gin.Context) {
	var req alert.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rule, err := h.alertService.CreateRule(&req)
	if err != nil {
		if errors.Is(err, alert.ErrRuleExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Alert rule created successfully",
		"data":    rule,
	})
}

// GetRules handles GET /alert-rules
func (h *AlertRuleHandler) GetRules(c *gin.Context) {
	var active *bool
	if activeParam := c.Query("active"); activeParam != "" {
		parsed, err := strconv.ParseBool(activeParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid active filter",
			})
			return
		}
		active = &parsed
	}

	rules, err := h.alertService.GetRules(active)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve alert rules",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert rules retrieved successfully",
		"data": gin.H{
			"rules": rules,
			"count": len(rules),
		},
	})
}

// GetDefaultRule handles GET /alert-rules/default. Bootstraps the configured
// default rule when no active rule exists, same as the sweep would.
func (h *AlertRuleHandler) GetDefaultRule(c *gin.Context) {
	rules, err := h.alertService.EnsureDefaultRule()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve default alert rule",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default alert rule retrieved successfully",
		"data":    rules[0],
	})
}

// GetRule handles GET /alert-rules/:id
func (h *AlertRuleHandler) GetRule(c *gin.Context) {
	ruleID := c.Param("id")

	rule, err := h.alertService.GetRule(ruleID)
	if err != nil {
		if errors.Is(err, alert.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Alert rule not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve alert rule",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert rule retrieved successfully",
		"data":    rule,
	})
}

// UpdateRule handles PUT /alert-rules/:id
func (h *AlertRuleHandler) UpdateRule(c *gin.Context) {
	ruleID := c.Param("id")

	var req alert.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rule, err := h.alertService.UpdateRule(ruleID, &req)
	if err != nil {
		if errors.Is(err, alert.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Alert rule not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert rule updated successfully",
		"data":    rule,
	})
}

// DeleteRule handles DELETE /alert-rules/:id
func (h *AlertRuleHandler) DeleteRule(c *gin.Context) {
	ruleID := c.Param("id")

	if err := h.alertService.DeleteRule(ruleID); err != nil {
		if errors.Is(err, alert.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Alert rule not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete alert rule",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert rule deleted successfully",
	})
}
