package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
)

// GetPublicOrder handles GET /t/:token - the unauthenticated tracking
// page. It resolves an order by its opaque token and returns status and
// history without exposing internal identifiers.
func GetPublicOrder(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.Where("public_token = ?", c.Param("token")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var history []models.StatusHistory
	if err := db.Where("order_id = ?", order.ID).Order("created_at DESC, id DESC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load status history",
			},
		})
		return
	}

	publicHistory := make([]gin.H, 0, len(history))
	for i := range history {
		h := &history[i]
		publicHistory = append(publicHistory, gin.H{
			"status":       h.Status,
			"status_label": h.StatusLabel(),
			"note":         h.Note,
			"created_at":   h.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status":       order.Status,
			"status_label": order.StatusLabel(),
			"brand":        order.Brand,
			"model":        order.Model,
			"created_at":   order.CreatedAt,
			"updated_at":   order.UpdatedAt,
			"history":      publicHistory,
		},
	})
}
