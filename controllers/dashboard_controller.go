package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/services"
)

// openStatuses are the states counted as "in the shop".
var openStatuses = []string{
	models.StatusReceived,
	models.StatusDiagnosis,
	models.StatusInProgress,
	models.StatusAwaitingParts,
}

// Dashboard handles GET /api/v1/dashboard - order counts, the most recent
// orders and the cash balance
func Dashboard(c *gin.Context) {
	db := config.GetDB()

	var total, open, ready, delivered int64
	if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
		dashboardDBError(c)
		return
	}
	if err := db.Model(&models.Order{}).Where("status IN ?", openStatuses).Count(&open).Error; err != nil {
		dashboardDBError(c)
		return
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.StatusReady).Count(&ready).Error; err != nil {
		dashboardDBError(c)
		return
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.StatusDelivered).Count(&delivered).Error; err != nil {
		dashboardDBError(c)
		return
	}

	var recent []models.Order
	if err := db.Preload("Client").Order("created_at DESC").Limit(8).Find(&recent).Error; err != nil {
		dashboardDBError(c)
		return
	}

	balance, err := services.GetLedgerService().Balance()
	if err != nil {
		dashboardDBError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_orders":     total,
			"open_orders":      open,
			"ready_orders":     ready,
			"delivered_orders": delivered,
			"recent_orders":    recent,
			"balance":          balance,
		},
	})
}

func dashboardDBError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to load dashboard data",
		},
	})
}
