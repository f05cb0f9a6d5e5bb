package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/utils"
)

// AddPartRequest represents the request body for attaching a spare part
type AddPartRequest struct {
	Description string `json:"description" binding:"required"`
	Cost        string `json:"cost"`
}

// AddPart handles POST /api/v1/orders/:id/parts - attaches a spare part
// line item to an order
func AddPart(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var req AddPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Part description is required",
				"details": err.Error(),
			},
		})
		return
	}

	cost := decimal.Zero
	if parsed := utils.ParseAmount(req.Cost); parsed != nil {
		cost = utils.Round2(*parsed)
	}

	part := models.Part{
		OrderID:     order.ID,
		Description: strings.TrimSpace(req.Description),
		Cost:        cost,
	}
	if err := db.Create(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to add part",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    part,
	})
}

// DeletePart handles DELETE /api/v1/orders/:id/parts/:partID - removes a
// spare part line item
func DeletePart(c *gin.Context) {
	db := config.GetDB()

	var part models.Part
	err := db.Where("order_id = ?", c.Param("id")).First(&part, c.Param("partID")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PART_NOT_FOUND",
				"message": "Part not found",
			},
		})
		return
	}

	if err := db.Delete(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete part",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Part deleted",
	})
}
