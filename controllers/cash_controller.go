package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matias-herrera/repairshop-api/services"
	"github.com/matias-herrera/repairshop-api/utils"
)

// recentEntriesLimit caps the cash register listing.
const recentEntriesLimit = 200

// CreateCashEntryRequest represents the request body for a manual ledger entry
type CreateCashEntryRequest struct {
	Direction string `json:"direction" binding:"required"`
	Concept   string `json:"concept" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	OrderID   *uint  `json:"order_id"`
}

// GetCash handles GET /api/v1/cash - returns direction totals, the running
// balance and the most recent entries
func GetCash(c *gin.Context) {
	ledger := services.GetLedgerService()

	in, out, balance, err := ledger.Totals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute cash totals",
			},
		})
		return
	}

	entries, err := ledger.RecentEntries(recentEntriesLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list cash entries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_in":  in,
			"total_out": out,
			"balance":   balance,
			"entries":   entries,
		},
	})
}

// CreateCashEntry handles POST /api/v1/cash - records a manual ledger entry
func CreateCashEntry(c *gin.Context) {
	var req CreateCashEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Direction, concept and amount are required",
				"details": err.Error(),
			},
		})
		return
	}

	amount := utils.ParseAmount(req.Amount)
	if amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Amount must be a number greater than zero",
			},
		})
		return
	}

	entry, err := services.GetLedgerService().CreateManualEntry(
		req.Direction, strings.TrimSpace(req.Concept), *amount, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDirection),
			errors.Is(err, services.ErrNonPositiveAmount),
			errors.Is(err, services.ErrMissingConcept):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to create cash entry",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
	})
}
