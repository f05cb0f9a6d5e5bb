package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/services"
	"github.com/matias-herrera/repairshop-api/utils"
)

// OrderRequest represents the request body for creating or updating an order.
// Monetary fields arrive as strings; malformed values are treated as absent,
// not as errors.
type OrderRequest struct {
	ClientID      uint   `json:"client_id" binding:"required"`
	Brand         string `json:"brand" binding:"required"`
	Model         string `json:"model" binding:"required"`
	IMEI          string `json:"imei"`
	Accessories   string `json:"accessories"`
	UnlockCode    string `json:"unlock_code"`
	ProblemReport string `json:"problem_report" binding:"required"`
	Diagnosis     string `json:"diagnosis"`
	EstimatedCost string `json:"estimated_cost"`
	Deposit       string `json:"deposit"`
	Status        string `json:"status"` // creation only; defaults to "received"
	Note          string `json:"note"`   // creation only; initial history note
}

// ChangeStatusRequest represents the request body for a status transition
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ListOrders handles GET /api/v1/orders - lists orders with optional
// free-text search (id, IMEI, brand, model, client name, client tax id)
// and status filter
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Order{}).Preload("Client").Joins("Client")
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			`CAST(orders.id AS TEXT) LIKE ? OR LOWER(orders.imei) LIKE ? OR LOWER(orders.brand) LIKE ? OR LOWER(orders.model) LIKE ? OR LOWER("Client".name) LIKE ? OR LOWER("Client".tax_id) LIKE ?`,
			like, like, like, like, like, like,
		)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("orders.status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("orders.created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// CreateOrder handles POST /api/v1/orders - creates a new order with its
// initial status history entry and deposit ledger entry
func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Client, brand, model and problem report are required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, req.ClientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CLIENT",
				"message": "A valid client must be selected",
			},
		})
		return
	}

	order := models.Order{
		ClientID:      client.ID,
		Brand:         strings.TrimSpace(req.Brand),
		Model:         strings.TrimSpace(req.Model),
		IMEI:          strings.TrimSpace(req.IMEI),
		Accessories:   strings.TrimSpace(req.Accessories),
		UnlockCode:    strings.TrimSpace(req.UnlockCode),
		ProblemReport: strings.TrimSpace(req.ProblemReport),
		Diagnosis:     strings.TrimSpace(req.Diagnosis),
		Status:        strings.TrimSpace(req.Status),
	}
	if cost := utils.ParseAmount(req.EstimatedCost); cost != nil {
		order.EstimatedCost = decimal.NewNullDecimal(*cost)
	}
	if dep := utils.ParseAmount(req.Deposit); dep != nil {
		order.Deposit = *dep
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = "Order received"
	}

	if err := services.GetLifecycleService().CreateOrder(&order, note); err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown order status",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Load the client relationship to return complete data
	if err := db.Preload("Client").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns an order with its
// history, parts, ledger entries and share links
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Client").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
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

	var parts []models.Part
	if err := db.Where("order_id = ?", order.ID).Order("id ASC").Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load parts",
			},
		})
		return
	}
	partsTotal := decimal.Zero
	for _, p := range parts {
		partsTotal = partsTotal.Add(p.Cost)
	}

	entries, err := services.GetLedgerService().EntriesForOrder(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cash entries",
			},
		})
		return
	}

	docs := services.GetDocumentService()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":         order,
			"status_label":  order.StatusLabel(),
			"history":       history,
			"parts":         parts,
			"parts_total":   partsTotal,
			"cash_entries":  entries,
			"public_url":    docs.PublicURL(&order),
			"whatsapp_link": docs.WhatsAppLink(&order),
		},
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - updates an order's fields.
// Status is not touched here; transitions go through the status endpoint.
func UpdateOrder(c *gin.Context) {
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

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Client, brand, model and problem report are required",
				"details": err.Error(),
			},
		})
		return
	}

	var client models.Client
	if err := db.First(&client, req.ClientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CLIENT",
				"message": "A valid client must be selected",
			},
		})
		return
	}

	order.ClientID = client.ID
	order.Brand = strings.TrimSpace(req.Brand)
	order.Model = strings.TrimSpace(req.Model)
	order.IMEI = strings.TrimSpace(req.IMEI)
	order.Accessories = strings.TrimSpace(req.Accessories)
	order.UnlockCode = strings.TrimSpace(req.UnlockCode)
	order.ProblemReport = strings.TrimSpace(req.ProblemReport)
	order.Diagnosis = strings.TrimSpace(req.Diagnosis)
	order.EstimatedCost = decimal.NullDecimal{}
	if cost := utils.ParseAmount(req.EstimatedCost); cost != nil {
		order.EstimatedCost = decimal.NewNullDecimal(*cost)
	}
	order.Deposit = decimal.Zero
	if dep := utils.ParseAmount(req.Deposit); dep != nil {
		order.Deposit = *dep
	}

	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status - applies a
// status transition with its ledger side-effects
func ChangeOrderStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Target status is required",
				"details": err.Error(),
			},
		})
		return
	}

	orderID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	order, err := services.GetLifecycleService().ChangeStatus(orderID, req.Status, strings.TrimSpace(req.Note))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown order status",
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
					"message": "Failed to change order status",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
