package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/services"
)

// OrderPDF handles GET /api/v1/orders/:id/pdf - returns the printable
// work order
func OrderPDF(c *gin.Context) {
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

	pdf, err := services.GetDocumentService().WorkOrderPDF(&order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOCUMENT_ERROR",
				"message": "Failed to render work order PDF",
			},
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="order_%d.pdf"`, order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// OrderQR handles GET /api/v1/orders/:id/qr.png - returns the tracking QR
// code as a standalone image
func OrderQR(c *gin.Context) {
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

	docs := services.GetDocumentService()
	png, err := docs.QRPNG(docs.PublicURL(&order))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOCUMENT_ERROR",
				"message": "Failed to render QR code",
			},
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
