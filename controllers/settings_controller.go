package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matias-herrera/repairshop-api/services"
	"github.com/matias-herrera/repairshop-api/utils"
)

// UpdateSettingsRequest represents the request body for updating the shop profile
type UpdateSettingsRequest struct {
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Terms       string `json:"terms"`
}

// GetSettings handles GET /api/v1/settings - returns the shop profile
func GetSettings(c *gin.Context) {
	settings, err := services.GetSettingsService().Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load settings",
			},
		})
		return
	}

	logoURL := ""
	if settings.LogoFilename != "" {
		if url, err := services.GetLogoStorage().URL(settings.LogoFilename); err == nil {
			logoURL = url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"settings": settings,
			"logo_url": logoURL,
		},
	})
}

// UpdateSettings handles PUT /api/v1/settings - updates the shop profile
func UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid settings data",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.GetSettingsService()
	settings, err := svc.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load settings",
			},
		})
		return
	}

	settings.CompanyName = strings.TrimSpace(req.CompanyName)
	settings.Address = strings.TrimSpace(req.Address)
	settings.Phone = strings.TrimSpace(req.Phone)
	settings.Email = strings.TrimSpace(req.Email)
	settings.Terms = strings.TrimSpace(req.Terms)

	if err := svc.Update(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// UploadLogo handles POST /api/v1/settings/logo - stores a new shop logo
func UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A logo file is required",
			},
		})
		return
	}

	storage := services.GetLogoStorage()
	name, err := storage.Save(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store logo",
			},
		})
		return
	}

	svc := services.GetSettingsService()
	settings, err := svc.Get()
	if err == nil && settings.LogoFilename != "" && settings.LogoFilename != name {
		// Best effort; a stale file is not worth failing the upload.
		_ = storage.Delete(settings.LogoFilename)
	}

	if err := svc.SetLogo(name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save logo filename",
			},
		})
		return
	}

	logoURL, _ := storage.URL(name)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"logo_filename": name,
			"logo_url":      logoURL,
		},
	})
}
