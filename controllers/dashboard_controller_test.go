package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/services"
)

func newDashboardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/dashboard", Dashboard)
	return router
}

func TestDashboardEmpty(t *testing.T) {
	setupOrderTestDB(t)
	router := newDashboardRouter()

	w := performJSON(t, router, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["total_orders"])
	assert.EqualValues(t, 0, data["open_orders"])
	assert.Equal(t, "0", data["balance"])
	assert.Empty(t, data["recent_orders"])
}

func TestDashboardCounts(t *testing.T) {
	setupOrderTestDB(t)
	router := newDashboardRouter()

	lifecycle := services.GetLifecycleService()

	// One open, one ready, one delivered (collecting its final payment)
	createTestOrder(t, "", "")
	ready := createTestOrder(t, "", "")
	_, err := lifecycle.ChangeStatus(ready.ID, models.StatusReady, "")
	require.NoError(t, err)
	delivered := createTestOrder(t, "45000", "10000")
	_, err = lifecycle.ChangeStatus(delivered.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	w := performJSON(t, router, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.EqualValues(t, 3, data["total_orders"])
	assert.EqualValues(t, 1, data["open_orders"])
	assert.EqualValues(t, 1, data["ready_orders"])
	assert.EqualValues(t, 1, data["delivered_orders"])
	assert.Len(t, data["recent_orders"].([]interface{}), 3)

	// Deposit plus final payment, nothing out
	assert.Equal(t, "45000", data["balance"])
}
