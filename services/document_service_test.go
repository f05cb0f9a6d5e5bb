package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
)

func setupDocumentTest(t *testing.T) *DocumentService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Settings{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	settings, err := InitSettingsService(db)
	require.NoError(t, err)
	require.NoError(t, settings.Update(&models.Settings{
		CompanyName: "TecnoFix",
		Address:     "San Martín 123",
		Phone:       "261-555-0000",
		Terms:       "90 day warranty on repairs. Devices not picked up within 60 days are considered abandoned.",
	}))

	cfg := &config.Config{
		BaseURL:     "http://localhost:8080/",
		UploadDir:   t.TempDir(),
		LogoStorage: config.LogoStorageLocal,
	}
	return InitDocumentService(settings, cfg)
}

func documentTestOrder() *models.Order {
	return &models.Order{
		ID:       7,
		ClientID: 1,
		Client: models.Client{
			ID:    1,
			Name:  "Juan Pérez",
			Phone: "261-555-1234",
		},
		Brand:         "Samsung",
		Model:         "A54",
		IMEI:          "359871234567890",
		Accessories:   "Case",
		ProblemReport: "Does not charge",
		Diagnosis:     "Charging connector",
		EstimatedCost: decimal.NewNullDecimal(decimal.NewFromInt(45000)),
		Deposit:       decimal.NewFromInt(10000),
		Status:        models.StatusInProgress,
		PublicToken:   "ABCDEFGHJ2",
	}
}

func TestPublicURL(t *testing.T) {
	svc := setupDocumentTest(t)
	order := documentTestOrder()

	// The trailing slash on the base URL must not double up
	assert.Equal(t, "http://localhost:8080/t/ABCDEFGHJ2", svc.PublicURL(order))
}

func TestWhatsAppLink(t *testing.T) {
	svc := setupDocumentTest(t)
	order := documentTestOrder()

	link := svc.WhatsAppLink(order)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/?text="))
	assert.Contains(t, link, "%23"+"7", "The order number should be in the message")
	assert.NotContains(t, link, " ", "The message must be URL-encoded")
}

func TestQRPNG(t *testing.T) {
	svc := setupDocumentTest(t)

	png, err := svc.QRPNG("http://localhost:8080/t/ABCDEFGHJ2")
	require.NoError(t, err)
	require.True(t, len(png) > 8)
	assert.Equal(t, "PNG", string(png[1:4]), "Output should be a PNG image")
}

func TestWorkOrderPDF(t *testing.T) {
	svc := setupDocumentTest(t)
	order := documentTestOrder()

	pdf, err := svc.WorkOrderPDF(order)
	require.NoError(t, err)
	require.True(t, len(pdf) > 5)
	assert.Equal(t, "%PDF-", string(pdf[:5]), "Output should be a PDF document")
}

func TestWorkOrderPDFWithSparseOrder(t *testing.T) {
	svc := setupDocumentTest(t)

	// No IMEI, no diagnosis, no estimate, no deposit
	order := &models.Order{
		ID:            1,
		Client:        models.Client{Name: "Ana Gómez"},
		Brand:         "Motorola",
		Model:         "G52",
		ProblemReport: "Broken screen",
		Status:        models.StatusReceived,
		PublicToken:   "ZYXWVUTSRQ",
	}

	pdf, err := svc.WorkOrderPDF(order)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(pdf[:5]))
}
