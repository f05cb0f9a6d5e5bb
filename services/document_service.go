package services

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/utils"
)

// qrSize is the pixel size of generated QR images.
const qrSize = 256

// DocumentService produces the printable work order PDF and the QR code
// pointing at an order's public tracking page.
type DocumentService struct {
	settings *SettingsService
	cfg      *config.Config
}

var documentServiceInstance *DocumentService

// InitDocumentService initializes the document service
func InitDocumentService(settings *SettingsService, cfg *config.Config) *DocumentService {
	documentServiceInstance = &DocumentService{settings: settings, cfg: cfg}
	return documentServiceInstance
}

// GetDocumentService returns the initialized document service instance
func GetDocumentService() *DocumentService {
	return documentServiceInstance
}

// SetDocumentService sets the document service instance (primarily for testing)
func SetDocumentService(s *DocumentService) {
	documentServiceInstance = s
}

// PublicURL builds the public tracking URL for an order.
func (s *DocumentService) PublicURL(order *models.Order) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/t/" + order.PublicToken
}

// WhatsAppLink builds a share link with a prefilled tracking message.
func (s *DocumentService) WhatsAppLink(order *models.Order) string {
	text := fmt.Sprintf("Hi %s, here is the status of your order #%d: %s",
		order.Client.Name, order.ID, s.PublicURL(order))
	return "https://wa.me/?text=" + url.QueryEscape(text)
}

// QRPNG renders a QR code PNG for the given URL.
func (s *DocumentService) QRPNG(target string) ([]byte, error) {
	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// WorkOrderPDF renders the A5-landscape work order: company header and
// logo, order identity, client and device info, problem and diagnosis
// text, cost figures, the public tracking QR, and the shop's terms.
func (s *DocumentService) WorkOrderPDF(order *models.Order) ([]byte, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	publicURL := s.PublicURL(order)
	qrPNG, err := s.QRPNG(publicURL)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	// Logo, when one is stored locally. A missing file is not an error.
	if settings.LogoFilename != "" && s.cfg.LogoStorage == config.LogoStorageLocal {
		logoPath := filepath.Join(s.cfg.UploadDir, settings.LogoFilename)
		if _, statErr := os.Stat(logoPath); statErr == nil {
			pdf.ImageOptions(logoPath, 10, 5, 30, 20, false, gofpdf.ImageOptions{}, 0, "")
		}
	}

	// Company header
	company := settings.CompanyName
	if company == "" {
		company = "Repair Shop"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(45, 15, tr(company))
	contact := joinNonEmpty(" - ", settings.Address, settings.Phone, settings.Email)
	if contact != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.Text(45, 21, tr(contact))
	}

	// Order identity
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(10, 32, tr(fmt.Sprintf("Order #%d - %s", order.ID, order.StatusLabel())))
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(10, 38, "Received: "+order.CreatedAt.Format("02/01/2006 15:04"))

	// Client
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(10, 48, "Client")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(10, 54, tr(joinNonEmpty("  ", order.Client.Name, order.Client.Phone, order.Client.Email)))

	// Device
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(10, 64, "Device")
	pdf.SetFont("Helvetica", "", 10)
	device := fmt.Sprintf("%s %s - IMEI: %s - Accessories: %s",
		order.Brand, order.Model, orDash(order.IMEI), orDash(order.Accessories))
	pdf.Text(10, 70, tr(device))

	// Reported problem
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(10, 80, "Reported problem")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(10, 82)
	pdf.MultiCell(125, 4.5, tr(order.ProblemReport), "", "L", false)

	// Diagnosis
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(10, 100, "Diagnosis")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(10, 102)
	pdf.MultiCell(125, 4.5, tr(orDash(order.Diagnosis)), "", "L", false)

	// Costs
	cost := "-"
	if order.EstimatedCost.Valid {
		cost = utils.FormatMoney(order.EstimatedCost.Decimal)
	}
	deposit := "-"
	if order.Deposit.IsPositive() {
		deposit = utils.FormatMoney(order.Deposit)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(10, 118, "Costs")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(10, 124, tr(fmt.Sprintf("Estimated cost: %s - Deposit: %s", cost, deposit)))

	// Public tracking QR and link
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pageW-60, 42, "Track online:")
	pdf.SetFont("Helvetica", "", 8)
	link := publicURL
	if len(link) > 60 {
		link = link[:60] + "..."
	}
	pdf.Text(pageW-60, 46, link)
	qrOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("tracking-qr", qrOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("tracking-qr", pageW-60, 48, 40, 40, false, qrOpts, 0, "")

	// Terms / warranty text along the bottom edge
	if settings.Terms != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(10, 128)
		pdf.MultiCell(pageW-20, 3.5, tr(strings.TrimSpace(settings.Terms)), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
