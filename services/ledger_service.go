package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/utils"
)

var (
	ErrInvalidDirection  = errors.New("direction must be \"in\" or \"out\"")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrMissingConcept    = errors.New("concept is required")
)

// LedgerService answers balance queries over the append-only cash ledger
// and records manual entries. Totals are recomputed from the full entry
// set on every call; nothing incremental is persisted.
type LedgerService struct {
	db *gorm.DB
}

var ledgerServiceInstance *LedgerService

// InitLedgerService initializes the ledger service
func InitLedgerService(db *gorm.DB) *LedgerService {
	ledgerServiceInstance = &LedgerService{db: db}
	return ledgerServiceInstance
}

// GetLedgerService returns the initialized ledger service instance
func GetLedgerService() *LedgerService {
	return ledgerServiceInstance
}

// SetLedgerService sets the ledger service instance (primarily for testing)
func SetLedgerService(s *LedgerService) {
	ledgerServiceInstance = s
}

// Total sums the amounts of every entry with the given direction. An
// empty ledger yields zero.
func (s *LedgerService) Total(direction string) (decimal.Decimal, error) {
	if !models.IsValidDirection(direction) {
		return decimal.Zero, ErrInvalidDirection
	}

	var amounts []decimal.Decimal
	err := s.db.Model(&models.CashEntry{}).
		Where("direction = ?", direction).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total cash entries: %w", err)
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// Balance returns Total(in) minus Total(out).
func (s *LedgerService) Balance() (decimal.Decimal, error) {
	in, err := s.Total(models.DirectionIn)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := s.Total(models.DirectionOut)
	if err != nil {
		return decimal.Zero, err
	}
	return in.Sub(out), nil
}

// Totals returns both direction totals and the balance in one call, for
// the cash register view and the dashboard.
func (s *LedgerService) Totals() (in, out, balance decimal.Decimal, err error) {
	in, err = s.Total(models.DirectionIn)
	if err != nil {
		return
	}
	out, err = s.Total(models.DirectionOut)
	if err != nil {
		return
	}
	balance = in.Sub(out)
	return
}

// EntriesForOrder returns an order's ledger entries in chronological order.
func (s *LedgerService) EntriesForOrder(orderID uint) ([]models.CashEntry, error) {
	var entries []models.CashEntry
	err := s.db.Where("order_id = ?", orderID).
		Order("date ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cash entries: %w", err)
	}
	return entries, nil
}

// RecentEntries returns the most recent ledger entries, newest first.
func (s *LedgerService) RecentEntries(limit int) ([]models.CashEntry, error) {
	var entries []models.CashEntry
	err := s.db.Order("date DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cash entries: %w", err)
	}
	return entries, nil
}

// CreateManualEntry validates and appends a hand-entered ledger movement.
func (s *LedgerService) CreateManualEntry(direction, concept string, amount decimal.Decimal, orderID *uint) (*models.CashEntry, error) {
	if !models.IsValidDirection(direction) {
		return nil, ErrInvalidDirection
	}
	if concept == "" {
		return nil, ErrMissingConcept
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	if orderID != nil {
		var count int64
		if err := s.db.Model(&models.Order{}).Where("id = ?", *orderID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to look up order: %w", err)
		}
		if count == 0 {
			return nil, ErrOrderNotFound
		}
	}

	entry := models.CashEntry{
		Direction: direction,
		Reason:    models.ReasonManual,
		Concept:   concept,
		Amount:    utils.Round2(amount),
		OrderID:   orderID,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create cash entry: %w", err)
	}
	return &entry, nil
}
