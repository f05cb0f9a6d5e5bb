package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/utils"
)

var (
	// ErrInvalidStatus is returned when a status outside the enumeration
	// is submitted. Nothing is mutated in that case.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrOrderNotFound is returned when the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// LifecycleService owns order creation and status transitions, including
// the ledger entries those transitions produce. Every operation runs in a
// single transaction: status, history, and ledger commit together or not
// at all.
type LifecycleService struct {
	db *gorm.DB
}

var lifecycleServiceInstance *LifecycleService

// InitLifecycleService initializes the lifecycle service
func InitLifecycleService(db *gorm.DB) *LifecycleService {
	lifecycleServiceInstance = &LifecycleService{db: db}
	return lifecycleServiceInstance
}

// GetLifecycleService returns the initialized lifecycle service instance
func GetLifecycleService() *LifecycleService {
	return lifecycleServiceInstance
}

// SetLifecycleService sets the lifecycle service instance (primarily for testing)
func SetLifecycleService(s *LifecycleService) {
	lifecycleServiceInstance = s
}

// CreateOrder persists a new order together with its initial status
// history entry and, when a deposit was taken, the matching ledger entry.
func (s *LifecycleService) CreateOrder(order *models.Order, note string) error {
	if order.Status == "" {
		order.Status = models.StatusReceived
	}
	if !models.IsValidStatus(order.Status) {
		return ErrInvalidStatus
	}

	token, err := models.GenPublicToken()
	if err != nil {
		return err
	}
	order.PublicToken = token

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		history := models.StatusHistory{
			OrderID: order.ID,
			Status:  order.Status,
			Note:    note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		if order.Deposit.IsPositive() {
			entry := models.CashEntry{
				Direction: models.DirectionIn,
				Reason:    models.ReasonDeposit,
				Concept:   fmt.Sprintf("Deposit order #%d", order.ID),
				Amount:    utils.Round2(order.Deposit),
				OrderID:   &order.ID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to record deposit: %w", err)
			}
		}

		return nil
	})
}

// ChangeStatus validates and applies a status transition: it updates the
// order, appends a history entry, and appends at most one reconciliation
// ledger entry, all within one transaction.
func (s *LifecycleService) ChangeStatus(orderID uint, newStatus, note string) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx
		// Row-level lock serializes concurrent transitions on the same
		// order so the reconciliation reads a consistent paid/refunded
		// total. SQLite has no FOR UPDATE; it serializes writers itself.
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		order.Status = newStatus
		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		history := models.StatusHistory{
			OrderID: order.ID,
			Status:  newStatus,
			Note:    note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		return s.reconcile(tx, &order, newStatus)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// reconcile applies the ledger side-effect of a status transition. The two
// rules are mutually exclusive; no other transition touches the ledger.
// Both rules account for entries recorded so far, so re-triggering the
// same transition adds nothing once the amount is covered.
func (s *LifecycleService) reconcile(tx *gorm.DB, order *models.Order, newStatus string) error {
	switch newStatus {
	case models.StatusDelivered:
		// Collect the remaining balance when the device is handed over.
		if !order.EstimatedCost.Valid || !order.EstimatedCost.Decimal.IsPositive() {
			return nil
		}
		alreadyPaid, err := sumOrderEntries(tx, order.ID, models.DirectionIn, "")
		if err != nil {
			return err
		}
		remaining := utils.Round2(order.EstimatedCost.Decimal.Sub(alreadyPaid))
		if !remaining.IsPositive() {
			// Fully paid, or overpaid; overpayment is not reconciled.
			return nil
		}
		entry := models.CashEntry{
			Direction: models.DirectionIn,
			Reason:    models.ReasonFinalPayment,
			Concept:   fmt.Sprintf("Final payment order #%d", order.ID),
			Amount:    remaining,
			OrderID:   &order.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record final payment: %w", err)
		}

	case models.StatusCancelled:
		// Return whatever part of the deposit has not been refunded yet.
		if !order.Deposit.IsPositive() {
			return nil
		}
		alreadyRefunded, err := sumOrderEntries(tx, order.ID, models.DirectionOut, models.ReasonDepositRefund)
		if err != nil {
			return err
		}
		toRefund := utils.Round2(order.Deposit.Sub(alreadyRefunded))
		if !toRefund.IsPositive() {
			return nil
		}
		entry := models.CashEntry{
			Direction: models.DirectionOut,
			Reason:    models.ReasonDepositRefund,
			Concept:   fmt.Sprintf("Deposit refund order #%d", order.ID),
			Amount:    toRefund,
			OrderID:   &order.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record deposit refund: %w", err)
		}
	}

	return nil
}

// sumOrderEntries totals an order's ledger amounts for one direction,
// optionally restricted to a single reason. Summation happens in decimal
// arithmetic, never in SQL floats.
func sumOrderEntries(tx *gorm.DB, orderID uint, direction, reason string) (decimal.Decimal, error) {
	q := tx.Model(&models.CashEntry{}).
		Where("order_id = ? AND direction = ?", orderID, direction)
	if reason != "" {
		q = q.Where("reason = ?", reason)
	}

	var amounts []decimal.Decimal
	if err := q.Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum cash entries: %w", err)
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}
