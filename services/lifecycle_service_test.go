package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/matias-herrera/repairshop-api/models"
)

func setupLifecycleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Settings{},
		&models.Client{},
		&models.Order{},
		&models.StatusHistory{},
		&models.Part{},
		&models.CashEntry{},
		&models.User{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// newTestOrder creates a client and an order through the lifecycle
// service. estimated and deposit are decimal strings; estimated may be
// empty for a null estimated cost.
func newTestOrder(t *testing.T, svc *LifecycleService, db *gorm.DB, estimated, deposit string) *models.Order {
	t.Helper()

	client := models.Client{Name: "Juan Pérez", TaxID: "20-11222333-4"}
	require.NoError(t, db.Create(&client).Error)

	order := models.Order{
		ClientID:      client.ID,
		Brand:         "Samsung",
		Model:         "A54",
		ProblemReport: "Does not charge",
	}
	if estimated != "" {
		d, err := decimal.NewFromString(estimated)
		require.NoError(t, err)
		order.EstimatedCost = decimal.NewNullDecimal(d)
	}
	if deposit != "" {
		d, err := decimal.NewFromString(deposit)
		require.NoError(t, err)
		order.Deposit = d
	}

	require.NoError(t, svc.CreateOrder(&order, "Intake"))
	return &order
}

func orderEntries(t *testing.T, db *gorm.DB, orderID uint) []models.CashEntry {
	t.Helper()
	var entries []models.CashEntry
	require.NoError(t, db.Where("order_id = ?", orderID).Order("id ASC").Find(&entries).Error)
	return entries
}

func orderHistory(t *testing.T, db *gorm.DB, orderID uint) []models.StatusHistory {
	t.Helper()
	var history []models.StatusHistory
	require.NoError(t, db.Where("order_id = ?", orderID).Order("created_at DESC, id DESC").Find(&history).Error)
	return history
}

func TestCreateOrderDefaults(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "", "")

	assert.Equal(t, models.StatusReceived, order.Status, "New order should default to received")
	assert.Len(t, order.PublicToken, 10, "Public token should be 10 characters")
	for _, r := range order.PublicToken {
		assert.True(t, strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", r),
			"Token character %q should come from the fixed alphabet", r)
	}

	history := orderHistory(t, db, order.ID)
	require.Len(t, history, 1, "Creation should append one history entry")
	assert.Equal(t, models.StatusReceived, history[0].Status)
	assert.Equal(t, "Intake", history[0].Note)

	assert.Empty(t, orderEntries(t, db, order.ID), "No deposit means no ledger entry")
}

func TestCreateOrderWithDeposit(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "10000")

	entries := orderEntries(t, db, order.ID)
	require.Len(t, entries, 1, "A deposit should produce exactly one ledger entry")
	assert.Equal(t, models.DirectionIn, entries[0].Direction)
	assert.Equal(t, models.ReasonDeposit, entries[0].Reason)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(10000)),
		"Deposit entry amount should be 10000, got %s", entries[0].Amount)
	assert.Contains(t, entries[0].Concept, fmt.Sprintf("#%d", order.ID))
}

func TestCreateOrderInvalidStatus(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	client := models.Client{Name: "Test", TaxID: "1"}
	require.NoError(t, db.Create(&client).Error)

	order := models.Order{
		ClientID:      client.ID,
		Brand:         "Samsung",
		Model:         "A54",
		ProblemReport: "Broken screen",
		Status:        "exploded",
	}
	err := svc.CreateOrder(&order, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count, "No order should be persisted")
}

func TestChangeStatusInvalid(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "10000")
	entriesBefore := orderEntries(t, db, order.ID)
	historyBefore := orderHistory(t, db, order.ID)

	_, err := svc.ChangeStatus(order.ID, "exploded", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.StatusReceived, reloaded.Status, "Status should be unchanged")
	assert.Len(t, orderHistory(t, db, order.ID), len(historyBefore), "History should be unchanged")
	assert.Len(t, orderEntries(t, db, order.ID), len(entriesBefore), "Ledger should be unchanged")
}

func TestChangeStatusNotFound(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	_, err := svc.ChangeStatus(9999, models.StatusReady, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestChangeStatusAppendsHistory(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "", "")

	updated, err := svc.ChangeStatus(order.ID, models.StatusDiagnosis, "Looking into it")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDiagnosis, updated.Status)

	history := orderHistory(t, db, order.ID)
	require.Len(t, history, 2)
	assert.Equal(t, updated.Status, history[0].Status, "Newest history entry should match the current status")
	assert.Equal(t, "Looking into it", history[0].Note)
}

func TestIntermediateTransitionsDoNotTouchLedger(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "10000")

	for _, status := range []string{
		models.StatusDiagnosis,
		models.StatusInProgress,
		models.StatusAwaitingParts,
		models.StatusReady,
		models.StatusReceived,
	} {
		_, err := svc.ChangeStatus(order.ID, status, "")
		require.NoError(t, err)
	}

	entries := orderEntries(t, db, order.ID)
	assert.Len(t, entries, 1, "Only the deposit entry should exist after intermediate transitions")
	assert.Equal(t, models.ReasonDeposit, entries[0].Reason)
}

func TestDeliveredCollectsFinalPayment(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	// 45000 estimated, 10000 already paid as deposit
	order := newTestOrder(t, svc, db, "45000", "10000")

	_, err := svc.ChangeStatus(order.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	entries := orderEntries(t, db, order.ID)
	require.Len(t, entries, 2)
	final := entries[1]
	assert.Equal(t, models.DirectionIn, final.Direction)
	assert.Equal(t, models.ReasonFinalPayment, final.Reason)
	assert.True(t, final.Amount.Equal(decimal.NewFromInt(35000)),
		"Final payment should be 35000, got %s", final.Amount)
	assert.Contains(t, final.Concept, fmt.Sprintf("#%d", order.ID))
}

func TestDeliveredTwiceAddsOnlyOneFinalPayment(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "10000")

	_, err := svc.ChangeStatus(order.ID, models.StatusDelivered, "")
	require.NoError(t, err)
	_, err = svc.ChangeStatus(order.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	var count int64
	db.Model(&models.CashEntry{}).
		Where("order_id = ? AND reason = ?", order.ID, models.ReasonFinalPayment).
		Count(&count)
	assert.Equal(t, int64(1), count, "Repeated delivery should not duplicate the final payment")
}

func TestDeliveredWithoutEstimateAddsNothing(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	// Deposit exists but there is no estimated cost
	order := newTestOrder(t, svc, db, "", "10000")

	_, err := svc.ChangeStatus(order.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	entries := orderEntries(t, db, order.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ReasonDeposit, entries[0].Reason,
		"Delivering without an estimate should never create a final payment")
}

func TestDeliveredZeroEstimateAddsNothing(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "0", "10000")

	_, err := svc.ChangeStatus(order.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	assert.Len(t, orderEntries(t, db, order.ID), 1)
}

func TestDeliveredFullyPaidAddsNothing(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	// Deposit covers the whole estimate
	order := newTestOrder(t, svc, db, "10000", "10000")

	_, err := svc.ChangeStatus(order.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	assert.Len(t, orderEntries(t, db, order.ID), 1, "Nothing remains to collect")
}

func TestDeliveredAccountsForManualPayments(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "10000")

	// A partial payment recorded by hand before delivery
	manual := models.CashEntry{
		Direction: models.DirectionIn,
		Reason:    models.ReasonManual,
		Concept:   "Partial payment",
		Amount:    decimal.NewFromInt(5000),
		OrderID:   &order.ID,
	}
	require.NoError(t, db.Create(&manual).Error)

	_, err := svc.ChangeStatus(order.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	var final models.CashEntry
	require.NoError(t, db.Where("order_id = ? AND reason = ?", order.ID, models.ReasonFinalPayment).First(&final).Error)
	assert.True(t, final.Amount.Equal(decimal.NewFromInt(30000)),
		"Final payment should account for all in-entries, got %s", final.Amount)
}

func TestCancelledRefundsDeposit(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "10000")

	_, err := svc.ChangeStatus(order.ID, models.StatusCancelled, "Client declined")
	require.NoError(t, err)

	entries := orderEntries(t, db, order.ID)
	require.Len(t, entries, 2)
	refund := entries[1]
	assert.Equal(t, models.DirectionOut, refund.Direction)
	assert.Equal(t, models.ReasonDepositRefund, refund.Reason)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(10000)),
		"Refund should be the full deposit, got %s", refund.Amount)
	assert.Contains(t, refund.Concept, fmt.Sprintf("#%d", order.ID))
}

func TestCancelledTwiceAddsOnlyOneRefund(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "", "10000")

	_, err := svc.ChangeStatus(order.ID, models.StatusCancelled, "")
	require.NoError(t, err)
	_, err = svc.ChangeStatus(order.ID, models.StatusCancelled, "")
	require.NoError(t, err)

	var count int64
	db.Model(&models.CashEntry{}).
		Where("order_id = ? AND reason = ?", order.ID, models.ReasonDepositRefund).
		Count(&count)
	assert.Equal(t, int64(1), count, "Repeated cancellation should not duplicate the refund")
}

func TestCancelledWithoutDepositAddsNothing(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "")

	_, err := svc.ChangeStatus(order.ID, models.StatusCancelled, "")
	require.NoError(t, err)

	assert.Empty(t, orderEntries(t, db, order.ID), "No deposit means no refund entry")
}

func TestCancelledRefundIgnoresOtherOutEntries(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "", "10000")

	// An unrelated out-entry must not count as an earlier refund
	other := models.CashEntry{
		Direction: models.DirectionOut,
		Reason:    models.ReasonManual,
		Concept:   "Courier fee",
		Amount:    decimal.NewFromInt(2000),
		OrderID:   &order.ID,
	}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.ChangeStatus(order.ID, models.StatusCancelled, "")
	require.NoError(t, err)

	var refund models.CashEntry
	require.NoError(t, db.Where("order_id = ? AND reason = ?", order.ID, models.ReasonDepositRefund).First(&refund).Error)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(10000)),
		"Refund should match the deposit regardless of unrelated out-entries, got %s", refund.Amount)
}

func TestHistoryAlwaysMatchesCurrentStatus(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := &LifecycleService{db: db}

	order := newTestOrder(t, svc, db, "45000", "10000")

	for _, status := range []string{
		models.StatusDiagnosis,
		models.StatusInProgress,
		models.StatusReady,
		models.StatusDelivered,
	} {
		updated, err := svc.ChangeStatus(order.ID, status, "")
		require.NoError(t, err)

		history := orderHistory(t, db, order.ID)
		require.NotEmpty(t, history)
		assert.Equal(t, updated.Status, history[0].Status)
	}
}
