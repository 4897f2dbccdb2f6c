package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radagast/internal/domain"
	"radagast/internal/errors"
	"radagast/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func testOrder() *domain.Order {
	return &domain.Order{
		ID:       uuid.New().String(),
		BuyerID:  "buyer-1",
		VendorID: "vendor-1",
		Buyer: domain.PartySnapshot{
			Name:     "Ana",
			Phone:    "555-0001",
			Address:  "12 North St",
			Location: &domain.Location{Latitude: 4.60, Longitude: -74.08},
		},
		Vendor: domain.PartySnapshot{
			Name:    "Fresh Farm",
			Phone:   "555-0002",
			Address: "40 Market Rd",
		},
		Items: []domain.LineItem{
			{ItemID: "item-1", Name: "Tomatoes", Quantity: 3, Unit: "kg", UnitPrice: 2.50, LineTotal: 7.50},
			{ItemID: "item-2", Name: "Potatoes", Quantity: 2, Unit: "kg", UnitPrice: 1.25, LineTotal: 2.50},
		},
		TotalAmount:  10.00,
		Status:       domain.OrderStatusPending,
		DeliveryNote: "leave at the gate",
	}
}

func TestOrderRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder()

	err := repo.Insert(context.Background(), order)
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, order.BuyerID, found.BuyerID)
	assert.Equal(t, order.VendorID, found.VendorID)
	assert.Equal(t, "Ana", found.Buyer.Name)
	assert.Equal(t, "Fresh Farm", found.Vendor.Name)
	require.NotNil(t, found.Buyer.Location)
	assert.InDelta(t, 4.60, found.Buyer.Location.Latitude, 1e-9)
	assert.Nil(t, found.Vendor.Location)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.InDelta(t, 10.00, found.TotalAmount, 1e-9)
	assert.Equal(t, "leave at the gate", found.DeliveryNote)
	assert.Len(t, found.Items, 2)
	assert.Nil(t, found.Payment)

	require.Len(t, found.History, 1)
	assert.Equal(t, domain.OrderStatusPending, found.History[0].Status)
	assert.Equal(t, "order placed", found.History[0].Note)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	_, err := repo.FindByID(context.Background(), "missing-order")
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_TransitionStatus_AppendsHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder()
	require.NoError(t, repo.Insert(context.Background(), order))

	err := repo.TransitionStatus(context.Background(), order.ID,
		domain.OrderStatusPending, domain.OrderStatusApproved, "order approved")
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusApproved, found.Status)
	require.Len(t, found.History, 2)
	assert.Equal(t, domain.OrderStatusApproved, found.History[1].Status)
	assert.Equal(t, "order approved", found.History[1].Note)
}

func TestOrderRepository_TransitionStatus_StaleFromConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder()
	require.NoError(t, repo.Insert(context.Background(), order))

	require.NoError(t, repo.TransitionStatus(context.Background(), order.ID,
		domain.OrderStatusPending, domain.OrderStatusApproved, "order approved"))

	// A second transition expecting PENDING must fail without touching the row.
	err := repo.TransitionStatus(context.Background(), order.ID,
		domain.OrderStatusPending, domain.OrderStatusRejected, "order rejected")
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusApproved, found.Status)
	assert.Len(t, found.History, 2)
}

func TestOrderRepository_TransitionStatus_UnknownOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	err := repo.TransitionStatus(context.Background(), "missing-order",
		domain.OrderStatusPending, domain.OrderStatusApproved, "order approved")
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_MarkPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder()
	require.NoError(t, repo.Insert(context.Background(), order))
	require.NoError(t, repo.TransitionStatus(context.Background(), order.ID,
		domain.OrderStatusPending, domain.OrderStatusApproved, "order approved"))

	payment := domain.PaymentRecord{
		ExternalOrderRef:   "order_abc",
		ExternalPaymentRef: "pay_xyz",
		Signature:          "deadbeef",
		Amount:             10.00,
		VerifiedAt:         time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, repo.MarkPaid(context.Background(), order.ID, payment))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, found.Status)
	require.NotNil(t, found.Payment)
	assert.Equal(t, "order_abc", found.Payment.ExternalOrderRef)
	assert.Equal(t, "pay_xyz", found.Payment.ExternalPaymentRef)
	assert.InDelta(t, 10.00, found.Payment.Amount, 1e-9)

	// Second attempt finds the order already PAID.
	err = repo.MarkPaid(context.Background(), order.ID, payment)
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}
