package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"radagast/internal/dispatch"
	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

// memoryOrderRepository implements the conditional-transition contract
// in-process: the mutex makes each transition atomic, so racing calls see
// exactly the same one-winner semantics as the SQL conditional update.
type memoryOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemoryOrderRepository() *memoryOrderRepository {
	return &memoryOrderRepository{orders: map[string]*domain.Order{}}
}

func (r *memoryOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *order
	stored.History = []domain.StatusEntry{{Status: order.Status, Note: "order placed"}}
	r.orders[order.ID] = &stored
	return nil
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order " + id + " not found")
	}
	clone := *order
	clone.History = append([]domain.StatusEntry(nil), order.History...)
	return &clone, nil
}

func (r *memoryOrderRepository) TransitionStatus(ctx context.Context, id, from, to, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return apperrors.NewNotFoundError("order " + id + " not found")
	}
	if order.Status != from {
		return apperrors.NewConflictError(fmt.Sprintf("order %s is %s, expected %s", id, order.Status, from))
	}
	order.Status = to
	order.History = append(order.History, domain.StatusEntry{Status: to, Note: note})
	return nil
}

type mockCatalogReader struct {
	FindVendorByIDFunc    func(ctx context.Context, id string) (*domain.Vendor, error)
	FindItemsByVendorFunc func(ctx context.Context, vendorID string) ([]domain.CatalogItem, error)
}

func (m *mockCatalogReader) FindVendorByID(ctx context.Context, id string) (*domain.Vendor, error) {
	return m.FindVendorByIDFunc(ctx, id)
}

func (m *mockCatalogReader) FindItemsByVendor(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	return m.FindItemsByVendorFunc(ctx, vendorID)
}

type mockBuyerReader struct {
	FindBuyerByIDFunc func(ctx context.Context, id string) (*domain.Buyer, error)
}

func (m *mockBuyerReader) FindBuyerByID(ctx context.Context, id string) (*domain.Buyer, error) {
	return m.FindBuyerByIDFunc(ctx, id)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

type emitted struct {
	userID string
	event  dispatch.Event
}

func (e *recordingEmitter) EmitToUser(userID string, event dispatch.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{userID: userID, event: event})
}

func (e *recordingEmitter) EmitToRole(role string, event dispatch.Event) {}

func (e *recordingEmitter) sentTo(userID, name string) []dispatch.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []dispatch.Event
	for _, item := range e.events {
		if item.userID == userID && item.event.Name == name {
			out = append(out, item.event)
		}
	}
	return out
}

func defaultCatalog() *mockCatalogReader {
	return &mockCatalogReader{
		FindVendorByIDFunc: func(ctx context.Context, id string) (*domain.Vendor, error) {
			return &domain.Vendor{
				ID:       id,
				Name:     "Green Farm",
				Phone:    "111",
				Address:  "Farm Road",
				Location: &domain.Location{Latitude: 12.9, Longitude: 77.5},
				IsActive: true,
			}, nil
		},
		FindItemsByVendorFunc: func(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
			return []domain.CatalogItem{
				{ID: "item-1", VendorID: vendorID, Name: "Tomatoes", Unit: "kg", UnitPrice: 2.5, IsAvailable: true, MinimumOrderQuantity: 2},
				{ID: "item-2", VendorID: vendorID, Name: "Onions", Unit: "kg", UnitPrice: 1.25, IsAvailable: false, MinimumOrderQuantity: 1},
			}, nil
		},
	}
}

func defaultBuyers() *mockBuyerReader {
	return &mockBuyerReader{
		FindBuyerByIDFunc: func(ctx context.Context, id string) (*domain.Buyer, error) {
			return &domain.Buyer{ID: id, Name: "Alex", Phone: "222", Address: "Town Square"}, nil
		},
	}
}

func newTestService(repo OrderRepository, emitter dispatch.Emitter) *LifecycleService {
	return NewLifecycleService(repo, defaultCatalog(), defaultBuyers(), emitter, zap.NewNop())
}

func createTestOrder(t *testing.T, svc *LifecycleService) *domain.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), "buyer-1", "vendor-1",
		[]dto.OrderItemRequest{{ItemID: "item-1", Quantity: 4}}, "leave at the gate")
	assert.NoError(t, err)
	return order
}

func TestCreate_ComputesTotalsAndStartsPending(t *testing.T) {
	repo := newMemoryOrderRepository()
	emitter := &recordingEmitter{}
	svc := newTestService(repo, emitter)

	order := createTestOrder(t, svc)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 10.0, order.Items[0].LineTotal)
	assert.Equal(t, 10.0, order.TotalAmount)
	assert.Equal(t, order.ComputeTotal(), order.TotalAmount)
	assert.Equal(t, "Alex", order.Buyer.Name)
	assert.Equal(t, "Green Farm", order.Vendor.Name)
	assert.Equal(t, "leave at the gate", order.DeliveryNote)

	// Counterpart notification plus actor ack.
	assert.Len(t, emitter.sentTo("vendor-1", dispatch.EventOrderRequest), 1)
	acks := emitter.sentTo("buyer-1", dispatch.EventOrderRequest)
	assert.Len(t, acks, 1)
	assert.Equal(t, true, acks[0].Data["ack"])
}

func TestCreate_UnknownItem(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})

	_, err := svc.Create(context.Background(), "buyer-1", "vendor-1",
		[]dto.OrderItemRequest{{ItemID: "missing", Quantity: 1}}, "")

	ie, ok := apperrors.IsInvalidItemError(err)
	assert.True(t, ok)
	assert.Equal(t, "missing", ie.ItemID)
}

func TestCreate_UnavailableItem(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})

	_, err := svc.Create(context.Background(), "buyer-1", "vendor-1",
		[]dto.OrderItemRequest{{ItemID: "item-2", Quantity: 1}}, "")

	_, ok := apperrors.IsInvalidItemError(err)
	assert.True(t, ok)
}

func TestCreate_QuantityBelowMinimum(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})

	_, err := svc.Create(context.Background(), "buyer-1", "vendor-1",
		[]dto.OrderItemRequest{{ItemID: "item-1", Quantity: 1}}, "")

	qe, ok := apperrors.IsQuantityTooLowError(err)
	assert.True(t, ok)
	assert.Equal(t, 2, qe.Minimum)
	assert.Equal(t, 1, qe.Supplied)
}

func TestApprove_HappyPath(t *testing.T) {
	repo := newMemoryOrderRepository()
	emitter := &recordingEmitter{}
	svc := newTestService(repo, emitter)
	order := createTestOrder(t, svc)

	approved, err := svc.Approve(context.Background(), order.ID, "vendor-1", "")

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusApproved, approved.Status)
	assert.Len(t, approved.History, 2)
	assert.Equal(t, domain.OrderStatusApproved, approved.History[1].Status)
	assert.Len(t, emitter.sentTo("buyer-1", dispatch.EventOrderApproved), 1)
}

func TestApprove_WrongActor(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})
	order := createTestOrder(t, svc)

	_, err := svc.Approve(context.Background(), order.ID, "someone-else", "")

	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}

func TestApprove_NotFound(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})

	_, err := svc.Approve(context.Background(), "no-such-order", "vendor-1", "")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestReject_RequiresReason(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})
	order := createTestOrder(t, svc)

	_, err := svc.Reject(context.Background(), order.ID, "vendor-1", "")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestDispatch_NeverFromPending(t *testing.T) {
	emitter := &recordingEmitter{}
	svc := newTestService(newMemoryOrderRepository(), emitter)
	order := createTestOrder(t, svc)

	_, err := svc.Dispatch(context.Background(), order.ID, "vendor-1")

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	// A failed transition emits nothing.
	assert.Empty(t, emitter.sentTo("buyer-1", dispatch.EventOrderDispatched))
}

func TestDispatch_FromApproved_CashOnDelivery(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})
	order := createTestOrder(t, svc)

	_, err := svc.Approve(context.Background(), order.ID, "vendor-1", "")
	assert.NoError(t, err)

	dispatched, err := svc.Dispatch(context.Background(), order.ID, "vendor-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDispatched, dispatched.Status)
}

func TestFullLifecycle_HistoryIsAppendOnly(t *testing.T) {
	repo := newMemoryOrderRepository()
	svc := newTestService(repo, &recordingEmitter{})
	order := createTestOrder(t, svc)

	_, err := svc.Approve(context.Background(), order.ID, "vendor-1", "looks good")
	assert.NoError(t, err)
	_, err = svc.Dispatch(context.Background(), order.ID, "vendor-1")
	assert.NoError(t, err)
	delivered, err := svc.Deliver(context.Background(), order.ID, "vendor-1")
	assert.NoError(t, err)

	assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)
	statuses := make([]string, len(delivered.History))
	for i, entry := range delivered.History {
		statuses[i] = entry.Status
	}
	assert.Equal(t, []string{
		domain.OrderStatusPending,
		domain.OrderStatusApproved,
		domain.OrderStatusDispatched,
		domain.OrderStatusDelivered,
	}, statuses)
}

func TestCancel_BuyerOnlyAndPrePayment(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})
	order := createTestOrder(t, svc)

	_, err := svc.Cancel(context.Background(), order.ID, "vendor-1", "")
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)

	cancelled, err := svc.Cancel(context.Background(), order.ID, "buyer-1", "changed my mind")
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestConcurrentApproveAndReject_ExactlyOneWins(t *testing.T) {
	repo := newMemoryOrderRepository()
	svc := newTestService(repo, &recordingEmitter{})
	order := createTestOrder(t, svc)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = svc.Approve(context.Background(), order.ID, "vendor-1", "")
	}()
	go func() {
		defer wg.Done()
		_, results[1] = svc.Reject(context.Background(), order.ID, "vendor-1", "out of stock")
	}()
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if _, ok := apperrors.IsConflictError(err); ok {
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	final, err := repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)
	// One initial entry plus exactly one transition entry.
	assert.Len(t, final.History, 2)
}

func TestGet_RestrictedToParties(t *testing.T) {
	svc := newTestService(newMemoryOrderRepository(), &recordingEmitter{})
	order := createTestOrder(t, svc)

	fetched, err := svc.Get(context.Background(), order.ID, "buyer-1")
	assert.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)

	_, err = svc.Get(context.Background(), order.ID, "stranger")
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}
