package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/dispatch"
	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	TransitionStatus(ctx context.Context, id, from, to, note string) error
}

type CatalogReader interface {
	FindVendorByID(ctx context.Context, id string) (*domain.Vendor, error)
	FindItemsByVendor(ctx context.Context, vendorID string) ([]domain.CatalogItem, error)
}

type BuyerReader interface {
	FindBuyerByID(ctx context.Context, id string) (*domain.Buyer, error)
}

// LifecycleService owns the order state machine. Each operation is a single
// precondition-guarded transition; the repository's conditional update is
// the concurrency control, so racing callers get exactly one success.
type LifecycleService struct {
	orders  OrderRepository
	catalog CatalogReader
	buyers  BuyerReader
	emitter dispatch.Emitter
	logger  *zap.Logger
}

func NewLifecycleService(
	orders OrderRepository,
	catalog CatalogReader,
	buyers BuyerReader,
	emitter dispatch.Emitter,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		orders:  orders,
		catalog: catalog,
		buyers:  buyers,
		emitter: emitter,
		logger:  logger,
	}
}

// Create validates the requested items against the vendor's current catalog
// (a point-in-time read; later catalog edits do not invalidate the order),
// snapshots both parties and inserts the order as PENDING.
func (s *LifecycleService) Create(ctx context.Context, buyerID, vendorID string, items []dto.OrderItemRequest, deliveryNote string) (*domain.Order, error) {
	buyer, err := s.buyers.FindBuyerByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	vendor, err := s.catalog.FindVendorByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	catalogItems, err := s.catalog.FindItemsByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.CatalogItem, len(catalogItems))
	for _, item := range catalogItems {
		byID[item.ID] = item
	}

	lineItems := make([]domain.LineItem, 0, len(items))
	total := 0.0
	for _, requested := range items {
		catalogItem, ok := byID[requested.ItemID]
		if !ok {
			return nil, apperrors.NewInvalidItemError(requested.ItemID,
				fmt.Sprintf("item %s is not in the vendor's catalog", requested.ItemID))
		}
		if !catalogItem.IsAvailable {
			return nil, apperrors.NewInvalidItemError(requested.ItemID,
				fmt.Sprintf("item %s is not available", requested.ItemID))
		}
		if requested.Quantity < catalogItem.MinimumOrderQuantity {
			return nil, apperrors.NewQuantityTooLowError(requested.ItemID, catalogItem.MinimumOrderQuantity, requested.Quantity)
		}

		lineTotal := float64(requested.Quantity) * catalogItem.UnitPrice
		lineItems = append(lineItems, domain.LineItem{
			ItemID:    catalogItem.ID,
			Name:      catalogItem.Name,
			Quantity:  requested.Quantity,
			Unit:      catalogItem.Unit,
			UnitPrice: catalogItem.UnitPrice,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}

	order := &domain.Order{
		ID:       uuid.New().String(),
		BuyerID:  buyerID,
		VendorID: vendorID,
		Buyer: domain.PartySnapshot{
			Name:     buyer.Name,
			Phone:    buyer.Phone,
			Address:  buyer.Address,
			Location: buyer.Location,
		},
		Vendor: domain.PartySnapshot{
			Name:     vendor.Name,
			Phone:    vendor.Phone,
			Address:  vendor.Address,
			Location: vendor.Location,
		},
		Items:        lineItems,
		TotalAmount:  total,
		Status:       domain.OrderStatusPending,
		DeliveryNote: deliveryNote,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.String("buyerId", buyerID),
		zap.String("vendorId", vendorID),
		zap.Float64("totalAmount", total),
	)

	s.emitPair(dispatch.EventOrderRequest, order, buyerID, vendorID, map[string]interface{}{
		"totalAmount": total,
		"itemCount":   len(lineItems),
	})

	return order, nil
}

func (s *LifecycleService) Get(ctx context.Context, orderID, actorID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actorID && order.VendorID != actorID {
		return nil, apperrors.NewForbiddenError("order does not belong to this user")
	}
	return order, nil
}

func (s *LifecycleService) Approve(ctx context.Context, orderID, actorID, note string) (*domain.Order, error) {
	return s.transition(ctx, orderID, actorID, transitionSpec{
		from:      []string{domain.OrderStatusPending},
		to:        domain.OrderStatusApproved,
		note:      orDefault(note, "order approved"),
		event:     dispatch.EventOrderApproved,
		actorSide: sideVendor,
	})
}

func (s *LifecycleService) Reject(ctx context.Context, orderID, actorID, reason string) (*domain.Order, error) {
	if reason == "" {
		return nil, apperrors.NewValidationError("reason is required",
			apperrors.ValidationDetail{Field: "reason", Message: "a rejection reason is required"})
	}
	return s.transition(ctx, orderID, actorID, transitionSpec{
		from:      []string{domain.OrderStatusPending},
		to:        domain.OrderStatusRejected,
		note:      reason,
		event:     dispatch.EventOrderRejected,
		actorSide: sideVendor,
	})
}

// Dispatch accepts either PAID or APPROVED as the source status:
// cash-on-delivery orders ship before payment.
func (s *LifecycleService) Dispatch(ctx context.Context, orderID, actorID string) (*domain.Order, error) {
	return s.transition(ctx, orderID, actorID, transitionSpec{
		from:      []string{domain.OrderStatusPaid, domain.OrderStatusApproved},
		to:        domain.OrderStatusDispatched,
		note:      "order dispatched",
		event:     dispatch.EventOrderDispatched,
		actorSide: sideVendor,
	})
}

func (s *LifecycleService) Deliver(ctx context.Context, orderID, actorID string) (*domain.Order, error) {
	return s.transition(ctx, orderID, actorID, transitionSpec{
		from:      []string{domain.OrderStatusDispatched},
		to:        domain.OrderStatusDelivered,
		note:      "order delivered",
		event:     dispatch.EventOrderDelivered,
		actorSide: sideVendor,
	})
}

// Cancel is the buyer's exit before payment: PENDING or APPROVED only.
func (s *LifecycleService) Cancel(ctx context.Context, orderID, actorID, note string) (*domain.Order, error) {
	return s.transition(ctx, orderID, actorID, transitionSpec{
		from:      []string{domain.OrderStatusPending, domain.OrderStatusApproved},
		to:        domain.OrderStatusCancelled,
		note:      orDefault(note, "order cancelled by buyer"),
		event:     dispatch.EventOrderCancelled,
		actorSide: sideBuyer,
	})
}

type actorSide int

const (
	sideVendor actorSide = iota
	sideBuyer
)

type transitionSpec struct {
	from      []string
	to        string
	note      string
	event     string
	actorSide actorSide
}

func (s *LifecycleService) transition(ctx context.Context, orderID, actorID string, spec transitionSpec) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if spec.actorSide == sideVendor && order.VendorID != actorID {
		return nil, apperrors.NewForbiddenError("only the order's vendor may perform this transition")
	}
	if spec.actorSide == sideBuyer && order.BuyerID != actorID {
		return nil, apperrors.NewForbiddenError("only the order's buyer may perform this transition")
	}

	// The observed status picks which compare-and-swap to attempt; the
	// conditional update is still the single authority on the race.
	from := ""
	for _, candidate := range spec.from {
		if order.Status == candidate {
			from = candidate
			break
		}
	}
	if from == "" {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("order %s is %s, expected one of %v", orderID, order.Status, spec.from))
	}

	if err := s.orders.TransitionStatus(ctx, orderID, from, spec.to, spec.note); err != nil {
		return nil, err
	}

	updated, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order transitioned",
		zap.String("orderId", orderID),
		zap.String("from", from),
		zap.String("to", spec.to),
		zap.String("actorId", actorID),
	)

	s.emitPair(spec.event, updated, actorID, counterpart(updated, actorID), map[string]interface{}{
		"status": updated.Status,
		"note":   spec.note,
	})

	return updated, nil
}

// emitPair sends the event to the counterpart and an acknowledgment copy to
// the actor. Delivery is best-effort on both legs.
func (s *LifecycleService) emitPair(name string, order *domain.Order, actorID, counterpartID string, data map[string]interface{}) {
	s.emitter.EmitToUser(counterpartID, dispatch.NewEvent(name, order.ID, actorID, data))

	ackData := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		ackData[k] = v
	}
	ackData["ack"] = true
	s.emitter.EmitToUser(actorID, dispatch.NewEvent(name, order.ID, actorID, ackData))
}

func counterpart(order *domain.Order, actorID string) string {
	if actorID == order.BuyerID {
		return order.VendorID
	}
	return order.BuyerID
}

func orDefault(note, fallback string) string {
	if note == "" {
		return fallback
	}
	return note
}
