package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/dispatch"
	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/infrastructure/rediscache"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	MarkPaid(ctx context.Context, id string, payment domain.PaymentRecord) error
}

// PaymentService is the gate on the APPROVED -> PAID transition. Intent refs
// are handed to the external gateway and held in redis until verified; the
// keyed-hash check runs before any state is touched.
type PaymentService struct {
	orders    OrderRepository
	cache     rediscache.Cache
	emitter   dispatch.Emitter
	secret    []byte
	intentTTL time.Duration
	logger    *zap.Logger
}

func NewPaymentService(
	orders OrderRepository,
	cache rediscache.Cache,
	emitter dispatch.Emitter,
	secret string,
	intentTTL time.Duration,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orders:    orders,
		cache:     cache,
		emitter:   emitter,
		secret:    []byte(secret),
		intentTTL: intentTTL,
		logger:    logger,
	}
}

// CreateIntent issues an external order reference for an approved order.
// The reference maps back to the order only through the redis entry, which
// expires with the intent.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID, actorID string, amount float64) (string, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if order.BuyerID != actorID {
		return "", apperrors.NewForbiddenError("only the order's buyer may create a payment intent")
	}

	if order.Status != domain.OrderStatusApproved {
		return "", apperrors.NewConflictError(
			fmt.Sprintf("order %s is %s, payment requires %s", orderID, order.Status, domain.OrderStatusApproved))
	}

	if amount != order.TotalAmount {
		return "", apperrors.NewValidationError("amount does not match the order total",
			apperrors.ValidationDetail{Field: "amount", Message: fmt.Sprintf("expected %.2f", order.TotalAmount)})
	}

	ref := "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	key := s.cache.GenerateKey("intent", ref)
	if err := s.cache.Set(ctx, key, orderID, s.intentTTL); err != nil {
		return "", apperrors.NewInternalError("storing payment intent", err)
	}

	s.logger.Info("payment intent created",
		zap.String("orderId", orderID),
		zap.String("externalOrderRef", ref),
		zap.Float64("amount", amount),
	)

	return ref, nil
}

// Verify recomputes the keyed hash over externalOrderRef|externalPaymentRef
// and compares it in constant time. Only a matching signature reaches the
// compare-and-swap; a second verification of a paid order is rejected.
func (s *PaymentService) Verify(ctx context.Context, externalOrderRef, externalPaymentRef, signature string, amount float64) (*domain.Order, error) {
	expected := s.Sign(externalOrderRef, externalPaymentRef)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		s.logger.Warn("payment signature mismatch",
			zap.String("externalOrderRef", externalOrderRef),
			zap.String("externalPaymentRef", externalPaymentRef),
		)
		return nil, apperrors.NewSignatureInvalidError("payment signature mismatch")
	}

	key := s.cache.GenerateKey("intent", externalOrderRef)
	orderID, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, apperrors.NewInternalError("loading payment intent", err)
	}
	if orderID == "" {
		return nil, apperrors.NewNotFoundError("unknown or expired payment intent")
	}

	record := domain.PaymentRecord{
		ExternalOrderRef:   externalOrderRef,
		ExternalPaymentRef: externalPaymentRef,
		Signature:          signature,
		Amount:             amount,
		VerifiedAt:         time.Now().UTC(),
	}

	if err := s.orders.MarkPaid(ctx, orderID, record); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("deleting consumed payment intent failed", zap.String("externalOrderRef", externalOrderRef), zap.Error(err))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment verified",
		zap.String("orderId", orderID),
		zap.String("externalPaymentRef", externalPaymentRef),
		zap.Float64("amount", amount),
	)

	data := map[string]interface{}{"amount": amount, "externalPaymentRef": externalPaymentRef}
	s.emitter.EmitToUser(order.VendorID, dispatch.NewEvent(dispatch.EventPaymentDone, order.ID, order.BuyerID, data))
	s.emitter.EmitToUser(order.BuyerID, dispatch.NewEvent(dispatch.EventPaymentDone, order.ID, order.BuyerID, data))

	return order, nil
}

// Sign computes the hex HMAC-SHA256 the gateway callback is expected to carry.
func (s *PaymentService) Sign(externalOrderRef, externalPaymentRef string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(externalOrderRef + "|" + externalPaymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
