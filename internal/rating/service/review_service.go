package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/dispatch"
	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

type ReviewRepository interface {
	Insert(ctx context.Context, review domain.Review) error
	AggregateForVendor(ctx context.Context, vendorID string) (domain.Rating, error)
	FindByVendor(ctx context.Context, vendorID string) ([]domain.Review, error)
}

type OrderReader interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

type VendorRatingWriter interface {
	UpdateVendorRating(ctx context.Context, vendorID string, rating domain.Rating) error
}

type ReviewService struct {
	reviews ReviewRepository
	orders  OrderReader
	vendors VendorRatingWriter
	emitter dispatch.Emitter
	logger  *zap.Logger
}

func NewReviewService(
	reviews ReviewRepository,
	orders OrderReader,
	vendors VendorRatingWriter,
	emitter dispatch.Emitter,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		orders:  orders,
		vendors: vendors,
		emitter: emitter,
		logger:  logger,
	}
}

// SubmitReview accepts one review per delivered order from its buyer, then
// recomputes the vendor's aggregate from all reviews and notifies the vendor.
func (s *ReviewService) SubmitReview(ctx context.Context, orderID, buyerID string, rating int, text string) (*domain.Review, error) {
	if rating < domain.ReviewRatingMin || rating > domain.ReviewRatingMax {
		return nil, apperrors.NewValidationError("invalid rating",
			apperrors.ValidationDetail{
				Field:   "rating",
				Message: fmt.Sprintf("rating must be between %d and %d", domain.ReviewRatingMin, domain.ReviewRatingMax),
			})
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != buyerID {
		return nil, apperrors.NewForbiddenError("order does not belong to this buyer")
	}

	if order.Status != domain.OrderStatusDelivered {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("order %s is %s, reviews require %s", orderID, order.Status, domain.OrderStatusDelivered))
	}

	review := domain.Review{
		ID:       uuid.New().String(),
		OrderID:  orderID,
		BuyerID:  buyerID,
		VendorID: order.VendorID,
		Rating:   rating,
		Text:     text,
	}

	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, err
	}

	aggregate, err := s.reviews.AggregateForVendor(ctx, order.VendorID)
	if err != nil {
		return nil, err
	}

	if err := s.vendors.UpdateVendorRating(ctx, order.VendorID, aggregate); err != nil {
		return nil, err
	}

	s.logger.Info("review submitted",
		zap.String("orderId", orderID),
		zap.String("vendorId", order.VendorID),
		zap.Int("rating", rating),
		zap.Float64("newAverage", aggregate.Average),
		zap.Int("reviewCount", aggregate.Count),
	)

	s.emitter.EmitToUser(order.VendorID, dispatch.NewEvent(
		dispatch.EventReviewSubmitted,
		orderID,
		buyerID,
		map[string]interface{}{
			"rating":        rating,
			"ratingAverage": aggregate.Average,
			"ratingCount":   aggregate.Count,
		},
	))

	return &review, nil
}

func (s *ReviewService) ListVendorReviews(ctx context.Context, vendorID string) ([]domain.Review, error) {
	return s.reviews.FindByVendor(ctx, vendorID)
}
