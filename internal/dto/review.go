package dto

import (
	"time"

	"radagast/internal/domain"
)

type SubmitReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text,omitempty"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	BuyerID   string    `json:"buyerId"`
	VendorID  string    `json:"vendorId"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		OrderID:   review.OrderID,
		BuyerID:   review.BuyerID,
		VendorID:  review.VendorID,
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt,
	}
}
