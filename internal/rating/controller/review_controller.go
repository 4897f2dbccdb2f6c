package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, orderID, buyerID string, rating int, text string) (*domain.Review, error)
	ListVendorReviews(ctx context.Context, vendorID string) ([]domain.Review, error)
}

type ReviewController struct {
	service ReviewService
	logger  *zap.Logger
}

func NewReviewController(service ReviewService, logger *zap.Logger) *ReviewController {
	return &ReviewController{
		service: service,
		logger:  logger,
	}
}

func (c *ReviewController) Submit(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		c.writeValidationError(w, "missing user identity", apperrors.ValidationDetail{
			Field:   "X-User-Id",
			Message: "authenticated user id header is required",
		})
		return
	}

	orderID := chi.URLParam(r, "orderId")

	var req dto.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	review, err := c.service.SubmitReview(r.Context(), orderID, actorID, req.Rating, req.Text)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.NewReviewResponse(review))
}

func (c *ReviewController) ListForVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendorId")

	reviews, err := c.service.ListVendorReviews(r.Context(), vendorID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = dto.NewReviewResponse(&reviews[i])
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *ReviewController) handleServiceError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}
	if _, ok := apperrors.IsDuplicateReviewError(err); ok {
		c.writeError(w, http.StatusConflict, "DUPLICATE_REVIEW", err.Error())
		return
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *ReviewController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (c *ReviewController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *ReviewController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
