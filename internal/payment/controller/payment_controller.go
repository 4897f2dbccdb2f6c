package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, orderID, actorID string, amount float64) (string, error)
	Verify(ctx context.Context, externalOrderRef, externalPaymentRef, signature string, amount float64) (*domain.Order, error)
}

type PaymentController struct {
	service PaymentService
	logger  *zap.Logger
}

func NewPaymentController(service PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		service: service,
		logger:  logger,
	}
}

func (c *PaymentController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		c.writeValidationError(w, "missing user identity", apperrors.ValidationDetail{
			Field:   "X-User-Id",
			Message: "authenticated user id header is required",
		})
		return
	}

	var req dto.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.OrderID == "" || req.Amount <= 0 {
		c.writeValidationError(w, "validation failed",
			apperrors.ValidationDetail{Field: "orderId", Message: "orderId is required"},
			apperrors.ValidationDetail{Field: "amount", Message: "amount must be positive"},
		)
		return
	}

	ref, err := c.service.CreateIntent(r.Context(), req.OrderID, actorID, req.Amount)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.CreateIntentResponse{
		ExternalOrderRef: ref,
		Amount:           req.Amount,
	})
}

// Verify is the gateway callback surface; the actor is the gateway, not a
// logged-in user, so identity comes from the signature alone.
func (c *PaymentController) Verify(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.ExternalOrderRef == "" || req.ExternalPaymentRef == "" || req.Signature == "" {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "externalOrderRef,externalPaymentRef,signature",
			Message: "externalOrderRef, externalPaymentRef and signature are required",
		})
		return
	}

	order, err := c.service.Verify(r.Context(), req.ExternalOrderRef, req.ExternalPaymentRef, req.Signature, req.Amount)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *PaymentController) handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
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
	if _, ok := apperrors.IsSignatureInvalidError(err); ok {
		logger.Warn("payment signature rejected", zap.Error(err))
		c.writeError(w, http.StatusBadRequest, "SIGNATURE_INVALID", err.Error())
		return
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
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

func (c *PaymentController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (c *PaymentController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *PaymentController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
