package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type LifecycleService interface {
	Create(ctx context.Context, buyerID, vendorID string, items []dto.OrderItemRequest, deliveryNote string) (*domain.Order, error)
	Get(ctx context.Context, orderID, actorID string) (*domain.Order, error)
	Approve(ctx context.Context, orderID, actorID, note string) (*domain.Order, error)
	Reject(ctx context.Context, orderID, actorID, reason string) (*domain.Order, error)
	Dispatch(ctx context.Context, orderID, actorID string) (*domain.Order, error)
	Deliver(ctx context.Context, orderID, actorID string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, actorID, note string) (*domain.Order, error)
}

type OrderController struct {
	service LifecycleService
	logger  *zap.Logger
}

func NewOrderController(service LifecycleService, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		logger:  logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
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

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCreateOrderRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	order, err := c.service.Create(r.Context(), actorID, req.VendorID, req.Items, req.DeliveryNote)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.NewOrderResponse(order))
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	orderID := chi.URLParam(r, "orderId")

	order, err := c.service.Get(r.Context(), orderID, actorID)
	if err != nil {
		c.handleServiceError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *OrderController) Approve(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(ctx context.Context, orderID, actorID string, body transitionBody) (*domain.Order, error) {
		return c.service.Approve(ctx, orderID, actorID, body.Note)
	})
}

func (c *OrderController) Reject(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(ctx context.Context, orderID, actorID string, body transitionBody) (*domain.Order, error) {
		return c.service.Reject(ctx, orderID, actorID, body.Reason)
	})
}

func (c *OrderController) Dispatch(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(ctx context.Context, orderID, actorID string, body transitionBody) (*domain.Order, error) {
		return c.service.Dispatch(ctx, orderID, actorID)
	})
}

func (c *OrderController) Deliver(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(ctx context.Context, orderID, actorID string, body transitionBody) (*domain.Order, error) {
		return c.service.Deliver(ctx, orderID, actorID)
	})
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(ctx context.Context, orderID, actorID string, body transitionBody) (*domain.Order, error) {
		return c.service.Cancel(ctx, orderID, actorID, body.Note)
	})
}

type transitionBody struct {
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

func (c *OrderController) transition(
	w http.ResponseWriter,
	r *http.Request,
	call func(ctx context.Context, orderID, actorID string, body transitionBody) (*domain.Order, error),
) {
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

	orderID := chi.URLParam(r, "orderId")

	var body transitionBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logger.Warn("invalid JSON body", zap.Error(err))
			c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
				Field:   "body",
				Message: "request body must be valid JSON",
			})
			return
		}
	}

	order, err := call(r.Context(), orderID, actorID, body)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if req.VendorID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "vendorId",
			Message: "vendorId is required",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > 100 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	seen := make(map[string]bool)
	for idx, item := range req.Items {
		if item.ItemID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].itemId",
				Message: "itemId is required",
			})
		}
		if seen[item.ItemID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].itemId",
				Message: "itemId must not be duplicated",
			})
		}
		seen[item.ItemID] = true

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be at least 1",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *OrderController) handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
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
	if _, ok := apperrors.IsInvalidItemError(err); ok {
		c.writeError(w, http.StatusUnprocessableEntity, "INVALID_ITEM", err.Error())
		return
	}
	if _, ok := apperrors.IsQuantityTooLowError(err); ok {
		c.writeError(w, http.StatusUnprocessableEntity, "QUANTITY_TOO_LOW", err.Error())
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

func (c *OrderController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
