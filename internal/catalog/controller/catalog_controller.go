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

type CatalogService interface {
	ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error)
	AddItem(ctx context.Context, vendorID string, req dto.CatalogItemRequest) (*domain.CatalogItem, error)
	UpdateItem(ctx context.Context, vendorID, itemID string, req dto.CatalogItemRequest) (*domain.CatalogItem, error)
	UpdateLocation(ctx context.Context, vendorID string, lat, lng float64) (*domain.Location, error)
}

type CatalogController struct {
	service CatalogService
	logger  *zap.Logger
}

func NewCatalogController(service CatalogService, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		service: service,
		logger:  logger,
	}
}

func (c *CatalogController) ListItems(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendorId")

	items, err := c.service.ListItems(r.Context(), vendorID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	responses := make([]dto.CatalogItemResponse, len(items))
	for i := range items {
		responses[i] = dto.NewCatalogItemResponse(&items[i])
	}

	c.writeJSON(w, http.StatusOK, responses)
}

// AddItem and UpdateItem are vendor-owned: the authenticated user must be
// the vendor in the path.
func (c *CatalogController) AddItem(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := c.requireOwnVendor(w, r)
	if !ok {
		return
	}

	var req dto.CatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	item, err := c.service.AddItem(r.Context(), vendorID, req)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.NewCatalogItemResponse(item))
}

func (c *CatalogController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := c.requireOwnVendor(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "itemId")

	var req dto.CatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	item, err := c.service.UpdateItem(r.Context(), vendorID, itemID, req)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewCatalogItemResponse(item))
}

func (c *CatalogController) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := c.requireOwnVendor(w, r)
	if !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	location, err := c.service.UpdateLocation(r.Context(), vendorID, req.Latitude, req.Longitude)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"latitude":  location.Latitude,
		"longitude": location.Longitude,
		"address":   location.Address,
	})
}

func (c *CatalogController) requireOwnVendor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := r.Header.Get("X-User-Id")
	vendorID := chi.URLParam(r, "vendorId")

	if actorID == "" {
		c.writeValidationError(w, "missing user identity", apperrors.ValidationDetail{
			Field:   "X-User-Id",
			Message: "authenticated user id header is required",
		})
		return "", false
	}
	if actorID != vendorID {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", "vendors may only manage their own catalog")
		return "", false
	}

	return vendorID, true
}

func (c *CatalogController) handleServiceError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsExternalServiceError(err); ok {
		c.writeError(w, http.StatusBadGateway, "EXTERNAL_SERVICE_ERROR", err.Error())
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

func (c *CatalogController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (c *CatalogController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *CatalogController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
