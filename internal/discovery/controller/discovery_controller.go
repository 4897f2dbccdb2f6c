package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type DiscoveryService interface {
	Discover(ctx context.Context, buyerLat, buyerLng float64, keyword string, filters dto.DiscoveryFilters) (*dto.DiscoveryResult, error)
}

type DiscoveryController struct {
	service DiscoveryService
	logger  *zap.Logger
}

func NewDiscoveryController(service DiscoveryService, logger *zap.Logger) *DiscoveryController {
	return &DiscoveryController{
		service: service,
		logger:  logger,
	}
}

// Discover handles GET /vendors/discover?lat=&lng=&keyword=&maxDistanceKm=&minRating=&verifiedOnly=
func (c *DiscoveryController) Discover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.writeValidationError(w, "invalid coordinates", apperrors.ValidationDetail{
			Field:   "lat,lng",
			Message: "lat and lng are required and must be valid coordinates",
		})
		return
	}

	filters := dto.DiscoveryFilters{}
	if raw := query.Get("maxDistanceKm"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 {
			c.writeValidationError(w, "invalid maxDistanceKm", apperrors.ValidationDetail{
				Field:   "maxDistanceKm",
				Message: "maxDistanceKm must be a positive number",
			})
			return
		}
		filters.MaxDistanceKm = value
	}
	if raw := query.Get("minRating"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 || value > 5 {
			c.writeValidationError(w, "invalid minRating", apperrors.ValidationDetail{
				Field:   "minRating",
				Message: "minRating must be between 0 and 5",
			})
			return
		}
		filters.MinRating = value
	}
	filters.VerifiedOnly = query.Get("verifiedOnly") == "true"

	result, err := c.service.Discover(r.Context(), lat, lng, query.Get("keyword"), filters)
	if err != nil {
		c.logger.Error("discovery failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	vendors := make([]dto.DiscoveredVendorDTO, len(result.Vendors))
	for i, match := range result.Vendors {
		vendors[i] = dto.DiscoveredVendorDTO{
			ID:            match.Vendor.ID,
			Name:          match.Vendor.Name,
			RatingAverage: match.Vendor.Rating.Average,
			RatingCount:   match.Vendor.Rating.Count,
			IsVerified:    match.Vendor.IsVerified,
			DistanceKm:    match.DistanceKm,
		}
		if match.Vendor.Location != nil {
			vendors[i].Address = match.Vendor.Location.Address
			vendors[i].Latitude = match.Vendor.Location.Latitude
			vendors[i].Longitude = match.Vendor.Location.Longitude
		}
	}

	c.writeJSON(w, http.StatusOK, dto.DiscoverVendorsResponse{
		Keyword:  result.Keyword,
		Fallback: result.Fallback,
		Vendors:  vendors,
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *DiscoveryController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *DiscoveryController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
