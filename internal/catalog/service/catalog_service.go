package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/dispatch"
	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/geo"
)

type CatalogRepository interface {
	FindVendorByID(ctx context.Context, id string) (*domain.Vendor, error)
	FindItemsByVendor(ctx context.Context, vendorID string) ([]domain.CatalogItem, error)
	InsertItem(ctx context.Context, item domain.CatalogItem) error
	UpdateItem(ctx context.Context, item domain.CatalogItem) error
	UpdateVendorLocation(ctx context.Context, vendorID string, location domain.Location) error
}

// CatalogService is the vendor-side surface: item management and the
// canonical location update. Every mutation notifies connected buyers.
type CatalogService struct {
	repo     CatalogRepository
	geocoder geo.Geocoder
	emitter  dispatch.Emitter
	logger   *zap.Logger
}

func NewCatalogService(repo CatalogRepository, geocoder geo.Geocoder, emitter dispatch.Emitter, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		geocoder: geocoder,
		emitter:  emitter,
		logger:   logger,
	}
}

func (s *CatalogService) ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	if _, err := s.repo.FindVendorByID(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.repo.FindItemsByVendor(ctx, vendorID)
}

func (s *CatalogService) AddItem(ctx context.Context, vendorID string, req dto.CatalogItemRequest) (*domain.CatalogItem, error) {
	if err := validateItemRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindVendorByID(ctx, vendorID); err != nil {
		return nil, err
	}

	item := domain.CatalogItem{
		ID:                   uuid.New().String(),
		VendorID:             vendorID,
		Name:                 req.Name,
		Description:          req.Description,
		Category:             req.Category,
		UnitPrice:            req.UnitPrice,
		Unit:                 req.Unit,
		QuantityAvailable:    req.QuantityAvailable,
		IsAvailable:          req.IsAvailable,
		MinimumOrderQuantity: req.MinimumOrderQuantity,
	}

	if err := s.repo.InsertItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("catalog item added", zap.String("vendorId", vendorID), zap.String("itemId", item.ID))
	s.notifyProfileUpdated(vendorID, "item_added", item.ID)

	return &item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, vendorID, itemID string, req dto.CatalogItemRequest) (*domain.CatalogItem, error) {
	if err := validateItemRequest(req); err != nil {
		return nil, err
	}

	item := domain.CatalogItem{
		ID:                   itemID,
		VendorID:             vendorID,
		Name:                 req.Name,
		Description:          req.Description,
		Category:             req.Category,
		UnitPrice:            req.UnitPrice,
		Unit:                 req.Unit,
		QuantityAvailable:    req.QuantityAvailable,
		IsAvailable:          req.IsAvailable,
		MinimumOrderQuantity: req.MinimumOrderQuantity,
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("catalog item updated", zap.String("vendorId", vendorID), zap.String("itemId", itemID))
	s.notifyProfileUpdated(vendorID, "item_updated", itemID)

	return &item, nil
}

// UpdateLocation stores the single canonical coordinate pair. The address is
// resolved through the geocoder; a geocoder fallback keeps the coordinates
// and leaves the address empty.
func (s *CatalogService) UpdateLocation(ctx context.Context, vendorID string, lat, lng float64) (*domain.Location, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperrors.NewValidationError("invalid coordinates",
			apperrors.ValidationDetail{Field: "latitude", Message: "latitude must be within [-90, 90] and longitude within [-180, 180]"},
		)
	}

	if _, err := s.repo.FindVendorByID(ctx, vendorID); err != nil {
		return nil, err
	}

	result, err := s.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("reverse geocoding failed", err)
	}

	if err := s.repo.UpdateVendorLocation(ctx, vendorID, result.Location); err != nil {
		return nil, err
	}

	s.logger.Info("vendor location updated",
		zap.String("vendorId", vendorID),
		zap.Bool("geocodeFallback", result.Fallback),
	)
	s.notifyProfileUpdated(vendorID, "location_updated", vendorID)

	location := result.Location
	return &location, nil
}

func (s *CatalogService) notifyProfileUpdated(vendorID, change, entityID string) {
	s.emitter.EmitToRole(dispatch.RoleBuyer, dispatch.NewEvent(
		dispatch.EventProfileUpdated,
		entityID,
		vendorID,
		map[string]interface{}{"change": change, "vendorId": vendorID},
	))
}

func validateItemRequest(req dto.CatalogItemRequest) error {
	var details []apperrors.ValidationDetail

	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.UnitPrice < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "unitPrice", Message: "unitPrice must be non-negative"})
	}
	if req.QuantityAvailable < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "quantityAvailable", Message: "quantityAvailable must be non-negative"})
	}
	if req.MinimumOrderQuantity < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "minimumOrderQuantity", Message: "minimumOrderQuantity must be at least 1"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
