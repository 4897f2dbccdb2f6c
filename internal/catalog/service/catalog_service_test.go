package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"radagast/internal/dispatch"
	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/geo"
)

type mockCatalogRepository struct {
	FindVendorByIDFunc       func(ctx context.Context, id string) (*domain.Vendor, error)
	FindItemsByVendorFunc    func(ctx context.Context, vendorID string) ([]domain.CatalogItem, error)
	InsertItemFunc           func(ctx context.Context, item domain.CatalogItem) error
	UpdateItemFunc           func(ctx context.Context, item domain.CatalogItem) error
	UpdateVendorLocationFunc func(ctx context.Context, vendorID string, location domain.Location) error
}

func (m *mockCatalogRepository) FindVendorByID(ctx context.Context, id string) (*domain.Vendor, error) {
	return m.FindVendorByIDFunc(ctx, id)
}

func (m *mockCatalogRepository) FindItemsByVendor(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	return m.FindItemsByVendorFunc(ctx, vendorID)
}

func (m *mockCatalogRepository) InsertItem(ctx context.Context, item domain.CatalogItem) error {
	return m.InsertItemFunc(ctx, item)
}

func (m *mockCatalogRepository) UpdateItem(ctx context.Context, item domain.CatalogItem) error {
	return m.UpdateItemFunc(ctx, item)
}

func (m *mockCatalogRepository) UpdateVendorLocation(ctx context.Context, vendorID string, location domain.Location) error {
	return m.UpdateVendorLocationFunc(ctx, vendorID, location)
}

type mockGeocoder struct {
	ReverseGeocodeFunc func(ctx context.Context, lat, lng float64) (geo.GeocodeResult, error)
}

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (geo.GeocodeResult, error) {
	return m.ReverseGeocodeFunc(ctx, lat, lng)
}

type capturedEvent struct {
	target string
	event  dispatch.Event
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (e *recordingEmitter) EmitToUser(userID string, event dispatch.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, capturedEvent{target: userID, event: event})
}

func (e *recordingEmitter) EmitToRole(role string, event dispatch.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, capturedEvent{target: "role:" + role, event: event})
}

func validItemRequest() dto.CatalogItemRequest {
	return dto.CatalogItemRequest{
		Name:                 "Tomatoes",
		Description:          "ripe",
		Category:             "produce",
		UnitPrice:            2.50,
		Unit:                 "kg",
		QuantityAvailable:    40,
		IsAvailable:          true,
		MinimumOrderQuantity: 1,
	}
}

func foundVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	return &domain.Vendor{ID: id, Name: "Fresh Farm", IsActive: true}, nil
}

func TestAddItem_EmitsProfileUpdated(t *testing.T) {
	var inserted domain.CatalogItem
	repo := &mockCatalogRepository{
		FindVendorByIDFunc: foundVendor,
		InsertItemFunc: func(ctx context.Context, item domain.CatalogItem) error {
			inserted = item
			return nil
		},
	}
	emitter := &recordingEmitter{}
	svc := NewCatalogService(repo, &mockGeocoder{}, emitter, zap.NewNop())

	item, err := svc.AddItem(context.Background(), "vendor-1", validItemRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "vendor-1", item.VendorID)
	assert.Equal(t, inserted.ID, item.ID)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, "role:"+dispatch.RoleBuyer, emitter.events[0].target)
	assert.Equal(t, dispatch.EventProfileUpdated, emitter.events[0].event.Name)
	assert.Equal(t, "item_added", emitter.events[0].event.Data["change"])
}

func TestAddItem_ValidationFailure(t *testing.T) {
	repo := &mockCatalogRepository{
		FindVendorByIDFunc: foundVendor,
	}
	emitter := &recordingEmitter{}
	svc := NewCatalogService(repo, &mockGeocoder{}, emitter, zap.NewNop())

	req := validItemRequest()
	req.Name = ""
	req.MinimumOrderQuantity = 0

	_, err := svc.AddItem(context.Background(), "vendor-1", req)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Empty(t, emitter.events)
}

func TestAddItem_UnknownVendor(t *testing.T) {
	repo := &mockCatalogRepository{
		FindVendorByIDFunc: func(ctx context.Context, id string) (*domain.Vendor, error) {
			return nil, apperrors.NewNotFoundError("vendor not found")
		},
	}
	svc := NewCatalogService(repo, &mockGeocoder{}, &recordingEmitter{}, zap.NewNop())

	_, err := svc.AddItem(context.Background(), "ghost", validItemRequest())
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUpdateItem_NotOwned(t *testing.T) {
	repo := &mockCatalogRepository{
		UpdateItemFunc: func(ctx context.Context, item domain.CatalogItem) error {
			return apperrors.NewNotFoundError("catalog item not found for vendor")
		},
	}
	emitter := &recordingEmitter{}
	svc := NewCatalogService(repo, &mockGeocoder{}, emitter, zap.NewNop())

	_, err := svc.UpdateItem(context.Background(), "vendor-1", "item-other", validItemRequest())
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Empty(t, emitter.events)
}

func TestUpdateLocation_GeocodedAddressStored(t *testing.T) {
	var stored domain.Location
	repo := &mockCatalogRepository{
		FindVendorByIDFunc: foundVendor,
		UpdateVendorLocationFunc: func(ctx context.Context, vendorID string, location domain.Location) error {
			stored = location
			return nil
		},
	}
	geocoder := &mockGeocoder{
		ReverseGeocodeFunc: func(ctx context.Context, lat, lng float64) (geo.GeocodeResult, error) {
			return geo.GeocodeResult{
				Location: domain.Location{Latitude: lat, Longitude: lng, Address: "40 Market Rd"},
			}, nil
		},
	}
	emitter := &recordingEmitter{}
	svc := NewCatalogService(repo, geocoder, emitter, zap.NewNop())

	location, err := svc.UpdateLocation(context.Background(), "vendor-1", 4.60, -74.08)
	require.NoError(t, err)

	assert.Equal(t, "40 Market Rd", location.Address)
	assert.Equal(t, stored, *location)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, "location_updated", emitter.events[0].event.Data["change"])
}

func TestUpdateLocation_GeocoderFallbackKeepsCoordinates(t *testing.T) {
	var stored domain.Location
	repo := &mockCatalogRepository{
		FindVendorByIDFunc: foundVendor,
		UpdateVendorLocationFunc: func(ctx context.Context, vendorID string, location domain.Location) error {
			stored = location
			return nil
		},
	}
	geocoder := &mockGeocoder{
		ReverseGeocodeFunc: func(ctx context.Context, lat, lng float64) (geo.GeocodeResult, error) {
			return geo.GeocodeResult{
				Location: domain.Location{Latitude: lat, Longitude: lng},
				Fallback: true,
			}, nil
		},
	}
	svc := NewCatalogService(repo, geocoder, &recordingEmitter{}, zap.NewNop())

	location, err := svc.UpdateLocation(context.Background(), "vendor-1", 4.60, -74.08)
	require.NoError(t, err)

	assert.Empty(t, location.Address)
	assert.InDelta(t, 4.60, stored.Latitude, 1e-9)
	assert.InDelta(t, -74.08, stored.Longitude, 1e-9)
}

func TestUpdateLocation_RejectsOutOfRangeCoordinates(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepository{}, &mockGeocoder{}, &recordingEmitter{}, zap.NewNop())

	_, err := svc.UpdateLocation(context.Background(), "vendor-1", 91.0, 0)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	_, err = svc.UpdateLocation(context.Background(), "vendor-1", 0, -181.0)
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestListItems_UnknownVendor(t *testing.T) {
	repo := &mockCatalogRepository{
		FindVendorByIDFunc: func(ctx context.Context, id string) (*domain.Vendor, error) {
			return nil, apperrors.NewNotFoundError("vendor not found")
		},
	}
	svc := NewCatalogService(repo, &mockGeocoder{}, &recordingEmitter{}, zap.NewNop())

	_, err := svc.ListItems(context.Background(), "ghost")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
