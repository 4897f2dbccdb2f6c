package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	"radagast/internal/geo"
	"radagast/internal/translate"
)

type VendorSearcher interface {
	SearchVendors(ctx context.Context, keyword string) ([]domain.Vendor, error)
}

// DiscoveryService ranks vendors around a buyer by rating and proximity.
// The keyword is normalized through the translator first; a translator
// outage degrades to the local heuristic and the result is marked.
type DiscoveryService struct {
	vendors           VendorSearcher
	translator        translate.Translator
	defaultDistanceKm float64
	logger            *zap.Logger
}

func NewDiscoveryService(vendors VendorSearcher, translator translate.Translator, defaultDistanceKm float64, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{
		vendors:           vendors,
		translator:        translator,
		defaultDistanceKm: defaultDistanceKm,
		logger:            logger,
	}
}

func (s *DiscoveryService) Discover(ctx context.Context, buyerLat, buyerLng float64, keyword string, filters dto.DiscoveryFilters) (*dto.DiscoveryResult, error) {
	normalized := s.translator.Normalize(ctx, keyword)

	candidates, err := s.vendors.SearchVendors(ctx, normalized.Keyword)
	if err != nil {
		return nil, err
	}

	maxDistance := filters.MaxDistanceKm
	if maxDistance <= 0 {
		maxDistance = s.defaultDistanceKm
	}

	matches := make([]dto.DiscoveredVendor, 0, len(candidates))
	for _, vendor := range candidates {
		// Vendors without a location are excluded, never defaulted.
		if vendor.Location == nil {
			continue
		}

		distance := geo.DistanceKm(buyerLat, buyerLng, vendor.Location.Latitude, vendor.Location.Longitude)
		if distance > maxDistance {
			continue
		}
		if vendor.Rating.Average < filters.MinRating {
			continue
		}
		if filters.VerifiedOnly && !vendor.IsVerified {
			continue
		}

		matches = append(matches, dto.DiscoveredVendor{Vendor: vendor, DistanceKm: distance})
	}

	// Rating desc, distance asc, vendor id asc: the id is the final key so
	// identical inputs always paginate identically.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Vendor.Rating.Average != matches[j].Vendor.Rating.Average {
			return matches[i].Vendor.Rating.Average > matches[j].Vendor.Rating.Average
		}
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Vendor.ID < matches[j].Vendor.ID
	})

	s.logger.Debug("discovery completed",
		zap.String("keyword", normalized.Keyword),
		zap.Bool("fallback", normalized.Fallback),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
	)

	return &dto.DiscoveryResult{
		Keyword:  normalized.Keyword,
		Fallback: normalized.Fallback,
		Vendors:  matches,
	}, nil
}
