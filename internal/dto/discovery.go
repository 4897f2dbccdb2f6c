package dto

import "radagast/internal/domain"

// DiscoveryFilters are the knobs a search request can set. Zero values mean
// "use the default" for MaxDistanceKm and "no filter" for the rest.
type DiscoveryFilters struct {
	MaxDistanceKm float64
	MinRating     float64
	VerifiedOnly  bool
}

// DiscoveredVendor pairs a candidate with its computed distance. The
// distance is a per-query derived value and is never persisted.
type DiscoveredVendor struct {
	Vendor     domain.Vendor
	DistanceKm float64
}

// DiscoveryResult carries the ranked candidates plus the keyword that was
// actually matched; Fallback marks a degraded keyword normalization.
type DiscoveryResult struct {
	Keyword  string
	Fallback bool
	Vendors  []DiscoveredVendor
}

type DiscoveredVendorDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RatingAverage float64 `json:"ratingAverage"`
	RatingCount   int     `json:"ratingCount"`
	IsVerified    bool    `json:"isVerified"`
	DistanceKm    float64 `json:"distanceKm"`
}

type DiscoverVendorsResponse struct {
	Keyword  string                `json:"keyword"`
	Fallback bool                  `json:"fallback"`
	Vendors  []DiscoveredVendorDTO `json:"vendors"`
}
