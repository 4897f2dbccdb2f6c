package domain

import (
	"strings"
	"time"
)

// Location is the single canonical coordinate pair for an entity. Any spatial
// index representation is derived at the storage boundary, never stored as a
// second authoritative field.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type Rating struct {
	Average float64
	Count   int
}

type Vendor struct {
	ID         string
	Name       string
	Phone      string
	Address    string
	Location   *Location
	Rating     Rating
	IsVerified bool
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CatalogItem struct {
	ID                   string
	VendorID             string
	Name                 string
	Description          string
	Category             string
	UnitPrice            float64
	Unit                 string
	QuantityAvailable    int
	IsAvailable          bool
	MinimumOrderQuantity int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// MatchesKeyword reports whether the keyword substring-matches the item's
// name, description or category. Matching is case-insensitive; the caller
// passes an already-lowercased keyword.
func (i CatalogItem) MatchesKeyword(keyword string) bool {
	if keyword == "" {
		return true
	}
	return containsFold(i.Name, keyword) ||
		containsFold(i.Description, keyword) ||
		containsFold(i.Category, keyword)
}

func containsFold(s, keyword string) bool {
	return strings.Contains(strings.ToLower(s), keyword)
}

type Buyer struct {
	ID        string
	Name      string
	Phone     string
	Address   string
	Location  *Location
	CreatedAt time.Time
	UpdatedAt time.Time
}
