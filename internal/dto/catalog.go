package dto

import (
	"time"

	"radagast/internal/domain"
)

type CatalogItemRequest struct {
	Name                 string  `json:"name"`
	Description          string  `json:"description,omitempty"`
	Category             string  `json:"category"`
	UnitPrice            float64 `json:"unitPrice"`
	Unit                 string  `json:"unit"`
	QuantityAvailable    int     `json:"quantityAvailable"`
	IsAvailable          bool    `json:"isAvailable"`
	MinimumOrderQuantity int     `json:"minimumOrderQuantity"`
}

type CatalogItemResponse struct {
	ID                   string    `json:"id"`
	VendorID             string    `json:"vendorId"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	Category             string    `json:"category"`
	UnitPrice            float64   `json:"unitPrice"`
	Unit                 string    `json:"unit"`
	QuantityAvailable    int       `json:"quantityAvailable"`
	IsAvailable          bool      `json:"isAvailable"`
	MinimumOrderQuantity int       `json:"minimumOrderQuantity"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func NewCatalogItemResponse(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:                   item.ID,
		VendorID:             item.VendorID,
		Name:                 item.Name,
		Description:          item.Description,
		Category:             item.Category,
		UnitPrice:            item.UnitPrice,
		Unit:                 item.Unit,
		QuantityAvailable:    item.QuantityAvailable,
		IsAvailable:          item.IsAvailable,
		MinimumOrderQuantity: item.MinimumOrderQuantity,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
