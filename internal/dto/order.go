package dto

import (
	"time"

	"radagast/internal/domain"
)

type CreateOrderRequest struct {
	VendorID     string             `json:"vendorId"`
	Items        []OrderItemRequest `json:"items"`
	DeliveryNote string             `json:"deliveryNote,omitempty"`
}

type OrderItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type LineItemDTO struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type StatusEntryDTO struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

type PaymentDTO struct {
	ExternalOrderRef   string    `json:"externalOrderRef"`
	ExternalPaymentRef string    `json:"externalPaymentRef"`
	Amount             float64   `json:"amount"`
	VerifiedAt         time.Time `json:"verifiedAt"`
}

type OrderResponse struct {
	ID           string           `json:"id"`
	BuyerID      string           `json:"buyerId"`
	VendorID     string           `json:"vendorId"`
	Status       string           `json:"status"`
	Items        []LineItemDTO    `json:"items"`
	TotalAmount  float64          `json:"totalAmount"`
	DeliveryNote string           `json:"deliveryNote,omitempty"`
	History      []StatusEntryDTO `json:"statusHistory"`
	Payment      *PaymentDTO      `json:"payment,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]LineItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = LineItemDTO{
			ItemID:    item.ItemID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}

	history := make([]StatusEntryDTO, len(order.History))
	for i, entry := range order.History {
		history[i] = StatusEntryDTO{
			Status:    entry.Status,
			Timestamp: entry.Timestamp,
			Note:      entry.Note,
		}
	}

	var payment *PaymentDTO
	if order.Payment != nil {
		payment = &PaymentDTO{
			ExternalOrderRef:   order.Payment.ExternalOrderRef,
			ExternalPaymentRef: order.Payment.ExternalPaymentRef,
			Amount:             order.Payment.Amount,
			VerifiedAt:         order.Payment.VerifiedAt,
		}
	}

	return OrderResponse{
		ID:           order.ID,
		BuyerID:      order.BuyerID,
		VendorID:     order.VendorID,
		Status:       order.Status,
		Items:        items,
		TotalAmount:  order.TotalAmount,
		DeliveryNote: order.DeliveryNote,
		History:      history,
		Payment:      payment,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}
