package domain

import "time"

type Order struct {
	ID           string
	BuyerID      string
	VendorID     string
	Buyer        PartySnapshot
	Vendor       PartySnapshot
	Items        []LineItem
	TotalAmount  float64
	Status       string
	History      []StatusEntry
	Payment      *PaymentRecord
	DeliveryNote string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	OrderStatusPending    = "PENDING"
	OrderStatusApproved   = "APPROVED"
	OrderStatusRejected   = "REJECTED"
	OrderStatusPaid       = "PAID"
	OrderStatusDispatched = "DISPATCHED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// PartySnapshot captures a party's contact and location at placement time.
// It is written once on order creation and never refreshed.
type PartySnapshot struct {
	Name     string
	Phone    string
	Address  string
	Location *Location
}

type LineItem struct {
	ItemID    string
	Name      string
	Quantity  int
	Unit      string
	UnitPrice float64
	LineTotal float64
}

type StatusEntry struct {
	Status    string
	Timestamp time.Time
	Note      string
}

type PaymentRecord struct {
	ExternalOrderRef   string
	ExternalPaymentRef string
	Signature          string
	Amount             float64
	VerifiedAt         time.Time
}

var orderTransitions = map[string][]string{
	OrderStatusPending:  {OrderStatusApproved, OrderStatusRejected, OrderStatusCancelled},
	OrderStatusApproved: {OrderStatusPaid, OrderStatusDispatched, OrderStatusCancelled},
	// DISPATCHED is reachable from APPROVED too: cash-on-delivery orders ship unpaid.
	OrderStatusPaid:       {OrderStatusDispatched},
	OrderStatusDispatched: {OrderStatusDelivered},
}

func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transition leaves the status.
func IsTerminalStatus(status string) bool {
	return len(orderTransitions[status]) == 0
}

// ComputeTotal returns the sum of line totals.
func (o *Order) ComputeTotal() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.LineTotal
	}
	return total
}
