package dispatch

import "time"

// Event names are part of the client contract and must stay stable.
const (
	EventOrderRequest    = "order_request"
	EventOrderApproved   = "order_approved"
	EventOrderRejected   = "order_rejected"
	EventOrderDispatched = "order_dispatched"
	EventOrderDelivered  = "order_delivered"
	EventOrderCancelled  = "order_cancelled"
	EventPaymentDone     = "payment_done"
	EventReviewSubmitted = "review_submitted"
	EventProfileUpdated  = "profile_updated"
)

const (
	RoleBuyer  = "buyer"
	RoleVendor = "vendor"
)

type Event struct {
	Name      string                 `json:"event"`
	EntityID  string                 `json:"entityId"`
	ActorID   string                 `json:"actorId"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func NewEvent(name, entityID, actorID string, data map[string]interface{}) Event {
	return Event{
		Name:      name,
		EntityID:  entityID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
