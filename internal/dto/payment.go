package dto

type CreateIntentRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

type CreateIntentResponse struct {
	ExternalOrderRef string  `json:"externalOrderRef"`
	Amount           float64 `json:"amount"`
}

type VerifyPaymentRequest struct {
	ExternalOrderRef   string  `json:"externalOrderRef"`
	ExternalPaymentRef string  `json:"externalPaymentRef"`
	Signature          string  `json:"signature"`
	Amount             float64 `json:"amount"`
}
