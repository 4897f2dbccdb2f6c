package domain

import "time"

type Review struct {
	ID        string
	OrderID   string
	BuyerID   string
	VendorID  string
	Rating    int
	Text      string
	CreatedAt time.Time
}

const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)
