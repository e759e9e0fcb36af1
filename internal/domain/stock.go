package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a single stock holding
type Stock struct {
	ID            int64            `json:"id"`
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	Quantity      decimal.Decimal  `json:"quantity"`
	PurchasePrice decimal.Decimal  `json:"purchasePrice"`
	CurrentPrice  *decimal.Decimal `json:"currentPrice"`
	LastUpdated   *time.Time       `json:"lastUpdated"`
}

// PricePatch is the update-by-id payload for a holding's market price
type PricePatch struct {
	CurrentPrice decimal.Decimal
	LastUpdated  time.Time
}

// NewPricePatch validates price and stamps it with at
func NewPricePatch(price float64, at time.Time) (PricePatch, error) {
	if !ValidPrice(price) {
		return PricePatch{}, ErrInvalidPrice
	}
	return PricePatch{
		CurrentPrice: decimal.NewFromFloat(price),
		LastUpdated:  at.UTC(),
	}, nil
}

// PriceSnapshot is a recorded price for a symbol at a point in time
type PriceSnapshot struct {
	ID        int64           `json:"id"`
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetchedAt"`
}
