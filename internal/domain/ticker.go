package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticker immutable snapshot of the current quote.
type Ticker struct {
	// Bid is the highest buy offer.
	Bid decimal.Decimal
	// Ask is the lowest sell offer.
	Ask decimal.Decimal
	// Time is when the snapshot was taken.
	Time time.Time
}

// Spread returns the ask-bid difference.
func (t Ticker) Spread() decimal.Decimal {
	return t.Ask.Sub(t.Bid)
}
