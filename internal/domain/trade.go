package domain

import "github.com/shopspring/decimal"

// TradeRecord is a single fill reported by the exchange. The exchange record
// is the authoritative ledger; the bot keeps no copy of its own.
type TradeRecord struct {
	// OrderID is the exchange-assigned order id. One order may fill as several
	// trades sharing an OrderID.
	OrderID string
	// ClientOrderID is the id the submitter attached to the order.
	ClientOrderID string
	// Price is the fill price.
	Price decimal.Decimal
	// Amount is the filled base currency amount.
	Amount decimal.Decimal
	// FeeAmount is the fee charged for this fill.
	FeeAmount decimal.Decimal
	// Timestamp is the fill time in unix seconds.
	Timestamp int64
}

// OpenOrder is a live order resting on the exchange book.
type OpenOrder struct {
	OrderID       string
	ClientOrderID string
	Symbol        string
}
