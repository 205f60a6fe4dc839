package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OptionMakerOrCancel makes the order execute only if it adds liquidity,
// otherwise the exchange cancels it immediately.
const OptionMakerOrCancel = "maker-or-cancel"

// clientOrderIDTimeLayout gives minute resolution, so repeated submissions
// within the same minute deduplicate naturally. Retries in a later minute get
// a fresh id; global idempotency is not guaranteed.
const clientOrderIDTimeLayout = "2006-01-02_15:04"

// NewClientOrderID builds the client order id that attributes an order to this
// strategy: the strategy version tag plus a minute-resolution timestamp.
// Attribution filtering must use the same tag value.
func NewClientOrderID(tag string, t time.Time) string {
	return fmt.Sprintf("%s_%s", tag, t.Format(clientOrderIDTimeLayout))
}

// OrderRequest is a limit buy order to be submitted to the exchange.
type OrderRequest struct {
	// Symbol is the exchange symbol, e.g. "ethusd".
	Symbol string
	// Price is the limit price.
	Price decimal.Decimal
	// Quantity is the amount of base currency to buy.
	Quantity decimal.Decimal
	// ClientOrderID attributes the order to this strategy.
	ClientOrderID string
}

// OrderStatus classifies the exchange response to an order submission.
type OrderStatus int

const (
	// OrderFilled means the maker order was accepted and rests on the book.
	OrderFilled OrderStatus = iota
	// OrderCancelled means the exchange cancelled the maker-or-cancel order.
	OrderCancelled
	// OrderFailed means the exchange returned an error envelope or a response
	// shape the client does not recognize.
	OrderFailed
)

// String returns a human-readable status name.
func (s OrderStatus) String() string {
	switch s {
	case OrderFilled:
		return "filled"
	case OrderCancelled:
		return "cancelled"
	case OrderFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// OrderOutcome is the decoded result of an order submission. The exchange
// envelope is interpreted once at the client boundary; nothing downstream
// branches on raw response fields.
type OrderOutcome struct {
	Status OrderStatus
	// OrderID is the exchange-assigned id, set when the order was accepted.
	OrderID string
	// Reason is the cancellation reason or error message for non-filled
	// outcomes.
	Reason string
}

// CancelledError reports that the exchange cancelled a maker-or-cancel order.
type CancelledError struct {
	Reason string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("order was cancelled: %s", e.Reason)
}

// TooSmallError reports a computed quantity at or below the exchange minimum.
// Such orders are never submitted.
type TooSmallError struct {
	Quantity decimal.Decimal
	Minimum  decimal.Decimal
}

func (e *TooSmallError) Error() string {
	return fmt.Sprintf("order quantity %s is at or below the exchange minimum %s",
		e.Quantity.String(), e.Minimum.String())
}
