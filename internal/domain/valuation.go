package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValuationResult is the outcome of valuing the current price against a
// trailing average.
type ValuationResult struct {
	// Score indicates how favorable the current price is, from 0 (expensive)
	// to 1 (cheap).
	Score decimal.Decimal
	// ReferencePrice is the ask price the score was computed from. Downstream
	// stages use it instead of re-fetching, so the whole run shares one price
	// basis.
	ReferencePrice decimal.Decimal
}

// AnomalyError reports that the market failed the abnormal-condition guard:
// price spiked far above the trailing average or the quote spread is broken.
// The current run must not buy; the next scheduled run proceeds normally.
type AnomalyError struct {
	// Ratio is ask price divided by the trailing average.
	Ratio decimal.Decimal
	// Spread is the ask-bid difference.
	Spread decimal.Decimal
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("asking price is too high relative to the average or the current bid (ratio %s, spread %s)",
		e.Ratio.String(), e.Spread.String())
}
