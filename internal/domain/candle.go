package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Candle aggregated OHLCV data for one fixed period.
type Candle struct {
	// Open is the opening price.
	Open decimal.Decimal
	// High is the highest price of the period.
	High decimal.Decimal
	// Low is the lowest price of the period.
	Low decimal.Decimal
	// Close is the closing price.
	Close decimal.Decimal
	// Volume is the traded volume of the period.
	Volume decimal.Decimal
	// Time is the period start timestamp.
	Time time.Time
}

// TrailingCloses returns close prices of the n most recent candles, ordered
// oldest to newest. Feeds deliver candles in either direction, so ordering is
// established from timestamps rather than assumed.
func TrailingCloses(candles []Candle, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", n)
	}
	if len(candles) < n {
		return nil, fmt.Errorf("not enough candles: need %d, got %d", n, len(candles))
	}

	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	closes := make([]decimal.Decimal, 0, n)
	for _, c := range sorted[len(sorted)-n:] {
		closes = append(closes, c.Close)
	}

	return closes, nil
}
