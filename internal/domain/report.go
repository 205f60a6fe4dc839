package domain

import "github.com/shopspring/decimal"

// PerformanceReport summarizes realized strategy performance against a
// dollar-cost-averaging baseline. Recomputed from the exchange record on
// every run, never persisted.
type PerformanceReport struct {
	// TotalSpent is the quote currency spent across all fills.
	TotalSpent decimal.Decimal
	// TotalQuantity is the base currency acquired across all fills.
	TotalQuantity decimal.Decimal
	// TotalFees is the sum of reported fees.
	TotalFees decimal.Decimal
	// RealizedReturn is holdings valued at the reference price divided by
	// total spend. Zero when there are no fills.
	RealizedReturn decimal.Decimal
	// DCAReturn is the return a fixed-spend-per-trade strategy would have
	// achieved over the same trades with the same total spend.
	DCAReturn decimal.Decimal
	// FilledOrders counts distinct filled order ids.
	FilledOrders int
	// FillCount counts individual fills, which may exceed FilledOrders when
	// orders fill in parts.
	FillCount int
	// OpenOrders counts orders still resting on the book.
	OpenOrders int
}
