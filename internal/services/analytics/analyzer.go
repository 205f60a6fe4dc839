// Package analytics aggregates filled orders into spend, quantity and return
// metrics with a dollar-cost-averaging baseline for comparison.
package analytics

import (
	"github.com/leviob/dvabot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Analyzer derives a performance report from the strategy's fills. Inputs are
// never mutated and nothing is persisted; the report is recomputed from the
// exchange record on every run.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer returns a report builder.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze totals the fills and values the holdings at referencePrice. With no
// fills the ratios degrade to zero instead of dividing by zero. The DCA
// baseline re-simulates the same trades with the total spend split evenly
// across them, isolating what variable sizing added.
func (a *Analyzer) Analyze(fills []domain.TradeRecord, referencePrice decimal.Decimal, openOrders int) domain.PerformanceReport {
	report := domain.PerformanceReport{
		TotalSpent:     decimal.Zero,
		TotalQuantity:  decimal.Zero,
		TotalFees:      decimal.Zero,
		RealizedReturn: decimal.Zero,
		DCAReturn:      decimal.Zero,
		FillCount:      len(fills),
		OpenOrders:     openOrders,
	}

	filledOrderIDs := make(map[string]struct{})
	for _, fill := range fills {
		filledOrderIDs[fill.OrderID] = struct{}{}
		report.TotalSpent = report.TotalSpent.Add(fill.Price.Mul(fill.Amount))
		report.TotalQuantity = report.TotalQuantity.Add(fill.Amount)
		report.TotalFees = report.TotalFees.Add(fill.FeeAmount)
	}
	report.FilledOrders = len(filledOrderIDs)

	if report.TotalSpent.IsZero() {
		a.logger.Info("no filled trades to analyze", zap.Int("open_orders", openOrders))
		return report
	}

	report.RealizedReturn = report.TotalQuantity.Mul(referencePrice).Div(report.TotalSpent)

	averageSpend := report.TotalSpent.Div(decimal.NewFromInt(int64(len(fills))))
	dcaQuantity := decimal.Zero
	for _, fill := range fills {
		dcaQuantity = dcaQuantity.Add(averageSpend.Div(fill.Price))
	}
	report.DCAReturn = dcaQuantity.Mul(referencePrice).Div(report.TotalSpent)

	a.logger.Info("performance report",
		zap.String("total_spent", report.TotalSpent.String()),
		zap.String("total_quantity", report.TotalQuantity.String()),
		zap.String("total_fees", report.TotalFees.String()),
		zap.String("realized_return", report.RealizedReturn.String()),
		zap.String("dca_return", report.DCAReturn.String()),
		zap.Int("filled_orders", report.FilledOrders),
		zap.Int("fills", report.FillCount),
		zap.Int("open_orders", report.OpenOrders))

	return report
}
