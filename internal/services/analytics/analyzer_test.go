package analytics

import (
	"testing"

	"github.com/leviob/dvabot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fill(orderID, price, amount, fee string, ts int64) domain.TradeRecord {
	return domain.TradeRecord{
		OrderID:       orderID,
		ClientOrderID: "bot_v2_" + orderID,
		Price:         decimal.RequireFromString(price),
		Amount:        decimal.RequireFromString(amount),
		FeeAmount:     decimal.RequireFromString(fee),
		Timestamp:     ts,
	}
}

func TestAnalyze_ThreeTradeScenario(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())

	fills := []domain.TradeRecord{
		fill("1", "100", "0.1", "0.03", 300),
		fill("2", "110", "0.1", "0.03", 200),
		fill("3", "90", "0.1", "0.03", 100),
	}
	ref := decimal.NewFromInt(120)

	report := a.Analyze(fills, ref, 2)

	require.True(t, report.TotalSpent.Equal(decimal.NewFromInt(30)), "got %s", report.TotalSpent.String())
	require.True(t, report.TotalQuantity.Equal(decimal.RequireFromString("0.3")), "got %s", report.TotalQuantity.String())
	require.True(t, report.TotalFees.Equal(decimal.RequireFromString("0.09")), "got %s", report.TotalFees.String())
	require.True(t, report.RealizedReturn.Equal(decimal.RequireFromString("1.2")), "got %s", report.RealizedReturn.String())
	require.Equal(t, 3, report.FilledOrders)
	require.Equal(t, 3, report.FillCount)
	require.Equal(t, 2, report.OpenOrders)

	// DCA baseline: 10 USD per trade buys 10/100 + 10/110 + 10/90, valued at
	// the reference price over the same 30 USD spend
	ten := decimal.NewFromInt(10)
	dcaQty := ten.Div(decimal.NewFromInt(100)).
		Add(ten.Div(decimal.NewFromInt(110))).
		Add(ten.Div(decimal.NewFromInt(90)))
	wantDCA := dcaQty.Mul(ref).Div(decimal.NewFromInt(30))
	require.True(t, report.DCAReturn.Equal(wantDCA),
		"want %s, got %s", wantDCA.String(), report.DCAReturn.String())

	// uniform sizing over these trades slightly beats the realized return
	require.True(t, report.DCAReturn.GreaterThan(report.RealizedReturn))
}

func TestAnalyze_PartialFillsShareOrderID(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())

	fills := []domain.TradeRecord{
		fill("1", "100", "0.05", "0.01", 300),
		fill("1", "100", "0.05", "0.01", 301),
		fill("2", "100", "0.1", "0.02", 400),
	}

	report := a.Analyze(fills, decimal.NewFromInt(100), 0)
	require.Equal(t, 2, report.FilledOrders, "partial fills of one order count once")
	require.Equal(t, 3, report.FillCount)
	require.True(t, report.TotalQuantity.Equal(decimal.RequireFromString("0.2")))
}

func TestAnalyze_NoTradesDegradesToZeros(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())

	report := a.Analyze(nil, decimal.NewFromInt(120), 1)

	require.True(t, report.TotalSpent.IsZero())
	require.True(t, report.TotalQuantity.IsZero())
	require.True(t, report.RealizedReturn.IsZero(), "no trades must not divide by zero")
	require.True(t, report.DCAReturn.IsZero())
	require.Equal(t, 0, report.FilledOrders)
	require.Equal(t, 1, report.OpenOrders)
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())

	fills := []domain.TradeRecord{fill("1", "100", "0.1", "0.03", 100)}
	before := fills[0]

	a.Analyze(fills, decimal.NewFromInt(120), 0)
	require.Equal(t, before, fills[0])
}
