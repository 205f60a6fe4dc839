// Package valuation scores the current price against a trailing average and
// guards against abnormal market conditions.
package valuation

import (
	"fmt"

	"github.com/leviob/dvabot/internal/domain"
	"github.com/leviob/dvabot/pkg/indicators"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine converts market data into a bounded value score.
type Engine struct {
	window    int
	good      decimal.Decimal
	poor      decimal.Decimal
	danger    decimal.Decimal
	maxSpread decimal.Decimal
	logger    *zap.Logger
}

// NewEngine returns a configured valuation engine. The ratio thresholds must
// satisfy good < poor < danger.
func NewEngine(window int, good, poor, danger, maxSpread decimal.Decimal, logger *zap.Logger) (*Engine, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	if !good.LessThan(poor) || !poor.LessThan(danger) {
		return nil, fmt.Errorf("ratio thresholds must satisfy good < poor < danger, got %s, %s, %s",
			good.String(), poor.String(), danger.String())
	}
	if maxSpread.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("max spread must be positive, got %s", maxSpread.String())
	}

	return &Engine{
		window:    window,
		good:      good,
		poor:      poor,
		danger:    danger,
		maxSpread: maxSpread,
		logger:    logger,
	}, nil
}

// Evaluate scores the ask price against the trailing average of candle
// closes. Returns an AnomalyError when the price spiked past the danger ratio
// or the quote spread exceeds the configured maximum; the caller must not buy
// in that state.
func (e *Engine) Evaluate(candles []domain.Candle, ticker domain.Ticker) (domain.ValuationResult, error) {
	closes, err := domain.TrailingCloses(candles, e.window)
	if err != nil {
		return domain.ValuationResult{}, err
	}

	averagePrice, err := indicators.TrailingAverage(closes, e.window)
	if err != nil {
		return domain.ValuationResult{}, err
	}
	ratio := ticker.Ask.Div(averagePrice)
	spread := ticker.Spread()

	e.logger.Info("price valuation",
		zap.String("ask", ticker.Ask.String()),
		zap.String("average", averagePrice.String()),
		zap.String("ratio", ratio.String()))

	if ratio.GreaterThan(e.danger) || spread.GreaterThan(e.maxSpread) {
		return domain.ValuationResult{}, &domain.AnomalyError{Ratio: ratio, Spread: spread}
	}

	// score is linear between the good and poor ratios, 1 at or below good,
	// 0 at or above poor
	score := decimal.NewFromInt(1).
		Sub(ratio.Sub(e.good).Div(e.poor.Sub(e.good))).
		Round(2)
	score = clampScore(score)

	e.logger.Debug("valuation score", zap.String("score", score.String()))

	return domain.ValuationResult{Score: score, ReferencePrice: ticker.Ask}, nil
}

func clampScore(score decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if score.GreaterThan(one) {
		return one
	}
	if score.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return score
}
