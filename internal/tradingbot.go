// Package internal wires the pipeline stages into a scheduled trading bot.
package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leviob/dvabot/config"
	"github.com/leviob/dvabot/internal/clients/gemini"
	"github.com/leviob/dvabot/internal/domain"
	"github.com/leviob/dvabot/internal/services/analytics"
	"github.com/leviob/dvabot/internal/services/history"
	"github.com/leviob/dvabot/internal/services/notifier"
	"github.com/leviob/dvabot/internal/services/sizer"
	"github.com/leviob/dvabot/internal/services/trader"
	"github.com/leviob/dvabot/internal/services/valuation"
	"github.com/leviob/dvabot/pkg/retrier"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type marketData interface {
	Candles(ctx context.Context, symbol, interval string) ([]domain.Candle, error)
	Ticker(ctx context.Context, symbol string) (domain.Ticker, error)
	ActiveOrders(ctx context.Context) ([]domain.OpenOrder, error)
}

type valuer interface {
	Evaluate(candles []domain.Candle, ticker domain.Ticker) (domain.ValuationResult, error)
}

type orderSizer interface {
	Size(score decimal.Decimal) decimal.Decimal
}

type orderExecutor interface {
	Execute(ctx context.Context, usdAmount, priceBasis decimal.Decimal) (domain.OrderOutcome, error)
}

type historian interface {
	FetchAll(ctx context.Context) ([]domain.TradeRecord, error)
}

type reporter interface {
	Analyze(fills []domain.TradeRecord, referencePrice decimal.Decimal, openOrders int) domain.PerformanceReport
}

// TradingBot runs the decision pipeline for one pair on a fixed schedule.
// Each run is stateless: derived state is recomputed from the exchange's
// authoritative record, never carried between runs.
type TradingBot struct {
	conf        config.Config
	market      marketData
	valuer      valuer
	sizer       orderSizer
	executor    orderExecutor
	historian   historian
	attribution history.Attribution
	reporter    reporter
	notifier    notifier.Notifier
	logger      *zap.Logger
}

// NewTradingBot assembles the pipeline for one configured pair.
func NewTradingBot(conf config.Config, client *gemini.Client, notify notifier.Notifier, logger *zap.Logger) (*TradingBot, error) {
	engine, err := valuation.NewEngine(conf.AverageWindow, conf.GoodRatio, conf.PoorRatio,
		conf.DangerRatio, conf.MaxSpread, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create valuation engine")
	}

	orderSizer, err := sizer.New(conf.MinPurchase, conf.MaxPurchase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order sizer")
	}

	return &TradingBot{
		conf:        conf,
		market:      client,
		valuer:      engine,
		sizer:       orderSizer,
		executor:    trader.NewExecutor(client, conf.Pair, conf.ExchangeMinQty, conf.StrategyTag, logger),
		historian:   history.NewAggregator(client, logger),
		attribution: history.NewAttribution(conf.StrategyTag),
		reporter:    analytics.NewAnalyzer(logger),
		notifier:    notify,
		logger:      logger,
	}, nil
}

// RunOnce executes one full pipeline run: valuation, sizing, execution, then
// history reconciliation and performance reporting. History is read after
// order placement so the run's own fill can show up, though very recent fills
// may still be missing; that is a timing characteristic, not an error.
func (b *TradingBot) RunOnce(ctx context.Context) (domain.PerformanceReport, error) {
	symbol := b.conf.Pair.Symbol()

	candles, err := b.market.Candles(ctx, symbol, b.conf.CandleInterval)
	if err != nil {
		return domain.PerformanceReport{}, errors.Wrap(err, "failed to fetch candles")
	}
	ticker, err := b.market.Ticker(ctx, symbol)
	if err != nil {
		return domain.PerformanceReport{}, errors.Wrap(err, "failed to fetch ticker")
	}

	val, err := b.valuer.Evaluate(candles, ticker)
	if err != nil {
		return domain.PerformanceReport{}, err
	}

	usdAmount := b.sizer.Size(val.Score)
	b.logger.Info("purchase decision",
		zap.String("score", val.Score.String()),
		zap.String("usd_amount", usdAmount.String()))

	if _, err := b.executor.Execute(ctx, usdAmount, val.ReferencePrice); err != nil {
		return domain.PerformanceReport{}, err
	}

	trades, err := b.historian.FetchAll(ctx)
	if err != nil {
		return domain.PerformanceReport{}, errors.Wrap(err, "failed to fetch trade history")
	}
	fills := b.attribution.Filter(trades)

	open, err := b.market.ActiveOrders(ctx)
	if err != nil {
		return domain.PerformanceReport{}, errors.Wrap(err, "failed to fetch active orders")
	}

	return b.reporter.Analyze(fills, val.ReferencePrice, countDistinctOrders(open)), nil
}

// Run executes the pipeline immediately and then on every scheduled tick
// until the context is cancelled. Each run is retried with a fixed delay; a
// run that still fails after the last retry is reported through the notifier.
// A deliberate refusal to buy (anomaly guard trip, sub-minimum order) is a
// decision, not a fault, so it is neither retried nor notified.
func (b *TradingBot) Run(ctx context.Context) error {
	b.logger.Info("starting trading loop",
		zap.String("pair", b.conf.Pair.String()),
		zap.Duration("interval", b.conf.RunInterval))

	ticker := time.NewTicker(b.conf.RunInterval)
	defer ticker.Stop()

	b.runWithRetry(ctx)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context done, stopping trading bot", zap.String("pair", b.conf.Pair.String()))
			return ctx.Err()
		case <-ticker.C:
			b.runWithRetry(ctx)
		}
	}
}

func (b *TradingBot) runWithRetry(ctx context.Context) {
	runID := uuid.NewString()
	logger := b.logger.With(zap.String("run_id", runID))

	attempts := b.conf.RetryCount
	if attempts < 1 {
		attempts = 1
	}

	r := retrier.New(
		retrier.WithMaxRetries(attempts-1),
		retrier.WithInitialInterval(b.conf.RetryDelay),
		retrier.WithMultiplier(1),
		retrier.WithJitter(0),
		retrier.WithAbort(isDecision),
		retrier.WithOnRetry(func(attempt int, err error) {
			logger.Error("run attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		}),
	)

	report, err := retrier.DoWithData(r, ctx, b.RunOnce)
	if err == nil {
		logger.Info("run complete", zap.Any("report", report))
		return
	}

	if isDecision(err) {
		logger.Warn("run skipped", zap.Error(err))
		return
	}

	if ctx.Err() != nil {
		return
	}

	logger.Error("run failed after exhausting retries", zap.Error(err))
	if nerr := b.notifier.NotifyFailure(runID, err); nerr != nil {
		logger.Error("failure notification not delivered", zap.Error(nerr))
	}
}

// isDecision reports whether the error is a deliberate refusal to buy (market
// anomaly guard, sub-minimum order) rather than a fault. Decisions are neither
// retried nor notified.
func isDecision(err error) bool {
	var anomaly *domain.AnomalyError
	var tooSmall *domain.TooSmallError
	return errors.As(err, &anomaly) || errors.As(err, &tooSmall)
}

func countDistinctOrders(orders []domain.OpenOrder) int {
	ids := make(map[string]struct{})
	for _, o := range orders {
		ids[o.OrderID] = struct{}{}
	}
	return len(ids)
}
