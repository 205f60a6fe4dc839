// Package trader converts a sized USD amount into an idempotent
// maker-or-cancel limit buy on the exchange.
package trader

import (
	"context"
	"time"

	"github.com/leviob/dvabot/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const quantityPrecision = 6

type exchange interface {
	Ticker(ctx context.Context, symbol string) (domain.Ticker, error)
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderOutcome, error)
}

// Executor submits limit buy orders with a price-chasing guard and an
// exchange minimum-size floor.
type Executor struct {
	exchange exchange
	pair     domain.Pair
	minQty   decimal.Decimal
	undercut decimal.Decimal
	tag      string
	logger   *zap.Logger

	// now is overridable in tests for deterministic client order ids.
	now func() time.Time
}

// NewExecutor returns an executor for the pair. minQty is the exchange's
// published minimum tradable quantity for the symbol; tag is the strategy
// version prefix for client order ids.
func NewExecutor(exchange exchange, pair domain.Pair, minQty decimal.Decimal, tag string, logger *zap.Logger) *Executor {
	return &Executor{
		exchange: exchange,
		pair:     pair,
		minQty:   minQty,
		// one currency unit below ask, to realistically rest as a maker order
		undercut: decimal.NewFromInt(1),
		tag:      tag,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute places a maker-or-cancel limit buy for usdAmount. The execution
// price never exceeds priceBasis: if the ask rose since valuation the
// originally evaluated price is kept, if it fell the lower price is used.
// Returns a TooSmallError without submitting when the computed quantity is at
// or below the exchange minimum, and a CancelledError when the exchange
// cancelled the order.
func (e *Executor) Execute(ctx context.Context, usdAmount, priceBasis decimal.Decimal) (domain.OrderOutcome, error) {
	fresh, err := e.exchange.Ticker(ctx, e.pair.Symbol())
	if err != nil {
		return domain.OrderOutcome{}, errors.Wrap(err, "failed to refresh ticker before order")
	}

	basis := decimal.Min(fresh.Ask, priceBasis)
	buyLimitPrice := basis.Sub(e.undercut)
	quantity := usdAmount.Div(buyLimitPrice).Round(quantityPrecision)

	e.logger.Info("order computed",
		zap.String("current_ask", fresh.Ask.String()),
		zap.String("buy_limit_price", buyLimitPrice.String()),
		zap.String("quantity", quantity.String()),
		zap.String("usd_amount", usdAmount.String()))

	if quantity.LessThanOrEqual(e.minQty) {
		return domain.OrderOutcome{}, &domain.TooSmallError{Quantity: quantity, Minimum: e.minQty}
	}

	req := domain.OrderRequest{
		Symbol:        e.pair.Symbol(),
		Price:         buyLimitPrice,
		Quantity:      quantity,
		ClientOrderID: domain.NewClientOrderID(e.tag, e.now()),
	}

	outcome, err := e.exchange.PlaceOrder(ctx, req)
	if err != nil {
		return domain.OrderOutcome{}, errors.Wrap(err, "order submission failed")
	}

	switch outcome.Status {
	case domain.OrderFilled:
		e.logger.Info("order successfully placed",
			zap.String("quantity", quantity.String()),
			zap.String("symbol", e.pair.Symbol()),
			zap.String("usd_amount", usdAmount.String()),
			zap.String("order_id", outcome.OrderID))
		return outcome, nil
	case domain.OrderCancelled:
		e.logger.Warn("order was cancelled", zap.String("reason", outcome.Reason))
		return outcome, &domain.CancelledError{Reason: outcome.Reason}
	default:
		return outcome, errors.Errorf("order failed: %s", outcome.Reason)
	}
}
