// Package history reconstructs the account's complete trade history from the
// exchange's paginated private API.
package history

import (
	"context"

	"github.com/leviob/dvabot/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// defaultPageSize is the exchange's per-call cap on returned trades.
const defaultPageSize = 500

type tradesAPI interface {
	// TradesSince returns up to limit trades with timestamps at or after
	// since, newest first within the page.
	TradesSince(ctx context.Context, limit int, since int64) ([]domain.TradeRecord, error)
	// RecentTrades returns the limit most recent trades, newest first.
	RecentTrades(ctx context.Context, limit int) ([]domain.TradeRecord, error)
}

// Aggregator pages through the trade-history endpoint. Transient failures
// propagate unchanged; the scheduler owns retry policy.
type Aggregator struct {
	api      tradesAPI
	pageSize int
	logger   *zap.Logger
}

// NewAggregator returns an aggregator using the exchange's page size cap.
func NewAggregator(api tradesAPI, logger *zap.Logger) *Aggregator {
	return &Aggregator{api: api, pageSize: defaultPageSize, logger: logger}
}

// FetchAll reconstructs the complete trade history, strictly descending by
// timestamp with no duplicates. Pagination walks the timestamp cursor past
// the head of the accumulated slice and prepends each new page, so the
// descending order is preserved as pages arrive. An empty page terminates.
func (a *Aggregator) FetchAll(ctx context.Context) ([]domain.TradeRecord, error) {
	all, err := a.api.TradesSince(ctx, a.pageSize, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch first trade page")
	}
	if len(all) == 0 {
		return nil, nil
	}

	for {
		next, err := a.api.TradesSince(ctx, a.pageSize, all[0].Timestamp+1)
		if err != nil {
			return nil, errors.Wrap(err, "failed to fetch trade page")
		}
		if len(next) == 0 {
			a.logger.Debug("trade history assembled", zap.Int("trades", len(all)))
			return all, nil
		}
		all = append(next, all...)
	}
}

// FetchRecent returns the limit most recent trades.
func (a *Aggregator) FetchRecent(ctx context.Context, limit int) ([]domain.TradeRecord, error) {
	trades, err := a.api.RecentTrades(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch recent trades")
	}
	return trades, nil
}
