package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leviob/dvabot/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Candles fetches recent candles for the symbol at the given interval
// (e.g. "6hr"). The feed's ordering is not part of the API contract, so
// consumers orient candles by timestamp themselves.
func (c *Client) Candles(ctx context.Context, symbol, interval string) ([]domain.Candle, error) {
	body, err := c.public(ctx, fmt.Sprintf("/v2/candles/%s/%s", symbol, interval))
	if err != nil {
		return nil, err
	}

	// candles arrive as arrays: [time_ms, open, high, low, close, volume]
	var raw [][]json.Number
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode candles response")
	}

	candles := make([]domain.Candle, 0, len(raw))
	for i, row := range raw {
		if len(row) < 6 {
			return nil, errors.Errorf("candle %d has %d fields, want 6", i, len(row))
		}

		ms, err := row[0].Int64()
		if err != nil {
			return nil, errors.Wrapf(err, "candle %d has invalid timestamp", i)
		}

		fields := make([]decimal.Decimal, 5)
		for j := 1; j < 6; j++ {
			v, err := decimal.NewFromString(row[j].String())
			if err != nil {
				return nil, errors.Wrapf(err, "candle %d has invalid field %d", i, j)
			}
			fields[j-1] = v
		}

		candles = append(candles, domain.Candle{
			Time:   time.UnixMilli(ms),
			Open:   fields[0],
			High:   fields[1],
			Low:    fields[2],
			Close:  fields[3],
			Volume: fields[4],
		})
	}

	return candles, nil
}

type tickerResponse struct {
	Bid string `json:"bid"`
	Ask string `json:"ask"`
}

// Ticker fetches the current quote snapshot for the symbol.
func (c *Client) Ticker(ctx context.Context, symbol string) (domain.Ticker, error) {
	body, err := c.public(ctx, fmt.Sprintf("/v1/pubticker/%s", symbol))
	if err != nil {
		return domain.Ticker{}, err
	}

	var raw tickerResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.Ticker{}, errors.Wrap(err, "failed to decode ticker response")
	}

	bid, err := decimal.NewFromString(raw.Bid)
	if err != nil {
		return domain.Ticker{}, errors.Wrapf(err, "ticker has invalid bid %q", raw.Bid)
	}
	ask, err := decimal.NewFromString(raw.Ask)
	if err != nil {
		return domain.Ticker{}, errors.Wrapf(err, "ticker has invalid ask %q", raw.Ask)
	}

	return domain.Ticker{Bid: bid, Ask: ask, Time: time.Now()}, nil
}
