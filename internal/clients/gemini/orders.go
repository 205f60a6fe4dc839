package gemini

import (
	"context"
	"encoding/json"

	"github.com/leviob/dvabot/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	endpointOrderNew     = "/v1/order/new"
	endpointMyTrades     = "/v1/mytrades"
	endpointActiveOrders = "/v1/orders"
)

// orderResponse is the exchange envelope for order submissions. Order
// acknowledgements carry is_cancelled; generic errors carry result/message.
// The two shapes share one struct and are told apart by field presence,
// but only here at the boundary.
type orderResponse struct {
	OrderID     string `json:"order_id"`
	IsCancelled *bool  `json:"is_cancelled"`
	Reason      string `json:"reason"`
	Result      string `json:"result"`
	Message     string `json:"message"`
}

// PlaceOrder submits a maker-or-cancel limit buy and decodes the response
// into a tagged outcome. A returned error means the call itself failed;
// cancellations and error envelopes come back as outcomes.
func (c *Client) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderOutcome, error) {
	payload := map[string]any{
		"symbol":          req.Symbol,
		"client_order_id": req.ClientOrderID,
		"amount":          req.Quantity.String(),
		"price":           req.Price.String(),
		"side":            "buy",
		"type":            "exchange limit",
		"options":         []string{domain.OptionMakerOrCancel},
	}

	body, err := c.private(ctx, endpointOrderNew, payload)
	if err != nil {
		return domain.OrderOutcome{}, err
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("undecodable order response", zap.ByteString("body", body))
		return domain.OrderOutcome{Status: domain.OrderFailed, Reason: "unrecognized response shape"}, nil
	}

	switch {
	case resp.IsCancelled != nil && !*resp.IsCancelled:
		return domain.OrderOutcome{Status: domain.OrderFilled, OrderID: resp.OrderID}, nil
	case resp.IsCancelled != nil:
		return domain.OrderOutcome{Status: domain.OrderCancelled, OrderID: resp.OrderID, Reason: resp.Reason}, nil
	case resp.Result == "error":
		return domain.OrderOutcome{Status: domain.OrderFailed, Reason: resp.Message}, nil
	default:
		c.logger.Warn("unrecognized order response shape", zap.ByteString("body", body))
		return domain.OrderOutcome{Status: domain.OrderFailed, Reason: "unrecognized response shape"}, nil
	}
}

type tradeJSON struct {
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Price         string `json:"price"`
	Amount        string `json:"amount"`
	FeeAmount     string `json:"fee_amount"`
	Timestamp     int64  `json:"timestamp"`
}

func (t tradeJSON) toDomain() (domain.TradeRecord, error) {
	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "trade %s has invalid price %q", t.OrderID, t.Price)
	}
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "trade %s has invalid amount %q", t.OrderID, t.Amount)
	}
	fee := decimal.Zero
	if t.FeeAmount != "" {
		fee, err = decimal.NewFromString(t.FeeAmount)
		if err != nil {
			return domain.TradeRecord{}, errors.Wrapf(err, "trade %s has invalid fee %q", t.OrderID, t.FeeAmount)
		}
	}

	return domain.TradeRecord{
		OrderID:       t.OrderID,
		ClientOrderID: t.ClientOrderID,
		Price:         price,
		Amount:        amount,
		FeeAmount:     fee,
		Timestamp:     t.Timestamp,
	}, nil
}

func decodeTrades(body []byte) ([]domain.TradeRecord, error) {
	var raw []tradeJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode trades response")
	}

	trades := make([]domain.TradeRecord, 0, len(raw))
	for _, t := range raw {
		rec, err := t.toDomain()
		if err != nil {
			return nil, err
		}
		trades = append(trades, rec)
	}

	return trades, nil
}

// TradesSince fetches up to limit account trades with timestamps at or after
// since, newest first within the page. It is the pagination primitive for
// full-history reconstruction.
func (c *Client) TradesSince(ctx context.Context, limit int, since int64) ([]domain.TradeRecord, error) {
	body, err := c.private(ctx, endpointMyTrades, map[string]any{
		"limit_trades": limit,
		"timestamp":    since,
	})
	if err != nil {
		return nil, err
	}
	return decodeTrades(body)
}

// RecentTrades fetches the limit most recent account trades, newest first.
func (c *Client) RecentTrades(ctx context.Context, limit int) ([]domain.TradeRecord, error) {
	body, err := c.private(ctx, endpointMyTrades, map[string]any{
		"limit_trades": limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeTrades(body)
}

type openOrderJSON struct {
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Symbol        string `json:"symbol"`
}

// ActiveOrders lists orders currently resting on the book.
func (c *Client) ActiveOrders(ctx context.Context) ([]domain.OpenOrder, error) {
	body, err := c.private(ctx, endpointActiveOrders, map[string]any{})
	if err != nil {
		return nil, err
	}

	var raw []openOrderJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode active orders response")
	}

	orders := make([]domain.OpenOrder, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, domain.OpenOrder{
			OrderID:       o.OrderID,
			ClientOrderID: o.ClientOrderID,
			Symbol:        o.Symbol,
		})
	}

	return orders, nil
}
