// Package gemini implements the exchange REST API client: public market data
// and the signed private endpoints used for trading and account history.
package gemini

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// Client talks to one Gemini-compatible API host. All methods are blocking;
// retry policy belongs to the caller.
type Client struct {
	rest      *resty.Client
	apiKey    string
	apiSecret []byte
	logger    *zap.Logger

	// nonce returns a fresh value for each private call so the exchange
	// rejects replays. Overridable in tests.
	nonce func() string
}

// NewClient returns a client for the given API host.
func NewClient(baseURL, apiKey, apiSecret string, logger *zap.Logger) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)

	return &Client{
		rest:      rest,
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		logger:    logger,
		nonce: func() string {
			return strconv.FormatInt(time.Now().UnixMilli(), 10)
		},
	}
}

// public performs an unauthenticated GET and returns the raw body.
func (c *Client) public(ctx context.Context, endpoint string) ([]byte, error) {
	resp, err := c.rest.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s failed", endpoint)
	}
	if resp.IsError() {
		return nil, errors.Errorf("GET %s returned %s: %s", endpoint, resp.Status(), resp.String())
	}
	return resp.Body(), nil
}

// private performs a signed POST against a private endpoint. The payload is
// serialized to JSON, base64-encoded into the payload header and signed with
// HMAC-SHA384; the request body stays empty. A fresh nonce is added to every
// call. Responses are all-or-nothing: any non-2xx status is a transport error
// and the body is never partially interpreted.
func (c *Client) private(ctx context.Context, endpoint string, payload map[string]any) ([]byte, error) {
	payload["request"] = endpoint
	payload["nonce"] = c.nonce()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}
	b64 := base64.StdEncoding.EncodeToString(encoded)

	mac := hmac.New(sha512.New384, c.apiSecret)
	mac.Write([]byte(b64))
	signature := hex.EncodeToString(mac.Sum(nil))

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Content-Type":       "text/plain",
			"Content-Length":     "0",
			"X-GEMINI-APIKEY":    c.apiKey,
			"X-GEMINI-PAYLOAD":   b64,
			"X-GEMINI-SIGNATURE": signature,
			"Cache-Control":      "no-cache",
		}).
		Post(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s failed", endpoint)
	}

	c.logger.Debug("private API response",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.ByteString("body", resp.Body()))

	if resp.IsError() {
		return nil, errors.Errorf("POST %s returned %s: %s", endpoint, resp.Status(), resp.String())
	}

	return resp.Body(), nil
}
