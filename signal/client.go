package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client talks to a scoring service over HTTP. The service contract is three
// GET endpoints returning JSON: /health, /analysis and /predict.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func (c *Client) get(ctx context.Context, path string, opts map[string]string, out any) error {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	u.Path = path

	q := u.Query()
	for k, v := range opts {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return fmt.Errorf("signal service http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil, nil)
}

func (c *Client) GetMarketAnalysis(ctx context.Context) (MarketAnalysis, error) {
	var ma MarketAnalysis
	if err := c.get(ctx, "/analysis", nil, &ma); err != nil {
		return MarketAnalysis{}, fmt.Errorf("market analysis: %w", err)
	}
	return ma, nil
}

func (c *Client) PredictPrice(ctx context.Context, symbol string, horizonDays int) (Prediction, error) {
	var p Prediction
	opts := map[string]string{
		"symbol":  symbol,
		"horizon": strconv.Itoa(horizonDays),
	}
	if err := c.get(ctx, "/predict", opts, &p); err != nil {
		return Prediction{}, fmt.Errorf("predict %s: %w", symbol, err)
	}
	return p, nil
}
