package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dnldd/krxchart/shared"
	"github.com/tidwall/gjson"
)

const stockPath = "/api/stock"

// ErrNotArray is returned when the chart server responds with anything other than an
// array of chart points.
var ErrNotArray = errors.New("chart data is not an array")

// ChartFetcher fetches the chart points of a ticker.
type ChartFetcher interface {
	FetchChart(ctx context.Context, code string) ([]shared.ChartPoint, error)
}

// Client fetches chart data from the chart server.
type Client struct {
	base  *url.URL
	httpc http.Client
}

// Ensure the Client implements the ChartFetcher interface.
var _ ChartFetcher = (*Client)(nil)

// NewClient initializes a chart server client.
func NewClient(server string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parsing chart server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("chart server url '%s' requires a scheme and host", server)
	}

	return &Client{
		base:  base,
		httpc: http.Client{Timeout: timeout},
	}, nil
}

// FetchChart fetches the chart points of the provided ticker.
func (c *Client) FetchChart(ctx context.Context, code string) ([]shared.ChartPoint, error) {
	u := c.base.JoinPath(stockPath)
	u.RawQuery = url.Values{"code": []string{code}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting chart for %s: %w", code, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading chart for %s: %w", code, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching chart for %s", resp.StatusCode, code)
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, code)
	}

	var points []shared.ChartPoint
	err = json.Unmarshal(body, &points)
	if err != nil {
		return nil, fmt.Errorf("decoding chart for %s: %w", code, err)
	}

	return points, nil
}
