package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dnldd/krxchart/shared"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the base url of the kiwoom mock trading api.
	DefaultBaseURL = "https://mockapi.kiwoom.com"

	tokenPath = "/oauth2/token"
	chartPath = "/api/dostk/chart"

	// dailyChartAPIID identifies the daily stock chart query.
	dailyChartAPIID = "ka10081"
	// dailyChartField is the response field holding the daily price records.
	dailyChartField = "stk_dt_pole_chart_qry"
	// adjustedPrices requests prices adjusted for corporate actions.
	adjustedPrices = "1"
	// clientCredentialsGrant is the oauth grant type used for token requests.
	clientCredentialsGrant = "client_credentials"
	jsonContentType        = "application/json;charset=UTF-8"
)

// KiwoomConfig represents the configuration for the kiwoom client.
type KiwoomConfig struct {
	// AppKey is the kiwoom application key.
	AppKey string
	// SecretKey is the kiwoom application secret.
	SecretKey string
	// BaseURL is the kiwoom api base url.
	BaseURL string
	// Timeout bounds each provider request, zero means no timeout.
	Timeout time.Duration
}

// KiwoomClient represents the kiwoom REST API client.
type KiwoomClient struct {
	cfg   KiwoomConfig
	base  *url.URL
	httpc http.Client
}

// Ensure the KiwoomClient implements the PriceFetcher interface.
var _ shared.PriceFetcher = (*KiwoomClient)(nil)

// tokenRequest is the token issuance request payload.
type tokenRequest struct {
	GrantType string `json:"grant_type"`
	AppKey    string `json:"appkey"`
	SecretKey string `json:"secretkey"`
}

// chartRequest is the daily chart query payload.
type chartRequest struct {
	StockCode      string `json:"stk_cd"`
	BaseDate       string `json:"base_dt"`
	AdjustedPrices string `json:"upd_stkpc_tp"`
}

// NewKiwoomClient instantiates a new kiwoom client. The provided configuration is copied,
// later changes to it do not affect the client.
func NewKiwoomClient(cfg *KiwoomConfig) (*KiwoomClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url '%s' requires a scheme and host", cfg.BaseURL)
	}

	return &KiwoomClient{
		cfg:   *cfg,
		base:  base,
		httpc: http.Client{Timeout: cfg.Timeout},
	}, nil
}

// formURL creates the full url of the provided api path.
func (c *KiwoomClient) formURL(path string) string {
	return c.base.JoinPath(path).String()
}

// post sends the provided payload to the api path and returns the response status and body.
func (c *KiwoomClient) post(ctx context.Context, path string, payload any, header http.Header) (int, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.formURL(path), bytes.NewReader(b))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("content-type", jsonContentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// FetchToken issues a new access token. Tokens are not reused across calls.
func (c *KiwoomClient) FetchToken(ctx context.Context) (string, error) {
	const op = "token"

	status, body, err := c.post(ctx, tokenPath, &tokenRequest{
		GrantType: clientCredentialsGrant,
		AppKey:    c.cfg.AppKey,
		SecretKey: c.cfg.SecretKey,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: requesting token: %w", ErrAuth, err)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %w", ErrAuth, newProviderError(op, "unexpected status", status, body))
	}

	token := gjson.GetBytes(body, "token")
	if token.Type != gjson.String || token.String() == "" {
		// The provider reports rejected credentials with a 200 status and no token.
		return "", fmt.Errorf("%w: %w", ErrAuth, newProviderError(op, "no token issued", status, body))
	}

	return token.String(), nil
}

// FetchDailyChart fetches the daily price records of the provided ticker up to the
// provided base date (YYYYMMDD).
func (c *KiwoomClient) FetchDailyChart(ctx context.Context, token string, code string, baseDate string) ([]gjson.Result, error) {
	const op = "chart"

	header := http.Header{}
	header.Set("authorization", "Bearer "+token)
	header.Set("appkey", c.cfg.AppKey)
	header.Set("appsecret", c.cfg.SecretKey)
	header.Set("api-id", dailyChartAPIID)

	status, body, err := c.post(ctx, chartPath, &chartRequest{
		StockCode:      code,
		BaseDate:       baseDate,
		AdjustedPrices: adjustedPrices,
	}, header)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting daily chart for %s: %w", ErrFetch, code, err)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %w", ErrFetch, newProviderError(op, "unexpected status", status, body))
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: daily chart for %s is not valid json", ErrMalformed, code)
	}

	data := gjson.GetBytes(body, dailyChartField)
	if !data.IsArray() {
		reason := fmt.Sprintf("field %s is %s, not an array", dailyChartField, data.Type)
		return nil, fmt.Errorf("%w: %w", ErrMalformed, newProviderError(op, reason, status, body))
	}

	return data.Array(), nil
}

// ParseChartPoints transforms the provided daily price records into chart points, ordered
// ascending by date.
func (c *KiwoomClient) ParseChartPoints(data []gjson.Result) ([]shared.ChartPoint, error) {
	points := make([]shared.ChartPoint, 0, len(data))

	for idx := range data {
		if !data[idx].IsObject() {
			return nil, fmt.Errorf("%w: price record %d is not an object: %s",
				ErrMalformed, idx, data[idx].Raw)
		}

		rec := shared.PriceRecord{
			Date:  data[idx].Get("dt").String(),
			Open:  data[idx].Get("open_pric").String(),
			High:  data[idx].Get("high_pric").String(),
			Low:   data[idx].Get("low_pric").String(),
			Close: data[idx].Get("cur_prc").String(),
		}

		point, err := shared.NewChartPoint(&rec)
		if err != nil {
			return nil, fmt.Errorf("%w: price record %d: %w", ErrMalformed, idx, err)
		}

		points = append(points, point)
	}

	shared.SortChartPoints(points)

	return points, nil
}
