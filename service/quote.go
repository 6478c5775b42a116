package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/krxchart/fetch"
	"github.com/dnldd/krxchart/shared"
)

// FailureKind classifies why chart data could not be served.
type FailureKind string

const (
	// FailureAuth denotes a failed provider token request.
	FailureAuth FailureKind = "auth"
	// FailureFetch denotes a failed provider chart request.
	FailureFetch FailureKind = "fetch"
	// FailureMalformed denotes a provider response without the expected shape.
	FailureMalformed FailureKind = "malformed"
	// FailureCanceled denotes a request abandoned by its caller.
	FailureCanceled FailureKind = "canceled"
	// FailureUnknown denotes any other failure.
	FailureUnknown FailureKind = "unknown"
)

// ClassifyFailure returns the failure kind of the provided chart data error.
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.Is(err, fetch.ErrAuth):
		return FailureAuth
	case errors.Is(err, fetch.ErrMalformed):
		return FailureMalformed
	case errors.Is(err, fetch.ErrFetch):
		return FailureFetch
	default:
		return FailureUnknown
	}
}

// QuoteConfig represents the configuration for the quote service.
type QuoteConfig struct {
	// Fetcher represents the price data provider client.
	Fetcher shared.PriceFetcher
	// Now returns the current time in the market timezone.
	Now func() time.Time
}

// Validate asserts the config sane inputs.
func (cfg *QuoteConfig) Validate() error {
	var errs error

	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("price fetcher cannot be nil"))
	}
	if cfg.Now == nil {
		errs = errors.Join(errs, fmt.Errorf("clock function cannot be nil"))
	}

	return errs
}

// Quote fetches daily chart data for tickers.
type Quote struct {
	cfg QuoteConfig
}

// NewQuote initializes a new quote service.
func NewQuote(cfg *QuoteConfig) (*Quote, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating quote config: %w", err)
	}

	return &Quote{cfg: *cfg}, nil
}

// FetchChart fetches the daily chart of the provided ticker up to today, ordered ascending
// by date. Every call authenticates with the provider anew. Today is taken from the
// configured clock, which is the Seoul clock in production, so between 00:00 and 09:00 KST
// the base date is one day ahead of the UTC date.
func (q *Quote) FetchChart(ctx context.Context, code string) ([]shared.ChartPoint, error) {
	baseDate := shared.BaseDate(q.cfg.Now())

	token, err := q.cfg.Fetcher.FetchToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	data, err := q.cfg.Fetcher.FetchDailyChart(ctx, token, code, baseDate)
	if err != nil {
		return nil, fmt.Errorf("fetching daily chart for %s: %w", code, err)
	}

	points, err := q.cfg.Fetcher.ParseChartPoints(data)
	if err != nil {
		return nil, fmt.Errorf("parsing daily chart for %s: %w", code, err)
	}

	// Fetchers are expected to order points, this only guards the response invariant.
	if !shared.IsChronological(points) {
		shared.SortChartPoints(points)
	}

	return points, nil
}
