package shared

import (
	"context"

	"github.com/tidwall/gjson"
)

// PriceFetcher defines the requirements for fetching daily price data from a provider.
type PriceFetcher interface {
	// FetchToken issues a provider access token.
	FetchToken(ctx context.Context) (string, error)
	// FetchDailyChart fetches the daily price records of the provided ticker up to the
	// provided base date.
	FetchDailyChart(ctx context.Context, token string, code string, baseDate string) ([]gjson.Result, error)
	// ParseChartPoints transforms daily price records into chart points.
	ParseChartPoints(data []gjson.Result) ([]ChartPoint, error)
}
