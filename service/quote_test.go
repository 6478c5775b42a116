package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dnldd/krxchart/fetch"
	"github.com/dnldd/krxchart/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/tidwall/gjson"
)

type KiwoomMock struct {
	token      string
	tokenErr   error
	data       []gjson.Result
	chartErr   error
	points     []shared.ChartPoint
	parseErr   error
	baseDates  []string
	codes      []string
	tokenCalls int
}

func (m *KiwoomMock) FetchToken(ctx context.Context) (string, error) {
	m.tokenCalls++
	return m.token, m.tokenErr
}

func (m *KiwoomMock) FetchDailyChart(ctx context.Context, token string, code string, baseDate string) ([]gjson.Result, error) {
	m.codes = append(m.codes, code)
	m.baseDates = append(m.baseDates, baseDate)
	return m.data, m.chartErr
}

func (m *KiwoomMock) ParseChartPoints(data []gjson.Result) ([]shared.ChartPoint, error) {
	return m.points, m.parseErr
}

func fixedClock() time.Time {
	return time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)
}

func TestQuoteConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     QuoteConfig
		wantErr bool
	}{
		{"valid", QuoteConfig{Fetcher: &KiwoomMock{}, Now: fixedClock}, false},
		{"missing fetcher", QuoteConfig{Now: fixedClock}, true},
		{"missing clock", QuoteConfig{Fetcher: &KiwoomMock{}}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err := NewQuote(&QuoteConfig{})
	assert.Error(t, err)
}

func TestQuoteFetchChart(t *testing.T) {
	mock := &KiwoomMock{
		token: "tkn",
		points: []shared.ChartPoint{
			{Time: "2025-01-03", Open: 3},
			{Time: "2025-01-02", Open: 2},
		},
	}
	quote, err := NewQuote(&QuoteConfig{Fetcher: mock, Now: fixedClock})
	assert.NoError(t, err)

	// Ensure chart data is fetched with today's base date, and out of order fetcher output
	// is still served in date order.
	points, err := quote.FetchChart(context.Background(), "005930")
	assert.NoError(t, err)

	want := []shared.ChartPoint{
		{Time: "2025-01-02", Open: 2},
		{Time: "2025-01-03", Open: 3},
	}
	if !cmp.Equal(points, want) {
		t.Errorf("mismatching points, got %v", cmp.Diff(points, want))
	}
	assert.Equal(t, mock.baseDates[0], "20250105")
	assert.Equal(t, mock.codes[0], "005930")

	// Ensure every fetch authenticates anew.
	_, err = quote.FetchChart(context.Background(), "000660")
	assert.NoError(t, err)
	assert.Equal(t, mock.tokenCalls, 2)
}

func TestQuoteFetchChartFailures(t *testing.T) {
	tests := []struct {
		name string
		mock *KiwoomMock
		want FailureKind
	}{
		{
			name: "token failure",
			mock: &KiwoomMock{tokenErr: fmt.Errorf("%w: boom", fetch.ErrAuth)},
			want: FailureAuth,
		},
		{
			name: "chart failure",
			mock: &KiwoomMock{token: "tkn", chartErr: fmt.Errorf("%w: boom", fetch.ErrFetch)},
			want: FailureFetch,
		},
		{
			name: "malformed chart",
			mock: &KiwoomMock{token: "tkn", chartErr: fmt.Errorf("%w: boom", fetch.ErrMalformed)},
			want: FailureMalformed,
		},
		{
			name: "malformed record",
			mock: &KiwoomMock{token: "tkn", parseErr: fmt.Errorf("%w: boom", fetch.ErrMalformed)},
			want: FailureMalformed,
		},
		{
			name: "cancelled chart request",
			mock: &KiwoomMock{token: "tkn", chartErr: fmt.Errorf("%w: %w", fetch.ErrFetch, context.Canceled)},
			want: FailureCanceled,
		},
		{
			name: "unclassified",
			mock: &KiwoomMock{tokenErr: errors.New("boom")},
			want: FailureUnknown,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			quote, err := NewQuote(&QuoteConfig{Fetcher: test.mock, Now: fixedClock})
			assert.NoError(t, err)

			points, err := quote.FetchChart(context.Background(), "005930")
			assert.Error(t, err)
			assert.Equal(t, len(points), 0)
			assert.Equal(t, ClassifyFailure(err), test.want)
		})
	}
}
