package shared

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// FallbackDate is the date of the placeholder point served when chart data is unavailable.
	FallbackDate = "2025-01-01"
)

// PriceRecord represents a daily price record as reported by the price provider.
type PriceRecord struct {
	// Date is the trading day, formatted YYYYMMDD.
	Date string `json:"dt"`
	// Open is the opening price.
	Open string `json:"open_pric"`
	// High is the highest price.
	High string `json:"high_pric"`
	// Low is the lowest price.
	Low string `json:"low_pric"`
	// Close is the current or closing price.
	Close string `json:"cur_prc"`
}

// ChartPoint represents a daily candle in the shape consumed by chart views.
type ChartPoint struct {
	Time  string `json:"time"`
	Open  int64  `json:"open"`
	High  int64  `json:"high"`
	Low   int64  `json:"low"`
	Close int64  `json:"close"`
}

// FallbackPoints returns the single placeholder point served in place of chart data
// when fetching it fails.
func FallbackPoints() []ChartPoint {
	return []ChartPoint{{
		Time:  FallbackDate,
		Open:  50000,
		High:  51000,
		Low:   49000,
		Close: 50500,
	}}
}

// ParsePrice parses a provider price into an integer, truncating any fractional part.
// Signs are kept as is, the provider uses them to denote the direction of a price change.
// Exponent notation and values outside the int64 range are rejected.
func ParsePrice(price string) (int64, error) {
	trimmed := strings.TrimSpace(price)
	if strings.ContainsAny(trimmed, "eE") {
		return 0, fmt.Errorf("parsing price '%s': exponent notation not supported", price)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parsing price '%s': %w", price, err)
	}

	whole := d.Truncate(0).BigInt()
	if !whole.IsInt64() {
		return 0, fmt.Errorf("parsing price '%s': out of range", price)
	}

	return whole.Int64(), nil
}

// NewChartPoint transforms the provided price record into a chart point.
func NewChartPoint(rec *PriceRecord) (ChartPoint, error) {
	var point ChartPoint

	date, err := ChartDate(rec.Date)
	if err != nil {
		return point, err
	}
	point.Time = date

	fields := []struct {
		name  string
		value string
		dst   *int64
	}{
		{"open_pric", rec.Open, &point.Open},
		{"high_pric", rec.High, &point.High},
		{"low_pric", rec.Low, &point.Low},
		{"cur_prc", rec.Close, &point.Close},
	}

	for idx := range fields {
		v, err := ParsePrice(fields[idx].value)
		if err != nil {
			return point, fmt.Errorf("%s of %s: %w", fields[idx].name, rec.Date, err)
		}
		*fields[idx].dst = v
	}

	return point, nil
}

// SortChartPoints orders the provided points ascending by date. Points sharing a date keep
// their relative order.
func SortChartPoints(points []ChartPoint) {
	slices.SortStableFunc(points, func(a, b ChartPoint) int {
		return strings.Compare(a.Time, b.Time)
	})
}

// IsChronological checks whether the provided points are ordered ascending by date.
func IsChronological(points []ChartPoint) bool {
	return slices.IsSortedFunc(points, func(a, b ChartPoint) int {
		return strings.Compare(a.Time, b.Time)
	})
}
