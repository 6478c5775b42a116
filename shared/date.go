package shared

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	// ProviderDateLayout is the format layout of dates exchanged with the price provider.
	ProviderDateLayout = "20060102"
	// ChartDateLayout is the format layout of chart point dates.
	ChartDateLayout = "2006-01-02"
	// marketTimezone is the timezone of the tracked exchange.
	marketTimezone = "Asia/Seoul"
)

// SeoulTime returns the current time in seoul. Dates derived from it follow the KRX
// calendar day, which runs ahead of the UTC day between 00:00 and 09:00 KST.
func SeoulTime() (time.Time, *time.Location, error) {
	loc, err := time.LoadLocation(marketTimezone)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("loading seoul timezone: %w", err)
	}

	now := time.Now().In(loc)
	return now, loc, nil
}

// BaseDate formats the provided time as a provider query base date.
func BaseDate(now time.Time) string {
	return now.Format(ProviderDateLayout)
}

// ChartDate converts a provider date (YYYYMMDD) into a chart date (YYYY-MM-DD).
func ChartDate(dt string) (string, error) {
	if len(dt) != len(ProviderDateLayout) {
		return "", fmt.Errorf("unexpected provider date length for '%s': %d", dt, len(dt))
	}

	for idx := range dt {
		if dt[idx] < '0' || dt[idx] > '9' {
			return "", fmt.Errorf("non-numeric provider date '%s'", dt)
		}
	}

	return dt[:4] + "-" + dt[4:6] + "-" + dt[6:8], nil
}
