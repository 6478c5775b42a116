package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dnldd/krxchart/shared"
)

var (
	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#26a69a"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef5350"))
	gridStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2b2b43"))
	textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d1d4dc"))
)

const (
	// yAxisWidth is the width of the price axis, e.g. "  1234567 │".
	yAxisWidth = 11
	// candleWidth is the number of columns a candle occupies.
	candleWidth = 2
	// minChartRows is the least number of price rows drawn.
	minChartRows = 3
)

// candle is a chart point projected onto grid rows.
type candle struct {
	up      bool
	bodyTop int
	bodyBot int
	wickTop int
	wickBot int
}

// visiblePoints returns the most recent points that fit the provided width.
func visiblePoints(points []shared.ChartPoint, width int) []shared.ChartPoint {
	cols := (width - yAxisWidth) / candleWidth
	if cols < 1 {
		cols = 1
	}
	if len(points) > cols {
		return points[len(points)-cols:]
	}

	return points
}

// priceRange returns the overall high and low across the provided points.
func priceRange(points []shared.ChartPoint) (int64, int64) {
	hi := int64(math.MinInt64)
	lo := int64(math.MaxInt64)
	for idx := range points {
		hi = max(hi, points[idx].High, points[idx].Open, points[idx].Close)
		lo = min(lo, points[idx].Low, points[idx].Open, points[idx].Close)
	}

	return hi, lo
}

// priceToRow converts a price to a grid row, row zero holds the highest price.
func priceToRow(price int64, rows int, hi int64, lo int64) int {
	if hi == lo {
		return rows / 2
	}

	row := int(math.Round(float64(hi-price) / float64(hi-lo) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

// rowToPrice is the inverse of priceToRow.
func rowToPrice(row int, rows int, hi int64, lo int64) int64 {
	if rows <= 1 {
		return hi
	}

	return hi - int64(math.Round(float64(row)/float64(rows-1)*float64(hi-lo)))
}

// project maps the provided point onto grid rows.
func project(point *shared.ChartPoint, rows int, hi int64, lo int64) candle {
	return candle{
		up:      point.Close >= point.Open,
		bodyTop: priceToRow(max(point.Open, point.Close), rows, hi, lo),
		bodyBot: priceToRow(min(point.Open, point.Close), rows, hi, lo),
		wickTop: priceToRow(point.High, rows, hi, lo),
		wickBot: priceToRow(point.Low, rows, hi, lo),
	}
}

// cell returns the glyphs of the provided candle at the provided row.
func (c *candle) cell(row int) string {
	style := upStyle
	if !c.up {
		style = downStyle
	}

	switch {
	case row >= c.bodyTop && row <= c.bodyBot:
		return style.Render("██")
	case row >= c.wickTop && row <= c.wickBot:
		return style.Render("│") + " "
	default:
		return "  "
	}
}

// renderChart draws the provided points as candlesticks fitted to the provided size.
// The visible range is fitted to the most recent points that fit the width.
func renderChart(points []shared.ChartPoint, width int, height int) string {
	rows := max(height-2, minChartRows)

	var b strings.Builder
	if len(points) == 0 {
		for row := 0; row < rows; row++ {
			b.WriteString(gridStyle.Render(strings.Repeat(" ", yAxisWidth-1) + "│"))
			b.WriteByte('\n')
		}
		b.WriteString(gridStyle.Render(strings.Repeat("─", max(width, yAxisWidth))))
		b.WriteByte('\n')
		return b.String()
	}

	visible := visiblePoints(points, width)
	hi, lo := priceRange(visible)

	candles := make([]candle, len(visible))
	for idx := range visible {
		candles[idx] = project(&visible[idx], rows, hi, lo)
	}

	for row := 0; row < rows; row++ {
		label := fmt.Sprintf("%9d │", rowToPrice(row, rows, hi, lo))
		b.WriteString(gridStyle.Render(label))
		for idx := range candles {
			b.WriteString(candles[idx].cell(row))
		}
		b.WriteByte('\n')
	}

	b.WriteString(gridStyle.Render(strings.Repeat("─", yAxisWidth+len(visible)*candleWidth)))
	b.WriteByte('\n')

	// Label the first and last visible days.
	first, last := visible[0].Time, visible[len(visible)-1].Time
	labels := first
	if len(visible) > 1 {
		gap := len(visible)*candleWidth - len(first) - len(last)
		if gap > 0 {
			labels = first + strings.Repeat(" ", gap) + last
		}
	}
	b.WriteString(strings.Repeat(" ", yAxisWidth))
	b.WriteString(textStyle.Render(labels))
	b.WriteByte('\n')

	return b.String()
}
