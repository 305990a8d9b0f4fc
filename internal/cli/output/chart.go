package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultChartWidth is the bar width used when a chart sets none.
const DefaultChartWidth = 30

// ChartBar is one labelled value.
type ChartBar struct {
	Label   string
	Count   int
	Percent float64
}

// Chart is a horizontal bar chart. Bar lengths are scaled to the largest
// count so the biggest bar fills Width.
type Chart struct {
	Title string
	Bars  []ChartBar
	Width int
}

// Render writes the chart.
func (c *Chart) Render(w io.Writer) error {
	width := c.Width
	if width <= 0 {
		width = DefaultChartWidth
	}

	if c.Title != "" {
		if _, err := fmt.Fprintln(w, c.Title); err != nil {
			return err
		}
	}
	if len(c.Bars) == 0 {
		_, err := fmt.Fprintln(w, "  (no data)")
		return err
	}

	labelWidth, peak := 0, 0
	for _, b := range c.Bars {
		if n := utf8.RuneCountInString(b.Label); n > labelWidth {
			labelWidth = n
		}
		if b.Count > peak {
			peak = b.Count
		}
	}

	for _, b := range c.Bars {
		filled := 0
		if peak > 0 {
			filled = b.Count * width / peak
		}
		if b.Count > 0 && filled == 0 {
			filled = 1
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
		_, err := fmt.Fprintf(w, "  %-*s %s %5d %5.1f%%\n", labelWidth, b.Label, bar, b.Count, b.Percent)
		if err != nil {
			return err
		}
	}
	return nil
}
