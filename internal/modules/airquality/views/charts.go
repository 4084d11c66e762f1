package views

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"airquality-dashboard/internal/analysis"
	"airquality-dashboard/internal/dataset"
)

const (
	chartWidth  = 960
	chartHeight = 420
)

var (
	errNoChartData = errors.New("no data points")

	dailyLineColor = drawing.Color{R: 0x90, G: 0xCA, B: 0xF9, A: 255}

	// Endpoints and midpoint of the coolwarm diverging palette.
	coolwarmLow  = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	coolwarmMid  = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	coolwarmHigh = drawing.Color{R: 180, G: 4, B: 38, A: 255}
)

// Chart is an inline SVG, or a placeholder when Empty.
type Chart struct {
	SVG   template.HTML
	Empty bool
}

type chartLabels struct {
	Title  string
	XName  string
	YName  string
	Series string
}

// DailyChart draws the daily means as a line with dot markers. Days without
// a mean break the line.
func DailyChart(daily []analysis.DailyAggregate, labels chartLabels) Chart {
	svg, err := renderDailySVG(daily, labels)
	return toChart("daily", svg, err)
}

// MonthlyChart draws one bar per month number.
func MonthlyChart(monthly []analysis.MonthlyAggregate, labels chartLabels) Chart {
	svg, err := renderMonthlySVG(monthly, labels)
	return toChart("monthly", svg, err)
}

func toChart(name string, svg []byte, err error) Chart {
	if errors.Is(err, errNoChartData) {
		return Chart{Empty: true}
	}
	if err != nil {
		slog.Error("chart render failed", "chart", name, "error", err)
		return Chart{Empty: true}
	}
	return Chart{SVG: template.HTML(responsive(svg, chartWidth, chartHeight))}
}

func renderDailySVG(daily []analysis.DailyAggregate, labels chartLabels) ([]byte, error) {
	series, maxY := dailySegments(daily, labels.Series)
	if len(series) == 0 {
		return nil, errNoChartData
	}

	first, last := daily[0].Date, daily[len(daily)-1].Date
	if !last.After(first) {
		// A single day still needs a non-zero x range.
		first = first.Add(-12 * time.Hour)
		last = last.Add(12 * time.Hour)
	}

	format := dataset.DateLayout
	if last.Sub(first) > 120*24*time.Hour {
		format = "Jan 2006"
	}

	graph := chart.Chart{
		Title:      labels.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           labels.XName,
			ValueFormatter: timeFormatter(format, first.Location()),
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(first), Max: chart.TimeToFloat64(last)},
		},
		YAxis: chart.YAxis{
			Name:  labels.YName,
			Range: &chart.ContinuousRange{Min: 0, Max: niceCeil(maxY)},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render daily chart: %w", err)
	}
	return buf.Bytes(), nil
}

func timeFormatter(layout string, loc *time.Location) chart.ValueFormatter {
	return func(v interface{}) string {
		switch t := v.(type) {
		case float64:
			return time.Unix(0, int64(t)).In(loc).Format(layout)
		case time.Time:
			return t.In(loc).Format(layout)
		default:
			return ""
		}
	}
}

// dailySegments splits the series at days without a mean so go-chart never
// sees a NaN.
func dailySegments(daily []analysis.DailyAggregate, name string) ([]chart.Series, float64) {
	style := chart.Style{
		StrokeColor: dailyLineColor,
		StrokeWidth: 2,
		DotColor:    dailyLineColor,
		DotWidth:    3,
	}

	var (
		out   []chart.Series
		xs    []time.Time
		ys    []float64
		maxY  float64
		flush = func() {
			if len(xs) == 0 {
				return
			}
			out = append(out, chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style})
			xs, ys = nil, nil
		}
	)
	for _, d := range daily {
		if d.Mean == nil {
			flush()
			continue
		}
		xs = append(xs, d.Date)
		ys = append(ys, *d.Mean)
		maxY = math.Max(maxY, *d.Mean)
	}
	flush()
	return out, maxY
}

func renderMonthlySVG(monthly []analysis.MonthlyAggregate, labels chartLabels) ([]byte, error) {
	var maxY float64
	defined := 0
	for _, m := range monthly {
		if m.Mean != nil {
			defined++
			maxY = math.Max(maxY, *m.Mean)
		}
	}
	if defined == 0 {
		return nil, errNoChartData
	}

	palette := coolwarm(len(monthly))
	bars := make([]chart.Value, 0, len(monthly))
	for i, m := range monthly {
		v := 0.0
		if m.Mean != nil {
			v = *m.Mean
		}
		bars = append(bars, chart.Value{
			Label: strconv.Itoa(m.Month),
			Value: v,
			Style: chart.Style{FillColor: palette[i], StrokeColor: palette[i], StrokeWidth: 1},
		})
	}

	graph := chart.BarChart{
		Title:      labels.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   48,
		BarSpacing: 16,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  labels.YName,
			Range: &chart.ContinuousRange{Min: 0, Max: niceCeil(maxY)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render monthly chart: %w", err)
	}
	return buf.Bytes(), nil
}

// coolwarm samples n colours from blue through grey to red.
func coolwarm(n int) []drawing.Color {
	out := make([]drawing.Color, n)
	for i := range out {
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		if t < 0.5 {
			out[i] = lerp(coolwarmLow, coolwarmMid, t*2)
		} else {
			out[i] = lerp(coolwarmMid, coolwarmHigh, (t-0.5)*2)
		}
	}
	return out
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// niceCeil rounds v up to a readable axis maximum and never returns zero.
func niceCeil(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 2.5, 5, 10} {
		if c := step * mag; c >= v {
			return c
		}
	}
	return 10 * mag
}

// responsive adds a viewBox so the SVG scales with its container.
func responsive(svg []byte, w, h int) []byte {
	open := []byte("<svg ")
	i := bytes.Index(svg, open)
	if i < 0 {
		return svg
	}
	attr := fmt.Sprintf(`viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet" `, w, h)
	out := make([]byte, 0, len(svg)+len(attr))
	out = append(out, svg[:i+len(open)]...)
	out = append(out, attr...)
	return append(out, svg[i+len(open):]...)
}
