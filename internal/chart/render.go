// Package chart renders chart projections into images with go-chart.
//
// Four kinds exist: bar charts of adults and nests per record, a line of
// totals per record, and a pie of seen versus not seen records. A Board
// owns the currently rendered set and replaces it as a unit.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/JonMunkholm/wildlife/internal/core"
)

// Kind names one of the dashboard charts.
type Kind string

const (
	KindAdults Kind = "adults"
	KindNests  Kind = "nests"
	KindTotals Kind = "totals"
	KindSeen   Kind = "seen"
)

// Kinds lists every chart in dashboard order.
var Kinds = []Kind{KindAdults, KindNests, KindTotals, KindSeen}

// ErrUnknownChart is returned for a chart name not in Kinds.
var ErrUnknownChart = errors.New("unknown chart")

// ParseKind validates a chart name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
}

// Title returns the heading shown above the chart.
func (k Kind) Title() string {
	switch k {
	case KindAdults:
		return "Adults per observation"
	case KindNests:
		return "Nests per observation"
	case KindTotals:
		return "Total count per observation"
	case KindSeen:
		return "Seen vs not seen"
	}
	return string(k)
}

// Format selects the image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatPNG {
		return gochart.PNG
	}
	return gochart.SVG
}

// Series colours.
var (
	colorAdults  = drawing.ColorFromHex("3b82f6")
	colorNests   = drawing.ColorFromHex("ef4444")
	colorTotals  = drawing.ColorFromHex("10b981")
	colorSeen    = drawing.ColorFromHex("22c55e")
	colorNotSeen = drawing.ColorFromHex("f87171")
	colorEmpty   = drawing.ColorFromHex("d1d5db")
)

// Size is the pixel size of a rendered chart. Bar charts grow wider than
// Width when there are many records.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a Size field is zero.
var DefaultSize = Size{Width: 720, Height: 360}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultSize.Width
	}
	if s.Height <= 0 {
		s.Height = DefaultSize.Height
	}
	return s
}

const (
	barWidth   = 20
	barSpacing = 8

	// maxTickLabels caps per-record labels on the line chart's x axis.
	maxTickLabels = 30

	emptyLabel = "No matching records"
)

// Render draws one chart of p to w.
func Render(w io.Writer, kind Kind, p core.Projection, format Format, size Size) error {
	size = size.orDefault()
	rp := format.provider()

	var err error
	switch kind {
	case KindAdults:
		bc := barChart(kind, p.Labels, p.Adults, colorAdults, size)
		err = bc.Render(rp, w)
	case KindNests:
		bc := barChart(kind, p.Labels, p.Nests, colorNests, size)
		err = bc.Render(rp, w)
	case KindTotals:
		ch := lineChart(p.Labels, p.Totals, size)
		err = ch.Render(rp, w)
	case KindSeen:
		pc := pieChart(p.Seen, p.NotSeen, size)
		err = pc.Render(rp, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	if err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	return nil
}

// RenderBytes is Render into a new buffer.
func RenderBytes(kind Kind, p core.Projection, format Format, size Size) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, kind, p, format, size); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func barChart(kind Kind, labels []string, values []int, color drawing.Color, size Size) gochart.BarChart {
	style := gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1}

	bars := make([]gochart.Value, len(values))
	for i, v := range values {
		bars[i] = gochart.Value{Label: labels[i], Value: float64(v), Style: style}
	}
	if len(bars) == 0 {
		bars = []gochart.Value{{Label: emptyLabel, Value: 0, Style: gochart.Style{FillColor: colorEmpty, StrokeColor: colorEmpty}}}
	}

	width := size.Width
	if need := len(bars)*(barWidth+barSpacing) + 120; need > width {
		width = need
	}

	return gochart.BarChart{
		Title:      kind.Title(),
		Width:      width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.Style{TextRotationDegrees: 45},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: 0, Max: axisMax(values)},
			ValueFormatter: gochart.IntValueFormatter,
		},
		Bars: bars,
	}
}

func lineChart(labels []string, totals []int, size Size) *gochart.Chart {
	name := "Total"
	xs := make([]float64, len(totals))
	ys := make([]float64, len(totals))
	for i, v := range totals {
		xs[i] = float64(i)
		ys[i] = float64(v)
	}
	style := gochart.Style{StrokeColor: colorTotals, StrokeWidth: 2, DotColor: colorTotals, DotWidth: 3}

	switch len(xs) {
	case 0:
		name = emptyLabel
		xs, ys = []float64{0, 1}, []float64{0, 0}
		style = gochart.Style{StrokeColor: colorEmpty, StrokeWidth: 2}
	case 1:
		// go-chart needs two x values to build a range.
		xs, ys = []float64{0, 1}, []float64{ys[0], ys[0]}
	}

	// A single tick leaves go-chart with a zero x range.
	var ticks []gochart.Tick
	if n := len(labels); n >= 2 && n <= maxTickLabels {
		ticks = make([]gochart.Tick, n)
		for i, l := range labels {
			ticks[i] = gochart.Tick{Value: float64(i), Label: l}
		}
	}

	ch := &gochart.Chart{
		Title:      KindTotals.Title(),
		Width:      size.Width,
		Height:     size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: xs[len(xs)-1]},
			Ticks: ticks,
			Style: gochart.Style{TextRotationDegrees: 45},
		},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: 0, Max: axisMax(totals)},
			ValueFormatter: gochart.IntValueFormatter,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style},
		},
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(ch)}
	return ch
}

func pieChart(seen, notSeen int, size Size) gochart.PieChart {
	var values []gochart.Value
	if seen > 0 {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("Seen (%d)", seen), Value: float64(seen),
			Style: gochart.Style{FillColor: colorSeen},
		})
	}
	if notSeen > 0 {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("Not seen (%d)", notSeen), Value: float64(notSeen),
			Style: gochart.Style{FillColor: colorNotSeen},
		})
	}
	if len(values) == 0 {
		values = []gochart.Value{{Label: emptyLabel, Value: 1, Style: gochart.Style{FillColor: colorEmpty}}}
	}

	return gochart.PieChart{
		Title:  KindSeen.Title(),
		Width:  size.Height,
		Height: size.Height,
		Values: values,
	}
}

// axisMax returns the y axis maximum for values. It is at least 1 so the
// range is never empty.
func axisMax(values []int) float64 {
	m := 1
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return float64(m)
}
