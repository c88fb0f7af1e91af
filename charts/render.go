package charts

import (
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// paletteHex is Plotly's qualitative palette.
var paletteHex = []string{
	"636EFA", "EF553B", "00CC96", "AB63FA", "FFA15A",
	"19D3F3", "FF6692", "B6E880", "FF97FF", "FECB52",
}

const (
	defaultWidth  = 1000
	defaultHeight = 500
	maxXTicks     = 20
	barHalfWidth  = 0.4
)

// Format selects the image encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat accepts "svg" or "png"; empty means SVG.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", SVG:
		return SVG, nil
	case PNG:
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

// ContentType is the HTTP media type of the encoding.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// Options controls output size and encoding.
type Options struct {
	Width  int
	Height int
	Format Format
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func paletteColor(i int) drawing.Color {
	return drawing.ColorFromHex(paletteHex[i%len(paletteHex)])
}

// pointStyle renders markers only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1,
		StrokeColor: col,
		FillColor:   col,
	}
}

func intFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

func priceFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("$%.0f", f)
	}
	return ""
}

// RenderScatter draws the scatter plot to w.
func RenderScatter(w io.Writer, s *Scatter, opts Options) error {
	if s.Len() == 0 {
		return ErrNoData
	}

	series := make([]chart.Series, 0, len(s.Groups))
	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for i, g := range s.Groups {
		xs := make([]float64, len(g.Points))
		ys := make([]float64, len(g.Points))
		for j, p := range g.Points {
			xs[j], ys[j] = p.X, p.Y
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(paletteColor(i)),
		})
	}

	xAxis := chart.XAxis{Name: s.XAttr, ValueFormatter: intFormatter}
	if s.Categories != nil {
		xAxis.Range = &chart.ContinuousRange{Min: -0.5, Max: float64(len(s.Categories)) - 0.5}
		xAxis.Ticks = ordinalTicks(s.Categories, 1)
	} else {
		lo, hi := padRange(minX, maxX)
		xAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	}

	width, height := opts.size()
	ch := chart.Chart{
		Title:      s.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Name:           "Price",
			Range:          &chart.ContinuousRange{Min: 0, Max: upperBound(maxY)},
			ValueFormatter: priceFormatter,
		},
		Series: series,
	}

	if err := ch.Render(opts.Format.provider(), w); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	return nil
}

// RenderHistogram draws the stacked histogram to w. Bins sit at ordinal
// positions so the unknown-year bin does not stretch the axis.
func RenderHistogram(w io.Writer, h *Histogram, opts Options) error {
	if h.Total() == 0 {
		return ErrNoData
	}

	cumulative := make([][]float64, len(h.Categories))
	running := make([]float64, len(h.Years))
	maxY := 0.0
	for c := range h.Categories {
		cumulative[c] = make([]float64, len(h.Years))
		for y := range h.Years {
			running[y] += float64(h.Counts[c][y])
			cumulative[c][y] = running[y]
			maxY = math.Max(maxY, running[y])
		}
	}

	// Tallest layer first: each later series paints over the lower part.
	series := make([]chart.Series, 0, len(h.Categories))
	for c := len(h.Categories) - 1; c >= 0; c-- {
		xs, ys := stepOutline(cumulative[c])
		series = append(series, chart.ContinuousSeries{
			Name:    h.Categories[c],
			XValues: xs,
			YValues: ys,
			Style:   barStyle(paletteColor(c)),
		})
	}

	labels := make([]string, len(h.Years))
	for i, y := range h.Years {
		labels[i] = fmt.Sprintf("%d", y)
	}
	ticks := ordinalTicks(labels, int(math.Ceil(float64(len(labels))/maxXTicks)))

	width, height := opts.size()
	ch := chart.Chart{
		Title:      h.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Model Year",
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(h.Years)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           "count",
			Range:          &chart.ContinuousRange{Min: 0, Max: upperBound(maxY)},
			ValueFormatter: intFormatter,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(opts.Format.provider(), w); err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}
	return nil
}

// ordinalTicks labels every step-th ordinal position and adds blank ticks at
// -0.5 and n-0.5. go-chart takes the X range from the ticks whenever they are
// set, so the outer ticks keep a single bin drawable and every bar fully inside.
func ordinalTicks(labels []string, step int) []chart.Tick {
	if step < 1 {
		step = 1
	}
	n := len(labels)
	ticks := make([]chart.Tick, 0, n/step+3)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
	}
	return append(ticks, chart.Tick{Value: float64(n) - 0.5})
}

// stepOutline turns bar heights at ordinal positions into a closed step line
// along the baseline.
func stepOutline(heights []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(heights)*4)
	ys := make([]float64, 0, len(heights)*4)
	for i, hgt := range heights {
		left, right := float64(i)-barHalfWidth, float64(i)+barHalfWidth
		xs = append(xs, left, left, right, right)
		ys = append(ys, 0, hgt, hgt, 0)
	}
	return xs, ys
}

// padRange widens [lo, hi] by 5% each side, or by 1 when it is a single value.
func padRange(lo, hi float64) (float64, float64) {
	if hi <= lo {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func upperBound(max float64) float64 {
	if max <= 0 {
		return 1
	}
	return max * 1.1
}
