// Package charts shapes filtered listings into plot data and renders it with go-chart.
package charts

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"vehicle-dashboard/models"
)

var (
	// ErrNoData is returned when asked to render an empty view.
	ErrNoData = errors.New("no listings to plot")
	// ErrUnknownAttribute is returned for an attribute the panel does not offer.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// ScatterAttributes are the X-axis choices of the scatter panel, in UI order.
var ScatterAttributes = []string{models.Cylinders, models.ModelYear, models.Condition}

// HistogramColors are the colour choices of the histogram panel, in UI order.
var HistogramColors = []string{models.Type, models.PaintColor, models.Transmission, models.Condition}

// conditionOrder ranks conditions from worst to best for a categorical axis.
var conditionOrder = []string{"salvage", "fair", "good", "excellent", "like new", "new"}

// Point is one scatter marker. Label carries the listing's model.
type Point struct {
	X     float64
	Y     float64
	Label string
}

// Group is a set of points sharing a colour.
type Group struct {
	Name   string
	Points []Point
}

// Scatter is Price plotted against one attribute, coloured by Condition.
type Scatter struct {
	Title string
	XAttr string
	// Categories names the X positions when XAttr is categorical; nil otherwise.
	Categories []string
	Groups     []Group
}

// LegendEntry pairs a series name with its palette colour.
type LegendEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Len is the number of plotted points.
func (s *Scatter) Len() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Points)
	}
	return n
}

// Legend lists group colours in draw order.
func (s *Scatter) Legend() []LegendEntry {
	out := make([]LegendEntry, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = LegendEntry{Name: g.Name, Color: "#" + paletteHex[i%len(paletteHex)]}
	}
	return out
}

// BuildScatter groups listings by condition and places them by xAttr and price.
func BuildScatter(listings []*models.Listing, xAttr string) (*Scatter, error) {
	if !slices.Contains(ScatterAttributes, xAttr) {
		return nil, fmt.Errorf("%w for scatter: %q", ErrUnknownAttribute, xAttr)
	}

	s := &Scatter{
		Title: fmt.Sprintf("Scatter Plot of %s vs. Price", xAttr),
		XAttr: xAttr,
	}

	conditions := make([]string, 0, len(listings))
	for _, l := range listings {
		conditions = append(conditions, l.Condition)
	}
	order := orderedCategories(conditions, conditionOrder)

	var position map[string]int
	if _, numeric := (&models.Listing{}).Numeric(xAttr); !numeric {
		s.Categories = order
		position = indexOf(order)
	}

	byCondition := make(map[string][]Point, len(order))
	for _, l := range listings {
		var x float64
		if position != nil {
			text, _ := l.Text(xAttr)
			x = float64(position[text])
		} else {
			x, _ = l.Numeric(xAttr)
		}
		byCondition[l.Condition] = append(byCondition[l.Condition], Point{X: x, Y: l.Price, Label: l.Model})
	}

	for _, cond := range order {
		s.Groups = append(s.Groups, Group{Name: cond, Points: byCondition[cond]})
	}
	return s, nil
}

// Histogram counts listings per model year, stacked by a categorical attribute.
type Histogram struct {
	Title     string
	ColorAttr string
	// Years are the occupied bins in ascending order.
	Years []int
	// Categories are stack layers, bottom first.
	Categories []string
	// Counts[c][y] is the number of listings of Categories[c] in Years[y].
	Counts [][]int
}

// Total is the number of counted listings.
func (h *Histogram) Total() int {
	n := 0
	for _, row := range h.Counts {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// Legend lists layer colours, bottom layer first.
func (h *Histogram) Legend() []LegendEntry {
	out := make([]LegendEntry, len(h.Categories))
	for i, c := range h.Categories {
		out[i] = LegendEntry{Name: c, Color: "#" + paletteHex[i%len(paletteHex)]}
	}
	return out
}

// BuildHistogram bins listings by model year and splits each bin by colorAttr.
// Layers are ordered by descending size, ties broken by name.
func BuildHistogram(listings []*models.Listing, colorAttr string) (*Histogram, error) {
	if !slices.Contains(HistogramColors, colorAttr) {
		return nil, fmt.Errorf("%w for histogram: %q", ErrUnknownAttribute, colorAttr)
	}

	h := &Histogram{
		Title:     fmt.Sprintf("Histogram of Model Year vs. %s", colorAttr),
		ColorAttr: colorAttr,
	}

	yearSet := make(map[int]struct{})
	totals := make(map[string]int)
	for _, l := range listings {
		yearSet[l.ModelYear] = struct{}{}
		cat, _ := l.Text(colorAttr)
		totals[cat]++
	}

	h.Years = maps.Keys(yearSet)
	slices.Sort(h.Years)
	yearPos := make(map[int]int, len(h.Years))
	for i, y := range h.Years {
		yearPos[y] = i
	}

	h.Categories = maps.Keys(totals)
	sort.Slice(h.Categories, func(i, j int) bool {
		ci, cj := totals[h.Categories[i]], totals[h.Categories[j]]
		if ci != cj {
			return ci > cj
		}
		return h.Categories[i] < h.Categories[j]
	})
	catPos := indexOf(h.Categories)

	h.Counts = make([][]int, len(h.Categories))
	for i := range h.Counts {
		h.Counts[i] = make([]int, len(h.Years))
	}
	for _, l := range listings {
		cat, _ := l.Text(colorAttr)
		h.Counts[catPos[cat]][yearPos[l.ModelYear]]++
	}
	return h, nil
}

// orderedCategories returns the distinct values, known ones in rank order,
// the rest sorted after them.
func orderedCategories(values []string, rank []string) []string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for _, r := range rank {
		if _, ok := seen[r]; ok {
			out = append(out, r)
			delete(seen, r)
		}
	}
	rest := maps.Keys(seen)
	slices.Sort(rest)
	return append(out, rest...)
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}
