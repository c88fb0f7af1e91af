package charts

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-dashboard/models"
)

func sampleListings() []*models.Listing {
	return []*models.Listing{
		{Model: "bmw x5", Price: 9400, ModelYear: 2011, Cylinders: 6, Condition: "good", Type: "SUV", PaintColor: "Unknown", Transmission: "automatic"},
		{Model: "ford f-150", Price: 25500, ModelYear: 0, Cylinders: 8, Condition: "good", Type: "pickup", PaintColor: "white", Transmission: "automatic"},
		{Model: "hyundai sonata", Price: 5500, ModelYear: 2013, Cylinders: 4, Condition: "like new", Type: "sedan", PaintColor: "red", Transmission: "automatic"},
		{Model: "chrysler 200", Price: 1500, ModelYear: 2003, Cylinders: 6, Condition: "fair", Type: "sedan", PaintColor: "black", Transmission: "automatic"},
		{Model: "toyota tacoma", Price: 14900, ModelYear: 2013, Cylinders: 6, Condition: "excellent", Type: "pickup", PaintColor: "Unknown", Transmission: "manual"},
		{Model: "honda civic", Price: 12990, ModelYear: 2013, Cylinders: 4, Condition: "excellent", Type: "sedan", PaintColor: "Unknown", Transmission: "automatic"},
	}
}

func TestBuildScatterNumericAxis(t *testing.T) {
	s, err := BuildScatter(sampleListings(), models.Cylinders)
	require.NoError(t, err)

	assert.Equal(t, "Scatter Plot of Cylinders vs. Price", s.Title)
	assert.Nil(t, s.Categories)
	assert.Equal(t, 6, s.Len())

	names := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"fair", "good", "excellent", "like new"}, names)

	good := s.Groups[1]
	require.Len(t, good.Points, 2)
	assert.Equal(t, Point{X: 6, Y: 9400, Label: "bmw x5"}, good.Points[0])
	assert.Equal(t, Point{X: 8, Y: 25500, Label: "ford f-150"}, good.Points[1])
}

func TestBuildScatterCategoricalAxis(t *testing.T) {
	listings := append(sampleListings(), &models.Listing{Model: "odd", Price: 1, Condition: "nan"})
	s, err := BuildScatter(listings, models.Condition)
	require.NoError(t, err)

	assert.Equal(t, []string{"fair", "good", "excellent", "like new", "nan"}, s.Categories)
	for _, g := range s.Groups {
		for _, p := range g.Points {
			assert.Equal(t, g.Name, s.Categories[int(p.X)])
		}
	}
}

func TestBuildScatterRejectsUnknownAttribute(t *testing.T) {
	_, err := BuildScatter(sampleListings(), models.Odometer)
	assert.ErrorIs(t, err, ErrUnknownAttribute)
}

func TestBuildHistogram(t *testing.T) {
	h, err := BuildHistogram(sampleListings(), models.Type)
	require.NoError(t, err)

	assert.Equal(t, "Histogram of Model Year vs. Type", h.Title)
	assert.Equal(t, []int{0, 2003, 2011, 2013}, h.Years)
	assert.Equal(t, []string{"sedan", "pickup", "SUV"}, h.Categories)
	assert.Equal(t, [][]int{
		{0, 1, 0, 2},
		{1, 0, 0, 1},
		{0, 0, 1, 0},
	}, h.Counts)
	assert.Equal(t, 6, h.Total())

	legend := h.Legend()
	require.Len(t, legend, 3)
	assert.Equal(t, LegendEntry{Name: "sedan", Color: "#636EFA"}, legend[0])
}

func TestBuildHistogramRejectsUnknownAttribute(t *testing.T) {
	_, err := BuildHistogram(sampleListings(), models.Fuel)
	assert.ErrorIs(t, err, ErrUnknownAttribute)
}

func TestRenderScatterSVG(t *testing.T) {
	for _, attr := range ScatterAttributes {
		s, err := BuildScatter(sampleListings(), attr)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, RenderScatter(&buf, s, Options{Width: 640, Height: 320, Format: SVG}), attr)
		assert.True(t, strings.Contains(buf.String(), "<svg"), attr)
	}
}

func TestRenderHistogramPNG(t *testing.T) {
	h, err := BuildHistogram(sampleListings(), models.PaintColor)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(&buf, h, Options{Width: 640, Height: 320, Format: PNG}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestRenderSinglePoint(t *testing.T) {
	one := sampleListings()[:1]

	s, err := BuildScatter(one, models.ModelYear)
	require.NoError(t, err)
	assert.NoError(t, RenderScatter(&bytes.Buffer{}, s, Options{}))

	h, err := BuildHistogram(one, models.Condition)
	require.NoError(t, err)
	assert.NoError(t, RenderHistogram(&bytes.Buffer{}, h, Options{}))
}

func TestRenderSingleBinAndCategory(t *testing.T) {
	sameYear := []*models.Listing{
		{Model: "toyota tacoma", Price: 14900, ModelYear: 2013, Cylinders: 6, Condition: "excellent", Type: "pickup"},
		{Model: "honda civic", Price: 12990, ModelYear: 2013, Cylinders: 4, Condition: "excellent", Type: "pickup"},
	}

	for _, attr := range ScatterAttributes {
		s, err := BuildScatter(sameYear, attr)
		require.NoError(t, err)
		assert.NoError(t, RenderScatter(&bytes.Buffer{}, s, Options{}), attr)
	}
	for _, attr := range HistogramColors {
		h, err := BuildHistogram(sameYear, attr)
		require.NoError(t, err)
		require.Len(t, h.Years, 1)
		assert.NoError(t, RenderHistogram(&bytes.Buffer{}, h, Options{Format: PNG}), attr)
	}
}

func TestOrdinalTicksSpanEveryBar(t *testing.T) {
	ticks := ordinalTicks([]string{"2013"}, 1)
	require.Len(t, ticks, 3)
	assert.Equal(t, -0.5, ticks[0].Value)
	assert.Equal(t, "2013", ticks[1].Label)
	assert.Equal(t, 0.5, ticks[2].Value)

	labels := make([]string, 45)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", 1970+i)
	}
	ticks = ordinalTicks(labels, 3)
	assert.Equal(t, -0.5, ticks[0].Value)
	assert.Equal(t, 44.5, ticks[len(ticks)-1].Value)
	assert.Empty(t, ticks[len(ticks)-1].Label)
	assert.Equal(t, "2012", ticks[len(ticks)-2].Label)
}

func TestRenderEmpty(t *testing.T) {
	s, err := BuildScatter(nil, models.Cylinders)
	require.NoError(t, err)
	assert.ErrorIs(t, RenderScatter(&bytes.Buffer{}, s, Options{}), ErrNoData)

	h, err := BuildHistogram(nil, models.Type)
	require.NoError(t, err)
	assert.ErrorIs(t, RenderHistogram(&bytes.Buffer{}, h, Options{}), ErrNoData)
}

func TestStepOutline(t *testing.T) {
	xs, ys := stepOutline([]float64{2, 5})
	assert.InDeltaSlice(t, []float64{-0.4, -0.4, 0.4, 0.4, 0.6, 0.6, 1.4, 1.4}, xs, 1e-9)
	assert.Equal(t, []float64{0, 2, 2, 0, 0, 5, 5, 0}, ys)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)

	f, err = ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}
