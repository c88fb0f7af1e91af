package dashboard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
)

func TestDefaultControls(t *testing.T) {
	c := DefaultControls()

	assert.True(t, c.ShowScatter)
	assert.True(t, c.ShowHistogram)
	assert.Equal(t, models.Cylinders, c.ScatterX)
	assert.Equal(t, models.Type, c.HistogramColor)
	assert.Equal(t, services.YearRange{From: 0, To: 2020}, c.ScatterYears)
	assert.Equal(t, services.YearRange{From: 0, To: 2020}, c.HistogramYears)
}

func TestControlsApply(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		check func(t *testing.T, c Controls)
	}{
		{"hide scatter", Event{ScatterCheckbox, "false"}, func(t *testing.T, c Controls) { assert.False(t, c.ShowScatter) }},
		{"hide histogram", Event{HistCheckbox, "off"}, func(t *testing.T, c Controls) { assert.False(t, c.ShowHistogram) }},
		{"scatter axis", Event{ScatterRadio, models.Condition}, func(t *testing.T, c Controls) { assert.Equal(t, models.Condition, c.ScatterX) }},
		{"histogram colour", Event{HistSelectbox, models.PaintColor}, func(t *testing.T, c Controls) { assert.Equal(t, models.PaintColor, c.HistogramColor) }},
		{"scatter years", Event{ScatterSlider, "1990,2000"}, func(t *testing.T, c Controls) {
			assert.Equal(t, services.YearRange{From: 1990, To: 2000}, c.ScatterYears)
			assert.Equal(t, services.FullYearRange(), c.HistogramYears)
		}},
		{"histogram years clamped", Event{HistSlider, "-10, 2500"}, func(t *testing.T, c Controls) {
			assert.Equal(t, services.YearRange{From: 0, To: 2020}, c.HistogramYears)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultControls()
			require.NoError(t, c.Apply(tt.event))
			tt.check(t, c)
		})
	}
}

func TestControlsApplyRejectsInvalid(t *testing.T) {
	events := []Event{
		{"zoom", "1"},
		{ScatterCheckbox, "maybe"},
		{ScatterRadio, models.Odometer},
		{HistSelectbox, models.Fuel},
		{ScatterSlider, "1990"},
		{HistSlider, "a,b"},
	}

	for _, ev := range events {
		c := DefaultControls()
		err := c.Apply(ev)
		assert.ErrorIs(t, err, ErrInvalidControl, "%+v", ev)
		assert.Equal(t, DefaultControls(), c, "controls must not change on %+v", ev)
	}
}

func TestControlsFromQuery(t *testing.T) {
	q := url.Values{}
	q.Add(ScatterCheckbox, "false")
	q.Add(ScatterCheckbox, "true")
	q.Add(HistCheckbox, "false")
	q.Set(ScatterRadio, models.ModelYear)
	q.Set("scatter_from", "1995")
	q.Set("hist_to", "2005")

	c, err := ControlsFromQuery(q)
	require.NoError(t, err)
	assert.True(t, c.ShowScatter, "last checkbox value wins")
	assert.False(t, c.ShowHistogram)
	assert.Equal(t, models.ModelYear, c.ScatterX)
	assert.Equal(t, services.YearRange{From: 1995, To: 2020}, c.ScatterYears)
	assert.Equal(t, services.YearRange{From: 0, To: 2005}, c.HistogramYears)
}

func TestControlsQueryRoundTrip(t *testing.T) {
	c := DefaultControls()
	require.NoError(t, c.Apply(Event{HistSelectbox, models.Transmission}))
	require.NoError(t, c.Apply(Event{ScatterSlider, "2001,2010"}))
	require.NoError(t, c.Apply(Event{HistCheckbox, "false"}))

	back, err := ControlsFromQuery(c.Query())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}
