package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"vehicle-dashboard/charts"
	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
)

// Control keys, shared by websocket events and query parameters.
const (
	ScatterCheckbox = "scatter_checkbox"
	ScatterRadio    = "scatter_radio"
	ScatterSlider   = "scatter_slider"
	HistCheckbox    = "hist_checkbox"
	HistSelectbox   = "hist_selectbox"
	HistSlider      = "hist_slider"
)

// ErrInvalidControl is returned for unknown control keys and bad values.
var ErrInvalidControl = errors.New("invalid control")

// Controls is the complete UI state: the only state the presentation layer owns.
type Controls struct {
	ShowScatter    bool               `json:"scatter_checkbox"`
	ScatterX       string             `json:"scatter_radio"`
	ScatterYears   services.YearRange `json:"scatter_slider"`
	ShowHistogram  bool               `json:"hist_checkbox"`
	HistogramColor string             `json:"hist_selectbox"`
	HistogramYears services.YearRange `json:"hist_slider"`
}

// DefaultControls shows both panels over the full year range.
func DefaultControls() Controls {
	return Controls{
		ShowScatter:    true,
		ScatterX:       models.Cylinders,
		ScatterYears:   services.FullYearRange(),
		ShowHistogram:  true,
		HistogramColor: models.Type,
		HistogramYears: services.FullYearRange(),
	}
}

// Event is a single control change coming from the UI.
type Event struct {
	Control string `json:"control"`
	Value   string `json:"value"`
}

// Apply validates ev and updates the matching control. On error c is unchanged.
func (c *Controls) Apply(ev Event) error {
	switch ev.Control {
	case ScatterCheckbox, HistCheckbox:
		on, err := parseBool(ev.Value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidControl, ev.Control, ev.Value)
		}
		if ev.Control == ScatterCheckbox {
			c.ShowScatter = on
		} else {
			c.ShowHistogram = on
		}
	case ScatterRadio:
		if !slices.Contains(charts.ScatterAttributes, ev.Value) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidControl, ev.Control, ev.Value)
		}
		c.ScatterX = ev.Value
	case HistSelectbox:
		if !slices.Contains(charts.HistogramColors, ev.Value) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidControl, ev.Control, ev.Value)
		}
		c.HistogramColor = ev.Value
	case ScatterSlider, HistSlider:
		r, err := parseRange(ev.Value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidControl, ev.Control, ev.Value, err)
		}
		if ev.Control == ScatterSlider {
			c.ScatterYears = r
		} else {
			c.HistogramYears = r
		}
	default:
		return fmt.Errorf("%w: unknown control %q", ErrInvalidControl, ev.Control)
	}
	return nil
}

// ControlsFromQuery starts from the defaults and applies every control found
// in q. Sliders may also be given as <panel>_from / <panel>_to pairs. When a
// key repeats, the last value wins, so a hidden "false" input followed by a
// checkbox works for plain HTML forms.
func ControlsFromQuery(q url.Values) (Controls, error) {
	c := DefaultControls()

	for _, key := range []string{ScatterCheckbox, ScatterRadio, ScatterSlider, HistCheckbox, HistSelectbox, HistSlider} {
		vals, ok := q[key]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := c.Apply(Event{Control: key, Value: vals[len(vals)-1]}); err != nil {
			return c, err
		}
	}

	for _, p := range []struct {
		prefix string
		slider string
		cur    services.YearRange
	}{
		{"scatter", ScatterSlider, c.ScatterYears},
		{"hist", HistSlider, c.HistogramYears},
	} {
		from, to := q.Get(p.prefix+"_from"), q.Get(p.prefix+"_to")
		if from == "" && to == "" {
			continue
		}
		if from == "" {
			from = strconv.Itoa(p.cur.From)
		}
		if to == "" {
			to = strconv.Itoa(p.cur.To)
		}
		if err := c.Apply(Event{Control: p.slider, Value: from + "," + to}); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Query encodes c so that ControlsFromQuery restores it.
func (c Controls) Query() url.Values {
	q := url.Values{}
	q.Set(ScatterCheckbox, strconv.FormatBool(c.ShowScatter))
	q.Set(ScatterRadio, c.ScatterX)
	q.Set(ScatterSlider, formatRange(c.ScatterYears))
	q.Set(HistCheckbox, strconv.FormatBool(c.ShowHistogram))
	q.Set(HistSelectbox, c.HistogramColor)
	q.Set(HistSlider, formatRange(c.HistogramYears))
	return q
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

// parseRange reads "from,to" and normalizes it into the selector bounds.
func parseRange(s string) (services.YearRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return services.YearRange{}, errors.New("want from,to")
	}
	from, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return services.YearRange{}, err
	}
	to, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return services.YearRange{}, err
	}
	return services.NormalizeYearRange(from, to), nil
}

func formatRange(r services.YearRange) string {
	return strconv.Itoa(r.From) + "," + strconv.Itoa(r.To)
}
