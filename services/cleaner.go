package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

const (
	// unknownPaint replaces a missing paint colour.
	unknownPaint = "Unknown"
	// missingText is what a missing text value stringifies to.
	missingText = "nan"
)

// ErrCoercion marks every value that could not be converted to its column type.
var ErrCoercion = errors.New("type coercion failed")

// CoercionError reports the offending cell. Row is 1-based over data rows.
type CoercionError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("row %d, column %s: cannot coerce %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() []error {
	return []error{ErrCoercion, e.Err}
}

var missingMarkers = map[string]struct{}{
	"": {}, "nan": {}, "NaN": {}, "NA": {}, "N/A": {}, "n/a": {},
	"null": {}, "NULL": {}, "None": {}, "<NA>": {},
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// optFloat is a nullable numeric cell.
type optFloat struct {
	v  float64
	ok bool
}

// Cleaner turns raw rows into fully populated, typed Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean fills missing values and coerces every column. Fills run in a fixed
// order: model year, type, cylinders and odometer (median per type), paint
// colour, 4WD flag. It either cleans every row or returns the first error.
func (c *Cleaner) Clean(raw []models.RawListing) ([]*models.Listing, error) {
	n := len(raw)

	modelYear, err := parseNumericColumn(raw, models.ColModelYear)
	if err != nil {
		return nil, err
	}
	cylinders, err := parseNumericColumn(raw, models.ColCylinders)
	if err != nil {
		return nil, err
	}
	odometer, err := parseNumericColumn(raw, models.ColOdometer)
	if err != nil {
		return nil, err
	}
	is4wd, err := parseNumericColumn(raw, models.ColIs4WD)
	if err != nil {
		return nil, err
	}

	unknownYears := fillConstant(modelYear, 0)

	types := make([]string, n)
	for i, r := range raw {
		types[i] = textValue(r[models.ColType])
	}

	filledCyl, err := c.fillGroupMedian(cylinders, types, models.ColCylinders)
	if err != nil {
		return nil, err
	}
	filledOdo, err := c.fillGroupMedian(odometer, types, models.ColOdometer)
	if err != nil {
		return nil, err
	}

	paint := make([]string, n)
	filledPaint := 0
	for i, r := range raw {
		if isMissing(r[models.ColPaintColor]) {
			paint[i] = unknownPaint
			filledPaint++
			continue
		}
		paint[i] = strings.TrimSpace(r[models.ColPaintColor])
	}

	filled4wd := fillConstant(is4wd, 0)

	result := make([]*models.Listing, 0, n)
	for i, r := range raw {
		l, err := coerceRow(i+1, r, rowValues{
			modelYear: modelYear[i].v,
			cylinders: cylinders[i].v,
			odometer:  odometer[i].v,
			is4wd:     is4wd[i].v,
			typ:       types[i],
			paint:     paint[i],
		})
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}

	c.logger.Info("[cleaner] Cleaned %d listings (filled: model_year=%d cylinders=%d odometer=%d paint_color=%d is_4wd=%d)",
		len(result), unknownYears, filledCyl, filledOdo, filledPaint, filled4wd)
	return result, nil
}

// fillGroupMedian replaces missing values with the median of the same type's
// observed values. A type with no observed value falls back to the column-wide
// median. Returns the number of filled cells.
func (c *Cleaner) fillGroupMedian(col []optFloat, types []string, name string) (int, error) {
	groups := make(map[string][]float64)
	var all []float64
	for i, v := range col {
		if v.ok {
			groups[types[i]] = append(groups[types[i]], v.v)
			all = append(all, v.v)
		}
	}

	medians := make(map[string]float64, len(groups))
	for typ, vals := range groups {
		medians[typ] = median(vals)
		c.logger.Debug("[cleaner] %s median for type %q: %g (n=%d)", name, typ, medians[typ], len(vals))
	}

	filled := 0
	for i := range col {
		if col[i].ok {
			continue
		}
		m, ok := medians[types[i]]
		if !ok {
			if len(all) == 0 {
				return filled, &CoercionError{Row: i + 1, Column: name, Value: "",
					Err: errors.New("no observed values to derive a median from")}
			}
			m = median(all)
			c.logger.Warn("[cleaner] No %s values for type %q, using overall median %g", name, types[i], m)
		}
		col[i] = optFloat{v: m, ok: true}
		filled++
	}
	return filled, nil
}

// rowValues carries the already-filled cells of one row into coercion.
type rowValues struct {
	modelYear float64
	cylinders float64
	odometer  float64
	is4wd     float64
	typ       string
	paint     string
}

func coerceRow(row int, r models.RawListing, v rowValues) (*models.Listing, error) {
	price, err := parseRequiredFloat(row, models.ColPrice, r[models.ColPrice])
	if err != nil {
		return nil, err
	}
	modelYear, err := toInt(row, models.ColModelYear, v.modelYear)
	if err != nil {
		return nil, err
	}
	cylinders, err := toInt(row, models.ColCylinders, v.cylinders)
	if err != nil {
		return nil, err
	}
	is4wd, err := toInt(row, models.ColIs4WD, v.is4wd)
	if err != nil {
		return nil, err
	}
	days, err := parseRequiredFloat(row, models.ColDaysListed, r[models.ColDaysListed])
	if err != nil {
		return nil, err
	}
	daysListed, err := toInt(row, models.ColDaysListed, days)
	if err != nil {
		return nil, err
	}
	posted, err := parseDate(row, r[models.ColDatePosted])
	if err != nil {
		return nil, err
	}

	return &models.Listing{
		Price:        price,
		ModelYear:    modelYear,
		Model:        textValue(r[models.ColModel]),
		Condition:    textValue(r[models.ColCondition]),
		Cylinders:    cylinders,
		Fuel:         textValue(r[models.ColFuel]),
		Odometer:     v.odometer,
		Transmission: textValue(r[models.ColTransmission]),
		Type:         v.typ,
		PaintColor:   v.paint,
		Is4WD:        is4wd,
		DatePosted:   posted,
		DaysListed:   daysListed,
	}, nil
}

// parseNumericColumn reads a nullable numeric column. Raw cylinders must
// already be whole numbers. A fractional median fill fails later, in coerceRow.
func parseNumericColumn(raw []models.RawListing, col string) ([]optFloat, error) {
	out := make([]optFloat, len(raw))
	for i, r := range raw {
		s := r[col]
		if isMissing(s) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, &CoercionError{Row: i + 1, Column: col, Value: s, Err: err}
		}
		if err := checkFinite(f); err != nil {
			return nil, &CoercionError{Row: i + 1, Column: col, Value: s, Err: err}
		}
		if col == models.ColCylinders && f != math.Trunc(f) {
			return nil, &CoercionError{Row: i + 1, Column: col, Value: s, Err: errors.New("not a whole number")}
		}
		out[i] = optFloat{v: f, ok: true}
	}
	return out, nil
}

func fillConstant(col []optFloat, v float64) int {
	filled := 0
	for i := range col {
		if !col[i].ok {
			col[i] = optFloat{v: v, ok: true}
			filled++
		}
	}
	return filled
}

func parseRequiredFloat(row int, col, s string) (float64, error) {
	if isMissing(s) {
		return 0, &CoercionError{Row: row, Column: col, Value: s, Err: errors.New("value is missing")}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &CoercionError{Row: row, Column: col, Value: s, Err: err}
	}
	if err := checkFinite(f); err != nil {
		return 0, &CoercionError{Row: row, Column: col, Value: s, Err: err}
	}
	return f, nil
}

// checkFinite rejects what ParseFloat accepts but no column can hold:
// "inf" and NaN spellings outside the missing markers, such as "Nan".
func checkFinite(f float64) error {
	if math.IsInf(f, 0) {
		return errors.New("value is infinite")
	}
	if math.IsNaN(f) {
		return errors.New("value is not a number")
	}
	return nil
}

func toInt(row int, col string, f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, &CoercionError{Row: row, Column: col, Value: strconv.FormatFloat(f, 'g', -1, 64),
			Err: errors.New("not a whole number")}
	}
	return int(f), nil
}

func parseDate(row int, s string) (time.Time, error) {
	if isMissing(s) {
		return time.Time{}, &CoercionError{Row: row, Column: models.ColDatePosted, Value: s, Err: errors.New("value is missing")}
	}
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &CoercionError{Row: row, Column: models.ColDatePosted, Value: s, Err: lastErr}
}

func isMissing(s string) bool {
	_, ok := missingMarkers[strings.TrimSpace(s)]
	return ok
}

func textValue(s string) string {
	if isMissing(s) {
		return missingText
	}
	return strings.TrimSpace(s)
}

// median of vals; vals must be non-empty. The input is not modified.
func median(vals []float64) float64 {
	cp := slices.Clone(vals)
	slices.Sort(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return (cp[mid-1] + cp[mid]) / 2
}
