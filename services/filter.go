package services

import "vehicle-dashboard/models"

// Bounds of the model-year selector. 0 stands for an unknown year.
const (
	MinYear = 0
	MaxYear = 2020
)

// YearRange is an inclusive model-year interval.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// FullYearRange covers every selectable year.
func FullYearRange() YearRange {
	return YearRange{From: MinYear, To: MaxYear}
}

// NormalizeYearRange clamps both endpoints into [MinYear, MaxYear] and orders them.
func NormalizeYearRange(from, to int) YearRange {
	from, to = clampYear(from), clampYear(to)
	if from > to {
		from, to = to, from
	}
	return YearRange{From: from, To: to}
}

// Contains reports whether year lies within the range, endpoints included.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// FilterByYear returns the listings whose model year is inside r, in input
// order. The input slice is not modified and listings are shared, not copied.
func FilterByYear(listings []*models.Listing, r YearRange) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if r.Contains(l.ModelYear) {
			out = append(out, l)
		}
	}
	return out
}

func clampYear(y int) int {
	if y < MinYear {
		return MinYear
	}
	if y > MaxYear {
		return MaxYear
	}
	return y
}
