package services

import (
	"testing"

	"vehicle-dashboard/models"
)

func yearListings(years ...int) []*models.Listing {
	out := make([]*models.Listing, len(years))
	for i, y := range years {
		out[i] = &models.Listing{ModelYear: y, Model: "car"}
	}
	return out
}

func TestFilterByYearUnknownAndOlder(t *testing.T) {
	listings := yearListings(0, 1999, 2005)

	got := FilterByYear(listings, YearRange{From: 0, To: 2000})
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got[0].ModelYear != 0 || got[1].ModelYear != 1999 {
		t.Errorf("unexpected years: %d, %d", got[0].ModelYear, got[1].ModelYear)
	}
}

func TestFilterByYearInclusiveBounds(t *testing.T) {
	listings := yearListings(1998, 1999, 2000, 2001, 2002)

	got := FilterByYear(listings, YearRange{From: 1999, To: 2001})
	if len(got) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(got))
	}
	for i, want := range []int{1999, 2000, 2001} {
		if got[i].ModelYear != want {
			t.Errorf("index %d: got %d, want %d", i, got[i].ModelYear, want)
		}
	}
}

func TestFilterByYearIdempotent(t *testing.T) {
	listings := yearListings(0, 1970, 1999, 2005, 2019, 2020)
	r := YearRange{From: 1990, To: 2019}

	once := FilterByYear(listings, r)
	twice := FilterByYear(once, r)
	if len(once) != len(twice) {
		t.Fatalf("re-filtering changed size: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("index %d differs after re-filtering", i)
		}
	}
}

func TestFilterByYearDoesNotMutateInput(t *testing.T) {
	listings := yearListings(2005, 1999)
	FilterByYear(listings, YearRange{From: 2000, To: 2010})
	if len(listings) != 2 || listings[0].ModelYear != 2005 || listings[1].ModelYear != 1999 {
		t.Error("input slice was modified")
	}
}

func TestNormalizeYearRange(t *testing.T) {
	tests := []struct {
		from, to int
		want     YearRange
	}{
		{0, 2020, YearRange{0, 2020}},
		{-5, 3000, YearRange{0, 2020}},
		{2010, 1990, YearRange{1990, 2010}},
		{2000, 2000, YearRange{2000, 2000}},
	}
	for _, tt := range tests {
		if got := NormalizeYearRange(tt.from, tt.to); got != tt.want {
			t.Errorf("NormalizeYearRange(%d, %d) = %+v; want %+v", tt.from, tt.to, got, tt.want)
		}
	}
	if FullYearRange() != (YearRange{MinYear, MaxYear}) {
		t.Error("FullYearRange should span the selector bounds")
	}
}
