package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

const fastestSoldCount = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByType: make(map[string]int),
		FastestSold:    []*models.Listing{},
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var priced []*models.Listing
	for _, l := range listings {
		if l.ModelYear == 0 {
			report.UnknownModelYear++
		}
		if l.Price > 0 {
			priced = append(priced, l)
		}
		report.ListingsByType[l.Type]++
	}

	// Price stats (only listings with price > 0)
	if len(priced) > 0 {
		report.MinPrice = priced[0].Price
		report.MaxPrice = priced[0].Price
		report.MostExpensive = priced[0]
		var total float64
		for _, l := range priced {
			total += l.Price
			if l.Price < report.MinPrice {
				report.MinPrice = l.Price
			}
			if l.Price > report.MaxPrice {
				report.MaxPrice = l.Price
				report.MostExpensive = l
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	byDays := make([]*models.Listing, len(listings))
	copy(byDays, listings)
	sort.SliceStable(byDays, func(i, j int) bool {
		return byDays[i].DaysListed < byDays[j].DaysListed
	})
	if len(byDays) > fastestSoldCount {
		byDays = byDays[:fastestSoldCount]
	}
	report.FastestSold = byDays

	s.logger.Debug("[insights] %d listings, %d types, %d unknown model years",
		report.TotalListings, len(report.ListingsByType), report.UnknownModelYear)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  VEHICLE SALES INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings         : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Unknown model year (0) : \033[1m%d\033[0m\n", r.UnknownModelYear)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s (%s)\n", truncate(r.MostExpensive.Model, 50), yearLabel(r.MostExpensive.ModelYear))
		fmt.Fprintf(w, "  Type  : %s\n", r.MostExpensive.Type)
		fmt.Fprintf(w, "  Price : \033[1;31m$%.2f\033[0m\n", r.MostExpensive.Price)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Fastest Selling Listings\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.FastestSold) == 0 {
		fmt.Fprintf(w, "  No listings\n")
	} else {
		for i, l := range r.FastestSold {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%d days\033[0m\n",
				i+1, truncate(l.Model, 38), l.DaysListed)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Type\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByType) == 0 {
		fmt.Fprintf(w, "  No type data\n")
	} else {
		types := maps.Keys(r.ListingsByType)
		sort.Slice(types, func(i, j int) bool {
			ci, cj := r.ListingsByType[types[i]], r.ListingsByType[types[j]]
			if ci != cj {
				return ci > cj
			}
			return types[i] < types[j]
		})
		top := r.ListingsByType[types[0]]
		for _, typ := range types {
			cnt := r.ListingsByType[typ]
			bar := strings.Repeat("█", scaledBar(cnt, top, 30))
			fmt.Fprintf(w, "  %-16s %s (%d)\n", truncate(typ, 14), bar, cnt)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// scaledBar maps count onto at most width cells, keeping non-zero counts visible.
func scaledBar(count, max, width int) int {
	if max <= width {
		return count
	}
	n := count * width / max
	if n == 0 && count > 0 {
		n = 1
	}
	return n
}

func yearLabel(y int) string {
	if y == 0 {
		return "unknown year"
	}
	return fmt.Sprintf("%d", y)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
