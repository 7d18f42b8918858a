package model

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var monthLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan-2006",
	"Jan-06",
	"2006-01",
	"2006-01-02",
	"01/2006",
}

// ParseMonth parses a month label into the first instant of that month.
func ParseMonth(label string) (time.Time, bool) {
	for _, layout := range monthLayouts {
		if parsed, err := time.Parse(layout, label); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ChronologicalMonthDomain returns labels ordered oldest-to-newest. Calendar order is
// used when every label parses as a month, otherwise labels are taken as newest-first
// source order and reversed. Two spellings of the same calendar month are a SchemaMismatch.
func ChronologicalMonthDomain(resource string, labels []string) ([]string, error) {
	domain := make([]string, len(labels))
	copy(domain, labels)

	months := make(map[string]time.Time, len(labels))
	spelling := make(map[time.Time]string, len(labels))
	for _, label := range labels {
		month, ok := ParseMonth(label)
		if !ok {
			for i, j := 0, len(domain)-1; i < j; i, j = i+1, j-1 {
				domain[i], domain[j] = domain[j], domain[i]
			}
			return domain, nil
		}
		if other, exists := spelling[month]; exists && other != label {
			return nil, NewSchemaMismatchError(resource,
				fmt.Sprintf("month labels %q and %q name the same month", other, label))
		}
		spelling[month] = label
		months[label] = month
	}

	sort.SliceStable(domain, func(i, j int) bool {
		return months[domain[i]].Before(months[domain[j]])
	})
	return domain, nil
}

// DeriveChronologicalOrder re-orders rows by the position of their label in domain.
// Labels must be unique and a permutation of domain.
func DeriveChronologicalOrder[T any](resource string, rows []T, label func(T) string, domain []string) ([]T, error) {
	position := make(map[string]int, len(domain))
	for i, category := range domain {
		if _, exists := position[category]; exists {
			return nil, NewSchemaMismatchError(resource,
				fmt.Sprintf("month label %q is repeated in the category domain", category))
		}
		position[category] = i
	}
	if len(rows) != len(domain) {
		return nil, NewSchemaMismatchError(resource,
			fmt.Sprintf("expected %d month labels, got %d", len(domain), len(rows)))
	}

	ordered := make([]T, len(rows))
	placed := make([]bool, len(rows))
	for _, row := range rows {
		l := label(row)
		pos, ok := position[l]
		if !ok {
			return nil, NewSchemaMismatchError(resource,
				fmt.Sprintf("month label %q is not in the category domain", l))
		}
		if placed[pos] {
			return nil, NewSchemaMismatchError(resource,
				fmt.Sprintf("month label %q is not unique", l))
		}
		ordered[pos] = row
		placed[pos] = true
	}
	return ordered, nil
}

// ShareSeriesPoint is the percent of a date's total held by one category.
// Percent is NaN when the date's total is zero.
type ShareSeriesPoint struct {
	Date     time.Time
	Category string
	Percent  float64
}

type ShareSeries struct {
	Categories     []string
	Dates          []time.Time
	Points         []ShareSeriesPoint
	ZeroTotalDates []time.Time
}

// ComputeShareSeries groups rows by (date, category) summing value, pivots to one column
// per category with missing cells as zero, normalises each date to 100 and melts back to
// long form ordered by category then date.
func ComputeShareSeries[T any](rows []T, date func(T) time.Time, category func(T) string, value func(T) float64) *ShareSeries {
	dates := make(map[int64]time.Time)
	categories := make(map[string]bool)
	sums := make(map[int64]map[string]float64)

	for _, row := range rows {
		d := date(row)
		key := d.UnixNano()
		if _, exists := dates[key]; !exists {
			dates[key] = d
			sums[key] = make(map[string]float64)
		}
		c := category(row)
		categories[c] = true
		sums[key][c] += value(row)
	}

	series := &ShareSeries{
		Categories: make([]string, 0, len(categories)),
		Dates:      make([]time.Time, 0, len(dates)),
	}
	for c := range categories {
		series.Categories = append(series.Categories, c)
	}
	sort.Strings(series.Categories)

	keys := make([]int64, 0, len(dates))
	for key := range dates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	totals := make(map[int64]float64, len(keys))
	for _, key := range keys {
		series.Dates = append(series.Dates, dates[key])
		var total float64
		for _, c := range series.Categories {
			total += sums[key][c]
		}
		totals[key] = total
		if total == 0 {
			series.ZeroTotalDates = append(series.ZeroTotalDates, dates[key])
		}
	}

	series.Points = make([]ShareSeriesPoint, 0, len(keys)*len(series.Categories))
	for _, c := range series.Categories {
		for _, key := range keys {
			percent := math.NaN()
			if totals[key] != 0 {
				percent = sums[key][c] * 100 / totals[key]
			}
			series.Points = append(series.Points, ShareSeriesPoint{Date: dates[key], Category: c, Percent: percent})
		}
	}
	return series
}

type RankedRow[T any] struct {
	Row     T
	Value   float64
	Percent float64
}

type Ranking[T any] struct {
	Rows  []RankedRow[T]
	Total float64
}

// RankAndTotal sorts rows by value descending, keeping the input order of ties, and
// computes each row's percent of the total.
func RankAndTotal[T any](resource string, rows []T, value func(T) float64) (*Ranking[T], error) {
	if len(rows) == 0 {
		return nil, NewEmptyDatasetError(resource, "at least one row is required to rank")
	}

	sum := decimal.Zero
	ranked := make([]RankedRow[T], 0, len(rows))
	for _, row := range rows {
		v := value(row)
		sum = sum.Add(decimal.NewFromFloat(v))
		ranked = append(ranked, RankedRow[T]{Row: row, Value: v})
	}
	if sum.IsZero() {
		return nil, NewDivisionByZeroError(resource, "values must not sum to zero")
	}
	total, _ := sum.Float64()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	for i := range ranked {
		ranked[i].Percent = ranked[i].Value * 100 / total
	}
	return &Ranking[T]{Rows: ranked, Total: total}, nil
}
