package model_test

import (
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	M "thordash/model"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func monthLabel(r M.MonthlyMetricRow) string { return r.MonthName }

func TestDeriveChronologicalOrder(t *testing.T) {
	source := []M.MonthlyMetricRow{
		{MonthName: "Mar", Volume: 100},
		{MonthName: "Feb", Volume: 80},
		{MonthName: "Jan", Volume: 50},
	}

	t.Run("ReversesNewestFirstSource", func(t *testing.T) {
		domain, err := M.ChronologicalMonthDomain("overview", []string{"Mar", "Feb", "Jan"})
		assert.Nil(t, err)
		assert.Equal(t, []string{"Jan", "Feb", "Mar"}, domain)

		ordered, err := M.DeriveChronologicalOrder("overview", source, monthLabel, domain)
		assert.Nil(t, err)
		assert.Equal(t, "Jan", ordered[0].MonthName)
		assert.Equal(t, "Feb", ordered[1].MonthName)
		assert.Equal(t, "Mar", ordered[2].MonthName)
		assert.Equal(t, float64(50), ordered[0].Volume)
	})

	t.Run("Idempotent", func(t *testing.T) {
		domain := []string{"Jan", "Feb", "Mar"}
		once, err := M.DeriveChronologicalOrder("overview", source, monthLabel, domain)
		assert.Nil(t, err)
		twice, err := M.DeriveChronologicalOrder("overview", once, monthLabel, domain)
		assert.Nil(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("CalendarLabelsNotLexicallySortable", func(t *testing.T) {
		labels := []string{"Jan 2025", "Dec 2024", "Feb 2024"}
		domain, err := M.ChronologicalMonthDomain("overview", labels)
		assert.Nil(t, err)
		assert.Equal(t, []string{"Feb 2024", "Dec 2024", "Jan 2025"}, domain)
	})

	t.Run("SameMonthSpelledTwice", func(t *testing.T) {
		_, err := M.ChronologicalMonthDomain("overview", []string{"Feb 2025", "Jan 2025", "2025-01"})
		assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
		dataErr, _ := M.AsDataError(err)
		assert.Equal(t, "overview", dataErr.Resource)
		assert.Contains(t, dataErr.Expectation, "2025-01")
	})

	t.Run("DuplicateLabels", func(t *testing.T) {
		rows := []M.MonthlyMetricRow{{MonthName: "Jan"}, {MonthName: "Jan"}}
		_, err := M.DeriveChronologicalOrder("overview", rows, monthLabel, []string{"Jan", "Feb"})
		assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
	})

	t.Run("LabelOutsideDomain", func(t *testing.T) {
		_, err := M.DeriveChronologicalOrder("overview", source, monthLabel, []string{"Jan", "Feb", "Apr"})
		assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
	})

	t.Run("DomainSizeMismatch", func(t *testing.T) {
		_, err := M.DeriveChronologicalOrder("overview", source, monthLabel, []string{"Jan", "Feb"})
		assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
	})
}

func activityRows(rows ...M.UserActivityRow) *M.ShareSeries {
	return M.ComputeShareSeries(rows,
		func(r M.UserActivityRow) time.Time { return r.Date },
		func(r M.UserActivityRow) string { return r.Type },
		func(r M.UserActivityRow) float64 { return r.Amount })
}

func TestComputeShareSeries(t *testing.T) {
	d1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)

	t.Run("SingleDate", func(t *testing.T) {
		series := activityRows(
			M.UserActivityRow{Date: d1, Type: "new", Amount: 30},
			M.UserActivityRow{Date: d1, Type: "old", Amount: 70},
		)
		assert.Equal(t, []string{"new", "old"}, series.Categories)
		assert.Len(t, series.Points, 2)
		assert.InDelta(t, 30.0, series.Points[0].Percent, tolerance)
		assert.Equal(t, "new", series.Points[0].Category)
		assert.InDelta(t, 70.0, series.Points[1].Percent, tolerance)
		assert.Equal(t, "old", series.Points[1].Category)
	})

	t.Run("GroupsPivotsAndFillsMissing", func(t *testing.T) {
		series := activityRows(
			M.UserActivityRow{Date: d2, Type: "old", Amount: 10},
			M.UserActivityRow{Date: d1, Type: "new", Amount: 5},
			M.UserActivityRow{Date: d1, Type: "new", Amount: 15},
			M.UserActivityRow{Date: d1, Type: "old", Amount: 60},
			M.UserActivityRow{Date: d2, Type: "old", Amount: 30},
		)
		assert.Equal(t, []time.Time{d1, d2}, series.Dates)
		// category-major, then date ascending.
		assert.Len(t, series.Points, 4)
		assert.Equal(t, d1, series.Points[0].Date)
		assert.InDelta(t, 25.0, series.Points[0].Percent, tolerance)
		assert.Equal(t, d2, series.Points[1].Date)
		assert.InDelta(t, 0.0, series.Points[1].Percent, tolerance)
		assert.InDelta(t, 75.0, series.Points[2].Percent, tolerance)
		assert.InDelta(t, 100.0, series.Points[3].Percent, tolerance)
	})

	t.Run("EveryDateSumsToHundred", func(t *testing.T) {
		series := activityRows(
			M.UserActivityRow{Date: d1, Type: "new", Amount: 1.3},
			M.UserActivityRow{Date: d1, Type: "old", Amount: 7.9},
			M.UserActivityRow{Date: d1, Type: "whale", Amount: 0.4},
			M.UserActivityRow{Date: d2, Type: "new", Amount: 12345.678},
			M.UserActivityRow{Date: d2, Type: "old", Amount: 0.001},
			M.UserActivityRow{Date: d3, Type: "old", Amount: 3},
		)
		sums := make(map[time.Time]float64)
		for _, point := range series.Points {
			sums[point.Date] += point.Percent
		}
		assert.Len(t, sums, 3)
		for date, sum := range sums {
			assert.InDelta(t, 100.0, sum, 1e-6, date.String())
		}
		assert.Empty(t, series.ZeroTotalDates)
	})

	t.Run("ZeroTotalIsUndefined", func(t *testing.T) {
		series := activityRows(
			M.UserActivityRow{Date: d1, Type: "new", Amount: 0},
			M.UserActivityRow{Date: d1, Type: "old", Amount: 0},
			M.UserActivityRow{Date: d2, Type: "old", Amount: 4},
		)
		assert.Equal(t, []time.Time{d1}, series.ZeroTotalDates)
		for _, point := range series.Points {
			if point.Date.Equal(d1) {
				assert.True(t, math.IsNaN(point.Percent))
			}
		}
	})

	t.Run("Empty", func(t *testing.T) {
		series := activityRows()
		assert.Empty(t, series.Points)
		assert.Empty(t, series.Dates)
	})
}

type fee struct {
	id    string
	value float64
}

func feeValue(f fee) float64 { return f.value }

func TestRankAndTotal(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		ranking, err := M.RankAndTotal("affiliate_fee", []fee{{"A", 50}, {"B", 150}}, feeValue)
		assert.Nil(t, err)
		assert.Equal(t, "B", ranking.Rows[0].Row.id)
		assert.Equal(t, "A", ranking.Rows[1].Row.id)
		assert.InDelta(t, 75.0, ranking.Rows[0].Percent, tolerance)
		assert.InDelta(t, 25.0, ranking.Rows[1].Percent, tolerance)
		assert.InDelta(t, 200.0, ranking.Total, tolerance)
	})

	t.Run("SortedPreservesValuesAndPercentsSumToHundred", func(t *testing.T) {
		input := []fee{{"a", 3.5}, {"b", 12}, {"c", 0.25}, {"d", 12}, {"e", 7}, {"f", 0}}
		ranking, err := M.RankAndTotal("affiliate_fee", input, feeValue)
		assert.Nil(t, err)

		got := make([]float64, 0, len(ranking.Rows))
		var percents float64
		for i, row := range ranking.Rows {
			if i > 0 {
				assert.True(t, ranking.Rows[i-1].Value >= row.Value)
			}
			got = append(got, row.Value)
			percents += row.Percent
		}
		want := []float64{3.5, 12, 0.25, 12, 7, 0}
		sort.Float64s(got)
		sort.Float64s(want)
		assert.Equal(t, want, got)
		assert.InDelta(t, 100.0, percents, 1e-9)
		assert.InDelta(t, 34.75, ranking.Total, tolerance)
	})

	t.Run("TiesKeepInputOrder", func(t *testing.T) {
		ranking, err := M.RankAndTotal("affiliate_fee", []fee{{"x", 1}, {"y", 2}, {"z", 1}}, feeValue)
		assert.Nil(t, err)
		assert.Equal(t, "y", ranking.Rows[0].Row.id)
		assert.Equal(t, "x", ranking.Rows[1].Row.id)
		assert.Equal(t, "z", ranking.Rows[2].Row.id)
	})

	t.Run("ZeroTotal", func(t *testing.T) {
		_, err := M.RankAndTotal("affiliate_fee", []fee{{"x", 0}, {"y", 0}}, feeValue)
		assert.True(t, errors.Is(err, M.ErrDivisionByZero))
	})

	t.Run("NoRows", func(t *testing.T) {
		_, err := M.RankAndTotal("affiliate_fee", []fee{}, feeValue)
		assert.True(t, errors.Is(err, M.ErrEmptyDataset))
	})
}
