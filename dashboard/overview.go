package dashboard

import (
	"context"
	"fmt"
	"time"

	"thordash/dataset"
	M "thordash/model"
	U "thordash/util"
)

const (
	growthAxisTitle = "Growth (%)"
	monthAxisTitle  = "Month"
)

type monthlyMetric struct {
	kpiLabel   string
	usd        bool
	title      string
	valueName  string
	growthName string
	axisTitle  string
	value      func(M.MonthlyMetricRow) float64
	growth     func(M.MonthlyMetricRow) float64
}

var (
	volumeMetric = monthlyMetric{
		kpiLabel: "Swap Volume", usd: true,
		title: "Monthly Swap Volume & Growth Rate", valueName: "Swap Volume (USD)", growthName: "Volume Growth (%)",
		axisTitle: "Swap Volume (USD)",
		value:     func(r M.MonthlyMetricRow) float64 { return r.Volume },
		growth:    func(r M.MonthlyMetricRow) float64 { return r.VolumeGrowth },
	}
	swapsMetric = monthlyMetric{
		kpiLabel: "Number of Swaps",
		title:    "Monthly Number of Swaps & Growth Rate", valueName: "Number of Swaps", growthName: "Swap Growth (%)",
		axisTitle: "Swaps",
		value:     func(r M.MonthlyMetricRow) float64 { return r.Swaps },
		growth:    func(r M.MonthlyMetricRow) float64 { return r.SwapsGrowth },
	}
	swappersMetric = monthlyMetric{
		kpiLabel: "Number of Swappers",
		title:    "Monthly Swappers & Growth Rate", valueName: "Swappers", growthName: "Swapper Growth (%)",
		axisTitle: "Number of Swappers",
		value:     func(r M.MonthlyMetricRow) float64 { return r.Swappers },
		growth:    func(r M.MonthlyMetricRow) float64 { return r.SwappersGrowth },
	}
	liquidityFeeMetric = monthlyMetric{
		kpiLabel: "Liquidity Fees", usd: true,
		title: "Monthly Liquidity Fees & Growth Rate", valueName: "Liquidity Fee (USD)", growthName: "Liquidity Fee Growth (%)",
		axisTitle: "Liquidity Fees (USD)",
		value:     func(r M.MonthlyMetricRow) float64 { return r.LiquidityFee },
		growth:    func(r M.MonthlyMetricRow) float64 { return r.LiquidityFeeGrowth },
	}
	newUsersMetric = monthlyMetric{
		kpiLabel: "Number of New Users",
		title:    "Monthly New Users & Growth Rate", valueName: "New Users", growthName: "New User Growth (%)",
		axisTitle: "New Users",
		value:     func(r M.MonthlyMetricRow) float64 { return r.NewUsers },
		growth:    func(r M.MonthlyMetricRow) float64 { return r.NewUsersGrowth },
	}

	kpiMetrics   = []monthlyMetric{volumeMetric, swapsMetric, swappersMetric, liquidityFeeMetric, newUsersMetric}
	chartMetrics = []monthlyMetric{volumeMetric, swappersMetric, swapsMetric, liquidityFeeMetric, newUsersMetric}
)

const shareChartTitle = "Daily Share of Swap Volume by User Type"

func (a *Assembler) buildOverview(ctx context.Context, info ViewInfo) (*View, error) {
	table, err := a.loader.Load(ctx, dataset.Overview)
	if err != nil {
		return nil, err
	}
	rows, err := M.DecodeMonthlyMetrics(table)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.MonthName)
	}
	domain, err := M.ChronologicalMonthDomain(dataset.Overview, labels)
	if err != nil {
		return nil, err
	}
	rows, err = M.DeriveChronologicalOrder(dataset.Overview, rows,
		func(r M.MonthlyMetricRow) string { return r.MonthName }, domain)
	if err != nil {
		return nil, err
	}

	selected, err := a.periodRule.Select(dataset.Overview, rows)
	if err != nil {
		return nil, err
	}
	period := rows[selected]

	view := newView(info, "Thorchain Overview Dashboard", "Unified view of Thorchain activity")
	view.Period = period.MonthName
	for _, metric := range kpiMetrics {
		view.KPIs = append(view.KPIs, monthlyKPI(metric, period))
	}
	for _, metric := range chartMetrics {
		view.Series = append(view.Series, monthlyChart(metric, rows))
	}

	usersTable, err := a.loader.Load(ctx, dataset.Users)
	if err != nil {
		return nil, err
	}
	activity, err := M.DecodeUserActivity(usersTable)
	if err != nil {
		return nil, err
	}
	view.Series = append(view.Series, shareChart(activity))
	return view, nil
}

func monthlyKPI(metric monthlyMetric, row M.MonthlyMetricRow) KPI {
	value, delta := metric.value(row), metric.growth(row)
	display := U.FormatCount(value)
	if metric.usd {
		display = U.FormatUSD(value)
	}
	return KPI{
		Label:        fmt.Sprintf("%s (%s)", metric.kpiLabel, row.MonthName),
		Value:        Number(value),
		DeltaPercent: Number(U.FloatRoundOffWithPrecision(delta, percentPrecision)),
		HasDelta:     true,
		Display:      display,
		DeltaDisplay: U.FormatPercent(delta),
	}
}

func monthlyChart(metric monthlyMetric, rows []M.MonthlyMetricRow) Chart {
	labels := make([]string, 0, len(rows))
	values := make([]Number, 0, len(rows))
	growth := make([]Number, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.MonthName)
		values = append(values, Number(metric.value(row)))
		growth = append(growth, Number(metric.growth(row)))
	}
	return Chart{
		Title:      metric.title,
		Kind:       ChartKindBarLine,
		XAxisTitle: monthAxisTitle,
		YAxisTitle: metric.axisTitle,
		Y2Title:    growthAxisTitle,
		Labels:     labels,
		Datasets: []Dataset{
			{Name: metric.valueName, Kind: "bar", Axis: "y", Values: values},
			{Name: metric.growthName, Kind: "line", Axis: "y2", Values: growth},
		},
	}
}

func shareChart(activity []M.UserActivityRow) Chart {
	series := M.ComputeShareSeries(activity,
		func(r M.UserActivityRow) time.Time { return r.Date },
		func(r M.UserActivityRow) string { return r.Type },
		func(r M.UserActivityRow) float64 { return r.Amount })

	chart := Chart{
		Title:      shareChartTitle,
		Kind:       ChartKindArea,
		XAxisTitle: "Date",
		YAxisTitle: "Share (%)",
		Labels:     make([]string, 0, len(series.Dates)),
		Datasets:   make([]Dataset, 0, len(series.Categories)),
	}
	for _, date := range series.Dates {
		chart.Labels = append(chart.Labels, date.Format(dateLabelLayout))
	}
	for _, date := range series.ZeroTotalDates {
		chart.UndefinedLabels = append(chart.UndefinedLabels, date.Format(dateLabelLayout))
	}

	// Points are category-major, one per date.
	for c, category := range series.Categories {
		values := make([]Number, 0, len(series.Dates))
		for _, point := range series.Points[c*len(series.Dates) : (c+1)*len(series.Dates)] {
			values = append(values, Number(point.Percent))
		}
		chart.Datasets = append(chart.Datasets, Dataset{Name: category, Kind: "area", Axis: "y", Values: values})
	}
	return chart
}

const dateLabelLayout = "2006-01-02"
