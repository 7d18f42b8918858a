package model

import (
	"time"

	"github.com/jinzhu/now"
)

// Source column names of the upstream extracts.
const (
	ColumnMonthName          = "month_name"
	ColumnVolume             = "volume"
	ColumnVolumeGrowth       = "volume_growth"
	ColumnSwaps              = "n_swaps"
	ColumnSwapsGrowth        = "swaps_growth"
	ColumnSwappers           = "n_swappers"
	ColumnSwappersGrowth     = "swappers_growth"
	ColumnLiquidityFee       = "liquidity_fee"
	ColumnLiquidityFeeGrowth = "liquidity_fee_growth"
	ColumnNewUsers           = "n_new_user"
	ColumnNewUsersGrowth     = "new_user_growth"

	ColumnDate   = "date"
	ColumnType   = "type"
	ColumnAmount = "amount"

	ColumnAffiliates   = "affiliates"
	ColumnAffiliateFee = "affiliate_fee"
)

// MonthlyMetricRow is one calendar month of protocol activity.
// Growth fields are percentage deltas against the prior month and NaN when undefined.
type MonthlyMetricRow struct {
	MonthName          string
	Volume             float64
	VolumeGrowth       float64
	Swaps              float64
	SwapsGrowth        float64
	Swappers           float64
	SwappersGrowth     float64
	LiquidityFee       float64
	LiquidityFeeGrowth float64
	NewUsers           float64
	NewUsersGrowth     float64
}

// UserActivityRow is swap volume attributed to a user type on a day. Date is truncated to the day.
type UserActivityRow struct {
	Date   time.Time
	Type   string
	Amount float64
}

type AffiliateFeeRow struct {
	Affiliate    string
	AffiliateFee float64
}

type AffiliateVolumeRow struct {
	Affiliate    string
	Volume       float64
	VolumeGrowth float64
}

type metricColumn struct {
	value  string
	growth string
	set    func(row *MonthlyMetricRow, value, growth float64)
}

var monthlyMetricColumns = []metricColumn{
	{ColumnVolume, ColumnVolumeGrowth, func(r *MonthlyMetricRow, v, g float64) { r.Volume, r.VolumeGrowth = v, g }},
	{ColumnSwaps, ColumnSwapsGrowth, func(r *MonthlyMetricRow, v, g float64) { r.Swaps, r.SwapsGrowth = v, g }},
	{ColumnSwappers, ColumnSwappersGrowth, func(r *MonthlyMetricRow, v, g float64) { r.Swappers, r.SwappersGrowth = v, g }},
	{ColumnLiquidityFee, ColumnLiquidityFeeGrowth, func(r *MonthlyMetricRow, v, g float64) { r.LiquidityFee, r.LiquidityFeeGrowth = v, g }},
	{ColumnNewUsers, ColumnNewUsersGrowth, func(r *MonthlyMetricRow, v, g float64) { r.NewUsers, r.NewUsersGrowth = v, g }},
}

// DecodeMonthlyMetrics reads the monthly overview extract in source order.
func DecodeMonthlyMetrics(t *Table) ([]MonthlyMetricRow, error) {
	columns := []string{ColumnMonthName}
	for _, mc := range monthlyMetricColumns {
		columns = append(columns, mc.value, mc.growth)
	}
	idx, err := t.ColumnIndexes(columns...)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyMetricRow, 0, len(t.Rows))
	for i := range t.Rows {
		var row MonthlyMetricRow
		if row.MonthName, err = t.String(i, ColumnMonthName, idx[ColumnMonthName]); err != nil {
			return nil, err
		}
		for _, mc := range monthlyMetricColumns {
			value, err := t.Float(i, mc.value, idx[mc.value])
			if err != nil {
				return nil, err
			}
			growth, err := t.OptionalFloat(i, mc.growth, idx[mc.growth])
			if err != nil {
				return nil, err
			}
			mc.set(&row, value, growth)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DecodeUserActivity reads the daily per-user-type volume extract.
func DecodeUserActivity(t *Table) ([]UserActivityRow, error) {
	idx, err := t.ColumnIndexes(ColumnDate, ColumnType, ColumnAmount)
	if err != nil {
		return nil, err
	}

	rows := make([]UserActivityRow, 0, len(t.Rows))
	for i := range t.Rows {
		var row UserActivityRow
		if row.Date, err = t.Time(i, ColumnDate, idx[ColumnDate]); err != nil {
			return nil, err
		}
		row.Date = now.New(row.Date).BeginningOfDay()
		if row.Type, err = t.String(i, ColumnType, idx[ColumnType]); err != nil {
			return nil, err
		}
		if row.Amount, err = t.Float(i, ColumnAmount, idx[ColumnAmount]); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func DecodeAffiliateFees(t *Table) ([]AffiliateFeeRow, error) {
	idx, err := t.ColumnIndexes(ColumnAffiliates, ColumnAffiliateFee)
	if err != nil {
		return nil, err
	}

	rows := make([]AffiliateFeeRow, 0, len(t.Rows))
	for i := range t.Rows {
		var row AffiliateFeeRow
		if row.Affiliate, err = t.String(i, ColumnAffiliates, idx[ColumnAffiliates]); err != nil {
			return nil, err
		}
		if row.AffiliateFee, err = t.Float(i, ColumnAffiliateFee, idx[ColumnAffiliateFee]); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func DecodeAffiliateVolumes(t *Table) ([]AffiliateVolumeRow, error) {
	idx, err := t.ColumnIndexes(ColumnAffiliates, ColumnVolume, ColumnVolumeGrowth)
	if err != nil {
		return nil, err
	}

	rows := make([]AffiliateVolumeRow, 0, len(t.Rows))
	for i := range t.Rows {
		var row AffiliateVolumeRow
		if row.Affiliate, err = t.String(i, ColumnAffiliates, idx[ColumnAffiliates]); err != nil {
			return nil, err
		}
		if row.Volume, err = t.Float(i, ColumnVolume, idx[ColumnVolume]); err != nil {
			return nil, err
		}
		if row.VolumeGrowth, err = t.OptionalFloat(i, ColumnVolumeGrowth, idx[ColumnVolumeGrowth]); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
