package model_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	M "thordash/model"

	"github.com/stretchr/testify/assert"
)

const overviewCSV = "\ufeffmonth_name,volume,volume_growth,n_swaps,swaps_growth,n_swappers,swappers_growth,liquidity_fee,liquidity_fee_growth,n_new_user,new_user_growth\n" +
	"May 2025,1000,10,50,5,20,2,30,3,4,1\n" +
	"Apr 2025,900,-5,40,0,18,1,25,2,3,0\n" +
	"Mar 2025,950,,45,,17,,26,,3,\n"

func TestParseCSV(t *testing.T) {
	table, err := M.ParseCSV("overview", strings.NewReader(overviewCSV))
	assert.Nil(t, err)
	assert.Equal(t, "overview", table.Name)
	assert.Equal(t, "month_name", table.Headers[0])
	assert.Len(t, table.Rows, 3)

	t.Run("Empty", func(t *testing.T) {
		_, err := M.ParseCSV("overview", strings.NewReader(""))
		assert.True(t, errors.Is(err, M.ErrEmptyDataset))
	})

	t.Run("RaggedRows", func(t *testing.T) {
		_, err := M.ParseCSV("users", strings.NewReader("date,type,amount\n2025-04-01,new\n"))
		assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
	})
}

func TestDecodeMonthlyMetrics(t *testing.T) {
	table, err := M.ParseCSV("overview", strings.NewReader(overviewCSV))
	assert.Nil(t, err)

	rows, err := M.DecodeMonthlyMetrics(table)
	assert.Nil(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "May 2025", rows[0].MonthName)
	assert.Equal(t, float64(1000), rows[0].Volume)
	assert.Equal(t, float64(-5), rows[1].VolumeGrowth)
	assert.Equal(t, float64(18), rows[1].Swappers)
	assert.True(t, math.IsNaN(rows[2].VolumeGrowth))
	assert.True(t, math.IsNaN(rows[2].NewUsersGrowth))

	t.Run("MissingColumn", func(t *testing.T) {
		table, _ := M.ParseCSV("overview", strings.NewReader("month_name,volume\nApr 2025,1\n"))
		_, err := M.DecodeMonthlyMetrics(table)
		dataErr, ok := M.AsDataError(err)
		assert.True(t, ok)
		assert.Equal(t, M.KindSchemaMismatch, dataErr.Kind)
		assert.Equal(t, "overview", dataErr.Resource)
		assert.Contains(t, dataErr.Expectation, "volume_growth")
	})

	t.Run("WrongType", func(t *testing.T) {
		bad := strings.Replace(overviewCSV, "May 2025,1000", "May 2025,lots", 1)
		table, _ := M.ParseCSV("overview", strings.NewReader(bad))
		_, err := M.DecodeMonthlyMetrics(table)
		assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
		assert.Contains(t, err.Error(), "\"volume\"")
	})
}

func TestDecodeUserActivity(t *testing.T) {
	table, err := M.ParseCSV("users", strings.NewReader(
		"date,type,amount\n2025-04-01,new,30\n2025-04-01 00:00:00.000,old,70\n"))
	assert.Nil(t, err)

	rows, err := M.DecodeUserActivity(table)
	assert.Nil(t, err)
	assert.Len(t, rows, 2)
	assert.True(t, rows[0].Date.Equal(rows[1].Date))
	assert.Equal(t, "old", rows[1].Type)

	table, _ = M.ParseCSV("users", strings.NewReader(
		"date,type,amount\n2025-04-01 10:00:00,new,30\n2025-04-01 12:00:00,new,20\n2025-04-02 09:30:00,old,5\n"))
	rows, err = M.DecodeUserActivity(table)
	assert.Nil(t, err)
	assert.True(t, rows[0].Date.Equal(rows[1].Date))
	assert.Equal(t, "2025-04-01 00:00:00", rows[0].Date.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2025-04-02 00:00:00", rows[2].Date.Format("2006-01-02 15:04:05"))

	table, _ = M.ParseCSV("users", strings.NewReader("date,type,amount\nyesterday,new,30\n"))
	_, err = M.DecodeUserActivity(table)
	assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
}

func TestDecodeAffiliates(t *testing.T) {
	table, _ := M.ParseCSV("affiliate_fee", strings.NewReader("affiliates,affiliate_fee,extra\nts,12.5,x\nti,3,y\n"))
	fees, err := M.DecodeAffiliateFees(table)
	assert.Nil(t, err)
	assert.Equal(t, []M.AffiliateFeeRow{{Affiliate: "ts", AffiliateFee: 12.5}, {Affiliate: "ti", AffiliateFee: 3}}, fees)

	table, _ = M.ParseCSV("affiliate_volume", strings.NewReader("affiliates,volume,volume_growth\nts,100,\n"))
	volumes, err := M.DecodeAffiliateVolumes(table)
	assert.Nil(t, err)
	assert.Equal(t, float64(100), volumes[0].Volume)
	assert.True(t, math.IsNaN(volumes[0].VolumeGrowth))

	table, _ = M.ParseCSV("affiliate_volume", strings.NewReader("affiliates,volume\nts,100\n"))
	_, err = M.DecodeAffiliateVolumes(table)
	assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
}
