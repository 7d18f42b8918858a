package export

import (
	"bytes"
	"math"
	"testing"

	D "thordash/dashboard"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/stretchr/testify/assert"
)

func TestSheetName(t *testing.T) {
	assert.Equal(t, "1 Monthly Swap Volume & Growth", SheetName(0, "Monthly Swap Volume & Growth Rate"))
	assert.Equal(t, "3 Fees (Apr 2025)", SheetName(2, "Fees (Apr 2025)"))
	assert.Equal(t, "2 a b", SheetName(1, "a/b"))
	assert.True(t, len([]rune(SheetName(9, "Affiliate Share of Total Volume (Apr 2025)"))) <= 31)
}

func TestWriteView(t *testing.T) {
	view := &D.View{
		Slug: "affiliate",
		KPIs: []D.KPI{{Label: "Total Affiliate Fee", Value: 200, DeltaPercent: D.Number(math.NaN()), Display: "$200"}},
		Series: []D.Chart{{
			Title: "Monthly Swappers & Growth Rate", XAxisTitle: "Month",
			Labels: []string{"Mar 2025", "Apr 2025"},
			Datasets: []D.Dataset{
				{Name: "Swappers", Values: []D.Number{300, 330}},
				{Name: "Swapper Growth (%)", Values: []D.Number{D.Number(math.NaN()), 10}},
			},
		}},
		Tables: []D.RankedTable{{
			Title: "Total Affiliate Fees", LabelTitle: "Affiliate", ValueTitle: "Affiliate Fee (USD)", Total: 200,
			Rows: []D.RankedEntry{{Label: "B", Value: 150, Percent: 75}, {Label: "A", Value: 50, Percent: 25}},
		}},
	}

	var buffer bytes.Buffer
	assert.Nil(t, WriteView(view, &buffer))

	file, err := excelize.OpenReader(&buffer)
	assert.Nil(t, err)

	rows, err := file.GetRows("KPIs")
	assert.Nil(t, err)
	assert.Equal(t, []string{"Label", "Value", "Delta (%)", "Display"}, rows[0])
	assert.Equal(t, "Total Affiliate Fee", rows[1][0])
	assert.Equal(t, "200", rows[1][1])

	rows, err = file.GetRows(SheetName(0, "Monthly Swappers & Growth Rate"))
	assert.Nil(t, err)
	assert.Equal(t, []string{"Month", "Swappers", "Swapper Growth (%)"}, rows[0])
	assert.Equal(t, "Mar 2025", rows[1][0])
	assert.Equal(t, "330", rows[2][1])

	rows, err = file.GetRows(SheetName(1, "Total Affiliate Fees"))
	assert.Nil(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "B", rows[1][0])
	assert.Equal(t, "Total", rows[3][0])
}
