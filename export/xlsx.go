package export

import (
	"fmt"
	"io"
	"strings"

	D "thordash/dashboard"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
)

const (
	kpiSheet     = "KPIs"
	maxSheetName = 31

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// SheetName returns a unique excel sheet name for a chart title.
func SheetName(index int, title string) string {
	name := fmt.Sprintf("%d %s", index+1, sheetNameReplacer.Replace(title))
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return strings.TrimSpace(name)
}

func cell(value D.Number) interface{} {
	if !value.IsDefined() {
		return ""
	}
	return float64(value)
}

// WriteView writes a workbook with the KPIs and one sheet per chart of the view.
func WriteView(view *D.View, w io.Writer) error {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", kpiSheet)

	rows := [][]interface{}{{"Label", "Value", "Delta (%)", "Display"}}
	for _, kpi := range view.KPIs {
		delta := cell(kpi.DeltaPercent)
		if !kpi.HasDelta {
			delta = ""
		}
		rows = append(rows, []interface{}{kpi.Label, cell(kpi.Value), delta, kpi.Display})
	}
	if err := writeRows(file, kpiSheet, rows); err != nil {
		return err
	}

	index := 0
	for _, chart := range view.Series {
		if err := writeSheet(file, SheetName(index, chart.Title), seriesRows(chart)); err != nil {
			return err
		}
		index++
	}
	for _, table := range view.Tables {
		if err := writeSheet(file, SheetName(index, table.Title), tableRows(table)); err != nil {
			return err
		}
		index++
	}

	file.SetActiveSheet(file.GetSheetIndex(kpiSheet))
	_, err := file.WriteTo(w)
	return err
}

func seriesRows(chart D.Chart) [][]interface{} {
	header := []interface{}{chart.XAxisTitle}
	for _, dataset := range chart.Datasets {
		header = append(header, dataset.Name)
	}
	rows := [][]interface{}{header}
	for i, label := range chart.Labels {
		row := []interface{}{label}
		for _, dataset := range chart.Datasets {
			row = append(row, cell(dataset.Values[i]))
		}
		rows = append(rows, row)
	}
	return rows
}

func tableRows(table D.RankedTable) [][]interface{} {
	rows := [][]interface{}{{table.LabelTitle, table.ValueTitle, "Share (%)"}}
	for _, entry := range table.Rows {
		rows = append(rows, []interface{}{entry.Label, cell(entry.Value), cell(entry.Percent)})
	}
	return append(rows, []interface{}{"Total", cell(table.Total), 100.0})
}

func writeSheet(file *excelize.File, sheet string, rows [][]interface{}) error {
	file.NewSheet(sheet)
	return writeRows(file, sheet, rows)
}

func writeRows(file *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, axis, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
