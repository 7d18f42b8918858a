package dashboard

import (
	"fmt"

	"thordash/quickchart"
)

func numbers(values []Number) []interface{} {
	data := make([]interface{}, 0, len(values))
	for _, value := range values {
		if !value.IsDefined() {
			data = append(data, nil)
			continue
		}
		data = append(data, float64(value))
	}
	return data
}

func toInterfaces(values []string) []interface{} {
	list := make([]interface{}, 0, len(values))
	for _, value := range values {
		list = append(list, value)
	}
	return list
}

func axis(id, position, label string, stacked bool) quickchart.Axis {
	return quickchart.Axis{
		ID:         id,
		Position:   position,
		Stacked:    stacked,
		ScaleLabel: &quickchart.ScaleLabel{Display: label != "", LabelString: label},
	}
}

// ChartConfig converts a series chart to a quickchart config.
func (c Chart) ChartConfig() quickchart.ChartConfig {
	config := quickchart.ChartConfig{
		Type: quickchart.TypeBar,
		Data: quickchart.ChartData{Labels: toInterfaces(c.Labels)},
		Options: &quickchart.ChartOptions{
			Title:  &quickchart.Title{Display: true, Text: c.Title},
			Scales: &quickchart.Scales{XAxes: []quickchart.Axis{axis("", "", c.XAxisTitle, false)}},
		},
	}

	switch c.Kind {
	case ChartKindArea:
		config.Type = quickchart.TypeLine
		config.Options.Scales.YAxes = []quickchart.Axis{axis("y", "left", c.YAxisTitle, true)}
		for _, dataset := range c.Datasets {
			config.Data.DataSets = append(config.Data.DataSets, quickchart.Dataset{
				Label: dataset.Name, Data: numbers(dataset.Values), Fill: "origin", LineTension: 0.4,
			})
		}
	default:
		config.Options.Scales.YAxes = []quickchart.Axis{axis("y", "left", c.YAxisTitle, false)}
		if c.Y2Title != "" {
			config.Options.Scales.YAxes = append(config.Options.Scales.YAxes, axis("y2", "right", c.Y2Title, false))
		}
		for _, dataset := range c.Datasets {
			config.Data.DataSets = append(config.Data.DataSets, quickchart.Dataset{
				Type: dataset.Kind, Label: dataset.Name, Data: numbers(dataset.Values), Fill: false, YAxisID: dataset.Axis,
			})
		}
	}
	return config
}

// ChartConfig converts a ranked table to a horizontal bar or doughnut config.
func (t RankedTable) ChartConfig() quickchart.ChartConfig {
	labels := make([]interface{}, 0, len(t.Rows))
	values := make([]Number, 0, len(t.Rows))
	for _, row := range t.Rows {
		labels = append(labels, row.Label)
		values = append(values, row.Value)
	}

	config := quickchart.ChartConfig{
		Type: "horizontalBar",
		Data: quickchart.ChartData{
			Labels:   labels,
			DataSets: []quickchart.Dataset{{Label: t.ValueTitle, Data: numbers(values), Fill: false}},
		},
		Options: &quickchart.ChartOptions{Title: &quickchart.Title{Display: true, Text: t.Title}},
	}
	if t.Kind == ChartKindPie {
		config.Type = quickchart.TypeDoughnut
	}
	return config
}

// ChartConfig returns the config of the chart at index, series first then tables.
func (v *View) ChartConfig(index int) (quickchart.ChartConfig, error) {
	if index < 0 || index >= v.ChartCount() {
		return quickchart.ChartConfig{}, fmt.Errorf("chart index %d out of range, view %s has %d charts",
			index, v.Slug, v.ChartCount())
	}
	if index < len(v.Series) {
		return v.Series[index].ChartConfig(), nil
	}
	return v.Tables[index-len(v.Series)].ChartConfig(), nil
}
