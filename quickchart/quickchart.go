package quickchart

import (
	"encoding/json"
	"errors"

	quickchartgo "github.com/henomis/quickchart-go"
	log "github.com/sirupsen/logrus"
)

const (
	TypeBar      = "bar"
	TypeLine     = "line"
	TypeDoughnut = "doughnut"
)

type ChartConfig struct {
	Type    string        `json:"type"`
	Data    ChartData     `json:"data"`
	Options *ChartOptions `json:"options,omitempty"`
}

type ChartData struct {
	Labels   []interface{} `json:"labels"`
	DataSets []Dataset     `json:"datasets"`
}

type Dataset struct {
	Type        string        `json:"type,omitempty"`
	Label       string        `json:"label"`
	Data        []interface{} `json:"data"`
	Fill        interface{}   `json:"fill"`
	LineTension float32       `json:"lineTension"`
	YAxisID     string        `json:"yAxisID,omitempty"`
}

type ChartOptions struct {
	Title  *Title  `json:"title,omitempty"`
	Scales *Scales `json:"scales,omitempty"`
}

type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Scales struct {
	XAxes []Axis `json:"xAxes,omitempty"`
	YAxes []Axis `json:"yAxes,omitempty"`
}

type Axis struct {
	ID         string      `json:"id,omitempty"`
	Position   string      `json:"position,omitempty"`
	Stacked    bool        `json:"stacked,omitempty"`
	ScaleLabel *ScaleLabel `json:"scaleLabel,omitempty"`
}

type ScaleLabel struct {
	Display     bool   `json:"display"`
	LabelString string `json:"labelString"`
}

var ErrChartURL = errors.New("failed to get chart url from quickchart")

func GetChartImageUrlForConfig(config ChartConfig) (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		log.WithError(err).Error("failed to marshal chart config")
		return "", ErrChartURL
	}
	qc := quickchartgo.New()
	qc.Config = string(bytes)
	url, err := qc.GetUrl()
	if err != nil {
		log.WithError(err).Error("failed to get chart url from quickchart")
		return "", ErrChartURL
	}
	return url, nil
}
