package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	M "thordash/model"
)

type Selector string

const (
	SelectorOverview   Selector = "Overview Analysis"
	SelectorAffiliate  Selector = "Affiliate Analysis"
	SelectorComingSoon Selector = "New View (Coming Soon)"
)

type ViewInfo struct {
	Selector Selector `json:"selector"`
	Slug     string   `json:"slug"`
}

var views = []ViewInfo{
	{Selector: SelectorOverview, Slug: "overview"},
	{Selector: SelectorAffiliate, Slug: "affiliate"},
	{Selector: SelectorComingSoon, Slug: "coming-soon"},
}

var ErrUnknownView = errors.New("unknown view")

// Views lists the selectable views in display order.
func Views() []ViewInfo {
	list := make([]ViewInfo, len(views))
	copy(list, views)
	return list
}

// ParseSelector accepts a selector or a slug, case-insensitively.
func ParseSelector(raw string) (ViewInfo, error) {
	raw = strings.TrimSpace(raw)
	for _, info := range views {
		if strings.EqualFold(raw, string(info.Selector)) || strings.EqualFold(raw, info.Slug) {
			return info, nil
		}
	}
	return ViewInfo{}, fmt.Errorf("%w: %q", ErrUnknownView, raw)
}

// Number marshals NaN and infinities as null.
type Number float64

func (n Number) IsDefined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsDefined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// Percentages are served with two decimals.
const percentPrecision = 2

type KPI struct {
	Label        string `json:"label"`
	Value        Number `json:"value"`
	DeltaPercent Number `json:"delta_percent"`
	// HasDelta is false for totals that carry no period-over-period change.
	HasDelta     bool   `json:"has_delta"`
	Display      string `json:"display"`
	DeltaDisplay string `json:"delta_display,omitempty"`
}

type ChartKind string

const (
	ChartKindBarLine ChartKind = "bar_line"
	ChartKindArea    ChartKind = "area"
	ChartKindBar     ChartKind = "bar"
	ChartKindPie     ChartKind = "pie"
)

// Dataset is one plotted series. Axis "y2" is the secondary axis.
type Dataset struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Axis   string   `json:"axis"`
	Values []Number `json:"values"`
}

// Chart is a labelled series chart. Labels are the shared x-axis.
type Chart struct {
	Title      string    `json:"title"`
	Kind       ChartKind `json:"kind"`
	XAxisTitle string    `json:"x_axis_title"`
	YAxisTitle string    `json:"y_axis_title"`
	Y2Title    string    `json:"y2_axis_title,omitempty"`
	Labels     []string  `json:"labels"`
	Datasets   []Dataset `json:"datasets"`
	// Labels whose values could not be normalised.
	UndefinedLabels []string `json:"undefined_labels,omitempty"`
}

type RankedEntry struct {
	Label   string `json:"label"`
	Value   Number `json:"value"`
	Percent Number `json:"percent"`
}

// RankedTable is sorted by value descending.
type RankedTable struct {
	Title      string        `json:"title"`
	Kind       ChartKind     `json:"kind"`
	LabelTitle string        `json:"label_title"`
	ValueTitle string        `json:"value_title"`
	Total      Number        `json:"total"`
	Rows       []RankedEntry `json:"rows"`
}

type ErrorPanel struct {
	Kind     M.ErrorKind `json:"kind"`
	Resource string      `json:"resource"`
	Message  string      `json:"message"`
}

type View struct {
	Selector Selector      `json:"selector"`
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Caption  string        `json:"caption,omitempty"`
	Period   string        `json:"period,omitempty"`
	KPIs     []KPI         `json:"kpis"`
	Series   []Chart       `json:"series"`
	Tables   []RankedTable `json:"tables"`
	Notice   string        `json:"notice,omitempty"`
	Error    *ErrorPanel   `json:"error,omitempty"`
}

func newView(info ViewInfo, title, caption string) *View {
	return &View{
		Selector: info.Selector,
		Slug:     info.Slug,
		Title:    title,
		Caption:  caption,
		KPIs:     []KPI{},
		Series:   []Chart{},
		Tables:   []RankedTable{},
	}
}

// ChartCount is the number of addressable charts, series first then tables.
func (v *View) ChartCount() int {
	return len(v.Series) + len(v.Tables)
}
