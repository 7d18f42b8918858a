package quickchart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetChartImageUrlForConfig(t *testing.T) {
	config := ChartConfig{
		Type: TypeBar,
		Data: ChartData{
			Labels:   []interface{}{"Mar 2025", "Apr 2025"},
			DataSets: []Dataset{{Label: "Swap Volume (USD)", Data: []interface{}{1.5, 2}}},
		},
	}
	url, err := GetChartImageUrlForConfig(config)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(url, "quickchart.io"))
}
