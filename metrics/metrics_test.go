package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opencensus.io/stats/view"
)

func TestIncrement(t *testing.T) {
	assert.Nil(t, RegisterViews())
	defer view.Unregister(latencyView, countIntView, bytesSizeViewDistributed)

	Increment(IncrDatasetCacheHit)
	Increment(IncrDatasetCacheHit)
	CountInt(IncrDatasetCacheMiss, 3)

	rows, err := view.RetrieveData(countIntView.Name)
	assert.Nil(t, err)

	sums := make(map[string]float64)
	for _, row := range rows {
		sums[row.Tags[0].Value] = row.Data.(*view.SumData).Value
	}
	assert.Equal(t, float64(2), sums[IncrDatasetCacheHit])
	assert.Equal(t, float64(3), sums[IncrDatasetCacheMiss])
}

func TestInitMetricsDisabledInDevelopment(t *testing.T) {
	assert.Nil(t, InitMetrics("development", "dashboard", "project", "us-east1"))
	assert.Nil(t, InitMetrics("production", "dashboard", "", "us-east1"))
}
