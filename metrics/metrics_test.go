// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	m := &noopMetrics{}
	assert.Nil(t, m.Handler())
	assert.NotPanics(t, func() {
		m.CountMeter("c").Add(1)
		m.CountVecMeter("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "v"})
		m.GaugeMeter("g").Set(1)
		m.GaugeVecMeter("gv", []string{"l"}).SetWithLabel(1, map[string]string{"l": "v"})
		m.HistogramMeter("h", nil).Observe(1)
		m.HistogramVecMeter("hv", []string{"l"}, nil).ObserveWithLabels(1, map[string]string{"l": "v"})
	})
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return 7
	})
	assert.Equal(t, 7, get())
	assert.Equal(t, 7, get())
	assert.Equal(t, 1, calls)
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	InitializePrometheusMetrics()
	require.NotNil(t, HTTPHandler())

	Counter("test_count").Add(2)
	Counter("test_count").Add(3)
	CounterVec("test_count_vec", []string{"outcome"}).AddWithLabel(1, map[string]string{"outcome": "ok"})
	Gauge("test_gauge").Set(11)
	Histogram("test_hist", BucketDurationMs).Observe(4)
	HistogramVec("test_hist_vec", []string{"kind"}, BucketEffects).ObserveWithLabels(2, map[string]string{"kind": "mint"})
	GaugeVec("test_gauge_vec", []string{"v"}).AddWithLabel(5, map[string]string{"v": "a"})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Contains(t, byName, "stvault_metrics_test_count")
	assert.Equal(t, float64(5), byName["stvault_metrics_test_count"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), byName["stvault_metrics_test_count_vec"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(11), byName["stvault_metrics_test_gauge"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(4), byName["stvault_metrics_test_hist"].Metric[0].GetHistogram().GetSampleSum())
	assert.Equal(t, uint64(1), byName["stvault_metrics_test_hist_vec"].Metric[0].GetHistogram().GetSampleCount())
	assert.Equal(t, float64(5), byName["stvault_metrics_test_gauge_vec"].Metric[0].GetGauge().GetValue())
}
