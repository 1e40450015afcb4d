// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
)

// metrics is the process wide meter provider, a no-op until prometheus is initialized.
var metrics Metrics = &noopMetrics{}

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	CountMeter(name string) CountMeter
	CountVecMeter(name string, labels []string) CountVecMeter
	GaugeMeter(name string) GaugeMeter
	GaugeVecMeter(name string, labels []string) GaugeVecMeter
	HistogramMeter(name string, buckets []int64) HistogramMeter
	HistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// HTTPHandler returns the http handler for retrieving metrics, nil when metrics are disabled.
func HTTPHandler() http.Handler {
	return metrics.Handler()
}

// Standard histogram buckets.
var (
	BucketDurationMs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}
	BucketEffects    = []int64{0, 1, 2, 3, 4, 6, 8, 12, 16, 32, 64}
)

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a labelled CountMeter.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that can arbitrarily go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// GaugeVecMeter is a labelled GaugeMeter.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// HistogramMeter aggregates observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

// HistogramVecMeter is a labelled HistogramMeter.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

func Counter(name string) CountMeter { return metrics.CountMeter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.CountVecMeter(name, labels)
}

func Gauge(name string) GaugeMeter { return metrics.GaugeMeter(name) }

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.GaugeVecMeter(name, labels)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.HistogramMeter(name, buckets)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.HistogramVecMeter(name, labels, buckets)
}

// LazyLoad defers creating a meter until first use, so package level meters
// bind to whichever implementation is active at that time.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
