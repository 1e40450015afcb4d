// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/stvault/log"
)

const namespace = "stvault_metrics"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the process wide provider to prometheus.
// Calling it again is a no-op.
func InitializePrometheusMetrics() {
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = &prometheusMetrics{}
	}
}

type prometheusMetrics struct {
	meters sync.Map // kind/name => meter
}

// loadOrCreate returns the meter registered under kind and name, creating it with f on first use.
func loadOrCreate[T any](o *prometheusMetrics, kind, name string, f func() (T, prometheus.Collector)) T {
	key := kind + "/" + name
	if m, ok := o.meters.Load(key); ok {
		return m.(T)
	}
	meter, collector := f()
	if actual, loaded := o.meters.LoadOrStore(key, meter); loaded {
		return actual.(T)
	}
	if err := prometheus.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	return meter
}

func floatBuckets(buckets []int64) []float64 {
	out := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, float64(b))
	}
	return out
}

func (o *prometheusMetrics) CountMeter(name string) CountMeter {
	return loadOrCreate(o, "counter", name, func() (CountMeter, prometheus.Collector) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return &promCounter{c}, c
	})
}

func (o *prometheusMetrics) CountVecMeter(name string, labels []string) CountVecMeter {
	return loadOrCreate(o, "countervec", name, func() (CountVecMeter, prometheus.Collector) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return &promCounterVec{c}, c
	})
}

func (o *prometheusMetrics) GaugeMeter(name string) GaugeMeter {
	return loadOrCreate(o, "gauge", name, func() (GaugeMeter, prometheus.Collector) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return &promGauge{g}, g
	})
}

func (o *prometheusMetrics) GaugeVecMeter(name string, labels []string) GaugeVecMeter {
	return loadOrCreate(o, "gaugevec", name, func() (GaugeVecMeter, prometheus.Collector) {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return &promGaugeVec{g}, g
	})
}

func (o *prometheusMetrics) HistogramMeter(name string, buckets []int64) HistogramMeter {
	return loadOrCreate(o, "histogram", name, func() (HistogramMeter, prometheus.Collector) {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		})
		return &promHistogram{h}, h
	})
}

func (o *prometheusMetrics) HistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter {
	return loadOrCreate(o, "histogramvec", name, func() (HistogramVecMeter, prometheus.Collector) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		}, labels)
		return &promHistogramVec{h}, h
	})
}

func (o *prometheusMetrics) Handler() http.Handler {
	return promhttp.Handler()
}

type promCounter struct{ c prometheus.Counter }

func (m *promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	m.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (m *promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m *promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promGaugeVec struct{ g *prometheus.GaugeVec }

func (m *promGaugeVec) AddWithLabel(i int64, labels map[string]string) {
	m.g.With(labels).Add(float64(i))
}

func (m *promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	m.g.With(labels).Set(float64(i))
}

type promHistogram struct{ h prometheus.Histogram }

func (m *promHistogram) Observe(i int64) { m.h.Observe(float64(i)) }

type promHistogramVec struct{ h *prometheus.HistogramVec }

func (m *promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	m.h.With(labels).Observe(float64(i))
}
