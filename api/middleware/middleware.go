// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/metrics"
)

var (
	metricRequests        = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricRequestDuration = metrics.LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketDurationMs)
)

// RequestLogger logs every request while enabled, and any request slower than
// slowThreshold when the threshold is not zero.
func RequestLogger(logger log.Logger, enabled *atomic.Bool, slowThreshold time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}
			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			elapsed := time.Since(start)

			if enabled.Load() || (slowThreshold > 0 && elapsed > slowThreshold) {
				logger.Info("API Request",
					"DurationMs", elapsed.Milliseconds(),
					"URI", r.URL.String(),
					"Method", r.Method,
					"Body", string(body),
				)
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Metrics records count and latency per route. Requests that match no route are
// grouped under "unknown" to keep the label set bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := "unknown"
		if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
			name = route.GetName()
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		labels := map[string]string{"name": name, "code": strconv.Itoa(rec.status), "method": r.Method}
		metricRequests().AddWithLabel(1, labels)
		metricRequestDuration().ObserveWithLabels(time.Since(start).Milliseconds(), labels)
	})
}
