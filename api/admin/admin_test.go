// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stvault/api/admin/health"
	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/stv"
)

func TestLogLevel(t *testing.T) {
	level := &slog.LevelVar{}
	handler := New(level, &atomic.Bool{}, health.New(time.Second))

	tests := []struct {
		name   string
		method string
		body   string
		status int
		want   string
		level  slog.Level
	}{
		{"get default", http.MethodGet, "", http.StatusOK, "info", slog.LevelInfo},
		{"set debug", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug", slog.LevelDebug},
		{"set trace", http.MethodPost, `{"level":"trace"}`, http.StatusOK, "trace", log.LevelTrace},
		{"invalid", http.MethodPost, `{"level":"loud"}`, http.StatusBadRequest, "", log.LevelTrace},
		{"unknown field", http.MethodPost, `{"lvl":"info"}`, http.StatusBadRequest, "", log.LevelTrace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(tt.method, "/admin/loglevel", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				var res LogLevel
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
				assert.Equal(t, tt.want, res.Level)
			}
			assert.Equal(t, tt.level, level.Level())
		})
	}
}

func TestAPILogs(t *testing.T) {
	enabled := &atomic.Bool{}
	handler := New(&slog.LevelVar{}, enabled, health.New(time.Second))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/admin/apilogs", strings.NewReader(`{"enabled":true}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, enabled.Load())

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/admin/apilogs", nil))
	var res LogStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Enabled)
}

func TestHealth(t *testing.T) {
	h := health.New(time.Minute)
	handler := New(&slog.LevelVar{}, &atomic.Bool{}, h)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.NewHead(stv.BlockContext{Number: 1, Time: 1000})
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var status health.Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(1), status.BlockSealing.Head.Number)
}
