// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves runtime switches of a running node: the log level and
// the request logger.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stvault/api/admin/health"
	"github.com/vechain/stvault/api/utils"
	"github.com/vechain/stvault/log"
)

type LogLevel struct {
	Level string `json:"level"`
}

type LogStatus struct {
	Enabled bool `json:"enabled"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type Admin struct {
	logLevel *slog.LevelVar
	apiLogs  *atomic.Bool
	health   *health.Health
}

// New returns the admin handler, serving under /admin.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) http.HandlerFunc {
	a := &Admin{logLevel: logLevel, apiLogs: apiLogs, health: h}

	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("admin_get_log_level").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("admin_post_log_level").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePostLogLevel))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("admin_get_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAPILogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("admin_post_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePostAPILogs))
	sub.Path("/health").
		Methods(http.MethodGet).
		Name("admin_get_health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHealth))

	return handlers.CompressHandler(router).ServeHTTP
}

func (a *Admin) currentLevel() LogLevel {
	return LogLevel{Level: strings.ToLower(strings.TrimSpace(log.LevelString(a.logLevel.Level())))}
}

func (a *Admin) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, a.currentLevel())
}

func (a *Admin) handlePostLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body LogLevel
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	level, ok := levels[body.Level]
	if !ok {
		return utils.BadRequest(errors.Errorf("invalid verbosity level %q", body.Level))
	}
	a.logLevel.Set(level)
	log.Info("log level changed", "pkg", "admin", "level", body.Level)
	return utils.WriteJSON(w, a.currentLevel())
}

func (a *Admin) handleGetAPILogs(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogStatus{Enabled: a.apiLogs.Load()})
}

func (a *Admin) handlePostAPILogs(w http.ResponseWriter, req *http.Request) error {
	var body LogStatus
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	a.apiLogs.Store(body.Enabled)
	log.Info("api logs updated", "pkg", "admin", "enabled", body.Enabled)
	return utils.WriteJSON(w, LogStatus{Enabled: a.apiLogs.Load()})
}

func (a *Admin) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status := a.health.Status()
	if !status.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
		return json.NewEncoder(w).Encode(status)
	}
	return utils.WriteJSON(w, status)
}
