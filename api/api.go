// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the vault and the host modules over HTTP.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stvault/api/accounts"
	"github.com/vechain/stvault/api/middleware"
	"github.com/vechain/stvault/api/tokens"
	"github.com/vechain/stvault/api/utils"
	"github.com/vechain/stvault/api/vaults"
	"github.com/vechain/stvault/app"
	"github.com/vechain/stvault/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
}

// New return api router
func New(a *app.App, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	router.Path("/head").
		Methods(http.MethodGet).
		Name("head").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, a.Head())
		}))

	vaults.New(a).
		Mount(router, "/vault")
	accounts.New(a).
		Mount(router, "/accounts")
	tokens.New(a).
		Mount(router, "/tokens")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(middleware.Metrics)
	}
	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLogger(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP
}
