// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stvault/api"
	"github.com/vechain/stvault/api/admin"
	"github.com/vechain/stvault/api/admin/health"
	"github.com/vechain/stvault/app"
	"github.com/vechain/stvault/host"
	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/metrics"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stvault",
		Usage:     "Liquid staking vault node",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "genesis",
				Usage:  "print the genesis in use as YAML",
				Flags:  []cli.Flag{genesisFlag},
				Action: genesisAction,
			},
			{
				Name:   "inspect",
				Usage:  "dump the persisted vault state",
				Flags:  []cli.Flag{dataDirFlag, genesisFlag, verbosityFlag},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	logLevel := initLogger(ctx)

	gen, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", "err", err)
		}
	}()

	a, err := app.New(db, gen)
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	interval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
	if interval <= 0 {
		return errors.Errorf("invalid %s: must be positive", blockIntervalFlag.Name)
	}
	nodeHealth := health.New(interval)
	nodeHealth.NewHead(a.Head())

	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(exitCtx)
	abort := func(err error) error {
		stop()
		g.Wait()
		return err
	}

	apiURL, err := serve(gctx, g, "API", ctx.String(apiAddrFlag.Name), api.New(a, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	}))
	if err != nil {
		return abort(err)
	}
	logger.Info("API server started", "url", apiURL)

	if ctx.Bool(enableMetricsFlag.Name) {
		url, err := serve(gctx, g, "metrics", ctx.String(metricsAddrFlag.Name), metricsHandler())
		if err != nil {
			return abort(err)
		}
		logger.Info("metrics server started", "url", url+"/metrics")
	}
	if ctx.Bool(enableAdminFlag.Name) {
		url, err := serve(gctx, g, "admin", ctx.String(adminAddrFlag.Name), admin.New(logLevel, apiLogs, nodeHealth))
		if err != nil {
			return abort(err)
		}
		logger.Info("admin server started", "url", url+"/admin")
	}

	g.Go(func() error {
		return sealLoop(gctx, a, interval, nodeHealth)
	})

	logger.Info("node started", "genesis", gen.LaunchTime, "head", a.Head().Number)
	if err := g.Wait(); err != nil {
		return err
	}

	// invocations after the last tick are kept
	head, err := a.Seal(uint64(time.Now().Unix()))
	if err != nil {
		return err
	}
	logger.Info("node stopped", "head", head.Number)
	return nil
}

// sealLoop persists the pending state as a new block on every tick.
func sealLoop(ctx context.Context, a *app.App, interval time.Duration, h *health.Health) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			blk, err := a.Seal(uint64(now.Unix()))
			if err != nil {
				return err
			}
			h.NewHead(blk)
			logger.Debug("sealed block", "number", blk.Number, "time", blk.Time)
		}
	}
}

func genesisAction(ctx *cli.Context) error {
	gen, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	if err := gen.Validate(); err != nil {
		return err
	}
	data, err := gen.Encode()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)

	gen, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := app.New(db, gen)
	if err != nil {
		return err
	}

	dump := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	fmt.Printf("head: %+v\n", a.Head())
	return a.Query(func(v *vault.Vault, _ *host.Host) error {
		for _, item := range []struct {
			name  string
			value func() (any, error)
		}{
			{"state", func() (any, error) { return v.State() }},
			{"config", func() (any, error) { return v.Config() }},
			{"parameters", func() (any, error) { return v.Parameters() }},
			{"current batch", func() (any, error) { return v.CurrentBatch() }},
			{"validators", func() (any, error) { return v.WhitelistedValidators() }},
			{"history", func() (any, error) { return v.AllHistory(0, stv.MaxHistoryLimit) }},
		} {
			value, err := item.value()
			if err != nil {
				return errors.WithMessage(err, item.name)
			}
			fmt.Printf("%s: ", item.name)
			dump.Dump(value)
		}
		return nil
	})
}
