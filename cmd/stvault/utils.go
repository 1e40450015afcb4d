// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"os"
	"os/user"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stvault/genesis"
	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/lvldb"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, logLevel)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.Default(), nil
	}
	return genesis.Load(path)
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              ctx.Int(cacheFlag.Name),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".stvault")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
