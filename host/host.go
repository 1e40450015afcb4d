// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package host is a deterministic in-process runtime for the modules the vault
// instructs through effects. All modules keep their ledgers in the same state as
// the vault, so reverting a checkpoint undoes both sides.
package host

import (
	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/state"
)

var logger = log.WithContext("pkg", "host")

// Config configures the staking module.
type Config struct {
	Denom           string
	UnbondingPeriod uint64
}

// Host bundles the modules.
type Host struct {
	Bank    *Bank
	Staking *Staking
	Tokens  *Tokens
	Rewards *Rewards
}

func New(st *state.State, cfg Config) *Host {
	bank := NewBank(st)
	return &Host{
		Bank:    bank,
		Staking: NewStaking(st, bank, cfg.Denom, cfg.UnbondingPeriod),
		Tokens:  NewTokens(st),
		Rewards: NewRewards(st),
	}
}
