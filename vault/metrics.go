// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/metrics"
	"github.com/vechain/stvault/vault/numeric"
	"github.com/vechain/stvault/vault/reverts"
)

var (
	metricCommands       = metrics.LazyLoadCounterVec("vault_commands_count", []string{"command", "outcome"})
	metricTotalBonded    = metrics.LazyLoadGauge("vault_total_bonded")
	metricExchangeRate   = metrics.LazyLoadGauge("vault_exchange_rate_micro")
	metricSlashingEvents = metrics.LazyLoadCounter("vault_slashing_events_count")
	metricBatchesClosed  = metrics.LazyLoadCounter("vault_batches_closed_count")

	rateScale = numeric.MustRate("1000000")
)

func commandName(msg any) string {
	switch msg.(type) {
	case Bond:
		return "bond"
	case effect.Receive:
		return "unbond"
	case WithdrawUnbonded:
		return "withdraw_unbonded"
	case RegisterValidator:
		return "register_validator"
	case DeregisterValidator:
		return "deregister_validator"
	case UpdateParams:
		return "update_params"
	case UpdateConfig:
		return "update_config"
	case CheckSlashing:
		return "check_slashing"
	case UpdateGlobalIndex:
		return "update_global_index"
	case Split:
		return "split"
	case Merge:
		return "merge"
	default:
		return "unknown"
	}
}

func recordCommand(name string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
		if kind, ok := reverts.KindOf(err); ok {
			outcome = kind.String()
		}
	}
	metricCommands().AddWithLabel(1, map[string]string{"command": name, "outcome": outcome})
}

func (v *Vault) recordLedger() {
	st, err := v.ledger.Get()
	if err != nil {
		return
	}
	if st.TotalBondAmount.IsInt64() {
		metricTotalBonded().Set(st.TotalBondAmount.Int64())
	}
	metricExchangeRate().Set(st.ExchangeRate.Mul(rateScale).TruncateInt64())
}
