// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stvault/vault/validators"
)

// CheckSlashing folds any stake lost to slashing into the ledger. Anyone may call it.
func (v *Vault) CheckSlashing() error {
	logger.Debug("checking slashing")

	snap, err := v.load()
	if err != nil {
		return err
	}
	changed, err := v.reconcile(snap)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return v.ledger.Set(snap.state)
}

// reconcile lowers the bonded amount of snap to the stake the staking module reports.
// The caller persists the ledger.
func (v *Vault) reconcile(snap *snapshot) (bool, error) {
	delegations, err := v.delegations()
	if err != nil {
		return false, err
	}
	actual := validators.TotalDelegated(delegations, snap.params.UnderlyingCoinDenom)
	believed := snap.state.TotalBondAmount

	if !snap.state.Reconcile(actual, snap.supply, snap.current.RequestedWithFee) {
		return false, nil
	}
	metricSlashingEvents().Add(1)
	logger.Info("slashing detected", "believed", believed, "actual", actual, "rate", snap.state.ExchangeRate)
	return true, nil
}
