// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/reverts"
)

// UpdateGlobalIndex sweeps staking rewards of every whitelisted validator into the
// reward contract and asks it to account them.
func (v *Vault) UpdateGlobalIndex(blk stv.BlockContext) ([]effect.Effect, error) {
	logger.Debug("updating global index")

	conf, err := v.params.Config()
	if err != nil {
		return nil, err
	}
	if conf.RewardContract.IsZero() {
		return nil, reverts.New("reward contract is not registered")
	}
	p, err := v.params.Parameters()
	if err != nil {
		return nil, err
	}
	delegations, err := v.delegations()
	if err != nil {
		return nil, err
	}
	delegated := make(map[stv.Address]bool, len(delegations))
	for _, d := range delegations {
		if d.Amount.Denom == p.UnderlyingCoinDenom && d.Amount.IsPositive() {
			delegated[d.Validator] = true
		}
	}

	whitelist, err := v.registry.List()
	if err != nil {
		return nil, err
	}
	effects := make([]effect.Effect, 0, len(whitelist)+1)
	for _, validator := range whitelist {
		if delegated[validator] {
			effects = append(effects, effect.WithdrawRewards{Validator: validator, Recipient: conf.RewardContract})
		}
	}
	effects = append(effects, effect.UpdateRewardIndex{Contract: conf.RewardContract})

	st, err := v.ledger.Get()
	if err != nil {
		return nil, err
	}
	st.LastIndexModification = blk.Time
	if err := v.ledger.Set(st); err != nil {
		return nil, err
	}
	return effects, nil
}
