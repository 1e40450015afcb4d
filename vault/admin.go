// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/pkg/errors"

	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/params"
	"github.com/vechain/stvault/vault/reverts"
)

// RegisterValidator whitelists a validator of the staking module.
func (v *Vault) RegisterValidator(info MessageInfo, validator stv.Address) error {
	logger.Debug("registering validator", "sender", info.Sender, "validator", validator)

	if _, err := v.onlyOwner(info.Sender); err != nil {
		return err
	}
	if err := v.requireValidator(validator); err != nil {
		logger.Info("register validator failed", "validator", validator, "error", err)
		return err
	}
	if err := v.registry.Add(validator); err != nil {
		logger.Info("register validator failed", "validator", validator, "error", err)
		return err
	}

	logger.Info("registered validator", "validator", validator)
	return nil
}

// DeregisterValidator removes a validator from the whitelist, moving its stake to redelegateTo.
func (v *Vault) DeregisterValidator(info MessageInfo, validator, redelegateTo stv.Address) ([]effect.Effect, error) {
	logger.Debug("deregistering validator", "sender", info.Sender, "validator", validator, "redelegateTo", redelegateTo)

	conf, err := v.onlyOwner(info.Sender)
	if err != nil {
		return nil, err
	}
	if err := v.checkDeregister(validator, redelegateTo); err != nil {
		logger.Info("deregister validator failed", "validator", validator, "error", err)
		return nil, err
	}
	p, err := v.params.Parameters()
	if err != nil {
		return nil, err
	}
	delegation, err := v.querier.Staking.Delegation(v.address, validator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query delegation")
	}
	if err := v.registry.Remove(validator); err != nil {
		return nil, err
	}

	logger.Info("deregistered validator", "validator", validator)
	if delegation == nil || delegation.Amount.Denom != p.UnderlyingCoinDenom || !delegation.Amount.IsPositive() {
		return nil, nil
	}

	effects := []effect.Effect{
		effect.Redelegate{Src: validator, Dst: redelegateTo, Amount: delegation.Amount},
	}
	if !conf.RewardContract.IsZero() {
		effects = append(effects, effect.Execute{Contract: v.address, Msg: UpdateGlobalIndex{}})
	}
	return effects, nil
}

func (v *Vault) checkDeregister(validator, redelegateTo stv.Address) error {
	ok, err := v.registry.Contains(validator)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.New("validator is not whitelisted")
	}
	count, err := v.registry.Len()
	if err != nil {
		return err
	}
	if count <= 1 {
		return reverts.New("cannot remove the last whitelisted validator")
	}
	if redelegateTo == validator {
		return reverts.New("redelegation target must differ from the removed validator")
	}
	ok, err = v.registry.Contains(redelegateTo)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.New("redelegation target is not whitelisted")
	}
	return nil
}

// UpdateParams applies a partial update of the parameters.
func (v *Vault) UpdateParams(info MessageInfo, update params.ParametersUpdate) error {
	logger.Debug("updating params", "sender", info.Sender)

	if _, err := v.onlyOwner(info.Sender); err != nil {
		return err
	}
	p, err := v.params.Parameters()
	if err != nil {
		return err
	}
	next := p.Apply(update)
	if err := v.params.SetParameters(&next); err != nil {
		logger.Info("update params failed", "error", err)
		return err
	}
	return nil
}

// UpdateConfig applies a partial update of the config.
func (v *Vault) UpdateConfig(info MessageInfo, update params.ConfigUpdate) error {
	logger.Debug("updating config", "sender", info.Sender)

	conf, err := v.onlyOwner(info.Sender)
	if err != nil {
		return err
	}
	next, err := conf.Apply(update)
	if err != nil {
		logger.Info("update config failed", "error", err)
		return err
	}
	return v.params.SetConfig(&next)
}
