// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/params"
	"github.com/vechain/stvault/vault/reverts"
)

// Split converts principal tokens 1:1 into a yield token and a principal component token.
func (v *Vault) Split(info MessageInfo, amount *big.Int) ([]effect.Effect, error) {
	logger.Debug("splitting", "sender", info.Sender, "amount", amount)

	conf, err := v.splitConfig(amount)
	if err != nil {
		return nil, err
	}
	if err := v.requireSpendable(conf.TokenContract, info.Sender, amount); err != nil {
		logger.Info("split failed", "sender", info.Sender, "error", err)
		return nil, err
	}

	return []effect.Effect{
		effect.BurnFrom{Token: conf.TokenContract, Owner: info.Sender, Amount: amount},
		effect.Mint{Token: conf.YieldTokenContract, Recipient: info.Sender, Amount: amount},
		effect.Mint{Token: conf.PrincipalComponentContract, Recipient: info.Sender, Amount: amount},
	}, nil
}

// Merge converts a yield token and a principal component token back into a principal token.
func (v *Vault) Merge(info MessageInfo, amount *big.Int) ([]effect.Effect, error) {
	logger.Debug("merging", "sender", info.Sender, "amount", amount)

	conf, err := v.splitConfig(amount)
	if err != nil {
		return nil, err
	}
	for _, token := range []stv.Address{conf.YieldTokenContract, conf.PrincipalComponentContract} {
		if err := v.requireSpendable(token, info.Sender, amount); err != nil {
			logger.Info("merge failed", "sender", info.Sender, "error", err)
			return nil, err
		}
	}

	return []effect.Effect{
		effect.BurnFrom{Token: conf.YieldTokenContract, Owner: info.Sender, Amount: amount},
		effect.BurnFrom{Token: conf.PrincipalComponentContract, Owner: info.Sender, Amount: amount},
		effect.Mint{Token: conf.TokenContract, Recipient: info.Sender, Amount: amount},
	}, nil
}

func (v *Vault) splitConfig(amount *big.Int) (*params.Config, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.New("invalid zero amount")
	}
	conf, err := v.params.Config()
	if err != nil {
		return nil, err
	}
	if conf.TokenContract.IsZero() || conf.YieldTokenContract.IsZero() || conf.PrincipalComponentContract.IsZero() {
		return nil, reverts.New("split tokens are not registered")
	}
	return conf, nil
}

// requireSpendable checks that the vault may burn amount of token from owner.
func (v *Vault) requireSpendable(token, owner stv.Address, amount *big.Int) error {
	balance, err := v.querier.Token.Balance(token, owner)
	if err != nil {
		return errors.Wrap(err, "failed to query token balance")
	}
	if balance.Cmp(amount) < 0 {
		return reverts.Newf("insufficient balance of %v", token)
	}
	allowance, err := v.querier.Token.Allowance(token, owner, v.address)
	if err != nil {
		return errors.Wrap(err, "failed to query token allowance")
	}
	if allowance.Cmp(amount) < 0 {
		return reverts.Newf("insufficient allowance of %v", token)
	}
	return nil
}
