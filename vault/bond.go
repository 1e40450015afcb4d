// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/numeric"
	"github.com/vechain/stvault/vault/pegfee"
	"github.com/vechain/stvault/vault/reverts"
	"github.com/vechain/stvault/vault/validators"
)

// Bond delegates the attached coin and mints derivative tokens to the sender.
func (v *Vault) Bond(blk stv.BlockContext, info MessageInfo, validator *stv.Address) ([]effect.Effect, error) {
	logger.Debug("bonding", "sender", info.Sender, "funds", info.Funds, "validator", validator)

	snap, err := v.load()
	if err != nil {
		return nil, err
	}
	payment, err := singleCoin(info.Funds, snap.params.UnderlyingCoinDenom)
	if err != nil {
		logger.Info("bond failed", "sender", info.Sender, "error", err)
		return nil, err
	}
	if snap.config.TokenContract.IsZero() {
		return nil, reverts.New("token contract is not registered")
	}

	delegations, err := v.delegations()
	if err != nil {
		return nil, err
	}
	target, err := v.bondTarget(validator, delegations, snap.params.UnderlyingCoinDenom)
	if err != nil {
		logger.Info("bond failed", "sender", info.Sender, "error", err)
		return nil, err
	}

	if _, err := v.reconcile(snap); err != nil {
		return nil, err
	}
	st := snap.state

	mint := numeric.DivRate(payment, st.ExchangeRate)
	fee := pegfee.Calculator{
		ExchangeRate:   st.ExchangeRate,
		Threshold:      snap.params.ErThreshold,
		PegRecoveryFee: snap.params.PegRecoveryFee,
	}.BondFee(mint, payment, pegfee.Ledger{
		TotalBond:        st.TotalBondAmount,
		Supply:           snap.supply,
		RequestedWithFee: snap.current.RequestedWithFee,
	})
	mint.Sub(mint, fee)
	if mint.Sign() <= 0 {
		return nil, reverts.New("bond amount is too small to mint")
	}

	st.TotalBondAmount = numeric.Sum(st.TotalBondAmount, payment)
	st.UpdateExchangeRate(numeric.Sum(snap.supply, mint), snap.current.RequestedWithFee)
	if err := v.ledger.Set(st); err != nil {
		return nil, err
	}

	logger.Info("bonded", "sender", info.Sender, "validator", target, "amount", payment, "minted", mint, "fee", fee)
	return []effect.Effect{
		effect.Delegate{
			Validator: target,
			Amount:    stv.Coin{Denom: snap.params.UnderlyingCoinDenom, Amount: payment},
		},
		effect.Mint{
			Token:     snap.config.TokenContract,
			Recipient: info.Sender,
			Amount:    mint,
		},
	}, nil
}

func (v *Vault) bondTarget(validator *stv.Address, delegations []stv.Delegation, denom string) (stv.Address, error) {
	if validator != nil {
		ok, err := v.registry.Contains(*validator)
		if err != nil {
			return stv.Address{}, err
		}
		if !ok {
			return stv.Address{}, reverts.Newf("validator %v is not whitelisted", *validator)
		}
		return *validator, nil
	}
	whitelist, err := v.registry.List()
	if err != nil {
		return stv.Address{}, err
	}
	return validators.LeastDelegated(whitelist, delegations, denom)
}

// singleCoin returns the amount of the only coin in funds, which must be a positive amount of denom.
func singleCoin(funds stv.Coins, denom string) (*big.Int, error) {
	switch {
	case len(funds) == 0:
		return nil, reverts.New("no funds sent")
	case len(funds) > 1:
		return nil, reverts.New("more than one coin sent")
	case funds[0].Denom != denom:
		return nil, reverts.Newf("expected %s, got %s", denom, funds[0].Denom)
	case !funds[0].IsPositive():
		return nil, reverts.New("invalid zero amount")
	}
	return new(big.Int).Set(funds[0].Amount), nil
}
