// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/batch"
	"github.com/vechain/stvault/vault/numeric"
	"github.com/vechain/stvault/vault/pegfee"
	"github.com/vechain/stvault/vault/reverts"
	"github.com/vechain/stvault/vault/validators"
)

// ErrBurnExceedsBonded is returned when a closing batch claims more stake than the vault tracks.
var ErrBurnExceedsBonded = reverts.New("undelegation exceeds the bonded amount")

// Receive is the hook the principal token calls after tokens were sent to the vault.
func (v *Vault) Receive(blk stv.BlockContext, info MessageInfo, msg effect.Receive) ([]effect.Effect, error) {
	conf, err := v.params.Config()
	if err != nil {
		return nil, err
	}
	if conf.TokenContract.IsZero() || info.Sender != conf.TokenContract {
		return nil, reverts.Unauthorized("sender is not the token contract")
	}

	var payload receiveMsg
	if err := json.Unmarshal(msg.Msg, &payload); err != nil {
		return nil, reverts.Newf("invalid receive message: %v", err)
	}
	if payload.Unbond == nil {
		return nil, reverts.New("unsupported receive message")
	}
	return v.unbond(blk, msg.Sender, msg.Amount)
}

// unbond queues amount of principal tokens, already held by the vault, for undelegation.
func (v *Vault) unbond(blk stv.BlockContext, sender stv.Address, amount *big.Int) ([]effect.Effect, error) {
	logger.Debug("unbonding", "sender", sender, "amount", amount)

	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.New("invalid zero amount")
	}
	snap, err := v.load()
	if err != nil {
		return nil, err
	}
	held, err := v.querier.Token.Balance(snap.config.TokenContract, v.address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query token balance")
	}
	if held.Cmp(amount) < 0 {
		return nil, reverts.Newf("unbond amount %v exceeds the received balance %v", amount, held)
	}

	if _, err := v.reconcile(snap); err != nil {
		return nil, err
	}
	st, cur := snap.state, snap.current

	fee := pegfee.Calculator{
		ExchangeRate:   st.ExchangeRate,
		Threshold:      snap.params.ErThreshold,
		PegRecoveryFee: snap.params.PegRecoveryFee,
	}.UnbondFee(amount, pegfee.Ledger{
		TotalBond:        st.TotalBondAmount,
		Supply:           snap.supply,
		RequestedWithFee: cur.RequestedWithFee,
	})
	amountWithFee := new(big.Int).Sub(amount, fee)

	cur.RequestedWithFee = numeric.Sum(cur.RequestedWithFee, amountWithFee)
	if err := v.batches.AddToWaitList(cur.ID, sender, amountWithFee); err != nil {
		return nil, err
	}

	remaining := new(big.Int).Sub(snap.supply, amount)
	st.UpdateExchangeRate(remaining, cur.RequestedWithFee)

	effects := []effect.Effect{
		effect.Burn{Token: snap.config.TokenContract, Amount: new(big.Int).Set(amount)},
	}

	if blk.Time >= st.LastUnbondedTime+snap.params.EpochPeriod && cur.RequestedWithFee.Sign() > 0 {
		undelegations, err := v.closeBatch(blk, snap, remaining)
		if err != nil {
			logger.Info("unbond failed", "sender", sender, "error", err)
			return nil, err
		}
		effects = append(effects, undelegations...)
	}

	if err := v.batches.SetCurrent(cur); err != nil {
		return nil, err
	}
	if err := v.ledger.Set(st); err != nil {
		return nil, err
	}

	logger.Info("unbond requested", "sender", sender, "amount", amount, "fee", fee, "batch", cur.ID)
	return effects, nil
}

// closeBatch freezes the open batch into the history and undelegates its underlying stake.
// It mutates the ledger and the current batch of snap, which the caller persists.
func (v *Vault) closeBatch(blk stv.BlockContext, snap *snapshot, supply *big.Int) ([]effect.Effect, error) {
	st, cur := snap.state, snap.current
	denom := snap.params.UnderlyingCoinDenom

	undelegation := numeric.MulRate(cur.RequestedWithFee, st.ExchangeRate)
	if undelegation.Cmp(big.NewInt(1)) <= 0 {
		// a single unit cannot be undelegated, keep collecting
		return nil, nil
	}
	if undelegation.Cmp(st.TotalBondAmount) > 0 {
		return nil, ErrBurnExceedsBonded
	}

	delegations, err := v.delegations()
	if err != nil {
		return nil, err
	}
	picks, err := validators.PickForUnbond(delegations, denom, undelegation)
	if err != nil {
		return nil, err
	}

	if err := v.batches.SetHistory(&batch.UnbondHistory{
		BatchID:             cur.ID,
		Time:                blk.Time,
		Amount:              cur.RequestedWithFee,
		AppliedExchangeRate: st.ExchangeRate,
	}); err != nil {
		return nil, err
	}

	st.TotalBondAmount = new(big.Int).Sub(st.TotalBondAmount, undelegation)
	st.LastUnbondedTime = blk.Time
	closed := cur.ID
	cur.ID++
	cur.RequestedWithFee = new(big.Int)
	st.UpdateExchangeRate(supply, cur.RequestedWithFee)

	effects := make([]effect.Effect, 0, len(picks))
	for _, p := range picks {
		effects = append(effects, effect.Undelegate{
			Validator: p.Validator,
			Amount:    stv.Coin{Denom: denom, Amount: p.Amount},
		})
	}

	metricBatchesClosed().Add(1)
	logger.Info("closed unbond batch", "batch", closed, "undelegation", undelegation, "validators", len(picks))
	return effects, nil
}
