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
	"github.com/vechain/stvault/vault/batch"
	"github.com/vechain/stvault/vault/ledger"
	"github.com/vechain/stvault/vault/numeric"
	"github.com/vechain/stvault/vault/reverts"
)

// WithdrawUnbonded pays the sender for every released batch they have requests in.
// Batches whose unbonding period elapsed are released first, at the rate the funds
// actually arrived at.
func (v *Vault) WithdrawUnbonded(blk stv.BlockContext, info MessageInfo) ([]effect.Effect, error) {
	logger.Debug("withdrawing unbonded", "sender", info.Sender)

	p, err := v.params.Parameters()
	if err != nil {
		return nil, err
	}
	st, err := v.ledger.Get()
	if err != nil {
		return nil, err
	}
	balance, err := v.querier.Bank.Balance(v.address, p.UnderlyingCoinDenom)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query vault balance")
	}

	released, err := v.releaseMatured(blk, p.UnbondingPeriod, st, balance)
	if err != nil {
		return nil, err
	}

	entries, err := v.batches.WaitList(info.Sender)
	if err != nil {
		return nil, err
	}
	payout := new(big.Int)
	var consumed []uint64
	for _, e := range entries {
		h, ok := released[e.BatchID]
		if !ok {
			if h, err = v.batches.History(e.BatchID); err != nil {
				return nil, err
			}
		}
		if h == nil || !h.Released {
			continue
		}
		payout.Add(payout, h.Payout(e.Amount))
		consumed = append(consumed, e.BatchID)
	}
	if len(consumed) == 0 {
		logger.Info("withdraw failed", "sender", info.Sender, "error", "nothing withdrawable")
		return nil, reverts.NotYetAvailable("no withdrawable assets available")
	}

	// all checks passed, persist
	for _, h := range released {
		if err := v.batches.SetHistory(h); err != nil {
			return nil, err
		}
	}
	if err := v.batches.RemoveFromWaitList(info.Sender, consumed); err != nil {
		return nil, err
	}
	st.PrevVaultBalance = numeric.SubSat(st.PrevVaultBalance, payout)
	if err := v.ledger.Set(st); err != nil {
		return nil, err
	}

	logger.Info("withdrew unbonded", "sender", info.Sender, "amount", payout, "batches", len(consumed))
	if payout.Sign() == 0 {
		return nil, nil
	}
	return []effect.Effect{
		effect.BankSend{
			To:     info.Sender,
			Amount: stv.Coins{{Denom: p.UnderlyingCoinDenom, Amount: payout}},
		},
	}, nil
}

// releaseMatured realizes the withdraw rate of every batch whose unbonding period elapsed,
// attributing the balance received since the last release to them. The baseline only
// advances by what the batches consumed, so funds that arrived early for a later batch
// stay attributable to it. Released batches are returned by id; they and st are updated
// in memory only.
func (v *Vault) releaseMatured(
	blk stv.BlockContext,
	unbondingPeriod uint64,
	st *ledger.State,
	balance *big.Int,
) (map[uint64]*batch.UnbondHistory, error) {
	var pending []*batch.UnbondHistory
	for id := st.LastProcessedBatch + 1; ; id++ {
		h, err := v.batches.History(id)
		if err != nil {
			return nil, err
		}
		if h == nil || !h.Matured(blk.Time, unbondingPeriod) {
			break
		}
		if !h.Released {
			pending = append(pending, h)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	received := numeric.SubSat(balance, st.PrevVaultBalance)
	consumed, err := batch.ReleaseAll(pending, received)
	if err != nil {
		return nil, err
	}

	released := make(map[uint64]*batch.UnbondHistory, len(pending))
	for _, h := range pending {
		released[h.BatchID] = h
	}
	st.LastProcessedBatch = pending[len(pending)-1].BatchID
	st.ActualUnbondedAmount = received
	st.PrevVaultBalance = new(big.Int).Add(st.PrevVaultBalance, consumed)

	logger.Info("released unbond batches", "from", pending[0].BatchID, "to", st.LastProcessedBatch, "received", received, "consumed", consumed)
	return released, nil
}
