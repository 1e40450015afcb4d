// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batch

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/vault/numeric"
)

// CurrentBatch is the open batch collecting unbond requests.
type CurrentBatch struct {
	ID               uint64   `json:"id"`
	RequestedWithFee *big.Int `json:"requested_with_fee"`
}

// UnbondHistory is the frozen record of a closed batch.
type UnbondHistory struct {
	BatchID             uint64        `json:"batch_id"`
	Time                uint64        `json:"time"`
	Amount              *big.Int      `json:"amount"`
	AppliedExchangeRate numeric.Rate  `json:"applied_exchange_rate"`
	WithdrawRate        *numeric.Rate `json:"withdraw_rate"` // nil until released
	Released            bool          `json:"released"`
}

// Expected returns the underlying stake the batch was entitled to when it closed.
func (h *UnbondHistory) Expected() *big.Int {
	return numeric.MulRate(h.Amount, h.AppliedExchangeRate)
}

// Matured reports whether the unbonding period has elapsed since the batch closed.
func (h *UnbondHistory) Matured(now, unbondingPeriod uint64) bool {
	return h.Time+unbondingPeriod <= now
}

// Release sets the realized withdraw rate. It can only happen once.
func (h *UnbondHistory) Release(rate numeric.Rate) error {
	if h.Released {
		return errors.Errorf("batch %d is already released", h.BatchID)
	}
	h.WithdrawRate = &rate
	h.Released = true
	return nil
}

// Payout returns what a wait list amount of this batch is worth.
// Released batches pay at the realized rate, the others are estimated at the applied rate.
func (h *UnbondHistory) Payout(amount *big.Int) *big.Int {
	if h.Released {
		return numeric.MulRate(amount, *h.WithdrawRate)
	}
	return numeric.MulRate(amount, h.AppliedExchangeRate)
}

// ReleaseAll realizes the withdraw rate of batches whose funds arrived together.
// received is the balance increase observed since the last release. Any shortfall
// against the expected underlying is charged to the batches pro rata. It returns the
// part of received attributed to the batches, which never exceeds their expected total.
func ReleaseAll(histories []*UnbondHistory, received *big.Int) (*big.Int, error) {
	expected := make([]*big.Int, len(histories))
	total := new(big.Int)
	for i, h := range histories {
		expected[i] = h.Expected()
		total.Add(total, expected[i])
	}
	slashed := numeric.SubSat(total, received)

	for i, h := range histories {
		share := numeric.MulRate(slashed, numeric.Ratio(expected[i], total))
		actual := numeric.SubSat(expected[i], share)

		rate := numeric.One()
		if h.Amount.Sign() > 0 {
			rate = numeric.Ratio(actual, h.Amount)
		}
		if err := h.Release(rate); err != nil {
			return nil, err
		}
	}
	return numeric.Min(total, received), nil
}

type storedBatch struct {
	ID               uint64
	RequestedWithFee *big.Int
}

type storedHistory struct {
	BatchID      uint64
	Time         uint64
	Amount       *big.Int
	AppliedRate  *big.Int
	WithdrawRate *big.Int
	Released     bool
}

func (h *UnbondHistory) stored() storedHistory {
	s := storedHistory{
		BatchID:     h.BatchID,
		Time:        h.Time,
		Amount:      h.Amount,
		AppliedRate: numeric.RateToBig(h.AppliedExchangeRate),
		Released:    h.Released,
	}
	if h.WithdrawRate != nil {
		s.WithdrawRate = numeric.RateToBig(*h.WithdrawRate)
	}
	return s
}

func (s *storedHistory) history() *UnbondHistory {
	h := &UnbondHistory{
		BatchID:             s.BatchID,
		Time:                s.Time,
		Amount:              s.Amount,
		AppliedExchangeRate: numeric.RateFromBig(s.AppliedRate),
		Released:            s.Released,
	}
	if h.Amount == nil {
		h.Amount = new(big.Int)
	}
	if s.Released {
		rate := numeric.RateFromBig(s.WithdrawRate)
		h.WithdrawRate = &rate
	}
	return h
}
