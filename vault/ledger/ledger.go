// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/stvault/vault/numeric"
)

// State is the accounting ledger of the vault.
type State struct {
	TotalBondAmount       *big.Int     `json:"total_bond_amount"`
	ExchangeRate          numeric.Rate `json:"exchange_rate"`
	LastIndexModification uint64       `json:"last_index_modification"`
	LastUnbondedTime      uint64       `json:"last_unbonded_time"`
	LastProcessedBatch    uint64       `json:"last_processed_batch"`
	PrevVaultBalance      *big.Int     `json:"prev_vault_balance"`
	ActualUnbondedAmount  *big.Int     `json:"actual_unbonded_amount"`
}

// NewState returns the ledger of a freshly instantiated vault.
func NewState(now uint64) *State {
	return &State{
		TotalBondAmount:       new(big.Int),
		ExchangeRate:          numeric.One(),
		LastIndexModification: now,
		LastUnbondedTime:      now,
		PrevVaultBalance:      new(big.Int),
		ActualUnbondedAmount:  new(big.Int),
	}
}

// UpdateExchangeRate recomputes the rate against the circulating supply plus the
// fee adjusted amount still pending in the open batch, which is burnt but not yet undelegated.
func (s *State) UpdateExchangeRate(supply, requestedWithFee *big.Int) {
	actualSupply := numeric.Sum(supply, requestedWithFee)
	if s.TotalBondAmount.Sign() == 0 || actualSupply.Sign() == 0 {
		s.ExchangeRate = numeric.One()
		return
	}
	s.ExchangeRate = numeric.Ratio(s.TotalBondAmount, actualSupply)
}

// Reconcile lowers the bonded amount to what the staking module actually reports.
// It never raises it and returns whether the ledger changed.
func (s *State) Reconcile(actual, supply, requestedWithFee *big.Int) bool {
	if s.TotalBondAmount.Cmp(actual) <= 0 {
		return false
	}
	s.TotalBondAmount = new(big.Int).Set(actual)
	s.UpdateExchangeRate(supply, requestedWithFee)
	return true
}

type storedState struct {
	TotalBondAmount       *big.Int
	ExchangeRate          *big.Int
	LastIndexModification uint64
	LastUnbondedTime      uint64
	LastProcessedBatch    uint64
	PrevVaultBalance      *big.Int
	ActualUnbondedAmount  *big.Int
}

func (s *State) stored() storedState {
	return storedState{
		TotalBondAmount:       s.TotalBondAmount,
		ExchangeRate:          numeric.RateToBig(s.ExchangeRate),
		LastIndexModification: s.LastIndexModification,
		LastUnbondedTime:      s.LastUnbondedTime,
		LastProcessedBatch:    s.LastProcessedBatch,
		PrevVaultBalance:      s.PrevVaultBalance,
		ActualUnbondedAmount:  s.ActualUnbondedAmount,
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func (s *storedState) state() *State {
	return &State{
		TotalBondAmount:       orZero(s.TotalBondAmount),
		ExchangeRate:          numeric.RateFromBig(s.ExchangeRate),
		LastIndexModification: s.LastIndexModification,
		LastUnbondedTime:      s.LastUnbondedTime,
		LastProcessedBatch:    s.LastProcessedBatch,
		PrevVaultBalance:      orZero(s.PrevVaultBalance),
		ActualUnbondedAmount:  orZero(s.ActualUnbondedAmount),
	}
}
