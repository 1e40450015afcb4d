// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pegfee computes the peg recovery fee withheld from bonds and unbonds
// while the exchange rate sits below its threshold.
package pegfee

import (
	"math/big"

	"github.com/vechain/stvault/vault/numeric"
)

// Calculator is a snapshot of the rate inputs the fee depends on.
type Calculator struct {
	ExchangeRate   numeric.Rate
	Threshold      numeric.Rate
	PegRecoveryFee numeric.Rate
}

// Active reports whether the peg has drifted below the threshold.
func (c Calculator) Active() bool {
	return c.ExchangeRate.LT(c.Threshold)
}

// fee returns min(amount*peg_recovery_fee, required), or zero while inactive.
func (c Calculator) fee(amount, required *big.Int) *big.Int {
	if !c.Active() {
		return new(big.Int)
	}
	return numeric.Min(numeric.MulRate(amount, c.PegRecoveryFee), required)
}

// Ledger is the backing snapshot the fee is sized against.
type Ledger struct {
	TotalBond        *big.Int // underlying stake believed delegated
	Supply           *big.Int // derivative tokens in circulation
	RequestedWithFee *big.Int // pending unbonds of the open batch
}

// BondFee returns the fee withheld from mint, the amount about to be minted for a payment.
// It never exceeds the shortfall that would remain after the bond.
func (c Calculator) BondFee(mint, payment *big.Int, l Ledger) *big.Int {
	required := numeric.SubSat(
		numeric.Sum(l.Supply, mint, l.RequestedWithFee),
		numeric.Sum(l.TotalBond, payment),
	)
	return c.fee(mint, required)
}

// UnbondFee returns the fee withheld from an unbond request of amount.
// It never exceeds the current shortfall.
func (c Calculator) UnbondFee(amount *big.Int, l Ledger) *big.Int {
	required := numeric.SubSat(
		numeric.Sum(l.Supply, l.RequestedWithFee),
		l.TotalBond,
	)
	return c.fee(amount, required)
}
