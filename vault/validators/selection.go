// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"bytes"
	"math/big"

	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/numeric"
)

const treeDegree = 2

// Stake is the amount the vault holds delegated on a validator.
type Stake struct {
	Validator stv.Address `json:"validator"`
	Amount    *big.Int    `json:"amount"`
}

// Less orders stakes by amount, then by validator address.
// Selection must not depend on the order delegations are reported in.
func (s Stake) Less(o Stake) bool {
	if c := s.Amount.Cmp(o.Amount); c != 0 {
		return c < 0
	}
	return bytes.Compare(s.Validator[:], o.Validator[:]) < 0
}

var _ btree.LessFunc[Stake] = Stake.Less

// newStakeTree aggregates delegations of denom per validator, seeding every extra validator with zero.
func newStakeTree(delegations []stv.Delegation, denom string, extra []stv.Address) *btree.BTreeG[Stake] {
	amounts := make(map[stv.Address]*big.Int)
	for _, v := range extra {
		amounts[v] = new(big.Int)
	}
	for _, d := range delegations {
		if d.Amount.Denom != denom || d.Amount.Amount == nil {
			continue
		}
		sum, ok := amounts[d.Validator]
		if !ok {
			sum = new(big.Int)
			amounts[d.Validator] = sum
		}
		sum.Add(sum, d.Amount.Amount)
	}

	tree := btree.NewG(treeDegree, Stake.Less)
	for v, amount := range amounts {
		tree.ReplaceOrInsert(Stake{Validator: v, Amount: amount})
	}
	return tree
}

// TotalDelegated sums the delegations of denom. Stake on validators that left the
// whitelist still backs the supply, so every delegation counts.
func TotalDelegated(delegations []stv.Delegation, denom string) *big.Int {
	total := new(big.Int)
	for _, d := range delegations {
		if d.Amount.Denom == denom && d.Amount.Amount != nil {
			total.Add(total, d.Amount.Amount)
		}
	}
	return total
}

// LeastDelegated picks the whitelisted validator with the smallest delegation.
func LeastDelegated(whitelist []stv.Address, delegations []stv.Delegation, denom string) (stv.Address, error) {
	allowed := make(map[stv.Address]bool, len(whitelist))
	for _, v := range whitelist {
		allowed[v] = true
	}

	var (
		picked stv.Address
		found  bool
	)
	newStakeTree(delegations, denom, whitelist).Ascend(func(s Stake) bool {
		if allowed[s.Validator] {
			picked, found = s.Validator, true
			return false
		}
		return true
	})
	if !found {
		return stv.Address{}, errors.New("no whitelisted validator")
	}
	return picked, nil
}

// PickForUnbond splits claim across delegations, draining the largest stakes first.
func PickForUnbond(delegations []stv.Delegation, denom string, claim *big.Int) ([]Stake, error) {
	remaining := new(big.Int).Set(claim)
	var picked []Stake

	newStakeTree(delegations, denom, nil).Descend(func(s Stake) bool {
		if remaining.Sign() == 0 {
			return false
		}
		if s.Amount.Sign() == 0 {
			return true
		}
		take := numeric.Min(s.Amount, remaining)
		remaining.Sub(remaining, take)
		picked = append(picked, Stake{Validator: s.Validator, Amount: take})
		return true
	})

	if remaining.Sign() > 0 {
		return nil, errors.Errorf("undelegation of %v exceeds delegated stake by %v", claim, remaining)
	}
	return picked, nil
}
