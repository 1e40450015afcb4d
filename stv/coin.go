// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stv

import (
	"fmt"
	"math/big"
	"strings"
)

// Coin is an amount of a native denomination.
type Coin struct {
	Denom  string   `json:"denom" yaml:"denom"`
	Amount *big.Int `json:"amount" yaml:"amount"`
}

// NewCoin creates a coin from an int64 amount.
func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: big.NewInt(amount)}
}

func (c Coin) String() string {
	if c.Amount == nil {
		return "0" + c.Denom
	}
	return c.Amount.String() + c.Denom
}

// IsPositive reports whether the coin carries a non-zero amount.
func (c Coin) IsPositive() bool {
	return c.Amount != nil && c.Amount.Sign() > 0
}

// Coins is a list of coins as attached to a message.
type Coins []Coin

// AmountOf returns the total amount of the given denom.
func (cs Coins) AmountOf(denom string) *big.Int {
	sum := new(big.Int)
	for _, c := range cs {
		if c.Denom == denom && c.Amount != nil {
			sum.Add(sum, c.Amount)
		}
	}
	return sum
}

func (cs Coins) String() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// Delegation is the staked amount of a delegator on a validator as reported by the staking module.
type Delegation struct {
	Delegator Address `json:"delegator"`
	Validator Address `json:"validator"`
	Amount    Coin    `json:"amount"`
}

func (d Delegation) String() string {
	return fmt.Sprintf("%v->%v:%v", d.Delegator, d.Validator, d.Amount)
}
