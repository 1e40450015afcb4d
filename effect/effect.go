// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package effect describes the instructions a contract hands back to the dispatcher
// instead of calling other modules directly.
package effect

import (
	"math/big"

	"github.com/vechain/stvault/stv"
)

// Effect is a single instruction executed on behalf of its emitter.
type Effect interface {
	Name() string
}

// Delegate stakes the emitter's coins on a validator.
type Delegate struct {
	Validator stv.Address `json:"validator"`
	Amount    stv.Coin    `json:"amount"`
}

// Undelegate starts unbonding the emitter's stake from a validator.
type Undelegate struct {
	Validator stv.Address `json:"validator"`
	Amount    stv.Coin    `json:"amount"`
}

// Redelegate moves the emitter's stake between validators without unbonding.
type Redelegate struct {
	Src    stv.Address `json:"src"`
	Dst    stv.Address `json:"dst"`
	Amount stv.Coin    `json:"amount"`
}

// WithdrawRewards claims the emitter's accrued rewards on a validator.
type WithdrawRewards struct {
	Validator stv.Address `json:"validator"`
	Recipient stv.Address `json:"recipient"`
}

// BankSend transfers native coins from the emitter.
type BankSend struct {
	To     stv.Address `json:"to"`
	Amount stv.Coins   `json:"amount"`
}

// Mint creates tokens, the emitter must be the token's minter.
type Mint struct {
	Token     stv.Address `json:"token"`
	Recipient stv.Address `json:"recipient"`
	Amount    *big.Int    `json:"amount"`
}

// Burn destroys tokens held by the emitter.
type Burn struct {
	Token  stv.Address `json:"token"`
	Amount *big.Int    `json:"amount"`
}

// BurnFrom destroys tokens of owner, spending the emitter's allowance.
type BurnFrom struct {
	Token  stv.Address `json:"token"`
	Owner  stv.Address `json:"owner"`
	Amount *big.Int    `json:"amount"`
}

// TokenSend transfers tokens to a contract and invokes its receive hook.
type TokenSend struct {
	Token    stv.Address `json:"token"`
	Contract stv.Address `json:"contract"`
	Amount   *big.Int    `json:"amount"`
	Msg      []byte      `json:"msg"`
}

// IncreaseAllowance lets spender use more of the emitter's tokens.
type IncreaseAllowance struct {
	Token   stv.Address `json:"token"`
	Spender stv.Address `json:"spender"`
	Amount  *big.Int    `json:"amount"`
}

// UpdateRewardIndex asks the reward contract to account newly received rewards.
type UpdateRewardIndex struct {
	Contract stv.Address `json:"contract"`
}

// Execute invokes a contract with msg, transferring funds to it first.
type Execute struct {
	Contract stv.Address `json:"contract"`
	Msg      any         `json:"msg"`
	Funds    stv.Coins   `json:"funds,omitempty"`
}

func (Delegate) Name() string          { return "delegate" }
func (Undelegate) Name() string        { return "undelegate" }
func (Redelegate) Name() string        { return "redelegate" }
func (WithdrawRewards) Name() string   { return "withdraw_rewards" }
func (BankSend) Name() string          { return "bank_send" }
func (Mint) Name() string              { return "mint" }
func (Burn) Name() string              { return "burn" }
func (BurnFrom) Name() string          { return "burn_from" }
func (TokenSend) Name() string         { return "token_send" }
func (IncreaseAllowance) Name() string { return "increase_allowance" }
func (UpdateRewardIndex) Name() string { return "update_reward_index" }
func (Execute) Name() string           { return "execute" }

// Receive is the message a token delivers to the target contract of a TokenSend.
type Receive struct {
	Sender stv.Address `json:"sender"`
	Amount *big.Int    `json:"amount"`
	Msg    []byte      `json:"msg"`
}
