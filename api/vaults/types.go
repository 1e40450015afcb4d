// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaults

import (
	"math/big"

	"github.com/vechain/stvault/dispatch"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/params"
)

// Caller identifies who sends a command. The node trusts it as given.
type Caller struct {
	Sender stv.Address `json:"sender"`
}

type BondRequest struct {
	Caller
	Amount    *big.Int     `json:"amount"`
	Validator *stv.Address `json:"validator,omitempty"`
}

type UnbondRequest struct {
	Caller
	Amount *big.Int `json:"amount"`
}

type RegisterValidatorRequest struct {
	Caller
	Validator stv.Address `json:"validator"`
}

type DeregisterValidatorRequest struct {
	Caller
	RedelegateTo stv.Address `json:"redelegate_to"`
}

type UpdateParamsRequest struct {
	Caller
	params.ParametersUpdate
}

type UpdateConfigRequest struct {
	Caller
	params.ConfigUpdate
}

type AmountRequest struct {
	Caller
	Amount *big.Int `json:"amount"`
}

// Effect is one executed message of an invocation.
type Effect struct {
	Sender stv.Address `json:"sender"`
	Type   string      `json:"type"`
	Effect any         `json:"effect"`
}

// Receipt lists the effects an applied command executed, in order.
type Receipt struct {
	Block   stv.BlockContext `json:"block"`
	Effects []Effect         `json:"effects"`
}

func convertReceipt(blk stv.BlockContext, r *dispatch.Receipt) *Receipt {
	res := &Receipt{Block: blk, Effects: make([]Effect, 0, len(r.Messages))}
	for _, m := range r.Messages {
		res.Effects = append(res.Effects, Effect{
			Sender: m.Sender,
			Type:   m.Effect.Name(),
			Effect: m.Effect,
		})
	}
	return res
}

// Withdrawable is the estimated payout of an address.
type Withdrawable struct {
	Address stv.Address `json:"address"`
	Amount  *big.Int    `json:"amount"`
}
