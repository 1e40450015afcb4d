// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/params"
)

// InstantiateMsg sets up a fresh vault. The sender becomes the owner.
type InstantiateMsg struct {
	Parameters params.Parameters `json:"parameters"`
	Validator  stv.Address       `json:"validator"`

	RewardContract             stv.Address `json:"reward_contract"`
	TokenContract              stv.Address `json:"token_contract"`
	YieldTokenContract         stv.Address `json:"yield_token_contract"`
	PrincipalComponentContract stv.Address `json:"principal_component_contract"`
}

// Bond deposits the attached coin, optionally on a chosen validator.
type Bond struct {
	Validator *stv.Address `json:"validator,omitempty"`
}

type WithdrawUnbonded struct{}

type RegisterValidator struct {
	Validator stv.Address `json:"validator"`
}

type DeregisterValidator struct {
	Validator    stv.Address `json:"validator"`
	RedelegateTo stv.Address `json:"redelegate_to"`
}

type UpdateParams struct {
	params.ParametersUpdate
}

type UpdateConfig struct {
	params.ConfigUpdate
}

type CheckSlashing struct{}

type UpdateGlobalIndex struct{}

type Split struct {
	Amount *big.Int `json:"amount"`
}

type Merge struct {
	Amount *big.Int `json:"amount"`
}

// receiveMsg is the payload carried by a principal token send.
type receiveMsg struct {
	Unbond *struct{} `json:"unbond,omitempty"`
}

// UnbondMsg is the payload a holder attaches when sending principal tokens to the vault.
func UnbondMsg() []byte {
	return []byte(`{"unbond":{}}`)
}
