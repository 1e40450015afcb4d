// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/numeric"
	"github.com/vechain/stvault/vault/params"
)

// Well known addresses of the default network.
var (
	DevOwner          = stv.BytesToAddress([]byte("owner"))
	DevVault          = stv.BytesToAddress([]byte("vault"))
	DevToken          = stv.BytesToAddress([]byte("principal-token"))
	DevYieldToken     = stv.BytesToAddress([]byte("yield-token"))
	DevComponentToken = stv.BytesToAddress([]byte("component-token"))
	DevRewards        = stv.BytesToAddress([]byte("reward-contract"))
	DevValidators     = []stv.Address{
		stv.BytesToAddress([]byte("validator-1")),
		stv.BytesToAddress([]byte("validator-2")),
		stv.BytesToAddress([]byte("validator-3")),
	}
)

// Genesis is the initial state of a network: staking validators, native allocations,
// token contracts and the vault instantiation.
type Genesis struct {
	LaunchTime uint64        `yaml:"launch_time"`
	Denom      string        `yaml:"denom"`
	Validators []stv.Address `yaml:"validators"`
	Accounts   []Account     `yaml:"accounts"`
	Vault      Vault         `yaml:"vault"`
}

// Account is a native coin allocation.
type Account struct {
	Address stv.Address `yaml:"address"`
	Balance string      `yaml:"balance"`
}

// Vault configures the vault and the contracts around it.
type Vault struct {
	Address                    stv.Address `yaml:"address"`
	Owner                      stv.Address `yaml:"owner"`
	Validator                  stv.Address `yaml:"validator"`
	EpochPeriod                uint64      `yaml:"epoch_period"`
	UnbondingPeriod            uint64      `yaml:"unbonding_period"`
	PegRecoveryFee             string      `yaml:"peg_recovery_fee"`
	ErThreshold                string      `yaml:"er_threshold"`
	TokenContract              stv.Address `yaml:"token_contract"`
	YieldTokenContract         stv.Address `yaml:"yield_token_contract"`
	PrincipalComponentContract stv.Address `yaml:"principal_component_contract"`
	RewardContract             stv.Address `yaml:"reward_contract"`
}

// Default returns the genesis of the development network.
func Default() *Genesis {
	return &Genesis{
		LaunchTime: 1_700_000_000,
		Denom:      stv.DefaultDenom,
		Validators: DevValidators,
		Accounts: []Account{
			{Address: DevOwner, Balance: "1000000000000"},
		},
		Vault: Vault{
			Address:                    DevVault,
			Owner:                      DevOwner,
			Validator:                  DevValidators[0],
			EpochPeriod:                stv.DefaultEpochPeriod,
			UnbondingPeriod:            stv.DefaultUnbondingPeriod,
			PegRecoveryFee:             "0.001",
			ErThreshold:                "1.0",
			TokenContract:              DevToken,
			YieldTokenContract:         DevYieldToken,
			PrincipalComponentContract: DevComponentToken,
			RewardContract:             DevRewards,
		},
	}
}

// Load reads a YAML genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML genesis document.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Encode returns the YAML form of the genesis.
func (g *Genesis) Encode() ([]byte, error) {
	return yaml.Marshal(g)
}

// Validate checks the document is self consistent.
func (g *Genesis) Validate() error {
	if g.Denom == "" {
		return errors.New("denom must be set")
	}
	if len(g.Validators) == 0 {
		return errors.New("at least one validator is required")
	}
	for _, a := range g.Accounts {
		if _, err := a.Amount(); err != nil {
			return err
		}
	}
	if g.Vault.Address.IsZero() || g.Vault.Owner.IsZero() {
		return errors.New("vault address and owner must be set")
	}
	if g.Vault.TokenContract.IsZero() {
		return errors.New("vault token contract must be set")
	}
	p, err := g.Parameters()
	if err != nil {
		return err
	}
	return p.Validate()
}

// Amount parses the allocated balance.
func (a Account) Amount() (*big.Int, error) {
	amount, ok := new(big.Int).SetString(a.Balance, 10)
	if !ok || amount.Sign() < 1 {
		return nil, fmt.Errorf("%v: balance must be a positive integer", a.Address)
	}
	return amount, nil
}

// Parameters returns the vault parameters.
func (g *Genesis) Parameters() (*params.Parameters, error) {
	fee, err := numeric.ParseRate(g.Vault.PegRecoveryFee)
	if err != nil {
		return nil, errors.Wrap(err, "peg_recovery_fee")
	}
	threshold, err := numeric.ParseRate(g.Vault.ErThreshold)
	if err != nil {
		return nil, errors.Wrap(err, "er_threshold")
	}
	return &params.Parameters{
		EpochPeriod:         g.Vault.EpochPeriod,
		UnbondingPeriod:     g.Vault.UnbondingPeriod,
		PegRecoveryFee:      fee,
		ErThreshold:         threshold,
		UnderlyingCoinDenom: g.Denom,
	}, nil
}
