// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/numeric"
	"github.com/vechain/stvault/vault/reverts"
)

// Parameters are the owner tunable settings of the vault.
type Parameters struct {
	EpochPeriod         uint64       `json:"epoch_period"`
	UnbondingPeriod     uint64       `json:"unbonding_period"`
	PegRecoveryFee      numeric.Rate `json:"peg_recovery_fee"`
	ErThreshold         numeric.Rate `json:"er_threshold"`
	UnderlyingCoinDenom string       `json:"underlying_coin_denom"`
}

// Validate checks the rate bounds and the denom.
func (p *Parameters) Validate() error {
	if err := validateRate("peg_recovery_fee", p.PegRecoveryFee); err != nil {
		return err
	}
	if err := validateRate("er_threshold", p.ErThreshold); err != nil {
		return err
	}
	if p.UnderlyingCoinDenom == "" {
		return reverts.New("underlying coin denom is required")
	}
	return nil
}

func validateRate(name string, r numeric.Rate) error {
	if r.IsNil() || r.IsNegative() || r.GT(numeric.One()) {
		return reverts.Newf("%s must be between 0 and 1", name)
	}
	return nil
}

// ParametersUpdate carries a partial update, nil fields are left unchanged.
type ParametersUpdate struct {
	EpochPeriod     *uint64       `json:"epoch_period,omitempty"`
	UnbondingPeriod *uint64       `json:"unbonding_period,omitempty"`
	PegRecoveryFee  *numeric.Rate `json:"peg_recovery_fee,omitempty"`
	ErThreshold     *numeric.Rate `json:"er_threshold,omitempty"`
}

// Apply returns a copy of p with the update applied.
func (p Parameters) Apply(u ParametersUpdate) Parameters {
	if u.EpochPeriod != nil {
		p.EpochPeriod = *u.EpochPeriod
	}
	if u.UnbondingPeriod != nil {
		p.UnbondingPeriod = *u.UnbondingPeriod
	}
	if u.PegRecoveryFee != nil {
		p.PegRecoveryFee = *u.PegRecoveryFee
	}
	if u.ErThreshold != nil {
		p.ErThreshold = *u.ErThreshold
	}
	return p
}

// Config holds the owner and the addresses of the collaborating contracts.
// A zero address means not registered yet.
type Config struct {
	Owner                      stv.Address `json:"owner"`
	RewardContract             stv.Address `json:"reward_contract"`
	TokenContract              stv.Address `json:"token_contract"`
	YieldTokenContract         stv.Address `json:"yield_token_contract"`
	PrincipalComponentContract stv.Address `json:"principal_component_contract"`
}

// ConfigUpdate carries a partial update, nil fields are left unchanged.
type ConfigUpdate struct {
	Owner                      *stv.Address `json:"owner,omitempty"`
	RewardContract             *stv.Address `json:"reward_contract,omitempty"`
	TokenContract              *stv.Address `json:"token_contract,omitempty"`
	YieldTokenContract         *stv.Address `json:"yield_token_contract,omitempty"`
	PrincipalComponentContract *stv.Address `json:"principal_component_contract,omitempty"`
}

// Apply returns a copy of c with the update applied.
// Token contracts can be registered once and never replaced.
func (c Config) Apply(u ConfigUpdate) (Config, error) {
	if u.Owner != nil {
		if u.Owner.IsZero() {
			return c, reverts.New("owner cannot be the zero address")
		}
		c.Owner = *u.Owner
	}
	if u.RewardContract != nil {
		c.RewardContract = *u.RewardContract
	}
	for _, f := range []struct {
		name   string
		update *stv.Address
		field  *stv.Address
	}{
		{"token contract", u.TokenContract, &c.TokenContract},
		{"yield token contract", u.YieldTokenContract, &c.YieldTokenContract},
		{"principal component contract", u.PrincipalComponentContract, &c.PrincipalComponentContract},
	} {
		if f.update == nil {
			continue
		}
		if !f.field.IsZero() && *f.field != *f.update {
			return c, reverts.Newf("%s is already registered", f.name)
		}
		*f.field = *f.update
	}
	return c, nil
}

type storedParameters struct {
	EpochPeriod     uint64
	UnbondingPeriod uint64
	PegRecoveryFee  *big.Int
	ErThreshold     *big.Int
	Denom           string
}

func (p *Parameters) stored() storedParameters {
	return storedParameters{
		EpochPeriod:     p.EpochPeriod,
		UnbondingPeriod: p.UnbondingPeriod,
		PegRecoveryFee:  numeric.RateToBig(p.PegRecoveryFee),
		ErThreshold:     numeric.RateToBig(p.ErThreshold),
		Denom:           p.UnderlyingCoinDenom,
	}
}

func (s *storedParameters) parameters() *Parameters {
	return &Parameters{
		EpochPeriod:         s.EpochPeriod,
		UnbondingPeriod:     s.UnbondingPeriod,
		PegRecoveryFee:      numeric.RateFromBig(s.PegRecoveryFee),
		ErThreshold:         numeric.RateFromBig(s.ErThreshold),
		UnderlyingCoinDenom: s.Denom,
	}
}
