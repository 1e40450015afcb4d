// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stvault/lvldb"
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/numeric"
	"github.com/vechain/stvault/vault/reverts"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return New(storage.NewContext(stv.BytesToAddress([]byte("vault")), state.New(db)))
}

func defaultParameters() *Parameters {
	return &Parameters{
		EpochPeriod:         stv.DefaultEpochPeriod,
		UnbondingPeriod:     stv.DefaultUnbondingPeriod,
		PegRecoveryFee:      numeric.MustRate("0.001"),
		ErThreshold:         numeric.One(),
		UnderlyingCoinDenom: stv.DefaultDenom,
	}
}

func TestParametersRoundTrip(t *testing.T) {
	svc := newService(t)
	p := defaultParameters()
	require.NoError(t, svc.SetParameters(p))

	got, err := svc.Parameters()
	require.NoError(t, err)
	assert.Equal(t, p.EpochPeriod, got.EpochPeriod)
	assert.Equal(t, p.UnbondingPeriod, got.UnbondingPeriod)
	assert.True(t, p.PegRecoveryFee.Equal(got.PegRecoveryFee))
	assert.True(t, p.ErThreshold.Equal(got.ErThreshold))
	assert.Equal(t, p.UnderlyingCoinDenom, got.UnderlyingCoinDenom)
}

func TestParametersValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Parameters)
		errMsg string
	}{
		{"fee above one", func(p *Parameters) { p.PegRecoveryFee = numeric.MustRate("1.01") }, "peg_recovery_fee must be between 0 and 1"},
		{"negative threshold", func(p *Parameters) { p.ErThreshold = numeric.MustRate("-0.1") }, "er_threshold must be between 0 and 1"},
		{"no denom", func(p *Parameters) { p.UnderlyingCoinDenom = "" }, "underlying coin denom is required"},
	}
	svc := newService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParameters()
			tt.mutate(p)
			err := svc.SetParameters(p)
			assert.EqualError(t, err, tt.errMsg)
			assert.True(t, reverts.IsRevertErr(err))
		})
	}
}

func TestParametersApply(t *testing.T) {
	p := defaultParameters()
	epoch := uint64(10)
	fee := numeric.MustRate("0.5")
	updated := p.Apply(ParametersUpdate{EpochPeriod: &epoch, PegRecoveryFee: &fee})

	assert.Equal(t, uint64(10), updated.EpochPeriod)
	assert.Equal(t, p.UnbondingPeriod, updated.UnbondingPeriod)
	assert.True(t, updated.PegRecoveryFee.Equal(fee))
	assert.True(t, updated.ErThreshold.Equal(p.ErThreshold))
	// original untouched
	assert.Equal(t, stv.DefaultEpochPeriod, p.EpochPeriod)
}

func TestConfigApply(t *testing.T) {
	owner := stv.BytesToAddress([]byte("owner"))
	token := stv.BytesToAddress([]byte("token"))
	other := stv.BytesToAddress([]byte("other"))

	c := Config{Owner: owner}
	c, err := c.Apply(ConfigUpdate{TokenContract: &token})
	require.NoError(t, err)
	assert.Equal(t, token, c.TokenContract)
	assert.Equal(t, owner, c.Owner)

	// same address is accepted
	_, err = c.Apply(ConfigUpdate{TokenContract: &token})
	assert.NoError(t, err)

	_, err = c.Apply(ConfigUpdate{TokenContract: &other})
	assert.EqualError(t, err, "token contract is already registered")

	zero := stv.Address{}
	_, err = c.Apply(ConfigUpdate{Owner: &zero})
	assert.Error(t, err)

	c, err = c.Apply(ConfigUpdate{Owner: &other, RewardContract: &other})
	require.NoError(t, err)
	assert.Equal(t, other, c.Owner)
	assert.Equal(t, other, c.RewardContract)
}

func TestConfigStorage(t *testing.T) {
	svc := newService(t)
	ok, err := svc.Initialized()
	require.NoError(t, err)
	assert.False(t, ok)

	c := &Config{Owner: stv.BytesToAddress([]byte("owner"))}
	require.NoError(t, svc.SetConfig(c))
	got, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, c, got)

	ok, _ = svc.Initialized()
	assert.True(t, ok)
}
