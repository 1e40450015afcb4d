// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stvault/lvldb"
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/reverts"
)

const denom = "ustake"

var (
	vault = stv.BytesToAddress([]byte("vault"))
	valA  = stv.BytesToAddress([]byte{0xa})
	valB  = stv.BytesToAddress([]byte{0xb})
	valC  = stv.BytesToAddress([]byte{0xc})
)

func delegation(validator stv.Address, amount int64) stv.Delegation {
	return stv.Delegation{Delegator: vault, Validator: validator, Amount: stv.NewCoin(denom, amount)}
}

func newRegistry(t *testing.T) *Registry {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return NewRegistry(storage.NewContext(vault, state.New(db)))
}

func TestRegistry(t *testing.T) {
	r := newRegistry(t)

	require.NoError(t, r.Add(valA))
	err := r.Add(valA)
	assert.EqualError(t, err, "validator is already whitelisted")

	err = r.Remove(valA)
	assert.EqualError(t, err, "cannot remove the last whitelisted validator")
	assert.True(t, reverts.IsRevertErr(err))

	require.NoError(t, r.Add(valB))
	list, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []stv.Address{valA, valB}, list)

	require.NoError(t, r.Remove(valA))
	ok, _ := r.Contains(valA)
	assert.False(t, ok)

	assert.EqualError(t, r.Remove(valC), "validator is not whitelisted")
	assert.EqualError(t, r.Add(stv.Address{}), "invalid validator address")
}

func TestRegistryBound(t *testing.T) {
	r := newRegistry(t)
	for i := 1; i <= stv.MaxValidators; i++ {
		require.NoError(t, r.Add(stv.BytesToAddress(big.NewInt(int64(i)).Bytes())))
	}
	n, _ := r.Len()
	assert.Equal(t, uint64(stv.MaxValidators), n)
	assert.Error(t, r.Add(stv.BytesToAddress([]byte("one too many"))))
}

func TestLeastDelegated(t *testing.T) {
	tests := []struct {
		name        string
		whitelist   []stv.Address
		delegations []stv.Delegation
		want        stv.Address
	}{
		{"undelegated validator first", []stv.Address{valA, valB}, []stv.Delegation{delegation(valA, 10)}, valB},
		{"smallest amount", []stv.Address{valA, valB, valC}, []stv.Delegation{delegation(valA, 10), delegation(valB, 5), delegation(valC, 7)}, valB},
		{"tie broken by address", []stv.Address{valC, valB}, []stv.Delegation{delegation(valB, 5), delegation(valC, 5)}, valB},
		{"skips non whitelisted", []stv.Address{valA}, []stv.Delegation{delegation(valA, 10), delegation(valB, 1)}, valA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LeastDelegated(tt.whitelist, tt.delegations, denom)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := LeastDelegated(nil, nil, denom)
	assert.Error(t, err)
}

func TestPickForUnbond(t *testing.T) {
	delegations := []stv.Delegation{delegation(valA, 100), delegation(valB, 300), delegation(valC, 200)}

	picked, err := PickForUnbond(delegations, denom, big.NewInt(250))
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, valB, picked[0].Validator)
	assert.Equal(t, "250", picked[0].Amount.String())

	picked, err = PickForUnbond(delegations, denom, big.NewInt(450))
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, valB, picked[0].Validator)
	assert.Equal(t, "300", picked[0].Amount.String())
	assert.Equal(t, valC, picked[1].Validator)
	assert.Equal(t, "150", picked[1].Amount.String())

	_, err = PickForUnbond(delegations, denom, big.NewInt(601))
	assert.Error(t, err)
}

func TestPickForUnbondIsOrderIndependent(t *testing.T) {
	a := []stv.Delegation{delegation(valA, 50), delegation(valB, 50), delegation(valC, 50)}
	b := []stv.Delegation{delegation(valC, 50), delegation(valA, 50), delegation(valB, 50)}

	pa, err := PickForUnbond(a, denom, big.NewInt(70))
	require.NoError(t, err)
	pb, err := PickForUnbond(b, denom, big.NewInt(70))
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestTotalDelegated(t *testing.T) {
	delegations := []stv.Delegation{
		delegation(valA, 100),
		{Delegator: vault, Validator: valB, Amount: stv.NewCoin("other", 50)},
	}
	assert.Equal(t, "100", TotalDelegated(delegations, denom).String())
}
