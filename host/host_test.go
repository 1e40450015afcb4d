// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stvault/lvldb"
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/numeric"
)

const denom = "ustake"

var (
	alice     = stv.BytesToAddress([]byte("alice"))
	bob       = stv.BytesToAddress([]byte("bob"))
	validator = stv.BytesToAddress([]byte("validator"))
	tokenAddr = stv.BytesToAddress([]byte("token"))
	contract  = stv.BytesToAddress([]byte("contract"))
)

func newTestHost(t *testing.T) (*state.State, *Host) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)
	h := New(st, Config{Denom: denom, UnbondingPeriod: 100})
	require.NoError(t, h.Staking.CreateValidator(validator))
	require.NoError(t, h.Bank.Mint(alice, stv.NewCoin(denom, 1000)))
	return st, h
}

func balance(t *testing.T, h *Host, addr stv.Address) string {
	bal, err := h.Bank.Balance(addr, denom)
	require.NoError(t, err)
	return bal.String()
}

func TestBank(t *testing.T) {
	_, h := newTestHost(t)

	require.NoError(t, h.Bank.Send(alice, bob, stv.Coins{stv.NewCoin(denom, 400)}))
	assert.Equal(t, "600", balance(t, h, alice))
	assert.Equal(t, "400", balance(t, h, bob))

	err := h.Bank.Send(bob, alice, stv.Coins{stv.NewCoin(denom, 401)})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	err = h.Bank.Send(alice, bob, stv.Coins{{Denom: denom, Amount: big.NewInt(-1)}})
	assert.Error(t, err)

	require.NoError(t, h.Bank.Burn(bob, stv.NewCoin(denom, 400)))
	assert.Equal(t, "0", balance(t, h, bob))
}

func TestBankRevert(t *testing.T) {
	st, h := newTestHost(t)

	cp := st.NewCheckpoint()
	require.NoError(t, h.Bank.Send(alice, bob, stv.Coins{stv.NewCoin(denom, 400)}))
	st.RevertTo(cp)

	assert.Equal(t, "1000", balance(t, h, alice))
	assert.Equal(t, "0", balance(t, h, bob))
}

func TestStakingDelegation(t *testing.T) {
	_, h := newTestHost(t)
	other := stv.BytesToAddress([]byte("other"))
	require.NoError(t, h.Staking.CreateValidator(other))

	err := h.Staking.CreateValidator(validator)
	assert.Error(t, err)

	err = h.Staking.Delegate(alice, stv.BytesToAddress([]byte("nobody")), stv.NewCoin(denom, 10))
	assert.ErrorContains(t, err, "does not exist")

	err = h.Staking.Delegate(alice, validator, stv.NewCoin("uatom", 10))
	assert.EqualError(t, err, "invalid staking denom uatom")

	require.NoError(t, h.Staking.Delegate(alice, validator, stv.NewCoin(denom, 600)))
	assert.Equal(t, "400", balance(t, h, alice))
	assert.Equal(t, "600", balance(t, h, StakingAddress))

	require.NoError(t, h.Staking.Redelegate(alice, validator, other, stv.NewCoin(denom, 200)))
	delegations, err := h.Staking.AllDelegations(alice)
	require.NoError(t, err)
	require.Len(t, delegations, 2)
	assert.Equal(t, "400ustake", delegations[0].Amount.String())
	assert.Equal(t, "200ustake", delegations[1].Amount.String())

	err = h.Staking.Redelegate(alice, validator, other, stv.NewCoin(denom, 401))
	assert.ErrorContains(t, err, "cannot remove")

	require.NoError(t, h.Staking.Redelegate(alice, other, validator, stv.NewCoin(denom, 200)))
	d, err := h.Staking.Delegation(alice, other)
	require.NoError(t, err)
	assert.Nil(t, d)
	delegations, err = h.Staking.AllDelegations(alice)
	require.NoError(t, err)
	assert.Len(t, delegations, 1)
}

func TestStakingUnbonding(t *testing.T) {
	_, h := newTestHost(t)
	require.NoError(t, h.Staking.Delegate(alice, validator, stv.NewCoin(denom, 1000)))

	require.NoError(t, h.Staking.Undelegate(10, alice, validator, stv.NewCoin(denom, 300)))
	require.NoError(t, h.Staking.Undelegate(50, alice, validator, stv.NewCoin(denom, 200)))

	queue, err := h.Staking.Unbondings()
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, uint64(110), queue[0].Completion)

	n, err := h.Staking.Mature(109)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = h.Staking.Mature(110)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "300", balance(t, h, alice))

	n, err = h.Staking.Mature(1000)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "500", balance(t, h, alice))

	queue, err = h.Staking.Unbondings()
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestStakingSlash(t *testing.T) {
	_, h := newTestHost(t)
	require.NoError(t, h.Staking.Delegate(alice, validator, stv.NewCoin(denom, 1000)))
	require.NoError(t, h.Staking.Undelegate(0, alice, validator, stv.NewCoin(denom, 400)))

	_, err := h.Staking.Slash(validator, numeric.MustRate("1.5"))
	assert.Error(t, err)

	burnt, err := h.Staking.Slash(validator, numeric.MustRate("0.1"))
	require.NoError(t, err)
	assert.Equal(t, "100", burnt.String())

	d, err := h.Staking.Delegation(alice, validator)
	require.NoError(t, err)
	assert.Equal(t, "540", d.Amount.Amount.String())

	queue, err := h.Staking.Unbondings()
	require.NoError(t, err)
	assert.Equal(t, "360", queue[0].Amount.String())
	assert.Equal(t, "900", balance(t, h, StakingAddress))

	_, err = h.Staking.Mature(100)
	require.NoError(t, err)
	assert.Equal(t, "360", balance(t, h, alice))
}

func TestStakingRewards(t *testing.T) {
	_, h := newTestHost(t)

	require.NoError(t, h.Staking.AccrueRewards(alice, validator, big.NewInt(30)))
	require.NoError(t, h.Staking.AccrueRewards(alice, validator, big.NewInt(12)))

	paid, err := h.Staking.WithdrawRewards(alice, validator, contract)
	require.NoError(t, err)
	assert.Equal(t, "42", paid.String())
	assert.Equal(t, "42", balance(t, h, contract))

	paid, err = h.Staking.WithdrawRewards(alice, validator, contract)
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Sign())
}

func TestTokens(t *testing.T) {
	_, h := newTestHost(t)
	tk := h.Tokens

	require.NoError(t, tk.Create(tokenAddr, TokenInfo{Name: "Test", Symbol: "TST", Minter: alice}))
	assert.Error(t, tk.Create(tokenAddr, TokenInfo{}))

	err := tk.Mint(bob, tokenAddr, bob, big.NewInt(1))
	assert.EqualError(t, err, "sender is not the minter")

	require.NoError(t, tk.Mint(alice, tokenAddr, bob, big.NewInt(100)))
	supply, err := tk.TotalSupply(tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, "100", supply.String())

	err = tk.Transfer(bob, tokenAddr, alice, big.NewInt(0))
	assert.EqualError(t, err, "invalid zero amount")
	err = tk.Transfer(bob, tokenAddr, alice, big.NewInt(101))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	hook, err := tk.Send(bob, tokenAddr, contract, big.NewInt(40), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, contract, hook.Contract)
	bal, err := tk.Balance(tokenAddr, contract)
	require.NoError(t, err)
	assert.Equal(t, "40", bal.String())

	err = tk.BurnFrom(alice, tokenAddr, bob, big.NewInt(10))
	assert.ErrorContains(t, err, "allowance")
	require.NoError(t, tk.IncreaseAllowance(bob, tokenAddr, alice, big.NewInt(10)))
	require.NoError(t, tk.BurnFrom(alice, tokenAddr, bob, big.NewInt(10)))

	allowance, err := tk.Allowance(tokenAddr, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, allowance.Sign())
	bal, err = tk.Balance(tokenAddr, bob)
	require.NoError(t, err)
	assert.Equal(t, "50", bal.String())

	require.NoError(t, tk.Burn(contract, tokenAddr, big.NewInt(40)))
	supply, err = tk.TotalSupply(tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, "50", supply.String())

	require.NoError(t, tk.SetMinter(alice, tokenAddr, bob))
	info, err := tk.Info(tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, bob, info.Minter)

	_, err = tk.TotalSupply(stv.BytesToAddress([]byte("missing")))
	assert.ErrorContains(t, err, "does not exist")
}

func TestRewardsIndex(t *testing.T) {
	_, h := newTestHost(t)
	for range 3 {
		require.NoError(t, h.Rewards.UpdateIndex(contract))
	}
	n, err := h.Rewards.IndexUpdates(contract)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}
