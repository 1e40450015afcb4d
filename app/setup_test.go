// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package app

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stvault/dispatch"
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/genesis"
	"github.com/vechain/stvault/lvldb"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault"
	"github.com/vechain/stvault/vault/ledger"
	"github.com/vechain/stvault/vault/numeric"
)

const (
	launchTime      = 1000
	epochPeriod     = 100
	unbondingPeriod = 1000
)

var (
	alice = stv.BytesToAddress([]byte("alice"))
	bob   = stv.BytesToAddress([]byte("bob"))
	owner = genesis.DevOwner

	v1 = genesis.DevValidators[0]
	v2 = genesis.DevValidators[1]
)

func testGenesis() *genesis.Genesis {
	gen := genesis.Default()
	gen.LaunchTime = launchTime
	gen.Accounts = []genesis.Account{
		{Address: alice, Balance: "10000000"},
		{Address: bob, Balance: "10000000"},
	}
	gen.Vault.EpochPeriod = epochPeriod
	gen.Vault.UnbondingPeriod = unbondingPeriod
	return gen
}

type NetTest struct {
	*App
	t       *testing.T
	now     uint64
	receipt *dispatch.Receipt
}

func newNetTest(t *testing.T) *NetTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	a, err := New(db, testGenesis())
	require.NoError(t, err)
	return &NetTest{App: a, t: t, now: launchTime}
}

func coins(amount int64) stv.Coins {
	return stv.Coins{stv.NewCoin(stv.DefaultDenom, amount)}
}

func (nt *NetTest) blk() stv.BlockContext {
	return stv.BlockContext{Number: nt.now - launchTime, Time: nt.now}
}

// At moves the clock to time.
func (nt *NetTest) At(time uint64) *NetTest {
	nt.now = time
	return nt
}

func (nt *NetTest) invoke(sender stv.Address, e effect.Effect) error {
	receipt, err := nt.Invoke(nt.blk(), sender, e)
	nt.receipt = receipt
	return err
}

func (nt *NetTest) exec(sender stv.Address, msg any, funds stv.Coins) error {
	return nt.invoke(sender, effect.Execute{Contract: genesis.DevVault, Msg: msg, Funds: funds})
}

func (nt *NetTest) unbond(sender stv.Address, amount int64) error {
	return nt.invoke(sender, effect.TokenSend{
		Token:    genesis.DevToken,
		Contract: genesis.DevVault,
		Amount:   big.NewInt(amount),
		Msg:      vault.UnbondMsg(),
	})
}

func (nt *NetTest) withdraw(sender stv.Address) error {
	return nt.exec(sender, vault.WithdrawUnbonded{}, nil)
}

func (nt *NetTest) Bond(sender stv.Address, amount int64) *NetTest {
	require.NoError(nt.t, nt.exec(sender, vault.Bond{}, coins(amount)), "bond failed")
	return nt
}

func (nt *NetTest) Unbond(sender stv.Address, amount int64) *NetTest {
	require.NoError(nt.t, nt.unbond(sender, amount), "unbond failed")
	return nt
}

func (nt *NetTest) Withdraw(sender stv.Address) *NetTest {
	require.NoError(nt.t, nt.withdraw(sender), "withdraw failed")
	return nt
}

func (nt *NetTest) Slash(validator stv.Address, fraction string) *NetTest {
	_, err := nt.Host().Staking.Slash(validator, numeric.MustRate(fraction))
	require.NoError(nt.t, err, "slash failed")
	return nt
}

func (nt *NetTest) ledger() *ledger.State {
	st, err := nt.Vault().State()
	require.NoError(nt.t, err)
	return st
}

func (nt *NetTest) AssertBonded(expected int64) *NetTest {
	assert.Equal(nt.t, big.NewInt(expected).String(), nt.ledger().TotalBondAmount.String(), "total bond amount mismatch")
	return nt
}

func (nt *NetTest) AssertRate(expected string) *NetTest {
	assert.Equal(nt.t, numeric.MustRate(expected).String(), nt.ledger().ExchangeRate.String(), "exchange rate mismatch")
	return nt
}

func (nt *NetTest) AssertRequested(batchID uint64, expected int64) *NetTest {
	cur, err := nt.Vault().CurrentBatch()
	require.NoError(nt.t, err)
	assert.Equal(nt.t, batchID, cur.ID, "batch id mismatch")
	assert.Equal(nt.t, big.NewInt(expected).String(), cur.RequestedWithFee.String(), "requested with fee mismatch")
	return nt
}

func (nt *NetTest) AssertTokens(token, holder stv.Address, expected int64) *NetTest {
	bal, err := nt.Host().Tokens.Balance(token, holder)
	require.NoError(nt.t, err)
	assert.Equal(nt.t, big.NewInt(expected).String(), bal.String(), "token balance mismatch")
	return nt
}

func (nt *NetTest) AssertCoins(holder stv.Address, expected int64) *NetTest {
	bal, err := nt.Host().Bank.Balance(holder, stv.DefaultDenom)
	require.NoError(nt.t, err)
	assert.Equal(nt.t, big.NewInt(expected).String(), bal.String(), "bank balance mismatch")
	return nt
}

func (nt *NetTest) AssertDelegated(validator stv.Address, expected int64) *NetTest {
	d, err := nt.Host().Staking.Delegation(genesis.DevVault, validator)
	require.NoError(nt.t, err)
	if expected == 0 {
		assert.Nil(nt.t, d, "expected no delegation")
		return nt
	}
	require.NotNil(nt.t, d, "expected a delegation")
	assert.Equal(nt.t, big.NewInt(expected).String(), d.Amount.Amount.String(), "delegation mismatch")
	return nt
}

func (nt *NetTest) AssertEffects(names ...string) *NetTest {
	require.NotNil(nt.t, nt.receipt)
	got := make([]string, 0, len(nt.receipt.Messages))
	for _, m := range nt.receipt.Messages {
		got = append(got, m.Effect.Name())
	}
	assert.Equal(nt.t, names, got, "executed effects mismatch")
	return nt
}
