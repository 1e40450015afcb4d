// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package app assembles the vault, the host modules and the dispatcher over one store.
package app

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stvault/dispatch"
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/genesis"
	"github.com/vechain/stvault/host"
	"github.com/vechain/stvault/kv"
	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault"
)

var logger = log.WithContext("pkg", "app")

var (
	stateBucket = kv.Bucket("s")
	metaBucket  = kv.Bucket("m")
	genesisKey  = []byte("genesis")
	headKey     = []byte("head")
)

// App is a running vault network.
type App struct {
	db         kv.Store
	state      *state.State
	host       *host.Host
	vault      *vault.Vault
	dispatcher *dispatch.Dispatcher
	genesis    *genesis.Genesis
	head       stv.BlockContext
}

// New opens the network stored in db, initializing it from gen when db is empty.
func New(db kv.Store, gen *genesis.Genesis) (*App, error) {
	st := state.New(stateBucket.NewGetter(db))
	h := host.New(st, host.Config{Denom: gen.Denom, UnbondingPeriod: gen.Vault.UnbondingPeriod})
	v := vault.New(gen.Vault.Address, st, vault.Querier{
		Staking: h.Staking,
		Bank:    h.Bank,
		Token:   h.Tokens,
	})

	a := &App{
		db:      db,
		state:   st,
		host:    h,
		vault:   v,
		genesis: gen,
	}
	a.dispatcher = dispatch.New(st, dispatch.ExecutorFunc(a.execute))

	initialized, err := metaBucket.NewGetter(db).Has(genesisKey)
	if err != nil {
		return nil, err
	}
	if !initialized {
		if err := a.initGenesis(); err != nil {
			return nil, errors.Wrap(err, "init genesis")
		}
	}
	if err := a.loadHead(); err != nil {
		return nil, errors.Wrap(err, "load head")
	}
	return a, nil
}

func (a *App) loadHead() error {
	getter := metaBucket.NewGetter(a.db)
	data, err := getter.Get(headKey)
	if err != nil {
		if getter.IsNotFound(err) {
			a.head = stv.BlockContext{Time: a.genesis.LaunchTime}
			return nil
		}
		return err
	}
	return rlp.DecodeBytes(data, &a.head)
}

func (a *App) initGenesis() error {
	gen := a.genesis
	for _, v := range gen.Validators {
		if err := a.host.Staking.CreateValidator(v); err != nil {
			return err
		}
	}
	for _, acc := range gen.Accounts {
		amount, err := acc.Amount()
		if err != nil {
			return err
		}
		if err := a.host.Bank.Mint(acc.Address, stv.Coin{Denom: gen.Denom, Amount: amount}); err != nil {
			return err
		}
	}

	tokens := []struct {
		addr stv.Address
		info host.TokenInfo
	}{
		{gen.Vault.TokenContract, host.TokenInfo{Name: "Staked Principal", Symbol: "stPRN"}},
		{gen.Vault.YieldTokenContract, host.TokenInfo{Name: "Staked Yield", Symbol: "stYLD"}},
		{gen.Vault.PrincipalComponentContract, host.TokenInfo{Name: "Principal Component", Symbol: "stPC"}},
	}
	for _, t := range tokens {
		if t.addr.IsZero() {
			continue
		}
		t.info.Minter = gen.Vault.Address
		if err := a.host.Tokens.Create(t.addr, t.info); err != nil {
			return err
		}
	}

	p, err := gen.Parameters()
	if err != nil {
		return err
	}
	blk := stv.BlockContext{Time: gen.LaunchTime}
	if err := a.vault.Instantiate(blk, vault.MessageInfo{Sender: gen.Vault.Owner}, vault.InstantiateMsg{
		Parameters:                 *p,
		Validator:                  gen.Vault.Validator,
		RewardContract:             gen.Vault.RewardContract,
		TokenContract:              gen.Vault.TokenContract,
		YieldTokenContract:         gen.Vault.YieldTokenContract,
		PrincipalComponentContract: gen.Vault.PrincipalComponentContract,
	}); err != nil {
		return err
	}

	bulk := a.db.Bulk()
	if err := metaBucket.NewPutter(bulk).Put(genesisKey, []byte{1}); err != nil {
		return err
	}
	if err := a.state.Commit(stateBucket.NewBulk(bulk)); err != nil {
		return err
	}
	logger.Info("initialized genesis", "vault", gen.Vault.Address, "validators", len(gen.Validators))
	return nil
}

func (a *App) Vault() *vault.Vault { return a.vault }

func (a *App) Host() *host.Host { return a.host }

func (a *App) Genesis() *genesis.Genesis { return a.genesis }

// Invoke executes effect on behalf of sender in block blk. Unbondings due at the
// block time are paid out first and stay paid even if the invocation reverts.
func (a *App) Invoke(blk stv.BlockContext, sender stv.Address, e effect.Effect) (*dispatch.Receipt, error) {
	if err := a.dispatcher.Lock(func() error {
		_, err := a.host.Staking.Mature(blk.Time)
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "mature unbondings")
	}
	return a.dispatcher.Dispatch(blk, dispatch.Message{Sender: sender, Effect: e})
}

// Query runs fn with no invocation in flight.
func (a *App) Query(fn func(v *vault.Vault, h *host.Host) error) error {
	return a.dispatcher.Lock(func() error {
		return fn(a.vault, a.host)
	})
}

// Head returns the block invocations currently execute in.
func (a *App) Head() stv.BlockContext {
	var head stv.BlockContext
	_ = a.dispatcher.Lock(func() error {
		head = a.head
		return nil
	})
	return head
}

// Seal persists every invocation applied in the head block and opens the next
// block at time. Time never moves backwards.
func (a *App) Seal(time uint64) (stv.BlockContext, error) {
	var next stv.BlockContext
	err := a.dispatcher.Lock(func() error {
		next = stv.BlockContext{Number: a.head.Number + 1, Time: max(time, a.head.Time)}
		data, err := rlp.EncodeToBytes(&next)
		if err != nil {
			return err
		}
		bulk := a.db.Bulk()
		if err := metaBucket.NewPutter(bulk).Put(headKey, data); err != nil {
			return err
		}
		if err := a.state.Commit(stateBucket.NewBulk(bulk)); err != nil {
			return err
		}
		a.head = next
		return nil
	})
	if err != nil {
		return stv.BlockContext{}, errors.Wrap(err, "seal block")
	}
	logger.Debug("sealed block", "number", next.Number-1, "next", next.Number, "time", next.Time)
	return next, nil
}
