// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the liquid staking vault. Every command is a state
// transition returning the effects the dispatcher must run afterwards; the vault
// never calls into other modules itself.
package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/cache"
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/batch"
	"github.com/vechain/stvault/vault/ledger"
	"github.com/vechain/stvault/vault/params"
	"github.com/vechain/stvault/vault/reverts"
	"github.com/vechain/stvault/vault/validators"
)

var logger = log.WithContext("pkg", "vault")

const historyCacheSize = 512

// StakingQuerier reads the staking module.
type StakingQuerier interface {
	AllDelegations(delegator stv.Address) ([]stv.Delegation, error)
	Delegation(delegator, validator stv.Address) (*stv.Delegation, error)
	IsValidator(validator stv.Address) (bool, error)
}

// BankQuerier reads native balances.
type BankQuerier interface {
	Balance(addr stv.Address, denom string) (*big.Int, error)
}

// TokenQuerier reads token contracts.
type TokenQuerier interface {
	TotalSupply(token stv.Address) (*big.Int, error)
	Balance(token, holder stv.Address) (*big.Int, error)
	Allowance(token, owner, spender stv.Address) (*big.Int, error)
}

// Querier gives the vault read access to the modules it instructs.
type Querier struct {
	Staking StakingQuerier
	Bank    BankQuerier
	Token   TokenQuerier
}

// MessageInfo describes who invoked the vault and the coins transferred with the call.
type MessageInfo struct {
	Sender stv.Address `json:"sender"`
	Funds  stv.Coins   `json:"funds"`
}

// Vault composes the storage services of the vault account.
type Vault struct {
	address stv.Address
	querier Querier

	params     *params.Service
	ledger     *ledger.Service
	registry   *validators.Registry
	batches    *batch.Service
	historyLRU *cache.LRU
}

// New creates the vault living at addr.
func New(addr stv.Address, st *state.State, querier Querier) *Vault {
	sctx := storage.NewContext(addr, st)
	lru, _ := cache.NewLRU(historyCacheSize)

	return &Vault{
		address:    addr,
		querier:    querier,
		params:     params.New(sctx),
		ledger:     ledger.New(sctx),
		registry:   validators.NewRegistry(sctx),
		batches:    batch.New(sctx),
		historyLRU: lru,
	}
}

func (v *Vault) Address() stv.Address {
	return v.address
}

// Instantiate initializes storage. It can only run once.
func (v *Vault) Instantiate(blk stv.BlockContext, info MessageInfo, msg InstantiateMsg) error {
	logger.Debug("instantiating vault", "owner", info.Sender, "validator", msg.Validator)

	initialized, err := v.params.Initialized()
	if err != nil {
		return err
	}
	if initialized {
		return reverts.New("vault is already instantiated")
	}
	if info.Sender.IsZero() {
		return reverts.New("owner cannot be the zero address")
	}
	if err := v.params.SetParameters(&msg.Parameters); err != nil {
		return err
	}
	if err := v.requireValidator(msg.Validator); err != nil {
		return err
	}

	conf := &params.Config{
		Owner:                      info.Sender,
		RewardContract:             msg.RewardContract,
		TokenContract:              msg.TokenContract,
		YieldTokenContract:         msg.YieldTokenContract,
		PrincipalComponentContract: msg.PrincipalComponentContract,
	}
	if err := v.params.SetConfig(conf); err != nil {
		return err
	}
	if err := v.ledger.Set(ledger.NewState(blk.Time)); err != nil {
		return err
	}
	if err := v.batches.SetCurrent(&batch.CurrentBatch{ID: 1, RequestedWithFee: new(big.Int)}); err != nil {
		return err
	}
	if err := v.registry.Add(msg.Validator); err != nil {
		return err
	}

	logger.Info("instantiated vault", "owner", info.Sender)
	return nil
}

// Execute routes msg to its command and records the outcome.
func (v *Vault) Execute(blk stv.BlockContext, info MessageInfo, msg any) ([]effect.Effect, error) {
	var (
		effects []effect.Effect
		err     error
	)
	switch m := msg.(type) {
	case Bond:
		effects, err = v.Bond(blk, info, m.Validator)
	case effect.Receive:
		effects, err = v.Receive(blk, info, m)
	case WithdrawUnbonded:
		effects, err = v.WithdrawUnbonded(blk, info)
	case RegisterValidator:
		err = v.RegisterValidator(info, m.Validator)
	case DeregisterValidator:
		effects, err = v.DeregisterValidator(info, m.Validator, m.RedelegateTo)
	case UpdateParams:
		err = v.UpdateParams(info, m.ParametersUpdate)
	case UpdateConfig:
		err = v.UpdateConfig(info, m.ConfigUpdate)
	case CheckSlashing:
		err = v.CheckSlashing()
	case UpdateGlobalIndex:
		effects, err = v.UpdateGlobalIndex(blk)
	case Split:
		effects, err = v.Split(info, m.Amount)
	case Merge:
		effects, err = v.Merge(info, m.Amount)
	default:
		return nil, reverts.Newf("unsupported message %T", msg)
	}
	recordCommand(commandName(msg), err)
	if err != nil {
		return nil, err
	}
	v.recordLedger()
	return effects, nil
}

func (v *Vault) onlyOwner(sender stv.Address) (*params.Config, error) {
	conf, err := v.params.Config()
	if err != nil {
		return nil, err
	}
	if conf.Owner != sender {
		return nil, reverts.Unauthorized("sender is not the owner")
	}
	return conf, nil
}

func (v *Vault) requireValidator(validator stv.Address) error {
	if validator.IsZero() {
		return reverts.New("invalid validator address")
	}
	ok, err := v.querier.Staking.IsValidator(validator)
	if err != nil {
		return errors.Wrap(err, "failed to query validator")
	}
	if !ok {
		return reverts.Newf("%v is not a validator", validator)
	}
	return nil
}

// issuedSupply is the derivative supply backing the exchange rate. Split principal
// components keep their claim on the stake, so they count alongside the principal token.
func (v *Vault) issuedSupply(conf *params.Config) (*big.Int, error) {
	if conf.TokenContract.IsZero() {
		return new(big.Int), nil
	}
	supply, err := v.querier.Token.TotalSupply(conf.TokenContract)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query token supply")
	}
	supply = new(big.Int).Set(supply)
	if !conf.PrincipalComponentContract.IsZero() {
		component, err := v.querier.Token.TotalSupply(conf.PrincipalComponentContract)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query component supply")
		}
		supply.Add(supply, component)
	}
	return supply, nil
}

func (v *Vault) delegations() ([]stv.Delegation, error) {
	delegations, err := v.querier.Staking.AllDelegations(v.address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query delegations")
	}
	return delegations, nil
}

// snapshot is the ledger view most commands start from.
type snapshot struct {
	params  *params.Parameters
	config  *params.Config
	state   *ledger.State
	current *batch.CurrentBatch
	supply  *big.Int
}

func (v *Vault) load() (*snapshot, error) {
	p, err := v.params.Parameters()
	if err != nil {
		return nil, err
	}
	conf, err := v.params.Config()
	if err != nil {
		return nil, err
	}
	st, err := v.ledger.Get()
	if err != nil {
		return nil, err
	}
	cur, err := v.batches.Current()
	if err != nil {
		return nil, err
	}
	supply, err := v.issuedSupply(conf)
	if err != nil {
		return nil, err
	}
	return &snapshot{params: p, config: conf, state: st, current: cur, supply: supply}, nil
}
