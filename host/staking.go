// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"math/big"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/numeric"
)

var (
	// StakingAddress owns the staking module storage and holds all bonded coins.
	StakingAddress = stv.BytesToAddress([]byte("staking"))

	slotValidators     = stv.BytesToBytes32([]byte("validators"))
	slotDelegations    = stv.BytesToBytes32([]byte("delegations"))
	slotDelegatorIndex = stv.BytesToBytes32([]byte("delegator-validators"))
	slotValidatorIndex = stv.BytesToBytes32([]byte("validator-delegators"))
	slotUnbondingQueue = stv.BytesToBytes32([]byte("unbonding-queue"))
	slotAccruedRewards = stv.BytesToBytes32([]byte("accrued-rewards"))
)

type delegationKey struct {
	delegator stv.Address
	validator stv.Address
}

func (k delegationKey) Bytes() []byte {
	return append(k.delegator.Bytes(), k.validator.Bytes()...)
}

// Unbonding is stake leaving a validator, paid out once Completion is reached.
type Unbonding struct {
	Delegator  stv.Address
	Validator  stv.Address
	Amount     *big.Int
	Completion uint64
}

// Staking simulates the chain's staking module: delegations, the unbonding queue,
// slashing and reward accrual.
type Staking struct {
	bank            *Bank
	denom           string
	unbondingPeriod uint64

	validators  *storage.Mapping[stv.Address, bool]
	delegations *storage.Mapping[delegationKey, *big.Int]
	byDelegator *storage.Mapping[stv.Address, []stv.Address]
	byValidator *storage.Mapping[stv.Address, []stv.Address]
	unbondings  *storage.Raw[[]Unbonding]
	rewards     *storage.Mapping[delegationKey, *big.Int]
}

func NewStaking(st *state.State, bank *Bank, denom string, unbondingPeriod uint64) *Staking {
	sctx := storage.NewContext(StakingAddress, st)
	return &Staking{
		bank:            bank,
		denom:           denom,
		unbondingPeriod: unbondingPeriod,
		validators:      storage.NewMapping[stv.Address, bool](sctx, slotValidators),
		delegations:     storage.NewMapping[delegationKey, *big.Int](sctx, slotDelegations),
		byDelegator:     storage.NewMapping[stv.Address, []stv.Address](sctx, slotDelegatorIndex),
		byValidator:     storage.NewMapping[stv.Address, []stv.Address](sctx, slotValidatorIndex),
		unbondings:      storage.NewRaw[[]Unbonding](sctx, slotUnbondingQueue),
		rewards:         storage.NewMapping[delegationKey, *big.Int](sctx, slotAccruedRewards),
	}
}

func (s *Staking) Denom() string {
	return s.denom
}

// CreateValidator registers a validator able to receive delegations.
func (s *Staking) CreateValidator(validator stv.Address) error {
	if validator.IsZero() {
		return errors.New("invalid validator address")
	}
	exists, err := s.validators.Get(validator)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("validator %v already exists", validator)
	}
	return s.validators.Set(validator, true)
}

func (s *Staking) IsValidator(validator stv.Address) (bool, error) {
	return s.validators.Get(validator)
}

// Delegation returns the stake of delegator on validator, nil if there is none.
func (s *Staking) Delegation(delegator, validator stv.Address) (*stv.Delegation, error) {
	amount, err := s.delegations.Get(delegationKey{delegator, validator})
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, nil
	}
	return &stv.Delegation{
		Delegator: delegator,
		Validator: validator,
		Amount:    stv.Coin{Denom: s.denom, Amount: amount},
	}, nil
}

// AllDelegations lists every non-empty delegation of delegator.
func (s *Staking) AllDelegations(delegator stv.Address) ([]stv.Delegation, error) {
	validators, err := s.byDelegator.Get(delegator)
	if err != nil {
		return nil, err
	}
	res := make([]stv.Delegation, 0, len(validators))
	for _, v := range validators {
		d, err := s.Delegation(delegator, v)
		if err != nil {
			return nil, err
		}
		if d != nil {
			res = append(res, *d)
		}
	}
	return res, nil
}

func (s *Staking) checkCoin(coin stv.Coin) error {
	if coin.Denom != s.denom {
		return errors.Errorf("invalid staking denom %s", coin.Denom)
	}
	if !coin.IsPositive() {
		return errors.New("invalid zero amount")
	}
	return nil
}

func (s *Staking) requireValidator(validator stv.Address) error {
	ok, err := s.validators.Get(validator)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("validator %v does not exist", validator)
	}
	return nil
}

// Delegate bonds coins of delegator on validator.
func (s *Staking) Delegate(delegator, validator stv.Address, coin stv.Coin) error {
	if err := s.checkCoin(coin); err != nil {
		return err
	}
	if err := s.requireValidator(validator); err != nil {
		return err
	}
	if err := s.bank.Send(delegator, StakingAddress, stv.Coins{coin}); err != nil {
		return err
	}
	return s.addDelegation(delegator, validator, coin.Amount)
}

// Undelegate moves stake into the unbonding queue, paid out after the unbonding period.
func (s *Staking) Undelegate(now uint64, delegator, validator stv.Address, coin stv.Coin) error {
	if err := s.checkCoin(coin); err != nil {
		return err
	}
	if err := s.subDelegation(delegator, validator, coin.Amount); err != nil {
		return err
	}
	queue, err := s.unbondings.Get()
	if err != nil {
		return err
	}
	queue = append(queue, Unbonding{
		Delegator:  delegator,
		Validator:  validator,
		Amount:     new(big.Int).Set(coin.Amount),
		Completion: now + s.unbondingPeriod,
	})
	return s.unbondings.Set(queue)
}

// Redelegate moves stake between validators immediately.
func (s *Staking) Redelegate(delegator, src, dst stv.Address, coin stv.Coin) error {
	if err := s.checkCoin(coin); err != nil {
		return err
	}
	if err := s.requireValidator(dst); err != nil {
		return err
	}
	if err := s.subDelegation(delegator, src, coin.Amount); err != nil {
		return err
	}
	return s.addDelegation(delegator, dst, coin.Amount)
}

// Unbondings returns the pending unbonding queue.
func (s *Staking) Unbondings() ([]Unbonding, error) {
	return s.unbondings.Get()
}

// Mature pays out every unbonding entry completed at now.
func (s *Staking) Mature(now uint64) (int, error) {
	queue, err := s.unbondings.Get()
	if err != nil {
		return 0, err
	}
	remaining := queue[:0:0]
	matured := 0
	for _, u := range queue {
		if u.Completion > now {
			remaining = append(remaining, u)
			continue
		}
		if u.Amount.Sign() > 0 {
			coin := stv.Coin{Denom: s.denom, Amount: u.Amount}
			if err := s.bank.Send(StakingAddress, u.Delegator, stv.Coins{coin}); err != nil {
				return 0, err
			}
		}
		matured++
	}
	if matured == 0 {
		return 0, nil
	}
	logger.Debug("matured unbondings", "count", matured, "now", now)
	return matured, s.unbondings.Set(remaining)
}

// Slash burns fraction of every bonded and unbonding stake on validator.
func (s *Staking) Slash(validator stv.Address, fraction numeric.Rate) (*big.Int, error) {
	if fraction.IsNegative() || fraction.GT(numeric.One()) {
		return nil, errors.New("slash fraction must be between 0 and 1")
	}
	if err := s.requireValidator(validator); err != nil {
		return nil, err
	}

	burnt := new(big.Int)
	delegators, err := s.byValidator.Get(validator)
	if err != nil {
		return nil, err
	}
	for _, d := range delegators {
		key := delegationKey{d, validator}
		amount, err := s.delegations.Get(key)
		if err != nil {
			return nil, err
		}
		slashed := numeric.MulRate(amount, fraction)
		if slashed.Sign() == 0 {
			continue
		}
		burnt.Add(burnt, slashed)
		if err := s.delegations.Set(key, amount.Sub(amount, slashed)); err != nil {
			return nil, err
		}
	}

	queue, err := s.unbondings.Get()
	if err != nil {
		return nil, err
	}
	for i := range queue {
		if queue[i].Validator != validator {
			continue
		}
		slashed := numeric.MulRate(queue[i].Amount, fraction)
		burnt.Add(burnt, slashed)
		queue[i].Amount = new(big.Int).Sub(queue[i].Amount, slashed)
	}
	if err := s.unbondings.Set(queue); err != nil {
		return nil, err
	}

	if burnt.Sign() > 0 {
		if err := s.bank.Burn(StakingAddress, stv.Coin{Denom: s.denom, Amount: burnt}); err != nil {
			return nil, err
		}
	}
	logger.Info("slashed validator", "validator", validator, "fraction", fraction, "burnt", burnt)
	return burnt, nil
}

// AccrueRewards credits rewards to a delegation, claimable with WithdrawRewards.
func (s *Staking) AccrueRewards(delegator, validator stv.Address, amount *big.Int) error {
	key := delegationKey{delegator, validator}
	accrued, err := s.rewards.Get(key)
	if err != nil {
		return err
	}
	return s.rewards.Set(key, accrued.Add(accrued, amount))
}

// WithdrawRewards pays the accrued rewards of a delegation to recipient.
func (s *Staking) WithdrawRewards(delegator, validator, recipient stv.Address) (*big.Int, error) {
	key := delegationKey{delegator, validator}
	accrued, err := s.rewards.Get(key)
	if err != nil {
		return nil, err
	}
	if accrued.Sign() == 0 {
		return accrued, nil
	}
	s.rewards.Delete(key)
	return accrued, s.bank.Mint(recipient, stv.Coin{Denom: s.denom, Amount: accrued})
}

func (s *Staking) addDelegation(delegator, validator stv.Address, amount *big.Int) error {
	key := delegationKey{delegator, validator}
	prev, err := s.delegations.Get(key)
	if err != nil {
		return err
	}
	if err := s.delegations.Set(key, new(big.Int).Add(prev, amount)); err != nil {
		return err
	}
	if err := s.index(s.byDelegator, delegator, validator); err != nil {
		return err
	}
	return s.index(s.byValidator, validator, delegator)
}

func (s *Staking) subDelegation(delegator, validator stv.Address, amount *big.Int) error {
	key := delegationKey{delegator, validator}
	prev, err := s.delegations.Get(key)
	if err != nil {
		return err
	}
	if prev.Cmp(amount) < 0 {
		return errors.Errorf("delegation of %v on %v is %v, cannot remove %v", delegator, validator, prev, amount)
	}
	return s.delegations.Set(key, prev.Sub(prev, amount))
}

func (s *Staking) index(m *storage.Mapping[stv.Address, []stv.Address], key, item stv.Address) error {
	items, err := m.Get(key)
	if err != nil {
		return err
	}
	if slices.Contains(items, item) {
		return nil
	}
	return m.Set(key, append(items, item))
}
