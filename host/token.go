// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
)

var (
	slotTokenInfo   = stv.BytesToBytes32([]byte("token-info"))
	slotTokenSupply = stv.BytesToBytes32([]byte("token-supply"))
	slotHolders     = stv.BytesToBytes32([]byte("token-balances"))
	slotAllowances  = stv.BytesToBytes32([]byte("token-allowances"))
)

// TokenInfo describes a token contract.
type TokenInfo struct {
	Name   string      `json:"name"`
	Symbol string      `json:"symbol"`
	Minter stv.Address `json:"minter"`
}

type allowanceKey struct {
	owner   stv.Address
	spender stv.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// token is the storage of one token contract.
type token struct {
	info       *storage.Raw[TokenInfo]
	supply     *storage.Uint256
	balances   *storage.Mapping[stv.Address, *uint256.Int]
	allowances *storage.Mapping[allowanceKey, *uint256.Int]
}

// Tokens runs fungible token contracts with mint, burn, allowance and send-with-hook.
// Each token keeps its ledger in the storage of its own address.
type Tokens struct {
	state *state.State
}

func NewTokens(st *state.State) *Tokens {
	return &Tokens{state: st}
}

func (t *Tokens) token(addr stv.Address) *token {
	sctx := storage.NewContext(addr, t.state)
	return &token{
		info:       storage.NewRaw[TokenInfo](sctx, slotTokenInfo),
		supply:     storage.NewUint256(sctx, slotTokenSupply),
		balances:   storage.NewMapping[stv.Address, *uint256.Int](sctx, slotHolders),
		allowances: storage.NewMapping[allowanceKey, *uint256.Int](sctx, slotAllowances),
	}
}

func (t *Tokens) existing(addr stv.Address) (*token, *TokenInfo, error) {
	tk := t.token(addr)
	ok, err := tk.info.IsSet()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.Errorf("token %v does not exist", addr)
	}
	info, err := tk.info.Get()
	if err != nil {
		return nil, nil, err
	}
	return tk, &info, nil
}

// Create deploys a token at addr.
func (t *Tokens) Create(addr stv.Address, info TokenInfo) error {
	tk := t.token(addr)
	ok, err := tk.info.IsSet()
	if err != nil {
		return err
	}
	if ok {
		return errors.Errorf("token %v already exists", addr)
	}
	return tk.info.Set(info)
}

// SetMinter hands minting rights to a new address, the sender must be the current minter.
func (t *Tokens) SetMinter(sender, addr, minter stv.Address) error {
	tk, info, err := t.existing(addr)
	if err != nil {
		return err
	}
	if info.Minter != sender {
		return errors.New("sender is not the minter")
	}
	info.Minter = minter
	return tk.info.Set(*info)
}

func (t *Tokens) Info(addr stv.Address) (*TokenInfo, error) {
	_, info, err := t.existing(addr)
	return info, err
}

func (t *Tokens) TotalSupply(addr stv.Address) (*big.Int, error) {
	tk, _, err := t.existing(addr)
	if err != nil {
		return nil, err
	}
	return tk.supply.Get()
}

func (t *Tokens) Balance(addr, holder stv.Address) (*big.Int, error) {
	tk, _, err := t.existing(addr)
	if err != nil {
		return nil, err
	}
	bal, err := tk.balances.Get(holder)
	if err != nil {
		return nil, err
	}
	return bal.ToBig(), nil
}

func (t *Tokens) Allowance(addr, owner, spender stv.Address) (*big.Int, error) {
	tk, _, err := t.existing(addr)
	if err != nil {
		return nil, err
	}
	allowance, err := tk.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, err
	}
	return allowance.ToBig(), nil
}

// Mint creates tokens, only the minter may call it.
func (t *Tokens) Mint(sender, addr, recipient stv.Address, amount *big.Int) error {
	tk, info, err := t.existing(addr)
	if err != nil {
		return err
	}
	if info.Minter != sender {
		return errors.New("sender is not the minter")
	}
	v, err := toUint256(amount)
	if err != nil {
		return err
	}
	if err := tk.credit(recipient, v); err != nil {
		return err
	}
	return tk.supply.Add(amount)
}

// Burn destroys tokens of the sender.
func (t *Tokens) Burn(sender, addr stv.Address, amount *big.Int) error {
	tk, _, err := t.existing(addr)
	if err != nil {
		return err
	}
	return tk.burn(sender, amount)
}

// BurnFrom destroys tokens of owner, spending the sender's allowance.
func (t *Tokens) BurnFrom(sender, addr, owner stv.Address, amount *big.Int) error {
	tk, _, err := t.existing(addr)
	if err != nil {
		return err
	}
	if err := tk.spendAllowance(owner, sender, amount); err != nil {
		return err
	}
	return tk.burn(owner, amount)
}

// Transfer moves tokens of the sender.
func (t *Tokens) Transfer(sender, addr, recipient stv.Address, amount *big.Int) error {
	tk, _, err := t.existing(addr)
	if err != nil {
		return err
	}
	return tk.transfer(sender, recipient, amount)
}

// Send moves tokens of the sender to contract and returns the hook contract must receive.
func (t *Tokens) Send(sender, addr, contract stv.Address, amount *big.Int, msg []byte) (*effect.Execute, error) {
	if err := t.Transfer(sender, addr, contract, amount); err != nil {
		return nil, err
	}
	return &effect.Execute{
		Contract: contract,
		Msg:      effect.Receive{Sender: sender, Amount: new(big.Int).Set(amount), Msg: msg},
	}, nil
}

// IncreaseAllowance lets spender use more of the sender's tokens.
func (t *Tokens) IncreaseAllowance(sender, addr, spender stv.Address, amount *big.Int) error {
	tk, _, err := t.existing(addr)
	if err != nil {
		return err
	}
	v, err := toUint256(amount)
	if err != nil {
		return err
	}
	key := allowanceKey{sender, spender}
	allowance, err := tk.allowances.Get(key)
	if err != nil {
		return err
	}
	if _, overflow := allowance.AddOverflow(allowance, v); overflow {
		allowance.SetAllOne()
	}
	return tk.allowances.Set(key, allowance)
}

func (tk *token) credit(holder stv.Address, amount *uint256.Int) error {
	bal, err := tk.balances.Get(holder)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return errors.New("balance overflow")
	}
	return tk.balances.Set(holder, bal)
}

func (tk *token) debit(holder stv.Address, amount *uint256.Int) error {
	bal, err := tk.balances.Get(holder)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%v has %v tokens, needs %v", holder, bal, amount)
	}
	return tk.balances.Set(holder, bal.Sub(bal, amount))
}

func (tk *token) transfer(from, to stv.Address, amount *big.Int) error {
	v, err := toUint256(amount)
	if err != nil {
		return err
	}
	if v.IsZero() {
		return errors.New("invalid zero amount")
	}
	if err := tk.debit(from, v); err != nil {
		return err
	}
	return tk.credit(to, v)
}

func (tk *token) burn(holder stv.Address, amount *big.Int) error {
	v, err := toUint256(amount)
	if err != nil {
		return err
	}
	if err := tk.debit(holder, v); err != nil {
		return err
	}
	return tk.supply.Sub(amount)
}

func (tk *token) spendAllowance(owner, spender stv.Address, amount *big.Int) error {
	v, err := toUint256(amount)
	if err != nil {
		return err
	}
	key := allowanceKey{owner, spender}
	allowance, err := tk.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowance.Lt(v) {
		return errors.Errorf("allowance of %v for %v is %v, needs %v", owner, spender, allowance, amount)
	}
	return tk.allowances.Set(key, allowance.Sub(allowance, v))
}
