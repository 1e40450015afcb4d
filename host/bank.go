// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
)

var (
	// BankAddress owns the bank module storage.
	BankAddress = stv.BytesToAddress([]byte("bank"))

	slotBalances = stv.BytesToBytes32([]byte("balances"))
)

// ErrInsufficientFunds is returned when a transfer exceeds the sender's balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

type balanceKey struct {
	addr  stv.Address
	denom string
}

func (k balanceKey) Bytes() []byte {
	return append(k.addr.Bytes(), k.denom...)
}

// Bank keeps native coin balances.
type Bank struct {
	balances *storage.Mapping[balanceKey, *uint256.Int]
}

func NewBank(st *state.State) *Bank {
	sctx := storage.NewContext(BankAddress, st)
	return &Bank{balances: storage.NewMapping[balanceKey, *uint256.Int](sctx, slotBalances)}
}

func (b *Bank) balance(addr stv.Address, denom string) (*uint256.Int, error) {
	bal, err := b.balances.Get(balanceKey{addr, denom})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// Balance returns the amount of denom held by addr.
func (b *Bank) Balance(addr stv.Address, denom string) (*big.Int, error) {
	bal, err := b.balance(addr, denom)
	if err != nil {
		return nil, err
	}
	return bal.ToBig(), nil
}

// Mint creates coins out of thin air, used for genesis allocations and staking payouts.
func (b *Bank) Mint(to stv.Address, coin stv.Coin) error {
	amount, err := toUint256(coin.Amount)
	if err != nil {
		return err
	}
	return b.add(to, coin.Denom, amount)
}

// Burn destroys coins held by addr.
func (b *Bank) Burn(from stv.Address, coin stv.Coin) error {
	amount, err := toUint256(coin.Amount)
	if err != nil {
		return err
	}
	return b.sub(from, coin.Denom, amount)
}

// Send moves coins between accounts.
func (b *Bank) Send(from, to stv.Address, coins stv.Coins) error {
	for _, c := range coins {
		amount, err := toUint256(c.Amount)
		if err != nil {
			return err
		}
		if err := b.sub(from, c.Denom, amount); err != nil {
			return err
		}
		if err := b.add(to, c.Denom, amount); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bank) add(addr stv.Address, denom string, amount *uint256.Int) error {
	bal, err := b.balance(addr, denom)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return errors.Errorf("balance overflow of %v", addr)
	}
	return b.balances.Set(balanceKey{addr, denom}, bal)
}

func (b *Bank) sub(addr stv.Address, denom string, amount *uint256.Int) error {
	bal, err := b.balance(addr, denom)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%v has %v%s, needs %v%s", addr, bal, denom, amount, denom)
	}
	return b.balances.Set(balanceKey{addr, denom}, bal.Sub(bal, amount))
}

func toUint256(amount *big.Int) (*uint256.Int, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, errors.New("invalid amount")
	}
	v, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, errors.Errorf("amount %v overflows 256 bits", amount)
	}
	return v, nil
}
