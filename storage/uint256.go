// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/stv"
)

// ErrNegative is returned when a subtraction would take a stored amount below zero.
var ErrNegative = errors.New("amount underflow")

// Uint256 stores a non-negative integer at a fixed slot.
type Uint256 struct {
	context *Context
	pos     stv.Bytes32
}

func NewUint256(context *Context, pos stv.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	raw, err := u.context.state.GetRawStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (u *Uint256) Set(value *big.Int) {
	u.context.state.SetRawStorage(u.context.address, u.pos, value.Bytes())
}

func (u *Uint256) Add(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(stored.Add(stored, value))
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	if stored.Cmp(value) < 0 {
		return errors.Wrapf(ErrNegative, "%v - %v", stored, value)
	}
	u.Set(stored.Sub(stored, value))
	return nil
}
