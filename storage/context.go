// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/stv"
)

// Context binds typed storage slots to the storage of one account.
type Context struct {
	address stv.Address
	state   *state.State
}

func NewContext(address stv.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() stv.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
