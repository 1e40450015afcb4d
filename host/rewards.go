// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
)

var slotIndexUpdates = stv.BytesToBytes32([]byte("index-updates"))

// Rewards stands in for the reward distribution contract. It only records how often
// its index was asked to update; the distribution itself happens elsewhere.
type Rewards struct {
	state *state.State
}

func NewRewards(st *state.State) *Rewards {
	return &Rewards{state: st}
}

func (r *Rewards) updates(contract stv.Address) *storage.Raw[uint64] {
	return storage.NewRaw[uint64](storage.NewContext(contract, r.state), slotIndexUpdates)
}

// UpdateIndex records an index update of contract.
func (r *Rewards) UpdateIndex(contract stv.Address) error {
	raw := r.updates(contract)
	n, err := raw.Get()
	if err != nil {
		return err
	}
	return raw.Set(n + 1)
}

// IndexUpdates returns how many index updates contract received.
func (r *Rewards) IndexUpdates(contract stv.Address) (uint64, error) {
	return r.updates(contract).Get()
}
