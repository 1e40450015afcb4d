// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/batch"
	"github.com/vechain/stvault/vault/ledger"
	"github.com/vechain/stvault/vault/params"
)

//
// Queries - no state change
//

func (v *Vault) State() (*ledger.State, error) {
	return v.ledger.Get()
}

func (v *Vault) Config() (*params.Config, error) {
	return v.params.Config()
}

func (v *Vault) Parameters() (*params.Parameters, error) {
	return v.params.Parameters()
}

func (v *Vault) CurrentBatch() (*batch.CurrentBatch, error) {
	return v.batches.Current()
}

func (v *Vault) WhitelistedValidators() ([]stv.Address, error) {
	return v.registry.List()
}

// UnbondRequests lists the address's wait list entries.
func (v *Vault) UnbondRequests(addr stv.Address) ([]batch.WaitEntry, error) {
	return v.batches.WaitList(addr)
}

// WithdrawableUnbonded estimates what addr could withdraw at time now. Batches past their
// unbonding period that were not released yet are valued at their applied rate.
func (v *Vault) WithdrawableUnbonded(addr stv.Address, now uint64) (*big.Int, error) {
	p, err := v.params.Parameters()
	if err != nil {
		return nil, err
	}
	entries, err := v.batches.WaitList(addr)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, e := range entries {
		h, err := v.history(e.BatchID)
		if err != nil {
			return nil, err
		}
		if h == nil || (!h.Released && !h.Matured(now, p.UnbondingPeriod)) {
			continue
		}
		total.Add(total, h.Payout(e.Amount))
	}
	return total, nil
}

// AllHistory lists closed batches with ids above startFrom in ascending order.
func (v *Vault) AllHistory(startFrom uint64, limit int) ([]*batch.UnbondHistory, error) {
	if limit <= 0 {
		limit = stv.DefaultHistoryLimit
	}
	limit = min(limit, stv.MaxHistoryLimit)

	cur, err := v.batches.Current()
	if err != nil {
		return nil, err
	}
	res := make([]*batch.UnbondHistory, 0, limit)
	for id := startFrom + 1; id < cur.ID && len(res) < limit; id++ {
		h, err := v.history(id)
		if err != nil {
			return nil, err
		}
		if h == nil {
			break
		}
		res = append(res, h)
	}
	return res, nil
}

// history reads a closed batch. Released batches never change again and are cached.
func (v *Vault) history(id uint64) (*batch.UnbondHistory, error) {
	h, err := v.historyLRU.GetOrLoad(id, func(any) (any, bool, error) {
		h, err := v.batches.History(id)
		if err != nil {
			return nil, false, err
		}
		return h, h != nil && h.Released, nil
	})
	if err != nil {
		return nil, err
	}
	return h.(*batch.UnbondHistory), nil
}
