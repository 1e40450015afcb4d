// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/pkg/errors"

	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/storage/linkedlist"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault/reverts"
)

var (
	slotHead  = stv.BytesToBytes32([]byte("validators-head"))
	slotTail  = stv.BytesToBytes32([]byte("validators-tail"))
	slotCount = stv.BytesToBytes32([]byte("validators-count"))
)

// Registry is the whitelist of validators the vault may delegate to.
type Registry struct {
	list *linkedlist.LinkedList
}

func NewRegistry(sctx *storage.Context) *Registry {
	return &Registry{
		list: linkedlist.NewLinkedList(sctx, slotHead, slotTail, slotCount),
	}
}

// Add whitelists a validator.
func (r *Registry) Add(validator stv.Address) error {
	if validator.IsZero() {
		return reverts.New("invalid validator address")
	}
	exists, err := r.list.Contains(validator)
	if err != nil {
		return errors.Wrap(err, "failed to get validator")
	}
	if exists {
		return reverts.New("validator is already whitelisted")
	}
	count, err := r.list.Len()
	if err != nil {
		return errors.Wrap(err, "failed to get validator count")
	}
	if count >= stv.MaxValidators {
		return reverts.Newf("cannot whitelist more than %d validators", stv.MaxValidators)
	}
	if err := r.list.Add(validator); err != nil {
		return errors.Wrap(err, "failed to add validator")
	}
	return nil
}

// Remove drops a validator from the whitelist. The last validator cannot be removed.
func (r *Registry) Remove(validator stv.Address) error {
	exists, err := r.list.Contains(validator)
	if err != nil {
		return errors.Wrap(err, "failed to get validator")
	}
	if !exists {
		return reverts.New("validator is not whitelisted")
	}
	count, err := r.list.Len()
	if err != nil {
		return errors.Wrap(err, "failed to get validator count")
	}
	if count <= 1 {
		return reverts.New("cannot remove the last whitelisted validator")
	}
	if _, err := r.list.Remove(validator); err != nil {
		return errors.Wrap(err, "failed to remove validator")
	}
	return nil
}

func (r *Registry) Contains(validator stv.Address) (bool, error) {
	return r.list.Contains(validator)
}

// List returns the whitelist in registration order.
func (r *Registry) List() ([]stv.Address, error) {
	return r.list.Items()
}

func (r *Registry) Len() (uint64, error) {
	return r.list.Len()
}
