// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/kv"
	"github.com/vechain/stvault/stackedmap"
	"github.com/vechain/stvault/stv"
)

type storageKey struct {
	addr stv.Address
	key  stv.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, stv.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// Change is a storage value written since the last commit.
// An empty Value means the slot was cleared.
type Change struct {
	Address stv.Address
	Key     stv.Bytes32
	Value   []byte
}

// State manages the contract storage of every account on top of a kv store.
// Writes are journaled so they can be reverted to a checkpoint, and only reach
// the store on Commit.
type State struct {
	db kv.Getter
	sm *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object.
func New(db kv.Getter) *State {
	s := &State{db: db}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
	s.sm.Push() // base level, never popped
}

func (s *State) load(key storageKey) ([]byte, bool, error) {
	v, err := s.db.Get(key.bytes())
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "load storage %v:%v", key.addr, key.key)
	}
	return v, true, nil
}

// GetRawStorage returns the raw value of a storage slot, nil if unset.
func (s *State) GetRawStorage(addr stv.Address, key stv.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	return v, err
}

// SetRawStorage sets the raw value of a storage slot. An empty value clears the slot.
func (s *State) SetRawStorage(addr stv.Address, key stv.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// DecodeStorage decodes the raw value of a storage slot with dec.
func (s *State) DecodeStorage(addr stv.Address, key stv.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// EncodeStorage sets the value of a storage slot to the output of enc.
func (s *State) EncodeStorage(addr stv.Address, key stv.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return err
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		panic("state: invalid revision")
	}
	s.sm.PopTo(revision)
}

// Stage returns the latest value of every slot written since the last commit, sorted by key.
func (s *State) Stage() []Change {
	latest := make(map[storageKey][]byte)
	s.sm.Journal(func(key storageKey, value []byte) bool {
		latest[key] = value
		return true
	})

	changes := make([]Change, 0, len(latest))
	for k, v := range latest {
		changes = append(changes, Change{Address: k.addr, Key: k.key, Value: v})
	}
	sort.Slice(changes, func(i, j int) bool {
		if c := bytes.Compare(changes[i].Address[:], changes[j].Address[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(changes[i].Key[:], changes[j].Key[:]) < 0
	})
	return changes
}

// Commit writes all staged changes into bulk atomically and clears the journal.
func (s *State) Commit(bulk kv.Bulk) error {
	for _, c := range s.Stage() {
		key := storageKey{c.Address, c.Key}.bytes()
		var err error
		if len(c.Value) == 0 {
			err = bulk.Delete(key)
		} else {
			err = bulk.Put(key, c.Value)
		}
		if err != nil {
			return errors.Wrap(err, "commit state")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	s.reset()
	return nil
}
