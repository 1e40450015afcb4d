// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batch

import (
	"encoding/binary"
	"math/big"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
)

var (
	slotCurrent     = stv.BytesToBytes32([]byte("current-batch"))
	slotHistory     = stv.BytesToBytes32([]byte("unbond-history"))
	slotWaitList    = stv.BytesToBytes32([]byte("unbond-wait-list"))
	slotUserBatches = stv.BytesToBytes32([]byte("user-batches"))
)

type waitKey struct {
	batchID uint64
	user    stv.Address
}

func (k waitKey) Bytes() []byte {
	b := binary.BigEndian.AppendUint64(make([]byte, 0, 8+stv.AddressLength), k.batchID)
	return append(b, k.user[:]...)
}

// WaitEntry is a user's fee adjusted request within one batch.
type WaitEntry struct {
	BatchID uint64   `json:"batch_id"`
	Amount  *big.Int `json:"amount"`
}

// Service stores the open batch, the closed batch history and the unbond wait list.
type Service struct {
	current     *storage.Raw[storedBatch]
	history     *storage.Mapping[stv.Uint64Key, storedHistory]
	waitList    *storage.Mapping[waitKey, *big.Int]
	userBatches *storage.Mapping[stv.Address, []uint64]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		current:     storage.NewRaw[storedBatch](sctx, slotCurrent),
		history:     storage.NewMapping[stv.Uint64Key, storedHistory](sctx, slotHistory),
		waitList:    storage.NewMapping[waitKey, *big.Int](sctx, slotWaitList),
		userBatches: storage.NewMapping[stv.Address, []uint64](sctx, slotUserBatches),
	}
}

func (s *Service) Current() (*CurrentBatch, error) {
	b, err := s.current.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current batch")
	}
	if b.RequestedWithFee == nil {
		b.RequestedWithFee = new(big.Int)
	}
	return &CurrentBatch{ID: b.ID, RequestedWithFee: b.RequestedWithFee}, nil
}

func (s *Service) SetCurrent(b *CurrentBatch) error {
	if err := s.current.Set(storedBatch{ID: b.ID, RequestedWithFee: b.RequestedWithFee}); err != nil {
		return errors.Wrap(err, "failed to set current batch")
	}
	return nil
}

// History returns the record of a closed batch, nil if the batch never closed.
func (s *Service) History(id uint64) (*UnbondHistory, error) {
	exists, err := s.history.Exists(stv.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unbond history")
	}
	if !exists {
		return nil, nil
	}
	stored, err := s.history.Get(stv.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unbond history")
	}
	return stored.history(), nil
}

func (s *Service) SetHistory(h *UnbondHistory) error {
	if err := s.history.Set(stv.Uint64Key(h.BatchID), h.stored()); err != nil {
		return errors.Wrap(err, "failed to set unbond history")
	}
	return nil
}

// AddToWaitList accumulates amount into the user's entry of the batch.
func (s *Service) AddToWaitList(batchID uint64, user stv.Address, amount *big.Int) error {
	key := waitKey{batchID, user}
	exists, err := s.waitList.Exists(key)
	if err != nil {
		return errors.Wrap(err, "failed to get wait list")
	}
	prev, err := s.waitList.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get wait list")
	}
	if err := s.waitList.Set(key, new(big.Int).Add(prev, amount)); err != nil {
		return errors.Wrap(err, "failed to set wait list")
	}
	if exists {
		return nil
	}

	batches, err := s.userBatches.Get(user)
	if err != nil {
		return errors.Wrap(err, "failed to get user batches")
	}
	if err := s.userBatches.Set(user, append(batches, batchID)); err != nil {
		return errors.Wrap(err, "failed to set user batches")
	}
	return nil
}

// WaitListAmount returns the user's entry in the batch, zero if none.
func (s *Service) WaitListAmount(batchID uint64, user stv.Address) (*big.Int, error) {
	amount, err := s.waitList.Get(waitKey{batchID, user})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wait list")
	}
	return amount, nil
}

// WaitList returns the user's entries in ascending batch order.
func (s *Service) WaitList(user stv.Address) ([]WaitEntry, error) {
	batches, err := s.userBatches.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user batches")
	}
	entries := make([]WaitEntry, 0, len(batches))
	for _, id := range batches {
		amount, err := s.WaitListAmount(id, user)
		if err != nil {
			return nil, err
		}
		entries = append(entries, WaitEntry{BatchID: id, Amount: amount})
	}
	return entries, nil
}

// RemoveFromWaitList deletes the user's entries of the given batches.
func (s *Service) RemoveFromWaitList(user stv.Address, batchIDs []uint64) error {
	if len(batchIDs) == 0 {
		return nil
	}
	batches, err := s.userBatches.Get(user)
	if err != nil {
		return errors.Wrap(err, "failed to get user batches")
	}
	for _, id := range batchIDs {
		s.waitList.Delete(waitKey{id, user})
	}
	remaining := slices.DeleteFunc(batches, func(id uint64) bool {
		return slices.Contains(batchIDs, id)
	})
	if len(remaining) == 0 {
		s.userBatches.Delete(user)
		return nil
	}
	if err := s.userBatches.Set(user, remaining); err != nil {
		return errors.Wrap(err, "failed to set user batches")
	}
	return nil
}
