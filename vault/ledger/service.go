// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/pkg/errors"

	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
)

var slotState = stv.BytesToBytes32([]byte("state"))

type Service struct {
	state *storage.Raw[storedState]
}

func New(sctx *storage.Context) *Service {
	return &Service{state: storage.NewRaw[storedState](sctx, slotState)}
}

func (s *Service) Get() (*State, error) {
	stored, err := s.state.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get state")
	}
	return stored.state(), nil
}

func (s *Service) Set(st *State) error {
	if err := s.state.Set(st.stored()); err != nil {
		return errors.Wrap(err, "failed to set state")
	}
	return nil
}
