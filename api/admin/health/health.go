// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/stvault/stv"
)

type BlockSealing struct {
	Head      *stv.BlockContext `json:"head"`
	Timestamp *time.Time        `json:"timestamp"`
}

type Status struct {
	Healthy      bool          `json:"healthy"`
	BlockSealing *BlockSealing `json:"blockSealing"`
}

// Health reports whether blocks are still being sealed on time.
type Health struct {
	lock          sync.RWMutex
	newHead       time.Time
	head          *stv.BlockContext
	blockInterval time.Duration
}

func New(blockInterval time.Duration) *Health {
	return &Health{blockInterval: blockInterval}
}

func (h *Health) NewHead(head stv.BlockContext) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newHead = time.Now()
	h.head = &head
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	sealing := &BlockSealing{Head: h.head}
	if h.head != nil {
		ts := h.newHead
		sealing.Timestamp = &ts
	}

	// one missed tick is tolerated
	healthy := h.head != nil && time.Since(h.newHead) <= 2*h.blockInterval

	return &Status{
		Healthy:      healthy,
		BlockSealing: sealing,
	}
}
