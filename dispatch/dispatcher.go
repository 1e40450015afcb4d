// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package dispatch runs invocations. An invocation executes a message, then the
// effects it returned, depth first and in order. Any failure reverts every write
// the invocation made.
package dispatch

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/log"
	"github.com/vechain/stvault/state"
	"github.com/vechain/stvault/stv"
)

var logger = log.WithContext("pkg", "dispatch")

// DefaultMaxDepth bounds how deep effects may nest.
const DefaultMaxDepth = 16

// Message is an effect together with the account it runs on behalf of.
type Message struct {
	Sender stv.Address   `json:"sender"`
	Effect effect.Effect `json:"effect"`
}

// Executor executes a single message and returns the messages it emitted.
type Executor interface {
	Execute(blk stv.BlockContext, msg Message) ([]Message, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(blk stv.BlockContext, msg Message) ([]Message, error)

func (f ExecutorFunc) Execute(blk stv.BlockContext, msg Message) ([]Message, error) {
	return f(blk, msg)
}

// Receipt lists the messages an invocation executed, in execution order.
type Receipt struct {
	Messages []Message `json:"messages"`
}

// Dispatcher serializes invocations over one state.
type Dispatcher struct {
	lock     sync.Mutex
	state    *state.State
	executor Executor
	maxDepth int
}

func New(st *state.State, executor Executor) *Dispatcher {
	return &Dispatcher{
		state:    st,
		executor: executor,
		maxDepth: DefaultMaxDepth,
	}
}

// Dispatch runs msg and all effects it leads to. Either everything applies or nothing does.
func (d *Dispatcher) Dispatch(blk stv.BlockContext, msg Message) (*Receipt, error) {
	if msg.Effect == nil {
		return nil, errors.New("empty message")
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	start := time.Now()
	checkpoint := d.state.NewCheckpoint()
	receipt := &Receipt{}

	if err := d.run(blk, msg, 0, receipt); err != nil {
		d.state.RevertTo(checkpoint)
		metricInvocations().AddWithLabel(1, map[string]string{"outcome": "reverted"})
		logger.Debug("invocation reverted", "sender", msg.Sender, "effect", msg.Effect.Name(), "error", err)
		return nil, err
	}

	metricInvocations().AddWithLabel(1, map[string]string{"outcome": "applied"})
	metricInvocationDuration().Observe(time.Since(start).Milliseconds())
	metricEffectsPerInvocation().Observe(int64(len(receipt.Messages)))
	return receipt, nil
}

// Lock runs fn with no invocation in flight, for reads that need a stable state.
func (d *Dispatcher) Lock(fn func() error) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return fn()
}

func (d *Dispatcher) run(blk stv.BlockContext, msg Message, depth int, receipt *Receipt) error {
	if depth > d.maxDepth {
		return errors.Errorf("effects nested deeper than %d", d.maxDepth)
	}
	if msg.Effect == nil {
		return errors.New("empty message")
	}

	emitted, err := d.executor.Execute(blk, msg)
	if err != nil {
		return errors.WithMessagef(err, "%s from %v", msg.Effect.Name(), msg.Sender)
	}
	receipt.Messages = append(receipt.Messages, msg)
	metricEffects().AddWithLabel(1, map[string]string{"effect": msg.Effect.Name()})

	for _, m := range emitted {
		if err := d.run(blk, m, depth+1, receipt); err != nil {
			return err
		}
	}
	return nil
}
