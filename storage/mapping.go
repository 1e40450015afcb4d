// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stvault/stv"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction, values are RLP encoded at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos stv.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos stv.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) stv.Bytes32 {
	return stv.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value stored for key, the zero value if unset.
// Pointer values are never nil.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		return decode(raw, &value)
	})
	return
}

// Exists reports whether a value is stored for key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the value stored for key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

func decode[V any](raw []byte, value *V) error {
	if reflect.ValueOf(*value).Kind() == reflect.Ptr {
		*value = reflect.New(reflect.TypeOf(*value).Elem()).Interface().(V)
	}
	if len(raw) == 0 {
		return nil
	}
	return rlp.DecodeBytes(raw, value)
}
