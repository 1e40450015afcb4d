// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"github.com/pkg/errors"

	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
)

// LinkedList is an insertion ordered set of addresses kept in contract storage.
type LinkedList struct {
	head  *storage.Raw[stv.Address]
	tail  *storage.Raw[stv.Address]
	count *storage.Raw[uint64]
	next  *storage.Mapping[stv.Address, stv.Address]
	prev  *storage.Mapping[stv.Address, stv.Address]
}

// NewLinkedList creates a linked list rooted at the given slots.
func NewLinkedList(sctx *storage.Context, headPos, tailPos, countPos stv.Bytes32) *LinkedList {
	return &LinkedList{
		head:  storage.NewRaw[stv.Address](sctx, headPos),
		tail:  storage.NewRaw[stv.Address](sctx, tailPos),
		count: storage.NewRaw[uint64](sctx, countPos),
		next:  storage.NewMapping[stv.Address, stv.Address](sctx, headPos),
		prev:  storage.NewMapping[stv.Address, stv.Address](sctx, tailPos),
	}
}

// Add appends an address to the end of the list.
// The caller ensures the address is not yet present.
func (l *LinkedList) Add(address stv.Address) error {
	if address.IsZero() {
		return errors.New("zero address")
	}
	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		if err := l.head.Set(address); err != nil {
			return err
		}
	} else {
		if err := l.next.Set(oldTail, address); err != nil {
			return err
		}
		if err := l.prev.Set(address, oldTail); err != nil {
			return err
		}
	}
	if err := l.tail.Set(address); err != nil {
		return err
	}
	return l.addCount(1)
}

// Contains reports whether address is in the list.
func (l *LinkedList) Contains(address stv.Address) (bool, error) {
	if address.IsZero() {
		return false, nil
	}
	prev, err := l.prev.Get(address)
	if err != nil {
		return false, err
	}
	if !prev.IsZero() {
		return true, nil
	}
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	return head == address, nil
}

// Remove extracts an address from anywhere in the list and reconnects its neighbours.
// It returns false if the address was not in the list.
func (l *LinkedList) Remove(address stv.Address) (bool, error) {
	ok, err := l.Contains(address)
	if err != nil || !ok {
		return false, err
	}

	prev, err := l.prev.Get(address)
	if err != nil {
		return false, err
	}
	next, err := l.next.Get(address)
	if err != nil {
		return false, err
	}

	if prev.IsZero() {
		err = l.head.Set(next)
	} else {
		err = l.next.Set(prev, next)
	}
	if err != nil {
		return false, err
	}

	if next.IsZero() {
		err = l.tail.Set(prev)
	} else {
		err = l.prev.Set(next, prev)
	}
	if err != nil {
		return false, err
	}

	l.next.Delete(address)
	l.prev.Delete(address)

	return true, l.addCount(-1)
}

// Len returns the number of addresses in the list.
func (l *LinkedList) Len() (uint64, error) {
	return l.count.Get()
}

// Iter traverses the list in insertion order, calling callback for each address until completion or error.
func (l *LinkedList) Iter(callback func(stv.Address) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}

	for !ptr.IsZero() {
		if err := callback(ptr); err != nil {
			return err
		}
		if ptr, err = l.next.Get(ptr); err != nil {
			return err
		}
	}
	return nil
}

// Items returns every address in insertion order.
func (l *LinkedList) Items() ([]stv.Address, error) {
	var items []stv.Address
	err := l.Iter(func(addr stv.Address) error {
		items = append(items, addr)
		return nil
	})
	return items, err
}

func (l *LinkedList) addCount(delta int64) error {
	count, err := l.count.Get()
	if err != nil {
		return err
	}
	if delta < 0 && count == 0 {
		return errors.New("list count underflow")
	}
	return l.count.Set(uint64(int64(count) + delta))
}
