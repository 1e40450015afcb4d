// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	return append([]byte(b), k...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewBulk creates a bucket bulk from the source bulk.
func (b Bucket) NewBulk(src Bulk) Bulk {
	return &bucketBulk{bucketPutter{b, src}, src}
}

// Range returns the key range covered by the bucket, narrowed by prefix.
func (b Bucket) Range(prefix []byte) Range {
	r := util.BytesPrefix(b.key(prefix))
	return Range{Start: r.Start, Limit: r.Limit}
}

// Strip removes the bucket prefix from a key returned by an iterator over the bucket range.
func (b Bucket) Strip(key []byte) []byte {
	return key[len(b):]
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.key(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.key(key)) }

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (b *bucketBulk) Len() int     { return b.bulk.Len() }
func (b *bucketBulk) Write() error { return b.bulk.Write() }
