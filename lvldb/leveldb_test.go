// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stvault/kv"
)

func TestLevelDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, db.Put([]byte("k1"), []byte("v1")))
	v, err := db.Get([]byte("k1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v1"), v)

	has, err := db.Has([]byte("k1"))
	assert.Nil(t, err)
	assert.True(t, has)

	assert.Nil(t, db.Delete([]byte("k1")))
	has, err = db.Has([]byte("k1"))
	assert.Nil(t, err)
	assert.False(t, has)
}

func TestBucketBulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bucket := kv.Bucket("s")
	bulk := bucket.NewBulk(db.Bulk())
	assert.Nil(t, bulk.Put([]byte("a"), []byte("1")))
	assert.Nil(t, bulk.Put([]byte("b"), []byte("2")))
	assert.Nil(t, db.Put([]byte("other"), []byte("3")))
	assert.Equal(t, 2, bulk.Len())
	assert.Nil(t, bulk.Write())

	v, err := bucket.NewGetter(db).Get([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("2"), v)

	it := db.Iterate(bucket.Range(nil))
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(bucket.Strip(it.Key())))
	}
	assert.Nil(t, it.Error())
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestReopenKeepsSealedBulk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")

	db, err := New(path, Options{})
	require.NoError(t, err)
	bulk := db.Bulk()
	assert.Nil(t, bulk.Write(), "empty bulk")
	assert.Nil(t, bulk.Put([]byte("head"), []byte{1}))
	assert.Nil(t, bulk.Write())
	assert.Equal(t, 0, bulk.Len())
	require.NoError(t, db.Close())

	db, err = New(path, Options{CacheSize: 64, OpenFilesCacheCapacity: 64})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("head"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{1}, v)
}
