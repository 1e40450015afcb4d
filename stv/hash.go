// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stv

import (
	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

// Blake2b computes blake2b-256 checksum for given data.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		// the quick version
		return blake2b.Sum256(data[0])
	}
	hash, _ := blake2b.New256(nil)
	for _, b := range data {
		hash.Write(b)
	}
	var h Bytes32
	hash.Sum(h[:0])
	return h
}
