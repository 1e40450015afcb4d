// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stv

// BlockContext is the block an invocation executes in.
type BlockContext struct {
	Number uint64 `json:"number"`
	Time   uint64 `json:"time"`
}
