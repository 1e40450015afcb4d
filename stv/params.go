// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stv

// Constants of the vault and its host.
const (
	MaxValidators = 100 // upper bound of the validator whitelist

	DefaultEpochPeriod     uint64 = 30 * 3600       // 30 hours
	DefaultUnbondingPeriod uint64 = 21 * 24 * 3600  // 21 days
	DefaultDenom                  = "ustake"

	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)
