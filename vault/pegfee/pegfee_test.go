// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pegfee

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stvault/vault/numeric"
)

func ledger(bond, supply, requested int64) Ledger {
	return Ledger{TotalBond: big.NewInt(bond), Supply: big.NewInt(supply), RequestedWithFee: big.NewInt(requested)}
}

func TestInactiveAtOrAboveThreshold(t *testing.T) {
	c := Calculator{ExchangeRate: numeric.One(), Threshold: numeric.One(), PegRecoveryFee: numeric.MustRate("0.5")}
	assert.False(t, c.Active())
	assert.Equal(t, "0", c.BondFee(big.NewInt(1000), big.NewInt(1000), ledger(0, 10000, 0)).String())
	assert.Equal(t, "0", c.UnbondFee(big.NewInt(1000), ledger(0, 10000, 0)).String())
}

func TestBondFee(t *testing.T) {
	c := Calculator{ExchangeRate: numeric.MustRate("0.9"), Threshold: numeric.One(), PegRecoveryFee: numeric.MustRate("0.001")}
	assert.True(t, c.Active())

	tests := []struct {
		name    string
		mint    int64
		payment int64
		l       Ledger
		want    string
	}{
		// shortfall 100 large, fee capped at mint*0.001
		{"capped by rate", 111111, 100000, ledger(900000, 1000000, 0), "111"},
		// shortfall after bond: (1000+1110+0) - (900+1000) = 210, max fee 1
		{"small mint", 1110, 1000, ledger(900, 1000, 0), "1"},
		// fully backed after bond: no fee
		{"no shortfall", 1000, 2000, ledger(1000, 1000, 0), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.BondFee(big.NewInt(tt.mint), big.NewInt(tt.payment), tt.l)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBondFeeCappedByShortfall(t *testing.T) {
	c := Calculator{ExchangeRate: numeric.MustRate("0.99"), Threshold: numeric.One(), PegRecoveryFee: numeric.MustRate("0.5")}
	// required = (1000 + 100 + 0) - (995 + 99) = 6 < 100*0.5
	got := c.BondFee(big.NewInt(100), big.NewInt(99), ledger(995, 1000, 0))
	assert.Equal(t, "6", got.String())
}

func TestUnbondFee(t *testing.T) {
	c := Calculator{ExchangeRate: numeric.MustRate("0.9"), Threshold: numeric.One(), PegRecoveryFee: numeric.MustRate("0.1")}
	// required = (1000 + 50) - 950 = 100, max = 500*0.1 = 50
	assert.Equal(t, "50", c.UnbondFee(big.NewInt(500), ledger(950, 1000, 50)).String())
	// required = (1000 + 0) - 990 = 10
	assert.Equal(t, "10", c.UnbondFee(big.NewInt(500), ledger(990, 1000, 0)).String())
}
