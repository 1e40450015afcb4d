// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package numeric holds the fixed point arithmetic of the vault.
//
// Amounts are unsigned integers in the smallest unit of a token or coin.
// Rates are 18-decimal fixed point values. Every product or quotient of an
// amount and a rate is truncated toward zero, so the vault can only lose dust
// to rounding and never mint or pay out value that is not backed. Do not
// replace the truncating operations with rounding ones.
package numeric

import (
	"math/big"

	"cosmossdk.io/math"
)

// Rate is an 18-decimal fixed point ratio.
type Rate = math.LegacyDec

// One returns the rate 1.0.
func One() Rate { return math.LegacyOneDec() }

// Zero returns the rate 0.0.
func Zero() Rate { return math.LegacyZeroDec() }

// MustRate parses a decimal string such as "0.001", panicking on malformed input.
func MustRate(s string) Rate { return math.LegacyMustNewDecFromStr(s) }

// ParseRate parses a decimal string such as "0.001".
func ParseRate(s string) (Rate, error) { return math.LegacyNewDecFromStr(s) }

// RateFromBig restores a rate from its scaled integer form.
func RateFromBig(scaled *big.Int) Rate {
	if scaled == nil {
		return Zero()
	}
	return math.LegacyNewDecFromBigIntWithPrec(new(big.Int).Set(scaled), math.LegacyPrecision)
}

// RateToBig returns the scaled integer form of a rate, used for storage.
func RateToBig(r Rate) *big.Int {
	if r.IsNil() {
		return new(big.Int)
	}
	return r.BigInt()
}

// Ratio returns num/den truncated to 18 decimals. A zero denominator yields zero.
func Ratio(num, den *big.Int) Rate {
	if den.Sign() == 0 {
		return Zero()
	}
	return math.LegacyNewDecFromBigInt(num).QuoTruncate(math.LegacyNewDecFromBigInt(den))
}

// MulRate returns amount*rate truncated to an integer.
func MulRate(amount *big.Int, rate Rate) *big.Int {
	return math.LegacyNewDecFromBigInt(amount).MulTruncate(rate).TruncateInt().BigInt()
}

// DivRate returns amount/rate truncated to an integer. A zero rate yields zero.
func DivRate(amount *big.Int, rate Rate) *big.Int {
	if rate.IsZero() {
		return new(big.Int)
	}
	return math.LegacyNewDecFromBigInt(amount).QuoTruncate(rate).TruncateInt().BigInt()
}

// SubSat returns a-b, or zero if b > a.
func SubSat(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(a, b)
}

// Min returns a copy of the smaller of a and b.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// Sum adds up amounts into a new integer.
func Sum(amounts ...*big.Int) *big.Int {
	sum := new(big.Int)
	for _, a := range amounts {
		sum.Add(sum, a)
	}
	return sum
}
