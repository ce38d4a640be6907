// Package fixedpoint implements the 256-bit unsigned fixed-point arithmetic
// the engine uses to convert oracle prices into USD-denominated collateral
// and debt values. See spec.md §4.2.
package fixedpoint

import (
	"errors"

	"github.com/holiman/uint256"
)

// ErrDivisionByZero signals a caller invoked a division helper with a zero
// divisor. Callers must validate prices are strictly positive before
// reaching these helpers; a zero divisor here is a programming fault, not a
// recoverable runtime condition.
var ErrDivisionByZero = errors.New("fixedpoint: division by zero")

// Precision is the fixed-point scale shared by the stablecoin and all
// USD-denominated values: 1e18.
var Precision = uint256.NewInt(1_000_000_000_000_000_000)

// FeedScale lifts an 8-decimal oracle price up to Precision's 18 decimals:
// 1e10.
var FeedScale = uint256.NewInt(10_000_000_000)

// USDValue converts a collateral amount (18-decimal) quoted at price8Dec
// (8-decimal, non-negative) into an 18-decimal USD value:
//
//	usd = price * FeedScale * amount / Precision
//
// The multiplication is carried out in 512-bit width via MulDivOverflow so
// neither intermediate product can overflow the 256-bit inputs; division
// truncates toward zero.
func USDValue(price8Dec, amount18Dec *uint256.Int) *uint256.Int {
	scaledPrice := new(uint256.Int).Mul(price8Dec, FeedScale)
	result, overflow := new(uint256.Int).MulDivOverflow(scaledPrice, amount18Dec, Precision)
	if overflow {
		panic("fixedpoint: usd value overflow")
	}
	return result
}

// AssetAmount converts a USD value (18-decimal) into the equivalent asset
// amount (18-decimal) at price8Dec:
//
//	amount = usd * Precision / (price * FeedScale)
//
// Division by zero (price8Dec == 0) panics with ErrDivisionByZero: the
// caller must have validated the oracle price is strictly positive before
// calling, per spec.md §4.2.
func AssetAmount(price8Dec, usd18Dec *uint256.Int) *uint256.Int {
	denom := new(uint256.Int).Mul(price8Dec, FeedScale)
	if denom.IsZero() {
		panic(ErrDivisionByZero)
	}
	result, overflow := new(uint256.Int).MulDivOverflow(usd18Dec, Precision, denom)
	if overflow {
		panic("fixedpoint: asset amount overflow")
	}
	return result
}
