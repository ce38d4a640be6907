package dsc

import "github.com/holiman/uint256"

// HealthFactor is a pure, reentrancy-free function of an account's total
// collateral USD value and outstanding debt (spec.md §4.4):
//
//	HF = (collateralUSD * LiqThreshold / LiqPrecision * Precision) / debt
//
// A zero-debt account's health factor is defined as MaxHF ("+infinity").
func HealthFactor(collateralUSD, debt *uint256.Int) *uint256.Int {
	if debt.IsZero() {
		return new(uint256.Int).Set(MaxHF)
	}
	haircut, overflow := new(uint256.Int).MulDivOverflow(collateralUSD, LiqThreshold, LiqPrecision)
	if overflow {
		panic("dsc: health factor haircut overflow")
	}
	hf, overflow := new(uint256.Int).MulDivOverflow(haircut, Precision, debt)
	if overflow {
		panic("dsc: health factor scaling overflow")
	}
	return hf
}

// IsHealthy reports whether hf satisfies the solvency invariant HF >= MinHF.
func IsHealthy(hf *uint256.Int) bool {
	return hf.Cmp(MinHF) >= 0
}
