package dsc

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestHealthFactorZeroDebtIsMax(t *testing.T) {
	hf := HealthFactor(uint256.NewInt(1_000_000), uint256.NewInt(0))
	if !hf.Eq(MaxHF) {
		t.Fatalf("HealthFactor() = %s, want MaxHF", hf)
	}
}

// TestHealthFactorMatchesScenarioS2 reproduces spec.md S2: 20000e18 USD
// collateral, 10000e18 DSC debt => HF = 1.0e18 exactly.
func TestHealthFactorMatchesScenarioS2(t *testing.T) {
	collateralUSD := mustDecimal("20000000000000000000000")
	debt := mustDecimal("10000000000000000000000")
	hf := HealthFactor(collateralUSD, debt)
	if !hf.Eq(Precision) {
		t.Fatalf("HF = %s, want %s", hf, Precision)
	}
	if !IsHealthy(hf) {
		t.Fatalf("expected HF = 1.0 to be healthy")
	}
}

// TestHealthFactorMatchesScenarioS3 reproduces spec.md S3's price collapse to
// $18 on a 10 ETH / 10000 DSC position. At $18/ETH the 10 ETH position is
// worth $180, haircut to $90 against $10000 debt: HF = 0.009e18, not the
// 0.9e18 figure spec.md's prose states for this scenario. The formula is
// fixed by S2 (HF = 1.0e18 exactly at $2000/ETH) and by S4's hard-coded
// liquidation payout (6111111111111111110 wei, which only reproduces at
// $18/ETH, confirming the price point) — S3's narrated HF value is the one
// inconsistent figure, documented in DESIGN.md; this test asserts the
// formula-consistent result.
func TestHealthFactorMatchesScenarioS3(t *testing.T) {
	collateralUSD := mustDecimal("180000000000000000000") // 10 ETH * $18
	debt := mustDecimal("10000000000000000000000")
	hf := HealthFactor(collateralUSD, debt)
	want := mustDecimal("9000000000000000")
	if !hf.Eq(want) {
		t.Fatalf("HF = %s, want %s", hf, want)
	}
	if IsHealthy(hf) {
		t.Fatalf("expected deeply undercollateralized position to be unhealthy")
	}
}

func TestIsHealthyBoundary(t *testing.T) {
	if !IsHealthy(Precision) {
		t.Fatalf("HF == MinHF must be healthy")
	}
	below := new(uint256.Int).Sub(Precision, uint256.NewInt(1))
	if IsHealthy(below) {
		t.Fatalf("HF == MinHF - 1 must be unhealthy")
	}
}
