// Package dsc implements the collateralized debt engine for the DSC
// stablecoin: ledger accounting, the health-factor invariant, the public
// DebtEngine operations, and the oracle-driven freeze controller. It is
// modeled on the teacher repo's native/lending engine, generalized from a
// single-collateral interest-bearing money market to a multi-asset,
// interest-free, over-collateralized mint/burn engine per spec.md.
package dsc

import (
	"time"

	"github.com/holiman/uint256"

	"dscengine/core/fixedpoint"
	"dscengine/crypto"
)

// Precision and FeedScale are re-exported from core/fixedpoint so callers of
// this package never need to import both to read the same two constants,
// spec.md §6.
var (
	Precision = fixedpoint.Precision
	FeedScale = fixedpoint.FeedScale
)

// Protocol constants exposed as read-only getters, spec.md §6.
var (
	// LiqThreshold is the numerator of the collateral haircut (50%).
	LiqThreshold = uint256.NewInt(50)
	// LiqPrecision is the denominator of the collateral haircut.
	LiqPrecision = uint256.NewInt(100)
	// LiqBonus is the liquidator's bonus share, in percent, of the covered
	// USD value paid in seized collateral.
	LiqBonus = uint256.NewInt(10)
	// MinHF is the minimum acceptable health factor, 1.0 in 18-decimal
	// fixed point. A health factor below this value is liquidatable.
	MinHF = uint256.NewInt(1_000_000_000_000_000_000)
)

// MinFreezeDuration is the minimum time the system must stay frozen before
// an admin may attempt unfreeze_system.
const MinFreezeDuration = 24 * time.Hour

// AssetFreezeThreshold is the number of simultaneously frozen assets that
// trips the global system freeze.
const AssetFreezeThreshold = 2

// MaxHF represents "infinite" health factor for a zero-debt account: the
// maximum value the fixed-point type can hold.
var MaxHF = new(uint256.Int).Not(uint256.NewInt(0))

// SupportedAsset describes one collateral asset the engine accepts.
type SupportedAsset struct {
	AssetID           string
	OracleID          string
	Asset             CollateralAsset
	Frozen            bool
	LastObservedPrice *uint256.Int
	LastCheckTime     time.Time
}

// Account is the per-user ledger row: DSC debt plus a per-asset collateral
// balance map. A zero-value Account (never stored) is implicitly how an
// unseen account reads: zero debt, zero balances.
type Account struct {
	Debt       *uint256.Int
	Collateral map[string]*uint256.Int
}

func newAccount() *Account {
	return &Account{Debt: uint256.NewInt(0), Collateral: make(map[string]*uint256.Int)}
}

func (a *Account) balanceOf(assetID string) *uint256.Int {
	if a == nil {
		return uint256.NewInt(0)
	}
	if bal, ok := a.Collateral[assetID]; ok {
		return bal
	}
	return uint256.NewInt(0)
}

// SystemState tracks the global freeze machine of spec.md §4.6.
type SystemState struct {
	SystemFrozen     bool
	FrozenAssetCount int
	FreezeTime       time.Time
	MaxDropPct       *uint256.Int
	CheckInterval    time.Duration
}

// Address is the 20-byte account identifier used throughout the engine,
// aliased from the crypto package rather than redeclared so the ledger and
// the rest of the codebase share one identity type.
type Address = crypto.Address
