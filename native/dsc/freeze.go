package dsc

import (
	"errors"
	"time"

	"github.com/holiman/uint256"

	"dscengine/core/oracle"
)

// FreezeController implements the per-asset and global freeze state machine
// of spec.md §4.6. It is the only component permitted to mutate a
// SupportedAsset's Frozen flag or the SystemState it holds, mirroring the
// teacher's native/common.Guard pattern of a single pause authority consulted
// by every mutating operation.
type FreezeController struct {
	ledger *Ledger
	oracle *oracle.Client
	admin  Address
	clock  func() time.Time
	sink   Sink

	state SystemState
}

// NewFreezeController constructs a controller bound to ledger and oracle,
// with maxDropPct (percent, 0 < maxDropPct <= 50) and checkInterval
// (>= 1 hour) as the initial risk parameters. A maxDropPct of zero is a
// misconfiguration per spec.md design note (d) and rejected as BadConfig.
func NewFreezeController(ledger *Ledger, oracleClient *oracle.Client, admin Address, maxDropPct uint64, checkInterval time.Duration) (*FreezeController, error) {
	if maxDropPct == 0 || maxDropPct > 50 {
		return nil, faultf(CodeBadConfig, "dsc: max_drop_pct must be in (0, 50], got %d", maxDropPct)
	}
	if checkInterval < time.Hour {
		return nil, faultf(CodeBadConfig, "dsc: check_interval must be >= 1h, got %s", checkInterval)
	}
	return &FreezeController{
		ledger: ledger,
		oracle: oracleClient,
		admin:  admin,
		clock:  time.Now,
		sink:   NopSink{},
		state: SystemState{
			MaxDropPct:    uint256.NewInt(maxDropPct),
			CheckInterval: checkInterval,
		},
	}, nil
}

// SetClock overrides the time source for deterministic tests.
func (f *FreezeController) SetClock(clock func() time.Time) {
	if f == nil || clock == nil {
		return
	}
	f.clock = clock
}

// SetSink overrides the event sink.
func (f *FreezeController) SetSink(sink Sink) {
	if f == nil || sink == nil {
		return
	}
	f.sink = sink
}

// SystemFrozen reports the global freeze flag. A pure view operation (P7).
func (f *FreezeController) SystemFrozen() bool {
	return f.state.SystemFrozen
}

// AssetFrozen reports a single asset's freeze flag. A pure view operation.
func (f *FreezeController) AssetFrozen(assetID string) bool {
	asset, ok := f.ledger.Asset(assetID)
	if !ok {
		return false
	}
	return asset.Frozen
}

// UpdateParameters is the admin surface of spec.md §6:
// update_parameters(max_drop_pct, check_interval).
func (f *FreezeController) UpdateParameters(caller Address, maxDropPct uint64, checkInterval time.Duration) error {
	if !caller.Equal(f.admin) {
		return faultf(CodeBadConfig, "dsc: caller is not admin")
	}
	if maxDropPct == 0 || maxDropPct > 50 {
		return faultf(CodeBadConfig, "dsc: max_drop_pct must be in (0, 50], got %d", maxDropPct)
	}
	if checkInterval < time.Hour {
		return faultf(CodeBadConfig, "dsc: check_interval must be >= 1h, got %s", checkInterval)
	}
	f.state.MaxDropPct = uint256.NewInt(maxDropPct)
	f.state.CheckInterval = checkInterval
	return nil
}

// CheckPriceDrop implements spec.md §4.6 step by step. Anyone may call it
// (it is a keeper-style trigger, not an admin action).
func (f *FreezeController) CheckPriceDrop(assetID string) (bool, error) {
	asset, ok := f.ledger.Asset(assetID)
	if !ok {
		return false, ErrAssetUnsupported
	}
	if asset.Frozen {
		return false, ErrAssetFrozen
	}
	now := f.clock()
	if !asset.LastCheckTime.IsZero() && now.Sub(asset.LastCheckTime) < f.state.CheckInterval {
		return false, ErrCheckTooSoon
	}

	current, _, err := f.oracle.LatestPrice(asset.OracleID)
	if err != nil {
		return false, translateOracleErr(err)
	}

	last := asset.LastObservedPrice
	if last == nil || last.IsZero() {
		f.ledger.SetObservedPrice(assetID, current, now)
		return false, nil
	}

	// (b) checked subtract: treat a price increase as a 0% drop rather than
	// underflowing the unsigned subtraction.
	var dropPct *uint256.Int
	if current.Cmp(last) >= 0 {
		dropPct = uint256.NewInt(0)
	} else {
		delta := new(uint256.Int).Sub(last, current)
		dropPct, _ = new(uint256.Int).MulDivOverflow(delta, uint256.NewInt(100), last)
	}

	if dropPct.Cmp(f.state.MaxDropPct) >= 0 {
		// (a) preserve the prior baseline on freeze; do not advance
		// last_observed_price or last_check_time.
		f.ledger.MarkAssetFrozen(assetID, true)
		f.state.FrozenAssetCount++
		f.sink.Emit(AssetFrozen{Asset: assetID, LastPrice: last, CurrentPrice: current, DropPct: dropPct})
		if f.state.FrozenAssetCount >= AssetFreezeThreshold && !f.state.SystemFrozen {
			f.state.SystemFrozen = true
			f.state.FreezeTime = now
			f.sink.Emit(SystemFrozen{FrozenCount: f.state.FrozenAssetCount})
		}
		return true, nil
	}

	f.ledger.SetObservedPrice(assetID, current, now)
	return false, nil
}

// UnfreezeAsset is the admin-only recovery path of spec.md §4.6.
func (f *FreezeController) UnfreezeAsset(caller Address, assetID string) error {
	if !caller.Equal(f.admin) {
		return faultf(CodeBadConfig, "dsc: caller is not admin")
	}
	asset, ok := f.ledger.Asset(assetID)
	if !ok {
		return ErrAssetUnsupported
	}
	if !asset.Frozen {
		return faultf(CodeBadConfig, "dsc: asset %s is not frozen", assetID)
	}
	current, _, err := f.oracle.LatestPrice(asset.OracleID)
	if err != nil {
		return translateOracleErr(err)
	}
	if !recovered(current, asset.LastObservedPrice) {
		return ErrPriceDropExceeded
	}
	f.ledger.MarkAssetFrozen(assetID, false)
	f.state.FrozenAssetCount--
	if f.state.FrozenAssetCount <= 0 {
		f.state.FrozenAssetCount = 0
		if f.state.SystemFrozen {
			f.state.SystemFrozen = false
			f.state.FreezeTime = time.Time{}
			f.sink.Emit(SystemUnfrozen{})
		}
	}
	return nil
}

// UnfreezeSystem is the admin-only global thaw of spec.md §4.6:
// unfreeze_system(), taking no asset list from the caller. It requires the
// system has been frozen at least MinFreezeDuration and enumerates every
// registered asset itself so a caller can never leave a still-frozen asset
// out of the recovery check: frozen_asset_count must equal the count of
// assets with frozen_flag = true (spec.md §3) both before and after.
func (f *FreezeController) UnfreezeSystem(caller Address) error {
	if !caller.Equal(f.admin) {
		return faultf(CodeBadConfig, "dsc: caller is not admin")
	}
	if !f.state.SystemFrozen {
		return faultf(CodeBadConfig, "dsc: system is not frozen")
	}
	now := f.clock()
	if now.Sub(f.state.FreezeTime) < MinFreezeDuration {
		return ErrTooEarly
	}
	var frozenIDs []string
	for _, assetID := range f.ledger.AssetIDs() {
		asset, ok := f.ledger.Asset(assetID)
		if !ok || !asset.Frozen {
			continue
		}
		frozenIDs = append(frozenIDs, assetID)
		current, _, err := f.oracle.LatestPrice(asset.OracleID)
		if err != nil {
			return translateOracleErr(err)
		}
		if !recovered(current, asset.LastObservedPrice) {
			return ErrPriceDropExceeded
		}
	}
	for _, assetID := range frozenIDs {
		f.ledger.MarkAssetFrozen(assetID, false)
	}
	f.state.FrozenAssetCount = 0
	f.state.SystemFrozen = false
	f.state.FreezeTime = time.Time{}
	f.sink.Emit(SystemUnfrozen{})
	return nil
}

// recovered reports whether current >= 90% of the preserved baseline.
func recovered(current, lastObserved *uint256.Int) bool {
	threshold, _ := new(uint256.Int).MulDivOverflow(lastObserved, uint256.NewInt(90), uint256.NewInt(100))
	return current.Cmp(threshold) >= 0
}

func translateOracleErr(err error) error {
	switch {
	case errors.Is(err, oracle.ErrNoSuchOracle):
		return ErrNoSuchOracle
	case errors.Is(err, oracle.ErrStalePrice):
		return ErrOracleStale
	default:
		return ErrOracleFault
	}
}
