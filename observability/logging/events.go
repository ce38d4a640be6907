package logging

import (
	"context"
	"log/slog"

	"dscengine/native/dsc"
)

// EventSink adapts a *slog.Logger into the engine's dsc.Sink interface:
// every engine event (deposits, redemptions and liquidation seizures,
// freeze/unfreeze transitions) is logged at Info. Guard rejections are not
// events; they are returned to the caller as errors and nothing logs them.
type EventSink struct {
	Logger *slog.Logger
}

// Emit implements dsc.Sink by type-switching over the engine's known event
// set and logging each at an appropriate level.
func (s EventSink) Emit(ev dsc.Event) {
	if s.Logger == nil {
		return
	}
	ctx := context.Background()
	switch e := ev.(type) {
	case dsc.CollateralDeposited:
		s.Logger.LogAttrs(ctx, slog.LevelInfo, "collateral deposited",
			slog.String("asset", e.Asset), slog.String("amount", e.Amount.String()))
	case dsc.CollateralRedeemed:
		s.Logger.LogAttrs(ctx, slog.LevelInfo, "collateral redeemed",
			slog.String("asset", e.Asset), slog.String("amount", e.Amount.String()))
	case dsc.AssetFrozen:
		s.Logger.LogAttrs(ctx, slog.LevelInfo, "asset frozen",
			slog.String("asset", e.Asset),
			slog.String("drop_pct", e.DropPct.String()),
			slog.String("last_price", e.LastPrice.String()),
			slog.String("current_price", e.CurrentPrice.String()))
	case dsc.SystemFrozen:
		s.Logger.LogAttrs(ctx, slog.LevelInfo, "system frozen", slog.Int("frozen_count", e.FrozenCount))
	case dsc.SystemUnfrozen:
		s.Logger.LogAttrs(ctx, slog.LevelInfo, "system unfrozen")
	}
}
