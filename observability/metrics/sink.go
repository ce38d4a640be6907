package metrics

import "dscengine/native/dsc"

// EventSink adapts the engine metrics registry into dsc.Sink, incrementing
// or adjusting gauges/counters as events are emitted. It composes with
// logging.EventSink via a fan-out sink when both are wired.
type EventSink struct {
	Metrics *EngineMetrics
}

// Emit implements dsc.Sink.
func (s EventSink) Emit(ev dsc.Event) {
	if s.Metrics == nil {
		return
	}
	switch e := ev.(type) {
	case dsc.AssetFrozen:
		s.Metrics.FrozenAssetCount.Inc()
	case dsc.SystemUnfrozen:
		s.Metrics.FrozenAssetCount.Set(0)
	case dsc.CollateralRedeemed:
		// Liquidation seizures are the only CollateralRedeemed events where
		// the recipient differs from the account the collateral was seized
		// from; a self-redemption never trips the liquidation counter.
		if !e.From.Equal(e.To) {
			s.Metrics.LiquidationCount.Inc()
		}
	}
}
