// Package metrics exposes the engine's Prometheus gauges and counters,
// grounded on the lazily-initialised sync.Once registry pattern the teacher
// repo uses for its own PotsoMetrics singleton, generalized to the DSC
// debt-engine domain named in SPEC_FULL.md's AMBIENT STACK.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics collects the engine's gauges and counters. EventSink updates
// FrozenAssetCount and LiquidationCount; TotalDebt, TotalCollateralUSD and
// OperationFailures are created here but nothing in this module updates them.
type EngineMetrics struct {
	TotalDebt          prometheus.Gauge
	TotalCollateralUSD *prometheus.GaugeVec
	FrozenAssetCount   prometheus.Gauge
	LiquidationCount   prometheus.Counter
	OperationFailures  *prometheus.CounterVec
}

var (
	engineOnce     sync.Once
	engineRegistry *EngineMetrics
)

// Engine returns the lazily-initialised engine metrics registry.
func Engine() *EngineMetrics {
	engineOnce.Do(func() {
		engineRegistry = &EngineMetrics{
			TotalDebt: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "dsc",
				Subsystem: "engine",
				Name:      "total_debt_wei",
				Help:      "Total outstanding DSC debt across all accounts, 18-decimal.",
			}),
			TotalCollateralUSD: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "dsc",
				Subsystem: "engine",
				Name:      "total_collateral_usd",
				Help:      "Total collateral USD value held by the engine, by asset.",
			}, []string{"asset"}),
			FrozenAssetCount: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "dsc",
				Subsystem: "engine",
				Name:      "frozen_asset_count",
				Help:      "Current count of assets with an active freeze flag.",
			}),
			LiquidationCount: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "dsc",
				Subsystem: "engine",
				Name:      "liquidations_total",
				Help:      "Total number of successful liquidations.",
			}),
			OperationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "dsc",
				Subsystem: "engine",
				Name:      "operation_failures_total",
				Help:      "Count of failed engine operations by fault code.",
			}, []string{"code"}),
		}
	})
	return engineRegistry
}
