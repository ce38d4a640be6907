package metrics_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"dscengine/core/oracle"
	"dscengine/crypto"
	"dscengine/native/dsc"
	"dscengine/observability/logging"
	"dscengine/observability/metrics"
)

// noopAsset and noopStablecoin satisfy dsc.CollateralAsset and
// dsc.StablecoinAdapter with the minimum behavior the engine needs to run an
// operation end to end, without pulling in the dsc package's own unexported
// test fakes (which a _test.go file in another package cannot import).
type noopAsset struct{}

func (noopAsset) TransferFrom(owner, self dsc.Address, amount *uint256.Int) (bool, error) {
	return true, nil
}

func (noopAsset) Transfer(recipient dsc.Address, amount *uint256.Int) (bool, error) {
	return true, nil
}

func (noopAsset) BalanceOf(account dsc.Address) *uint256.Int { return uint256.NewInt(0) }

type noopStablecoin struct{}

func (noopStablecoin) Mint(to dsc.Address, amount *uint256.Int) (bool, error) { return true, nil }

func (noopStablecoin) Burn(amount *uint256.Int) error { return nil }

func (noopStablecoin) TransferFrom(from, self dsc.Address, amount *uint256.Int) (bool, error) {
	return true, nil
}

func mustAddress(t *testing.T, suffix byte) dsc.Address {
	t.Helper()
	raw := make([]byte, 20)
	raw[len(raw)-1] = suffix
	return crypto.MustNewAddress(crypto.AccountPrefix, raw)
}

// TestMultiSinkFansLiquidationToLoggingAndMetrics wires a DebtEngine's event
// sink to dsc.MultiSink{logging.EventSink, metrics.EventSink} exactly as
// SPEC_FULL.md's ambient-stack section describes, then drives a real
// liquidation through it and checks both wired sinks observed the event:
// the logging sink writes a structured "collateral redeemed" line and the
// metrics sink increments the liquidations counter.
func TestMultiSinkFansLiquidationToLoggingAndMetrics(t *testing.T) {
	ledger := dsc.NewLedger()
	oracleClient := oracle.NewClient(24 * time.Hour)
	admin := mustAddress(t, 0xAD)
	freeze, err := dsc.NewFreezeController(ledger, oracleClient, admin, 10, time.Hour)
	if err != nil {
		t.Fatalf("NewFreezeController() error = %v", err)
	}

	self := mustAddress(t, 0xE0)
	engine := dsc.NewDebtEngine(ledger, freeze, oracleClient, noopStablecoin{}, self)

	var logBuf bytes.Buffer
	logSink := logging.EventSink{Logger: slog.New(slog.NewJSONHandler(&logBuf, nil))}
	metricsRegistry := metrics.Engine()
	metricsSink := metrics.EventSink{Metrics: metricsRegistry}
	engine.SetSink(dsc.MultiSink{logSink, metricsSink})

	ethFeed := oracle.NewManualFeed(18_00000000, time.Now())
	oracleClient.Register("ETH-USD", ethFeed)
	if err := ledger.RegisterAsset(dsc.SupportedAsset{AssetID: "ETH", OracleID: "ETH-USD", Asset: noopAsset{}}); err != nil {
		t.Fatalf("RegisterAsset() error = %v", err)
	}

	victim := mustAddress(t, 1)
	liquidator := mustAddress(t, 2)
	// Collateral $18000 against $10000 debt clears the 110% bar, the same
	// scaled-up position engine_test.go uses to validate the liquidation
	// formula against spec.md S4's hard-coded payout.
	if err := engine.Deposit(victim, "ETH", mustUint(t, "1000000000000000000000")); err != nil {
		t.Fatalf("Deposit(victim) error = %v", err)
	}
	// The victim starts at HF = 0.9e18, which Mint would reject, so its debt
	// is seeded on the ledger directly.
	ledger.CreditDebt(victim, mustUint(t, "10000000000000000000000"))
	if err := engine.Deposit(liquidator, "ETH", mustUint(t, "1000000000000000000000")); err != nil {
		t.Fatalf("Deposit(liquidator) error = %v", err)
	}
	if err := engine.Mint(liquidator, mustUint(t, "1000000000000000000")); err != nil {
		t.Fatalf("Mint(liquidator) error = %v", err)
	}

	before := testutil.ToFloat64(metricsRegistry.LiquidationCount)
	if err := engine.Liquidate(liquidator, victim, "ETH", mustUint(t, "100000000000000000000")); err != nil {
		t.Fatalf("Liquidate() error = %v", err)
	}
	after := testutil.ToFloat64(metricsRegistry.LiquidationCount)
	if after != before+1 {
		t.Fatalf("LiquidationCount = %v, want %v", after, before+1)
	}

	var line map[string]any
	found := false
	for _, raw := range strings.Split(strings.TrimSpace(logBuf.String()), "\n") {
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("log line is not valid JSON: %v: %q", err, raw)
		}
		if line["msg"] == "collateral redeemed" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected a \"collateral redeemed\" log line, got: %s", logBuf.String())
	}
}

func mustUint(t *testing.T, s string) *uint256.Int {
	t.Helper()
	v, err := uint256.FromDecimal(s)
	if err != nil {
		t.Fatalf("uint256.FromDecimal(%q) error = %v", s, err)
	}
	return v
}
