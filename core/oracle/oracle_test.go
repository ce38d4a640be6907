package oracle

import (
	"testing"
	"time"
)

func TestLatestPriceReturnsRegisteredQuote(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewClient(time.Hour)
	c.SetClock(func() time.Time { return now })
	c.Register("ETH", NewManualFeed(2000_00000000, now.Add(-time.Minute)))

	price, updatedAt, err := c.LatestPrice("ETH")
	if err != nil {
		t.Fatalf("LatestPrice() error = %v", err)
	}
	if price.Uint64() != 2000_00000000 {
		t.Fatalf("price = %s, want 200000000000", price)
	}
	if !updatedAt.Equal(now.Add(-time.Minute)) {
		t.Fatalf("updatedAt = %v, want %v", updatedAt, now.Add(-time.Minute))
	}
}

func TestLatestPriceNoSuchOracle(t *testing.T) {
	c := NewClient(time.Hour)
	if _, _, err := c.LatestPrice("BTC"); err != ErrNoSuchOracle {
		t.Fatalf("err = %v, want ErrNoSuchOracle", err)
	}
}

func TestLatestPriceStale(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewClient(time.Hour)
	c.SetClock(func() time.Time { return now })
	c.Register("ETH", NewManualFeed(2000_00000000, now.Add(-2*time.Hour)))

	if _, _, err := c.LatestPrice("ETH"); err != ErrStalePrice {
		t.Fatalf("err = %v, want ErrStalePrice", err)
	}
}

func TestLatestPriceRejectsNegative(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewClient(time.Hour)
	c.SetClock(func() time.Time { return now })
	c.Register("ETH", NewManualFeed(-1, now))

	if _, _, err := c.LatestPrice("ETH"); err != ErrNegativePrice {
		t.Fatalf("err = %v, want ErrNegativePrice", err)
	}
}

func TestLatestPriceZeroStalenessDisablesGuard(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewClient(0)
	c.SetClock(func() time.Time { return now })
	c.Register("ETH", NewManualFeed(2000_00000000, now.Add(-999*time.Hour)))

	if _, _, err := c.LatestPrice("ETH"); err != nil {
		t.Fatalf("LatestPrice() error = %v, want nil (staleness disabled)", err)
	}
}
