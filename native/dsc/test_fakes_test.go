package dsc

import (
	"sync"

	"github.com/holiman/uint256"

	"dscengine/crypto"
)

// fakeCollateralAsset is a function-field fake for CollateralAsset, the same
// shape services/lending/server/test_fakes.go uses for its fakeEngine: every
// capability is an overridable func field, with a sane default that records
// balances in-memory so tests need not stub every method.
type fakeCollateralAsset struct {
	mu       sync.Mutex
	balances map[string]*uint256.Int
	held     *uint256.Int

	transferFromFn func(owner, self Address, amount *uint256.Int) (bool, error)
	transferFn     func(recipient Address, amount *uint256.Int) (bool, error)
	balanceOfFn    func(account Address) *uint256.Int
}

func newFakeCollateralAsset() *fakeCollateralAsset {
	return &fakeCollateralAsset{balances: make(map[string]*uint256.Int), held: uint256.NewInt(0)}
}

func (f *fakeCollateralAsset) TransferFrom(owner, self Address, amount *uint256.Int) (bool, error) {
	if f.transferFromFn != nil {
		return f.transferFromFn(owner, self, amount)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held = new(uint256.Int).Add(f.held, amount)
	return true, nil
}

func (f *fakeCollateralAsset) Transfer(recipient Address, amount *uint256.Int) (bool, error) {
	if f.transferFn != nil {
		return f.transferFn(recipient, amount)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held.Lt(amount) {
		return false, nil
	}
	f.held = new(uint256.Int).Sub(f.held, amount)
	return true, nil
}

func (f *fakeCollateralAsset) BalanceOf(account Address) *uint256.Int {
	if f.balanceOfFn != nil {
		return f.balanceOfFn(account)
	}
	return uint256.NewInt(0)
}

// fakeStablecoin is a function-field fake for StablecoinAdapter.
type fakeStablecoin struct {
	mu     sync.Mutex
	supply *uint256.Int

	mintFn         func(to Address, amount *uint256.Int) (bool, error)
	burnFn         func(amount *uint256.Int) error
	transferFromFn func(from, self Address, amount *uint256.Int) (bool, error)
}

func newFakeStablecoin() *fakeStablecoin {
	return &fakeStablecoin{supply: uint256.NewInt(0)}
}

func (f *fakeStablecoin) Mint(to Address, amount *uint256.Int) (bool, error) {
	if f.mintFn != nil {
		return f.mintFn(to, amount)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supply = new(uint256.Int).Add(f.supply, amount)
	return true, nil
}

func (f *fakeStablecoin) Burn(amount *uint256.Int) error {
	if f.burnFn != nil {
		return f.burnFn(amount)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supply = new(uint256.Int).Sub(f.supply, amount)
	return nil
}

func (f *fakeStablecoin) TransferFrom(from, self Address, amount *uint256.Int) (bool, error) {
	if f.transferFromFn != nil {
		return f.transferFromFn(from, self, amount)
	}
	return true, nil
}

// makeAddress constructs a deterministic test address, mirroring
// native/lending's makeAddress test helper.
func makeAddress(suffix byte) Address {
	raw := make([]byte, 20)
	raw[len(raw)-1] = suffix
	return crypto.MustNewAddress(crypto.AccountPrefix, raw)
}
