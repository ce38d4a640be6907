package dsc

import (
	"sort"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"dscengine/core/fixedpoint"
)

// Ledger maps (account, asset) -> collateral balance and account -> DSC debt,
// plus the enumeration of supported collateral assets, grounded on
// native/lending's in-memory Market/UserAccount bookkeeping generalized to a
// multi-asset model. Account identity uses the address's bech32 string form
// as the map key, the same convention native/lending's tests use for
// map[string]*UserAccount.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	assets   map[string]*SupportedAsset
}

// NewLedger constructs an empty ledger with no supported assets.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
		assets:   make(map[string]*SupportedAsset),
	}
}

// RegisterAsset adds a collateral asset to the supported set. It is an
// admin-time operation, not part of the mutating operation surface, so it
// performs no freeze/guard checks of its own.
func (l *Ledger) RegisterAsset(asset SupportedAsset) error {
	if asset.AssetID == "" {
		return faultf(CodeBadConfig, "dsc: asset id must not be empty")
	}
	if asset.OracleID == "" {
		return faultf(CodeBadConfig, "dsc: asset %s: oracle id must not be empty", asset.AssetID)
	}
	if asset.Asset == nil {
		return faultf(CodeBadConfig, "dsc: asset %s: collateral adapter must not be nil", asset.AssetID)
	}
	if asset.LastObservedPrice == nil {
		asset.LastObservedPrice = uint256.NewInt(0)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.assets[asset.AssetID]; exists {
		return faultf(CodeBadConfig, "dsc: asset %s already registered", asset.AssetID)
	}
	stored := asset
	l.assets[asset.AssetID] = &stored
	return nil
}

// Asset returns the supported asset record, or (nil, false) if unsupported.
func (l *Ledger) Asset(assetID string) (*SupportedAsset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assets[assetID]
	return a, ok
}

// AssetIDs returns every registered collateral asset id, sorted for
// deterministic iteration. FreezeController.UnfreezeSystem uses this to
// enumerate frozen assets itself rather than trusting a caller-supplied list.
func (l *Ledger) AssetIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.assets))
	for id := range l.assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// assetLocked must be called with l.mu already held (read or write).
func (l *Ledger) assetLocked(assetID string) (*SupportedAsset, bool) {
	a, ok := l.assets[assetID]
	return a, ok
}

func addrKey(addr Address) string { return addr.String() }

func (l *Ledger) accountLocked(addr Address) *Account {
	key := addrKey(addr)
	acct, ok := l.accounts[key]
	if !ok {
		acct = newAccount()
		l.accounts[key] = acct
	}
	return acct
}

// CollateralBalance returns the caller's balance of asset, defaulting to zero
// for an unseen account. A pure view operation (P7).
func (l *Ledger) CollateralBalance(addr Address, assetID string) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[addrKey(addr)]
	if !ok {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(acct.balanceOf(assetID))
}

// Debt returns the caller's outstanding DSC debt, defaulting to zero. A pure
// view operation (P7).
func (l *Ledger) Debt(addr Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[addrKey(addr)]
	if !ok {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(acct.Debt)
}

// CreditCollateral increments balance[addr][assetID] by amount. Grounded on
// spec.md §4.3: increments cannot fault.
func (l *Ledger) CreditCollateral(addr Address, assetID string, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.accountLocked(addr)
	current := acct.balanceOf(assetID)
	acct.Collateral[assetID] = new(uint256.Int).Add(current, amount)
}

// DebitCollateral decrements balance[addr][assetID] by amount, faulting if
// the decrement would underflow (spec.md §4.3: "an operation that would
// drive a balance negative is a fault").
func (l *Ledger) DebitCollateral(addr Address, assetID string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.accountLocked(addr)
	current := acct.balanceOf(assetID)
	if current.Lt(amount) {
		return faultf(CodeBadConfig, "dsc: insufficient %s balance: have %s, need %s", assetID, current, amount)
	}
	acct.Collateral[assetID] = new(uint256.Int).Sub(current, amount)
	return nil
}

// CreditDebt increments debt[addr] by amount.
func (l *Ledger) CreditDebt(addr Address, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.accountLocked(addr)
	acct.Debt = new(uint256.Int).Add(acct.Debt, amount)
}

// DebitDebt decrements debt[addr] by amount, faulting on underflow.
func (l *Ledger) DebitDebt(addr Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.accountLocked(addr)
	if acct.Debt.Lt(amount) {
		return faultf(CodeBadConfig, "dsc: debt underflow: have %s, need %s", acct.Debt, amount)
	}
	acct.Debt = new(uint256.Int).Sub(acct.Debt, amount)
	return nil
}

// CollateralUSDValue sums the USD value of every supported asset the
// account holds, using each asset's current oracle price. It is the first
// step of HealthFactor (spec.md §4.4).
func (l *Ledger) CollateralUSDValue(addr Address, prices map[string]*uint256.Int) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[addrKey(addr)]
	total := uint256.NewInt(0)
	if !ok {
		return total
	}
	for assetID, balance := range acct.Collateral {
		if balance.IsZero() {
			continue
		}
		price, ok := prices[assetID]
		if !ok {
			continue
		}
		total = new(uint256.Int).Add(total, fixedpoint.USDValue(price, balance))
	}
	return total
}

// AccountAssetIDs returns the asset ids the account holds a nonzero balance
// of, used to restrict price lookups during health-factor computation to
// assets actually held rather than every supported asset.
func (l *Ledger) AccountAssetIDs(addr Address) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[addrKey(addr)]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(acct.Collateral))
	for assetID, balance := range acct.Collateral {
		if !balance.IsZero() {
			ids = append(ids, assetID)
		}
	}
	return ids
}

// MarkAssetFrozen sets (frozen=true) or clears (frozen=false) the per-asset
// frozen flag; used by FreezeController, never directly by DebtEngine
// operations.
func (l *Ledger) MarkAssetFrozen(assetID string, frozen bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.assetLocked(assetID); ok {
		a.Frozen = frozen
	}
}

// SetObservedPrice records the asset's last-observed price and check time.
func (l *Ledger) SetObservedPrice(assetID string, price *uint256.Int, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.assetLocked(assetID); ok {
		a.LastObservedPrice = price
		a.LastCheckTime = at
	}
}
