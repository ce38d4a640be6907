package dsc

import (
	"github.com/holiman/uint256"

	"dscengine/core/fixedpoint"
	"dscengine/core/oracle"
)

// DebtEngine is the public operation surface of spec.md §4.5: deposit,
// mint, deposit_and_mint, burn, redeem, redeem_for_dsc, liquidate. It owns
// the Ledger and consults the FreezeController and PriceOracleClient on
// every mutating call, generalizing native/lending.Engine's single-asset
// borrow/repay surface to a multi-collateral mint/burn engine.
//
// Reentrancy: a mutating operation takes the engine's binary lock at entry
// and releases it on every exit path (spec.md §5, §9). The lock guards
// against re-entrant callbacks from the external asset/stablecoin adapters
// invoked mid-operation, not against concurrent goroutines — the engine's
// execution model is single-threaded per spec.md §5.
type DebtEngine struct {
	ledger     *Ledger
	freeze     *FreezeController
	oracle     *oracle.Client
	stablecoin StablecoinAdapter
	sink       Sink

	// self is the engine's own custody address: the "self" half of the
	// owner/self pull-into-custody pattern spec.md §6 and the
	// CollateralAsset/StablecoinAdapter interfaces describe. External
	// assets are transferred from the caller into this address, not into
	// the caller's own account.
	self Address

	locked bool
}

// NewDebtEngine wires the engine's collaborators together. self is the
// engine's own custody address, passed as the destination of every
// TransferFrom pull.
func NewDebtEngine(ledger *Ledger, freeze *FreezeController, oracleClient *oracle.Client, stablecoin StablecoinAdapter, self Address) *DebtEngine {
	return &DebtEngine{
		ledger:     ledger,
		freeze:     freeze,
		oracle:     oracleClient,
		stablecoin: stablecoin,
		self:       self,
		sink:       NopSink{},
	}
}

// SetSink overrides the event sink.
func (e *DebtEngine) SetSink(sink Sink) {
	if e == nil || sink == nil {
		return
	}
	e.sink = sink
}

func (e *DebtEngine) enter() error {
	if e.locked {
		return ErrReentered
	}
	e.locked = true
	return nil
}

func (e *DebtEngine) exit() {
	e.locked = false
}

// HealthFactorOf computes the caller's current health factor. A pure view
// operation (P7): it touches the ledger and oracle but mutates nothing.
func (e *DebtEngine) HealthFactorOf(addr Address) (*uint256.Int, error) {
	return e.computeHealthFactor(addr)
}

// CollateralValueUSD returns the USD value of every collateral asset the
// account holds. A pure view operation (P7).
func (e *DebtEngine) CollateralValueUSD(addr Address) (*uint256.Int, error) {
	prices, err := e.priceAccountAssets(addr)
	if err != nil {
		return nil, err
	}
	return e.ledger.CollateralUSDValue(addr, prices), nil
}

func (e *DebtEngine) priceAccountAssets(addr Address) (map[string]*uint256.Int, error) {
	ids := e.ledger.AccountAssetIDs(addr)
	prices := make(map[string]*uint256.Int, len(ids))
	for _, assetID := range ids {
		asset, ok := e.ledger.Asset(assetID)
		if !ok {
			continue
		}
		price, _, err := e.oracle.LatestPrice(asset.OracleID)
		if err != nil {
			return nil, translateOracleErr(err)
		}
		prices[assetID] = price
	}
	return prices, nil
}

func (e *DebtEngine) computeHealthFactor(addr Address) (*uint256.Int, error) {
	prices, err := e.priceAccountAssets(addr)
	if err != nil {
		return nil, err
	}
	collateralUSD := e.ledger.CollateralUSDValue(addr, prices)
	debt := e.ledger.Debt(addr)
	return HealthFactor(collateralUSD, debt), nil
}

func (e *DebtEngine) guardAsset(assetID string, amount *uint256.Int) (*SupportedAsset, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrAmountZero
	}
	asset, ok := e.ledger.Asset(assetID)
	if !ok {
		return nil, ErrAssetUnsupported
	}
	if asset.Frozen {
		return nil, ErrAssetFrozen
	}
	if e.freeze.SystemFrozen() {
		return nil, ErrSystemFrozen
	}
	return asset, nil
}

func (e *DebtEngine) guardAmountOnly(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrAmountZero
	}
	if e.freeze.SystemFrozen() {
		return ErrSystemFrozen
	}
	return nil
}

func (e *DebtEngine) requireHealthy(addr Address) error {
	hf, err := e.computeHealthFactor(addr)
	if err != nil {
		return err
	}
	if !IsHealthy(hf) {
		return LowHealthFactor(hf)
	}
	return nil
}

// Deposit implements spec.md §4.5 deposit(asset, amount): G1-G5, no
// post-check (deposits cannot break HF).
func (e *DebtEngine) Deposit(caller Address, assetID string, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	asset, err := e.guardAsset(assetID, amount)
	if err != nil {
		return err
	}

	e.ledger.CreditCollateral(caller, assetID, amount)
	e.sink.Emit(CollateralDeposited{User: caller, Asset: assetID, Amount: amount})

	ok, err := asset.Asset.TransferFrom(caller, e.self, amount)
	if err != nil || !ok {
		e.ledger.DebitCollateral(caller, assetID, amount)
		return ErrTransferFailed
	}
	return nil
}

// Mint implements spec.md §4.5 mint(amount): G1, G4, G5, post-check HF >= 1.
func (e *DebtEngine) Mint(caller Address, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if err := e.guardAmountOnly(amount); err != nil {
		return err
	}

	e.ledger.CreditDebt(caller, amount)

	if err := e.requireHealthy(caller); err != nil {
		e.ledger.DebitDebt(caller, amount) // best-effort rollback; CEI keeps this the only mutation so far
		return err
	}

	ok, err := e.stablecoin.Mint(caller, amount)
	if err != nil || !ok {
		e.ledger.DebitDebt(caller, amount)
		return ErrMintFailed
	}
	return nil
}

// DepositAndMint implements spec.md §4.5 deposit_and_mint(asset, c_amt,
// mint_amt): the union of Deposit and Mint's guards, state changes, and
// external effects, with a single post-check.
func (e *DebtEngine) DepositAndMint(caller Address, assetID string, collateralAmount, mintAmount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	asset, err := e.guardAsset(assetID, collateralAmount)
	if err != nil {
		return err
	}
	if mintAmount == nil || mintAmount.IsZero() {
		return ErrAmountZero
	}

	e.ledger.CreditCollateral(caller, assetID, collateralAmount)
	e.sink.Emit(CollateralDeposited{User: caller, Asset: assetID, Amount: collateralAmount})
	e.ledger.CreditDebt(caller, mintAmount)

	if err := e.requireHealthy(caller); err != nil {
		e.ledger.DebitDebt(caller, mintAmount)
		e.ledger.DebitCollateral(caller, assetID, collateralAmount)
		return err
	}

	if ok, err := asset.Asset.TransferFrom(caller, e.self, collateralAmount); err != nil || !ok {
		e.ledger.DebitDebt(caller, mintAmount)
		e.ledger.DebitCollateral(caller, assetID, collateralAmount)
		return ErrTransferFailed
	}
	if ok, err := e.stablecoin.Mint(caller, mintAmount); err != nil || !ok {
		e.ledger.DebitDebt(caller, mintAmount)
		e.ledger.DebitCollateral(caller, assetID, collateralAmount)
		return ErrMintFailed
	}
	return nil
}

// Burn implements spec.md §4.5 burn(amount): G1, G4; HF can only improve.
func (e *DebtEngine) Burn(caller Address, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if amount == nil || amount.IsZero() {
		return ErrAmountZero
	}
	if e.freeze.SystemFrozen() {
		return ErrSystemFrozen
	}

	if err := e.ledger.DebitDebt(caller, amount); err != nil {
		return err
	}

	ok, err := e.stablecoin.TransferFrom(caller, e.self, amount)
	if err != nil || !ok {
		e.ledger.CreditDebt(caller, amount)
		return ErrTransferFailed
	}
	if err := e.stablecoin.Burn(amount); err != nil {
		e.ledger.CreditDebt(caller, amount)
		return ErrMintFailed
	}
	return nil
}

// Redeem implements spec.md §4.5 redeem(asset, amount): G1-G5, post-check
// HF >= 1.
func (e *DebtEngine) Redeem(caller Address, assetID string, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	asset, err := e.guardAsset(assetID, amount)
	if err != nil {
		return err
	}

	if err := e.ledger.DebitCollateral(caller, assetID, amount); err != nil {
		return err
	}

	if err := e.requireHealthy(caller); err != nil {
		e.ledger.CreditCollateral(caller, assetID, amount)
		return err
	}

	ok, err := asset.Asset.Transfer(caller, amount)
	if err != nil || !ok {
		e.ledger.CreditCollateral(caller, assetID, amount)
		return ErrTransferFailed
	}
	e.sink.Emit(CollateralRedeemed{From: caller, To: caller, Asset: assetID, Amount: amount})
	return nil
}

// RedeemForDSC implements spec.md §4.5 redeem_for_dsc(asset, c_amt,
// dsc_amt): burn first, then redeem, single post-check.
func (e *DebtEngine) RedeemForDSC(caller Address, assetID string, collateralAmount, dscAmount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	asset, ok := e.ledger.Asset(assetID)
	if !ok {
		return ErrAssetUnsupported
	}
	if asset.Frozen {
		return ErrAssetFrozen
	}
	if e.freeze.SystemFrozen() {
		return ErrSystemFrozen
	}
	if collateralAmount == nil || collateralAmount.IsZero() || dscAmount == nil || dscAmount.IsZero() {
		return ErrAmountZero
	}

	if err := e.ledger.DebitDebt(caller, dscAmount); err != nil {
		return err
	}
	if err := e.ledger.DebitCollateral(caller, assetID, collateralAmount); err != nil {
		e.ledger.CreditDebt(caller, dscAmount)
		return err
	}

	if err := e.requireHealthy(caller); err != nil {
		e.ledger.CreditCollateral(caller, assetID, collateralAmount)
		e.ledger.CreditDebt(caller, dscAmount)
		return err
	}

	if ok, err := e.stablecoin.TransferFrom(caller, e.self, dscAmount); err != nil || !ok {
		e.ledger.CreditCollateral(caller, assetID, collateralAmount)
		e.ledger.CreditDebt(caller, dscAmount)
		return ErrTransferFailed
	}
	if err := e.stablecoin.Burn(dscAmount); err != nil {
		e.ledger.CreditCollateral(caller, assetID, collateralAmount)
		e.ledger.CreditDebt(caller, dscAmount)
		return ErrMintFailed
	}
	if ok, err := asset.Asset.Transfer(caller, collateralAmount); err != nil || !ok {
		e.ledger.CreditCollateral(caller, assetID, collateralAmount)
		e.ledger.CreditDebt(caller, dscAmount)
		return ErrTransferFailed
	}
	e.sink.Emit(CollateralRedeemed{From: caller, To: caller, Asset: assetID, Amount: collateralAmount})
	return nil
}

// Liquidate implements spec.md §4.5/§4.5's liquidation algorithm: a
// liquidator repays debt_to_cover of victim's DSC debt in exchange for a
// 10%-bonus share of victim's asset collateral, valued at the current
// oracle price.
func (e *DebtEngine) Liquidate(caller, victim Address, assetID string, debtToCover *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if debtToCover == nil || debtToCover.IsZero() {
		return ErrAmountZero
	}
	if e.freeze.SystemFrozen() {
		return ErrSystemFrozen
	}
	asset, ok := e.ledger.Asset(assetID)
	if !ok {
		return ErrAssetUnsupported
	}

	hf0, err := e.computeHealthFactor(victim)
	if err != nil {
		return err
	}
	if IsHealthy(hf0) {
		return ErrHealthOk
	}

	price, _, err := e.oracle.LatestPrice(asset.OracleID)
	if err != nil {
		return translateOracleErr(err)
	}

	cBase := fixedpoint.AssetAmount(price, debtToCover)
	bonus := new(uint256.Int).Div(new(uint256.Int).Mul(cBase, LiqBonus), LiqPrecision)
	cSeize := new(uint256.Int).Add(cBase, bonus)

	if err := e.ledger.DebitCollateral(victim, assetID, cSeize); err != nil {
		// spec.md §9 design note (c): seizure underflow is treated as an
		// operation abort, not a silent clamp.
		return err
	}
	if err := e.ledger.DebitDebt(victim, debtToCover); err != nil {
		e.ledger.CreditCollateral(victim, assetID, cSeize)
		return err
	}

	hf1, err := e.computeHealthFactor(victim)
	if err != nil {
		e.ledger.CreditDebt(victim, debtToCover)
		e.ledger.CreditCollateral(victim, assetID, cSeize)
		return err
	}
	if hf1.Cmp(hf0) <= 0 {
		e.ledger.CreditDebt(victim, debtToCover)
		e.ledger.CreditCollateral(victim, assetID, cSeize)
		return ErrHealthNotImproved
	}

	if err := e.requireHealthy(caller); err != nil {
		e.ledger.CreditDebt(victim, debtToCover)
		e.ledger.CreditCollateral(victim, assetID, cSeize)
		return err
	}

	if ok, err := e.stablecoin.TransferFrom(caller, e.self, debtToCover); err != nil || !ok {
		e.ledger.CreditDebt(victim, debtToCover)
		e.ledger.CreditCollateral(victim, assetID, cSeize)
		return ErrTransferFailed
	}
	if err := e.stablecoin.Burn(debtToCover); err != nil {
		e.ledger.CreditDebt(victim, debtToCover)
		e.ledger.CreditCollateral(victim, assetID, cSeize)
		return ErrMintFailed
	}
	if ok, err := asset.Asset.Transfer(caller, cSeize); err != nil || !ok {
		e.ledger.CreditDebt(victim, debtToCover)
		e.ledger.CreditCollateral(victim, assetID, cSeize)
		return ErrTransferFailed
	}
	e.sink.Emit(CollateralRedeemed{From: victim, To: caller, Asset: assetID, Amount: cSeize})
	return nil
}
