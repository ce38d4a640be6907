package dsc

import "github.com/holiman/uint256"

// CollateralAsset is the engine's capability-set view of an external
// collateral token, spec.md §6. The engine physically holds collateral on
// behalf of accounts; a false return from a transfer is a failure, not an
// error — the caller maps it to ErrTransferFailed.
type CollateralAsset interface {
	TransferFrom(owner, self Address, amount *uint256.Int) (bool, error)
	Transfer(recipient Address, amount *uint256.Int) (bool, error)
	BalanceOf(account Address) *uint256.Int
}
