package dsc

import "github.com/holiman/uint256"

// StablecoinAdapter is the narrow capability set the engine consumes from
// the external DSC token, spec.md §6. The token itself is peripheral and
// out of scope; only the engine is entitled to call Mint or Burn, a
// constraint the token implementation enforces, not this interface.
type StablecoinAdapter interface {
	Mint(to Address, amount *uint256.Int) (bool, error)
	Burn(amount *uint256.Int) error
	TransferFrom(from, self Address, amount *uint256.Int) (bool, error)
}
