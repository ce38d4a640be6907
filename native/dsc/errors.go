package dsc

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Code enumerates the engine's sum-typed error taxonomy (spec.md §7). Names
// are semantic fault categories, not Go error types — most are sentinel
// values; LowHealthFactor additionally carries the offending HF so callers
// can log or surface it without a second query.
type Code string

const (
	CodeAmountZero         Code = "amount_zero"
	CodeAssetUnsupported   Code = "asset_unsupported"
	CodeAssetFrozen        Code = "asset_frozen"
	CodeSystemFrozen       Code = "system_frozen"
	CodeTransferFailed     Code = "transfer_failed"
	CodeMintFailed         Code = "mint_failed"
	CodeLowHealthFactor    Code = "low_health_factor"
	CodeHealthOk           Code = "health_ok"
	CodeHealthNotImproved  Code = "health_not_improved"
	CodeOracleStale        Code = "oracle_stale"
	CodeOracleFault        Code = "oracle_fault"
	CodePriceDropExceeded  Code = "price_drop_exceeded"
	CodeCheckTooSoon       Code = "check_too_soon"
	CodeReentered          Code = "reentered"
	CodeBadConfig          Code = "bad_config"
	CodeNoSuchOracle       Code = "no_such_oracle"
	CodeTooEarly           Code = "too_early"
)

// Fault is the engine's single tagged error variant. It satisfies the error
// interface the same way native/swap.RiskViolation does in the teacher repo,
// carrying an optional HF payload for CodeLowHealthFactor.
type Fault struct {
	Code    Code
	Message string
	HF      *uint256.Int
}

// Error satisfies the error interface.
func (f *Fault) Error() string {
	if f == nil {
		return ""
	}
	if f.Message != "" {
		return f.Message
	}
	if f.Code == CodeLowHealthFactor && f.HF != nil {
		return fmt.Sprintf("dsc: low health factor: %s", f.HF)
	}
	return fmt.Sprintf("dsc: %s", f.Code)
}

// Is allows errors.Is(err, fault(CodeXxx)) comparisons by Code alone.
func (f *Fault) Is(target error) bool {
	other, ok := target.(*Fault)
	if !ok || other == nil || f == nil {
		return false
	}
	return f.Code == other.Code
}

func fault(code Code) *Fault { return &Fault{Code: code} }

func faultf(code Code, format string, args ...interface{}) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

// LowHealthFactor constructs the payload-carrying variant used whenever an
// operation's post-check finds HF below MinHF.
func LowHealthFactor(hf *uint256.Int) *Fault {
	return &Fault{Code: CodeLowHealthFactor, HF: hf}
}

var (
	ErrAmountZero        = fault(CodeAmountZero)
	ErrAssetUnsupported  = fault(CodeAssetUnsupported)
	ErrAssetFrozen       = fault(CodeAssetFrozen)
	ErrSystemFrozen      = fault(CodeSystemFrozen)
	ErrTransferFailed    = fault(CodeTransferFailed)
	ErrMintFailed        = fault(CodeMintFailed)
	ErrHealthOk          = fault(CodeHealthOk)
	ErrHealthNotImproved = fault(CodeHealthNotImproved)
	ErrOracleStale       = fault(CodeOracleStale)
	ErrOracleFault       = fault(CodeOracleFault)
	ErrPriceDropExceeded = fault(CodePriceDropExceeded)
	ErrCheckTooSoon      = fault(CodeCheckTooSoon)
	ErrReentered         = fault(CodeReentered)
	ErrBadConfig         = fault(CodeBadConfig)
	ErrNoSuchOracle      = fault(CodeNoSuchOracle)
	ErrTooEarly          = fault(CodeTooEarly)
)
