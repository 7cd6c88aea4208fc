package booking

import "errors"

var (
	// ErrNotFound indicates a booking or item does not exist.
	ErrNotFound = errors.New("booking: not found")
	// ErrProductNotFound indicates the catalog cannot resolve the item's
	// product reference. The item is a data-quality skip, not a failure.
	ErrProductNotFound = errors.New("booking: product not found")
	// ErrNegativeAmount indicates a normalized cost or sale amount below
	// zero. The row is excluded from the run and logged.
	ErrNegativeAmount = errors.New("booking: negative amount")
	// ErrZeroGrandTotal indicates a booking whose grand total is absent or
	// non-positive; its financials are left untouched.
	ErrZeroGrandTotal = errors.New("booking: grand total not positive")
)
