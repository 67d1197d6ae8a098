package domain

import "fmt"

// MalformedEventError reports a raw event that could not be normalized.
// Malformed events are rejected, never coerced to zero values: a
// zero-quantity or zero-price fill matched as if real produces misleading
// positions downstream.
type MalformedEventError struct {
	Index  int    // position of the offending record in the input batch
	Field  string // the field that failed validation
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event at index %d: field %q: %s", e.Index, e.Field, e.Reason)
}

// InvalidPriceError reports a PnL computation attempted with a non-positive
// entry price. The division guard is applied uniformly: no computation path
// is allowed to return 0, Inf or NaN for a bad price.
type InvalidPriceError struct {
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid entry price %v: must be positive", e.Price)
}
