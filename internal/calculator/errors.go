package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is returned when an item's category has no settlement rule.
	// Misclassifying a category would misdirect money, so there is no default.
	ErrUnknownCategory = errors.New("calculator: unknown category")

	// ErrInvalidRate is returned for commission rates outside [0, 100].
	ErrInvalidRate = errors.New("calculator: commission rate must be between 0 and 100")

	// ErrInvalidPrice is returned when a display price cannot be represented.
	ErrInvalidPrice = errors.New("calculator: invalid price")

	// ErrAmountOverflow is returned when gross revenue exceeds int64.
	ErrAmountOverflow = errors.New("calculator: amount overflow")
)

// ItemError ties a calculation failure to the item that caused it.
type ItemError struct {
	ItemID string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %s: %v", e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
