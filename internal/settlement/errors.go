package settlement

import (
	"errors"

	"github.com/mmynk/imfoot/internal/calculator"
)

var (
	// ErrItemNotFound is returned when no item has the requested ID.
	ErrItemNotFound = errors.New("settlement: item not found")

	// ErrInvalidRate is returned for commission rates outside [0, 100].
	ErrInvalidRate = calculator.ErrInvalidRate

	// ErrUnknownCategory is returned when an item's category has no settlement rule.
	ErrUnknownCategory = calculator.ErrUnknownCategory

	// ErrNothingToSettle is returned when confirming an item with zero gross revenue.
	ErrNothingToSettle = errors.New("settlement: item has no revenue to settle")

	// ErrNotDue is returned when acting on an item that has not ended yet.
	ErrNotDue = errors.New("settlement: item has not ended")

	// ErrWrongDirection is returned when an action does not match the record's payment direction.
	ErrWrongDirection = errors.New("settlement: action does not match payment direction")

	// ErrAlreadySettled is returned by informational actions on a completed settlement.
	// Confirmation itself reports ResultAlreadySettled instead of this error.
	ErrAlreadySettled = errors.New("settlement: already settled")

	// ErrNotOwner is returned when a host acts on another host's item.
	ErrNotOwner = errors.New("settlement: item belongs to another host")

	// ErrSalesNotTracked is returned when recording a sale on a category whose
	// sale count is nominal or configured rather than counted.
	ErrSalesNotTracked = errors.New("settlement: category does not count individual sales")

	// ErrNotOpen is returned when applying to a meetup that is no longer open.
	ErrNotOpen = errors.New("settlement: item is not open")

	// ErrInvalidStatus is returned for unknown lifecycle statuses.
	ErrInvalidStatus = errors.New("settlement: invalid item status")

	// ErrInvalidItem is returned when a new item fails validation.
	ErrInvalidItem = errors.New("settlement: invalid item")

	// ErrCreationBlocked is matched by *BlockedError.
	ErrCreationBlocked = errors.New("settlement: content creation blocked")
)

// BlockedError is returned by CreateContent when the creation gate refuses the host.
type BlockedError struct {
	Decision GateDecision
}

func (e *BlockedError) Error() string {
	return ErrCreationBlocked.Error() + ": " + e.Decision.Reason
}

func (e *BlockedError) Unwrap() error {
	return ErrCreationBlocked
}
