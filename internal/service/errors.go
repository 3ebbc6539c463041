package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/imfoot/internal/calculator"
	"github.com/mmynk/imfoot/internal/settlement"
)

// toConnectError maps engine errors to Connect status codes.
func toConnectError(err error) *connect.Error {
	var code connect.Code
	switch {
	case errors.Is(err, settlement.ErrItemNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, settlement.ErrInvalidRate),
		errors.Is(err, settlement.ErrInvalidItem),
		errors.Is(err, settlement.ErrInvalidStatus),
		errors.Is(err, calculator.ErrInvalidPrice):
		code = connect.CodeInvalidArgument
	case errors.Is(err, settlement.ErrNotDue),
		errors.Is(err, settlement.ErrWrongDirection),
		errors.Is(err, settlement.ErrNothingToSettle),
		errors.Is(err, settlement.ErrAlreadySettled),
		errors.Is(err, settlement.ErrCreationBlocked),
		errors.Is(err, settlement.ErrSalesNotTracked),
		errors.Is(err, settlement.ErrNotOpen),
		errors.Is(err, calculator.ErrAmountOverflow):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, settlement.ErrNotOwner):
		code = connect.CodePermissionDenied
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	default:
		// Includes ErrUnknownCategory on stored items: the data is wrong, not the request.
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
