package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/imfoot/internal/metrics"
	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/storage"
)

// Result is the outcome of a settlement confirmation.
type Result string

const (
	// ResultSettled means this call moved the record from pending to settled.
	ResultSettled Result = "settled"

	// ResultAlreadySettled means the record was settled before this call; nothing changed.
	ResultAlreadySettled Result = "already_settled"
)

// Confirmation is returned by the confirmation actions.
type Confirmation struct {
	Result Result

	// Record is the settlement record as observed after the call.
	Record models.SettlementRecord
}

// action names used in logs and metrics
const (
	actionConfirm        = "confirm"
	actionFeePayment     = "confirm_fee_payment"
	actionTransferPayout = "transfer_payout"
)

// ConfirmSettlement moves a pending record to settled regardless of direction.
// Confirming a settled record is a no-op reported as ResultAlreadySettled.
func (e *Engine) ConfirmSettlement(ctx context.Context, itemID string) (Confirmation, error) {
	return e.confirm(ctx, itemID, "", actionConfirm)
}

// ConfirmFeePayment records that the host paid the invoiced commission of a
// receivable record.
func (e *Engine) ConfirmFeePayment(ctx context.Context, itemID string) (Confirmation, error) {
	return e.confirm(ctx, itemID, models.DirectionReceivable, actionFeePayment)
}

// TransferPayout records that the platform paid the host the net amount of a
// payable record.
func (e *Engine) TransferPayout(ctx context.Context, itemID string) (Confirmation, error) {
	return e.confirm(ctx, itemID, models.DirectionPayable, actionTransferPayout)
}

func (e *Engine) confirm(ctx context.Context, itemID string, want models.Direction, action string) (Confirmation, error) {
	conf, err := e.transition(ctx, itemID, want)
	outcome := string(conf.Result)
	if err != nil {
		outcome = "rejected"
	}
	metrics.IncConfirmation(action, outcome)

	if err != nil {
		e.logger.Warn("Settlement confirmation rejected", "action", action, "item_id", itemID, "error", err)
		return conf, err
	}
	e.logger.Info("Settlement confirmation",
		"action", action,
		"item_id", itemID,
		"result", conf.Result,
		"direction", conf.Record.Direction,
		"amount", conf.Record.Due(),
	)
	return conf, nil
}

// transition is the pending → settled state machine. active → pending is not an
// action; it follows the item's lifecycle reaching ended.
func (e *Engine) transition(ctx context.Context, itemID string, want models.Direction) (Confirmation, error) {
	item, err := e.getItem(ctx, itemID)
	if err != nil {
		return Confirmation{}, err
	}

	record, err := e.record(ctx, item)
	if err != nil {
		return Confirmation{}, err
	}
	if want != "" && record.Direction != want {
		return Confirmation{}, fmt.Errorf("%w: item %s is %s", ErrWrongDirection, itemID, record.Direction)
	}

	switch record.Status {
	case models.LedgerCompleted:
		return Confirmation{Result: ResultAlreadySettled, Record: record}, nil
	case models.LedgerActive:
		return Confirmation{}, fmt.Errorf("%w: item %s is %s", ErrNotDue, itemID, item.Status)
	}

	settledAt := e.now().Unix()
	err = e.store.SwapSettlementFlag(ctx, itemID, models.SettlementPending, models.SettlementSettled, settledAt)
	switch {
	case errors.Is(err, storage.ErrFlagConflict):
		// Another confirmation won the race; report its result.
		return e.observe(ctx, itemID, ResultAlreadySettled)
	case errors.Is(err, storage.ErrItemNotFound):
		return Confirmation{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	case err != nil:
		return Confirmation{}, fmt.Errorf("failed to settle item: %w", err)
	}

	return e.observe(ctx, itemID, ResultSettled)
}

// observe re-reads the item so the returned record reflects the stored flag.
func (e *Engine) observe(ctx context.Context, itemID string, result Result) (Confirmation, error) {
	item, err := e.getItem(ctx, itemID)
	if err != nil {
		return Confirmation{}, err
	}
	record, err := e.record(ctx, item)
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{Result: result, Record: record}, nil
}

// MarkInvoiceSent records that the host issued the commission invoice for a
// pending receivable item. It is informational and never settles the record.
func (e *Engine) MarkInvoiceSent(ctx context.Context, hostID, itemID string) (models.SettlementRecord, error) {
	item, err := e.getItem(ctx, itemID)
	if err != nil {
		return models.SettlementRecord{}, err
	}
	if item.HostID != hostID {
		return models.SettlementRecord{}, fmt.Errorf("%w: %s", ErrNotOwner, itemID)
	}

	record, err := e.record(ctx, item)
	if err != nil {
		return models.SettlementRecord{}, err
	}
	if record.Direction != models.DirectionReceivable {
		return models.SettlementRecord{}, fmt.Errorf("%w: item %s is %s", ErrWrongDirection, itemID, record.Direction)
	}
	switch record.Status {
	case models.LedgerActive:
		return models.SettlementRecord{}, fmt.Errorf("%w: item %s is %s", ErrNotDue, itemID, item.Status)
	case models.LedgerCompleted:
		return models.SettlementRecord{}, fmt.Errorf("%w: %s", ErrAlreadySettled, itemID)
	}

	sentAt := e.now().Unix()
	if err := e.store.MarkInvoiceSent(ctx, itemID, sentAt); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return models.SettlementRecord{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return models.SettlementRecord{}, fmt.Errorf("failed to mark invoice sent: %w", err)
	}

	e.logger.Info("Invoice marked sent", "host_id", hostID, "item_id", itemID, "fee", record.Fee)
	record.InvoiceSentAt = sentAt
	return record, nil
}
