package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/imfoot/internal/calculator"
	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/storage"
)

// RecordSale counts one application to a networking meetup or one purchase of
// a tour report. Meetups must be open; reports keep selling after the tour
// ended. Settled items and sales that would push gross revenue past int64 are
// refused. Other categories have no per-sale counter.
func (e *Engine) RecordSale(ctx context.Context, itemID string) (*models.ContentItem, error) {
	item, err := e.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	next := *item
	switch l := item.Listing.(type) {
	case models.NetworkingListing:
		if item.Status != models.ItemStatusOpen {
			return nil, fmt.Errorf("%w: item %s is %s", ErrNotOpen, itemID, item.Status)
		}
		l.CurrentParticipants++
		next.Listing = l
	case models.TourReportListing:
		l.PurchaseCount++
		next.Listing = l
	case models.UnrecognizedListing:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, item.Category())
	default:
		return nil, fmt.Errorf("%w: %s", ErrSalesNotTracked, item.Category())
	}

	if item.Settlement == models.SettlementSettled {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySettled, itemID)
	}
	if _, err := calculator.Revenue(next, e.nominal); err != nil {
		return nil, err
	}

	err = e.store.RecordSale(ctx, itemID)
	switch {
	case errors.Is(err, storage.ErrFlagConflict):
		return nil, fmt.Errorf("%w: %s", ErrAlreadySettled, itemID)
	case errors.Is(err, storage.ErrItemNotFound):
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	case err != nil:
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	updated, err := e.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Sale recorded", "item_id", itemID, "category", updated.Category(),
		"count", models.CountsOf(updated.Listing))
	return updated, nil
}

// SetItemStatus moves an item through its lifecycle on behalf of the content
// subsystem. Settled items are frozen.
func (e *Engine) SetItemStatus(ctx context.Context, itemID string, status models.ItemStatus) (*models.ContentItem, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	item, err := e.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Settlement == models.SettlementSettled {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySettled, itemID)
	}

	if err := e.store.SetItemStatus(ctx, itemID, status); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to set item status: %w", err)
	}

	e.logger.Info("Item status changed", "item_id", itemID, "from", item.Status, "to", status)
	item.Status = status
	return item, nil
}
