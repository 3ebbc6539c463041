// Package settlement implements the settlement and commission reconciliation
// engine: the ledger views, the pending → settled state machine, commission
// rate administration and the content creation gate.
//
// Everything except the per-item settlement flag and the global rate is
// recomputed from the item store on every call.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/imfoot/internal/calculator"
	"github.com/mmynk/imfoot/internal/metrics"
	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/storage"
)

// Engine evaluates settlements against a Store.
type Engine struct {
	store   storage.Store
	nominal calculator.NominalCounts
	logger  *slog.Logger
	now     func() time.Time
}

// New creates an Engine. nominal supplies the stand-in sale counts for
// categories that do not track per-seat sales.
func New(store storage.Store, nominal calculator.NominalCounts, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		nominal: nominal,
		logger:  logger,
		now:     time.Now,
	}
}

// Report is a ledger plus the items that were left out of it.
type Report struct {
	calculator.Ledger

	// Skipped lists items whose record could not be computed: unknown category,
	// unparseable price or gross revenue beyond int64.
	Skipped []*calculator.ItemError
}

// CommissionRate returns the current global commission percentage.
func (e *Engine) CommissionRate(ctx context.Context) (int, error) {
	rate, err := e.store.GetCommissionRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read commission rate: %w", err)
	}
	return rate, nil
}

// SetCommissionRate replaces the global commission percentage. Rates outside
// [0, 100] are rejected with ErrInvalidRate and the stored rate is unchanged.
// The new rate applies to every record on its next computation.
func (e *Engine) SetCommissionRate(ctx context.Context, rate int) error {
	if err := calculator.ValidateRate(rate); err != nil {
		metrics.ObserveRateChange(rate, err)
		e.logger.Warn("Commission rate rejected", "rate", rate)
		return err
	}

	if err := e.store.SetCommissionRate(ctx, rate); err != nil {
		metrics.ObserveRateChange(rate, err)
		return fmt.Errorf("failed to store commission rate: %w", err)
	}

	metrics.ObserveRateChange(rate, nil)
	e.logger.Info("Commission rate updated", "rate", rate)
	return nil
}

// Ledger builds the platform-wide ledger.
func (e *Engine) Ledger(ctx context.Context) (Report, error) {
	items, err := e.store.ListItems(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list items: %w", err)
	}
	return e.build(ctx, items)
}

// HostLedger builds the ledger restricted to hostID's items. Its totals are the
// host's own payable and receivable dues.
func (e *Engine) HostLedger(ctx context.Context, hostID string) (Report, error) {
	items, err := e.store.ListItemsByHost(ctx, hostID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list host items: %w", err)
	}
	return e.build(ctx, items)
}

func (e *Engine) build(ctx context.Context, items []models.ContentItem) (Report, error) {
	start := time.Now()

	rate, err := e.CommissionRate(ctx)
	if err != nil {
		metrics.ObserveLedgerBuild(start, 0, err)
		return Report{}, err
	}

	ledger, err := calculator.BuildLedger(items, rate, e.nominal)
	report := Report{Ledger: ledger}
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidRate) {
			metrics.ObserveLedgerBuild(start, 0, err)
			return Report{}, fmt.Errorf("stored commission rate is invalid: %w", err)
		}
		report.Skipped = itemErrors(err)
		for _, ie := range report.Skipped {
			e.logger.Error("Item excluded from ledger",
				"item_id", ie.ItemID,
				"error", ie.Err,
			)
		}
	}

	metrics.ObserveLedgerBuild(start, len(report.Skipped), nil)
	return report, nil
}

// itemErrors unpacks the per-item failures joined by calculator.BuildLedger.
func itemErrors(err error) []*calculator.ItemError {
	var out []*calculator.ItemError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, itemErrors(e)...)
		}
		return out
	}
	var ie *calculator.ItemError
	if errors.As(err, &ie) {
		out = append(out, ie)
	}
	return out
}

// getItem wraps store lookups so callers only see ErrItemNotFound.
func (e *Engine) getItem(ctx context.Context, itemID string) (*models.ContentItem, error) {
	item, err := e.store.GetItem(ctx, itemID)
	if errors.Is(err, storage.ErrItemNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// record derives the current settlement record for one item.
func (e *Engine) record(ctx context.Context, item *models.ContentItem) (models.SettlementRecord, error) {
	rate, err := e.CommissionRate(ctx)
	if err != nil {
		return models.SettlementRecord{}, err
	}

	record, ok, err := calculator.BuildRecord(*item, rate, e.nominal)
	if err != nil {
		e.logger.Error("Cannot classify item", "item_id", item.ID, "category", item.Category(), "error", err)
		return models.SettlementRecord{}, err
	}
	if !ok {
		return models.SettlementRecord{}, fmt.Errorf("%w: %s", ErrNothingToSettle, item.ID)
	}
	return record, nil
}
