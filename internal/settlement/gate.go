package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mmynk/imfoot/internal/calculator"
	"github.com/mmynk/imfoot/internal/metrics"
	"github.com/mmynk/imfoot/internal/models"
)

// GateDecision is the creation gate's verdict for one host.
type GateDecision struct {
	Allowed bool

	// Reason explains a blocked decision; empty when allowed.
	Reason string

	// BlockingItems are the IDs of the host's pending receivable items.
	BlockingItems []string

	// OutstandingFee is the commission the host owes across BlockingItems.
	OutstandingFee int64
}

// CanCreateContent decides whether hostID may publish new content.
//
// A host is blocked while any of their receivable records is pending (ended,
// unsettled, commission owed). Pending payable records never block. The
// decision is computed from the current ledger on every call. If any of the
// host's items cannot be classified the gate fails with ErrUnknownCategory
// instead of guessing.
func (e *Engine) CanCreateContent(ctx context.Context, hostID string) (GateDecision, error) {
	items, err := e.store.ListItemsByHost(ctx, hostID)
	if err != nil {
		return GateDecision{}, fmt.Errorf("failed to list host items: %w", err)
	}
	rate, err := e.CommissionRate(ctx)
	if err != nil {
		return GateDecision{}, err
	}

	ledger, err := calculator.BuildLedger(items, rate, e.nominal)
	if err != nil {
		e.logger.Error("Creation gate cannot evaluate host ledger", "host_id", hostID, "error", err)
		return GateDecision{}, fmt.Errorf("failed to evaluate creation gate for %s: %w", hostID, err)
	}

	decision := decide(ledger)
	metrics.IncGateDecision(decision.Allowed)
	if !decision.Allowed {
		e.logger.Info("Content creation blocked",
			"host_id", hostID,
			"outstanding_fee", decision.OutstandingFee,
			"items", len(decision.BlockingItems),
		)
	}
	return decision, nil
}

func decide(ledger calculator.Ledger) GateDecision {
	pending := ledger.Pending(models.DirectionReceivable)
	if len(pending) == 0 {
		return GateDecision{Allowed: true}
	}

	decision := GateDecision{}
	for _, r := range pending {
		decision.BlockingItems = append(decision.BlockingItems, r.ItemID)
		decision.OutstandingFee += r.Fee
	}
	decision.Reason = fmt.Sprintf("outstanding commission owed: %s원 across %d item(s)",
		humanize.Comma(decision.OutstandingFee), len(pending))
	return decision
}

// CreateContent publishes a new item for hostID after consulting the creation
// gate. A blocked host gets a *BlockedError and nothing is stored. The item is
// created open with a pending settlement flag; its ID is assigned here.
//
// Participant and purchase counts start at zero whatever the request carried;
// they only grow through RecordSale. Matchmaking seat targets are kept as given.
func (e *Engine) CreateContent(ctx context.Context, hostID string, item models.ContentItem) (*models.ContentItem, error) {
	item, err := e.prepareNewItem(hostID, item)
	if err != nil {
		return nil, err
	}

	decision, err := e.CanCreateContent(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &BlockedError{Decision: decision}
	}

	if err := e.store.CreateItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	e.logger.Info("Content created", "host_id", hostID, "item_id", item.ID, "category", item.Category())
	return &item, nil
}

// prepareNewItem validates a new item and resets the fields the engine owns.
func (e *Engine) prepareNewItem(hostID string, item models.ContentItem) (models.ContentItem, error) {
	if strings.TrimSpace(hostID) == "" {
		return item, fmt.Errorf("%w: host id required", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Title) == "" {
		return item, fmt.Errorf("%w: title required", ErrInvalidItem)
	}
	if _, err := calculator.ResolveDirection(item.Category()); err != nil {
		return item, err
	}

	counts := models.CountsOf(item.Listing)
	if counts.CurrentParticipants < 0 || counts.PurchaseCount < 0 || counts.MaleSeats < 0 || counts.FemaleSeats < 0 {
		return item, fmt.Errorf("%w: counts must not be negative", ErrInvalidItem)
	}

	switch item.Listing.(type) {
	case models.NetworkingListing:
		item.Listing = models.NetworkingListing{}
	case models.TourReportListing:
		item.Listing = models.TourReportListing{}
	}

	// Gross must be representable for the counts the item starts with
	if _, err := calculator.Revenue(item, e.nominal); err != nil {
		return item, errors.Join(ErrInvalidItem, err)
	}

	item.ID = ""
	item.HostID = hostID
	item.Status = models.ItemStatusOpen
	item.Settlement = models.SettlementPending
	item.InvoiceSentAt = 0
	item.SettledAt = 0
	item.CreatedAt = 0
	return item, nil
}
