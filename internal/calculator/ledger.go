package calculator

import (
	"errors"

	"github.com/mmynk/imfoot/internal/models"
)

// Ledger is the set of settlement records derived from the item catalog at one
// commission rate. It is rebuilt on every query.
type Ledger struct {
	Rate    int
	Records []models.SettlementRecord
}

// BuildRecord derives the settlement record for one item. The boolean is false
// when the item has zero gross revenue and therefore nothing to settle.
func BuildRecord(item models.ContentItem, rate int, nominal NominalCounts) (models.SettlementRecord, bool, error) {
	direction, err := ResolveDirection(item.Category())
	if err != nil {
		return models.SettlementRecord{}, false, err
	}

	gross, err := Revenue(item, nominal)
	if err != nil {
		return models.SettlementRecord{}, false, err
	}
	if gross == 0 {
		return models.SettlementRecord{}, false, nil
	}

	fee, net, err := Fee(gross, rate)
	if err != nil {
		return models.SettlementRecord{}, false, err
	}

	return models.SettlementRecord{
		ItemID:        item.ID,
		HostID:        item.HostID,
		Title:         item.Title,
		Category:      item.Category(),
		ItemStatus:    item.Status,
		Rate:          rate,
		Gross:         gross,
		Fee:           fee,
		Net:           net,
		Direction:     direction,
		Status:        LedgerStatusOf(item),
		InvoiceSentAt: item.InvoiceSentAt,
		SettledAt:     item.SettledAt,
	}, true, nil
}

// LedgerStatusOf derives the ledger status from the item lifecycle and its settlement flag.
func LedgerStatusOf(item models.ContentItem) models.LedgerStatus {
	if item.Status != models.ItemStatusEnded {
		return models.LedgerActive
	}
	if item.Settlement == models.SettlementSettled {
		return models.LedgerCompleted
	}
	return models.LedgerPending
}

// BuildLedger derives settlement records for every item with nonzero revenue.
//
// An item that cannot be classified halts only that item: it is left out of the
// ledger and reported in the returned error as an *ItemError. The ledger is
// valid for all other items even when err is non-nil.
func BuildLedger(items []models.ContentItem, rate int, nominal NominalCounts) (Ledger, error) {
	if err := ValidateRate(rate); err != nil {
		return Ledger{}, err
	}

	ledger := Ledger{Rate: rate}
	var errs []error
	for _, item := range items {
		record, ok, err := BuildRecord(item, rate, nominal)
		if err != nil {
			errs = append(errs, &ItemError{ItemID: item.ID, Err: err})
			continue
		}
		if !ok {
			continue
		}
		ledger.Records = append(ledger.Records, record)
	}

	return ledger, errors.Join(errs...)
}

// TotalPayableDue sums the net amount of pending payable records:
// what the platform owes hosts.
func (l Ledger) TotalPayableDue() int64 {
	var total int64
	for _, r := range l.Records {
		if r.Status == models.LedgerPending && r.Direction == models.DirectionPayable {
			total += r.Net
		}
	}
	return total
}

// TotalReceivableDue sums the commission fee of pending receivable records:
// what hosts owe the platform.
func (l Ledger) TotalReceivableDue() int64 {
	var total int64
	for _, r := range l.Records {
		if r.Status == models.LedgerPending && r.Direction == models.DirectionReceivable {
			total += r.Fee
		}
	}
	return total
}

// ForHost returns the subset of the ledger owned by hostID.
func (l Ledger) ForHost(hostID string) Ledger {
	out := Ledger{Rate: l.Rate}
	for _, r := range l.Records {
		if r.HostID == hostID {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Pending returns the pending records with the given direction.
func (l Ledger) Pending(direction models.Direction) []models.SettlementRecord {
	var out []models.SettlementRecord
	for _, r := range l.Records {
		if r.Status == models.LedgerPending && r.Direction == direction {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the record for itemID.
func (l Ledger) Find(itemID string) (models.SettlementRecord, bool) {
	for _, r := range l.Records {
		if r.ItemID == itemID {
			return r, true
		}
	}
	return models.SettlementRecord{}, false
}
