package models

// Direction is the money-flow direction of a settlement.
type Direction string

const (
	// DirectionPayable means the platform collected the payment and owes the host the net amount.
	DirectionPayable Direction = "payable"

	// DirectionReceivable means the host collected the payment directly and owes
	// the platform the commission fee.
	DirectionReceivable Direction = "receivable"
)

// LedgerStatus is the derived settlement status of a record.
type LedgerStatus string

const (
	// LedgerActive means the item has not ended yet; nothing is due.
	LedgerActive LedgerStatus = "active"

	// LedgerPending means the item ended and the settlement is unconfirmed.
	LedgerPending LedgerStatus = "pending"

	// LedgerCompleted means the settlement was confirmed.
	LedgerCompleted LedgerStatus = "completed"
)

// SettlementRecord is the derived settlement view of one ContentItem.
// It is recomputed on every query and never persisted.
type SettlementRecord struct {
	// ItemID is the ID of the underlying content item.
	ItemID string

	// HostID is the host who owns the item.
	HostID string

	// Title is the item title, carried for display.
	Title string

	// Category is the item category.
	Category Category

	// ItemStatus is the item's lifecycle status at query time.
	ItemStatus ItemStatus

	// Rate is the commission percentage the record was computed with.
	Rate int

	// Gross is unit price × resolved sale count.
	Gross int64

	// Fee is the platform commission: floor(Gross × Rate / 100).
	Fee int64

	// Net is Gross − Fee.
	Net int64

	// Direction is who owes whom.
	Direction Direction

	// Status is the derived ledger status.
	Status LedgerStatus

	// InvoiceSentAt is copied from the item (informational).
	InvoiceSentAt int64

	// SettledAt is copied from the item; zero unless completed.
	SettledAt int64
}

// Due returns the amount that changes hands when the record settles:
// the net payout for payable records, the commission fee for receivable ones.
func (r SettlementRecord) Due() int64 {
	if r.Direction == DirectionPayable {
		return r.Net
	}
	return r.Fee
}
