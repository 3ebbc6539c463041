package service

import (
	"github.com/mmynk/imfoot/internal/calculator"
	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/settlement"
)

// Record is the wire form of a settlement record. Amounts are whole won.
type Record struct {
	ItemID        string `json:"item_id"`
	HostID        string `json:"host_id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	ItemStatus    string `json:"item_status"`
	Rate          int    `json:"rate"`
	Gross         int64  `json:"gross"`
	Fee           int64  `json:"fee"`
	Net           int64  `json:"net"`
	Direction     string `json:"direction"`
	Status        string `json:"status"`
	InvoiceSentAt int64  `json:"invoice_sent_at,omitempty"`
	SettledAt     int64  `json:"settled_at,omitempty"`
}

// SkippedItem is an item left out of a ledger because it could not be classified.
type SkippedItem struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// Ledger is the wire form of a ledger report.
type Ledger struct {
	Rate               int           `json:"rate"`
	Records            []Record      `json:"records"`
	TotalPayableDue    int64         `json:"total_payable_due"`
	TotalReceivableDue int64         `json:"total_receivable_due"`
	Skipped            []SkippedItem `json:"skipped,omitempty"`
}

// Item is the wire form of a content item.
type Item struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	HostID              string `json:"host_id"`
	Category            string `json:"category"`
	Status              string `json:"status"`
	Price               string `json:"price"`
	CurrentParticipants int    `json:"current_participants,omitempty"`
	PurchaseCount       int    `json:"purchase_count,omitempty"`
	MaleSeats           int    `json:"male_seats,omitempty"`
	FemaleSeats         int    `json:"female_seats,omitempty"`
	CreatedAt           int64  `json:"created_at"`
}

type ListLedgerRequest struct{}

type ListLedgerResponse struct {
	Ledger Ledger `json:"ledger"`
}

type ConfirmRequest struct {
	ItemID string `json:"item_id"`
}

type ConfirmResponse struct {
	Result string `json:"result"`
	Record Record `json:"record"`
}

type GetCommissionRateRequest struct{}

type SetCommissionRateRequest struct {
	Rate int `json:"rate"`
}

type CommissionRateResponse struct {
	Rate int `json:"rate"`
}

type GetLedgerRequest struct{}

type GetLedgerResponse struct {
	Ledger Ledger `json:"ledger"`
}

type MarkInvoiceSentRequest struct {
	ItemID string `json:"item_id"`
}

type MarkInvoiceSentResponse struct {
	Record Record `json:"record"`
}

type CheckCreationRequest struct{}

type CheckCreationResponse struct {
	Allowed        bool     `json:"allowed"`
	Reason         string   `json:"reason,omitempty"`
	BlockingItems  []string `json:"blocking_items,omitempty"`
	OutstandingFee int64    `json:"outstanding_fee"`
}

// CreateContentRequest carries no participant or purchase counts: those start
// at zero and grow through AdminService.RecordSale.
type CreateContentRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	MaleSeats   int    `json:"male_seats,omitempty"`
	FemaleSeats int    `json:"female_seats,omitempty"`
}

type CreateContentResponse struct {
	Item Item `json:"item"`
}

type RecordSaleRequest struct {
	ItemID string `json:"item_id"`
}

type SetItemStatusRequest struct {
	ItemID string `json:"item_id"`
	Status string `json:"status"`
}

type ItemResponse struct {
	Item Item `json:"item"`
}

func recordToWire(r models.SettlementRecord) Record {
	return Record{
		ItemID:        r.ItemID,
		HostID:        r.HostID,
		Title:         r.Title,
		Category:      string(r.Category),
		ItemStatus:    string(r.ItemStatus),
		Rate:          r.Rate,
		Gross:         r.Gross,
		Fee:           r.Fee,
		Net:           r.Net,
		Direction:     string(r.Direction),
		Status:        string(r.Status),
		InvoiceSentAt: r.InvoiceSentAt,
		SettledAt:     r.SettledAt,
	}
}

func ledgerToWire(report settlement.Report) Ledger {
	out := Ledger{
		Rate:               report.Rate,
		Records:            make([]Record, len(report.Records)),
		TotalPayableDue:    report.TotalPayableDue(),
		TotalReceivableDue: report.TotalReceivableDue(),
	}
	for i, r := range report.Records {
		out.Records[i] = recordToWire(r)
	}
	for _, ie := range report.Skipped {
		out.Skipped = append(out.Skipped, skippedToWire(ie))
	}
	return out
}

func skippedToWire(ie *calculator.ItemError) SkippedItem {
	return SkippedItem{ItemID: ie.ItemID, Error: ie.Err.Error()}
}

func itemToWire(item *models.ContentItem) Item {
	counts := models.CountsOf(item.Listing)
	return Item{
		ID:                  item.ID,
		Title:               item.Title,
		HostID:              item.HostID,
		Category:            string(item.Category()),
		Status:              string(item.Status),
		Price:               item.Price,
		CurrentParticipants: counts.CurrentParticipants,
		PurchaseCount:       counts.PurchaseCount,
		MaleSeats:           counts.MaleSeats,
		FemaleSeats:         counts.FemaleSeats,
		CreatedAt:           item.CreatedAt,
	}
}

func (r *CreateContentRequest) toItem() models.ContentItem {
	return models.ContentItem{
		Title: r.Title,
		Price: r.Price,
		Listing: models.NewListing(models.Category(r.Category), models.SaleCounts{
			MaleSeats:   r.MaleSeats,
			FemaleSeats: r.FemaleSeats,
		}),
	}
}
