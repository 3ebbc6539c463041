// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/imfoot/internal/models"
)

var (
	// ErrItemNotFound is returned when no item has the requested ID.
	ErrItemNotFound = errors.New("storage: item not found")

	// ErrFlagConflict is returned by a compare-and-swap flag write whose
	// expected flag no longer matches the stored one.
	ErrFlagConflict = errors.New("storage: settlement flag changed concurrently")
)

// Store defines the item store and rate configuration store the settlement
// engine depends on. Item fields other than the settlement annotations are
// owned by the content subsystem; the engine only writes the flag and its
// timestamps.
type Store interface {
	// ListItems returns every content item.
	ListItems(ctx context.Context) ([]models.ContentItem, error)

	// ListItemsByHost returns the items authored by hostID.
	ListItemsByHost(ctx context.Context, hostID string) ([]models.ContentItem, error)

	// GetItem retrieves an item by ID. Returns ErrItemNotFound if absent.
	GetItem(ctx context.Context, itemID string) (*models.ContentItem, error)

	// CreateItem persists a new item. ID and CreatedAt are populated when empty.
	CreateItem(ctx context.Context, item *models.ContentItem) error

	// SetItemStatus records a lifecycle transition. Lifecycle belongs to the
	// content subsystem; in this module it is driven by the admin surface
	// (settlement.Engine.SetItemStatus) and by tests.
	SetItemStatus(ctx context.Context, itemID string, status models.ItemStatus) error

	// RecordSale adds one participant to a networking item or one purchase to a
	// tour report while the item's flag is still pending. Other categories are
	// left unchanged. Returns ErrItemNotFound if the item does not exist and
	// ErrFlagConflict if it is already settled.
	RecordSale(ctx context.Context, itemID string) error

	// SwapSettlementFlag atomically changes the flag of one item from `from` to `to`
	// and stamps settledAt. Returns ErrItemNotFound if the item does not exist and
	// ErrFlagConflict if the stored flag is not `from`.
	SwapSettlementFlag(ctx context.Context, itemID string, from, to models.SettlementFlag, settledAt int64) error

	// MarkInvoiceSent stamps the invoice-sent timestamp without touching the flag.
	MarkInvoiceSent(ctx context.Context, itemID string, sentAt int64) error

	// GetCommissionRate returns the global commission percentage.
	GetCommissionRate(ctx context.Context) (int, error)

	// SetCommissionRate replaces the global commission percentage.
	// Validation is the caller's job.
	SetCommissionRate(ctx context.Context, rate int) error

	// Close releases any resources held by the store.
	Close() error
}
