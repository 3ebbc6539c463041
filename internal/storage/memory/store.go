// Package memory provides an in-process implementation of storage.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps items in a map guarded by a RWMutex. Flag swaps are atomic
// under the write lock.
type Store struct {
	mu sync.RWMutex

	items map[string]models.ContentItem
	rate  int
}

// New returns an empty store whose commission rate starts at defaultRate.
func New(defaultRate int) *Store {
	return &Store{
		items: make(map[string]models.ContentItem),
		rate:  defaultRate,
	}
}

func (s *Store) ListItems(_ context.Context) ([]models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(models.ContentItem) bool { return true }), nil
}

func (s *Store) ListItemsByHost(_ context.Context, hostID string) ([]models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(i models.ContentItem) bool { return i.HostID == hostID }), nil
}

// sorted returns matching items newest first. Callers hold the read lock.
func (s *Store) sorted(keep func(models.ContentItem) bool) []models.ContentItem {
	var out []models.ContentItem
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt != out[b].CreatedAt {
			return out[a].CreatedAt > out[b].CreatedAt
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func (s *Store) GetItem(_ context.Context, itemID string) (*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	return &item, nil
}

func (s *Store) CreateItem(_ context.Context, item *models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("item already exists: %s", item.ID)
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}
	if item.Status == "" {
		item.Status = models.ItemStatusOpen
	}
	if item.Settlement == "" {
		item.Settlement = models.SettlementPending
	}
	s.items[item.ID] = *item
	return nil
}

func (s *Store) SetItemStatus(_ context.Context, itemID string, status models.ItemStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	item.Status = status
	s.items[itemID] = item
	return nil
}

func (s *Store) SwapSettlementFlag(_ context.Context, itemID string, from, to models.SettlementFlag, settledAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	if item.Settlement != from {
		return fmt.Errorf("%w: %s", storage.ErrFlagConflict, itemID)
	}
	item.Settlement = to
	item.SettledAt = settledAt
	s.items[itemID] = item
	return nil
}

func (s *Store) RecordSale(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	if item.Settlement != models.SettlementPending {
		return fmt.Errorf("%w: %s", storage.ErrFlagConflict, itemID)
	}
	switch l := item.Listing.(type) {
	case models.NetworkingListing:
		l.CurrentParticipants++
		item.Listing = l
	case models.TourReportListing:
		l.PurchaseCount++
		item.Listing = l
	}
	s.items[itemID] = item
	return nil
}

func (s *Store) MarkInvoiceSent(_ context.Context, itemID string, sentAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	item.InvoiceSentAt = sentAt
	s.items[itemID] = item
	return nil
}

func (s *Store) GetCommissionRate(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate, nil
}

func (s *Store) SetCommissionRate(_ context.Context, rate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
	return nil
}

func (s *Store) Close() error { return nil }
