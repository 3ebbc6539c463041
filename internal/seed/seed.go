// Package seed loads a YAML catalog fixture into an empty store.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/imfoot/internal/calculator"
	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/storage"
)

var ErrInvalidFixture = errors.New("seed: invalid fixture")

// Fixture is the on-disk catalog format.
type Fixture struct {
	// CommissionRate, when set, replaces the store's rate.
	CommissionRate *int   `yaml:"commission_rate"`
	Items          []Item `yaml:"items"`
}

// Item is one fixture row. Category-specific counts are ignored for
// categories that do not use them.
type Item struct {
	ID                  string `yaml:"id"`
	Title               string `yaml:"title"`
	HostID              string `yaml:"host_id"`
	Category            string `yaml:"category"`
	Status              string `yaml:"status"`
	Price               string `yaml:"price"`
	CurrentParticipants int    `yaml:"current_participants"`
	PurchaseCount       int    `yaml:"purchase_count"`
	MaleSeats           int    `yaml:"male_seats"`
	FemaleSeats         int    `yaml:"female_seats"`
	Settlement          string `yaml:"settlement"`
	InvoiceSentAt       int64  `yaml:"invoice_sent_at"`
	SettledAt           int64  `yaml:"settled_at"`
	CreatedAt           int64  `yaml:"created_at"`
}

// Load reads and validates the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a fixture. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	var errs []error
	if f.CommissionRate != nil {
		if err := calculator.ValidateRate(*f.CommissionRate); err != nil {
			errs = append(errs, err)
		}
	}

	seen := make(map[string]bool)
	for i, it := range f.Items {
		where := fmt.Sprintf("items[%d]", i)
		if it.ID != "" {
			if seen[it.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate id %q", where, it.ID))
			}
			seen[it.ID] = true
		}
		if it.Title == "" || it.HostID == "" {
			errs = append(errs, fmt.Errorf("%s: title and host_id are required", where))
		}
		if !slices.Contains(models.Categories, models.Category(it.Category)) {
			errs = append(errs, fmt.Errorf("%s: unknown category %q", where, it.Category))
		}
		if it.Status != "" && !models.ItemStatus(it.Status).Valid() {
			errs = append(errs, fmt.Errorf("%s: unknown status %q", where, it.Status))
		}
		switch models.SettlementFlag(it.Settlement) {
		case "", models.SettlementPending, models.SettlementSettled:
		default:
			errs = append(errs, fmt.Errorf("%s: unknown settlement flag %q", where, it.Settlement))
		}
		if _, err := calculator.ParsePrice(it.Price); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidFixture, errors.Join(errs...))
	}
	return nil
}

// ContentItems converts the fixture rows to domain items.
func (f *Fixture) ContentItems() []models.ContentItem {
	items := make([]models.ContentItem, len(f.Items))
	for i, it := range f.Items {
		items[i] = models.ContentItem{
			ID:     it.ID,
			Title:  it.Title,
			HostID: it.HostID,
			Status: models.ItemStatus(it.Status),
			Price:  it.Price,
			Listing: models.NewListing(models.Category(it.Category), models.SaleCounts{
				CurrentParticipants: it.CurrentParticipants,
				PurchaseCount:       it.PurchaseCount,
				MaleSeats:           it.MaleSeats,
				FemaleSeats:         it.FemaleSeats,
			}),
			Settlement:    models.SettlementFlag(it.Settlement),
			InvoiceSentAt: it.InvoiceSentAt,
			SettledAt:     it.SettledAt,
			CreatedAt:     it.CreatedAt,
		}
	}
	return items
}

// Apply writes the fixture into store if the store holds no items yet.
// It returns the number of items inserted; zero means the store was left alone.
func (f *Fixture) Apply(ctx context.Context, store storage.Store, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	existing, err := store.ListItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: failed to inspect store: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Store already populated, skipping seed", "items", len(existing))
		return 0, nil
	}

	if f.CommissionRate != nil {
		if err := store.SetCommissionRate(ctx, *f.CommissionRate); err != nil {
			return 0, fmt.Errorf("seed: failed to set commission rate: %w", err)
		}
	}

	items := f.ContentItems()
	for i := range items {
		if err := store.CreateItem(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("seed: failed to create item %q: %w", items[i].Title, err)
		}
	}

	logger.Info("Seeded catalog", "items", len(items))
	return len(items), nil
}
