// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
// defaultRate is stored as the commission rate only if none exists yet.
func New(dbPath string, defaultRate int) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers and gives read-after-write on the flag.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Run migrations
	if err := runMigrations(db, defaultRate); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const itemColumns = `id, title, host_id, category, status, price,
	current_participants, purchase_count, male_seats, female_seats,
	settlement_status, invoice_sent_at, settled_at, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.ContentItem, error) {
	var (
		item     models.ContentItem
		category string
		counts   models.SaleCounts
	)
	err := row.Scan(
		&item.ID, &item.Title, &item.HostID, &category, &item.Status, &item.Price,
		&counts.CurrentParticipants, &counts.PurchaseCount, &counts.MaleSeats, &counts.FemaleSeats,
		&item.Settlement, &item.InvoiceSentAt, &item.SettledAt, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Listing = models.NewListing(models.Category(category), counts)
	return &item, nil
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...any) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// ListItems retrieves all items, newest first.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]models.ContentItem, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM items ORDER BY created_at DESC, id")
}

// ListItemsByHost retrieves the items authored by hostID, newest first.
func (s *SQLiteStore) ListItemsByHost(ctx context.Context, hostID string) ([]models.ContentItem, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM items WHERE host_id = ? ORDER BY created_at DESC, id",
		hostID,
	)
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, itemID string) (*models.ContentItem, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = ?",
		itemID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// CreateItem persists a new item to the database.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.ContentItem) error {
	// Generate ID if not set
	if item.ID == "" {
		item.ID = uuid.New().String()
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

	counts := models.CountsOf(item.Listing)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.HostID, string(item.Category()), string(item.Status), item.Price,
		counts.CurrentParticipants, counts.PurchaseCount, counts.MaleSeats, counts.FemaleSeats,
		string(item.Settlement), item.InvoiceSentAt, item.SettledAt, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// SetItemStatus updates an item's lifecycle status.
func (s *SQLiteStore) SetItemStatus(ctx context.Context, itemID string, status models.ItemStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET status = ? WHERE id = ?",
		string(status), itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}
	return requireOneRow(res, itemID)
}

// SwapSettlementFlag performs a compare-and-swap on the settlement flag.
func (s *SQLiteStore) SwapSettlementFlag(ctx context.Context, itemID string, from, to models.SettlementFlag, settledAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET settlement_status = ?, settled_at = ? WHERE id = ? AND settlement_status = ?",
		string(to), settledAt, itemID, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement flag: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 1 {
		return nil
	}

	return s.missingOrConflict(ctx, itemID)
}

// RecordSale bumps the sale counter of a pending networking or tour report item.
func (s *SQLiteStore) RecordSale(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET
			current_participants = current_participants + (category = ?),
			purchase_count = purchase_count + (category = ?)
		 WHERE id = ? AND settlement_status = ?`,
		string(models.CategoryNetworking), string(models.CategoryTourReport),
		itemID, string(models.SettlementPending),
	)
	if err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 1 {
		return nil
	}
	return s.missingOrConflict(ctx, itemID)
}

// missingOrConflict explains a conditional update that matched no row:
// either the item is missing or its flag moved on.
func (s *SQLiteStore) missingOrConflict(ctx context.Context, itemID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM items WHERE id = ?", itemID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	if err != nil {
		return fmt.Errorf("failed to check item existence: %w", err)
	}
	return fmt.Errorf("%w: %s", storage.ErrFlagConflict, itemID)
}

// MarkInvoiceSent stamps the invoice-sent time on an item.
func (s *SQLiteStore) MarkInvoiceSent(ctx context.Context, itemID string, sentAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET invoice_sent_at = ? WHERE id = ?",
		sentAt, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invoice sent: %w", err)
	}
	return requireOneRow(res, itemID)
}

// GetCommissionRate returns the stored commission percentage.
func (s *SQLiteStore) GetCommissionRate(ctx context.Context) (int, error) {
	var rate int
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?",
		commissionRateKey,
	).Scan(&rate)
	if err != nil {
		return 0, fmt.Errorf("failed to get commission rate: %w", err)
	}
	return rate, nil
}

// SetCommissionRate stores the commission percentage.
func (s *SQLiteStore) SetCommissionRate(ctx context.Context, rate int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		commissionRateKey, rate,
	)
	if err != nil {
		return fmt.Errorf("failed to set commission rate: %w", err)
	}
	return nil
}

// requireOneRow maps a zero-row update to storage.ErrItemNotFound.
func requireOneRow(res sql.Result, itemID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	return nil
}
