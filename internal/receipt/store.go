package receipt

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/steelops/intake-api/internal/common"
)

// ErrNotFound indicates the requested receipt does not exist.
var ErrNotFound = errors.New("receipt: not found")

// ErrStoreUnavailable indicates the store dependency is not configured.
var ErrStoreUnavailable = errors.New("receipt: store unavailable")

// Store provides database accessors for receipts and their line items.
type Store interface {
	Create(ctx context.Context, receiptNumber string, items []LineItem, totalWeight float64, totalSum int64) (Receipt, error)
	ListAll(ctx context.Context) ([]Receipt, error)
	ListByDate(ctx context.Context, day time.Time) ([]Receipt, error)
	Get(ctx context.Context, id int64) (Receipt, error)
	Delete(ctx context.Context, id int64) (time.Time, error)
}

// DB is the subset of pgxpool.Pool the store relies on.
type DB interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		return &pgStore{}
	}
	return &pgStore{db: pool}
}

type pgStore struct {
	db DB
}

// Create persists the receipt header and all line items in a single
// transaction. A failure at any point leaves no partial receipt visible.
func (s *pgStore) Create(ctx context.Context, receiptNumber string, items []LineItem, totalWeight float64, totalSum int64) (Receipt, error) {
	if s == nil || s.db == nil {
		return Receipt{}, ErrStoreUnavailable
	}
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Receipt{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var number *string
	if receiptNumber != "" {
		number = &receiptNumber
	}
	rec := Receipt{
		ReceiptNumber: number,
		TotalWeight:   totalWeight,
		TotalSum:      totalSum,
		Items:         make([]LineItem, 0, len(items)),
	}
	err = tx.QueryRow(ctx, `INSERT INTO receipts (receipt_number, total_weight, total_sum)
VALUES ($1, $2, $3) RETURNING id, created_at`, number, totalWeight, totalSum).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return Receipt{}, err
	}

	for _, item := range items {
		item.ReceiptID = rec.ID
		err = tx.QueryRow(ctx, `INSERT INTO receipt_items (receipt_id, percentage, weight, coefficient, sum)
VALUES ($1, $2, $3, $4, $5) RETURNING id`, rec.ID, item.Percentage, item.Weight, item.Coefficient, item.Sum).Scan(&item.ID)
		if err != nil {
			return Receipt{}, err
		}
		rec.Items = append(rec.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return Receipt{}, err
	}
	return rec, nil
}

// ListAll returns every receipt, newest first, each with its line items
// ordered by percentage ascending.
func (s *pgStore) ListAll(ctx context.Context) ([]Receipt, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}
	return s.list(ctx, `SELECT id, receipt_number, created_at, total_weight, total_sum
FROM receipts ORDER BY created_at DESC, id DESC`)
}

// ListByDate returns receipts created on the given UTC calendar day, oldest
// first. The day is bound as a YYYY-MM-DD literal and created_at is cast in
// UTC explicitly, so the filter is independent of both the process and the
// database session timezone.
func (s *pgStore) ListByDate(ctx context.Context, day time.Time) ([]Receipt, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}
	return s.list(ctx, `SELECT id, receipt_number, created_at, total_weight, total_sum
FROM receipts WHERE (created_at AT TIME ZONE 'UTC')::date = $1::date
ORDER BY created_at ASC, id ASC`, day.UTC().Format(common.DayLayout))
}

// Get fetches a single receipt with its items.
func (s *pgStore) Get(ctx context.Context, id int64) (Receipt, error) {
	if s == nil || s.db == nil {
		return Receipt{}, ErrStoreUnavailable
	}
	row := s.db.QueryRow(ctx, `SELECT id, receipt_number, created_at, total_weight, total_sum
FROM receipts WHERE id = $1`, id)
	rec, err := scanReceipt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Receipt{}, ErrNotFound
		}
		return Receipt{}, err
	}
	items, err := s.loadItems(ctx, []int64{rec.ID})
	if err != nil {
		return Receipt{}, err
	}
	rec.Items = items[rec.ID]
	if rec.Items == nil {
		rec.Items = []LineItem{}
	}
	return rec, nil
}

// Delete removes the receipt; line items cascade at the database level. The
// creation timestamp of the deleted receipt is returned so callers can
// invalidate derived state for that day.
func (s *pgStore) Delete(ctx context.Context, id int64) (time.Time, error) {
	if s == nil || s.db == nil {
		return time.Time{}, ErrStoreUnavailable
	}
	var createdAt time.Time
	err := s.db.QueryRow(ctx, `DELETE FROM receipts WHERE id = $1 RETURNING created_at`, id).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return createdAt, nil
}

func (s *pgStore) list(ctx context.Context, query string, args ...any) ([]Receipt, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]Receipt, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return receipts, nil
	}
	items, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range receipts {
		receipts[i].Items = items[receipts[i].ID]
		if receipts[i].Items == nil {
			receipts[i].Items = []LineItem{}
		}
	}
	return receipts, nil
}

func (s *pgStore) loadItems(ctx context.Context, receiptIDs []int64) (map[int64][]LineItem, error) {
	rows, err := s.db.Query(ctx, `SELECT id, receipt_id, percentage, weight, coefficient, sum
FROM receipt_items WHERE receipt_id = ANY($1) ORDER BY receipt_id ASC, percentage ASC`, receiptIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]LineItem, len(receiptIDs))
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.Percentage, &item.Weight, &item.Coefficient, &item.Sum); err != nil {
			return nil, err
		}
		result[item.ReceiptID] = append(result[item.ReceiptID], item)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (Receipt, error) {
	var rec Receipt
	if err := row.Scan(&rec.ID, &rec.ReceiptNumber, &rec.CreatedAt, &rec.TotalWeight, &rec.TotalSum); err != nil {
		return Receipt{}, err
	}
	return rec, nil
}
