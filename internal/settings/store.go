package settings

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CoefficientKey is the settings row holding the global base coefficient.
const CoefficientKey = "coefficient"

// DefaultBaseCoefficient applies when the setting has never been written or
// holds an unparsable value.
const DefaultBaseCoefficient = 2.3

// ErrNonPositive rejects a base coefficient that is zero or negative.
var ErrNonPositive = errors.New("settings: coefficient must be greater than 0")

// ErrStoreUnavailable indicates the store dependency is not configured.
var ErrStoreUnavailable = errors.New("settings: store unavailable")

// Store persists the single global base coefficient. Reads always hit the
// database so updates are visible to the very next pricing computation.
type Store interface {
	BaseCoefficient(ctx context.Context) (float64, error)
	SetBaseCoefficient(ctx context.Context, value float64) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

// BaseCoefficient returns the stored base coefficient, falling back to the
// default when the row is absent or unparsable.
func (s *pgStore) BaseCoefficient(ctx context.Context) (float64, error) {
	if s == nil || s.pool == nil {
		return 0, ErrStoreUnavailable
	}
	var raw string
	err := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, CoefficientKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DefaultBaseCoefficient, nil
		}
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value <= 0 {
		return DefaultBaseCoefficient, nil
	}
	return value, nil
}

// SetBaseCoefficient validates and upserts the base coefficient.
func (s *pgStore) SetBaseCoefficient(ctx context.Context, value float64) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	if value <= 0 {
		return ErrNonPositive
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO settings (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		CoefficientKey, strconv.FormatFloat(value, 'f', -1, 64))
	return err
}
