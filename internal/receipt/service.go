package receipt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelops/intake-api/internal/common"
	"github.com/steelops/intake-api/internal/obs"
	"github.com/steelops/intake-api/internal/pricing"
)

// SettingsSource resolves the current base coefficient. It is read fresh on
// every create so an administrative update takes effect immediately.
type SettingsSource interface {
	BaseCoefficient(ctx context.Context) (float64, error)
}

// ReportInvalidator drops derived report state for a given calendar day.
type ReportInvalidator interface {
	InvalidateDay(ctx context.Context, day time.Time) error
}

// ItemInput is one bracket row from the intake form. A zero Coefficient means
// "use the base coefficient"; the weight may be zero for untouched rows.
type ItemInput struct {
	Percentage  int
	Weight      float64
	Coefficient float64
}

// Service orchestrates receipt creation, listing and deletion.
type Service struct {
	Store    Store
	Settings SettingsSource
	Reports  ReportInvalidator
	Log      zerolog.Logger
}

// Create prices the submitted brackets against the current base coefficient,
// drops rows without positive weight, and persists the receipt atomically.
func (s *Service) Create(ctx context.Context, receiptNumber string, items []ItemInput) (Receipt, error) {
	if s == nil || s.Store == nil || s.Settings == nil {
		return Receipt{}, errors.New("receipt: service not configured")
	}
	if len(items) == 0 {
		return Receipt{}, common.ValidationError("receipt requires at least one line item")
	}
	for _, item := range items {
		if !pricing.ValidPercentage(item.Percentage) {
			return Receipt{}, common.ValidationError(fmt.Sprintf("percentage %d is outside the %d-%d range", item.Percentage, pricing.MinPercentage, pricing.MaxPercentage))
		}
	}

	base, err := s.Settings.BaseCoefficient(ctx)
	if err != nil {
		return Receipt{}, common.StoreError("load base coefficient", err)
	}

	weights := make(map[int]float64, len(items))
	overrides := make(map[int]float64, len(items))
	for _, item := range items {
		weights[item.Percentage] += item.Weight
		if item.Coefficient > 0 {
			overrides[item.Percentage] = item.Coefficient
		}
	}
	lines := pricing.BuildLines(weights, overrides, base)
	if len(lines) == 0 {
		return Receipt{}, common.ValidationError("receipt requires at least one line item with positive weight")
	}
	totalWeight, totalSum := pricing.Totals(lines)

	persisted := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		persisted = append(persisted, LineItem{
			Percentage:  line.Percentage,
			Weight:      line.Weight,
			Coefficient: line.Coefficient,
			Sum:         line.Sum,
		})
	}

	rec, err := s.Store.Create(ctx, strings.TrimSpace(receiptNumber), persisted, totalWeight, totalSum)
	if err != nil {
		return Receipt{}, common.StoreError("persist receipt", err)
	}
	if obs.ReceiptsCreatedTotal != nil {
		obs.ReceiptsCreatedTotal.Inc()
		obs.ReceiptItemsTotal.Add(float64(len(rec.Items)))
	}
	s.invalidateDay(ctx, rec.CreatedAt)
	return rec, nil
}

// ListAll returns every receipt, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Receipt, error) {
	receipts, err := s.Store.ListAll(ctx)
	if err != nil {
		return nil, common.StoreError("list receipts", err)
	}
	return receipts, nil
}

// ListByDate returns the receipts created on the given calendar day.
func (s *Service) ListByDate(ctx context.Context, day time.Time) ([]Receipt, error) {
	receipts, err := s.Store.ListByDate(ctx, day)
	if err != nil {
		return nil, common.StoreError("list receipts by date", err)
	}
	return receipts, nil
}

// Get fetches a single receipt by id.
func (s *Service) Get(ctx context.Context, id int64) (Receipt, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Receipt{}, common.NotFoundError("receipt not found")
		}
		return Receipt{}, common.StoreError("load receipt", err)
	}
	return rec, nil
}

// Delete removes a receipt and its items. A missing id is reported as
// NotFound, distinct from a successful delete.
func (s *Service) Delete(ctx context.Context, id int64) error {
	createdAt, err := s.Store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFoundError("receipt not found")
		}
		return common.StoreError("delete receipt", err)
	}
	if obs.ReceiptsDeletedTotal != nil {
		obs.ReceiptsDeletedTotal.Inc()
	}
	s.invalidateDay(ctx, createdAt)
	return nil
}

func (s *Service) invalidateDay(ctx context.Context, day time.Time) {
	if s.Reports == nil {
		return
	}
	if err := s.Reports.InvalidateDay(ctx, day); err != nil {
		s.Log.Warn().Err(err).Str("day", common.FormatDay(day)).Msg("invalidate report cache")
	}
}
