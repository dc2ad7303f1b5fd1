package receipt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelops/intake-api/internal/common"
)

type fakeStore struct {
	nextID    int64
	createdAt time.Time
	receipts  map[int64]Receipt
	failWith  error
}

func newFakeStore(createdAt time.Time) *fakeStore {
	return &fakeStore{createdAt: createdAt, receipts: map[int64]Receipt{}}
}

func (f *fakeStore) Create(_ context.Context, receiptNumber string, items []LineItem, totalWeight float64, totalSum int64) (Receipt, error) {
	if f.failWith != nil {
		return Receipt{}, f.failWith
	}
	f.nextID++
	var number *string
	if receiptNumber != "" {
		number = &receiptNumber
	}
	rec := Receipt{
		ID:            f.nextID,
		ReceiptNumber: number,
		CreatedAt:     f.createdAt,
		TotalWeight:   totalWeight,
		TotalSum:      totalSum,
		Items:         items,
	}
	f.receipts[rec.ID] = rec
	return rec, nil
}

func (f *fakeStore) ListAll(context.Context) ([]Receipt, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]Receipt, 0, len(f.receipts))
	for _, rec := range f.receipts {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) ListByDate(context.Context, time.Time) ([]Receipt, error) {
	return f.ListAll(context.Background())
}

func (f *fakeStore) Get(_ context.Context, id int64) (Receipt, error) {
	rec, ok := f.receipts[id]
	if !ok {
		return Receipt{}, ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) (time.Time, error) {
	rec, ok := f.receipts[id]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	delete(f.receipts, id)
	return rec.CreatedAt, nil
}

type fakeSettings struct {
	base float64
	err  error
}

func (f fakeSettings) BaseCoefficient(context.Context) (float64, error) {
	return f.base, f.err
}

type recordingInvalidator struct {
	days []time.Time
	err  error
}

func (r *recordingInvalidator) InvalidateDay(_ context.Context, day time.Time) error {
	r.days = append(r.days, day)
	return r.err
}

func newTestService(store *fakeStore, base float64) (*Service, *recordingInvalidator) {
	inv := &recordingInvalidator{}
	return &Service{
		Store:    store,
		Settings: fakeSettings{base: base},
		Reports:  inv,
		Log:      zerolog.Nop(),
	}, inv
}

func TestCreatePricesAgainstBaseCoefficient(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	store := newFakeStore(createdAt)
	svc, inv := newTestService(store, 2.3)

	rec, err := svc.Create(context.Background(), "A-17", []ItemInput{
		{Percentage: 20, Weight: 10},
		{Percentage: 17, Weight: 3.5},
	})
	require.NoError(t, err)
	require.NotNil(t, rec.ReceiptNumber)
	assert.Equal(t, "A-17", *rec.ReceiptNumber)
	require.Len(t, rec.Items, 2)

	// ascending by percentage
	assert.Equal(t, 17, rec.Items[0].Percentage)
	assert.Equal(t, int64(136), rec.Items[0].Sum)
	assert.Equal(t, 20, rec.Items[1].Percentage)
	assert.Equal(t, int64(460), rec.Items[1].Sum)

	assert.InDelta(t, 13.5, rec.TotalWeight, 1e-9)
	assert.Equal(t, int64(596), rec.TotalSum)

	require.Len(t, inv.days, 1)
	assert.Equal(t, createdAt, inv.days[0])
}

func TestCreateHonoursOverrideCoefficient(t *testing.T) {
	store := newFakeStore(time.Now())
	svc, _ := newTestService(store, 2.3)

	rec, err := svc.Create(context.Background(), "", []ItemInput{
		{Percentage: 55, Weight: 3, Coefficient: 3.0},
		{Percentage: 60, Weight: 2, Coefficient: 0}, // falls back to base
	})
	require.NoError(t, err)
	require.Len(t, rec.Items, 2)
	assert.Equal(t, 3.0, rec.Items[0].Coefficient)
	assert.Equal(t, int64(495), rec.Items[0].Sum) // 55*3*3.0
	assert.Equal(t, 2.3, rec.Items[1].Coefficient)
	assert.Equal(t, int64(276), rec.Items[1].Sum) // 60*2*2.3
}

func TestCreateMergesRepeatedBrackets(t *testing.T) {
	store := newFakeStore(time.Now())
	svc, _ := newTestService(store, 2.3)

	rec, err := svc.Create(context.Background(), "", []ItemInput{
		{Percentage: 20, Weight: 4},
		{Percentage: 20, Weight: 6},
	})
	require.NoError(t, err)
	require.Len(t, rec.Items, 1)
	assert.InDelta(t, 10.0, rec.Items[0].Weight, 1e-9)
	assert.Equal(t, int64(460), rec.Items[0].Sum)
}

func TestCreateRejectsEmptyAndZeroWeightReceipts(t *testing.T) {
	store := newFakeStore(time.Now())
	svc, inv := newTestService(store, 2.3)

	_, err := svc.Create(context.Background(), "", nil)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeValidation, appErr.Code)

	_, err = svc.Create(context.Background(), "", []ItemInput{
		{Percentage: 20, Weight: 0},
		{Percentage: 30, Weight: -1},
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeValidation, appErr.Code)

	assert.Empty(t, store.receipts)
	assert.Empty(t, inv.days)
}

func TestCreateRejectsOutOfRangePercentage(t *testing.T) {
	store := newFakeStore(time.Now())
	svc, _ := newTestService(store, 2.3)

	for _, p := range []int{13, 101, 0, -5} {
		_, err := svc.Create(context.Background(), "", []ItemInput{{Percentage: p, Weight: 1}})
		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr, "percentage %d", p)
		assert.Equal(t, common.CodeValidation, appErr.Code)
	}
}

func TestCreateWrapsSettingsFailure(t *testing.T) {
	store := newFakeStore(time.Now())
	svc := &Service{
		Store:    store,
		Settings: fakeSettings{err: errors.New("connection reset")},
		Log:      zerolog.Nop(),
	}
	_, err := svc.Create(context.Background(), "", []ItemInput{{Percentage: 20, Weight: 1}})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeStore, appErr.Code)
}

func TestDeleteInvalidatesReceiptDay(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	store := newFakeStore(createdAt)
	svc, inv := newTestService(store, 2.3)

	rec, err := svc.Create(context.Background(), "", []ItemInput{{Percentage: 20, Weight: 1}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), rec.ID))
	require.Len(t, inv.days, 2)
	assert.Equal(t, createdAt, inv.days[1])
}

func TestDeleteMissingReceiptIsNotFound(t *testing.T) {
	store := newFakeStore(time.Now())
	svc, _ := newTestService(store, 2.3)

	err := svc.Delete(context.Background(), 99)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestGetMissingReceiptIsNotFound(t *testing.T) {
	store := newFakeStore(time.Now())
	svc, _ := newTestService(store, 2.3)

	_, err := svc.Get(context.Background(), 7)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
}
