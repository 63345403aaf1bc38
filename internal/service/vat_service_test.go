package service

import (
	"context"
	"errors"
	"testing"

	"order17vat/internal/auditctx"
	"order17vat/internal/metrics"
	"order17vat/internal/model"
	"order17vat/internal/repository"
	"order17vat/internal/testutil"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type vatFixture struct {
	db        *gorm.DB
	vatRepo   repository.VatRepository
	auditRepo repository.AuditRepository
	metrics   *metrics.Registry
	svc       VatService
}

func newVatFixture(t *testing.T, wrap func(repository.VatRepository) repository.VatRepository) *vatFixture {
	t.Helper()

	db := testutil.NewDB(t)
	vatRepo := repository.NewVatRepository(db)
	if wrap != nil {
		vatRepo = wrap(vatRepo)
	}
	auditRepo := repository.NewAuditRepository(db)
	m := metrics.NewRegistry()

	return &vatFixture{
		db:        db,
		vatRepo:   vatRepo,
		auditRepo: auditRepo,
		metrics:   m,
		svc: NewVatService(vatRepo, repository.NewOrderRepository(db), auditRepo,
			repository.NewTransactionManager(db), m, nil),
	}
}

func (f *vatFixture) rows(t *testing.T, orderID uint) int64 {
	t.Helper()
	count, err := f.vatRepo.CountByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return count
}

// racingVatRepo simulates a concurrent writer creating the row between our lookup and our insert
type racingVatRepo struct {
	repository.VatRepository
	competitorFlag bool
}

func (r *racingVatRepo) Create(ctx context.Context, orderID uint, isVat17 bool) (*model.VatFlag, error) {
	if _, err := r.VatRepository.Create(ctx, orderID, r.competitorFlag); err != nil {
		return nil, err
	}
	return r.VatRepository.Create(ctx, orderID, isVat17)
}

type failingVatRepo struct {
	repository.VatRepository
	createErr error
	updateErr error
}

func (r *failingVatRepo) Create(ctx context.Context, orderID uint, isVat17 bool) (*model.VatFlag, error) {
	if r.createErr != nil {
		return nil, &repository.StoreWriteError{Op: "create", OrderID: orderID, Err: r.createErr}
	}
	return r.VatRepository.Create(ctx, orderID, isVat17)
}

func (r *failingVatRepo) Update(ctx context.Context, flag *model.VatFlag) error {
	if r.updateErr != nil {
		return &repository.StoreWriteError{Op: "update", OrderID: flag.OrderID, RecordID: flag.ID, Err: r.updateErr}
	}
	return r.VatRepository.Update(ctx, flag)
}

func TestVatServiceToggleTwice(t *testing.T) {
	f := newVatFixture(t, nil)
	testutil.SeedOrder(t, f.db, 42, false)
	ctx := context.Background()

	flag, err := f.svc.Toggle(ctx, 42)
	require.NoError(t, err)
	assert.True(t, flag.IsVat17)
	assert.Equal(t, uint(42), flag.OrderID)
	assert.Equal(t, int64(1), f.rows(t, 42))

	status, err := f.svc.GetStatus(ctx, 42)
	require.NoError(t, err)
	assert.True(t, status)

	flag, err = f.svc.Toggle(ctx, 42)
	require.NoError(t, err)
	assert.False(t, flag.IsVat17)
	assert.Equal(t, int64(1), f.rows(t, 42))

	assert.Equal(t, float64(2), promtestutil.ToFloat64(f.metrics.VatWrites.WithLabelValues(vatActionToggle)))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.VatRowsCreated))
}

func TestVatServiceSetStatusIsIdempotent(t *testing.T) {
	f := newVatFixture(t, nil)
	testutil.SeedOrder(t, f.db, 7, false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		flag, err := f.svc.SetStatus(ctx, 7, true)
		require.NoError(t, err)
		assert.True(t, flag.IsVat17)
	}
	assert.Equal(t, int64(1), f.rows(t, 7))

	flag, err := f.svc.SetStatus(ctx, 7, false)
	require.NoError(t, err)
	assert.False(t, flag.IsVat17)
	assert.Equal(t, int64(1), f.rows(t, 7))
}

func TestVatServiceAbsentRowReadsFalse(t *testing.T) {
	f := newVatFixture(t, nil)

	status, err := f.svc.GetStatus(context.Background(), 1234)
	require.NoError(t, err)
	assert.False(t, status)

	statuses, err := f.svc.GetStatuses(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{1: false, 2: false}, statuses)
}

func TestVatServiceUnknownOrder(t *testing.T) {
	f := newVatFixture(t, nil)

	_, err := f.svc.Toggle(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Zero(t, f.rows(t, 999))

	var createErr *CannotCreateVatError
	assert.False(t, errors.As(err, &createErr))
}

func TestVatServiceConcurrentCreateReusesWinnerRow(t *testing.T) {
	t.Run("toggle flips the winner's value", func(t *testing.T) {
		f := newVatFixture(t, func(r repository.VatRepository) repository.VatRepository {
			return &racingVatRepo{VatRepository: r, competitorFlag: true}
		})
		testutil.SeedOrder(t, f.db, 42, false)

		flag, err := f.svc.Toggle(context.Background(), 42)
		require.NoError(t, err)
		assert.False(t, flag.IsVat17)
		assert.Equal(t, int64(1), f.rows(t, 42))
	})

	t.Run("set writes the requested value", func(t *testing.T) {
		f := newVatFixture(t, func(r repository.VatRepository) repository.VatRepository {
			return &racingVatRepo{VatRepository: r, competitorFlag: false}
		})
		testutil.SeedOrder(t, f.db, 42, false)

		flag, err := f.svc.SetStatus(context.Background(), 42, true)
		require.NoError(t, err)
		assert.True(t, flag.IsVat17)
		assert.Equal(t, int64(1), f.rows(t, 42))

		status, err := f.svc.GetStatus(context.Background(), 42)
		require.NoError(t, err)
		assert.True(t, status)
	})
}

func TestVatServiceCreateFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	f := newVatFixture(t, func(r repository.VatRepository) repository.VatRepository {
		return &failingVatRepo{VatRepository: r, createErr: storeErr}
	})
	testutil.SeedOrder(t, f.db, 3, false)

	_, err := f.svc.Toggle(context.Background(), 3)
	require.Error(t, err)

	var createErr *CannotCreateVatError
	require.ErrorAs(t, err, &createErr)
	assert.Equal(t, uint(3), createErr.OrderID)
	assert.ErrorIs(t, err, storeErr)

	var writeErr *repository.StoreWriteError
	assert.ErrorAs(t, err, &writeErr)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.VatWriteErrors.WithLabelValues(vatActionToggle, "create")))
}

func TestVatServiceUpdateFailureRollsBack(t *testing.T) {
	storeErr := errors.New("read-only transaction")
	f := newVatFixture(t, func(r repository.VatRepository) repository.VatRepository {
		return &failingVatRepo{VatRepository: r, updateErr: storeErr}
	})
	testutil.SeedOrder(t, f.db, 3, false)

	_, err := f.svc.SetStatus(context.Background(), 3, true)
	require.Error(t, err)

	var toggleErr *CannotToggleVatStatusError
	require.ErrorAs(t, err, &toggleErr)
	assert.Equal(t, uint(3), toggleErr.OrderID)
	assert.ErrorIs(t, err, storeErr)

	// the lazily created row goes away with the failed transaction
	assert.Zero(t, f.rows(t, 3))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.VatWriteErrors.WithLabelValues(vatActionSet, "update")))
}

func TestVatServiceWritesAuditLog(t *testing.T) {
	f := newVatFixture(t, nil)
	testutil.SeedOrder(t, f.db, 42, false)
	ctx := auditctx.WithActor(context.Background(), "17")

	_, err := f.svc.Toggle(ctx, 42)
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, 42, true)
	require.NoError(t, err)

	logs, err := f.auditRepo.ListByEntity(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, logs, 2)

	actions := []string{logs[0].Action, logs[1].Action}
	assert.ElementsMatch(t, []string{model.ActionToggleVat17, model.ActionSetVat17}, actions)
	for _, l := range logs {
		assert.Equal(t, "17", l.Actor)
		assert.Equal(t, "order17vat", l.EntityName)
		assert.Contains(t, l.Details, `"is_vat_17":true`)
	}
}

func TestVatServiceForgetAndSweep(t *testing.T) {
	f := newVatFixture(t, nil)
	ctx := context.Background()
	testutil.SeedOrder(t, f.db, 1, false)
	testutil.SeedFlag(t, f.db, 1, true)
	testutil.SeedFlag(t, f.db, 2, true)
	testutil.SeedFlag(t, f.db, 3, true)

	require.NoError(t, f.svc.Forget(ctx, 2))
	assert.Zero(t, f.rows(t, 2))
	require.NoError(t, f.svc.Forget(ctx, 2))

	removed, err := f.svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Zero(t, f.rows(t, 3))
	assert.Equal(t, int64(1), f.rows(t, 1))

	assert.Equal(t, float64(2), promtestutil.ToFloat64(f.metrics.VatRowsRemoved))
}
