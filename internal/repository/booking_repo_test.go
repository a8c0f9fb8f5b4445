package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiobook/internal/database"
	"studiobook/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))
	return db
}

var repoBase = time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)

func newTestBookingRepo(t *testing.T, db *gorm.DB) *BookingRepository {
	t.Helper()
	r := NewBookingRepository(db, 15*time.Minute)
	r.now = func() time.Time { return repoBase }
	return r
}

func hold(studioID int64, startHour, endHour int, status domain.BookingStatus, createdAt time.Time) *domain.Booking {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots := make([]int, 0, endHour-startHour)
	for h := startHour; h < endHour; h++ {
		slots = append(slots, h)
	}
	return &domain.Booking{
		StudioID:   studioID,
		UserID:     7,
		Date:       day,
		StartTime:  day.Add(time.Duration(startHour) * time.Hour),
		EndTime:    day.Add(time.Duration(endHour) * time.Hour),
		Slots:      slots,
		Status:     status,
		TotalPrice: 10000,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	ctx := context.Background()

	first := hold(1, 10, 12, domain.BookingReservationPending, repoBase)
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	// a live hold occupies its interval at the store
	err := repo.Create(ctx, hold(1, 11, 13, domain.BookingReservationPending, repoBase))
	assert.ErrorIs(t, err, ErrOverlap)

	// half-open intervals: touching end==start is not a conflict
	assert.NoError(t, repo.Create(ctx, hold(1, 12, 13, domain.BookingReservationPending, repoBase)))

	// other studios are unaffected
	assert.NoError(t, repo.Create(ctx, hold(2, 10, 12, domain.BookingReservationPending, repoBase)))
}

func TestCreate_ExpiredHoldDoesNotBlock(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	ctx := context.Background()

	stale := hold(1, 10, 12, domain.BookingReservationPending, repoBase)
	require.NoError(t, repo.Create(ctx, stale))

	// TTL has lapsed; the create transaction expires the hold before checking
	repo.now = func() time.Time { return repoBase.Add(15*time.Minute + time.Second) }

	fresh := hold(1, 10, 12, domain.BookingReservationPending, repoBase.Add(15*time.Minute+time.Second))
	assert.NoError(t, repo.Create(ctx, fresh))

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	assert.Equal(t, "reservation expired", got.CancellationReason)
	assert.NotNil(t, got.CancelledAt)
}

func TestExpireStale_RewritesOnlyLapsedHolds(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	ctx := context.Background()

	lapsed := hold(1, 10, 11, domain.BookingPaymentPending, repoBase.Add(-16*time.Minute))
	live := hold(1, 12, 13, domain.BookingReservationPending, repoBase.Add(-5*time.Minute))
	confirmed := hold(1, 14, 15, domain.BookingConfirmed, repoBase.Add(-time.Hour))

	// insert under an earlier clock so the create-time sweep leaves the
	// soon-to-be-lapsed hold alone
	repo.now = func() time.Time { return repoBase.Add(-16 * time.Minute) }
	for _, b := range []*domain.Booking{lapsed, live, confirmed} {
		require.NoError(t, repo.Create(ctx, b))
	}
	repo.now = func() time.Time { return repoBase }

	n, err := repo.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, lapsed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)

	got, err = repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingReservationPending, got.Status)

	got, err = repo.GetByID(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
}

func TestGetBlockingForDay_ExpiresThenFilters(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	ctx := context.Background()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	confirmed := hold(1, 14, 15, domain.BookingConfirmed, repoBase.Add(-time.Hour))
	livePending := hold(1, 10, 11, domain.BookingReservationPending, repoBase.Add(-5*time.Minute))
	stalePending := hold(1, 12, 13, domain.BookingReservationPending, repoBase.Add(-20*time.Minute))

	repo.now = func() time.Time { return repoBase.Add(-20 * time.Minute) }
	for _, b := range []*domain.Booking{confirmed, livePending, stalePending} {
		require.NoError(t, repo.Create(ctx, b))
	}
	repo.now = func() time.Time { return repoBase }

	blocking, err := repo.GetBlockingForDay(ctx, 1, day)
	require.NoError(t, err)

	// only occupying statuses come back, and the stale hold was rewritten
	require.Len(t, blocking, 1)
	assert.Equal(t, confirmed.ID, blocking[0].ID)

	got, err := repo.GetByID(ctx, stalePending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
}

func TestUpdateStatusIf_GuardSerializesTransitions(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	ctx := context.Background()

	b := hold(1, 10, 11, domain.BookingConfirmed, repoBase)
	require.NoError(t, repo.Create(ctx, b))

	ok, err := repo.UpdateStatusIf(ctx, b.ID,
		[]domain.BookingStatus{domain.BookingReservationPending}, domain.BookingPaymentPending)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	ok, err = repo.UpdateStatusIf(ctx, b.ID,
		[]domain.BookingStatus{domain.BookingConfirmed}, domain.BookingCancelPending)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelPending, got.Status)
}

func TestCancelWithReason_RecordsReason(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	ctx := context.Background()

	b := hold(1, 10, 11, domain.BookingReservationPending, repoBase)
	require.NoError(t, repo.Create(ctx, b))

	ok, err := repo.CancelWithReason(ctx, b.ID,
		[]domain.BookingStatus{domain.BookingReservationPending, domain.BookingPaymentPending}, "changed plans")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	assert.Equal(t, "changed plans", got.CancellationReason)
	assert.NotNil(t, got.CancelledAt)
}

func TestCompleteFinished_MovesPastConfirmed(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	ctx := context.Background()

	past := hold(1, 10, 11, domain.BookingConfirmed, repoBase.Add(-48*time.Hour))
	require.NoError(t, repo.Create(ctx, past))

	// day after the session ended
	repo.now = func() time.Time { return past.EndTime.Add(24 * time.Hour) }

	n, err := repo.CompleteFinished(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, got.Status)
}

func TestGetStudioOwnerForBooking(t *testing.T) {
	db := newTestDB(t)
	repo := newTestBookingRepo(t, db)
	studios := NewStudioRepository(db)
	ctx := context.Background()

	s := &domain.Studio{OwnerID: 42, Name: "Aurora Studio", City: "Алматы"}
	require.NoError(t, studios.Create(ctx, s))

	b := hold(s.ID, 10, 11, domain.BookingConfirmed, repoBase)
	require.NoError(t, repo.Create(ctx, b))

	ownerID, status, err := repo.GetStudioOwnerForBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ownerID)
	assert.Equal(t, domain.BookingConfirmed, status)

	_, _, err = repo.GetStudioOwnerForBooking(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
