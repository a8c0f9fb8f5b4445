package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"studiobook/internal/domain"
	"studiobook/internal/modules/schedule"
	"studiobook/internal/repository"
)

type Service struct {
	bookings  BookingRepository
	schedule  ScheduleSource
	services  ServiceCatalog
	equipment EquipmentCatalog

	maxSlots int
	ttl      time.Duration

	log zerolog.Logger
	now func() time.Time
}

func NewService(
	bookings BookingRepository,
	sched ScheduleSource,
	services ServiceCatalog,
	equipment EquipmentCatalog,
	maxSlots int,
	ttl time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		schedule:  sched,
		services:  services,
		equipment: equipment,
		maxSlots:  maxSlots,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateBooking validates the customer's selection against current
// availability, snapshots prices, and writes the booking as a
// reservation_pending hold. The returned dropped list names hours that were
// lost to another customer between browsing and submitting; when non-empty
// the error is ErrSlotConflict and nothing was written.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, []int, error) {
	sel, err := SelectionFromHours(req.Slots, s.maxSlots)
	if err != nil {
		return nil, nil, err
	}
	if sel.Count() == 0 {
		return nil, nil, ErrSelectionInvalid
	}
	if len(req.ServiceIDs) == 0 {
		return nil, nil, ErrSelectionInvalid
	}

	slots, err := s.schedule.DaySchedule(ctx, req.StudioID, req.Date)
	if err != nil {
		return nil, nil, err
	}
	byHour := make(map[int]schedule.SlotStatus, len(slots))
	for _, sl := range slots {
		byHour[sl.Hour] = sl.Status
	}

	var blocked []int
	for _, h := range sel.Hours() {
		switch byHour[h] {
		case schedule.SlotAvailable:
		case schedule.SlotBooked:
			blocked = append(blocked, h)
		default:
			// past, closed, or off the grid: a selection the client
			// should never have produced.
			return nil, nil, ErrSelectionInvalid
		}
	}
	if len(blocked) > 0 {
		return nil, blocked, ErrSlotConflict
	}

	services, err := s.services.GetByIDs(ctx, req.StudioID, req.ServiceIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(services) != len(uniqueIDs(req.ServiceIDs)) {
		return nil, nil, ErrSelectionInvalid
	}

	equipment, err := s.equipment.GetByIDs(ctx, req.StudioID, req.EquipmentIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(equipment) != len(uniqueIDs(req.EquipmentIDs)) {
		return nil, nil, ErrSelectionInvalid
	}

	snapshots := make([]domain.ServiceSnapshot, 0, len(services))
	for _, v := range services {
		snapshots = append(snapshots, domain.ServiceSnapshot{
			ServiceID:       v.ID,
			Name:            v.Name,
			Price:           v.Price,
			DurationMinutes: v.DurationMinutes,
		})
	}

	quote := Price(sel.Count(), snapshots, equipment)

	startHour, endHour, _ := sel.Span()
	now := s.now().UTC()

	b := &domain.Booking{
		StudioID:   req.StudioID,
		UserID:     req.UserID,
		Date:       req.Date,
		StartTime:  schedule.SlotStart(req.Date, startHour),
		EndTime:    schedule.SlotStart(req.Date, startHour).Add(time.Duration(endHour-startHour) * time.Hour),
		Slots:      sel.Hours(),
		Services:   snapshots,
		Equipment:  quote.Equipment,
		Status:     domain.BookingReservationPending,
		TotalPrice: quote.Total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if conflictErr(err) {
			// the concurrent loser: first write won at the store
			return nil, sel.Hours(), ErrSlotConflict
		}
		return nil, nil, err
	}

	s.log.Info().
		Int64("booking_id", b.ID).
		Int64("studio_id", b.StudioID).
		Int64("user_id", b.UserID).
		Ints("slots", b.Slots).
		Float64("total", b.TotalPrice).
		Msg("reservation hold created")

	return b, nil, nil
}

// ValidateSelection re-checks a tentative selection against the live grid:
// hours that have become blocked are dropped and reported, and a price
// preview for the surviving hours is returned. Nothing is written.
func (s *Service) ValidateSelection(ctx context.Context, req ValidateSelectionRequest) (*SelectionPreview, error) {
	sel, err := SelectionFromHours(req.Slots, s.maxSlots)
	if err != nil {
		return nil, err
	}

	slots, err := s.schedule.DaySchedule(ctx, req.StudioID, req.Date)
	if err != nil {
		return nil, err
	}
	dropped := sel.Revalidate(slots)

	preview := &SelectionPreview{
		Slots:   sel.Hours(),
		Dropped: dropped,
	}

	services, err := s.services.GetByIDs(ctx, req.StudioID, req.ServiceIDs)
	if err != nil {
		return nil, err
	}
	snapshots := make([]domain.ServiceSnapshot, 0, len(services))
	for _, v := range services {
		snapshots = append(snapshots, domain.ServiceSnapshot{
			ServiceID:       v.ID,
			Name:            v.Name,
			Price:           v.Price,
			DurationMinutes: v.DurationMinutes,
		})
	}
	equipment, err := s.equipment.GetByIDs(ctx, req.StudioID, req.EquipmentIDs)
	if err != nil {
		return nil, err
	}

	quote := Price(sel.Count(), snapshots, equipment)
	preview.Quote = &quote
	return preview, nil
}

// MarkPaymentPending moves a live hold into the paying state. Called by the
// payment module when checkout is initialized. Idempotent for a booking
// already in payment_pending.
func (s *Service) MarkPaymentPending(ctx context.Context, bookingID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return s.mapStoreErr(err)
	}

	if b.HoldExpired(s.now(), s.ttl) {
		_, _ = s.bookings.CancelWithReason(ctx, bookingID, pendingStatuses(), "reservation expired")
		return ErrReservationExpired
	}

	switch b.Status {
	case domain.BookingPaymentPending:
		return nil
	case domain.BookingReservationPending:
	default:
		return ErrInvalidStatusTransition
	}

	ok, err := s.bookings.UpdateStatusIf(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingReservationPending}, domain.BookingPaymentPending)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidStatusTransition
	}
	return nil
}

// HandlePaymentOutcome applies the gateway's asynchronous verdict. A success
// for an expired or cancelled hold is refused with ErrReservationExpired:
// the caller owns the refund flagging (late-success policy: refuse and
// refund, never silently re-confirm).
func (s *Service) HandlePaymentOutcome(ctx context.Context, bookingID int64, success bool) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return s.mapStoreErr(err)
	}

	if !success {
		switch {
		case b.Status == domain.BookingCancelled:
			return nil // already released
		case b.Status.Pending():
			_, err := s.bookings.CancelWithReason(ctx, bookingID, pendingStatuses(), "payment failed")
			return err
		default:
			return ErrInvalidStatusTransition
		}
	}

	switch {
	case b.Status == domain.BookingConfirmed:
		return nil // idempotent replay
	case b.Status == domain.BookingCancelled:
		return ErrReservationExpired
	case b.Status.Pending():
		if b.HoldExpired(s.now(), s.ttl) {
			_, _ = s.bookings.CancelWithReason(ctx, bookingID, pendingStatuses(), "reservation expired")
			return ErrReservationExpired
		}
		ok, err := s.bookings.UpdateStatusIf(ctx, bookingID, pendingStatuses(), domain.BookingConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			// lost a race against the expiry sweep
			return ErrReservationExpired
		}
		s.log.Info().Int64("booking_id", bookingID).Msg("booking confirmed by payment")
		return nil
	default:
		return ErrInvalidStatusTransition
	}
}

// Cancel is the customer-side cancellation. Pending holds cancel outright
// and release the slot; a confirmed booking moves to cancel_pending, which
// keeps blocking until the owner resolves it.
func (s *Service) Cancel(ctx context.Context, bookingID, userID int64, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}

	switch {
	case b.Status.Pending():
		if _, err := s.bookings.CancelWithReason(ctx, bookingID, pendingStatuses(), reason); err != nil {
			return nil, err
		}
	case b.Status == domain.BookingConfirmed:
		ok, err := s.bookings.UpdateStatusIf(ctx, bookingID,
			[]domain.BookingStatus{domain.BookingConfirmed}, domain.BookingCancelPending)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidStatusTransition
		}
	default:
		return nil, ErrInvalidStatusTransition
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// ResolveCancellation settles a cancel_pending booking: the studio owner
// either approves (cancelled, slot released) or rejects (back to confirmed).
func (s *Service) ResolveCancellation(ctx context.Context, bookingID, ownerUserID int64, approve bool, reason string) (*domain.Booking, error) {
	ownerID, status, err := s.bookings.GetStudioOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if ownerID != ownerUserID {
		return nil, ErrForbidden
	}
	if status != domain.BookingCancelPending {
		return nil, ErrInvalidStatusTransition
	}

	from := []domain.BookingStatus{domain.BookingCancelPending}
	if approve {
		if _, err := s.bookings.CancelWithReason(ctx, bookingID, from, reason); err != nil {
			return nil, err
		}
	} else {
		ok, err := s.bookings.UpdateStatusIf(ctx, bookingID, from, domain.BookingConfirmed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidStatusTransition
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// GetForUser loads a booking for its customer or the owning studio's owner.
func (s *Service) GetForUser(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if b.UserID == userID {
		return b, nil
	}
	ownerID, _, err := s.bookings.GetStudioOwnerForBooking(ctx, bookingID)
	if err == nil && ownerID == userID {
		return b, nil
	}
	return nil, ErrForbidden
}

func (s *Service) ListMy(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

// TimerFor projects the countdown for a booking the user may see.
func (s *Service) TimerFor(ctx context.Context, bookingID, userID int64) (Timer, error) {
	b, err := s.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return Timer{}, err
	}
	return ProjectTimer(b, s.ttl, s.now()), nil
}

// TTL exposes the configured hold lifetime to presentation code.
func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) mapStoreErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func pendingStatuses() []domain.BookingStatus {
	return []domain.BookingStatus{domain.BookingReservationPending, domain.BookingPaymentPending}
}

// conflictErr recognizes the store-level double-booking rejections: the
// repository's in-transaction check and, on PostgreSQL, the exclusion or
// unique constraint fired by a concurrent insert.
func conflictErr(err error) bool {
	if errors.Is(err, repository.ErrOverlap) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23P01 exclusion_violation
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
