package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/repository"
)

type Service struct {
	rooms    RoomRepository
	bookings BookingRepository
	payments PaymentRepository
	tx       Transactor
	events   availability.Publisher
	policy   Policy
	log      *logrus.Logger
	now      func() time.Time
}

// NewService wires the commit service. With a nil tx the booking and payment writes are
// sequential and a failed payment write leaves an orphaned booking.
func NewService(
	rooms RoomRepository,
	bookings BookingRepository,
	payments PaymentRepository,
	tx Transactor,
	events availability.Publisher,
	policy Policy,
	log *logrus.Logger,
) *Service {
	return &Service{
		rooms:    rooms,
		bookings: bookings,
		payments: payments,
		tx:       tx,
		events:   events,
		policy:   policy,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Policy() Policy { return s.policy }

// Quote prices the rooms of a form without writing anything.
func (s *Service) Quote(ctx context.Context, form domain.WizardFormState) (Quote, []domain.Room, error) {
	in, out, err := tripDates(form)
	if err != nil {
		return Quote{}, nil, err
	}
	rooms, err := s.resolveRooms(ctx, form.SecondStep.SelectedRooms)
	if err != nil {
		return Quote{}, nil, err
	}
	return s.policy.Quote(prices(rooms), in, out), rooms, nil
}

// Commit turns a completed wizard into a pending Booking and its Pending Payment.
func (s *Service) Commit(ctx context.Context, identity domain.Identity, form domain.WizardFormState) (*Confirmation, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthenticated
	}

	in, out, err := tripDates(form)
	if err != nil {
		return nil, err
	}
	rooms, err := s.resolveRooms(ctx, form.SecondStep.SelectedRooms)
	if err != nil {
		return nil, err
	}
	quote := s.policy.Quote(prices(rooms), in, out)

	now := s.now()
	roomIDs := make([]string, 0, len(rooms))
	for _, r := range rooms {
		roomIDs = append(roomIDs, r.ID)
	}

	b := domain.Booking{
		ID:            uuid.NewString(),
		UserID:        identity.UserID,
		CheckIn:       in,
		CheckOut:      out,
		NumGuests:     form.FirstStep.NumGuests,
		RoomIDs:       roomIDs,
		PaymentMethod: form.ThirdStep.PaymentMethod,
		Status:        domain.BookingPending,
		CreatedAt:     now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	p := domain.Payment{
		ID:          uuid.NewString(),
		BookingID:   b.ID,
		Method:      form.ThirdStep.PaymentMethod,
		TotalAmount: quote.TotalAmount,
		Advance:     quote.Advance,
		PaidAmount:  0,
		Status:      domain.PaymentPending,
		CreatedAt:   now,
	}
	if receipt := strings.TrimSpace(form.ThirdStep.Receipt); receipt != "" {
		p.ReceiptRef = &receipt
	}

	if s.tx != nil {
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.bookings.Create(ctx, &b); err != nil {
				return &CommitError{Stage: "booking", Err: err}
			}
			if err := s.payments.Create(ctx, &p); err != nil {
				return &CommitError{Stage: "payment", Err: err}
			}
			return nil
		})
		if err != nil {
			var ce *CommitError
			if !errors.As(err, &ce) {
				err = &CommitError{Stage: "transaction", Err: err}
			}
			s.log.WithFields(logrus.Fields{"user_id": identity.UserID, "error": err.Error()}).Warn("booking: commit failed")
			return nil, err
		}
	} else {
		if err := s.bookings.Create(ctx, &b); err != nil {
			s.log.WithFields(logrus.Fields{"user_id": identity.UserID, "error": err.Error()}).Warn("booking: commit failed")
			return nil, &CommitError{Stage: "booking", Err: err}
		}
		if err := s.payments.Create(ctx, &p); err != nil {
			s.log.WithFields(logrus.Fields{
				"orphaned_booking": true,
				"booking_id":       b.ID,
				"user_id":          identity.UserID,
				"error":            err.Error(),
			}).Error("booking: payment write failed after booking was saved")
			return nil, &OrphanedBookingError{BookingID: b.ID, Err: err}
		}
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"user_id":    identity.UserID,
		"rooms":      len(roomIDs),
		"nights":     quote.Nights,
		"total":      quote.TotalAmount,
	}).Info("booking: committed")

	s.publish(availability.Event{
		Type:      availability.EventBookingCommitted,
		RoomIDs:   roomIDs,
		CheckIn:   in,
		CheckOut:  out,
		BookingID: b.ID,
	})

	return &Confirmation{
		Booking:      b,
		Payment:      p,
		Rooms:        rooms,
		Nights:       quote.Nights,
		ContactEmail: identity.Email,
	}, nil
}

// ConfirmBooking moves a pending booking to Confirmed. From then on it blocks availability.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := s.transition(ctx, bookingID, domain.BookingPending, domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(availability.Event{
		Type:      availability.EventBookingConfirmed,
		RoomIDs:   b.RoomIDs,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		BookingID: b.ID,
	})
	return b, nil
}

// CancelBooking cancels a booking of the acting user; admins may cancel any booking.
func (s *Service) CancelBooking(ctx context.Context, identity domain.Identity, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if b.UserID != identity.UserID && identity.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrInvalidTransition
	}

	from := b.Status
	updated, err := s.transition(ctx, bookingID, from, domain.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if from == domain.BookingConfirmed {
		s.publish(availability.Event{
			Type:      availability.EventBookingCancelled,
			RoomIDs:   updated.RoomIDs,
			CheckIn:   updated.CheckIn,
			CheckOut:  updated.CheckOut,
			BookingID: updated.ID,
		})
	}
	return updated, nil
}

func (s *Service) transition(ctx context.Context, bookingID string, from, to domain.BookingStatus) (*domain.Booking, error) {
	if err := s.bookings.UpdateStatus(ctx, bookingID, from, to); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			if _, getErr := s.bookings.GetByID(ctx, bookingID); getErr != nil {
				return nil, mapRepoError(getErr)
			}
			return nil, ErrInvalidTransition
		}
		return nil, mapRepoError(err)
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return b, nil
}

func (s *Service) MyBookings(ctx context.Context, userID string) ([]BookingSummary, error) {
	list, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]BookingSummary, 0, len(list))
	for _, b := range list {
		sum := BookingSummary{
			ID:        b.ID,
			CheckIn:   b.CheckIn,
			CheckOut:  b.CheckOut,
			NumGuests: b.NumGuests,
			RoomIDs:   b.RoomIDs,
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
		}
		if p, err := s.payments.GetByBookingID(ctx, b.ID); err == nil {
			total, adv := p.TotalAmount, p.Advance
			sum.TotalAmount = &total
			sum.Advance = &adv
			sum.PaymentState = p.Status
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load payment: %w", err)
		}
		out = append(out, sum)
	}
	return out, nil
}

// GetConfirmation rebuilds the confirmation of a stored booking for its owner or an admin.
func (s *Service) GetConfirmation(ctx context.Context, identity domain.Identity, bookingID string) (*Confirmation, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if b.UserID != identity.UserID && identity.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	p, err := s.payments.GetByBookingID(ctx, b.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	rooms, err := s.rooms.GetRoomsByIDs(ctx, b.RoomIDs)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	conf := &Confirmation{
		Booking:      *b,
		Rooms:        rooms,
		Nights:       s.policy.StayNights(b.CheckIn, b.CheckOut),
		ContactEmail: identity.Email,
	}
	if p != nil {
		conf.Payment = *p
	}
	return conf, nil
}

// ListOrphanedBookings reports bookings that have no payment record.
func (s *Service) ListOrphanedBookings(ctx context.Context) ([]domain.Booking, error) {
	list, err := s.bookings.ListWithoutPayment(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orphaned bookings: %w", err)
	}
	return list, nil
}

func (s *Service) resolveRooms(ctx context.Context, selected []string) ([]domain.Room, error) {
	ids := dedupe(selected)
	if len(ids) == 0 {
		return nil, ErrNoRooms
	}

	rooms, err := s.rooms.GetRoomsByIDs(ctx, ids)
	if err != nil {
		return nil, &CommitError{Stage: "resolve rooms", Err: err}
	}

	byID := make(map[string]domain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	ordered := make([]domain.Room, 0, len(ids))
	var missing []string
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		ordered = append(ordered, r)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, strings.Join(missing, ", "))
	}
	return ordered, nil
}

func (s *Service) publish(ev availability.Event) {
	if s.events == nil {
		return
	}
	ev.At = s.now()
	s.events.Publish(ev)
}

func tripDates(form domain.WizardFormState) (time.Time, time.Time, error) {
	if form.FirstStep.CheckInDate == nil || form.FirstStep.CheckOutDate == nil {
		return time.Time{}, time.Time{}, ErrMissingTrip
	}
	return *form.FirstStep.CheckInDate, *form.FirstStep.CheckOutDate, nil
}

func prices(rooms []domain.Room) []float64 {
	out := make([]float64, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Price)
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
	}
	return err
}
