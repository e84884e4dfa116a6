package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/catalog"
)

type Options struct {
	// PendingBlocks makes pending bookings exclude rooms as well as confirmed ones.
	PendingBlocks bool
	HoldsEnabled  bool
	HoldTTL       time.Duration
}

type Service struct {
	bookings BookingReader
	rooms    RoomLister
	holds    HoldStore
	events   Publisher
	opts     Options
	log      *logrus.Logger
	now      func() time.Time

	holdMu sync.Mutex
}

// NewService wires the engine. holds and events may be nil.
func NewService(bookings BookingReader, rooms RoomLister, holds HoldStore, events Publisher, opts Options, log *logrus.Logger) *Service {
	if opts.HoldTTL <= 0 {
		opts.HoldTTL = 15 * time.Minute
	}
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		holds:    holds,
		events:   events,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

type queryOptions struct {
	exceptHoldsOf string
}

type QueryOption func(*queryOptions)

// ExceptHoldsOf ignores the holds placed by userID, so a guest never blocks themselves.
func ExceptHoldsOf(userID string) QueryOption {
	return func(o *queryOptions) { o.exceptHoldsOf = userID }
}

func (s *Service) blockingStatuses() []domain.BookingStatus {
	if s.opts.PendingBlocks {
		return []domain.BookingStatus{domain.BookingConfirmed, domain.BookingPending}
	}
	return []domain.BookingStatus{domain.BookingConfirmed}
}

func (s *Service) holdsActive() bool {
	return s.opts.HoldsEnabled && s.holds != nil
}

// BookedRoomIDs returns every room referenced by a blocking booking (or a foreign active
// hold) whose interval overlaps [checkIn, checkOut).
func (s *Service) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, opts ...QueryOption) (map[string]struct{}, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidRange
	}
	var q queryOptions
	for _, o := range opts {
		o(&q)
	}

	statuses := s.blockingStatuses()
	stays, err := s.bookings.ListStays(ctx, statuses)
	if err != nil {
		return nil, &Fault{Op: "scan bookings", Err: err}
	}

	blocking := make(map[domain.BookingStatus]bool, len(statuses))
	for _, st := range statuses {
		blocking[st] = true
	}

	booked := make(map[string]struct{})
	for _, stay := range stays {
		if !blocking[stay.Status] {
			continue
		}
		bs, be, ok := stayInterval(stay)
		if !ok {
			s.log.WithField("booking_id", stay.BookingID).Debug("availability: skipping booking with unreadable dates")
			continue
		}
		if !Overlaps(checkIn, checkOut, bs, be) {
			continue
		}
		for _, id := range stay.RoomIDs {
			booked[id] = struct{}{}
		}
	}

	if s.holdsActive() {
		holds, err := s.holds.ListActive(ctx, s.now())
		if err != nil {
			return nil, &Fault{Op: "scan holds", Err: err}
		}
		for _, h := range holds {
			if h.UserID == q.exceptHoldsOf && q.exceptHoldsOf != "" {
				continue
			}
			if Overlaps(checkIn, checkOut, h.CheckIn, h.CheckOut) {
				booked[h.RoomID] = struct{}{}
			}
		}
	}

	return booked, nil
}

func (s *Service) FilterAvailable(ctx context.Context, rooms []catalog.RoomView, checkIn, checkOut time.Time, opts ...QueryOption) ([]catalog.RoomView, error) {
	booked, err := s.BookedRoomIDs(ctx, checkIn, checkOut, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.RoomView, 0, len(rooms))
	for _, r := range rooms {
		if _, taken := booked[r.ID]; !taken {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, opts ...QueryOption) (bool, error) {
	booked, err := s.BookedRoomIDs(ctx, checkIn, checkOut, opts...)
	if err != nil {
		return false, err
	}
	_, taken := booked[roomID]
	return !taken, nil
}

// AvailableForCategoryAndCity returns an empty list when any of the four inputs is missing.
func (s *Service) AvailableForCategoryAndCity(ctx context.Context, categoryID, cityID string, checkIn, checkOut time.Time, opts ...QueryOption) ([]catalog.RoomView, error) {
	if categoryID == "" || cityID == "" || checkIn.IsZero() || checkOut.IsZero() {
		return []catalog.RoomView{}, nil
	}

	all, err := s.rooms.ListAllRooms(ctx)
	if err != nil {
		return nil, &Fault{Op: "list rooms", Err: err}
	}
	candidates := make([]catalog.RoomView, 0, len(all))
	for _, r := range all {
		if r.CategoryID == categoryID && r.CityID == cityID {
			candidates = append(candidates, r)
		}
	}
	return s.FilterAvailable(ctx, candidates, checkIn, checkOut, opts...)
}

// ListAvailable filters the whole catalog.
func (s *Service) ListAvailable(ctx context.Context, checkIn, checkOut time.Time, opts ...QueryOption) ([]catalog.RoomView, error) {
	all, err := s.rooms.ListAllRooms(ctx)
	if err != nil {
		return nil, &Fault{Op: "list rooms", Err: err}
	}
	return s.FilterAvailable(ctx, all, checkIn, checkOut, opts...)
}

// PlaceHolds reserves roomIDs for userID until the hold TTL elapses. holderID names the wizard
// placing them; only that holder's previous holds are replaced, so one guest may keep several
// wizards open. It is a no-op when holds are disabled.
func (s *Service) PlaceHolds(ctx context.Context, userID, holderID string, roomIDs []string, checkIn, checkOut time.Time) (time.Time, error) {
	if !s.holdsActive() || len(roomIDs) == 0 {
		return time.Time{}, nil
	}

	s.holdMu.Lock()
	defer s.holdMu.Unlock()

	booked, err := s.BookedRoomIDs(ctx, checkIn, checkOut, ExceptHoldsOf(userID))
	if err != nil {
		return time.Time{}, err
	}
	var taken []string
	for _, id := range roomIDs {
		if _, ok := booked[id]; ok {
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		sort.Strings(taken)
		return time.Time{}, &UnavailableError{RoomIDs: taken}
	}

	now := s.now()
	expires := now.Add(s.opts.HoldTTL)
	holds := make([]domain.RoomHold, 0, len(roomIDs))
	for _, id := range roomIDs {
		holds = append(holds, domain.RoomHold{
			RoomID:    id,
			UserID:    userID,
			HolderID:  holderID,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
			ExpiresAt: expires,
			CreatedAt: now,
		})
	}
	if err := s.holds.Replace(ctx, holderID, holds); err != nil {
		return time.Time{}, &Fault{Op: "place holds", Err: err}
	}

	s.publish(Event{Type: EventHoldPlaced, RoomIDs: roomIDs, CheckIn: checkIn, CheckOut: checkOut})
	return expires, nil
}

// ReleaseHolds drops every hold placed by holderID.
func (s *Service) ReleaseHolds(ctx context.Context, holderID string) error {
	if !s.holdsActive() {
		return nil
	}

	s.holdMu.Lock()
	defer s.holdMu.Unlock()

	var released []string
	if active, err := s.holds.ListActive(ctx, s.now()); err == nil {
		for _, h := range active {
			if h.HolderID == holderID {
				released = append(released, h.RoomID)
			}
		}
	}
	if err := s.holds.DeleteByHolder(ctx, holderID); err != nil {
		return &Fault{Op: "release holds", Err: err}
	}
	if len(released) > 0 {
		s.publish(Event{Type: EventHoldReleased, RoomIDs: released})
	}
	return nil
}

func (s *Service) PurgeExpiredHolds(ctx context.Context) (int64, error) {
	if s.holds == nil {
		return 0, nil
	}
	n, err := s.holds.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, &Fault{Op: "purge holds", Err: err}
	}
	return n, nil
}

// RunHoldJanitor purges expired holds every interval until ctx is done.
func (s *Service) RunHoldJanitor(ctx context.Context, interval time.Duration) {
	if !s.holdsActive() {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpiredHolds(ctx)
			if err != nil {
				s.log.WithError(err).Warn("availability: purging expired holds failed")
				continue
			}
			if n > 0 {
				s.log.WithField("count", n).Debug("availability: expired holds purged")
			}
		}
	}
}

func (s *Service) publish(ev Event) {
	if s.events == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	s.events.Publish(ev)
}
