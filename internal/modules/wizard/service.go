package wizard

import (
	"context"
	"errors"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/modules/catalog"
)

type Service struct {
	store     *Store
	catalog   Catalog
	avail     Availability
	committer Committer
	timeout   time.Duration
	log       *logrus.Logger
}

func NewService(store *Store, cat Catalog, avail Availability, committer Committer, timeout time.Duration, log *logrus.Logger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		store:     store,
		catalog:   cat,
		avail:     avail,
		committer: committer,
		timeout:   timeout,
		log:       log,
	}
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Start creates a wizard on step 1, pre-seeded from the deep link. Hints that do not resolve
// are ignored.
func (s *Service) Start(ctx context.Context, owner domain.Identity, link DeepLink) (*View, error) {
	w := newWizard(uuid.NewString(), owner.UserID, time.Now())

	if link.City != "" {
		_ = w.SetCity(link.City)
	}

	if link.Category != "" {
		cctx, cancel := s.bounded(ctx)
		cat, ok, err := s.catalog.ResolveCategory(cctx, link.Category)
		cancel()
		switch {
		case err != nil:
			s.log.WithFields(logrus.Fields{"category": link.Category, "error": err.Error()}).Warn("wizard: deep-link category not resolved")
		case ok:
			_ = w.SelectCategory(cat.ID)
		}
	}

	if link.Room != "" {
		cctx, cancel := s.bounded(ctx)
		rooms := s.catalog.ListRoomsByIDs(cctx, []string{link.Room})
		cancel()
		if len(rooms) == 1 {
			r := rooms[0]
			_ = w.SelectRooms([]string{r.ID})
			if w.Form.SecondStep.SelectedCategoryID == "" {
				_ = w.SelectCategory(r.CategoryID)
			}
			if w.Form.FirstStep.City == "" && r.CityID != "" {
				_ = w.SetCity(r.CityID)
			}
		}
	}

	s.store.Put(w)
	return w.view(), nil
}

func (s *Service) load(owner domain.Identity, id string) (*Wizard, error) {
	w, ok := s.store.Get(id)
	if !ok || w.OwnerID != owner.UserID {
		return nil, ErrWizardNotFound
	}
	return w, nil
}

func (s *Service) Get(_ context.Context, owner domain.Identity, id string) (*View, error) {
	w, err := s.load(owner, id)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view(), nil
}

// UpdateTrip edits step 1. Later steps must go Back first, which drops the quote and holds.
func (s *Service) UpdateTrip(_ context.Context, owner domain.Identity, id string, p TripPatch) (*View, error) {
	return s.mutate(owner, id, []Step{StepTripParams}, func(w *Wizard) error {
		if p.CheckInDate != nil {
			if err := w.SetCheckIn(*p.CheckInDate); err != nil {
				return err
			}
		}
		if p.CheckOutDate != nil {
			if err := w.SetCheckOut(*p.CheckOutDate); err != nil {
				return err
			}
		}
		if p.NumGuests != nil {
			if err := w.SetGuests(*p.NumGuests); err != nil {
				return err
			}
		}
		if p.NumRooms != nil {
			if err := w.SetRoomCount(*p.NumRooms); err != nil {
				return err
			}
		}
		if p.City != nil {
			return w.SetCity(*p.City)
		}
		return nil
	})
}

// UpdateRooms edits the selection on step 1 (deep-link style) or step 2. A change on step 2
// invalidates any quote and holds left from an earlier visit to step 3.
func (s *Service) UpdateRooms(ctx context.Context, owner domain.Identity, id string, p RoomsPatch) (*View, error) {
	return s.mutate(owner, id, []Step{StepTripParams, StepRoomSelection}, func(w *Wizard) error {
		if w.Review != nil || !w.HoldUntil.IsZero() {
			s.releaseHolds(ctx, w.ID)
			w.Review = nil
			w.HoldUntil = time.Time{}
		}
		if p.SelectedCategoryID != nil {
			if err := w.SelectCategory(*p.SelectedCategoryID); err != nil {
				return err
			}
		}
		if p.SelectedRooms != nil {
			if err := w.SelectRooms(*p.SelectedRooms); err != nil {
				return err
			}
		}
		return w.ToggleRoom(p.ToggleRoom)
	})
}

func (s *Service) UpdatePayment(_ context.Context, owner domain.Identity, id string, p PaymentPatch) (*View, error) {
	return s.mutate(owner, id, []Step{StepPaymentReview}, func(w *Wizard) error {
		if p.PaymentMethod != nil {
			if err := w.SetPaymentMethod(*p.PaymentMethod); err != nil {
				return err
			}
		}
		if p.Receipt != nil {
			return w.AttachReceipt(*p.Receipt)
		}
		return nil
	})
}

// mutate applies fn only while the wizard is on one of steps.
func (s *Service) mutate(owner domain.Identity, id string, steps []Step, fn func(w *Wizard) error) (*View, error) {
	w, err := s.load(owner, id)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Step == StepSubmitted {
		return nil, ErrSubmitted
	}
	if !slices.Contains(steps, w.Step) {
		return nil, ErrWrongStep
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	return w.view(), nil
}

// Next advances one step. Leaving step 2 re-reads occupancy for the selected rooms, prices
// them and, when holds are enabled, reserves them. Any of these failing keeps the wizard on
// step 2.
func (s *Service) Next(ctx context.Context, owner domain.Identity, id string) (*View, error) {
	w, err := s.load(owner, id)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.Step != StepRoomSelection {
		if err := w.Next(); err != nil {
			return nil, err
		}
		return w.view(), nil
	}

	if f := w.checkRoomSelection(); f != nil {
		return nil, f
	}

	bctx, cancel := s.bounded(ctx)
	defer cancel()

	if err := s.ensureAvailable(bctx, owner, w); err != nil {
		return nil, err
	}
	quote, _, err := s.committer.Quote(bctx, w.Form)
	if err != nil {
		return nil, err
	}
	in, out := *w.Form.FirstStep.CheckInDate, *w.Form.FirstStep.CheckOutDate
	until, err := s.avail.PlaceHolds(bctx, owner.UserID, w.ID, w.Form.SecondStep.SelectedRooms, in, out)
	if err != nil {
		return nil, err
	}

	if err := w.Next(); err != nil {
		return nil, err
	}
	w.Review = &quote
	w.HoldUntil = until
	return w.view(), nil
}

// Back goes one step back. Returning to step 1 gives up any room holds.
func (s *Service) Back(ctx context.Context, owner domain.Identity, id string) (*View, error) {
	w, err := s.load(owner, id)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.Back(); err != nil {
		return nil, err
	}
	if w.Step == StepTripParams {
		s.releaseHolds(ctx, w.ID)
		w.HoldUntil = time.Time{}
		w.Review = nil
	}
	return w.view(), nil
}

// CandidateRooms loads the rooms step 2 may offer. The query runs without holding the wizard
// lock; if the trip, category or step changed meanwhile the result is dropped.
func (s *Service) CandidateRooms(ctx context.Context, owner domain.Identity, id string) ([]catalog.RoomView, error) {
	w, err := s.load(owner, id)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.Step != StepRoomSelection {
		w.mu.Unlock()
		return nil, ErrWrongStep
	}
	key := w.candidateKey()
	first := w.Form.Clone().FirstStep
	categoryID := w.Form.SecondStep.SelectedCategoryID
	w.mu.Unlock()

	bctx, cancel := s.bounded(ctx)
	defer cancel()

	var rooms []catalog.RoomView
	if categoryID != "" {
		rooms, err = s.avail.AvailableForCategoryAndCity(bctx, categoryID, first.City, *first.CheckInDate, *first.CheckOutDate, availability.ExceptHoldsOf(owner.UserID))
	} else {
		var all []catalog.RoomView
		all, err = s.avail.ListAvailable(bctx, *first.CheckInDate, *first.CheckOutDate, availability.ExceptHoldsOf(owner.UserID))
		for _, r := range all {
			if r.CityID == first.City {
				rooms = append(rooms, r)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !s.store.Has(id) || w.candidateKey() != key {
		return nil, ErrStaleResult
	}
	if rooms == nil {
		rooms = []catalog.RoomView{}
	}
	return rooms, nil
}

// Submit re-runs every step guard, checks the rooms are still free and commits. On failure
// the wizard stays on step 3 untouched.
func (s *Service) Submit(ctx context.Context, owner domain.Identity, id string) (*SubmitResult, error) {
	w, err := s.load(owner, id)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.readyToSubmit(); err != nil {
		return nil, err
	}

	bctx, cancel := s.bounded(ctx)
	defer cancel()

	if err := s.ensureAvailable(bctx, owner, w); err != nil {
		return nil, err
	}
	conf, err := s.committer.Commit(bctx, owner, w.Form.Clone())
	if err != nil {
		return nil, err
	}

	w.markSubmitted()
	s.store.Delete(id)
	s.releaseHolds(ctx, id)

	return &SubmitResult{Confirmation: conf, ContactEmail: conf.ContactEmail}, nil
}

func (s *Service) Discard(ctx context.Context, owner domain.Identity, id string) error {
	if _, err := s.load(owner, id); err != nil {
		return err
	}
	s.store.Delete(id)
	s.releaseHolds(ctx, id)
	return nil
}

// ExpireIdle is the store janitor callback.
func (s *Service) ExpireIdle(wizardID string) {
	s.releaseHolds(context.Background(), wizardID)
}

// ensureAvailable fails with *availability.UnavailableError when a selected room is taken for
// the trip dates. The owner's own holds do not count.
func (s *Service) ensureAvailable(ctx context.Context, owner domain.Identity, w *Wizard) error {
	first := w.Form.FirstStep
	booked, err := s.avail.BookedRoomIDs(ctx, *first.CheckInDate, *first.CheckOutDate, availability.ExceptHoldsOf(owner.UserID))
	if err != nil {
		return err
	}
	var taken []string
	for _, id := range w.Form.SecondStep.SelectedRooms {
		if _, ok := booked[id]; ok {
			taken = append(taken, id)
		}
	}
	if len(taken) == 0 {
		return nil
	}
	sort.Strings(taken)
	return &availability.UnavailableError{RoomIDs: taken}
}

func (s *Service) releaseHolds(ctx context.Context, wizardID string) {
	bctx, cancel := s.bounded(context.WithoutCancel(ctx))
	defer cancel()
	if err := s.avail.ReleaseHolds(bctx, wizardID); err != nil && !errors.Is(err, context.Canceled) {
		s.log.WithFields(logrus.Fields{"wizard_id": wizardID, "error": err.Error()}).Warn("wizard: releasing holds failed")
	}
}
