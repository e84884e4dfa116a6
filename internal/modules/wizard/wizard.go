package wizard

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/booking"
	"resortbooking/internal/pkg/validator"
)

type Step int

const (
	StepTripParams Step = iota + 1
	StepRoomSelection
	StepPaymentReview
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepTripParams:
		return "Step1_TripParams"
	case StepRoomSelection:
		return "Step2_RoomSelection"
	case StepPaymentReview:
		return "Step3_PaymentReview"
	case StepSubmitted:
		return "Submitted"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Wizard is one guest's booking in progress. Callers hold mu around every method.
type Wizard struct {
	ID        string
	OwnerID   string
	Step      Step
	Form      domain.WizardFormState
	Version   uint64
	Review    *booking.Quote
	HoldUntil time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

func newWizard(id, ownerID string, now time.Time) *Wizard {
	return &Wizard{
		ID:        id,
		OwnerID:   ownerID,
		Step:      StepTripParams,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (w *Wizard) touch() error {
	if w.Step == StepSubmitted {
		return ErrSubmitted
	}
	w.Version++
	w.UpdatedAt = time.Now()
	return nil
}

// SetCheckIn moves check-out to one hour after check-in when the old value would no longer
// be after it.
func (w *Wizard) SetCheckIn(t time.Time) error {
	if err := w.touch(); err != nil {
		return err
	}
	in := t
	w.Form.FirstStep.CheckInDate = &in
	if out := w.Form.FirstStep.CheckOutDate; out != nil && !out.After(in) {
		corrected := in.Add(time.Hour)
		w.Form.FirstStep.CheckOutDate = &corrected
	}
	return nil
}

func (w *Wizard) SetCheckOut(t time.Time) error {
	if err := w.touch(); err != nil {
		return err
	}
	out := t
	w.Form.FirstStep.CheckOutDate = &out
	return nil
}

func (w *Wizard) SetGuests(n int) error {
	if err := w.touch(); err != nil {
		return err
	}
	w.Form.FirstStep.NumGuests = n
	return nil
}

func (w *Wizard) SetRoomCount(n int) error {
	if err := w.touch(); err != nil {
		return err
	}
	w.Form.FirstStep.NumRooms = n
	return nil
}

func (w *Wizard) SetCity(city string) error {
	if err := w.touch(); err != nil {
		return err
	}
	w.Form.FirstStep.City = strings.TrimSpace(city)
	return nil
}

func (w *Wizard) SelectCategory(categoryID string) error {
	if err := w.touch(); err != nil {
		return err
	}
	w.Form.SecondStep.SelectedCategoryID = strings.TrimSpace(categoryID)
	return nil
}

func (w *Wizard) SelectRooms(ids []string) error {
	if err := w.touch(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(ids))
	rooms := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rooms = append(rooms, id)
	}
	w.Form.SecondStep.SelectedRooms = rooms
	return nil
}

// ToggleRoom adds roomID to the selection or removes it if already selected.
func (w *Wizard) ToggleRoom(roomID string) error {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil
	}
	if err := w.touch(); err != nil {
		return err
	}
	sel := w.Form.SecondStep.SelectedRooms
	for i, id := range sel {
		if id == roomID {
			w.Form.SecondStep.SelectedRooms = append(sel[:i:i], sel[i+1:]...)
			return nil
		}
	}
	w.Form.SecondStep.SelectedRooms = append(sel, roomID)
	return nil
}

func (w *Wizard) SetPaymentMethod(method string) error {
	if err := w.touch(); err != nil {
		return err
	}
	w.Form.ThirdStep.PaymentMethod = strings.TrimSpace(method)
	return nil
}

func (w *Wizard) AttachReceipt(ref string) error {
	if err := w.touch(); err != nil {
		return err
	}
	w.Form.ThirdStep.Receipt = strings.TrimSpace(ref)
	return nil
}

func (w *Wizard) checkTripParams() *ValidationFault {
	first := &w.Form.FirstStep
	fields := validator.Fields(first)
	if len(fields) == 0 && !first.CheckOutDate.After(*first.CheckInDate) {
		fields = []string{"checkOutDate"}
	}
	first.Errors = fields
	if len(fields) == 0 {
		return nil
	}
	return &ValidationFault{
		Step:    StepTripParams,
		Fields:  fields,
		Message: "Please fill in all trip details before choosing rooms",
	}
}

func (w *Wizard) checkRoomSelection() *ValidationFault {
	second := &w.Form.SecondStep
	selected := len(second.SelectedRooms)
	want := w.Form.FirstStep.NumRooms

	var msg string
	switch {
	case selected == 0:
		msg = "Please select at least one room"
	case selected < want:
		msg = fmt.Sprintf("You asked for %d rooms; select %d more", want, want-selected)
	}
	if msg == "" {
		second.Errors = nil
		return nil
	}
	second.Errors = []string{"selectedRooms"}
	return &ValidationFault{Step: StepRoomSelection, Fields: second.Errors, Message: msg}
}

func (w *Wizard) checkPayment() *ValidationFault {
	third := &w.Form.ThirdStep
	fields := validator.Fields(third)
	third.Errors = fields
	if len(fields) == 0 {
		return nil
	}
	return &ValidationFault{
		Step:    StepPaymentReview,
		Fields:  fields,
		Message: "Please choose a payment method",
	}
}

// Next runs the guard of the current step and advances on success. Step 3 is left through
// Submit only.
func (w *Wizard) Next() error {
	switch w.Step {
	case StepTripParams:
		if f := w.checkTripParams(); f != nil {
			return f
		}
	case StepRoomSelection:
		if f := w.checkRoomSelection(); f != nil {
			return f
		}
	case StepSubmitted:
		return ErrSubmitted
	default:
		return ErrWrongStep
	}
	w.Step++
	w.Version++
	w.UpdatedAt = time.Now()
	return nil
}

// Back goes one step back from 2 or 3. Nothing is re-validated and no data is dropped.
func (w *Wizard) Back() error {
	switch w.Step {
	case StepRoomSelection, StepPaymentReview:
		w.Step--
		w.Version++
		w.UpdatedAt = time.Now()
		return nil
	case StepSubmitted:
		return ErrSubmitted
	}
	return ErrWrongStep
}

// readyToSubmit runs every step guard, not only the payment one.
func (w *Wizard) readyToSubmit() error {
	switch w.Step {
	case StepPaymentReview:
		if f := w.checkTripParams(); f != nil {
			return f
		}
		if f := w.checkRoomSelection(); f != nil {
			return f
		}
		if f := w.checkPayment(); f != nil {
			return f
		}
		return nil
	case StepSubmitted:
		return ErrSubmitted
	}
	return ErrWrongStep
}

func (w *Wizard) markSubmitted() {
	w.Step = StepSubmitted
	w.Version++
	w.UpdatedAt = time.Now()
}

// candidateKey identifies the inputs of a step-2 room query.
func (w *Wizard) candidateKey() string {
	f := w.Form
	var in, out string
	if f.FirstStep.CheckInDate != nil {
		in = f.FirstStep.CheckInDate.UTC().Format(time.RFC3339Nano)
	}
	if f.FirstStep.CheckOutDate != nil {
		out = f.FirstStep.CheckOutDate.UTC().Format(time.RFC3339Nano)
	}
	return strings.Join([]string{fmt.Sprint(int(w.Step)), in, out, f.FirstStep.City, f.SecondStep.SelectedCategoryID}, "|")
}
