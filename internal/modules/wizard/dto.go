package wizard

import (
	"time"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/booking"
)

// DeepLink pre-seeds a new wizard from room/category/city hints.
type DeepLink struct {
	Room     string `json:"room" form:"room"`
	Category string `json:"category" form:"category"`
	City     string `json:"city" form:"city"`
}

type TripPatch struct {
	CheckInDate  *time.Time `json:"checkInDate"`
	CheckOutDate *time.Time `json:"checkOutDate"`
	NumGuests    *int       `json:"numGuests"`
	NumRooms     *int       `json:"numRooms"`
	City         *string    `json:"city"`
}

type RoomsPatch struct {
	SelectedCategoryID *string   `json:"selectedCategoryId"`
	SelectedRooms      *[]string `json:"selectedRooms"`
	ToggleRoom         string    `json:"toggleRoom"`
}

type PaymentPatch struct {
	PaymentMethod *string `json:"paymentMethod"`
	Receipt       *string `json:"receipt"`
}

type View struct {
	ID        string                 `json:"id"`
	Step      int                    `json:"step"`
	StepName  string                 `json:"stepName"`
	Version   uint64                 `json:"version"`
	Form      domain.WizardFormState `json:"form"`
	Review    *booking.Quote         `json:"review,omitempty"`
	HoldUntil *time.Time             `json:"holdUntil,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func (w *Wizard) view() *View {
	v := &View{
		ID:        w.ID,
		Step:      int(w.Step),
		StepName:  w.Step.String(),
		Version:   w.Version,
		Form:      w.Form.Clone(),
		UpdatedAt: w.UpdatedAt,
	}
	if w.Review != nil {
		q := *w.Review
		v.Review = &q
	}
	if !w.HoldUntil.IsZero() {
		t := w.HoldUntil
		v.HoldUntil = &t
	}
	return v
}

type SubmitResult struct {
	Confirmation *booking.Confirmation `json:"confirmation"`
	ContactEmail string                `json:"contactEmail"`
}
