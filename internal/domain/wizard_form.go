package domain

import "time"

type FirstStep struct {
	CheckInDate  *time.Time `json:"checkInDate" validate:"required"`
	CheckOutDate *time.Time `json:"checkOutDate" validate:"required"`
	NumGuests    int        `json:"numGuests" validate:"required,gt=0"`
	NumRooms     int        `json:"numRooms" validate:"required,gt=0"`
	City         string     `json:"city" validate:"required"`
	Errors       []string   `json:"_errors" validate:"-"`
}

type SecondStep struct {
	SelectedCategoryID string   `json:"selectedCategoryId"`
	SelectedRooms      []string `json:"selectedRooms"`
	Errors             []string `json:"_errors"`
}

type ThirdStep struct {
	PaymentMethod string   `json:"paymentMethod" validate:"required"`
	Receipt       string   `json:"receipt,omitempty"`
	Errors        []string `json:"_errors" validate:"-"`
}

// WizardFormState is the input a guest accumulates across the three booking steps.
type WizardFormState struct {
	FirstStep  FirstStep  `json:"firstStep"`
	SecondStep SecondStep `json:"secondStep"`
	ThirdStep  ThirdStep  `json:"thirdStep"`
}

func (f WizardFormState) Clone() WizardFormState {
	out := f
	if f.FirstStep.CheckInDate != nil {
		v := *f.FirstStep.CheckInDate
		out.FirstStep.CheckInDate = &v
	}
	if f.FirstStep.CheckOutDate != nil {
		v := *f.FirstStep.CheckOutDate
		out.FirstStep.CheckOutDate = &v
	}
	out.FirstStep.Errors = append([]string(nil), f.FirstStep.Errors...)
	out.SecondStep.SelectedRooms = append([]string(nil), f.SecondStep.SelectedRooms...)
	out.SecondStep.Errors = append([]string(nil), f.SecondStep.Errors...)
	out.ThirdStep.Errors = append([]string(nil), f.ThirdStep.Errors...)
	return out
}
