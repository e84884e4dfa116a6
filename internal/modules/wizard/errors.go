package wizard

import (
	"errors"
	"strings"
)

var (
	ErrValidation     = errors.New("wizard step is incomplete")
	ErrWizardNotFound = errors.New("wizard not found")
	ErrSubmitted      = errors.New("wizard has already been submitted")
	ErrWrongStep      = errors.New("operation not allowed on the current step")
	ErrStaleResult    = errors.New("wizard changed while rooms were loading")
)

// ValidationFault is a failed step guard. The offending field names are also written to the
// step's _errors list.
type ValidationFault struct {
	Step    Step
	Fields  []string
	Message string
}

func (f *ValidationFault) Error() string {
	if len(f.Fields) == 0 {
		return f.Step.String() + ": " + f.Message
	}
	return f.Step.String() + ": " + f.Message + " (" + strings.Join(f.Fields, ", ") + ")"
}

func (f *ValidationFault) Is(target error) bool { return target == ErrValidation }
