package scheduler

import (
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
)

type Step int

const (
	StepSelectMode Step = iota
	StepSelectTeachers
	StepDetails
	StepConfirm
)

// Steps holds the step labels, in order.
var Steps = []string{"Select Mode", "Select Teachers", "Meeting Details", "Schedule"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(Steps) {
		return "Unknown"
	}
	return Steps[s]
}

// WizardState is the position of the wizard and the scope chosen on the first step.
type WizardState struct {
	Step Step `json:"step"`
	Scope
}

func NewWizardState() WizardState {
	return WizardState{Step: StepSelectMode, Scope: Scope{Mode: ModeDepartment}}
}

// Advance moves to the next step when the current one is complete.
// `selected` is the number of selected teachers.
func (ws WizardState) Advance(selected int) (WizardState, error) {
	switch ws.Step {
	case StepSelectMode:
		if ws.Mode == ModeDepartment && !core.NonBlank(ws.Department) {
			return ws, core.NewValidationError(
				errors.New(MsgSelectDepartment),
				core.FieldError{Field: "department", Error: "this field is required"},
			)
		}
	case StepSelectTeachers:
		if selected == 0 {
			return ws, core.NewValidationError(
				errors.New(MsgSelectTeachers),
				core.FieldError{Field: "teachers", Error: "select at least one teacher"},
			)
		}
	case StepDetails: // no gate
	default:
		return ws, ErrLastStep
	}
	ws.Step++
	return ws, nil
}

// Retreat moves back one step.
func (ws WizardState) Retreat() (WizardState, error) {
	if ws.Step <= StepSelectMode {
		return ws, ErrFirstStep
	}
	ws.Step--
	return ws, nil
}
