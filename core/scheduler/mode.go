package scheduler

import (
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
)

// Mode is how the candidate teachers are scoped.
type Mode string

const (
	ModeDepartment Mode = "department"
	ModeCustom     Mode = "custom"

	// CustomScopeLabel is recorded as the department of meetings scheduled in custom mode.
	CustomScopeLabel = "Custom"
)

var Modes = []Mode{ModeDepartment, ModeCustom}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(core.CleanString(s, true /* lower */)); m {
	case ModeDepartment, ModeCustom:
		return m, nil
	}
	return "", errors.Wrap(ErrUnknownMode, s)
}

// Scope is the active filter over the teachers.
type Scope struct {
	Mode       Mode   `json:"mode"`
	Department string `json:"department"` // only meaningful in department mode
}

// Label is the department key, or CustomScopeLabel in custom mode.
func (s Scope) Label() string {
	if s.Mode == ModeCustom {
		return CustomScopeLabel
	}
	return s.Department
}
