package teacher

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
)

var (
	// errors
	ErrNotFound = errors.New("teacher not found")
)

type (
	Repository interface {
		// QueryTeachers returns teachers matching the filter; an empty filter returns them all.
		QueryTeachers(ctx context.Context, filter QueryFilter) ([]Teacher, error)
		GetTeacherByEmail(ctx context.Context, email string) (Teacher, error)
		// UpdateOrCreateTeacher upserts a teacher by email.
		UpdateOrCreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

// Query fetches teachers and normalizes them: emails are trimmed and lowered, records without
// a valid email are dropped since they cannot be selected nor invited.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Teacher, error) {
	filter.Clean()
	teachers, err := svc.repo.QueryTeachers(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return svc.normalize(teachers), nil
}

func (svc *Service) normalize(teachers []Teacher) []Teacher {
	cleaned := make([]Teacher, 0, len(teachers))
	for _, t := range teachers {
		t.Email = core.CleanString(t.Email, true /* lower */)
		t.Name = core.CleanString(t.Name)
		t.Department = core.CleanString(t.Department)
		if _, err := mail.ParseAddress(t.Email); err != nil {
			svc.logger.Debug(fmt.Sprintf("skipping teacher %q: invalid email %q", t.ID, t.Email))
			continue
		}
		cleaned = append(cleaned, t)
	}
	return cleaned
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Teacher, error) {
	return svc.repo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Save validates `nt` then updates or creates the matching teacher.
func (svc *Service) Save(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.UpdateOrCreateTeacher(ctx, Teacher{
		Name:       nt.Name,
		Email:      nt.Email,
		Department: nt.Department,
	})
	if err != nil {
		return Teacher{}, errors.Wrap(err, "saving teacher")
	}
	return t, nil
}
