package teacher

import (
	"net/mail"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-meet/core"
)

// Teacher is a candidate meeting participant. Email is the natural key.
type Teacher struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department,omitempty"`
}

// Address returns the teacher's email address, named when the name is known.
func (t Teacher) Address() mail.Address {
	return mail.Address{Name: t.Name, Address: t.Email}
}

// Label is a human readable representation: "Name <email>" or just the email.
func (t Teacher) Label() string {
	if t.Name == "" {
		return t.Email
	}
	return t.Name + " <" + t.Email + ">"
}

type QueryFilter struct {
	Department string `query:"department"`
}

func (f *QueryFilter) Clean() {
	f.Department = core.CleanString(f.Department)
}

type NewTeacher struct {
	Name       string `json:"name" validate:"notblank,max=150"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Department string `json:"department" validate:"required,department"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Department = core.CleanString(nt.Department)
	return validate.Struct(nt)
}
