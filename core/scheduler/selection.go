package scheduler

import (
	"github.com/samber/lo"

	"github.com/trezcool/masomo-meet/core/teacher"
)

// Selection is the ordered set of chosen teachers, keyed by email.
// It is not safe for concurrent use.
type Selection struct {
	items []teacher.Teacher
}

func (s *Selection) index(email string) int {
	_, i, ok := lo.FindIndexOf(s.items, func(t teacher.Teacher) bool { return t.Email == email })
	if !ok {
		return -1
	}
	return i
}

// Toggle removes `t` if a teacher with the same email is selected, appends it otherwise.
func (s *Selection) Toggle(t teacher.Teacher) {
	if i := s.index(t.Email); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		return
	}
	s.items = append(s.items, t)
}

// SelectAll clears the selection when it is as large as the roster, replaces it with the roster otherwise.
func (s *Selection) SelectAll(roster []teacher.Teacher) {
	if len(s.items) == len(roster) {
		s.Clear()
		return
	}
	s.items = lo.UniqBy(append([]teacher.Teacher(nil), roster...), func(t teacher.Teacher) string { return t.Email })
}

func (s *Selection) Has(email string) bool {
	return s.index(email) >= 0
}

func (s *Selection) Len() int {
	return len(s.items)
}

// Teachers returns a copy of the selected teachers, in selection order.
func (s *Selection) Teachers() []teacher.Teacher {
	return append(make([]teacher.Teacher, 0, len(s.items)), s.items...)
}

func (s *Selection) Clear() {
	s.items = nil
}
