package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-meet/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		if filter.Department == "" || t.Department == filter.Department {
			teachers = append(teachers, *t)
		}
	}
	sort.Slice(teachers, func(i, j int) bool {
		if teachers[i].Name == teachers[j].Name {
			return teachers[i].Email < teachers[j].Email
		}
		return teachers[i].Name < teachers[j].Name
	})
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByEmail(ctx context.Context, email string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[email]; ok {
		return *t, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateOrCreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig, ok := repo.db.table[t.Email]; ok {
		orig.Name = t.Name
		orig.Department = t.Department
		return *orig, nil
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	repo.db.table[t.Email] = &t
	return t, nil
}
