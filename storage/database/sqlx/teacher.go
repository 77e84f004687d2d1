// Package sqlxrepos implements the repositories on PostgreSQL with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-meet/core/teacher"
)

const teacherColumns = "id, name, email, department, created_at"

type teacherRow struct {
	ID         string      `db:"id"`
	Name       null.String `db:"name"`
	Email      string      `db:"email"`
	Department null.String `db:"department"`
	CreatedAt  time.Time   `db:"created_at"`
}

func (row teacherRow) teacher() teacher.Teacher {
	return teacher.Teacher{
		ID:         row.ID,
		Name:       row.Name.String,
		Email:      row.Email,
		Department: row.Department.String,
	}
}

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	q := "SELECT " + teacherColumns + " FROM teacher"
	var args []interface{}
	if filter.Department != "" {
		q += " WHERE department = $1"
		args = append(args, filter.Department)
	}
	q += " ORDER BY name, email"

	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting teachers")
	}

	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.teacher())
	}
	return teachers, nil
}

func (repo teacherRepository) GetTeacherByEmail(ctx context.Context, email string) (teacher.Teacher, error) {
	var row teacherRow
	err := repo.db.GetContext(ctx, &row, "SELECT "+teacherColumns+" FROM teacher WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "selecting teacher")
	}
	return row.teacher(), nil
}

func (repo teacherRepository) UpdateOrCreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	q := `INSERT INTO teacher (id, name, email, department) VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, department = EXCLUDED.department
		RETURNING ` + teacherColumns

	var row teacherRow
	err := repo.db.QueryRowxContext(
		ctx, q,
		t.ID,
		null.NewString(t.Name, t.Name != ""),
		t.Email,
		null.NewString(t.Department, t.Department != ""),
	).StructScan(&row)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "upserting teacher")
	}
	return row.teacher(), nil
}
