package scheduler

import (
	"context"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/teacher"
)

// Querier fetches teachers. teacher.Service implements it.
type Querier interface {
	Query(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error)
}

// Resolver derives the roster of a scope.
type Resolver struct {
	querier Querier
}

func NewResolver(querier Querier) *Resolver {
	return &Resolver{querier: querier}
}

// Resolve returns `all` in custom mode, nothing for a blank department, the department's teachers otherwise.
// On query failure an empty roster is returned along with a *FetchError.
func (r *Resolver) Resolve(ctx context.Context, scope Scope, all []teacher.Teacher) ([]teacher.Teacher, error) {
	if scope.Mode == ModeCustom {
		return append([]teacher.Teacher{}, all...), nil
	}
	dept := core.CleanString(scope.Department)
	if dept == "" {
		return []teacher.Teacher{}, nil
	}
	roster, err := r.querier.Query(ctx, teacher.QueryFilter{Department: dept})
	if err != nil {
		return []teacher.Teacher{}, &FetchError{Department: dept, Err: err}
	}
	if roster == nil {
		roster = []teacher.Teacher{}
	}
	return roster, nil
}

// All fetches every teacher.
func (r *Resolver) All(ctx context.Context) ([]teacher.Teacher, error) {
	all, err := r.querier.Query(ctx, teacher.QueryFilter{})
	if err != nil {
		return []teacher.Teacher{}, &FetchError{Err: err}
	}
	return all, nil
}
