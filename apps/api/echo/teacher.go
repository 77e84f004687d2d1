package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/teacher"
)

type teacherApi struct {
	svc  *teacher.Service
	conf *core.Config
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *teacher.Service, conf *core.Config) {
	api := teacherApi{svc: svc, conf: conf}

	g.GET("/departments", api.departments, jwt)
	g.GET("/teachers", api.query, jwt)
}

// Handlers

func (api *teacherApi) departments(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.conf.Departments)
}

func (api *teacherApi) query(ctx echo.Context) error {
	filter := new(teacher.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	if filter.Department != "" && !api.conf.IsDepartment(filter.Department) {
		msg := "unknown department"
		if s := core.SuggestDepartment(filter.Department, api.conf.Departments); s != "" {
			msg += fmt.Sprintf(", did you mean %q?", s)
		}
		return core.NewValidationError(nil, core.FieldError{Field: "department", Error: msg})
	}

	teachers, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}
