package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
)

type meetingApi struct {
	svc        *meeting.Service
	translator ut.Translator
	logger     core.Logger
}

func registerMeetingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *meeting.Service, translator ut.Translator, logger core.Logger) {
	api := meetingApi{svc: svc, translator: translator, logger: logger}

	mg := g.Group("/meetings", jwt)
	mg.GET("", api.query)
	mg.POST("/create-and-invite", api.createAndInvite)
}

// Handlers

// createAndInvite always replies with a meeting.CreateAndInviteResponse, failures included.
func (api *meetingApi) createAndInvite(ctx echo.Context) error {
	var data meeting.CreateAndInviteRequest
	if err := ctx.Bind(&data); err != nil {
		return ctx.JSON(http.StatusBadRequest, meeting.CreateAndInviteResponse{Error: "invalid request body"})
	}

	ev, err := api.svc.CreateAndInvite(ctx.Request().Context(), data.Meeting, data.Teachers)
	if err != nil {
		if vErr := core.TranslateValidationErrors(errors.Cause(err), api.translator); core.IsValidation(vErr) {
			return ctx.JSON(http.StatusBadRequest, meeting.CreateAndInviteResponse{Error: vErr.Error()})
		}

		api.logger.Error(fmt.Sprintf("create-and-invite %q: %v", data.Meeting.Title, err), err, ctx.Request())
		msg := "could not create the meeting"
		if ctx.Echo().Debug {
			msg = err.Error()
		}
		return ctx.JSON(http.StatusBadGateway, meeting.CreateAndInviteResponse{Error: msg})
	}

	return ctx.JSON(http.StatusOK, meeting.CreateAndInviteResponse{
		Success:  true,
		MeetLink: ev.HangoutLink,
		Event:    &ev,
	})
}

func (api *meetingApi) query(ctx echo.Context) error {
	filter := new(meeting.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, meeting.OrderingFields...)

	meetings, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying meetings")
	}
	if meetings == nil {
		meetings = []meeting.Meeting{}
	}
	return ctx.JSON(http.StatusOK, meetings)
}
