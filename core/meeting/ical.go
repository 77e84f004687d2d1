package meeting

import (
	"bytes"

	"github.com/emersion/go-ical"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core/teacher"
)

var icsProductID = "-//masomo//meet//EN"

// invitationICS renders a calendar invitation (METHOD:REQUEST) for the event.
func invitationICS(req EventRequest, ev Event, organizer string) ([]byte, error) {
	ve := ical.NewComponent(ical.CompEvent)
	uid := ev.ID
	if uid == "" {
		uid = req.RequestID
	}
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, req.Draft.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, NowFunc().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, req.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, req.End.UTC())
	ve.Props.SetText(ical.PropLocation, ev.HangoutLink)

	if desc := icsDescription(req.Draft, ev.HangoutLink); desc != "" {
		ve.Props.SetText(ical.PropDescription, desc)
	}
	if organizer != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.Value = "mailto:" + organizer
		ve.Props.Add(p)
	}
	for _, t := range req.Attendees {
		ve.Props.Add(attendeeProp(t))
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)
	cal.Props.SetText(ical.PropMethod, "REQUEST")
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, errors.Wrap(err, "encoding invitation")
	}
	return buf.Bytes(), nil
}

func attendeeProp(t teacher.Teacher) *ical.Prop {
	p := ical.NewProp(ical.PropAttendee)
	p.Value = "mailto:" + t.Email
	if t.Name != "" {
		p.Params.Set(ical.ParamCommonName, t.Name)
	}
	return p
}

func icsDescription(d Draft, link string) string {
	var buf bytes.Buffer
	if d.Description != "" {
		buf.WriteString(d.Description)
		buf.WriteString("\n\n")
	}
	if d.Agenda != "" {
		buf.WriteString("Agenda:\n")
		buf.WriteString(d.Agenda)
		buf.WriteString("\n\n")
	}
	if link != "" {
		buf.WriteString("Join: ")
		buf.WriteString(link)
	}
	return buf.String()
}
