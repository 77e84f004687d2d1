// Package calendarsvc creates the calendar events, with a video conference, backing meetings.
package calendarsvc

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
)

var (
	credentialsFile = "credentials.json"
	redirectURL     = "urn:ietf:wg:oauth:2.0:oob"

	conferenceType = "hangoutsMeet"
	sendUpdates    = "all"
)

// GoogleCreator creates Google Calendar events with a Google Meet conference.
type GoogleCreator struct {
	service    *calendar.Service
	calendarID string
	logger     core.Logger
}

var _ meeting.EventCreator = (*GoogleCreator)(nil)

// NewGoogleCreator authenticates with the token saved in conf.Google.TokenFile.
func NewGoogleCreator(ctx context.Context, conf *core.Config, logger core.Logger) (*GoogleCreator, error) {
	config, err := OAuthConfig(conf)
	if err != nil {
		return nil, errors.Wrap(err, "getting OAuth config")
	}

	token, err := tokenFromFile(conf.Google.TokenFile)
	if err != nil {
		return nil, errors.Wrapf(err, "loading token %s, run the admin 'gauth' command first", conf.Google.TokenFile)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, errors.Wrap(err, "creating calendar service")
	}
	return &GoogleCreator{service: service, calendarID: conf.Google.CalendarID, logger: logger}, nil
}

// NewGoogleCreatorWithService uses an already configured calendar service.
func NewGoogleCreatorWithService(service *calendar.Service, calendarID string, logger core.Logger) *GoogleCreator {
	return &GoogleCreator{service: service, calendarID: calendarID, logger: logger}
}

func (c *GoogleCreator) CreateEvent(ctx context.Context, req meeting.EventRequest) (meeting.Event, error) {
	ev, err := c.service.Events.Insert(c.calendarID, buildEvent(req)).
		ConferenceDataVersion(1).
		SendUpdates(sendUpdates).
		Context(ctx).
		Do()
	if err != nil {
		return meeting.Event{}, errors.Wrap(err, "inserting calendar event")
	}
	c.logger.Info("calendar event created: " + ev.Id)
	return meeting.Event{ID: ev.Id, HangoutLink: meetLink(ev), HTMLLink: ev.HtmlLink}, nil
}

func buildEvent(req meeting.EventRequest) *calendar.Event {
	attendees := make([]*calendar.EventAttendee, 0, len(req.Attendees))
	for _, t := range req.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: t.Email, DisplayName: t.Name})
	}

	description := req.Draft.Description
	if req.Draft.Agenda != "" {
		if description != "" {
			description += "\n\n"
		}
		description += "Agenda:\n" + req.Draft.Agenda
	}

	return &calendar.Event{
		Summary:     req.Draft.Title,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: req.Start.Format(time.RFC3339), TimeZone: req.Start.Location().String()},
		End:         &calendar.EventDateTime{DateTime: req.End.Format(time.RFC3339), TimeZone: req.End.Location().String()},
		Attendees:   attendees,
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             req.RequestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: conferenceType},
			},
		},
	}
}

// meetLink returns the hangout link, or the video entry point of the conference.
func meetLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return ""
}

// OAuthConfig returns the OAuth2 config of the calendar client.
// conf.Google credentials take precedence over a local credentials.json file.
func OAuthConfig(conf *core.Config) (*oauth2.Config, error) {
	if conf.Google.ClientID != "" && conf.Google.ClientSecret != "" {
		return &oauth2.Config{
			ClientID:     conf.Google.ClientID,
			ClientSecret: conf.Google.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, errors.New("credentials.json not found: set GOOGLE_CLIENTID & GOOGLE_CLIENTSECRET or add credentials.json")
		}
		return nil, errors.Wrap(err, "reading client secret file")
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, errors.Wrap(err, "parsing client secret file")
	}
	config.RedirectURL = redirectURL
	return config, nil
}

// SaveToken saves an OAuth2 token to `path`.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "creating token file")
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
