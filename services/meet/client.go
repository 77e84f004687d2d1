// Package meetsvc calls the create-and-invite API to get meeting links.
package meetsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
)

var (
	createAndInvitePath = "/create-and-invite"

	// errors
	ErrNoLink = errors.New("no meeting link in response")
)

// StatusError is returned for non 2xx replies.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("create-and-invite: status %d", e.StatusCode)
	}
	return fmt.Sprintf("create-and-invite: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	rest    *rest.Client
}

// NewClient returns a client of the create-and-invite API at conf.Meet.BaseURL.
// `httpClient` may be nil.
func NewClient(conf *core.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: conf.Meet.RequestTimeout}
	}
	return &Client{
		baseURL: conf.Meet.BaseURL,
		token:   conf.Meet.Token,
		rest:    &rest.Client{HTTPClient: httpClient},
	}
}

// CreateMeeting asks the API to create the meeting and invite the teachers. It returns the join link.
func (c *Client) CreateMeeting(ctx context.Context, draft meeting.Draft, teachers []teacher.Teacher) (string, error) {
	body, err := json.Marshal(meeting.CreateAndInviteRequest{Meeting: draft, Teachers: teachers})
	if err != nil {
		return "", errors.Wrap(err, "encoding request")
	}

	req := rest.Request{
		Method:  rest.Post,
		BaseURL: c.baseURL + createAndInvitePath,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: body,
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "calling create-and-invite")
	}

	var data meeting.CreateAndInviteResponse
	decodeErr := json.Unmarshal([]byte(res.Body), &data)

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{StatusCode: res.StatusCode, Message: data.Error}
	}
	if decodeErr != nil {
		return "", errors.Wrap(decodeErr, "decoding create-and-invite response")
	}
	if !data.Success {
		msg := data.Error
		if msg == "" {
			msg = "unsuccessful"
		}
		return "", errors.New("create-and-invite: " + msg)
	}
	link := data.Link()
	if link == "" {
		return "", ErrNoLink
	}
	return link, nil
}
