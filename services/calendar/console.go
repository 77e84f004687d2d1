package calendarsvc

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
)

var fakeMeetHost = "https://meet.google.com/"

// ConsoleCreator logs events instead of creating them, and hands out fake meet links.
type ConsoleCreator struct {
	logger core.Logger

	mu      sync.Mutex
	created []meeting.EventRequest
}

var _ meeting.EventCreator = (*ConsoleCreator)(nil)

func NewConsoleCreator(logger core.Logger) *ConsoleCreator {
	return &ConsoleCreator{logger: logger}
}

func (c *ConsoleCreator) CreateEvent(ctx context.Context, req meeting.EventRequest) (meeting.Event, error) {
	if err := ctx.Err(); err != nil {
		return meeting.Event{}, err
	}

	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	ev := meeting.Event{
		ID:          id,
		HangoutLink: fakeMeetHost + fakeMeetCode(id),
		HTMLLink:    "https://calendar.google.com/calendar/event?eid=" + id,
	}

	c.mu.Lock()
	c.created = append(c.created, req)
	c.mu.Unlock()

	c.logger.Info(fmt.Sprintf(
		"calendar event %q %s - %s with %d attendee(s): %s",
		req.Draft.Title, req.Start.Format("2006-01-02 15:04"), req.End.Format("15:04"), len(req.Attendees), ev.HangoutLink,
	))
	return ev, nil
}

// Created returns the requests received so far.
func (c *ConsoleCreator) Created() []meeting.EventRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]meeting.EventRequest(nil), c.created...)
}

// fakeMeetCode formats the first 10 letters of `id` like a meet code: abc-defg-hij.
func fakeMeetCode(id string) string {
	letters := make([]byte, 0, 10)
	for i := 0; len(letters) < 10; i++ {
		letters = append(letters, 'a'+id[i%len(id)]%26)
	}
	return string(letters[:3]) + "-" + string(letters[3:7]) + "-" + string(letters[7:])
}
