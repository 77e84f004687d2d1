package scheduler

import "sync"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	Open     bool     `json:"open"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier is a single-slot notification sink: a new notification replaces any unread one.
type Notifier struct {
	mu sync.Mutex
	ch chan Notification
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan Notification, 1)}
}

func (n *Notifier) Notify(severity Severity, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	select {
	case <-n.ch: // drop the unread one
	default:
	}
	n.ch <- Notification{Open: true, Message: message, Severity: severity}
}

// C delivers notifications.
func (n *Notifier) C() <-chan Notification {
	return n.ch
}

// Pending returns the unread notification, if any, without blocking.
func (n *Notifier) Pending() (Notification, bool) {
	select {
	case notif := <-n.ch:
		return notif, true
	default:
		return Notification{}, false
	}
}
