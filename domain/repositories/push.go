package repositories

import "context"

// Notification is one outbound push message. A message with no title and
// body is delivered as a data-only silent refresh.
type Notification struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

// Displayable reports whether the message should render a visible popup.
func (n Notification) Displayable() bool {
	return n.Title != "" && n.Body != ""
}

// PushSender abstracts the external push-notification collaborator.
// Delivery is best-effort; callers treat failures as log-and-continue.
type PushSender interface {
	// Send delivers the notification and returns a provider delivery id.
	Send(ctx context.Context, notification Notification) (string, error)
}
