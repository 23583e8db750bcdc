package ports

import "context"

// Notification is a message pushed to one connected user.
type Notification struct {
	UserID  string
	Subject string
	Content map[string]interface{}
}

// Publisher pushes realtime updates to players after a commit.
type Publisher interface {
	// Publish delivers the notifications. Delivery is best effort.
	Publish(ctx context.Context, notifications []Notification) error
}
