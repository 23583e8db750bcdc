package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"fish/internal/ports"
)

// NotificationAdapter implements ports.Publisher with Nakama in-app notifications.
type NotificationAdapter struct {
	nk runtime.NakamaModule
}

// NewNotificationAdapter creates a new notification adapter.
func NewNotificationAdapter(nk runtime.NakamaModule) *NotificationAdapter {
	return &NotificationAdapter{nk: nk}
}

var _ ports.Publisher = (*NotificationAdapter)(nil)

// Publish sends the batch as non-persistent notifications from the system user.
func (a *NotificationAdapter) Publish(ctx context.Context, notifications []ports.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	batch := make([]*runtime.NotificationSend, 0, len(notifications))
	for _, n := range notifications {
		batch = append(batch, &runtime.NotificationSend{
			UserID:     n.UserID,
			Subject:    n.Subject,
			Content:    n.Content,
			Code:       NotificationCodeUpdate,
			Persistent: false,
		})
	}
	if err := a.nk.NotificationsSend(ctx, batch); err != nil {
		return fmt.Errorf("failed to send %d notifications: %w", len(batch), err)
	}
	return nil
}
