package notification

import (
	"context"

	"calendra/models"
)

// Notifier delivers a reminder to the attendee. Implementations may push,
// email or just log; the worker does not care which.
type Notifier interface {
	SendReminder(ctx context.Context, payload models.ReminderPayload) error
}
