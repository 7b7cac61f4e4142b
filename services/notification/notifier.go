package notification

import (
	"context"

	"calendra/models"
	"calendra/utils"

	"go.uber.org/zap"
)

// LogNotifier writes reminders to the structured log. It stands in until a
// real delivery channel (email, push) is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendReminder(ctx context.Context, payload models.ReminderPayload) error {
	utils.GetLogger().Info("appointment reminder",
		zap.String("appointmentId", payload.AppointmentID),
		zap.String("title", payload.Title),
		zap.String("startTime", payload.StartTime),
		zap.String("attendeeEmail", payload.AttendeeEmail),
	)
	return nil
}
