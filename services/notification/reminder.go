package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"calendra/models"
	"calendra/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeReminderSend is the asynq task type for appointment reminders.
const TypeReminderSend = "reminder:send"

// NewReminderTask builds a reminder task scheduled to fire at fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues reminder tasks on Redis so they fire a
// fixed lead time before each appointment starts.
type AsynqReminderScheduler struct {
	client *asynq.Client
	lead   time.Duration
}

func NewAsynqReminderScheduler(redisOpts asynq.RedisClientOpt, leadMinutes int) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client: asynq.NewClient(redisOpts),
		lead:   time.Duration(leadMinutes) * time.Minute,
	}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, apt *models.Appointment) error {
	fireAt := apt.Start.Add(-s.lead)
	payload := models.ReminderPayload{
		AppointmentID: apt.ID,
		Title:         apt.Title,
		StartTime:     apt.Start.Format(time.RFC3339),
		AttendeeEmail: apt.AttendeeEmail,
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}

	utils.GetLogger().Info("reminder scheduled",
		zap.String("appointmentId", apt.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt),
	)
	return nil
}

func (s *AsynqReminderScheduler) Close() error {
	return s.client.Close()
}
