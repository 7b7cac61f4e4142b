package agent

import (
	"context"
	"errors"
	"time"

	appointmentRepo "calendra/database/repository/appointment"
	"calendra/services/calendar"

	"calendra/models"
)

// ErrEmptySessionID is returned when a caller omits the session identifier.
var ErrEmptySessionID = errors.New("session id must not be empty")

// ReminderScheduler schedules a reminder ahead of a booked appointment.
// The notification service provides the real implementation; the agent only
// needs this one method.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, apt *models.Appointment) error
}

// Service is the conversational booking agent consumed by the HTTP layer.
type Service interface {
	// ProcessMessage runs one turn of the conversation for the session.
	ProcessMessage(ctx context.Context, sessionID, text string) (*models.AgentResponse, error)
	// Reset discards the session's conversation state.
	Reset(ctx context.Context, sessionID string) error
}

// DefaultAgentService implements Service on top of the session store, the
// availability engine and the appointment repository.
type DefaultAgentService struct {
	Sessions        SessionStore
	Engine          *calendar.Engine
	Repo            appointmentRepo.AppointmentRepository
	Reminders       ReminderScheduler // optional
	DefaultDuration int               // minutes
	Now             func() time.Time  // injectable clock
}

// NewDefaultAgentService wires the agent with its collaborators. reminders
// may be nil when reminder delivery is disabled.
func NewDefaultAgentService(sessions SessionStore, engine *calendar.Engine, repo appointmentRepo.AppointmentRepository, reminders ReminderScheduler, defaultDuration int) *DefaultAgentService {
	return &DefaultAgentService{
		Sessions:        sessions,
		Engine:          engine,
		Repo:            repo,
		Reminders:       reminders,
		DefaultDuration: defaultDuration,
	}
}
