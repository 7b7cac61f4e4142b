package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"calendra/models"
)

// ErrSlotConflict is returned when the requested interval overlaps an
// existing appointment at commit time. It is distinct from "no slots
// available" so callers can branch the conversation accordingly.
var ErrSlotConflict = errors.New("requested slot conflicts with an existing appointment")

// BookingDetails carries the optional fields of a new appointment.
type BookingDetails struct {
	Title         string
	AttendeeEmail string
	MeetingType   string
	Priority      string
}

// AppointmentRepository is the authoritative store of booked appointments.
// The availability engine reads busy intervals from it; the agent writes
// through Book.
type AppointmentRepository interface {
	// GetBusyTimes returns the busy intervals whose appointment start lies
	// within [rangeStart, rangeEnd], inclusive.
	GetBusyTimes(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.TimeSlot, error)

	// Book creates a Confirmed appointment for the slot. The conflict check
	// runs in the same critical section as the append, so two sessions
	// cannot commit overlapping slots.
	Book(ctx context.Context, slot models.TimeSlot, details BookingDetails) (*models.Appointment, error)

	// List returns all stored appointments in insertion order.
	List(ctx context.Context) ([]models.Appointment, error)

	// Analytics aggregates booking counts for the dashboard, relative to now.
	Analytics(ctx context.Context, now time.Time) (models.CalendarAnalytics, error)
}
