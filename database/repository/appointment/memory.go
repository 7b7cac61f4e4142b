package appointmentRepo

import (
	"context"
	"sync"
	"time"

	"calendra/models"

	"github.com/google/uuid"
)

// assumedWeeklySlots is the fixed denominator for the utilization rate.
const assumedWeeklySlots = 20

// MemoryAppointmentRepo is the in-memory implementation used by default and
// in tests. It is safe for concurrent use by multiple sessions.
type MemoryAppointmentRepo struct {
	mu           sync.RWMutex
	appointments []models.Appointment
}

// NewMemoryAppointmentRepo constructs an empty in-memory store.
func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{}
}

// Seed pre-populates the calendar with a realistic day of meetings so
// availability has busy intervals out of the box.
func (r *MemoryAppointmentRepo) Seed(now time.Time) {
	day := func(hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments = append(r.appointments,
		models.Appointment{
			ID: "1", Title: "Team Standup",
			Start: day(9, 0), End: day(9, 30),
			Status: models.StatusConfirmed, MeetingType: "Team Meeting", Priority: "High",
			CreatedAt: now,
		},
		models.Appointment{
			ID: "2", Title: "Client Strategy Session",
			Start: day(14, 0), End: day(15, 30),
			Status: models.StatusConfirmed, MeetingType: "Client Call", Priority: "High",
			CreatedAt: now,
		},
		models.Appointment{
			ID: "3", Title: "Code Review",
			Start: day(16, 0), End: day(17, 0),
			Status: models.StatusPending, MeetingType: "Development", Priority: "Medium",
			CreatedAt: now,
		},
	)
}

func (r *MemoryAppointmentRepo) GetBusyTimes(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var busy []models.TimeSlot
	for _, apt := range r.appointments {
		if !apt.Start.Before(rangeStart) && !apt.Start.After(rangeEnd) {
			busy = append(busy, models.TimeSlot{Start: apt.Start, End: apt.End, Available: false, Confidence: 1.0})
		}
	}
	return busy, nil
}

func (r *MemoryAppointmentRepo) Book(ctx context.Context, slot models.TimeSlot, details BookingDetails) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, apt := range r.appointments {
		if slot.Start.Before(apt.End) && slot.End.After(apt.Start) {
			return nil, ErrSlotConflict
		}
	}

	apt := models.Appointment{
		ID:            uuid.New().String(),
		Title:         defaultString(details.Title, "Meeting"),
		Start:         slot.Start,
		End:           slot.End,
		AttendeeEmail: details.AttendeeEmail,
		Status:        models.StatusConfirmed,
		MeetingType:   defaultString(details.MeetingType, "General"),
		Priority:      defaultString(details.Priority, "Medium"),
		CreatedAt:     time.Now(),
	}
	r.appointments = append(r.appointments, apt)
	return &apt, nil
}

func (r *MemoryAppointmentRepo) List(ctx context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, len(r.appointments))
	copy(out, r.appointments)
	return out, nil
}

func (r *MemoryAppointmentRepo) Analytics(ctx context.Context, now time.Time) (models.CalendarAnalytics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	weekEnd := weekStart.AddDate(0, 0, 7)

	a := models.CalendarAnalytics{TotalAppointments: len(r.appointments)}
	for _, apt := range r.appointments {
		switch apt.Status {
		case models.StatusConfirmed:
			a.Confirmed++
		case models.StatusPending:
			a.Pending++
		}
		if !apt.Start.Before(weekStart) && apt.Start.Before(weekEnd) {
			a.ThisWeek++
		}
	}
	a.UtilizationRate = utilizationRate(a.Confirmed)
	return a, nil
}

func utilizationRate(confirmed int) float64 {
	rate := float64(confirmed) / assumedWeeklySlots * 100
	if rate > 100 {
		return 100
	}
	return rate
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
