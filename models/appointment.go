package models

import "time"

// BookingStatus is the lifecycle state of an appointment.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Appointment is a booked calendar entry. Appointments are owned by the
// appointment repository and never mutated after creation.
type Appointment struct {
	ID            string        `bson:"id" json:"id"`
	Title         string        `bson:"title" json:"title"`
	Start         time.Time     `bson:"start" json:"start"`
	End           time.Time     `bson:"end" json:"end"`
	AttendeeEmail string        `bson:"attendee_email,omitempty" json:"attendeeEmail,omitempty"`
	Status        BookingStatus `bson:"status" json:"status"`
	MeetingType   string        `bson:"meeting_type" json:"meetingType"`
	Priority      string        `bson:"priority" json:"priority"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
}

// CalendarAnalytics summarizes the booked calendar for the dashboard.
type CalendarAnalytics struct {
	TotalAppointments int     `json:"totalAppointments"`
	Confirmed         int     `json:"confirmed"`
	Pending           int     `json:"pending"`
	ThisWeek          int     `json:"thisWeek"`
	UtilizationRate   float64 `json:"utilizationRate"`
}
