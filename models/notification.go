package models

// ReminderPayload is the asynq task body for an upcoming-appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	Title         string `json:"title"`
	StartTime     string `json:"startTime"` // RFC 3339
	AttendeeEmail string `json:"attendeeEmail,omitempty"`
}
