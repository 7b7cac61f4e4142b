package models

// AgentRequest is the payload coming from the frontend into /api/agent/message.
type AgentRequest struct {
	SessionID string `json:"sessionId"` // blank on the first turn; server assigns one
	Text      string `json:"text"`      // user's message (typed or voice→text)
}

// SlotOption is one selectable slot surfaced to the frontend.
type SlotOption struct {
	Index       int     `json:"index"` // 1-based
	Start       string  `json:"start"` // formatted label, e.g. "09:00 AM"
	End         string  `json:"end"`
	Confidence  float64 `json:"confidence"`
	Recommended bool    `json:"recommended"`
}

// ConfirmationDetails describes the slot awaiting a meeting title.
type ConfirmationDetails struct {
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Duration   int     `json:"duration"`
	Confidence float64 `json:"confidence"`
}

// BookingSuccess is attached to the turn that commits an appointment.
type BookingSuccess struct {
	AppointmentID string `json:"appointmentId"`
	Title         string `json:"title"`
	DateTime      string `json:"dateTime"` // RFC 3339 start
	MeetingType   string `json:"meetingType"`
}

// AgentMetadata is the structured companion to the agent's reply text.
type AgentMetadata struct {
	Intent              Intent               `json:"intent,omitempty"`
	Step                Step                 `json:"step"`
	Confidence          float64              `json:"confidence"`
	Suggestions         []string             `json:"suggestions,omitempty"`
	AvailableSlots      []SlotOption         `json:"availableSlots,omitempty"`
	ConfirmationDetails *ConfirmationDetails `json:"confirmationDetails,omitempty"`
	BookingSuccess      *BookingSuccess      `json:"bookingSuccess,omitempty"`
}

// AgentResponse is what the agent handler returns to the frontend.
type AgentResponse struct {
	SessionID    string        `json:"sessionId"`
	ResponseText string        `json:"response"`
	Metadata     AgentMetadata `json:"metadata"`
}
