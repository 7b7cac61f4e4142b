package models

import "time"

// Intent is the classified purpose of a user utterance.
type Intent string

const (
	IntentBookAppointment   Intent = "book_appointment"
	IntentCheckAvailability Intent = "check_availability"
	IntentCancelAppointment Intent = "cancel_appointment"
	IntentGeneralInquiry    Intent = "general_inquiry"
)

// TimePreference narrows the business-hour window for slot search.
type TimePreference string

const (
	PreferenceMorning      TimePreference = "morning"
	PreferenceAfternoon    TimePreference = "afternoon"
	PreferenceEvening      TimePreference = "evening"
	PreferenceSpecificTime TimePreference = "specific_time"
)

// Step is the conversation's position in the booking dialogue.
type Step string

const (
	StepInitial           Step = "initial"
	StepDateClarification Step = "date_clarification"
	StepSlotSelection     Step = "slot_selection"
	StepConfirmation      Step = "confirmation"
)

// HistoryEntry is one turn of the conversation transcript.
type HistoryEntry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState carries everything the agent knows about one session.
// It is serialized as JSON into the session store between turns.
type ConversationState struct {
	ConversationID  string         `json:"conversationId"`
	Intent          Intent         `json:"intent,omitempty"`
	Date            time.Time      `json:"date,omitzero"` // midnight of the requested day
	TimePreference  TimePreference `json:"timePreference,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	MeetingTitle    string         `json:"meetingTitle,omitempty"`
	AttendeeEmail   string         `json:"attendeeEmail,omitempty"`
	SuggestedSlots  []TimeSlot     `json:"suggestedSlots,omitempty"`
	SelectedSlot    *TimeSlot      `json:"selectedSlot,omitempty"`
	Step            Step           `json:"step"`
	History         []HistoryEntry `json:"history,omitempty"`
}

// HasDate reports whether a date has been extracted for this conversation.
func (s *ConversationState) HasDate() bool {
	return !s.Date.IsZero()
}
