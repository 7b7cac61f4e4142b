package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	appointmentRepo "calendra/database/repository/appointment"
	"calendra/models"
	"calendra/services/calendar"
	"calendra/services/nlp"
	"calendra/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// displayConfidence is the fixed confidence value surfaced in metadata.
const displayConfidence = 0.9

// historyLimit caps the per-session transcript.
const historyLimit = 50

func (s *DefaultAgentService) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAgentService) newState() *models.ConversationState {
	return &models.ConversationState{
		ConversationID:  uuid.New().String(),
		DurationMinutes: s.DefaultDuration,
		Step:            models.StepInitial,
	}
}

// ProcessMessage runs one turn: load state, extract scheduling hints, merge,
// dispatch on the current step, persist, reply.
func (s *DefaultAgentService) ProcessMessage(ctx context.Context, sessionID, text string) (*models.AgentResponse, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	state, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if state == nil {
		state = s.newState()
	}

	now := s.clock()
	appendHistory(state, "user", text, now)

	// Merge this turn's extraction results. A general inquiry carries no
	// signal, so it never overwrites a remembered intent.
	if intent := nlp.ExtractIntent(text); intent != models.IntentGeneralInquiry {
		state.Intent = intent
	}
	if date, ok := nlp.ExtractDate(text, now); ok {
		state.Date = date
	}
	if pref, ok := nlp.ExtractTimePreference(text); ok {
		state.TimePreference = pref
	}

	response, md := s.route(ctx, state, text)
	md.Step = state.Step
	md.Confidence = displayConfidence

	appendHistory(state, "assistant", response, s.clock())
	if err := s.Sessions.Set(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	return &models.AgentResponse{SessionID: sessionID, ResponseText: response, Metadata: md}, nil
}

// Reset discards the conversation; the next message starts fresh.
func (s *DefaultAgentService) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	return s.Sessions.Clear(ctx, sessionID)
}

func (s *DefaultAgentService) route(ctx context.Context, state *models.ConversationState, text string) (string, models.AgentMetadata) {
	md := models.AgentMetadata{Intent: state.Intent}

	switch state.Step {
	case models.StepInitial:
		return s.handleInitial(ctx, state, &md), md
	case models.StepDateClarification:
		return s.handleDateClarification(ctx, state, &md), md
	case models.StepSlotSelection:
		return s.handleSlotSelection(ctx, state, text, &md), md
	case models.StepConfirmation:
		return s.handleConfirmation(ctx, state, text, &md), md
	default:
		return s.handleGeneralInquiry(state, &md), md
	}
}

func (s *DefaultAgentService) handleInitial(ctx context.Context, state *models.ConversationState, md *models.AgentMetadata) string {
	switch state.Intent {
	case models.IntentBookAppointment:
		if !state.HasDate() {
			state.Step = models.StepDateClarification
			md.Suggestions = []string{"tomorrow", "next Friday", "this Monday", "12/25"}
			return "I'd be happy to help you schedule an appointment. What date works best for you? " +
				"You can say something like 'tomorrow', 'next Friday', or a specific date like '12/25'."
		}
		return s.suggestSlots(ctx, state, md)

	case models.IntentCheckAvailability:
		if !state.HasDate() {
			state.Step = models.StepDateClarification
			md.Suggestions = []string{"this week", "next Monday", "tomorrow"}
			return "I'll check the calendar for you. What date are you interested in?"
		}
		return s.showAvailability(ctx, state, md)

	case models.IntentCancelAppointment:
		return "I can help you cancel an appointment. Could you provide the booking ID " +
			"or tell me which meeting you'd like to cancel?"

	default:
		md.Suggestions = []string{
			"Book a meeting for tomorrow",
			"Check availability this week",
			"Schedule a team call",
			"Show my calendar",
		}
		return "Hello! I'm your calendar assistant.\n\n" +
			"I can help you with:\n" +
			"- Scheduling appointments: just tell me when you'd like to meet\n" +
			"- Checking availability: I'll show you open time slots\n" +
			"- Managing bookings: cancel or reschedule existing appointments\n\n" +
			"What would you like to do today?"
	}
}

// handleDateClarification re-routes once a recognizable date has been
// merged; anything else keeps the conversation parked here.
func (s *DefaultAgentService) handleDateClarification(ctx context.Context, state *models.ConversationState, md *models.AgentMetadata) string {
	if !state.HasDate() {
		md.Suggestions = []string{"tomorrow", "next Friday", "12/25"}
		return "I still need a date. You can say 'tomorrow', a weekday like 'Friday', " +
			"or a specific date like '12/25'."
	}
	if state.Intent == models.IntentCheckAvailability {
		return s.showAvailability(ctx, state, md)
	}
	return s.suggestSlots(ctx, state, md)
}

// suggestSlots queries the availability engine and, when slots exist, moves
// the conversation into slot selection.
func (s *DefaultAgentService) suggestSlots(ctx context.Context, state *models.ConversationState, md *models.AgentMetadata) string {
	slots, err := s.Engine.AvailableSlots(ctx, state.Date, state.DurationMinutes, state.TimePreference, true)
	if err != nil {
		utils.GetLogger().Error("slot search failed", zap.Error(err))
		return "I couldn't check the calendar just now. Please try again in a moment."
	}
	if len(slots) == 0 {
		md.Suggestions = []string{"try another date", "next week", "different time"}
		return fmt.Sprintf("I don't have any available slots on %s. Would you like to try a different date?",
			formatDay(state.Date))
	}

	state.SuggestedSlots = slots
	state.Step = models.StepSlotSelection
	md.AvailableSlots = slotOptions(slots)

	var b strings.Builder
	fmt.Fprintf(&b, "I found some great time slots for %s:\n\n", formatDay(state.Date))
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. %s - %s", i+1, formatClock(slot.Start), formatClock(slot.End))
		if calendar.Recommended(slot) {
			b.WriteString(" (Recommended)")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nWhich slot would you prefer? Just tell me the number or the time.")
	return b.String()
}

func (s *DefaultAgentService) handleSlotSelection(ctx context.Context, state *models.ConversationState, text string, md *models.AgentMetadata) string {
	lower := strings.ToLower(text)

	// First pass: a literal index, or the phrase "slot N".
	for i := 1; i <= len(state.SuggestedSlots); i++ {
		n := strconv.Itoa(i)
		if strings.Contains(text, n) || strings.Contains(lower, "slot "+n) {
			return s.confirmSlot(state, state.SuggestedSlots[i-1], md)
		}
	}

	// Second pass: a time-of-day literal, e.g. "9:00" or "9 am".
	for _, slot := range state.SuggestedSlots {
		clock := strings.ToLower(slot.Start.Format("3:04"))
		hour := strings.ToLower(slot.Start.Format("3 PM"))
		if strings.Contains(lower, clock) || strings.Contains(lower, hour) {
			return s.confirmSlot(state, slot, md)
		}
	}

	md.Suggestions = []string{"1", "2", "3", "the first one", "2 PM slot"}
	return "I didn't catch which slot you'd prefer. Could you tell me the number (1, 2, 3, ...) " +
		"or the specific time you want?"
}

func (s *DefaultAgentService) confirmSlot(state *models.ConversationState, slot models.TimeSlot, md *models.AgentMetadata) string {
	state.SelectedSlot = &slot
	state.Step = models.StepConfirmation

	md.ConfirmationDetails = &models.ConfirmationDetails{
		Date:       formatFullDate(slot.Start),
		Time:       fmt.Sprintf("%s - %s", formatClock(slot.Start), formatClock(slot.End)),
		Duration:   state.DurationMinutes,
		Confidence: slot.Confidence,
	}

	var b strings.Builder
	b.WriteString("Excellent choice! Let me confirm your appointment:\n\n")
	fmt.Fprintf(&b, "Date: %s\n", formatFullDate(slot.Start))
	fmt.Fprintf(&b, "Time: %s - %s\n", formatClock(slot.Start), formatClock(slot.End))
	fmt.Fprintf(&b, "Duration: %d minutes\n", state.DurationMinutes)
	if calendar.Recommended(slot) {
		b.WriteString("This is an optimal time slot.\n")
	}
	b.WriteString("\nWhat would you like to call this meeting? " +
		"For example: 'Team Standup', 'Client Presentation', 'Strategy Session'.")
	return b.String()
}

// handleConfirmation treats the whole utterance as the meeting title, books
// the selected slot and resets the conversation.
func (s *DefaultAgentService) handleConfirmation(ctx context.Context, state *models.ConversationState, text string, md *models.AgentMetadata) string {
	logger := utils.GetLogger()

	// A conflict on an earlier turn can clear the selection; route back to
	// picking a slot instead of booking nothing.
	if state.SelectedSlot == nil {
		state.Step = models.StepDateClarification
		return s.handleDateClarification(ctx, state, md)
	}

	title := strings.TrimSpace(text)
	if title == "" {
		title = "Meeting"
	}
	state.MeetingTitle = title

	apt, err := s.Repo.Book(ctx, *state.SelectedSlot, appointmentRepo.BookingDetails{
		Title:         title,
		AttendeeEmail: state.AttendeeEmail,
		MeetingType:   nlp.ExtractMeetingType(text),
	})
	if errors.Is(err, appointmentRepo.ErrSlotConflict) {
		// Someone grabbed the slot between suggestion and commit; refresh.
		logger.Warn("slot conflict at commit time",
			zap.Time("start", state.SelectedSlot.Start), zap.Time("end", state.SelectedSlot.End))
		state.SelectedSlot = nil
		state.SuggestedSlots = nil
		reply := "It looks like that time was just booked by someone else. " + s.suggestSlots(ctx, state, md)
		if state.Step != models.StepSlotSelection {
			// Nothing left to offer on this date; ask for a new one so the
			// session never sits in confirmation without a selection.
			state.Step = models.StepDateClarification
		}
		return reply
	}
	if err != nil {
		logger.Error("booking failed", zap.Error(err))
		return "I couldn't save your booking just now. Please try again in a moment."
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, apt); err != nil {
			logger.Warn("failed to schedule reminder", zap.String("appointmentID", apt.ID), zap.Error(err))
		}
	}

	md.BookingSuccess = &models.BookingSuccess{
		AppointmentID: apt.ID,
		Title:         apt.Title,
		DateTime:      apt.Start.Format(time.RFC3339),
		MeetingType:   apt.MeetingType,
	}

	var b strings.Builder
	b.WriteString("Booking confirmed! Your appointment is all set.\n\n")
	fmt.Fprintf(&b, "Meeting: %s\n", apt.Title)
	fmt.Fprintf(&b, "Date: %s\n", formatFullDate(apt.Start))
	fmt.Fprintf(&b, "Time: %s - %s\n", formatClock(apt.Start), formatClock(apt.End))
	fmt.Fprintf(&b, "Type: %s\n", apt.MeetingType)
	fmt.Fprintf(&b, "Booking ID: %s\n", shortID(apt.ID))
	b.WriteString("\nIs there anything else I can help you with today?")

	// Start over with a fresh conversation for the next request.
	*state = *s.newState()
	return b.String()
}

// showAvailability lists open slots without entering the booking flow; the
// user has to follow up with a booking request to proceed.
func (s *DefaultAgentService) showAvailability(ctx context.Context, state *models.ConversationState, md *models.AgentMetadata) string {
	slots, err := s.Engine.AvailableSlots(ctx, state.Date, state.DurationMinutes, state.TimePreference, true)
	if err != nil {
		utils.GetLogger().Error("availability check failed", zap.Error(err))
		return "I couldn't check the calendar just now. Please try again in a moment."
	}
	state.Step = models.StepInitial

	if len(slots) == 0 {
		return fmt.Sprintf("The calendar is completely booked on %s. Would you like to check another date?",
			formatDay(state.Date))
	}

	md.AvailableSlots = slotOptions(slots)

	var b strings.Builder
	fmt.Fprintf(&b, "Availability for %s:\n\n", formatDay(state.Date))
	for _, slot := range slots {
		fmt.Fprintf(&b, "%s - %s", formatClock(slot.Start), formatClock(slot.End))
		if calendar.Recommended(slot) {
			b.WriteString(" (Optimal)")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nWould you like to book any of these slots?")
	return b.String()
}

func (s *DefaultAgentService) handleGeneralInquiry(state *models.ConversationState, md *models.AgentMetadata) string {
	md.Suggestions = []string{
		"Book a meeting tomorrow",
		"Check my availability",
		"Show calendar analytics",
		"Cancel an appointment",
	}
	return "I'm here to help you manage your calendar. I can schedule appointments, " +
		"check availability and manage your bookings.\n\n" +
		"Try saying:\n" +
		"- 'Book a meeting for tomorrow afternoon'\n" +
		"- 'Show my availability this week'\n" +
		"- 'Schedule a team call'\n" +
		"- 'Cancel my 2 PM appointment'"
}

func appendHistory(state *models.ConversationState, role, content string, at time.Time) {
	state.History = append(state.History, models.HistoryEntry{Role: role, Content: content, Timestamp: at})
	if len(state.History) > historyLimit {
		state.History = state.History[len(state.History)-historyLimit:]
	}
}

func slotOptions(slots []models.TimeSlot) []models.SlotOption {
	options := make([]models.SlotOption, 0, len(slots))
	for i, slot := range slots {
		options = append(options, models.SlotOption{
			Index:       i + 1,
			Start:       formatClock(slot.Start),
			End:         formatClock(slot.End),
			Confidence:  slot.Confidence,
			Recommended: calendar.Recommended(slot),
		})
	}
	return options
}

// shortID truncates a UUID for display; the full id stays in metadata.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func formatClock(t time.Time) string    { return t.Format("03:04 PM") }
func formatDay(t time.Time) string      { return t.Format("Monday, January 2") }
func formatFullDate(t time.Time) string { return t.Format("Monday, January 2, 2006") }
