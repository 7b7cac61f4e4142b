package agent

import (
	"context"
	"testing"
	"time"

	appointmentRepo "calendra/database/repository/appointment"
	"calendra/models"
	"calendra/services/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday, March 15 2024, 08:00 local.
var agentNow = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

type recordingScheduler struct {
	scheduled []*models.Appointment
}

func (r *recordingScheduler) ScheduleReminder(ctx context.Context, apt *models.Appointment) error {
	r.scheduled = append(r.scheduled, apt)
	return nil
}

func newTestAgent() (*DefaultAgentService, *appointmentRepo.MemoryAppointmentRepo, *recordingScheduler) {
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	engine := calendar.NewEngine(repo, calendar.Rules{
		StartHour:       9,
		EndHour:         17,
		EveningEndHour:  20,
		IntervalMinutes: 30,
		MaxSlots:        8,
	})
	reminders := &recordingScheduler{}
	svc := NewDefaultAgentService(NewMemorySessionStore(), engine, repo, reminders, 60)
	svc.Now = func() time.Time { return agentNow }
	return svc, repo, reminders
}

func step(t *testing.T, svc *DefaultAgentService, sessionID, text string) *models.AgentResponse {
	t.Helper()
	resp, err := svc.ProcessMessage(context.Background(), sessionID, text)
	require.NoError(t, err)
	return resp
}

func TestProcessMessage_EmptySessionID(t *testing.T) {
	svc, _, _ := newTestAgent()
	_, err := svc.ProcessMessage(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestProcessMessage_Greeting(t *testing.T) {
	svc, _, _ := newTestAgent()

	resp := step(t, svc, "s1", "hello there")
	assert.Equal(t, models.StepInitial, resp.Metadata.Step)
	assert.Contains(t, resp.ResponseText, "calendar assistant")
	assert.NotEmpty(t, resp.Metadata.Suggestions)
}

func TestProcessMessage_BookingWithoutDateAsksForOne(t *testing.T) {
	svc, _, _ := newTestAgent()

	resp := step(t, svc, "s1", "I want to book a meeting")
	assert.Equal(t, models.IntentBookAppointment, resp.Metadata.Intent)
	assert.Equal(t, models.StepDateClarification, resp.Metadata.Step)
	assert.Contains(t, resp.ResponseText, "What date")
}

func TestProcessMessage_FullBookingFlow(t *testing.T) {
	svc, repo, reminders := newTestAgent()
	const sid = "s1"

	// Turn 1: booking intent, no date.
	resp := step(t, svc, sid, "book a meeting")
	require.Equal(t, models.StepDateClarification, resp.Metadata.Step)

	// Turn 2: the date arrives and slots come back.
	resp = step(t, svc, sid, "tomorrow")
	require.Equal(t, models.StepSlotSelection, resp.Metadata.Step)
	require.NotEmpty(t, resp.Metadata.AvailableSlots)
	assert.LessOrEqual(t, len(resp.Metadata.AvailableSlots), 8)
	assert.Contains(t, resp.ResponseText, "1. ")
	assert.Equal(t, 1, resp.Metadata.AvailableSlots[0].Index)

	// Turn 3: pick slot one.
	resp = step(t, svc, sid, "1")
	require.Equal(t, models.StepConfirmation, resp.Metadata.Step)
	require.NotNil(t, resp.Metadata.ConfirmationDetails)
	assert.Equal(t, 60, resp.Metadata.ConfirmationDetails.Duration)
	assert.Contains(t, resp.ResponseText, "call this meeting")

	// Turn 4: the title commits the booking and resets the conversation.
	resp = step(t, svc, sid, "Team Standup")
	require.NotNil(t, resp.Metadata.BookingSuccess)
	assert.Equal(t, "Team Standup", resp.Metadata.BookingSuccess.Title)
	assert.Equal(t, "Team", resp.Metadata.BookingSuccess.MeetingType)
	assert.Contains(t, resp.ResponseText, "Booking confirmed")
	assert.Equal(t, models.StepInitial, resp.Metadata.Step)

	appointments, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "Team Standup", appointments[0].Title)
	assert.Equal(t, models.StatusConfirmed, appointments[0].Status)

	require.Len(t, reminders.scheduled, 1)
	assert.Equal(t, appointments[0].ID, reminders.scheduled[0].ID)
}

func TestProcessMessage_BookingResetsConversationID(t *testing.T) {
	svc, _, _ := newTestAgent()
	const sid = "s1"

	step(t, svc, sid, "book a meeting tomorrow")
	before, err := svc.Sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	firstID := before.ConversationID

	step(t, svc, sid, "slot 1")
	step(t, svc, sid, "Planning")

	after, err := svc.Sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, models.StepInitial, after.Step)
	assert.NotEqual(t, firstID, after.ConversationID)
	assert.Nil(t, after.SelectedSlot)
	assert.Empty(t, after.SuggestedSlots)
}

func TestProcessMessage_SlotSelectionByTime(t *testing.T) {
	svc, _, _ := newTestAgent()
	const sid = "s1"

	resp := step(t, svc, sid, "book a meeting tomorrow")
	require.Equal(t, models.StepSlotSelection, resp.Metadata.Step)

	// The top-ranked slot on an empty calendar starts at 09:00.
	resp = step(t, svc, sid, "9 am works for me")
	require.Equal(t, models.StepConfirmation, resp.Metadata.Step)
	assert.Contains(t, resp.Metadata.ConfirmationDetails.Time, "09:00 AM")
}

func TestProcessMessage_UnrecognizedSlotChoiceReprompts(t *testing.T) {
	svc, _, _ := newTestAgent()
	const sid = "s1"

	step(t, svc, sid, "book a meeting tomorrow")
	resp := step(t, svc, sid, "whichever is best")
	assert.Equal(t, models.StepSlotSelection, resp.Metadata.Step)
	assert.Contains(t, resp.ResponseText, "didn't catch")
}

func TestProcessMessage_AvailabilityCheck(t *testing.T) {
	svc, _, _ := newTestAgent()

	resp := step(t, svc, "s1", "show me what's free tomorrow")
	assert.Equal(t, models.IntentCheckAvailability, resp.Metadata.Intent)
	// Availability is a read-only preview; the flow returns to the start.
	assert.Equal(t, models.StepInitial, resp.Metadata.Step)
	assert.Contains(t, resp.ResponseText, "Availability for")
	assert.NotEmpty(t, resp.Metadata.AvailableSlots)
}

func TestProcessMessage_AvailabilityClarificationThenDate(t *testing.T) {
	svc, _, _ := newTestAgent()
	const sid = "s1"

	resp := step(t, svc, sid, "check my openings")
	require.Equal(t, models.StepDateClarification, resp.Metadata.Step)

	resp = step(t, svc, sid, "monday")
	assert.Equal(t, models.StepInitial, resp.Metadata.Step)
	assert.Contains(t, resp.ResponseText, "Availability for Monday")
}

func TestProcessMessage_CancelPrompt(t *testing.T) {
	svc, _, _ := newTestAgent()

	resp := step(t, svc, "s1", "remove it from my calendar")
	assert.Equal(t, models.IntentCancelAppointment, resp.Metadata.Intent)
	assert.Contains(t, resp.ResponseText, "cancel an appointment")
}

func TestProcessMessage_NoSlotsOffersAnotherDate(t *testing.T) {
	svc, repo, _ := newTestAgent()
	ctx := context.Background()

	// Block the whole business day tomorrow.
	tomorrow := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	_, err := repo.Book(ctx, models.NewTimeSlot(tomorrow, tomorrow.Add(8*time.Hour)), appointmentRepo.BookingDetails{Title: "Offsite"})
	require.NoError(t, err)

	resp := step(t, svc, "s1", "book a meeting tomorrow")
	assert.Contains(t, resp.ResponseText, "don't have any available slots")
	// Finding nothing leaves the step alone; the user can retry with a date.
	assert.Equal(t, models.StepInitial, resp.Metadata.Step)
}

func TestProcessMessage_ConflictAtConfirmationResuggests(t *testing.T) {
	svc, repo, _ := newTestAgent()
	ctx := context.Background()
	const sid = "s1"

	step(t, svc, sid, "book a meeting tomorrow")
	resp := step(t, svc, sid, "1")
	require.Equal(t, models.StepConfirmation, resp.Metadata.Step)

	// Someone else takes the selected 09:00 slot before the title arrives.
	taken := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	_, err := repo.Book(ctx, models.NewTimeSlot(taken, taken.Add(time.Hour)), appointmentRepo.BookingDetails{Title: "Rival"})
	require.NoError(t, err)

	resp = step(t, svc, sid, "Planning Session")
	assert.Nil(t, resp.Metadata.BookingSuccess)
	assert.Contains(t, resp.ResponseText, "just booked")
	assert.Equal(t, models.StepSlotSelection, resp.Metadata.Step)
	for _, opt := range resp.Metadata.AvailableSlots {
		assert.NotEqual(t, "09:00 AM", opt.Start)
	}
}

func TestProcessMessage_ConflictWithFullCalendarAsksForNewDate(t *testing.T) {
	svc, repo, _ := newTestAgent()
	ctx := context.Background()
	const sid = "s1"

	step(t, svc, sid, "book a meeting tomorrow")
	resp := step(t, svc, sid, "1")
	require.Equal(t, models.StepConfirmation, resp.Metadata.Step)

	// A rival booking swallows the whole business day before the title
	// arrives, so the re-search after the conflict finds nothing.
	taken := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	_, err := repo.Book(ctx, models.NewTimeSlot(taken, taken.Add(8*time.Hour)), appointmentRepo.BookingDetails{Title: "Rival"})
	require.NoError(t, err)

	resp = step(t, svc, sid, "Planning Session")
	assert.Nil(t, resp.Metadata.BookingSuccess)
	assert.Contains(t, resp.ResponseText, "just booked")
	assert.Contains(t, resp.ResponseText, "don't have any available slots")
	assert.Equal(t, models.StepDateClarification, resp.Metadata.Step)

	// The session keeps working: a fresh date restarts the slot search.
	resp = step(t, svc, sid, "ok try next week then")
	assert.Equal(t, models.StepSlotSelection, resp.Metadata.Step)
	assert.NotEmpty(t, resp.Metadata.AvailableSlots)
}

func TestProcessMessage_ConfirmationWithoutSelectionRecovers(t *testing.T) {
	svc, _, _ := newTestAgent()
	ctx := context.Background()
	const sid = "s1"

	// Force the inconsistent shape directly: confirmation step, no slot.
	state := &models.ConversationState{
		ConversationID:  "c1",
		Intent:          models.IntentBookAppointment,
		DurationMinutes: 60,
		Step:            models.StepConfirmation,
	}
	require.NoError(t, svc.Sessions.Set(ctx, sid, state))

	resp := step(t, svc, sid, "Planning Session")
	assert.Nil(t, resp.Metadata.BookingSuccess)
	assert.Equal(t, models.StepDateClarification, resp.Metadata.Step)
}

func TestProcessMessage_RemembersPreferenceAcrossTurns(t *testing.T) {
	svc, _, _ := newTestAgent()
	const sid = "s1"

	step(t, svc, sid, "book a meeting in the morning")
	resp := step(t, svc, sid, "tomorrow")
	require.Equal(t, models.StepSlotSelection, resp.Metadata.Step)
	for _, opt := range resp.Metadata.AvailableSlots {
		assert.NotContains(t, opt.Start, "PM", "morning preference must restrict the window")
	}
}

func TestReset(t *testing.T) {
	svc, _, _ := newTestAgent()
	ctx := context.Background()
	const sid = "s1"

	step(t, svc, sid, "book a meeting tomorrow")
	require.NoError(t, svc.Reset(ctx, sid))

	state, err := svc.Sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, state)

	// The next message starts a brand-new conversation.
	resp := step(t, svc, sid, "hello")
	assert.Equal(t, models.StepInitial, resp.Metadata.Step)
}

func TestReset_EmptySessionID(t *testing.T) {
	svc, _, _ := newTestAgent()
	assert.ErrorIs(t, svc.Reset(context.Background(), ""), ErrEmptySessionID)
}

func TestProcessMessage_RecordsHistory(t *testing.T) {
	svc, _, _ := newTestAgent()
	const sid = "s1"

	step(t, svc, sid, "hello")
	state, err := svc.Sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	require.Len(t, state.History, 2)
	assert.Equal(t, "user", state.History[0].Role)
	assert.Equal(t, "hello", state.History[0].Content)
	assert.Equal(t, "assistant", state.History[1].Role)
}
