package nlp

import (
	"testing"
	"time"

	"calendra/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday, March 15 2024.
var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractIntent(t *testing.T) {
	cases := []struct {
		text string
		want models.Intent
	}{
		{"I want to book a meeting", models.IntentBookAppointment},
		{"schedule a call for me", models.IntentBookAppointment},
		{"when are you free", models.IntentCheckAvailability},
		{"show me open slots", models.IntentCheckAvailability},
		{"please cancel it", models.IntentCancelAppointment},
		{"remove it from my calendar", models.IntentCancelAppointment},
		{"hello there", models.IntentGeneralInquiry},
		{"", models.IntentGeneralInquiry},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractIntent(tc.text), "text: %q", tc.text)
	}
}

func TestExtractIntent_TieGoesToBooking(t *testing.T) {
	// "booking" contains "book", so booking and cancellation both score 1.
	assert.Equal(t, models.IntentBookAppointment, ExtractIntent("cancel my booking"))
}

func TestExtractDate_RelativePhrases(t *testing.T) {
	cases := []struct {
		text string
		want time.Time
	}{
		{"let's do it today", day(time.March, 15)},
		{"tomorrow works", day(time.March, 16)},
		// "tomorrow" is found before the longer phrase is considered.
		{"day after tomorrow", day(time.March, 16)},
		{"sometime next week", day(time.March, 22)},
		{"this week please", day(time.March, 18)},
	}
	for _, tc := range cases {
		got, ok := ExtractDate(tc.text, testNow)
		require.True(t, ok, "text: %q", tc.text)
		assert.Equal(t, tc.want, got, "text: %q", tc.text)
	}
}

func TestExtractDate_Weekdays(t *testing.T) {
	// testNow is a Friday; weekday names resolve forward, never to today.
	got, ok := ExtractDate("how about monday", testNow)
	require.True(t, ok)
	assert.Equal(t, day(time.March, 18), got)

	got, ok = ExtractDate("friday then", testNow)
	require.True(t, ok)
	assert.Equal(t, day(time.March, 22), got, "same weekday means next week's occurrence")
}

func TestExtractDate_NumericForms(t *testing.T) {
	got, ok := ExtractDate("book me on 12/25", testNow)
	require.True(t, ok)
	assert.Equal(t, day(time.December, 25), got)

	// A month/day already behind us rolls into next year.
	got, ok = ExtractDate("1/5 would be great", testNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), got)

	// An explicit year is taken literally even when it is in the past.
	got, ok = ExtractDate("it happened on 12/25/2023", testNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC), got)

	got, ok = ExtractDate("3-20 works too", testNow)
	require.True(t, ok)
	assert.Equal(t, day(time.March, 20), got)
}

func TestExtractDate_NoMatch(t *testing.T) {
	for _, text := range []string{"no date in here", "13/45", "2/30", ""} {
		_, ok := ExtractDate(text, testNow)
		assert.False(t, ok, "text: %q", text)
	}
}

func TestExtractDate_StripsTimeOfDay(t *testing.T) {
	got, ok := ExtractDate("today", testNow)
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
}

func TestExtractTimePreference(t *testing.T) {
	cases := []struct {
		text string
		want models.TimePreference
	}{
		{"morning please", models.PreferenceMorning},
		{"early if possible", models.PreferenceMorning},
		// "team" contains "am", which lands in the morning bucket.
		{"a team call", models.PreferenceMorning},
		{"afternoon slot", models.PreferenceAfternoon},
		{"around midday", models.PreferenceAfternoon},
		{"evening works", models.PreferenceEvening},
		{"late is fine", models.PreferenceEvening},
		{"at 14:30", models.PreferenceSpecificTime},
		{"3 pm sharp", models.PreferenceSpecificTime},
	}
	for _, tc := range cases {
		got, ok := ExtractTimePreference(tc.text)
		require.True(t, ok, "text: %q", tc.text)
		assert.Equal(t, tc.want, got, "text: %q", tc.text)
	}

	_, ok := ExtractTimePreference("whenever you like")
	assert.False(t, ok)
}

func TestExtractMeetingType(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Team Standup", "Team"},
		{"sprint planning", "Team"},
		{"Client Presentation", "Client"},
		{"interview with the candidate", "Interview"},
		{"onboarding workshop", "Training"},
		{"performance review", "Review"},
		{"coffee catch up", "Social"},
		{"quick sync", "General"},
		{"", "General"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractMeetingType(tc.text), "text: %q", tc.text)
	}
}
