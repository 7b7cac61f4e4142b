// Package nlp holds the keyword and pattern heuristics that turn raw user
// text into structured scheduling hints. All extractors are pure: same text
// in, same result out, and malformed input degrades to "no match" rather
// than an error.
package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"calendra/models"
)

// intentKeywords is scored in order; on a tie the earlier category wins.
var intentKeywords = []struct {
	intent   models.Intent
	keywords []string
}{
	{models.IntentBookAppointment, []string{
		"book", "schedule", "appointment", "meeting", "call", "reserve",
		"set up", "arrange", "plan", "organize",
	}},
	{models.IntentCheckAvailability, []string{
		"available", "free", "open", "when", "check", "show", "view",
	}},
	{models.IntentCancelAppointment, []string{
		"cancel", "delete", "remove", "reschedule", "change",
	}},
}

// ExtractIntent classifies the utterance by keyword hits. Categories are
// scored on substring presence; the strictly highest score wins and a
// zero-score everywhere falls back to a general inquiry.
func ExtractIntent(text string) models.Intent {
	lower := strings.ToLower(text)

	best := models.IntentGeneralInquiry
	bestScore := 0
	for _, entry := range intentKeywords {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = entry.intent
			bestScore = score
		}
	}
	return best
}

// relativeDates is checked in order. "tomorrow" is a substring of
// "day after tomorrow", so ordering here is part of the observable behavior.
var relativeDates = []struct {
	phrase string
	offset func(today time.Time) time.Time
}{
	{"today", func(t time.Time) time.Time { return t }},
	{"tomorrow", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
	{"day after tomorrow", func(t time.Time) time.Time { return t.AddDate(0, 0, 2) }},
	{"next week", func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }},
	{"this week", func(t time.Time) time.Time { return t.AddDate(0, 0, 7-mondayBasedWeekday(t)) }},
}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), // MM/DD/YYYY
	regexp.MustCompile(`(\d{1,2})/(\d{1,2})`),         // MM/DD
	regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`), // MM-DD-YYYY
	regexp.MustCompile(`(\d{1,2})-(\d{1,2})`),         // MM-DD
}

// ExtractDate resolves a calendar date mentioned in the text, relative to
// now. The result is stripped to midnight in now's location. Returns false
// when the text mentions no recognizable date.
func ExtractDate(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)
	today := midnight(now)

	for _, rel := range relativeDates {
		if strings.Contains(lower, rel.phrase) {
			return rel.offset(today), true
		}
	}

	// Weekday names always resolve to a future occurrence, never today.
	for i, name := range weekdayNames {
		if strings.Contains(lower, name) {
			daysAhead := i - mondayBasedWeekday(today)
			if daysAhead <= 0 {
				daysAhead += 7
			}
			return today.AddDate(0, 0, daysAhead), true
		}
	}

	for _, pattern := range datePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		month, _ := strconv.Atoi(match[1])
		day, _ := strconv.Atoi(match[2])
		year := today.Year()
		assumedYear := true
		if len(match) == 4 {
			year, _ = strconv.Atoi(match[3])
			assumedYear = false
		}
		date, ok := makeDate(year, month, day, now.Location())
		if !ok {
			// Invalid calendar date (e.g. month 13); try the next pattern.
			continue
		}
		if assumedYear && date.Before(today) {
			date = date.AddDate(1, 0, 0)
		}
		return date, true
	}

	return time.Time{}, false
}

var specificTimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}:\d{2}`),
	regexp.MustCompile(`\d{1,2}\s*(am|pm)`),
}

// ExtractTimePreference finds a time-of-day preference. Buckets are checked
// in a fixed order and the first hit wins.
func ExtractTimePreference(text string) (models.TimePreference, bool) {
	lower := strings.ToLower(text)

	for _, kw := range []string{"morning", "am", "early"} {
		if strings.Contains(lower, kw) {
			return models.PreferenceMorning, true
		}
	}
	for _, kw := range []string{"afternoon", "lunch time", "midday"} {
		if strings.Contains(lower, kw) {
			return models.PreferenceAfternoon, true
		}
	}
	for _, kw := range []string{"evening", "night", "late"} {
		if strings.Contains(lower, kw) {
			return models.PreferenceEvening, true
		}
	}
	for _, pattern := range specificTimePatterns {
		if pattern.MatchString(lower) {
			return models.PreferenceSpecificTime, true
		}
	}
	return "", false
}

var meetingTypes = []struct {
	label    string
	keywords []string
}{
	{"Team", []string{"team", "standup", "scrum", "sprint"}},
	{"Client", []string{"client", "customer", "presentation"}},
	{"Interview", []string{"interview", "candidate", "hiring"}},
	{"Training", []string{"training", "workshop", "learning"}},
	{"Review", []string{"review", "performance", "feedback"}},
	{"Social", []string{"social", "lunch", "coffee", "catch up"}},
}

// ExtractMeetingType labels the meeting category, defaulting to "General".
func ExtractMeetingType(text string) string {
	lower := strings.ToLower(text)
	for _, mt := range meetingTypes {
		for _, kw := range mt.keywords {
			if strings.Contains(lower, kw) {
				return mt.label
			}
		}
	}
	return "General"
}

// mondayBasedWeekday maps Monday to 0 and Sunday to 6.
func mondayBasedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// makeDate validates the calendar date; time.Date normalizes out-of-range
// values, so a changed month or day means the input was invalid.
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}
