// Package calendar computes open time slots against the booked calendar.
package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	appointmentRepo "calendra/database/repository/appointment"
	"calendra/models"
)

// recommendThreshold marks a slot as recommended for display.
const recommendThreshold = 0.8

// Rules are the business-hour parameters of the slot search.
type Rules struct {
	StartHour       int // default business window start (local hours)
	EndHour         int // default business window end, exclusive
	EveningEndHour  int // window end when the evening preference applies
	IntervalMinutes int // enumeration granularity
	MaxSlots        int // cap on returned slots
}

// Engine finds and ranks available slots. It only reads from the repository.
type Engine struct {
	Repo  appointmentRepo.AppointmentRepository
	Rules Rules
}

// NewEngine constructs an availability engine over the appointment store.
func NewEngine(repo appointmentRepo.AppointmentRepository, rules Rules) *Engine {
	return &Engine{Repo: repo, Rules: rules}
}

// AvailableSlots enumerates open slots of the given duration on date,
// restricted to the business-hour window for the preference, excluding busy
// intervals and ranked by confidence when useRanking is set. At most
// Rules.MaxSlots slots are returned.
func (e *Engine) AvailableSlots(ctx context.Context, date time.Time, durationMinutes int, pref models.TimePreference, useRanking bool) ([]models.TimeSlot, error) {
	startHour, endHour := e.window(pref)

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	cursor := day.Add(time.Duration(startHour) * time.Hour)
	windowEnd := day.Add(time.Duration(endHour) * time.Hour)
	duration := time.Duration(durationMinutes) * time.Minute

	var candidates []models.TimeSlot
	for !cursor.Add(duration).After(windowEnd) {
		slot := models.NewTimeSlot(cursor, cursor.Add(duration))
		slot.Confidence = slotConfidence(cursor, pref)
		candidates = append(candidates, slot)
		cursor = cursor.Add(time.Duration(e.Rules.IntervalMinutes) * time.Minute)
	}

	busy, err := e.Repo.GetBusyTimes(ctx, day, day.AddDate(0, 0, 1).Add(-time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy times: %w", err)
	}

	var available []models.TimeSlot
	for _, slot := range candidates {
		blocked := false
		for _, b := range busy {
			if slot.Overlaps(b) {
				blocked = true
				break
			}
		}
		if !blocked {
			available = append(available, slot)
		}
	}

	if useRanking {
		// Stable keeps chronological order among equal confidences.
		sort.SliceStable(available, func(i, j int) bool {
			return available[i].Confidence > available[j].Confidence
		})
	}

	if len(available) > e.Rules.MaxSlots {
		available = available[:e.Rules.MaxSlots]
	}
	return available, nil
}

// window resolves the business-hour bounds for a time preference.
func (e *Engine) window(pref models.TimePreference) (startHour, endHour int) {
	startHour, endHour = e.Rules.StartHour, e.Rules.EndHour
	switch pref {
	case models.PreferenceMorning:
		endHour = 12
	case models.PreferenceAfternoon:
		startHour = 12
	case models.PreferenceEvening:
		startHour = e.Rules.EndHour
		endHour = e.Rules.EveningEndHour
	}
	return startHour, endHour
}

// Recommended reports whether a slot scores high enough to be flagged for
// the user.
func Recommended(slot models.TimeSlot) bool {
	return slot.Confidence > recommendThreshold
}

// slotConfidence scores how desirable a start time is. Adjustments are
// additive, applied in a fixed order, and the result is clamped to
// [0.1, 1.0].
func slotConfidence(start time.Time, pref models.TimePreference) float64 {
	confidence := 1.0
	hour := start.Hour()

	switch {
	case hour == 10 || hour == 11 || hour == 14 || hour == 15:
		confidence += 0.3 // peak productivity hours
	case (hour >= 9 && hour <= 12) || (hour >= 13 && hour <= 16):
		confidence += 0.1
	default:
		confidence -= 0.2
	}

	switch {
	case pref == models.PreferenceMorning && hour < 12:
		confidence += 0.2
	case pref == models.PreferenceAfternoon && hour >= 12 && hour < 17:
		confidence += 0.2
	case pref == models.PreferenceEvening && hour >= 17:
		confidence += 0.2
	}

	// Lunch penalty applies regardless of preference.
	if hour == 12 || hour == 13 {
		confidence -= 0.3
	}

	if confidence < 0.1 {
		return 0.1
	}
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
