package models

import "time"

// TimeSlot represents a candidate or busy interval on the calendar.
// Confidence is advisory and only used for ranking and display.
type TimeSlot struct {
	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	Available  bool      `bson:"available" json:"available"`
	Confidence float64   `bson:"confidence" json:"confidence"` // in [0.1, 1.0]
}

// NewTimeSlot builds an available slot with full confidence.
func NewTimeSlot(start, end time.Time) TimeSlot {
	return TimeSlot{Start: start, End: end, Available: true, Confidence: 1.0}
}

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps reports whether two intervals intersect, treating both as half-open.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}
