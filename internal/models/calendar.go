package models

// SessionWindow is one entry of the derived calendar index: an exam session's
// time window flattened to minutes-since-midnight for integer comparison.
type SessionWindow struct {
	SessionID    string `json:"session_id"`
	Date         string `json:"date"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	GradeLevel   string `json:"grade_level"`
	Subject      string `json:"subject"`
	TimeRange    string `json:"time_range"`
}

// CalendarIndex maps session id to its window for one term, across every
// grade level. It is a derived, disposable cache rebuilt whenever any grade's
// session list changes.
type CalendarIndex map[string]SessionWindow

// Overlaps reports whether two windows collide: same calendar date and
// max(startA, startB) < min(endA, endB).
func (w SessionWindow) Overlaps(other SessionWindow) bool {
	if w.Date != other.Date {
		return false
	}
	start := w.StartMinutes
	if other.StartMinutes > start {
		start = other.StartMinutes
	}
	end := w.EndMinutes
	if other.EndMinutes < end {
		end = other.EndMinutes
	}
	return start < end
}
