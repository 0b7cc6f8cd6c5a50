package models

import "time"

// Assignment joins one exam session and one committee for a term: a fixed
// number of primary observer slots plus one reserve slot. Empty string means
// an unfilled slot.
type Assignment struct {
	SessionID   string   `json:"session_id"`
	CommitteeID string   `json:"committee_id"`
	Observers   []string `json:"observers"`
	Reserve     string   `json:"reserve"`
}

// Contains reports whether the observer occupies any primary or reserve slot.
func (a *Assignment) Contains(observerID string) bool {
	if a == nil || observerID == "" {
		return false
	}
	for _, id := range a.Observers {
		if id == observerID {
			return true
		}
	}
	return a.Reserve == observerID
}

// SlotValue returns the observer id stored at the referenced slot. A slot
// index beyond the primary array reads as empty.
func (a *Assignment) SlotValue(ref SlotRef) string {
	if a == nil {
		return ""
	}
	if ref.Reserve {
		return a.Reserve
	}
	if ref.Slot < 0 || ref.Slot >= len(a.Observers) {
		return ""
	}
	return a.Observers[ref.Slot]
}

// SetSlotValue writes the observer id at the referenced slot, growing the
// primary array when the index is beyond its current length.
func (a *Assignment) SetSlotValue(ref SlotRef, observerID string) {
	if a == nil {
		return
	}
	if ref.Reserve {
		a.Reserve = observerID
		return
	}
	if ref.Slot < 0 {
		return
	}
	for len(a.Observers) <= ref.Slot {
		a.Observers = append(a.Observers, "")
	}
	a.Observers[ref.Slot] = observerID
}

// SlotRef addresses a single slot within a term snapshot.
type SlotRef struct {
	SessionID   string `json:"session_id" validate:"required"`
	CommitteeID string `json:"committee_id" validate:"required"`
	Slot        int    `json:"slot"`
	Reserve     bool   `json:"reserve"`
}

// AssignmentSnapshot is the complete set of assignments for one term across
// every grade. It is the unit of atomic read/write for swaps, manual edits and
// auto-distribution.
type AssignmentSnapshot struct {
	Term        TermKey      `json:"term"`
	Assignments []Assignment `json:"assignments"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Find returns the assignment for the (session, committee) pair, or nil.
func (s *AssignmentSnapshot) Find(sessionID, committeeID string) *Assignment {
	if s == nil {
		return nil
	}
	for i := range s.Assignments {
		if s.Assignments[i].SessionID == sessionID && s.Assignments[i].CommitteeID == committeeID {
			return &s.Assignments[i]
		}
	}
	return nil
}

// Ensure returns the assignment for the pair, creating it lazily with the
// given primary slot count when absent.
func (s *AssignmentSnapshot) Ensure(sessionID, committeeID string, primarySlots int) *Assignment {
	if existing := s.Find(sessionID, committeeID); existing != nil {
		return existing
	}
	s.Assignments = append(s.Assignments, Assignment{
		SessionID:   sessionID,
		CommitteeID: committeeID,
		Observers:   make([]string, primarySlots),
	})
	return &s.Assignments[len(s.Assignments)-1]
}

// Clone produces a deep copy so validation can run against a scratch snapshot
// without touching the committed one.
func (s *AssignmentSnapshot) Clone() *AssignmentSnapshot {
	if s == nil {
		return nil
	}
	out := &AssignmentSnapshot{Term: s.Term, UpdatedAt: s.UpdatedAt}
	out.Assignments = make([]Assignment, len(s.Assignments))
	for i, a := range s.Assignments {
		copied := a
		copied.Observers = append([]string(nil), a.Observers...)
		out.Assignments[i] = copied
	}
	return out
}

// ConflictInfo describes an existing assignment that collides in time with a
// candidate placement. It carries everything needed for a user-facing message.
type ConflictInfo struct {
	ObserverID    string `json:"observer_id"`
	SessionID     string `json:"session_id"`
	CommitteeID   string `json:"committee_id"`
	CommitteeName string `json:"committee_name"`
	GradeLevel    string `json:"grade_level"`
	Subject       string `json:"subject"`
	TimeRange     string `json:"time_range"`
}
