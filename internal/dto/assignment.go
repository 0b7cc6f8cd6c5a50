package dto

import "github.com/noah-isme/sma-exam-api/internal/models"

// SetSlotRequest writes one observer slot. An empty observer id clears the
// slot.
type SetSlotRequest struct {
	SessionID   string `json:"session_id" validate:"required"`
	CommitteeID string `json:"committee_id" validate:"required"`
	Slot        int    `json:"slot" validate:"gte=0"`
	Reserve     bool   `json:"reserve"`
	ObserverID  string `json:"observer_id"`
}

// Ref converts the request into a slot reference.
func (r SetSlotRequest) Ref() models.SlotRef {
	return models.SlotRef{
		SessionID:   r.SessionID,
		CommitteeID: r.CommitteeID,
		Slot:        r.Slot,
		Reserve:     r.Reserve,
	}
}

// SwapRequest exchanges the observers held by two slots.
type SwapRequest struct {
	Source models.SlotRef `json:"source" validate:"required"`
	Target models.SlotRef `json:"target" validate:"required"`
}

// PlacementCheckRequest previews whether a candidate placement would violate
// a hard exclusion or double-book the observer. Used by the UI to disable
// ineligible options before any mutation is attempted.
type PlacementCheckRequest struct {
	SessionID   string `json:"session_id" validate:"required"`
	CommitteeID string `json:"committee_id" validate:"required"`
	ObserverID  string `json:"observer_id" validate:"required"`
}

// PlacementCheckResult reports the preview outcome.
type PlacementCheckResult struct {
	Allowed     bool                 `json:"allowed"`
	HardBlocked bool                 `json:"hard_blocked"`
	Conflict    *models.ConflictInfo `json:"conflict,omitempty"`
	Reason      string               `json:"reason,omitempty"`
}

// SnapshotResponse is the snapshot view returned to the UI, optionally
// narrowed to one grade level.
type SnapshotResponse struct {
	Term        models.TermKey      `json:"term"`
	GradeLevel  string              `json:"grade_level,omitempty"`
	Assignments []models.Assignment `json:"assignments"`
}
