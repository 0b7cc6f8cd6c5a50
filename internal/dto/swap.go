package dto

import "github.com/noah-isme/sma-exam-api/internal/models"

// ToggleSwapRequest switches swap mode on or off for a term. Toggling off
// always clears any pending source selection.
type ToggleSwapRequest struct {
	Enabled bool `json:"enabled"`
}

// SelectSlotRequest is one click in the two-step swap flow.
type SelectSlotRequest struct {
	Slot models.SlotRef `json:"slot" validate:"required"`
}

// SwapSessionState is the interactive state reported back to the UI.
type SwapSessionState struct {
	Term    models.TermKey  `json:"term"`
	Active  bool            `json:"active"`
	Source  *models.SlotRef `json:"source,omitempty"`
	Swapped bool            `json:"swapped"`
}
