package dto

import "github.com/noah-isme/sma-exam-api/internal/models"

// RunDistributionRequest triggers the auto-distribution planner for one grade
// and term. Assignments of every other grade are left untouched.
type RunDistributionRequest struct {
	GradeLevel string `json:"grade_level" validate:"required"`
}

// DistributionResult summarises a completed planner run.
type DistributionResult struct {
	Term          models.TermKey      `json:"term"`
	GradeLevel    string              `json:"grade_level"`
	Assignments   []models.Assignment `json:"assignments"`
	FilledSlots   int                 `json:"filled_slots"`
	UnfilledSlots int                 `json:"unfilled_slots"`
	ObserverLoad  map[string]int      `json:"observer_load"`
}
