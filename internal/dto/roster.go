package dto

// CreateObserverRequest adds a teacher to the invigilation pool.
type CreateObserverRequest struct {
	FullName           string   `json:"full_name" validate:"required"`
	Expertise          *string  `json:"expertise,omitempty"`
	ExcludedCommittees []string `json:"excluded_committees"`
	ExcludedGrades     []string `json:"excluded_grades"`
	Active             *bool    `json:"active,omitempty"`
}

// UpdateObserverRequest edits an observer, including their hard exclusions.
type UpdateObserverRequest struct {
	FullName           string   `json:"full_name" validate:"required"`
	Expertise          *string  `json:"expertise,omitempty"`
	ExcludedCommittees []string `json:"excluded_committees"`
	ExcludedGrades     []string `json:"excluded_grades"`
	Active             *bool    `json:"active,omitempty"`
}

// CreateCommitteeRequest registers an examination room for a grade level.
type CreateCommitteeRequest struct {
	Name       string `json:"name" validate:"required"`
	Location   string `json:"location"`
	Capacity   int    `json:"capacity" validate:"gte=0"`
	GradeLevel string `json:"grade_level" validate:"required"`
}

// CreateExamSessionRequest schedules one subject's exam occurrence. Owned by
// the external scheduling screen; sessions are immutable once created.
type CreateExamSessionRequest struct {
	GradeLevel    string `json:"grade_level" validate:"required"`
	Term          string `json:"term" validate:"required,oneof=term1 term2"`
	Subject       string `json:"subject" validate:"required"`
	ExamDate      string `json:"exam_date" validate:"required,datetime=2006-01-02"`
	WeekdayLabel  string `json:"weekday_label"`
	StartLabel    string `json:"start_label" validate:"required"`
	EndLabel      string `json:"end_label" validate:"required"`
	DurationLabel string `json:"duration_label"`
}
