package models

import "time"

// TermKey identifies one of the two academic exam terms.
type TermKey string

const (
	Term1 TermKey = "term1"
	Term2 TermKey = "term2"
)

// Valid reports whether the term key is one of the known terms.
func (t TermKey) Valid() bool {
	return t == Term1 || t == Term2
}

// ExamSession is one subject's scheduled exam occurrence for a grade and term.
// Sessions are owned by the external scheduling screen; the assignment engine
// only reads them.
type ExamSession struct {
	ID            string    `db:"id" json:"id"`
	GradeLevel    string    `db:"grade_level" json:"grade_level"`
	Term          TermKey   `db:"term" json:"term"`
	Subject       string    `db:"subject" json:"subject"`
	ExamDate      time.Time `db:"exam_date" json:"exam_date"`
	WeekdayLabel  string    `db:"weekday_label" json:"weekday_label"`
	StartLabel    string    `db:"start_label" json:"start_label"`
	EndLabel      string    `db:"end_label" json:"end_label"`
	DurationLabel string    `db:"duration_label" json:"duration_label"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// DateKey returns the calendar-date portion used for overlap comparison.
func (s *ExamSession) DateKey() string {
	return s.ExamDate.Format("2006-01-02")
}

// ExamSessionFilter narrows session listings.
type ExamSessionFilter struct {
	GradeLevel string
	Term       TermKey
	Page       int
	PageSize   int
}
