package models

import (
	"time"

	"github.com/lib/pq"
)

// Observer represents a teacher eligible to invigilate exam committees.
type Observer struct {
	ID                 string         `db:"id" json:"id"`
	FullName           string         `db:"full_name" json:"full_name"`
	Expertise          *string        `db:"expertise" json:"expertise,omitempty"`
	ExcludedCommittees pq.StringArray `db:"excluded_committees" json:"excluded_committees"`
	ExcludedGrades     pq.StringArray `db:"excluded_grades" json:"excluded_grades"`
	Active             bool           `db:"active" json:"active"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// IsExcludedFrom reports whether a hard exclusion bars this observer from the
// given committee, either by committee id or by whole grade level.
func (o *Observer) IsExcludedFrom(committee *Committee) bool {
	if o == nil || committee == nil {
		return false
	}
	for _, id := range o.ExcludedCommittees {
		if id == committee.ID {
			return true
		}
	}
	for _, grade := range o.ExcludedGrades {
		if grade == committee.GradeLevel {
			return true
		}
	}
	return false
}

// ObserverFilter captures filtering options for listing observers.
type ObserverFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
