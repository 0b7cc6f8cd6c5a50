package models

import "time"

// Committee represents a physical examination room for one grade level.
type Committee struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Location   string    `db:"location" json:"location"`
	Capacity   int       `db:"capacity" json:"capacity"`
	GradeLevel string    `db:"grade_level" json:"grade_level"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CommitteeFilter defines filter criteria for listing committees.
type CommitteeFilter struct {
	GradeLevel string
	Search     string
	Page       int
	PageSize   int
}
