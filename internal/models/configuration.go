package models

import "time"

// ObserverConfig is the process-wide assignment setting: how many primary
// observer slots each committee carries, and how many members a correction
// committee has (consumed by the grading subsystem).
type ObserverConfig struct {
	ObserversPerCommittee int       `db:"observers_per_committee" json:"observers_per_committee"`
	MembersPerCorrection  int       `db:"members_per_correction" json:"members_per_correction"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// Defaults applied when the global configuration row has not been written yet.
const (
	DefaultObserversPerCommittee = 2
	DefaultMembersPerCorrection  = 3
)
