package dto

// UpdateObserverConfigRequest rewrites the process-wide assignment settings.
// Changing observers_per_committee does not resize persisted assignments in
// place; snapshots are padded up to the new count when loaded.
type UpdateObserverConfigRequest struct {
	ObserversPerCommittee int `json:"observers_per_committee" validate:"required,gte=1,lte=10"`
	MembersPerCorrection  int `json:"members_per_correction" validate:"required,gte=1,lte=10"`
}
