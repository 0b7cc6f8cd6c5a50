package service

import (
	"github.com/noah-isme/sma-exam-api/internal/models"
)

// findConflict answers whether placing an observer into the target
// (session, committee) would double-book them: it scans every assignment in
// the snapshot, regardless of grade, and reports the first one that holds the
// observer on the same calendar date with an overlapping time window. The
// target pair itself is skipped, since re-placing someone in their own slot
// is not a conflict. Returns nil when the placement is clean.
//
// The scan is grade-agnostic on purpose: the observer pool is shared
// school-wide, so an assignment made on a different grade's screen still
// blocks this one.
func findConflict(
	observerID string,
	targetSessionID string,
	targetCommitteeID string,
	index models.CalendarIndex,
	snapshot *models.AssignmentSnapshot,
	committeeNames map[string]string,
) *models.ConflictInfo {
	if observerID == "" || snapshot == nil {
		return nil
	}
	target, ok := index[targetSessionID]
	if !ok {
		return nil
	}

	for i := range snapshot.Assignments {
		assignment := &snapshot.Assignments[i]
		if assignment.SessionID == targetSessionID && assignment.CommitteeID == targetCommitteeID {
			continue
		}
		if !assignment.Contains(observerID) {
			continue
		}
		window, ok := index[assignment.SessionID]
		if !ok {
			continue
		}
		if !target.Overlaps(window) {
			continue
		}
		return &models.ConflictInfo{
			ObserverID:    observerID,
			SessionID:     assignment.SessionID,
			CommitteeID:   assignment.CommitteeID,
			CommitteeName: committeeNames[assignment.CommitteeID],
			GradeLevel:    window.GradeLevel,
			Subject:       window.Subject,
			TimeRange:     window.TimeRange,
		}
	}
	return nil
}

// committeeNameMap flattens a committee list into an id → display name lookup
// for conflict messages.
func committeeNameMap(committees []models.Committee) map[string]string {
	names := make(map[string]string, len(committees))
	for _, committee := range committees {
		names[committee.ID] = committee.Name
	}
	return names
}
