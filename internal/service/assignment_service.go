package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type snapshotRepository interface {
	Get(ctx context.Context, term models.TermKey) (*models.AssignmentSnapshot, error)
	Save(ctx context.Context, snapshot *models.AssignmentSnapshot) error
	ListTerms(ctx context.Context) ([]models.TermKey, error)
}

type observerReader interface {
	FindByID(ctx context.Context, id string) (*models.Observer, error)
}

type committeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Committee, error)
	ListAll(ctx context.Context) ([]models.Committee, error)
}

type observerConfigReader interface {
	Get(ctx context.Context) (*models.ObserverConfig, error)
}

type calendarIndexer interface {
	BuildIndex(ctx context.Context, term models.TermKey) (models.CalendarIndex, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type mutationRecorder interface {
	RecordMutation(kind string, rejected bool)
}

// AssignmentService is the stateful boundary around the per-term assignment
// snapshot: single-slot edits, atomic pairwise swaps, and the roster
// cascades. Every mutation validates hard exclusions and time conflicts
// before commit, then persists the whole snapshot once.
type AssignmentService struct {
	snapshots  snapshotRepository
	observers  observerReader
	committees committeeReader
	config     observerConfigReader
	calendar   calendarIndexer
	cache      snapshotCache
	cacheTTL   time.Duration
	locks      *TermLocks
	metrics    mutationRecorder
	logger     *zap.Logger
}

// NewAssignmentService wires the assignment store dependencies.
func NewAssignmentService(
	snapshots snapshotRepository,
	observers observerReader,
	committees committeeReader,
	config observerConfigReader,
	calendar calendarIndexer,
	cache snapshotCache,
	cacheTTL time.Duration,
	locks *TermLocks,
	metrics mutationRecorder,
	logger *zap.Logger,
) *AssignmentService {
	if locks == nil {
		locks = NewTermLocks()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AssignmentService{
		snapshots:  snapshots,
		observers:  observers,
		committees: committees,
		config:     config,
		calendar:   calendar,
		cache:      cache,
		cacheTTL:   cacheTTL,
		locks:      locks,
		metrics:    metrics,
		logger:     logger,
	}
}

func snapshotCacheKey(term models.TermKey) string {
	return fmt.Sprintf("snapshot:%s", term)
}

// Snapshot returns the term's assignments, optionally narrowed to one grade.
func (s *AssignmentService) Snapshot(ctx context.Context, term models.TermKey, gradeLevel string) (*dto.SnapshotResponse, error) {
	if !term.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown term %q", term))
	}

	snapshot, err := s.cachedSnapshot(ctx, term)
	if err != nil {
		return nil, err
	}

	resp := &dto.SnapshotResponse{Term: term, GradeLevel: gradeLevel, Assignments: snapshot.Assignments}
	if gradeLevel != "" {
		grades, err := s.committeeGrades(ctx)
		if err != nil {
			return nil, err
		}
		filtered := make([]models.Assignment, 0, len(snapshot.Assignments))
		for _, assignment := range snapshot.Assignments {
			if grades[assignment.CommitteeID] == gradeLevel {
				filtered = append(filtered, assignment)
			}
		}
		resp.Assignments = filtered
	}
	if resp.Assignments == nil {
		resp.Assignments = []models.Assignment{}
	}
	return resp, nil
}

// SlotValue reads the observer id currently held by a slot. Absent
// assignments read as empty.
func (s *AssignmentService) SlotValue(ctx context.Context, term models.TermKey, ref models.SlotRef) (string, error) {
	snapshot, err := s.loadNormalized(ctx, term)
	if err != nil {
		return "", err
	}
	return snapshot.Find(ref.SessionID, ref.CommitteeID).SlotValue(ref), nil
}

// CheckPlacement previews a candidate placement without mutating anything.
// The UI uses it to grey out ineligible observers.
func (s *AssignmentService) CheckPlacement(ctx context.Context, term models.TermKey, req dto.PlacementCheckRequest) (*dto.PlacementCheckResult, error) {
	observer, committee, err := s.loadPair(ctx, req.ObserverID, req.CommitteeID)
	if err != nil {
		return nil, err
	}
	if observer.IsExcludedFrom(committee) {
		return &dto.PlacementCheckResult{
			HardBlocked: true,
			Reason:      fmt.Sprintf("%s is excluded from committee %s", observer.FullName, committee.Name),
		}, nil
	}

	snapshot, err := s.loadNormalized(ctx, term)
	if err != nil {
		return nil, err
	}
	index, err := s.calendar.BuildIndex(ctx, term)
	if err != nil {
		return nil, err
	}
	names, err := s.committeeNames(ctx)
	if err != nil {
		return nil, err
	}
	if conflict := findConflict(req.ObserverID, req.SessionID, req.CommitteeID, index, snapshot, names); conflict != nil {
		return &dto.PlacementCheckResult{
			Conflict: conflict,
			Reason:   conflictMessage(observer.FullName, conflict),
		}, nil
	}
	return &dto.PlacementCheckResult{Allowed: true}, nil
}

// SetSlot writes a single observer slot. It rejects hard exclusions and,
// unlike the UI-trusting path it replaces, re-runs the time-conflict check
// before commit so a misbehaving caller can never double-book anyone.
func (s *AssignmentService) SetSlot(ctx context.Context, term models.TermKey, req dto.SetSlotRequest) (*models.Assignment, error) {
	if !term.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown term %q", term))
	}

	unlock := s.locks.Lock(string(term))
	defer unlock()

	snapshot, err := s.loadNormalized(ctx, term)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observer configuration")
	}

	ref := req.Ref()
	if !ref.Reserve && ref.Slot >= cfg.ObserversPerCommittee {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot index %d exceeds the configured committee size %d", ref.Slot, cfg.ObserversPerCommittee))
	}

	if req.ObserverID != "" {
		observer, committee, err := s.loadPair(ctx, req.ObserverID, req.CommitteeID)
		if err != nil {
			s.recordMutation("set_slot", true)
			return nil, err
		}
		if observer.IsExcludedFrom(committee) {
			s.recordMutation("set_slot", true)
			return nil, appErrors.Clone(appErrors.ErrHardExclusion, fmt.Sprintf("%s is excluded from committee %s", observer.FullName, committee.Name))
		}

		// Validate against the snapshot with the target slot vacated, so
		// re-writing the same observer into their own slot stays legal.
		scratch := snapshot.Clone()
		scratch.Ensure(ref.SessionID, ref.CommitteeID, cfg.ObserversPerCommittee).SetSlotValue(ref, "")

		if target := scratch.Find(ref.SessionID, ref.CommitteeID); target.Contains(req.ObserverID) {
			s.recordMutation("set_slot", true)
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is already assigned to this committee for this session", observer.FullName))
		}

		index, err := s.calendar.BuildIndex(ctx, term)
		if err != nil {
			return nil, err
		}
		names, err := s.committeeNames(ctx)
		if err != nil {
			return nil, err
		}
		if conflict := findConflict(req.ObserverID, ref.SessionID, ref.CommitteeID, index, scratch, names); conflict != nil {
			s.recordMutation("set_slot", true)
			return nil, appErrors.Clone(appErrors.ErrTimeConflict, conflictMessage(observer.FullName, conflict))
		}
	}

	assignment := snapshot.Ensure(ref.SessionID, ref.CommitteeID, cfg.ObserversPerCommittee)
	assignment.SetSlotValue(ref, req.ObserverID)

	if err := s.persist(ctx, snapshot); err != nil {
		return nil, err
	}
	s.recordMutation("set_slot", false)
	result := *assignment
	return &result, nil
}

// SwapSlots exchanges the observers held by two arbitrary slots, validating
// both directions before either side is written. A failed validation leaves
// the snapshot untouched; a successful swap persists exactly once, so no
// reader ever observes half a swap.
func (s *AssignmentService) SwapSlots(ctx context.Context, term models.TermKey, source, target models.SlotRef) error {
	if !term.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown term %q", term))
	}
	if source == target {
		return nil
	}

	unlock := s.locks.Lock(string(term))
	defer unlock()

	snapshot, err := s.loadNormalized(ctx, term)
	if err != nil {
		return err
	}
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observer configuration")
	}

	sourceObserver := snapshot.Find(source.SessionID, source.CommitteeID).SlotValue(source)
	targetObserver := snapshot.Find(target.SessionID, target.CommitteeID).SlotValue(target)
	if sourceObserver == "" && targetObserver == "" {
		return nil
	}

	// Both directions hard-block check first; a ban is fatal regardless of
	// time availability.
	if err := s.checkSwapExclusion(ctx, sourceObserver, target.CommitteeID); err != nil {
		s.recordMutation("swap", true)
		return err
	}
	if err := s.checkSwapExclusion(ctx, targetObserver, source.CommitteeID); err != nil {
		s.recordMutation("swap", true)
		return err
	}

	// Time conflicts are evaluated against the snapshot with both slots
	// vacated, since both occupants are about to move.
	scratch := snapshot.Clone()
	scratch.Ensure(source.SessionID, source.CommitteeID, cfg.ObserversPerCommittee).SetSlotValue(source, "")
	scratch.Ensure(target.SessionID, target.CommitteeID, cfg.ObserversPerCommittee).SetSlotValue(target, "")

	index, err := s.calendar.BuildIndex(ctx, term)
	if err != nil {
		return err
	}
	names, err := s.committeeNames(ctx)
	if err != nil {
		return err
	}

	if sourceObserver != "" {
		if dest := scratch.Find(target.SessionID, target.CommitteeID); dest.Contains(sourceObserver) {
			s.recordMutation("swap", true)
			return appErrors.Clone(appErrors.ErrValidation, "observer already assigned to the target committee for that session")
		}
		if conflict := findConflict(sourceObserver, target.SessionID, target.CommitteeID, index, scratch, names); conflict != nil {
			s.recordMutation("swap", true)
			return appErrors.Clone(appErrors.ErrTimeConflict, conflictMessage(s.observerName(ctx, sourceObserver), conflict))
		}
	}
	if targetObserver != "" {
		if dest := scratch.Find(source.SessionID, source.CommitteeID); dest.Contains(targetObserver) {
			s.recordMutation("swap", true)
			return appErrors.Clone(appErrors.ErrValidation, "observer already assigned to the source committee for that session")
		}
		if conflict := findConflict(targetObserver, source.SessionID, source.CommitteeID, index, scratch, names); conflict != nil {
			s.recordMutation("swap", true)
			return appErrors.Clone(appErrors.ErrTimeConflict, conflictMessage(s.observerName(ctx, targetObserver), conflict))
		}
	}

	// Both writes land together, then one persist.
	snapshot.Ensure(source.SessionID, source.CommitteeID, cfg.ObserversPerCommittee).SetSlotValue(source, targetObserver)
	snapshot.Ensure(target.SessionID, target.CommitteeID, cfg.ObserversPerCommittee).SetSlotValue(target, sourceObserver)

	if err := s.persist(ctx, snapshot); err != nil {
		return err
	}
	s.recordMutation("swap", false)
	return nil
}

// Replace swaps in a freshly planned snapshot as one atomic write. Callers
// must hold the term lock; the planner does.
func (s *AssignmentService) Replace(ctx context.Context, snapshot *models.AssignmentSnapshot) error {
	return s.persist(ctx, snapshot)
}

// RemoveObserverEverywhere clears every slot holding the observer across all
// term snapshots. Invoked when the roster deletes an observer.
func (s *AssignmentService) RemoveObserverEverywhere(ctx context.Context, observerID string) error {
	terms, err := s.snapshots.ListTerms(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignment terms")
	}
	for _, term := range terms {
		if err := s.removeObserverFromTerm(ctx, term, observerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *AssignmentService) removeObserverFromTerm(ctx context.Context, term models.TermKey, observerID string) error {
	unlock := s.locks.Lock(string(term))
	defer unlock()

	snapshot, err := s.loadNormalized(ctx, term)
	if err != nil {
		return err
	}
	changed := false
	for i := range snapshot.Assignments {
		assignment := &snapshot.Assignments[i]
		for j, id := range assignment.Observers {
			if id == observerID {
				assignment.Observers[j] = ""
				changed = true
			}
		}
		if assignment.Reserve == observerID {
			assignment.Reserve = ""
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx, snapshot)
}

// RemoveCommitteeEverywhere drops every assignment referencing the committee
// from all term snapshots. Invoked when configuration deletes a committee.
func (s *AssignmentService) RemoveCommitteeEverywhere(ctx context.Context, committeeID string) error {
	terms, err := s.snapshots.ListTerms(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignment terms")
	}
	for _, term := range terms {
		unlock := s.locks.Lock(string(term))
		snapshot, err := s.loadNormalized(ctx, term)
		if err != nil {
			unlock()
			return err
		}
		kept := snapshot.Assignments[:0]
		changed := false
		for _, assignment := range snapshot.Assignments {
			if assignment.CommitteeID == committeeID {
				changed = true
				continue
			}
			kept = append(kept, assignment)
		}
		snapshot.Assignments = kept
		if changed {
			if err := s.persist(ctx, snapshot); err != nil {
				unlock()
				return err
			}
		}
		unlock()
	}
	return nil
}

// RemoveSessionEverywhere drops every assignment row tied to the exam session
// from all term snapshots. Invoked when the scheduling screen deletes a
// session.
func (s *AssignmentService) RemoveSessionEverywhere(ctx context.Context, sessionID string) error {
	terms, err := s.snapshots.ListTerms(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignment terms")
	}
	for _, term := range terms {
		unlock := s.locks.Lock(string(term))
		snapshot, err := s.loadNormalized(ctx, term)
		if err != nil {
			unlock()
			return err
		}
		kept := snapshot.Assignments[:0]
		changed := false
		for _, assignment := range snapshot.Assignments {
			if assignment.SessionID == sessionID {
				changed = true
				continue
			}
			kept = append(kept, assignment)
		}
		snapshot.Assignments = kept
		if changed {
			if err := s.persist(ctx, snapshot); err != nil {
				unlock()
				return err
			}
		}
		unlock()
	}
	return nil
}

// --- internals ---

func (s *AssignmentService) cachedSnapshot(ctx context.Context, term models.TermKey) (*models.AssignmentSnapshot, error) {
	if s.cache != nil {
		var cached models.AssignmentSnapshot
		if err := s.cache.Get(ctx, snapshotCacheKey(term), &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
	}

	snapshot, err := s.loadNormalized(ctx, term)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotCacheKey(term), snapshot, s.cacheTTL); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

// loadNormalized loads the stored snapshot and pads primary-slot arrays up to
// the current committee size. Over-length rows are kept as-is until the grade
// is re-planned, so nothing is silently dropped when the configuration
// shrinks.
func (s *AssignmentService) loadNormalized(ctx context.Context, term models.TermKey) (*models.AssignmentSnapshot, error) {
	snapshot, err := s.snapshots.Get(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment snapshot")
	}
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observer configuration")
	}
	normalizeSnapshot(snapshot, cfg.ObserversPerCommittee)
	return snapshot, nil
}

func normalizeSnapshot(snapshot *models.AssignmentSnapshot, primarySlots int) {
	for i := range snapshot.Assignments {
		assignment := &snapshot.Assignments[i]
		for len(assignment.Observers) < primarySlots {
			assignment.Observers = append(assignment.Observers, "")
		}
	}
}

func (s *AssignmentService) persist(ctx context.Context, snapshot *models.AssignmentSnapshot) error {
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignment snapshot")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, snapshotCacheKey(snapshot.Term)); err != nil {
			s.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}

func (s *AssignmentService) loadPair(ctx context.Context, observerID, committeeID string) (*models.Observer, *models.Committee, error) {
	observer, err := s.observers.FindByID(ctx, observerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "observer not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observer")
	}
	committee, err := s.committees.FindByID(ctx, committeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "committee not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committee")
	}
	return observer, committee, nil
}

func (s *AssignmentService) checkSwapExclusion(ctx context.Context, observerID, committeeID string) error {
	if observerID == "" {
		return nil
	}
	observer, committee, err := s.loadPair(ctx, observerID, committeeID)
	if err != nil {
		return err
	}
	if observer.IsExcludedFrom(committee) {
		return appErrors.Clone(appErrors.ErrHardExclusion, fmt.Sprintf("%s is excluded from committee %s", observer.FullName, committee.Name))
	}
	return nil
}

func (s *AssignmentService) committeeNames(ctx context.Context) (map[string]string, error) {
	committees, err := s.committees.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committees")
	}
	return committeeNameMap(committees), nil
}

func (s *AssignmentService) committeeGrades(ctx context.Context) (map[string]string, error) {
	committees, err := s.committees.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committees")
	}
	grades := make(map[string]string, len(committees))
	for _, committee := range committees {
		grades[committee.ID] = committee.GradeLevel
	}
	return grades, nil
}

func (s *AssignmentService) observerName(ctx context.Context, observerID string) string {
	observer, err := s.observers.FindByID(ctx, observerID)
	if err != nil || observer == nil {
		return observerID
	}
	return observer.FullName
}

func (s *AssignmentService) recordMutation(kind string, rejected bool) {
	if s.metrics != nil {
		s.metrics.RecordMutation(kind, rejected)
	}
}

func conflictMessage(observerName string, conflict *models.ConflictInfo) string {
	return fmt.Sprintf("%s already supervises %s (grade %s, %s) at %s",
		observerName, conflict.CommitteeName, conflict.GradeLevel, conflict.Subject, conflict.TimeRange)
}
