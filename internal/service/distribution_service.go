package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type distributionObserverReader interface {
	ListActive(ctx context.Context) ([]models.Observer, error)
}

type distributionSessionReader interface {
	ListByTerm(ctx context.Context, term models.TermKey) ([]models.ExamSession, error)
	ListByGradeAndTerm(ctx context.Context, gradeLevel string, term models.TermKey) ([]models.ExamSession, error)
}

type distributionCommitteeReader interface {
	ListByGrade(ctx context.Context, gradeLevel string) ([]models.Committee, error)
	ListAll(ctx context.Context) ([]models.Committee, error)
}

type snapshotStore interface {
	Replace(ctx context.Context, snapshot *models.AssignmentSnapshot) error
}

type distributionRecorder interface {
	RecordDistribution(gradeLevel string, unfilled int)
}

// DistributionService runs the auto-distribution planner: a greedy,
// single-pass heuristic that rebuilds one grade's assignments for a term
// while leaving every other grade's assignments frozen. It is not a
// backtracking solver; when constraints are tight it leaves slots empty
// rather than failing the run.
type DistributionService struct {
	observers  distributionObserverReader
	sessions   distributionSessionReader
	committees distributionCommitteeReader
	snapshots  snapshotRepository
	store      snapshotStore
	config     observerConfigReader
	locks      *TermLocks
	rng        *rand.Rand
	metrics    distributionRecorder
	logger     *zap.Logger
}

// NewDistributionService wires the planner. The random source drives
// load-balance tie-breaking and is injectable so tests can pin a seed.
func NewDistributionService(
	observers distributionObserverReader,
	sessions distributionSessionReader,
	committees distributionCommitteeReader,
	snapshots snapshotRepository,
	store snapshotStore,
	config observerConfigReader,
	locks *TermLocks,
	rng *rand.Rand,
	metrics distributionRecorder,
	logger *zap.Logger,
) *DistributionService {
	if locks == nil {
		locks = NewTermLocks()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistributionService{
		observers:  observers,
		sessions:   sessions,
		committees: committees,
		snapshots:  snapshots,
		store:      store,
		config:     config,
		locks:      locks,
		rng:        rng,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run plans a complete assignment for one grade and term from scratch and
// commits it as a single atomic snapshot replace.
func (s *DistributionService) Run(ctx context.Context, term models.TermKey, gradeLevel string) (*dto.DistributionResult, error) {
	if !term.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown term %q", term))
	}
	if gradeLevel == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grade level is required")
	}

	unlock := s.locks.Lock(string(term))
	defer unlock()

	observers, err := s.observers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observers")
	}
	if len(observers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no observers available for distribution")
	}

	gradeSessions, err := s.sessions.ListByGradeAndTerm(ctx, gradeLevel, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam sessions")
	}
	if len(gradeSessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no exam sessions scheduled for grade %s in %s", gradeLevel, term))
	}

	gradeCommittees, err := s.committees.ListByGrade(ctx, gradeLevel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committees")
	}
	if len(gradeCommittees) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no committees configured for grade %s", gradeLevel))
	}

	allCommittees, err := s.committees.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committees")
	}
	allSessions, err := s.sessions.ListByTerm(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam calendar")
	}
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observer configuration")
	}
	current, err := s.snapshots.Get(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment snapshot")
	}

	index := BuildCalendarIndex(allSessions)
	names := committeeNameMap(allCommittees)
	grades := make(map[string]string, len(allCommittees))
	for _, committee := range allCommittees {
		grades[committee.ID] = committee.GradeLevel
	}

	plan := planDistribution(planInput{
		term:         term,
		gradeLevel:   gradeLevel,
		sessions:     gradeSessions,
		committees:   gradeCommittees,
		observers:    observers,
		primarySlots: cfg.ObserversPerCommittee,
		current:      current,
		grades:       grades,
		index:        index,
		names:        names,
		rng:          s.rng,
	})

	if err := s.store.Replace(ctx, plan.snapshot); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordDistribution(gradeLevel, plan.unfilled)
	}
	s.logger.Info("distribution completed",
		zap.String("term", string(term)),
		zap.String("grade_level", gradeLevel),
		zap.Int("filled_slots", plan.filled),
		zap.Int("unfilled_slots", plan.unfilled),
	)

	return &dto.DistributionResult{
		Term:          term,
		GradeLevel:    gradeLevel,
		Assignments:   plan.rebuilt,
		FilledSlots:   plan.filled,
		UnfilledSlots: plan.unfilled,
		ObserverLoad:  plan.workload,
	}, nil
}

type planInput struct {
	term         models.TermKey
	gradeLevel   string
	sessions     []models.ExamSession
	committees   []models.Committee
	observers    []models.Observer
	primarySlots int
	current      *models.AssignmentSnapshot
	grades       map[string]string
	index        models.CalendarIndex
	names        map[string]string
	rng          *rand.Rand
}

type planOutput struct {
	snapshot *models.AssignmentSnapshot
	rebuilt  []models.Assignment
	workload map[string]int
	filled   int
	unfilled int
}

// planDistribution is the pure planning core. It partitions the current
// snapshot into frozen assignments (other grades, kept verbatim) and the
// target grade's scope (discarded and rebuilt), then fills slots greedily,
// session by session in chronological order. Partial assignments join the
// working snapshot immediately so later slots see earlier picks and the
// conflict check stays self-consistent within the run.
func planDistribution(in planInput) planOutput {
	working := &models.AssignmentSnapshot{Term: in.term}
	workload := make(map[string]int, len(in.observers))
	for _, observer := range in.observers {
		workload[observer.ID] = 0
	}

	// Frozen assignments seed the workload counters so a teacher already
	// carrying another grade's sessions is deprioritised here.
	if in.current != nil {
		for _, assignment := range in.current.Assignments {
			if in.grades[assignment.CommitteeID] == in.gradeLevel {
				continue
			}
			working.Assignments = append(working.Assignments, assignment)
			for _, id := range assignment.Observers {
				if id != "" {
					workload[id]++
				}
			}
			if assignment.Reserve != "" {
				workload[assignment.Reserve]++
			}
		}
	}
	frozenCount := len(working.Assignments)

	sessions := make([]models.ExamSession, len(in.sessions))
	copy(sessions, in.sessions)
	sort.SliceStable(sessions, func(i, j int) bool {
		di, dj := sessions[i].DateKey(), sessions[j].DateKey()
		if di != dj {
			return di < dj
		}
		return ParseClockMinutes(sessions[i].StartLabel) < ParseClockMinutes(sessions[j].StartLabel)
	})

	var filled, unfilled int
	for _, session := range sessions {
		for i := range in.committees {
			committee := &in.committees[i]
			assignment := working.Ensure(session.ID, committee.ID, in.primarySlots)

			for slot := 0; slot < in.primarySlots; slot++ {
				chosen := pickCandidate(in, working, assignment, committee, session.ID, workload)
				if chosen == "" {
					unfilled++
					continue
				}
				assignment.Observers[slot] = chosen
				workload[chosen]++
				filled++
			}

			reserve := pickCandidate(in, working, assignment, committee, session.ID, workload)
			if reserve == "" {
				unfilled++
			} else {
				assignment.Reserve = reserve
				workload[reserve]++
				filled++
			}
		}
	}

	return planOutput{
		snapshot: working,
		rebuilt:  append([]models.Assignment(nil), working.Assignments[frozenCount:]...),
		workload: workload,
		filled:   filled,
		unfilled: unfilled,
	}
}

// pickCandidate returns the eligible observer with the lowest workload,
// breaking ties uniformly at random. Eligible means: not already in this
// committee's slots for the session, not hard-excluded, and free of time
// conflicts against everything placed so far. An empty result means the slot
// stays unfilled; that is an expected planning outcome, not an error.
func pickCandidate(
	in planInput,
	working *models.AssignmentSnapshot,
	assignment *models.Assignment,
	committee *models.Committee,
	sessionID string,
	workload map[string]int,
) string {
	best := -1
	var ties []string
	for i := range in.observers {
		observer := &in.observers[i]
		if assignment.Contains(observer.ID) {
			continue
		}
		if observer.IsExcludedFrom(committee) {
			continue
		}
		if findConflict(observer.ID, sessionID, committee.ID, in.index, working, in.names) != nil {
			continue
		}
		load := workload[observer.ID]
		switch {
		case best == -1 || load < best:
			best = load
			ties = ties[:0]
			ties = append(ties, observer.ID)
		case load == best:
			ties = append(ties, observer.ID)
		}
	}
	if len(ties) == 0 {
		return ""
	}
	return ties[in.rng.Intn(len(ties))]
}
