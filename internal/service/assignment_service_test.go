package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type fakeSnapshotRepo struct {
	snapshots map[models.TermKey]*models.AssignmentSnapshot
	saves     int
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[models.TermKey]*models.AssignmentSnapshot)}
}

func (f *fakeSnapshotRepo) Get(ctx context.Context, term models.TermKey) (*models.AssignmentSnapshot, error) {
	if stored, ok := f.snapshots[term]; ok {
		return stored.Clone(), nil
	}
	return &models.AssignmentSnapshot{Term: term}, nil
}

func (f *fakeSnapshotRepo) Save(ctx context.Context, snapshot *models.AssignmentSnapshot) error {
	f.snapshots[snapshot.Term] = snapshot.Clone()
	f.saves++
	return nil
}

func (f *fakeSnapshotRepo) ListTerms(ctx context.Context) ([]models.TermKey, error) {
	terms := make([]models.TermKey, 0, len(f.snapshots))
	for term := range f.snapshots {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
	return terms, nil
}

type fakeObservers struct {
	byID map[string]models.Observer
}

func (f *fakeObservers) FindByID(ctx context.Context, id string) (*models.Observer, error) {
	observer, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &observer, nil
}

func (f *fakeObservers) ListActive(ctx context.Context) ([]models.Observer, error) {
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	observers := make([]models.Observer, 0, len(ids))
	for _, id := range ids {
		if f.byID[id].Active {
			observers = append(observers, f.byID[id])
		}
	}
	return observers, nil
}

type fakeCommittees struct {
	list []models.Committee
}

func (f *fakeCommittees) FindByID(ctx context.Context, id string) (*models.Committee, error) {
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCommittees) ListAll(ctx context.Context) ([]models.Committee, error) {
	return f.list, nil
}

func (f *fakeCommittees) ListByGrade(ctx context.Context, gradeLevel string) ([]models.Committee, error) {
	var out []models.Committee
	for _, committee := range f.list {
		if committee.GradeLevel == gradeLevel {
			out = append(out, committee)
		}
	}
	return out, nil
}

type fakeConfig struct {
	cfg models.ObserverConfig
}

func (f *fakeConfig) Get(ctx context.Context) (*models.ObserverConfig, error) {
	cfg := f.cfg
	return &cfg, nil
}

type fakeIndexer struct {
	index models.CalendarIndex
}

func (f *fakeIndexer) BuildIndex(ctx context.Context, term models.TermKey) (models.CalendarIndex, error) {
	return f.index, nil
}

type engineFixture struct {
	store      *AssignmentService
	snapshots  *fakeSnapshotRepo
	observers  *fakeObservers
	committees *fakeCommittees
	index      models.CalendarIndex
}

// Two grades sharing one exam day: sess-10a (grade-10) overlaps sess-11a
// (grade-11) in time, sess-10b sits on the next day.
func newEngineFixture() *engineFixture {
	index := models.CalendarIndex{
		"sess-10a": {SessionID: "sess-10a", Date: "2026-03-09", StartMinutes: 450, EndMinutes: 570, GradeLevel: "grade-10", Subject: "Matematika", TimeRange: "07:30 - 09:30"},
		"sess-11a": {SessionID: "sess-11a", Date: "2026-03-09", StartMinutes: 480, EndMinutes: 600, GradeLevel: "grade-11", Subject: "Fisika", TimeRange: "08:00 - 10:00"},
		"sess-10b": {SessionID: "sess-10b", Date: "2026-03-10", StartMinutes: 450, EndMinutes: 570, GradeLevel: "grade-10", Subject: "Bahasa", TimeRange: "07:30 - 09:30"},
	}
	observers := &fakeObservers{byID: map[string]models.Observer{
		"obs-1": {ID: "obs-1", FullName: "Ahmad", Active: true},
		"obs-2": {ID: "obs-2", FullName: "Budi", Active: true, ExcludedCommittees: []string{"com-10"}},
		"obs-3": {ID: "obs-3", FullName: "Citra", Active: true, ExcludedGrades: []string{"grade-11"}},
	}}
	committees := &fakeCommittees{list: []models.Committee{
		{ID: "com-10", Name: "Ruang 101", GradeLevel: "grade-10"},
		{ID: "com-11", Name: "Ruang 201", GradeLevel: "grade-11"},
	}}
	snapshots := newFakeSnapshotRepo()

	store := NewAssignmentService(
		snapshots,
		observers,
		committees,
		&fakeConfig{cfg: models.ObserverConfig{ObserversPerCommittee: 2, MembersPerCorrection: 3}},
		&fakeIndexer{index: index},
		nil, 0,
		NewTermLocks(),
		nil, nil,
	)
	return &engineFixture{store: store, snapshots: snapshots, observers: observers, committees: committees, index: index}
}

func TestAssignmentServiceSetSlot(t *testing.T) {
	fx := newEngineFixture()

	assignment, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"obs-1", ""}, assignment.Observers)
	assert.Equal(t, 1, fx.snapshots.saves)

	stored := fx.snapshots.snapshots[models.Term1]
	require.NotNil(t, stored.Find("sess-10a", "com-10"))
	assert.Equal(t, "obs-1", stored.Find("sess-10a", "com-10").Observers[0])
}

func TestAssignmentServiceSetSlotRejectsHardExclusion(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-2",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrHardExclusion.Code, appErr.Code)
	assert.Zero(t, fx.snapshots.saves, "a rejected write must not persist")
}

func TestAssignmentServiceSetSlotRejectsGradeExclusion(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-11a", CommitteeID: "com-11", Slot: 0, ObserverID: "obs-3",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrHardExclusion.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSetSlotRejectsCrossGradeTimeConflict(t *testing.T) {
	fx := newEngineFixture()

	// obs-1 supervises the grade-11 session first.
	_, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-11a", CommitteeID: "com-11", Slot: 0, ObserverID: "obs-1",
	})
	require.NoError(t, err)

	// The overlapping grade-10 session on the same morning must refuse them.
	_, err = fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrTimeConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Ruang 201")

	// The next day is free.
	_, err = fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10b", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	assert.NoError(t, err)
}

func TestAssignmentServiceSetSlotRewriteSameSlotIsLegal(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	require.NoError(t, err)

	_, err = fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	assert.NoError(t, err, "re-writing an observer into their own slot is not a conflict")
}

func TestAssignmentServiceSetSlotRejectsDuplicateWithinCommittee(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	require.NoError(t, err)

	_, err = fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 1, ObserverID: "obs-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSetSlotRejectsOutOfRangeIndex(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 2, ObserverID: "obs-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSetSlotClearsWithEmptyObserver(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	require.NoError(t, err)

	assignment, err := fx.store.SetSlot(context.Background(), models.Term1, dto.SetSlotRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "",
	})
	require.NoError(t, err)
	assert.Equal(t, "", assignment.Observers[0])
}

func TestAssignmentServiceSwapExchangesSlots(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	// Different days, so the swapped placements stay conflict-free.
	_, err := fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1"})
	require.NoError(t, err)
	_, err = fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-10b", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-3"})
	require.NoError(t, err)
	savesBefore := fx.snapshots.saves

	source := models.SlotRef{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0}
	target := models.SlotRef{SessionID: "sess-10b", CommitteeID: "com-10", Slot: 0}
	require.NoError(t, fx.store.SwapSlots(ctx, models.Term1, source, target))

	assert.Equal(t, savesBefore+1, fx.snapshots.saves, "a swap persists exactly once")
	stored := fx.snapshots.snapshots[models.Term1]
	assert.Equal(t, "obs-3", stored.Find("sess-10a", "com-10").Observers[0])
	assert.Equal(t, "obs-1", stored.Find("sess-10b", "com-10").Observers[0])
}

func TestAssignmentServiceSwapWithEmptySlotMoves(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	_, err := fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1"})
	require.NoError(t, err)

	source := models.SlotRef{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0}
	target := models.SlotRef{SessionID: "sess-10b", CommitteeID: "com-10", Slot: 1}
	require.NoError(t, fx.store.SwapSlots(ctx, models.Term1, source, target))

	stored := fx.snapshots.snapshots[models.Term1]
	assert.Equal(t, "", stored.Find("sess-10a", "com-10").Observers[0])
	assert.Equal(t, "obs-1", stored.Find("sess-10b", "com-10").Observers[1])
}

func TestAssignmentServiceSwapBothEmptyIsNoop(t *testing.T) {
	fx := newEngineFixture()

	source := models.SlotRef{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0}
	target := models.SlotRef{SessionID: "sess-10b", CommitteeID: "com-10", Slot: 0}
	require.NoError(t, fx.store.SwapSlots(context.Background(), models.Term1, source, target))
	assert.Zero(t, fx.snapshots.saves)
}

func TestAssignmentServiceSwapRejectsExclusionAtomically(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	// obs-2 may not enter com-10; swapping them toward it must fail whole.
	_, err := fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1"})
	require.NoError(t, err)
	_, err = fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-11a", CommitteeID: "com-11", Slot: 0, ObserverID: "obs-2"})
	require.NoError(t, err)
	savesBefore := fx.snapshots.saves

	source := models.SlotRef{SessionID: "sess-11a", CommitteeID: "com-11", Slot: 0}
	target := models.SlotRef{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0}
	err = fx.store.SwapSlots(ctx, models.Term1, source, target)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrHardExclusion.Code, appErrors.FromError(err).Code)

	assert.Equal(t, savesBefore, fx.snapshots.saves, "a rejected swap leaves nothing behind")
	stored := fx.snapshots.snapshots[models.Term1]
	assert.Equal(t, "obs-1", stored.Find("sess-10a", "com-10").Observers[0])
	assert.Equal(t, "obs-2", stored.Find("sess-11a", "com-11").Observers[0])
}

func TestAssignmentServiceSwapSameSlotIsNoop(t *testing.T) {
	fx := newEngineFixture()
	ref := models.SlotRef{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0}
	require.NoError(t, fx.store.SwapSlots(context.Background(), models.Term1, ref, ref))
	assert.Zero(t, fx.snapshots.saves)
}

func TestAssignmentServiceCheckPlacement(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	result, err := fx.store.CheckPlacement(ctx, models.Term1, dto.PlacementCheckRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", ObserverID: "obs-1",
	})
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = fx.store.CheckPlacement(ctx, models.Term1, dto.PlacementCheckRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", ObserverID: "obs-2",
	})
	require.NoError(t, err)
	assert.True(t, result.HardBlocked)
	assert.False(t, result.Allowed)

	_, err = fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-11a", CommitteeID: "com-11", Slot: 0, ObserverID: "obs-1"})
	require.NoError(t, err)
	result, err = fx.store.CheckPlacement(ctx, models.Term1, dto.PlacementCheckRequest{
		SessionID: "sess-10a", CommitteeID: "com-10", ObserverID: "obs-1",
	})
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, "sess-11a", result.Conflict.SessionID)
}

func TestAssignmentServiceSnapshotGradeFilter(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	_, err := fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1"})
	require.NoError(t, err)
	_, err = fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-11a", CommitteeID: "com-11", Slot: 0, ObserverID: "obs-2"})
	require.NoError(t, err)

	all, err := fx.store.Snapshot(ctx, models.Term1, "")
	require.NoError(t, err)
	assert.Len(t, all.Assignments, 2)

	grade10, err := fx.store.Snapshot(ctx, models.Term1, "grade-10")
	require.NoError(t, err)
	require.Len(t, grade10.Assignments, 1)
	assert.Equal(t, "com-10", grade10.Assignments[0].CommitteeID)
}

func TestAssignmentServiceRemoveObserverEverywhere(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	_, err := fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1"})
	require.NoError(t, err)
	_, err = fx.store.SetSlot(ctx, models.Term2, dto.SetSlotRequest{SessionID: "sess-10b", CommitteeID: "com-10", Reserve: true, ObserverID: "obs-1"})
	require.NoError(t, err)

	require.NoError(t, fx.store.RemoveObserverEverywhere(ctx, "obs-1"))

	assert.Equal(t, "", fx.snapshots.snapshots[models.Term1].Find("sess-10a", "com-10").Observers[0])
	assert.Equal(t, "", fx.snapshots.snapshots[models.Term2].Find("sess-10b", "com-10").Reserve)
}

func TestAssignmentServiceRemoveCommitteeEverywhere(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	_, err := fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1"})
	require.NoError(t, err)
	_, err = fx.store.SetSlot(ctx, models.Term1, dto.SetSlotRequest{SessionID: "sess-11a", CommitteeID: "com-11", Slot: 0, ObserverID: "obs-2"})
	require.NoError(t, err)

	require.NoError(t, fx.store.RemoveCommitteeEverywhere(ctx, "com-10"))

	stored := fx.snapshots.snapshots[models.Term1]
	assert.Nil(t, stored.Find("sess-10a", "com-10"))
	assert.NotNil(t, stored.Find("sess-11a", "com-11"))
}

func TestAssignmentServiceSlotValueOnMissingAssignment(t *testing.T) {
	fx := newEngineFixture()

	value, err := fx.store.SlotValue(context.Background(), models.Term1, models.SlotRef{SessionID: "sess-10a", CommitteeID: "com-10", Slot: 0})
	require.NoError(t, err)
	assert.Equal(t, "", value)
}
