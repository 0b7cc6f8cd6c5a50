package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	"github.com/noah-isme/sma-exam-api/internal/service"
)

type snapshotRepoStub struct {
	stored map[models.TermKey]*models.AssignmentSnapshot
}

func (s *snapshotRepoStub) Get(ctx context.Context, term models.TermKey) (*models.AssignmentSnapshot, error) {
	if snapshot, ok := s.stored[term]; ok {
		return snapshot.Clone(), nil
	}
	return &models.AssignmentSnapshot{Term: term}, nil
}

func (s *snapshotRepoStub) Save(ctx context.Context, snapshot *models.AssignmentSnapshot) error {
	s.stored[snapshot.Term] = snapshot.Clone()
	return nil
}

func (s *snapshotRepoStub) ListTerms(ctx context.Context) ([]models.TermKey, error) {
	return nil, nil
}

type observerReaderStub struct{}

func (observerReaderStub) FindByID(ctx context.Context, id string) (*models.Observer, error) {
	if id != "obs-1" {
		return nil, sql.ErrNoRows
	}
	return &models.Observer{ID: "obs-1", FullName: "Ahmad", Active: true}, nil
}

type committeeReaderStub struct{}

func (committeeReaderStub) FindByID(ctx context.Context, id string) (*models.Committee, error) {
	if id != "com-10" {
		return nil, sql.ErrNoRows
	}
	return &models.Committee{ID: "com-10", Name: "Ruang 101", GradeLevel: "grade-10"}, nil
}

func (committeeReaderStub) ListAll(ctx context.Context) ([]models.Committee, error) {
	return []models.Committee{{ID: "com-10", Name: "Ruang 101", GradeLevel: "grade-10"}}, nil
}

type configReaderStub struct{}

func (configReaderStub) Get(ctx context.Context) (*models.ObserverConfig, error) {
	return &models.ObserverConfig{ObserversPerCommittee: 2, MembersPerCorrection: 3}, nil
}

type indexerStub struct{}

func (indexerStub) BuildIndex(ctx context.Context, term models.TermKey) (models.CalendarIndex, error) {
	return models.CalendarIndex{
		"sess-1": {SessionID: "sess-1", Date: "2026-03-09", StartMinutes: 450, EndMinutes: 570, GradeLevel: "grade-10", Subject: "Matematika", TimeRange: "07:30 - 09:30"},
	}, nil
}

func newAssignmentHandlerFixture() (*AssignmentHandler, *snapshotRepoStub) {
	repo := &snapshotRepoStub{stored: make(map[models.TermKey]*models.AssignmentSnapshot)}
	store := service.NewAssignmentService(
		repo,
		observerReaderStub{},
		committeeReaderStub{},
		configReaderStub{},
		indexerStub{},
		nil, 0,
		service.NewTermLocks(),
		nil, nil,
	)
	return NewAssignmentHandler(store, nil), repo
}

func performJSON(t *testing.T, handlerFunc gin.HandlerFunc, method, path, term string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "term", Value: term}}

	handlerFunc(c)
	return w
}

func TestAssignmentHandlerSnapshotRejectsUnknownTerm(t *testing.T) {
	h, _ := newAssignmentHandlerFixture()
	w := performJSON(t, h.Snapshot, http.MethodGet, "/terms/summer/assignments", "summer", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerSetSlotRoundTrip(t *testing.T) {
	h, repo := newAssignmentHandlerFixture()

	w := performJSON(t, h.SetSlot, http.MethodPut, "/terms/term1/assignments/slot", "term1", dto.SetSlotRequest{
		SessionID: "sess-1", CommitteeID: "com-10", Slot: 0, ObserverID: "obs-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored := repo.stored[models.Term1]
	require.NotNil(t, stored)
	assert.Equal(t, "obs-1", stored.Find("sess-1", "com-10").Observers[0])

	w = performJSON(t, h.Snapshot, http.MethodGet, "/terms/term1/assignments", "term1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.SnapshotResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Assignments, 1)
	assert.Equal(t, "obs-1", envelope.Data.Assignments[0].Observers[0])
}

func TestAssignmentHandlerSetSlotUnknownObserver(t *testing.T) {
	h, _ := newAssignmentHandlerFixture()

	w := performJSON(t, h.SetSlot, http.MethodPut, "/terms/term1/assignments/slot", "term1", dto.SetSlotRequest{
		SessionID: "sess-1", CommitteeID: "com-10", Slot: 0, ObserverID: "ghost",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentHandlerSetSlotMalformedBody(t *testing.T) {
	h, _ := newAssignmentHandlerFixture()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/terms/term1/assignments/slot", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "term", Value: "term1"}}

	h.SetSlot(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerConflictCheck(t *testing.T) {
	h, _ := newAssignmentHandlerFixture()

	w := performJSON(t, h.ConflictCheck, http.MethodPost, "/terms/term1/assignments/conflict-check", "term1", dto.PlacementCheckRequest{
		SessionID: "sess-1", CommitteeID: "com-10", ObserverID: "obs-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.PlacementCheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Allowed)
}
