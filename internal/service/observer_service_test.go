package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type mockObserverRepo struct {
	observers map[string]*models.Observer
	listErr   error
	deleted   []string
}

func (m *mockObserverRepo) List(ctx context.Context, filter models.ObserverFilter) ([]models.Observer, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	result := make([]models.Observer, 0, len(m.observers))
	for _, observer := range m.observers {
		result = append(result, *observer)
	}
	return result, len(result), nil
}

func (m *mockObserverRepo) FindByID(ctx context.Context, id string) (*models.Observer, error) {
	observer, ok := m.observers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *observer
	return &clone, nil
}

func (m *mockObserverRepo) Create(ctx context.Context, observer *models.Observer) error {
	observer.ID = "obs-generated"
	m.observers[observer.ID] = observer
	return nil
}

func (m *mockObserverRepo) Update(ctx context.Context, observer *models.Observer) error {
	if _, ok := m.observers[observer.ID]; !ok {
		return sql.ErrNoRows
	}
	m.observers[observer.ID] = observer
	return nil
}

func (m *mockObserverRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.observers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.observers, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCascader struct {
	removed []string
	err     error
}

func (m *mockCascader) RemoveObserverEverywhere(ctx context.Context, observerID string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, observerID)
	return nil
}

func TestObserverServiceCreate(t *testing.T) {
	repo := &mockObserverRepo{observers: make(map[string]*models.Observer)}
	svc := NewObserverService(repo, &mockCascader{}, nil, nil)

	expertise := "  Matematika  "
	observer, err := svc.Create(context.Background(), dto.CreateObserverRequest{
		FullName:           "  Ahmad Fauzi  ",
		Expertise:          &expertise,
		ExcludedCommittees: []string{"com-10", " com-10 ", "", "com-11"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Fauzi", observer.FullName)
	require.NotNil(t, observer.Expertise)
	assert.Equal(t, "Matematika", *observer.Expertise)
	assert.Equal(t, []string{"com-10", "com-11"}, []string(observer.ExcludedCommittees))
	assert.True(t, observer.Active)
}

func TestObserverServiceCreateMissingName(t *testing.T) {
	svc := NewObserverService(&mockObserverRepo{observers: make(map[string]*models.Observer)}, &mockCascader{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateObserverRequest{FullName: ""})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestObserverServiceGetNotFound(t *testing.T) {
	svc := NewObserverService(&mockObserverRepo{observers: make(map[string]*models.Observer)}, &mockCascader{}, nil, nil)

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestObserverServiceDeleteCascades(t *testing.T) {
	repo := &mockObserverRepo{observers: map[string]*models.Observer{
		"obs-1": {ID: "obs-1", FullName: "Ahmad", Active: true},
	}}
	cascader := &mockCascader{}
	svc := NewObserverService(repo, cascader, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "obs-1"))
	assert.Equal(t, []string{"obs-1"}, cascader.removed)
	assert.Equal(t, []string{"obs-1"}, repo.deleted)
}

func TestObserverServiceDeleteCascadeFailureKeepsRow(t *testing.T) {
	repo := &mockObserverRepo{observers: map[string]*models.Observer{
		"obs-1": {ID: "obs-1", FullName: "Ahmad", Active: true},
	}}
	cascader := &mockCascader{err: errors.New("snapshot store down")}
	svc := NewObserverService(repo, cascader, nil, nil)

	err := svc.Delete(context.Background(), "obs-1")
	require.Error(t, err)
	assert.Empty(t, repo.deleted)
	assert.Contains(t, repo.observers, "obs-1")
}

func TestObserverServiceUpdateReplacesExclusions(t *testing.T) {
	repo := &mockObserverRepo{observers: map[string]*models.Observer{
		"obs-1": {ID: "obs-1", FullName: "Ahmad", Active: true, ExcludedGrades: []string{"grade-10"}},
	}}
	svc := NewObserverService(repo, &mockCascader{}, nil, nil)

	active := false
	observer, err := svc.Update(context.Background(), "obs-1", dto.UpdateObserverRequest{
		FullName:       "Ahmad Fauzi",
		ExcludedGrades: []string{"grade-11", "grade-12"},
		Active:         &active,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"grade-11", "grade-12"}, []string(observer.ExcludedGrades))
	assert.False(t, observer.Active)
}
