package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type swapExecutor interface {
	SwapSlots(ctx context.Context, term models.TermKey, source, target models.SlotRef) error
	SlotValue(ctx context.Context, term models.TermKey, ref models.SlotRef) (string, error)
}

// SwapSessionService drives the interactive two-step swap flow: pick a
// source slot, pick a target slot, commit both through the assignment store.
// State lives in memory per term; the flow is purely UI-driven and has no
// timeout. Whatever happens on the second pick - success, cancel or a
// validation failure - the session returns to idle.
type SwapSessionService struct {
	store  swapExecutor
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[models.TermKey]*swapState
}

type swapState struct {
	active bool
	source *models.SlotRef
}

// NewSwapSessionService constructs the swap session coordinator.
func NewSwapSessionService(store swapExecutor, logger *zap.Logger) *SwapSessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwapSessionService{
		store:    store,
		logger:   logger,
		sessions: make(map[models.TermKey]*swapState),
	}
}

// State reports the current swap session for a term.
func (s *SwapSessionService) State(term models.TermKey) dto.SwapSessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.sessions[term]
	if state == nil {
		return dto.SwapSessionState{Term: term}
	}
	return dto.SwapSessionState{Term: term, Active: state.active, Source: state.source}
}

// Toggle switches swap mode on or off. Toggling off from any state clears a
// pending source selection.
func (s *SwapSessionService) Toggle(term models.TermKey, enabled bool) (dto.SwapSessionState, error) {
	if !term.Valid() {
		return dto.SwapSessionState{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown term %q", term))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.sessions[term]
	if state == nil {
		state = &swapState{}
		s.sessions[term] = state
	}
	state.active = enabled
	if !enabled {
		state.source = nil
	}
	return dto.SwapSessionState{Term: term, Active: state.active, Source: state.source}, nil
}

// Select handles one slot click. The first click on a non-empty slot becomes
// the source; clicking the same slot again cancels; clicking a different
// slot attempts the swap. On a validation failure the pending selection is
// cleared and the error is surfaced, with the store untouched.
func (s *SwapSessionService) Select(ctx context.Context, term models.TermKey, slot models.SlotRef) (dto.SwapSessionState, error) {
	if !term.Valid() {
		return dto.SwapSessionState{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown term %q", term))
	}

	s.mu.Lock()
	state := s.sessions[term]
	if state == nil || !state.active {
		s.mu.Unlock()
		return dto.SwapSessionState{Term: term}, appErrors.Clone(appErrors.ErrPreconditionFailed, "swap mode is not active")
	}

	if state.source == nil {
		s.mu.Unlock()
		value, err := s.store.SlotValue(ctx, term, slot)
		if err != nil {
			return dto.SwapSessionState{Term: term, Active: true}, err
		}
		if value == "" {
			return dto.SwapSessionState{Term: term, Active: true}, appErrors.Clone(appErrors.ErrValidation, "select an occupied slot as the swap source")
		}
		s.mu.Lock()
		state.source = &slot
		s.mu.Unlock()
		return dto.SwapSessionState{Term: term, Active: true, Source: &slot}, nil
	}

	source := *state.source
	state.source = nil
	s.mu.Unlock()

	if source == slot {
		return dto.SwapSessionState{Term: term, Active: true}, nil
	}

	if err := s.store.SwapSlots(ctx, term, source, slot); err != nil {
		s.logger.Info("swap rejected",
			zap.String("term", string(term)),
			zap.String("reason", err.Error()),
		)
		return dto.SwapSessionState{Term: term, Active: true}, err
	}
	return dto.SwapSessionState{Term: term, Active: true, Swapped: true}, nil
}

// Cancel clears any pending source selection without leaving swap mode.
func (s *SwapSessionService) Cancel(term models.TermKey) dto.SwapSessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.sessions[term]
	if state == nil {
		return dto.SwapSessionState{Term: term}
	}
	state.source = nil
	return dto.SwapSessionState{Term: term, Active: state.active}
}
