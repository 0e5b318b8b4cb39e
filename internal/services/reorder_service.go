package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/learnhub/curriculum/internal/models"
	"github.com/learnhub/curriculum/internal/ordering"
	"go.uber.org/zap"
)

// OrderedRelation is the interface that wraps position access for one ordered parent/child relation
type OrderedRelation interface {
	// Method Kind return the relation this adapter orders.
	Kind() models.RelationKind
	// Method ListOrdered retrieve the members of a scope with their stored positions.
	//
	// The result is sorted by position then id. Positions may be outside 0..n-1
	// when an earlier reorder was interrupted.
	ListOrdered(ctx context.Context, scopeID int) ([]models.OrderedMember, error)
	// Method SetPositions write positions for members of a scope, one row per statement, in order.
	//
	// Writing stops at the first failure and earlier writes are kept.
	// A member that is not part of the scope fails with an error wrapping models.ErrNotFound.
	SetPositions(ctx context.Context, scopeID int, positions []models.PositionAssignment) error
	// Method NextPosition return max(position)+1 of the scope ignoring quarantine values, 0 for an empty scope.
	NextPosition(ctx context.Context, scopeID int) (int, error)
}

// ReorderOptions configures failure handling and reconciliation of reorders
type ReorderOptions struct {
	// Compensate restores the previous positions after a failed write
	Compensate bool
	// Reconcile re-reads the scope after a successful reorder
	Reconcile bool
	// ReconcileDelay is waited before reconciling
	ReconcileDelay time.Duration
}

type scopeKey struct {
	kind    models.RelationKind
	scopeID int
}

// scopeState is the coordinator's view of one scope.
// known is the last order confirmed by the store, working the order shown while saving.
type scopeState struct {
	known   []int
	working []int
	saving  bool
	err     *string
}

type reorderService struct {
	relations map[models.RelationKind]OrderedRelation
	cache     TreeCache
	opts      ReorderOptions
	logger    *zap.Logger

	mu     sync.Mutex
	scopes map[scopeKey]*scopeState
}

// NewReorderService creates a new reorder coordinator over the given relations.
// "cache" may be nil.
func NewReorderService(relations []OrderedRelation, cache TreeCache, opts ReorderOptions, logger *zap.Logger) *reorderService {
	return &reorderService{
		relations: relationMap(relations),
		cache:     cache,
		opts:      opts,
		logger:    logger,
		scopes:    make(map[scopeKey]*scopeState),
	}
}

// Reorder applies a completed drag within one scope.
//
// The dragged member takes the index of the member it was dropped on and the scope
// is written back densely as 0..n-1. A nil event or a drop onto itself changes nothing.
//
// Validation failures return *models.ValidationError before anything is written.
// Another reorder of the same scope still saving returns models.ErrReorderInProgress.
// Write failures return *models.PersistenceError; the previous order is then restored
// in the coordinator's view and, when enabled, in the store.
func (s *reorderService) Reorder(ctx context.Context, kind models.RelationKind, scopeID int, event *models.DragEvent) (*models.ReorderResult, error) {
	relation, ok := s.relations[kind]
	if !ok {
		return nil, models.NewValidationError("unknown relation %q", kind)
	}

	result := &models.ReorderResult{Kind: kind, ScopeID: scopeID}
	if event == nil {
		return result, nil
	}

	if err := validateDragTypes(kind, event); err != nil {
		return nil, err
	}
	if event.ActiveID == event.OverID {
		return result, nil
	}

	key := scopeKey{kind: kind, scopeID: scopeID}
	state, err := s.acquire(key)
	if err != nil {
		return nil, err
	}
	defer s.release(key)

	members, err := relation.ListOrdered(ctx, scopeID)
	if err != nil {
		s.logger.Error("failed to read scope for reorder", zap.Error(err), zap.String("kind", string(kind)), zap.Int("scope_id", scopeID))
		return nil, &models.PersistenceError{Op: "read " + string(kind), Err: err}
	}
	ordering.Sort(members)
	current := ordering.IDs(members)

	next, err := ordering.Move(current, event.ActiveID, event.OverID)
	if errors.Is(err, ordering.ErrMemberNotInScope) {
		return nil, models.NewValidationError("%s %d and %s %d must both belong to %s %d",
			event.ActiveType, event.ActiveID, event.OverType, event.OverID, kind.ScopeType(), scopeID)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	state.known = current
	state.err = nil
	s.mu.Unlock()

	if !ordering.Changed(current, next) {
		return result, nil
	}

	s.mu.Lock()
	state.working = slices.Clone(next)
	s.mu.Unlock()

	base := ordering.QuarantineBase(members)
	if err := s.persist(ctx, relation, scopeID, next, base); err != nil {
		s.rollback(ctx, relation, key, state, members, base+len(next), err)
		return nil, err
	}

	s.mu.Lock()
	state.known = slices.Clone(next)
	s.mu.Unlock()
	s.invalidate(ctx)

	s.logger.Info("scope reordered",
		zap.String("kind", string(kind)),
		zap.Int("scope_id", scopeID),
		zap.Int("moved_id", event.ActiveID),
		zap.Int("over_id", event.OverID),
	)

	if s.opts.Reconcile {
		s.reconcile(ctx, relation, key, state)
	}

	result.Changed = true
	result.Order = ordering.Renumber(next)
	return result, nil
}

// persist writes the new order in two passes.
// Every member is first moved to base+i, above any position held in the scope, and only
// then to its final dense position, so no write collides with a position still in use.
func (s *reorderService) persist(ctx context.Context, relation OrderedRelation, scopeID int, order []int, base int) error {
	op := string(relation.Kind())

	if err := relation.SetPositions(ctx, scopeID, ordering.Quarantine(order, base)); err != nil {
		s.logger.Error("reorder quarantine phase failed", zap.Error(err), zap.String("kind", op), zap.Int("scope_id", scopeID))
		return &models.PersistenceError{Phase: models.PhaseQuarantine, Op: op, Err: err}
	}

	if err := relation.SetPositions(ctx, scopeID, ordering.Renumber(order)); err != nil {
		s.logger.Error("reorder final phase failed", zap.Error(err), zap.String("kind", op), zap.Int("scope_id", scopeID))
		return &models.PersistenceError{Phase: models.PhaseFinal, Op: op, Err: err}
	}

	return nil
}

// rollback restores the last known order in the view and, if enabled, in the store.
// A failing restore is logged and never replaces the original error.
func (s *reorderService) rollback(ctx context.Context, relation OrderedRelation, key scopeKey, state *scopeState, snapshot []models.OrderedMember, usedUpTo int, cause error) {
	message := cause.Error()
	// The restore must run even when the request that failed was cancelled
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	state.working = slices.Clone(state.known)
	state.err = &message
	known := slices.Clone(state.known)
	s.mu.Unlock()

	if s.opts.Compensate {
		base := max(ordering.QuarantineBase(snapshot), usedUpTo)
		if err := s.persist(ctx, relation, key.scopeID, known, base); err != nil {
			s.logger.Error("failed to restore previous order",
				zap.Error(err),
				zap.String("kind", string(key.kind)),
				zap.Int("scope_id", key.scopeID),
			)
		}
	}

	s.invalidate(ctx)
}

// reconcile replaces the coordinator's view with what the store holds
func (s *reorderService) reconcile(ctx context.Context, relation OrderedRelation, key scopeKey, state *scopeState) {
	if s.opts.ReconcileDelay > 0 {
		timer := time.NewTimer(s.opts.ReconcileDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	members, err := relation.ListOrdered(ctx, key.scopeID)
	if err != nil {
		s.logger.Warn("failed to reconcile scope", zap.Error(err), zap.String("kind", string(key.kind)), zap.Int("scope_id", key.scopeID))
		return
	}
	ordering.Sort(members)
	ids := ordering.IDs(members)

	s.mu.Lock()
	state.known = ids
	state.working = slices.Clone(ids)
	s.mu.Unlock()
}

// Status returns the display state of a scope
func (s *reorderService) Status(kind models.RelationKind, scopeID int) models.ReorderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.scopes[scopeKey{kind: kind, scopeID: scopeID}]
	if !ok {
		return models.ReorderStatus{}
	}

	status := models.ReorderStatus{
		Saving: state.saving,
		Order:  slices.Clone(state.working),
	}
	if state.err != nil {
		message := *state.err
		status.Error = &message
	}
	return status
}

func (s *reorderService) acquire(key scopeKey) (*scopeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.scopes[key]
	if !ok {
		state = &scopeState{}
		s.scopes[key] = state
	}
	if state.saving {
		return nil, models.ErrReorderInProgress
	}
	state.saving = true
	return state, nil
}

func (s *reorderService) release(key scopeKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.scopes[key]; ok {
		state.saving = false
	}
}

func (s *reorderService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate tree cache", zap.Error(err))
	}
}

// validateDragTypes rejects drags between different node types and drags of unorderable nodes
func validateDragTypes(kind models.RelationKind, event *models.DragEvent) error {
	member := kind.MemberType()
	for _, t := range []models.NodeType{event.ActiveType, event.OverType} {
		switch t {
		case models.NodeTypeCourse, models.NodeTypeTest:
			return models.NewValidationError("%s items cannot be reordered", t)
		}
	}
	if event.ActiveType != event.OverType {
		return models.NewValidationError("cannot move %s onto %s", event.ActiveType, event.OverType)
	}
	if event.ActiveType != member {
		return models.NewValidationError("%s items cannot be reordered within %s", event.ActiveType, kind)
	}
	return nil
}

func relationMap(relations []OrderedRelation) map[models.RelationKind]OrderedRelation {
	m := make(map[models.RelationKind]OrderedRelation, len(relations))
	for _, r := range relations {
		m[r.Kind()] = r
	}
	return m
}
