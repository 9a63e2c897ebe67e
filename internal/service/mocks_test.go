package service

import (
	"context"
	"slices"
	"sync"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockAgentStore implements domain.AgentStore for testing.
type mockAgentStore struct {
	mu     sync.Mutex
	agents map[uuid.UUID]*domain.Agent
	order  []uuid.UUID
}

func newMockAgentStore() *mockAgentStore {
	return &mockAgentStore{agents: make(map[uuid.UUID]*domain.Agent)}
}

func (m *mockAgentStore) Create(ctx context.Context, a *domain.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.agents {
		if existing.ExternalID == a.ExternalID {
			return store.ErrConflict
		}
	}
	a.ID = uuid.New()
	m.agents[a.ID] = a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockAgentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (m *mockAgentStore) GetByExternalID(ctx context.Context, externalID string) (*domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.agents {
		if a.ExternalID == externalID {
			return a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockAgentStore) List(ctx context.Context, limit int) ([]domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Agent
	for _, id := range m.order {
		if len(out) == limit {
			break
		}
		out = append(out, *m.agents[id])
	}
	return out, nil
}

func (m *mockAgentStore) ListLearners(ctx context.Context) ([]domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Agent
	for _, id := range m.order {
		if a := m.agents[id]; a.Kind.Learns() {
			out = append(out, *a)
		}
	}
	return out, nil
}

type beliefKey struct {
	agent uuid.UUID
	order domain.Order
}

// mockBeliefStore implements domain.BeliefStore for testing.
type mockBeliefStore struct {
	mu      sync.Mutex
	beliefs map[beliefKey]domain.BeliefSnapshot
	upserts int
}

func newMockBeliefStore() *mockBeliefStore {
	return &mockBeliefStore{beliefs: make(map[beliefKey]domain.BeliefSnapshot)}
}

func (m *mockBeliefStore) Upsert(ctx context.Context, s *domain.BeliefSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beliefs[beliefKey{s.AgentID, s.Order}] = *s
	m.upserts++
	return nil
}

func (m *mockBeliefStore) GetByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.BeliefSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BeliefSnapshot
	for _, o := range []domain.Order{domain.ZeroOrder, domain.FirstOrder} {
		if s, ok := m.beliefs[beliefKey{agentID, o}]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockBeliefStore) FindSimilar(ctx context.Context, order domain.Order, d domain.BeliefDistribution, excludeAgentID uuid.UUID, limit int) ([]domain.SnapshotWithDistance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := d.Vector()
	var out []domain.SnapshotWithDistance
	for k, s := range m.beliefs {
		if k.order != order || k.agent == excludeAgentID {
			continue
		}
		var dist float64
		for i, v := range s.Distribution.Vector() {
			diff := float64(v) - float64(target[i])
			dist += diff * diff
		}
		out = append(out, domain.SnapshotWithDistance{BeliefSnapshot: s, Distance: float32(dist)})
	}
	slices.SortFunc(out, func(a, b domain.SnapshotWithDistance) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockMatchStore implements domain.MatchStore for testing.
type mockMatchStore struct {
	mu      sync.Mutex
	matches []domain.Match
}

func (m *mockMatchStore) Create(ctx context.Context, match *domain.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	match.ID = uuid.New()
	m.matches = append(m.matches, *match)
	return nil
}

func (m *mockMatchStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.matches {
		if m.matches[i].ID == id {
			match := m.matches[i]
			return &match, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockMatchStore) ListByAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Match
	for i := len(m.matches) - 1; i >= 0 && len(out) < limit; i-- {
		if m.matches[i].AgentOneID == agentID || m.matches[i].AgentTwoID == agentID {
			out = append(out, m.matches[i])
		}
	}
	return out, nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
