package domain

import (
	"context"

	"github.com/google/uuid"
)

type AgentStore interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	GetByExternalID(ctx context.Context, externalID string) (*Agent, error)
	List(ctx context.Context, limit int) ([]Agent, error)
	ListLearners(ctx context.Context) ([]Agent, error)
}

// BeliefStore keeps the latest overall belief per agent and order.
type BeliefStore interface {
	Upsert(ctx context.Context, s *BeliefSnapshot) error
	GetByAgent(ctx context.Context, agentID uuid.UUID) ([]BeliefSnapshot, error)
	FindSimilar(ctx context.Context, order Order, d BeliefDistribution, excludeAgentID uuid.UUID, limit int) ([]SnapshotWithDistance, error)
}

type MatchStore interface {
	Create(ctx context.Context, m *Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*Match, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]Match, error)
}
