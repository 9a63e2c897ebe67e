package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// BeliefStore persists the latest overall belief of each agent per order as a
// vector(16), card-major.
type BeliefStore struct {
	db *pgxpool.Pool
}

func NewBeliefStore(db *pgxpool.Pool) *BeliefStore {
	return &BeliefStore{db: db}
}

func (s *BeliefStore) Upsert(ctx context.Context, b *domain.BeliefSnapshot) error {
	vec := pgvector.NewVector(b.Distribution.Vector())
	return s.db.QueryRow(ctx,
		`INSERT INTO belief_snapshots (agent_id, belief_order, distribution, confidence, games_played, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (agent_id, belief_order) DO UPDATE
		 SET distribution = EXCLUDED.distribution,
		     confidence = EXCLUDED.confidence,
		     games_played = EXCLUDED.games_played,
		     updated_at = NOW()
		 RETURNING updated_at`,
		b.AgentID, b.Order.String(), vec, b.Confidence, b.GamesPlayed,
	).Scan(&b.UpdatedAt)
}

func (s *BeliefStore) GetByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.BeliefSnapshot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT agent_id, belief_order, distribution::real[], confidence, games_played, updated_at
		 FROM belief_snapshots WHERE agent_id = $1 ORDER BY belief_order DESC`,
		agentID,
	)
	if err != nil {
		return nil, fmt.Errorf("get beliefs: %w", err)
	}
	defer rows.Close()

	var out []domain.BeliefSnapshot
	for rows.Next() {
		var b domain.BeliefSnapshot
		if err := scanSnapshot(rows, &b); err != nil {
			return nil, fmt.Errorf("scan belief row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("belief rows: %w", err)
	}
	return out, nil
}

// FindSimilar returns the snapshots of other agents for the same order whose
// distributions are nearest to d by Euclidean distance.
func (s *BeliefStore) FindSimilar(ctx context.Context, order domain.Order, d domain.BeliefDistribution, excludeAgentID uuid.UUID, limit int) ([]domain.SnapshotWithDistance, error) {
	vec := pgvector.NewVector(d.Vector())
	rows, err := s.db.Query(ctx,
		`SELECT agent_id, belief_order, distribution::real[], confidence, games_played, updated_at,
		        (distribution <-> $1)::real AS distance
		 FROM belief_snapshots
		 WHERE belief_order = $2 AND agent_id <> $3
		 ORDER BY distance
		 LIMIT $4`,
		vec, order.String(), excludeAgentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find similar beliefs: %w", err)
	}
	defer rows.Close()

	var out []domain.SnapshotWithDistance
	for rows.Next() {
		var sd domain.SnapshotWithDistance
		if err := scanSnapshot(rows, &sd.BeliefSnapshot, &sd.Distance); err != nil {
			return nil, fmt.Errorf("scan similar belief row: %w", err)
		}
		out = append(out, sd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similar belief rows: %w", err)
	}
	return out, nil
}

func scanSnapshot(row pgx.Row, b *domain.BeliefSnapshot, extra ...any) error {
	var order string
	var vec []float32
	dest := append([]any{&b.AgentID, &order, &vec, &b.Confidence, &b.GamesPlayed, &b.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	var err error
	if b.Order, err = domain.ParseOrder(order); err != nil {
		return err
	}
	b.Distribution, err = domain.DistributionFromVector(vec)
	return err
}
