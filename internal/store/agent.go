package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentStore struct {
	db *pgxpool.Pool
}

func NewAgentStore(db *pgxpool.Pool) *AgentStore {
	return &AgentStore{db: db}
}

const agentColumns = `id, external_id, name, kind, learning_rate, confidence, decision_order, metadata, created_at, updated_at`

func (s *AgentStore) Create(ctx context.Context, a *domain.Agent) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO agents (external_id, name, kind, learning_rate, confidence, decision_order, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		a.ExternalID, a.Name, string(a.Kind), a.LearningRate, a.Confidence, a.DecisionOrder.String(), a.Metadata,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *AgentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	return s.getOne(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
}

func (s *AgentStore) GetByExternalID(ctx context.Context, externalID string) (*domain.Agent, error) {
	return s.getOne(ctx, `SELECT `+agentColumns+` FROM agents WHERE external_id = $1`, externalID)
}

func (s *AgentStore) getOne(ctx context.Context, query string, arg any) (*domain.Agent, error) {
	a, err := scanAgent(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AgentStore) List(ctx context.Context, limit int) ([]domain.Agent, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+agentColumns+` FROM agents ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return collectAgents(rows)
}

// ListLearners returns every agent whose kind keeps beliefs.
func (s *AgentStore) ListLearners(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE kind = ANY($1) ORDER BY created_at`,
		[]string{string(domain.KindZeroOrder), string(domain.KindFirstOrder)})
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	return collectAgents(rows)
}

func collectAgents(rows pgx.Rows) ([]domain.Agent, error) {
	defer rows.Close()

	var out []domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agent rows: %w", err)
	}
	return out, nil
}

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	a := &domain.Agent{}
	var kind, order string
	err := row.Scan(&a.ID, &a.ExternalID, &a.Name, &kind, &a.LearningRate, &a.Confidence, &order, &a.Metadata, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Kind = domain.AgentKind(kind)
	if a.DecisionOrder, err = domain.ParseOrder(order); err != nil {
		return nil, err
	}
	return a, nil
}
