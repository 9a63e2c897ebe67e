package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchStore struct {
	db *pgxpool.Pool
}

func NewMatchStore(db *pgxpool.Pool) *MatchStore {
	return &MatchStore{db: db}
}

const matchColumns = `id, agent_one_id, agent_two_id, mode, games, seat_one_wins, seat_two_wins, draws, created_at`

func (s *MatchStore) Create(ctx context.Context, m *domain.Match) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO matches (agent_one_id, agent_two_id, mode, games, seat_one_wins, seat_two_wins, draws)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		m.AgentOneID, m.AgentTwoID, string(m.Mode), m.Tally.Games, m.Tally.Wins[0], m.Tally.Wins[1], m.Tally.Draws,
	).Scan(&m.ID, &m.CreatedAt)
}

func (s *MatchStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	m, err := scanMatch(s.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *MatchStore) ListByAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]domain.Match, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+matchColumns+` FROM matches
		 WHERE agent_one_id = $1 OR agent_two_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		agentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("match rows: %w", err)
	}
	return out, nil
}

func scanMatch(row pgx.Row) (*domain.Match, error) {
	m := &domain.Match{}
	var mode string
	err := row.Scan(&m.ID, &m.AgentOneID, &m.AgentTwoID, &mode,
		&m.Tally.Games, &m.Tally.Wins[0], &m.Tally.Wins[1], &m.Tally.Draws, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Mode = domain.GameMode(mode)
	return m, nil
}
