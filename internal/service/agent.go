package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrAgentConflict = errors.New("agent with this external_id already exists")
	ErrInvalidAgent  = errors.New("invalid agent")
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// AgentDefaults fills parameters a new profile leaves unset.
type AgentDefaults struct {
	LearningRate float64
	Confidence   float64
}

type AgentService struct {
	store    domain.AgentStore
	defaults AgentDefaults
	logger   *zap.Logger
}

func NewAgentService(s domain.AgentStore, defaults AgentDefaults, logger *zap.Logger) *AgentService {
	return &AgentService{store: s, defaults: defaults, logger: logger}
}

func (s *AgentService) Defaults() AgentDefaults {
	return s.defaults
}

func (s *AgentService) Create(ctx context.Context, a *domain.Agent) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAgent, err)
	}
	err := s.store.Create(ctx, a)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrAgentConflict
		}
		return err
	}
	s.logger.Info("agent created",
		zap.String("agent_id", a.ID.String()),
		zap.String("kind", string(a.Kind)),
		zap.Float64("learning_rate", a.LearningRate),
	)
	return nil
}

func (s *AgentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AgentService) List(ctx context.Context, limit int) ([]domain.Agent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	return s.store.List(ctx, limit)
}
