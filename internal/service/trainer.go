package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultTrainerInterval = 1 * time.Hour
	defaultTrainerGames    = 100
)

// TrainerService periodically plays every learning agent against a random
// opponent so stored beliefs keep adapting between requests.
type TrainerService struct {
	agents domain.AgentStore
	sim    *SimulationService
	logger *zap.Logger

	interval time.Duration
	games    int
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewTrainerService(as domain.AgentStore, sim *SimulationService, logger *zap.Logger) *TrainerService {
	return &TrainerService{
		agents:   as,
		sim:      sim,
		logger:   logger,
		interval: defaultTrainerInterval,
		games:    defaultTrainerGames,
		stopCh:   make(chan struct{}),
	}
}

func (s *TrainerService) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *TrainerService) SetGames(n int) {
	s.games = n
}

// Start runs the trainer on a periodic schedule in a background goroutine.
func (s *TrainerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("belief trainer started",
			zap.Duration("interval", s.interval),
			zap.Int("games", s.games))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := s.RunAll(ctx); err != nil {
					s.logger.Error("belief trainer run failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("belief trainer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the trainer.
func (s *TrainerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// RunAll trains every learning agent once. Per-agent failures are logged and
// skipped.
func (s *TrainerService) RunAll(ctx context.Context) error {
	learners, err := s.agents.ListLearners(ctx)
	if err != nil {
		return err
	}

	for _, a := range learners {
		if err := ctx.Err(); err != nil {
			return err
		}
		tally, err := s.sim.Train(ctx, &a, s.games)
		if err != nil {
			s.logger.Warn("training failed for agent",
				zap.String("agent_id", a.ID.String()),
				zap.Error(err))
			continue
		}
		s.logger.Debug("agent trained",
			zap.String("agent_id", a.ID.String()),
			zap.Int("games", tally.Games),
			zap.Float64("win_rate", tally.WinRate(domain.SeatOne)))
	}

	return nil
}
