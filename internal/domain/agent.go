package domain

import (
	"time"

	"github.com/google/uuid"
)

// AgentKind names a decision strategy.
type AgentKind string

const (
	KindRandom      AgentKind = "random"
	KindFixedAction AgentKind = "fixed_action"
	KindLevenshtein AgentKind = "levenshtein"
	KindZeroOrder   AgentKind = "zero_order"
	KindFirstOrder  AgentKind = "first_order"
)

func (k AgentKind) Valid() bool {
	switch k {
	case KindRandom, KindFixedAction, KindLevenshtein, KindZeroOrder, KindFirstOrder:
		return true
	}
	return false
}

// Learns reports whether agents of this kind keep belief distributions.
func (k AgentKind) Learns() bool {
	return k == KindZeroOrder || k == KindFirstOrder
}

// Agent is a stored agent profile. Seats are assigned per match.
type Agent struct {
	ID            uuid.UUID      `json:"id"`
	ExternalID    string         `json:"external_id"`
	Name          string         `json:"name"`
	Kind          AgentKind      `json:"kind"`
	LearningRate  float64        `json:"learning_rate"`
	Confidence    float64        `json:"confidence"`
	DecisionOrder Order          `json:"decision_order"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Validate checks the profile's preconditions. Out-of-range parameters are
// rejected, never clamped.
func (a *Agent) Validate() error {
	if !a.Kind.Valid() {
		return ErrUnknownAgentKind
	}
	if err := ValidateRate(a.LearningRate); err != nil {
		return err
	}
	if err := ValidateConfidence(a.Confidence); err != nil {
		return err
	}
	if a.Kind != KindFirstOrder && a.DecisionOrder != ZeroOrder {
		return ErrInvalidOrder
	}
	return nil
}
