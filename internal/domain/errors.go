package domain

import (
	"errors"
	"math"
)

var (
	ErrLearningRateRange = errors.New("learning rate must be within [0, 1]")
	ErrConfidenceRange   = errors.New("confidence level must be within [0, 1]")
	ErrUnknownAgentKind  = errors.New("unknown agent kind")
	ErrInvalidSeat       = errors.New("seat must be 1 or 2")
	ErrInvalidOrder      = errors.New("decision order not supported by agent kind")
	ErrInvalidPosition   = errors.New("invalid position")
)

// ValidateRate checks a learning rate precondition.
func ValidateRate(learningRate float64) error {
	if math.IsNaN(learningRate) || learningRate < 0 || learningRate > 1 {
		return ErrLearningRateRange
	}
	return nil
}

// ValidateConfidence checks a confidence level precondition.
func ValidateConfidence(confidence float64) error {
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return ErrConfidenceRange
	}
	return nil
}
