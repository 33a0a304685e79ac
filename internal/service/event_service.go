package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EvaluationEvent is broadcast after an evaluation record has been persisted.
type EvaluationEvent struct {
	TestID        uint      `json:"test_id"`
	UserID        uint      `json:"user_id"`
	CompleteScore float64   `json:"complete_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// EvaluationEvents publishes evaluation lifecycle events on NATS. The
// publisher is optional: with no connection configured every publish is a
// no-op, so the pipeline never depends on the broker being up.
type EvaluationEvents struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewEvaluationEvents constructs the publisher.
func NewEvaluationEvents(conn *nats.Conn, subject string, logger zerolog.Logger) *EvaluationEvents {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "psycheck.evaluations"
	}

	return &EvaluationEvents{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "evaluation_events").Logger(),
	}
}

// Publish emits the event. Failures are logged and swallowed: events are a
// side channel, never part of the evaluation contract.
func (e *EvaluationEvents) Publish(event EvaluationEvent) {
	if e == nil || e.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to encode evaluation event")
		return
	}

	if err := e.conn.Publish(e.subject, payload); err != nil {
		e.logger.Warn().Err(err).Uint("test_id", event.TestID).Msg("failed to publish evaluation event")
	}
}
