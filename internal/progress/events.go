package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Event types emitted by the tracker.
const (
	EventSimulationCompleted  = "simulation_completed"
	EventCitizenQuizCompleted = "citizen_quiz_completed"
	EventProgressReset        = "progress_reset"
)

// Event is an analytics record of a progress change.
type Event struct {
	ProgressKey string
	EventType   string
	Data        map[string]any
	CreatedAt   time.Time
}

// EventLogger records progress events. Loggers must not block the tracker for long;
// failures are logged and otherwise ignored.
type EventLogger interface {
	LogEvent(event Event) error
}

// NopEventLogger discards events. It is the tracker's default.
type NopEventLogger struct{}

func (NopEventLogger) LogEvent(Event) error { return nil }

// MemoryEventLogger keeps events in memory, grouped by progress key.
type MemoryEventLogger struct {
	mu    sync.Mutex
	order []Event
	byKey map[string][]Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{byKey: make(map[string][]Event)}
}

func (l *MemoryEventLogger) LogEvent(event Event) error {
	event, err := prepareEvent(event)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, event)
	l.byKey[event.ProgressKey] = append(l.byKey[event.ProgressKey], event)
	return nil
}

// Events returns every event in the order it was logged.
func (l *MemoryEventLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.order)
}

// EventsFor returns the events logged for one progress record.
func (l *MemoryEventLogger) EventsFor(progressKey string) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.byKey[progressKey])
}

// prepareEvent checks the fields every logger needs and stamps a missing time.
func prepareEvent(event Event) (Event, error) {
	switch {
	case event.ProgressKey == "":
		return event, fmt.Errorf("event for %q has no progress key", event.EventType)
	case event.EventType == "":
		return event, fmt.Errorf("event for %q has no type", event.ProgressKey)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return event, nil
}

// PostgresEventLogger inserts events into the progress_events table created by
// NewPostgresStore.
type PostgresEventLogger struct {
	pool *pgxpool.Pool
}

func NewPostgresEventLogger(pool *pgxpool.Pool) *PostgresEventLogger {
	return &PostgresEventLogger{pool: pool}
}

func (l *PostgresEventLogger) LogEvent(event Event) error {
	if l == nil || l.pool == nil {
		return fmt.Errorf("progress event logger has no pool")
	}
	event, err := prepareEvent(event)
	if err != nil {
		return err
	}

	payload := event.Data
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if _, err := l.pool.Exec(ctx,
		`INSERT INTO progress_events (progress_key, event_type, data, created_at)
		 VALUES ($1, $2, $3::jsonb, $4)`,
		event.ProgressKey,
		event.EventType,
		string(data),
		event.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	slog.Debug("event logged",
		"type", event.EventType,
		"progress_key", event.ProgressKey,
	)
	return nil
}
