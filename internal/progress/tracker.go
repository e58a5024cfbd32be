package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/civica/civica/internal/content"
)

// TrackerConfig holds dependencies for the tracker.
type TrackerConfig struct {
	Store  Store
	Key    string      // storage key (default DefaultKey)
	Events EventLogger // optional
}

// Tracker owns the progress record. Callers hold only copies of it.
type Tracker struct {
	store  Store
	key    string
	events EventLogger
}

// NewTracker creates a tracker. A nil store falls back to an in-memory store.
func NewTracker(cfg TrackerConfig) *Tracker {
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	return &Tracker{
		store:  store,
		key:    key,
		events: events,
	}
}

// Key returns the storage key this tracker reads and writes.
func (t *Tracker) Key() string {
	return t.key
}

// Ping checks that the backing store is reachable.
func (t *Tracker) Ping(ctx context.Context) error {
	return t.store.Ping(ctx)
}

// Progress reads the stored record. A missing record yields defaults and no error;
// an unreadable or corrupt record yields defaults and the cause.
func (t *Tracker) Progress(ctx context.Context) (UserProgress, error) {
	data, err := t.store.Get(ctx, t.key)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("reading progress: %w", err)
	}
	return decodeProgress(data)
}

// LoadProgress is Progress for callers that only need something to display.
func (t *Tracker) LoadProgress(ctx context.Context) UserProgress {
	p, err := t.Progress(ctx)
	if err != nil {
		slog.Warn("progress unavailable, using defaults", "key", t.key, "error", err)
	}
	return p
}

// SaveProgress overwrites the stored record.
func (t *Tracker) SaveProgress(ctx context.Context, p UserProgress) error {
	data, err := encodeProgress(p)
	if err != nil {
		return err
	}
	if err := t.store.Put(ctx, t.key, data); err != nil {
		slog.Error("failed to save progress", "key", t.key, "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// RecordSimulationResult folds a finished simulation run into the record. Totals and
// XP accumulate across attempts; the simulation's score is replaced by the latest.
//
// When the store fails, the returned record is still the correctly updated one and
// the error wraps ErrNotPersisted.
func (t *Tracker) RecordSimulationResult(ctx context.Context, st content.SimulationType, correct, total int) (UserProgress, error) {
	if !st.Valid() {
		return UserProgress{}, fmt.Errorf("%w: %w: %q", ErrInvalidArgument, content.ErrInvalidType, string(st))
	}
	if err := ValidateTally(correct, total); err != nil {
		return UserProgress{}, err
	}

	p, err := t.update(ctx, func(p *UserProgress) {
		p.applySimulation(st, correct, total)
	})
	if err != nil {
		return p, err
	}

	t.logEvent(EventSimulationCompleted, map[string]any{
		"simulation": string(st),
		"correct":    correct,
		"total":      total,
		"percent":    Percent(correct, total),
		"xp_earned":  SimulationXP(correct),
	})
	return p, nil
}

// RecordCitizenQuizResult folds a finished citizen quiz run into the record and
// recomputes the badge from this run's percentage.
func (t *Tracker) RecordCitizenQuizResult(ctx context.Context, correct, total int) (UserProgress, error) {
	if err := ValidateTally(correct, total); err != nil {
		return UserProgress{}, err
	}

	p, err := t.update(ctx, func(p *UserProgress) {
		p.applyCitizenQuiz(correct, total)
	})
	if err != nil {
		return p, err
	}

	t.logEvent(EventCitizenQuizCompleted, map[string]any{
		"correct":   correct,
		"total":     total,
		"percent":   p.CitizenQuizScore,
		"badge":     string(p.CitizenBadge),
		"xp_earned": CitizenQuizXP(correct),
	})
	return p, nil
}

// ResetProgress deletes the stored record.
func (t *Tracker) ResetProgress(ctx context.Context) error {
	if err := t.store.Delete(ctx, t.key); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("failed to reset progress", "key", t.key, "error", err)
		return fmt.Errorf("resetting progress: %w", err)
	}
	t.logEvent(EventProgressReset, nil)
	return nil
}

func (t *Tracker) update(ctx context.Context, apply func(*UserProgress)) (UserProgress, error) {
	var (
		updated UserProgress
		applied bool
	)
	err := t.store.Update(ctx, t.key, func(current []byte, found bool) ([]byte, error) {
		p := Defaults()
		if found {
			var err error
			if p, err = decodeProgress(current); err != nil {
				slog.Warn("stored progress is corrupt, starting from defaults", "key", t.key, "error", err)
			}
		}
		apply(&p)
		updated, applied = p, true
		return encodeProgress(p)
	})
	if err != nil {
		// The record could not be read or written. Report what the update would
		// have produced from the state that was visible.
		if !applied {
			updated = Defaults()
			apply(&updated)
		}
		slog.Error("failed to persist progress", "key", t.key, "error", err)
		return updated, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return updated, nil
}

func (t *Tracker) logEvent(eventType string, data map[string]any) {
	if err := t.events.LogEvent(Event{
		ProgressKey: t.key,
		EventType:   eventType,
		Data:        data,
	}); err != nil {
		slog.Warn("failed to log progress event", "type", eventType, "error", err)
	}
}
