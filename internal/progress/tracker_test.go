package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/civica/civica/internal/content"
	"github.com/civica/civica/internal/progress"
)

func TestTracker_RecordSimulationResult(t *testing.T) {
	ctx := context.Background()
	tracker := progress.NewTracker(progress.TrackerConfig{})

	p, err := tracker.RecordSimulationResult(ctx, content.SimulationFIR, 4, 5)
	if err != nil {
		t.Fatalf("RecordSimulationResult() error = %v", err)
	}
	if p.TotalXP != 80 || p.TotalCorrect != 4 || p.TotalIncorrect != 1 {
		t.Errorf("totals = %d XP, %d correct, %d incorrect; want 80, 4, 1", p.TotalXP, p.TotalCorrect, p.TotalIncorrect)
	}
	if !p.FIRCompleted || p.FIRScore != 80 {
		t.Errorf("fir = completed %v score %d, want true 80", p.FIRCompleted, p.FIRScore)
	}

	// A repeat overwrites the score but accumulates totals.
	p, err = tracker.RecordSimulationResult(ctx, content.SimulationFIR, 2, 5)
	if err != nil {
		t.Fatalf("RecordSimulationResult() error = %v", err)
	}
	if p.FIRScore != 40 {
		t.Errorf("FIRScore = %d, want 40", p.FIRScore)
	}
	if p.TotalXP != 120 || p.TotalCorrect != 6 || p.TotalIncorrect != 4 {
		t.Errorf("totals = %d XP, %d correct, %d incorrect; want 120, 6, 4", p.TotalXP, p.TotalCorrect, p.TotalIncorrect)
	}

	// The stored record matches what was returned.
	if got := tracker.LoadProgress(ctx); got != p {
		t.Errorf("LoadProgress() = %+v, want %+v", got, p)
	}
}

func TestTracker_RecordSimulationResult_PerType(t *testing.T) {
	ctx := context.Background()

	for _, st := range content.SimulationTypes {
		t.Run(st.String(), func(t *testing.T) {
			tracker := progress.NewTracker(progress.TrackerConfig{})
			p, err := tracker.RecordSimulationResult(ctx, st, 3, 4)
			if err != nil {
				t.Fatalf("RecordSimulationResult() error = %v", err)
			}
			if !p.SimulationCompleted(st) || p.SimulationScore(st) != 75 {
				t.Errorf("%s = completed %v score %d, want true 75", st, p.SimulationCompleted(st), p.SimulationScore(st))
			}
			for _, other := range content.SimulationTypes {
				if other != st && p.SimulationCompleted(other) {
					t.Errorf("%s should not be completed", other)
				}
			}
		})
	}
}

func TestTracker_RecordCitizenQuizResult(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		correct     int
		wantScore   int
		wantBadge   progress.Badge
		wantXPDelta int
	}{
		{4, 80, progress.BadgeLegalEagle, 60},
		{3, 60, progress.BadgeAwareCitizen, 45},
		{2, 40, progress.BadgeLearner, 30},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantBadge), func(t *testing.T) {
			tracker := progress.NewTracker(progress.TrackerConfig{})
			p, err := tracker.RecordCitizenQuizResult(ctx, tt.correct, 5)
			if err != nil {
				t.Fatalf("RecordCitizenQuizResult() error = %v", err)
			}
			if !p.CitizenQuizCompleted {
				t.Error("CitizenQuizCompleted = false")
			}
			if p.CitizenQuizScore != tt.wantScore {
				t.Errorf("CitizenQuizScore = %d, want %d", p.CitizenQuizScore, tt.wantScore)
			}
			if p.CitizenBadge != tt.wantBadge {
				t.Errorf("CitizenBadge = %q, want %q", p.CitizenBadge, tt.wantBadge)
			}
			if p.TotalXP != tt.wantXPDelta {
				t.Errorf("TotalXP = %d, want %d", p.TotalXP, tt.wantXPDelta)
			}
		})
	}
}

func TestTracker_BadgeRecomputedEachAttempt(t *testing.T) {
	ctx := context.Background()
	tracker := progress.NewTracker(progress.TrackerConfig{})

	if _, err := tracker.RecordCitizenQuizResult(ctx, 5, 5); err != nil {
		t.Fatal(err)
	}
	p, err := tracker.RecordCitizenQuizResult(ctx, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if p.CitizenBadge != progress.BadgeLearner {
		t.Errorf("CitizenBadge = %q, want Learner after a weaker attempt", p.CitizenBadge)
	}
	if p.TotalXP != 90 {
		t.Errorf("TotalXP = %d, want 90", p.TotalXP)
	}
}

func TestTracker_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemoryStore()
	tracker := progress.NewTracker(progress.TrackerConfig{Store: store})

	tests := []struct {
		name string
		call func() error
	}{
		{"unknown simulation", func() error {
			_, err := tracker.RecordSimulationResult(ctx, "bail", 1, 5)
			return err
		}},
		{"zero total", func() error {
			_, err := tracker.RecordSimulationResult(ctx, content.SimulationFIR, 0, 0)
			return err
		}},
		{"correct above total", func() error {
			_, err := tracker.RecordCitizenQuizResult(ctx, 6, 5)
			return err
		}},
		{"negative correct", func() error {
			_, err := tracker.RecordCitizenQuizResult(ctx, -1, 5)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, progress.ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if _, err := store.Get(ctx, progress.DefaultKey); !errors.Is(err, progress.ErrNotFound) {
		t.Errorf("invalid calls should not write a record, Get() error = %v", err)
	}
}

func TestTracker_UnknownSimulationWrapsInvalidType(t *testing.T) {
	tracker := progress.NewTracker(progress.TrackerConfig{})
	_, err := tracker.RecordSimulationResult(context.Background(), "bail", 1, 5)
	if !errors.Is(err, content.ErrInvalidType) {
		t.Errorf("error = %v, want ErrInvalidType", err)
	}
}

func TestTracker_ResetProgress(t *testing.T) {
	ctx := context.Background()
	tracker := progress.NewTracker(progress.TrackerConfig{})

	if _, err := tracker.RecordSimulationResult(ctx, content.SimulationArrest, 5, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := tracker.RecordCitizenQuizResult(ctx, 5, 5); err != nil {
		t.Fatal(err)
	}

	if err := tracker.ResetProgress(ctx); err != nil {
		t.Fatalf("ResetProgress() error = %v", err)
	}
	p := tracker.LoadProgress(ctx)
	if p != progress.Defaults() {
		t.Errorf("LoadProgress() after reset = %+v, want defaults", p)
	}
	if p.CitizenBadge != progress.BadgeNone {
		t.Errorf("CitizenBadge = %q, want none", p.CitizenBadge)
	}

	// Resetting an empty store is fine.
	if err := tracker.ResetProgress(ctx); err != nil {
		t.Errorf("second ResetProgress() error = %v", err)
	}
}

func TestTracker_LoadProgressIdempotent(t *testing.T) {
	ctx := context.Background()
	tracker := progress.NewTracker(progress.TrackerConfig{})
	if _, err := tracker.RecordSimulationResult(ctx, content.SimulationRemand, 3, 5); err != nil {
		t.Fatal(err)
	}

	first := tracker.LoadProgress(ctx)
	second := tracker.LoadProgress(ctx)
	if first != second {
		t.Errorf("LoadProgress() = %+v then %+v", first, second)
	}
}

func TestTracker_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemoryStore()
	_ = store.Put(ctx, progress.DefaultKey, []byte(`{not json`))
	tracker := progress.NewTracker(progress.TrackerConfig{Store: store})

	p, err := tracker.Progress(ctx)
	if !errors.Is(err, progress.ErrCorruptRecord) {
		t.Errorf("Progress() error = %v, want ErrCorruptRecord", err)
	}
	if p != progress.Defaults() {
		t.Errorf("Progress() = %+v, want defaults", p)
	}
	if got := tracker.LoadProgress(ctx); got != progress.Defaults() {
		t.Errorf("LoadProgress() = %+v, want defaults", got)
	}

	// An update over a corrupt record starts from defaults and repairs it.
	p, err = tracker.RecordSimulationResult(ctx, content.SimulationFIR, 4, 5)
	if err != nil {
		t.Fatalf("RecordSimulationResult() error = %v", err)
	}
	if p.TotalXP != 80 {
		t.Errorf("TotalXP = %d, want 80", p.TotalXP)
	}
	if _, err := tracker.Progress(ctx); err != nil {
		t.Errorf("Progress() after repair error = %v", err)
	}
}

func TestTracker_PartialRecordMergesDefaults(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemoryStore()
	_ = store.Put(ctx, progress.DefaultKey, []byte(`{"totalXP": 55, "firCompleted": true, "citizenBadge": "Learner"}`))
	tracker := progress.NewTracker(progress.TrackerConfig{Store: store})

	p, err := tracker.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	want := progress.UserProgress{TotalXP: 55, FIRCompleted: true, CitizenBadge: progress.BadgeLearner}
	if p != want {
		t.Errorf("Progress() = %+v, want %+v", p, want)
	}
}

func TestTracker_CustomKey(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemoryStore()
	a := progress.NewTracker(progress.TrackerConfig{Store: store, Key: "profile_a"})
	b := progress.NewTracker(progress.TrackerConfig{Store: store, Key: "profile_b"})

	if _, err := a.RecordSimulationResult(ctx, content.SimulationFIR, 5, 5); err != nil {
		t.Fatal(err)
	}
	if got := b.LoadProgress(ctx); got != progress.Defaults() {
		t.Errorf("profile_b = %+v, want defaults", got)
	}
	if a.Key() != "profile_a" {
		t.Errorf("Key() = %q, want profile_a", a.Key())
	}
}

func TestTracker_ConcurrentUpdatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	tracker := progress.NewTracker(progress.TrackerConfig{})

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tracker.RecordSimulationResult(ctx, content.SimulationFIR, 1, 2); err != nil {
				t.Errorf("RecordSimulationResult() error = %v", err)
			}
		}()
	}
	wg.Wait()

	p := tracker.LoadProgress(ctx)
	if p.TotalXP != workers*20 {
		t.Errorf("TotalXP = %d, want %d", p.TotalXP, workers*20)
	}
	if p.TotalCorrect != workers || p.TotalIncorrect != workers {
		t.Errorf("totals = %d/%d, want %d/%d", p.TotalCorrect, p.TotalIncorrect, workers, workers)
	}
}

func TestTracker_Events(t *testing.T) {
	ctx := context.Background()
	events := progress.NewMemoryEventLogger()
	tracker := progress.NewTracker(progress.TrackerConfig{Events: events})

	_, _ = tracker.RecordSimulationResult(ctx, content.SimulationFIR, 4, 5)
	_, _ = tracker.RecordCitizenQuizResult(ctx, 4, 5)
	_ = tracker.ResetProgress(ctx)
	_, _ = tracker.RecordCitizenQuizResult(ctx, 9, 5) // rejected, no event

	got := events.Events()
	want := []string{
		progress.EventSimulationCompleted,
		progress.EventCitizenQuizCompleted,
		progress.EventProgressReset,
	}
	if len(got) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].EventType != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, got[i].EventType, want[i])
		}
		if got[i].ProgressKey != progress.DefaultKey {
			t.Errorf("events[%d].ProgressKey = %q", i, got[i].ProgressKey)
		}
	}
	if got[0].Data["simulation"] != "fir" {
		t.Errorf("simulation event data = %v", got[0].Data)
	}
}

// failingStore fails every operation with err.
type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) ([]byte, error)               { return nil, s.err }
func (s failingStore) Put(context.Context, string, []byte) error                 { return s.err }
func (s failingStore) Delete(context.Context, string) error                      { return s.err }
func (s failingStore) Update(context.Context, string, progress.UpdateFunc) error { return s.err }
func (s failingStore) Ping(context.Context) error                                { return s.err }

// writeFailingStore reads from an in-memory store but rejects every write.
type writeFailingStore struct {
	*progress.MemoryStore
}

func (s writeFailingStore) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func (s writeFailingStore) Update(ctx context.Context, key string, fn progress.UpdateFunc) error {
	current, err := s.MemoryStore.Get(ctx, key)
	found := err == nil
	if _, err := fn(current, found); err != nil {
		return err
	}
	return errors.New("disk full")
}

func TestTracker_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	storageErr := errors.New("storage offline")
	tracker := progress.NewTracker(progress.TrackerConfig{Store: failingStore{err: storageErr}})

	p, err := tracker.Progress(ctx)
	if !errors.Is(err, storageErr) {
		t.Errorf("Progress() error = %v, want storage error", err)
	}
	if p != progress.Defaults() {
		t.Errorf("Progress() = %+v, want defaults", p)
	}
	if got := tracker.LoadProgress(ctx); got != progress.Defaults() {
		t.Errorf("LoadProgress() = %+v, want defaults", got)
	}

	p, err = tracker.RecordSimulationResult(ctx, content.SimulationFIR, 4, 5)
	if !errors.Is(err, progress.ErrNotPersisted) {
		t.Errorf("RecordSimulationResult() error = %v, want ErrNotPersisted", err)
	}
	if p.TotalXP != 80 || p.FIRScore != 80 {
		t.Errorf("RecordSimulationResult() = %+v, want the session's result over defaults", p)
	}

	if err := tracker.SaveProgress(ctx, p); !errors.Is(err, progress.ErrNotPersisted) {
		t.Errorf("SaveProgress() error = %v, want ErrNotPersisted", err)
	}
	if err := tracker.ResetProgress(ctx); !errors.Is(err, storageErr) {
		t.Errorf("ResetProgress() error = %v, want storage error", err)
	}
}

func TestTracker_WriteFailureKeepsPriorState(t *testing.T) {
	ctx := context.Background()
	mem := progress.NewMemoryStore()
	_ = mem.Put(ctx, progress.DefaultKey, []byte(`{"totalXP": 100, "totalCorrect": 5}`))
	tracker := progress.NewTracker(progress.TrackerConfig{Store: writeFailingStore{mem}})

	p, err := tracker.RecordCitizenQuizResult(ctx, 4, 5)
	if !errors.Is(err, progress.ErrNotPersisted) {
		t.Errorf("RecordCitizenQuizResult() error = %v, want ErrNotPersisted", err)
	}
	if p.TotalXP != 160 || p.TotalCorrect != 9 {
		t.Errorf("returned = %+v, want prior totals plus this run", p)
	}
	if got := tracker.LoadProgress(ctx); got.TotalXP != 100 {
		t.Errorf("stored TotalXP = %d, want unchanged 100", got.TotalXP)
	}
}

func TestTracker_SaveProgress(t *testing.T) {
	ctx := context.Background()
	tracker := progress.NewTracker(progress.TrackerConfig{})

	want := progress.UserProgress{TotalXP: 42, RemandCompleted: true, RemandScore: 60, CitizenBadge: progress.BadgeAwareCitizen}
	if err := tracker.SaveProgress(ctx, want); err != nil {
		t.Fatalf("SaveProgress() error = %v", err)
	}
	if got := tracker.LoadProgress(ctx); got != want {
		t.Errorf("LoadProgress() = %+v, want %+v", got, want)
	}
}
