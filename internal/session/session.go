// Package session runs one pass through a simulation or the citizen quiz,
// one question at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/civica/civica/internal/content"
	"github.com/civica/civica/internal/progress"
)

var (
	// ErrWrongPhase is returned when an action is not legal in the current phase.
	ErrWrongPhase = errors.New("action not allowed in current phase")
	// ErrNoSelection is returned by Submit when no option has been selected.
	ErrNoSelection = errors.New("no option selected")
	// ErrEmptySession is returned when a session has no questions.
	ErrEmptySession = errors.New("session has no questions")
	// ErrUnknownOption is returned by Select for an option the question does not offer.
	ErrUnknownOption = errors.New("unknown option")
)

// Phase is a session's position in its lifecycle.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseRevealed
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseRevealed:
		return "revealed"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Kind says which progress slot a finished session is recorded into.
type Kind struct {
	Simulation content.SimulationType // empty for the citizen quiz
}

// CitizenQuiz is the Kind of a citizen quiz session.
var CitizenQuiz = Kind{}

// IsCitizenQuiz reports whether k is the citizen quiz.
func (k Kind) IsCitizenQuiz() bool {
	return k.Simulation == ""
}

func (k Kind) String() string {
	if k.IsCitizenQuiz() {
		return "citizen"
	}
	return k.Simulation.String()
}

// Tally is the final count of a finished session.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Answer records one revealed question.
type Answer struct {
	QuestionID string
	OptionID   string
	IsCorrect  bool
}

// Session walks NotStarted, InProgress(i), Revealed(i), then InProgress(i+1) or
// Finished. Each answer is counted once, when it is revealed.
type Session struct {
	kind      Kind
	questions []content.Question

	phase    Phase
	index    int
	selected string
	result   content.ValidationResult
	answers  []Answer
	correct  int
}

// New creates a session over questions for the given kind.
func New(kind Kind, questions []content.Question) (*Session, error) {
	if !kind.IsCitizenQuiz() && !kind.Simulation.Valid() {
		return nil, fmt.Errorf("%w: %q", content.ErrInvalidType, string(kind.Simulation))
	}
	if len(questions) == 0 {
		return nil, ErrEmptySession
	}
	return &Session{
		kind:      kind,
		questions: questions,
	}, nil
}

// NewSimulation creates a session over the questions of simulation st.
func NewSimulation(bank *content.Bank, st content.SimulationType) (*Session, error) {
	ds, err := bank.SimulationDataset(st)
	if err != nil {
		return nil, err
	}
	return New(Kind{Simulation: st}, ds.Questions)
}

// NewCitizenQuiz creates a session over the citizen quiz.
func NewCitizenQuiz(bank *content.Bank) (*Session, error) {
	return New(CitizenQuiz, bank.CitizenQuiz())
}

// Kind returns what the session is recorded as.
func (s *Session) Kind() Kind { return s.kind }

func (s *Session) Phase() Phase { return s.phase }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Correct returns the number of answers revealed as correct so far.
func (s *Session) Correct() int { return s.correct }

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool { return s.index == len(s.questions)-1 }

// Selected returns the currently selected option, if any.
func (s *Session) Selected() string { return s.selected }

// Answers returns the revealed answers in order.
func (s *Session) Answers() []Answer {
	return append([]Answer(nil), s.answers...)
}

// Start moves to the first question.
func (s *Session) Start() error {
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("start: %w (%s)", ErrWrongPhase, s.phase)
	}
	s.phase = PhaseInProgress
	s.index = 0
	return nil
}

// Current returns the question being asked or revealed.
func (s *Session) Current() (content.Question, error) {
	if s.phase != PhaseInProgress && s.phase != PhaseRevealed {
		return content.Question{}, fmt.Errorf("current: %w (%s)", ErrWrongPhase, s.phase)
	}
	return s.questions[s.index], nil
}

// Select chooses an option for the current question. The selection can be
// changed until it is submitted.
func (s *Session) Select(optionID string) error {
	if s.phase != PhaseInProgress {
		return fmt.Errorf("select: %w (%s)", ErrWrongPhase, s.phase)
	}
	q := s.questions[s.index]
	for _, opt := range q.Options {
		if opt.ID == optionID {
			s.selected = optionID
			return nil
		}
	}
	return fmt.Errorf("%w: %q on question %s", ErrUnknownOption, optionID, q.ID)
}

// Submit reveals the selected answer and counts it.
func (s *Session) Submit() (content.ValidationResult, error) {
	if s.phase != PhaseInProgress {
		return content.ValidationResult{}, fmt.Errorf("submit: %w (%s)", ErrWrongPhase, s.phase)
	}
	if s.selected == "" {
		return content.ValidationResult{}, ErrNoSelection
	}

	q := s.questions[s.index]
	res, err := content.CheckAnswer(q, s.selected)
	if err != nil {
		slog.Warn("malformed question counted as incorrect", "question_id", q.ID, "error", err)
	}

	s.result = res
	s.answers = append(s.answers, Answer{
		QuestionID: q.ID,
		OptionID:   s.selected,
		IsCorrect:  res.IsCorrect,
	})
	if res.IsCorrect {
		s.correct++
	}
	s.phase = PhaseRevealed
	return res, nil
}

// Result returns the revealed result for the current question.
func (s *Session) Result() (content.ValidationResult, bool) {
	if s.phase != PhaseRevealed {
		return content.ValidationResult{}, false
	}
	return s.result, true
}

// Next advances past a revealed question that is not the last.
func (s *Session) Next() error {
	if s.phase != PhaseRevealed || s.IsLast() {
		return fmt.Errorf("next: %w (%s)", ErrWrongPhase, s.phase)
	}
	s.index++
	s.selected = ""
	s.result = content.ValidationResult{}
	s.phase = PhaseInProgress
	return nil
}

// Finish ends the session after the last question has been revealed.
func (s *Session) Finish() (Tally, error) {
	if s.phase != PhaseRevealed || !s.IsLast() {
		return Tally{}, fmt.Errorf("finish: %w (%s)", ErrWrongPhase, s.phase)
	}
	s.phase = PhaseFinished
	return s.Tally(), nil
}

// Tally returns the count so far.
func (s *Session) Tally() Tally {
	return Tally{Correct: s.correct, Total: len(s.questions)}
}

// Summary returns the end-of-session summary for the count so far.
func (s *Session) Summary() progress.Summary {
	t := s.Tally()
	if s.kind.IsCitizenQuiz() {
		return progress.CitizenQuizSummary(t.Correct, t.Total)
	}
	return progress.SimulationSummary(t.Correct, t.Total)
}

// Record folds a finished session into the tracker. The returned record is
// usable even when the error wraps progress.ErrNotPersisted.
func (s *Session) Record(ctx context.Context, tracker *progress.Tracker) (progress.UserProgress, error) {
	if s.phase != PhaseFinished {
		return progress.UserProgress{}, fmt.Errorf("record: %w (%s)", ErrWrongPhase, s.phase)
	}
	t := s.Tally()
	if s.kind.IsCitizenQuiz() {
		return tracker.RecordCitizenQuizResult(ctx, t.Correct, t.Total)
	}
	return tracker.RecordSimulationResult(ctx, s.kind.Simulation, t.Correct, t.Total)
}
