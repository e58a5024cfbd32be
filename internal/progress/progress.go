// Package progress tracks the single user-progress record: XP, answer totals,
// per-simulation scores, and the citizen quiz badge.
package progress

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/civica/civica/internal/content"
)

// DefaultKey is the storage key of the progress record.
const DefaultKey = "civica_scores"

const (
	// SimulationXPPerCorrect is awarded for each correct simulation answer.
	SimulationXPPerCorrect = 20
	// CitizenQuizXPPerCorrect is awarded for each correct citizen quiz answer.
	CitizenQuizXPPerCorrect = 15
)

// Badge is the citizen quiz tier.
type Badge string

const (
	BadgeNone         Badge = ""
	BadgeLearner      Badge = "Learner"
	BadgeAwareCitizen Badge = "Aware Citizen"
	BadgeLegalEagle   Badge = "Legal Eagle"
)

// MarshalJSON encodes BadgeNone as null.
func (b Badge) MarshalJSON() ([]byte, error) {
	if b == BadgeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

// UnmarshalJSON accepts null or one of the known badge names. Unknown names decode
// as BadgeNone rather than failing the whole record.
func (b *Badge) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*b = BadgeNone
		return nil
	}
	switch v := Badge(*s); v {
	case BadgeLearner, BadgeAwareCitizen, BadgeLegalEagle:
		*b = v
	default:
		*b = BadgeNone
	}
	return nil
}

// BadgeFor returns the badge earned by a citizen quiz percentage.
func BadgeFor(percent int) Badge {
	switch {
	case percent >= 80:
		return BadgeLegalEagle
	case percent >= 60:
		return BadgeAwareCitizen
	default:
		return BadgeLearner
	}
}

// Grade is the label shown on a results screen.
type Grade string

const (
	GradeOutstanding  Grade = "Outstanding"
	GradeGreatWork    Grade = "Great Work"
	GradeGoodEffort   Grade = "Good Effort"
	GradeKeepLearning Grade = "Keep Learning"
)

// GradeFor returns the grade for a simulation percentage.
func GradeFor(percent int) Grade {
	switch {
	case percent >= 90:
		return GradeOutstanding
	case percent >= 70:
		return GradeGreatWork
	case percent >= 50:
		return GradeGoodEffort
	default:
		return GradeKeepLearning
	}
}

// UserProgress is the persisted record. JSON names match records written by the
// mobile app so existing blobs decode unchanged.
type UserProgress struct {
	TotalXP              int   `json:"totalXP"`
	TotalCorrect         int   `json:"totalCorrect"`
	TotalIncorrect       int   `json:"totalIncorrect"`
	FIRCompleted         bool  `json:"firCompleted"`
	ArrestCompleted      bool  `json:"arrestCompleted"`
	RemandCompleted      bool  `json:"remandCompleted"`
	FIRScore             int   `json:"firScore"`
	ArrestScore          int   `json:"arrestScore"`
	RemandScore          int   `json:"remandScore"`
	CitizenQuizCompleted bool  `json:"citizenQuizCompleted"`
	CitizenQuizScore     int   `json:"citizenQuizScore"`
	CitizenBadge         Badge `json:"citizenBadge"`
}

// Defaults returns the record used when nothing has been stored yet.
func Defaults() UserProgress {
	return UserProgress{}
}

// SimulationCompleted reports whether a simulation has been finished at least once.
func (p UserProgress) SimulationCompleted(t content.SimulationType) bool {
	switch t {
	case content.SimulationFIR:
		return p.FIRCompleted
	case content.SimulationArrest:
		return p.ArrestCompleted
	case content.SimulationRemand:
		return p.RemandCompleted
	default:
		return false
	}
}

// SimulationScore returns the latest percentage for a simulation.
func (p UserProgress) SimulationScore(t content.SimulationType) int {
	switch t {
	case content.SimulationFIR:
		return p.FIRScore
	case content.SimulationArrest:
		return p.ArrestScore
	case content.SimulationRemand:
		return p.RemandScore
	default:
		return 0
	}
}

func (p *UserProgress) applySimulation(t content.SimulationType, correct, total int) {
	percent := Percent(correct, total)
	p.addTally(correct, total, SimulationXP(correct))
	switch t {
	case content.SimulationFIR:
		p.FIRCompleted = true
		p.FIRScore = percent
	case content.SimulationArrest:
		p.ArrestCompleted = true
		p.ArrestScore = percent
	case content.SimulationRemand:
		p.RemandCompleted = true
		p.RemandScore = percent
	}
}

func (p *UserProgress) applyCitizenQuiz(correct, total int) {
	percent := Percent(correct, total)
	p.addTally(correct, total, CitizenQuizXP(correct))
	p.CitizenQuizCompleted = true
	p.CitizenQuizScore = percent
	p.CitizenBadge = BadgeFor(percent)
}

func (p *UserProgress) addTally(correct, total, xp int) {
	p.TotalXP += xp
	p.TotalCorrect += correct
	p.TotalIncorrect += total - correct
}

// CompletionPercent is the share of the four activities (three simulations and the
// citizen quiz) completed at least once.
func CompletionPercent(p UserProgress) int {
	completed := 0
	for _, done := range []bool{p.FIRCompleted, p.ArrestCompleted, p.RemandCompleted, p.CitizenQuizCompleted} {
		if done {
			completed++
		}
	}
	return Percent(completed, 4)
}

// Percent returns correct/total as a whole percentage, rounding halves up.
// total must be positive.
func Percent(correct, total int) int {
	return int(math.Floor(float64(correct)/float64(total)*100 + 0.5))
}

// SimulationXP is the XP earned by a simulation run.
func SimulationXP(correct int) int {
	return correct * SimulationXPPerCorrect
}

// CitizenQuizXP is the XP earned by a citizen quiz run.
func CitizenQuizXP(correct int) int {
	return correct * CitizenQuizXPPerCorrect
}

// Summary describes one finished run for a results screen.
type Summary struct {
	Correct   int   `json:"correct"`
	Incorrect int   `json:"incorrect"`
	Total     int   `json:"total"`
	Percent   int   `json:"percent"`
	XPEarned  int   `json:"xp_earned"`
	Grade     Grade `json:"grade,omitempty"`
	Badge     Badge `json:"badge,omitempty"`
}

// SimulationSummary summarizes a simulation run. The tally must be valid.
func SimulationSummary(correct, total int) Summary {
	percent := Percent(correct, total)
	return Summary{
		Correct:   correct,
		Incorrect: total - correct,
		Total:     total,
		Percent:   percent,
		XPEarned:  SimulationXP(correct),
		Grade:     GradeFor(percent),
	}
}

// CitizenQuizSummary summarizes a citizen quiz run. The tally must be valid.
func CitizenQuizSummary(correct, total int) Summary {
	percent := Percent(correct, total)
	return Summary{
		Correct:   correct,
		Incorrect: total - correct,
		Total:     total,
		Percent:   percent,
		XPEarned:  CitizenQuizXP(correct),
		Grade:     GradeFor(percent),
		Badge:     BadgeFor(percent),
	}
}

// ValidateTally checks a finished run's counts.
func ValidateTally(correct, total int) error {
	if total <= 0 {
		return fmt.Errorf("%w: %w: total must be positive, got %d", ErrInvalidArgument, ErrInvalidTally, total)
	}
	if correct < 0 || correct > total {
		return fmt.Errorf("%w: %w: correct must be between 0 and %d, got %d", ErrInvalidArgument, ErrInvalidTally, total, correct)
	}
	return nil
}

func decodeProgress(data []byte) (UserProgress, error) {
	p := Defaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return p, nil
}

func encodeProgress(p UserProgress) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding progress: %w", err)
	}
	return data, nil
}
