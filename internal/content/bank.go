// Package content provides read-only access to the static legal-awareness content:
// simulations, citizen rights, and quiz questions.
package content

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidType is returned for a simulation type outside the enumeration.
	ErrInvalidType = errors.New("invalid simulation type")
	// ErrNoCorrectOption marks a question with no option flagged correct.
	ErrNoCorrectOption = errors.New("question has no correct option")
	// ErrNoOptions marks a question with an empty option list.
	ErrNoOptions = errors.New("question has no options")
	// ErrQuestionNotFound is returned when a question ID is not in the requested set.
	ErrQuestionNotFound = errors.New("question not found")
)

// Bank is an immutable view over a loaded content document.
type Bank struct {
	simulations map[SimulationType]SimulationDataset
	citizen     CitizenContent
}

// NewBank builds a bank from a document. The document is copied; later changes to it
// are not visible through the bank.
func NewBank(doc Document) *Bank {
	return &Bank{
		simulations: map[SimulationType]SimulationDataset{
			SimulationFIR:    cloneDataset(doc.FIRRules),
			SimulationArrest: cloneDataset(doc.ArrestRules),
			SimulationRemand: cloneDataset(doc.RemandRules),
		},
		citizen: CitizenContent{
			BasicRights: slices.Clone(doc.CitizenRights.BasicRights),
			DosAndDonts: DosAndDonts{
				Dos:   slices.Clone(doc.CitizenRights.DosAndDonts.Dos),
				Donts: slices.Clone(doc.CitizenRights.DosAndDonts.Donts),
			},
			Quiz: cloneQuestions(doc.CitizenRights.Quiz),
		},
	}
}

// ParseSimulationType converts user input to a SimulationType. The empty string
// selects the FIR simulation.
func ParseSimulationType(s string) (SimulationType, error) {
	if s == "" {
		return SimulationFIR, nil
	}
	t := SimulationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// SimulationDataset returns the dataset for a simulation type.
func (b *Bank) SimulationDataset(t SimulationType) (SimulationDataset, error) {
	if !t.Valid() {
		return SimulationDataset{}, fmt.Errorf("%w: %q", ErrInvalidType, string(t))
	}
	return cloneDataset(b.simulations[t]), nil
}

// CitizenRights returns the ordered list of basic rights.
func (b *Bank) CitizenRights() []Right {
	return slices.Clone(b.citizen.BasicRights)
}

// DosAndDonts returns the citizen advice lists.
func (b *Bank) DosAndDonts() DosAndDonts {
	return DosAndDonts{
		Dos:   slices.Clone(b.citizen.DosAndDonts.Dos),
		Donts: slices.Clone(b.citizen.DosAndDonts.Donts),
	}
}

// CitizenQuiz returns the citizen quiz questions in order.
func (b *Bank) CitizenQuiz() []Question {
	return cloneQuestions(b.citizen.Quiz)
}

// SimulationQuestion looks up one question of a simulation by ID.
func (b *Bank) SimulationQuestion(t SimulationType, id string) (Question, error) {
	ds, err := b.SimulationDataset(t)
	if err != nil {
		return Question{}, err
	}
	return findQuestion(ds.Questions, id)
}

// CitizenQuizQuestion looks up one citizen quiz question by ID.
func (b *Bank) CitizenQuizQuestion(id string) (Question, error) {
	return findQuestion(b.citizen.Quiz, id)
}

// Document returns a copy of the full content the bank was built from.
func (b *Bank) Document() Document {
	return Document{
		FIRRules:    cloneDataset(b.simulations[SimulationFIR]),
		ArrestRules: cloneDataset(b.simulations[SimulationArrest]),
		RemandRules: cloneDataset(b.simulations[SimulationRemand]),
		CitizenRights: CitizenContent{
			BasicRights: b.CitizenRights(),
			DosAndDonts: b.DosAndDonts(),
			Quiz:        b.CitizenQuiz(),
		},
	}
}

func findQuestion(questions []Question, id string) (Question, error) {
	for _, q := range questions {
		if q.ID == id {
			return cloneQuestion(q), nil
		}
	}
	return Question{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
}

func cloneDataset(ds SimulationDataset) SimulationDataset {
	ds.Questions = cloneQuestions(ds.Questions)
	return ds
}

func cloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q Question) Question {
	q.Options = slices.Clone(q.Options)
	return q
}
