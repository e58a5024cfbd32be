package content_test

import (
	"errors"
	"testing"

	"github.com/civica/civica/internal/content"
)

func sampleQuestion() content.Question {
	return content.Question{
		ID:       "q1",
		Question: "Within how many hours must an arrested person see a Magistrate?",
		Options: []content.QuestionOption{
			{ID: "a", Text: "48 hours"},
			{ID: "b", Text: "24 hours", Correct: true},
			{ID: "c", Text: "72 hours"},
		},
		Explanation:        "Article 22(2) sets a 24 hour limit.",
		Article:            "Article 22(2)",
		ConsequenceIfWrong: "Illegal detention goes unchallenged.",
	}
}

func TestValidateAnswer(t *testing.T) {
	q := sampleQuestion()

	tests := []struct {
		name            string
		selected        string
		wantCorrect     bool
		wantConsequence string
	}{
		{"correct option", "b", true, ""},
		{"wrong option", "a", false, "Illegal detention goes unchallenged."},
		{"another wrong option", "c", false, "Illegal detention goes unchallenged."},
		{"unknown option", "z", false, "Illegal detention goes unchallenged."},
		{"empty selection", "", false, "Illegal detention goes unchallenged."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := content.ValidateAnswer(q, tt.selected)
			if got.IsCorrect != tt.wantCorrect {
				t.Errorf("IsCorrect = %v, want %v", got.IsCorrect, tt.wantCorrect)
			}
			if got.CorrectOptionID != "b" {
				t.Errorf("CorrectOptionID = %q, want b", got.CorrectOptionID)
			}
			if got.Consequence != tt.wantConsequence {
				t.Errorf("Consequence = %q, want %q", got.Consequence, tt.wantConsequence)
			}
			if got.Explanation != q.Explanation {
				t.Errorf("Explanation = %q, want %q", got.Explanation, q.Explanation)
			}
			if got.Article != q.Article {
				t.Errorf("Article = %q, want %q", got.Article, q.Article)
			}
		})
	}
}

func TestValidateAnswer_CorrectIffSelectedMatches(t *testing.T) {
	q := sampleQuestion()
	for i := range q.Options {
		// Move the correct flag to each option in turn.
		for j := range q.Options {
			q.Options[j].Correct = i == j
		}
		for _, o := range q.Options {
			got := content.ValidateAnswer(q, o.ID)
			want := o.ID == q.Options[i].ID
			if got.IsCorrect != want {
				t.Errorf("correct=%s selected=%s: IsCorrect = %v, want %v", q.Options[i].ID, o.ID, got.IsCorrect, want)
			}
		}
	}
}

func TestValidateAnswer_NoCorrectOption(t *testing.T) {
	q := sampleQuestion()
	for i := range q.Options {
		q.Options[i].Correct = false
	}

	for _, o := range q.Options {
		got := content.ValidateAnswer(q, o.ID)
		if got.IsCorrect {
			t.Errorf("selected %s: IsCorrect = true, want false", o.ID)
		}
		if got.CorrectOptionID != "" {
			t.Errorf("CorrectOptionID = %q, want empty", got.CorrectOptionID)
		}
	}
}

func TestCheckAnswer_ReportsMalformedContent(t *testing.T) {
	noCorrect := sampleQuestion()
	for i := range noCorrect.Options {
		noCorrect.Options[i].Correct = false
	}
	noOptions := sampleQuestion()
	noOptions.Options = nil

	tests := []struct {
		name    string
		q       content.Question
		wantErr error
	}{
		{"well formed", sampleQuestion(), nil},
		{"no correct option", noCorrect, content.ErrNoCorrectOption},
		{"no options", noOptions, content.ErrNoOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := content.CheckAnswer(tt.q, "b")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckAnswer() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && res.IsCorrect {
				t.Error("malformed question should never be correct")
			}
		})
	}
}

func TestValidateAnswer_FirstCorrectOptionWins(t *testing.T) {
	q := sampleQuestion()
	q.Options[0].Correct = true

	got := content.ValidateAnswer(q, "b")
	if got.IsCorrect {
		t.Error("with two correct flags the first one is authoritative")
	}
	if got.CorrectOptionID != "a" {
		t.Errorf("CorrectOptionID = %q, want a", got.CorrectOptionID)
	}
}
