package content

// ValidateAnswer checks a selected option against the question's correct option.
// Malformed questions (no options, or none marked correct) never match and report an
// empty CorrectOptionID.
func ValidateAnswer(q Question, selectedOptionID string) ValidationResult {
	res, _ := CheckAnswer(q, selectedOptionID)
	return res
}

// CheckAnswer is ValidateAnswer plus the content defect, if any, that forced the
// result to be incorrect. The result is always usable.
func CheckAnswer(q Question, selectedOptionID string) (ValidationResult, error) {
	var correct *QuestionOption
	for i := range q.Options {
		if q.Options[i].Correct {
			correct = &q.Options[i]
			break
		}
	}

	res := ValidationResult{
		Explanation: q.Explanation,
		Article:     q.Article,
	}
	if correct != nil {
		res.CorrectOptionID = correct.ID
		res.IsCorrect = selectedOptionID == correct.ID
	}
	if !res.IsCorrect {
		res.Consequence = q.ConsequenceIfWrong
	}

	switch {
	case len(q.Options) == 0:
		return res, ErrNoOptions
	case correct == nil:
		return res, ErrNoCorrectOption
	}
	return res, nil
}
