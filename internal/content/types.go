package content

// SimulationType identifies one of the scripted procedural walkthroughs.
type SimulationType string

const (
	SimulationFIR    SimulationType = "fir"
	SimulationArrest SimulationType = "arrest"
	SimulationRemand SimulationType = "remand"
)

// SimulationTypes lists every simulation in display order.
var SimulationTypes = []SimulationType{SimulationFIR, SimulationArrest, SimulationRemand}

// Valid reports whether t is one of the enumerated simulation types.
func (t SimulationType) Valid() bool {
	switch t {
	case SimulationFIR, SimulationArrest, SimulationRemand:
		return true
	default:
		return false
	}
}

func (t SimulationType) String() string {
	return string(t)
}

// QuestionOption is one selectable answer. Exactly one option per question should be correct.
type QuestionOption struct {
	ID      string `json:"id" yaml:"id"`
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Question is a single scenario or quiz prompt with its options.
type Question struct {
	ID                 string           `json:"id" yaml:"id"`
	Scenario           string           `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Question           string           `json:"question,omitempty" yaml:"question,omitempty"`
	Options            []QuestionOption `json:"options" yaml:"options"`
	Explanation        string           `json:"explanation" yaml:"explanation"`
	Article            string           `json:"article,omitempty" yaml:"article,omitempty"`
	ConsequenceIfWrong string           `json:"consequence_if_wrong,omitempty" yaml:"consequence_if_wrong,omitempty"`
}

// Prompt returns the text shown to the user: the scenario when present, else the question.
func (q Question) Prompt() string {
	if q.Scenario != "" {
		return q.Scenario
	}
	return q.Question
}

// SimulationDataset is the static content for one simulation.
type SimulationDataset struct {
	Title               string     `json:"title" yaml:"title"`
	Description         string     `json:"description" yaml:"description"`
	ConstitutionalBasis string     `json:"constitutional_basis" yaml:"constitutional_basis"`
	Questions           []Question `json:"questions" yaml:"questions"`
}

// Right is a single citizen right with its constitutional article.
type Right struct {
	ID          string `json:"id" yaml:"id"`
	Article     string `json:"article" yaml:"article"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// DosAndDonts holds the two advice lists shown on the citizen screen.
type DosAndDonts struct {
	Dos   []string `json:"dos" yaml:"dos"`
	Donts []string `json:"donts" yaml:"donts"`
}

// CitizenContent groups the citizen-mode sections.
type CitizenContent struct {
	BasicRights []Right     `json:"basic_rights" yaml:"basic_rights"`
	DosAndDonts DosAndDonts `json:"dos_and_donts" yaml:"dos_and_donts"`
	Quiz        []Question  `json:"quiz" yaml:"quiz"`
}

// Document is the top-level shape of a content file.
type Document struct {
	FIRRules      SimulationDataset `json:"fir_rules" yaml:"fir_rules"`
	ArrestRules   SimulationDataset `json:"arrest_rules" yaml:"arrest_rules"`
	RemandRules   SimulationDataset `json:"remand_rules" yaml:"remand_rules"`
	CitizenRights CitizenContent    `json:"citizen_rights" yaml:"citizen_rights"`
}

// ValidationResult is the outcome of checking one selected option.
type ValidationResult struct {
	IsCorrect       bool   `json:"is_correct"`
	Explanation     string `json:"explanation"`
	Article         string `json:"article,omitempty"`
	Consequence     string `json:"consequence,omitempty"`
	CorrectOptionID string `json:"correct_option_id"`
}
