package content

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed data/content.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// Issue is a single lint finding.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// LintError collects every issue found in a content document.
type LintError struct {
	Issues []Issue
}

func (e *LintError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("content has %d issue(s): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Lint checks a raw content file against the content JSON Schema and then against the
// rules the schema cannot express: exactly one correct option per question and unique
// option and question IDs. It returns a *LintError when issues are found.
func Lint(data []byte, format Format) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var docLoader gojsonschema.JSONLoader
	if format == FormatYAML {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decoding yaml content: %w", err)
		}
		docLoader = gojsonschema.NewGoLoader(raw)
	} else {
		docLoader = gojsonschema.NewBytesLoader(data)
	}

	result, err := s.Validate(docLoader)
	if err != nil {
		return fmt.Errorf("validating content schema: %w", err)
	}

	var issues []Issue
	for _, re := range result.Errors() {
		issues = append(issues, Issue{Path: re.Field(), Message: re.Description()})
	}

	// Structural failures make the semantic pass noisy; report them alone.
	if len(issues) == 0 {
		doc, err := Parse(data, format)
		if err != nil {
			return err
		}
		issues = append(issues, lintDocument(doc)...)
	}

	if len(issues) > 0 {
		return &LintError{Issues: issues}
	}
	return nil
}

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compiling content schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

func lintDocument(doc Document) []Issue {
	var issues []Issue
	sections := []struct {
		path      string
		questions []Question
	}{
		{"fir_rules.questions", doc.FIRRules.Questions},
		{"arrest_rules.questions", doc.ArrestRules.Questions},
		{"remand_rules.questions", doc.RemandRules.Questions},
		{"citizen_rights.quiz", doc.CitizenRights.Quiz},
	}
	for _, sec := range sections {
		issues = append(issues, lintQuestions(sec.path, sec.questions)...)
	}

	seen := make(map[string]bool)
	for i, r := range doc.CitizenRights.BasicRights {
		if seen[r.ID] {
			issues = append(issues, Issue{
				Path:    fmt.Sprintf("citizen_rights.basic_rights.%d", i),
				Message: fmt.Sprintf("duplicate right id %q", r.ID),
			})
		}
		seen[r.ID] = true
	}
	return issues
}

func lintQuestions(path string, qs []Question) []Issue {
	var issues []Issue
	ids := make(map[string]bool)
	for i, q := range qs {
		qPath := fmt.Sprintf("%s.%d", path, i)
		if ids[q.ID] {
			issues = append(issues, Issue{Path: qPath, Message: fmt.Sprintf("duplicate question id %q", q.ID)})
		}
		ids[q.ID] = true

		if q.Prompt() == "" {
			issues = append(issues, Issue{Path: qPath, Message: "question has neither scenario nor question text"})
		}

		correct := 0
		optionIDs := make(map[string]bool)
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
			if optionIDs[o.ID] {
				issues = append(issues, Issue{Path: qPath, Message: fmt.Sprintf("duplicate option id %q", o.ID)})
			}
			optionIDs[o.ID] = true
		}
		if correct != 1 {
			issues = append(issues, Issue{
				Path:    qPath,
				Message: fmt.Sprintf("question must have exactly one correct option, has %d", correct),
			})
		}
	}
	return issues
}
