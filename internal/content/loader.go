package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed data/legal_rules.json
var defaultDocument []byte

// Format is the encoding of a content file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DefaultDocument returns the raw JSON content bundled with the binary.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// Parse decodes a content document. Text fields are NFC-normalized so that option
// IDs and prompts compare consistently regardless of how the file was authored.
// No structural validation is done here; see Lint.
func Parse(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("decoding yaml content: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("decoding json content: %w", err)
		}
	}
	normalizeDocument(&doc)
	return doc, nil
}

// LoadFile reads and parses a content file.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading content: %w", err)
	}
	return Parse(data, FormatForPath(path))
}

// LoadBank builds a bank from path, or from the bundled content when path is empty.
func LoadBank(path string) (*Bank, error) {
	var (
		doc    Document
		err    error
		source = path
	)
	if path == "" {
		source = "embedded"
		doc, err = Parse(defaultDocument, FormatJSON)
	} else {
		doc, err = LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	slog.Info("content loaded",
		"source", source,
		"fir_questions", len(doc.FIRRules.Questions),
		"arrest_questions", len(doc.ArrestRules.Questions),
		"remand_questions", len(doc.RemandRules.Questions),
		"citizen_quiz_questions", len(doc.CitizenRights.Quiz),
	)
	return NewBank(doc), nil
}

func normalizeDocument(doc *Document) {
	for _, ds := range []*SimulationDataset{&doc.FIRRules, &doc.ArrestRules, &doc.RemandRules} {
		ds.Title = norm.NFC.String(ds.Title)
		ds.Description = norm.NFC.String(ds.Description)
		ds.ConstitutionalBasis = norm.NFC.String(ds.ConstitutionalBasis)
		normalizeQuestions(ds.Questions)
	}

	c := &doc.CitizenRights
	for i := range c.BasicRights {
		r := &c.BasicRights[i]
		r.Article = norm.NFC.String(r.Article)
		r.Title = norm.NFC.String(r.Title)
		r.Description = norm.NFC.String(r.Description)
	}
	normalizeStrings(c.DosAndDonts.Dos)
	normalizeStrings(c.DosAndDonts.Donts)
	normalizeQuestions(c.Quiz)
}

func normalizeQuestions(qs []Question) {
	for i := range qs {
		q := &qs[i]
		q.ID = norm.NFC.String(q.ID)
		q.Scenario = norm.NFC.String(q.Scenario)
		q.Question = norm.NFC.String(q.Question)
		q.Explanation = norm.NFC.String(q.Explanation)
		q.Article = norm.NFC.String(q.Article)
		q.ConsequenceIfWrong = norm.NFC.String(q.ConsequenceIfWrong)
		for j := range q.Options {
			q.Options[j].ID = norm.NFC.String(q.Options[j].ID)
			q.Options[j].Text = norm.NFC.String(q.Options[j].Text)
		}
	}
}

func normalizeStrings(ss []string) {
	for i := range ss {
		ss[i] = norm.NFC.String(ss[i])
	}
}
