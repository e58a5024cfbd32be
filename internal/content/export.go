package content

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var questionHeader = []any{
	"Question ID", "Prompt", "Option ID", "Option Text", "Correct",
	"Explanation", "Article", "Consequence If Wrong",
}

// ExportWorkbook writes the bank's content to w as an .xlsx workbook with one sheet
// per simulation, one for the citizen quiz, and one each for rights and dos/don'ts.
// Questions are flattened to one row per option for reviewers.
func ExportWorkbook(w io.Writer, b *Bank) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	sheetNames := map[SimulationType]string{
		SimulationFIR:    "FIR",
		SimulationArrest: "Arrest",
		SimulationRemand: "Remand",
	}
	for _, t := range SimulationTypes {
		ds, err := b.SimulationDataset(t)
		if err != nil {
			return err
		}
		if err := writeQuestionSheet(f, sheetNames[t], ds.Questions, bold); err != nil {
			return err
		}
	}

	if err := writeQuestionSheet(f, "Citizen Quiz", b.CitizenQuiz(), bold); err != nil {
		return err
	}
	if err := writeRightsSheet(f, b.CitizenRights(), bold); err != nil {
		return err
	}
	if err := writeAdviceSheet(f, b.DosAndDonts(), bold); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	// Sheet indexes shift once Sheet1 is gone.
	first, err := f.GetSheetIndex(sheetNames[SimulationTypes[0]])
	if err != nil {
		return fmt.Errorf("locating first sheet: %w", err)
	}
	f.SetActiveSheet(first)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeQuestionSheet(f *excelize.File, name string, qs []Question, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	if err := setRow(f, name, 1, questionHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling sheet %s: %w", name, err)
	}

	row := 2
	for _, q := range qs {
		if len(q.Options) == 0 {
			if err := setRow(f, name, row, []any{q.ID, q.Prompt(), "", "", "", q.Explanation, q.Article, q.ConsequenceIfWrong}); err != nil {
				return err
			}
			row++
			continue
		}
		for _, o := range q.Options {
			values := []any{q.ID, q.Prompt(), o.ID, o.Text, o.Correct, q.Explanation, q.Article, q.ConsequenceIfWrong}
			if err := setRow(f, name, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeRightsSheet(f *excelize.File, rights []Right, headerStyle int) error {
	const name = "Rights"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	if err := setRow(f, name, 1, []any{"ID", "Article", "Title", "Description"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling sheet %s: %w", name, err)
	}
	for i, r := range rights {
		if err := setRow(f, name, i+2, []any{r.ID, r.Article, r.Title, r.Description}); err != nil {
			return err
		}
	}
	return nil
}

func writeAdviceSheet(f *excelize.File, advice DosAndDonts, headerStyle int) error {
	const name = "Dos and Donts"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	if err := setRow(f, name, 1, []any{"Do", "Don't"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling sheet %s: %w", name, err)
	}
	n := max(len(advice.Dos), len(advice.Donts))
	for i := range n {
		var do, dont string
		if i < len(advice.Dos) {
			do = advice.Dos[i]
		}
		if i < len(advice.Donts) {
			dont = advice.Donts[i]
		}
		if err := setRow(f, name, i+2, []any{do, dont}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
