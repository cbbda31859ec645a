package scenario

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/mairateam/calculators/internal/report"
)

const (
	inputsSheet  = "Inputs"
	outputsSheet = "Outputs"
)

// Text renders a plain text summary of the stored snapshot.
func Text(s Scenario) (string, error) {
	r, err := s.Report()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Title)
	fmt.Fprintf(&b, "Saved: %s\n", s.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Currency: %s\n", r.Currency)
	if s.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", s.Notes)
	}

	b.WriteString("\nInputs:\n")
	writeLines(&b, r.Inputs)
	b.WriteString("\nResults:\n")
	writeLines(&b, r.Outputs)

	return b.String(), nil
}

func writeLines(b *strings.Builder, lines []report.Line) {
	for _, l := range lines {
		display := l.Display
		if !l.Present {
			display = "-"
		}
		fmt.Fprintf(b, "- %s: %s\n", l.Label, display)
	}
}

// WriteXLSX writes the snapshot as a workbook with an Inputs and an Outputs
// sheet. Absent values are left blank.
func WriteXLSX(w io.Writer, s Scenario) error {
	r, err := s.Report()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inputsSheet); err != nil {
		return errors.Wrap(err, "rename inputs sheet")
	}
	if _, err := f.NewSheet(outputsSheet); err != nil {
		return errors.Wrap(err, "create outputs sheet")
	}

	if err := writeSheet(f, inputsSheet, r.Inputs); err != nil {
		return err
	}
	if err := writeSheet(f, outputsSheet, r.Outputs); err != nil {
		return err
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: r.Title, Description: s.Notes}); err != nil {
		return errors.Wrap(err, "set workbook properties")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, lines []report.Line) error {
	header := []any{"Metric", "Value", "Formatted"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrapf(err, "write %s header", sheet)
	}

	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}

		row := []any{l.Label, nil, l.Display}
		if l.Finite() {
			row[1] = l.Value
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write %s row %d", sheet, i+2)
		}
	}
	return nil
}
