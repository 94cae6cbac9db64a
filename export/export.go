// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/quickly-schedule/models"
)

// SheetName is the single sheet of an exported workbook.
const SheetName = "Availability"

// Labels written for each answer.
var availabilityLabels = map[models.Availability]string{
	models.Absent:    "×",
	models.Uncertain: "?",
	models.Present:   "○",
}

// Label returns the cell text for a.
func Label(a models.Availability) string {
	if l, ok := availabilityLabels[a]; ok {
		return l
	}
	return a.String()
}

// MatrixWorkbook renders a schedule view as an XLSX workbook: one header row
// of candidates, one row per participant, then the per-candidate tallies.
func MatrixWorkbook(view models.ScheduleView) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close happens explicitly below.

	if _, err := f.NewSheet(SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	// Deleting the default sheet shifts indexes, so look ours up again.
	index, err := f.GetSheetIndex(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to find sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, 0, len(view.Candidates)+2)
	header = append(header, "Participant")
	for _, c := range view.Candidates {
		header = append(header, c.CandidateName)
	}
	header = append(header, "Comment")
	if err := setRow(f, 1, header); err != nil {
		f.Close()
		return nil, err
	}
	lastCol, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	row := 2
	for _, r := range view.Rows {
		values := make([]interface{}, 0, len(header))
		values = append(values, r.Participant.Username)
		for _, cell := range r.Cells {
			values = append(values, Label(cell))
		}
		comment := ""
		if r.Comment != nil {
			comment = *r.Comment
		}
		values = append(values, comment)
		if err := setRow(f, row, values); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}

	// Tallies, one blank row below the participants.
	row++
	tallies := []struct {
		label string
		value func(models.CandidateSummary) int
	}{
		{"Present", func(s models.CandidateSummary) int { return s.Present }},
		{"Uncertain", func(s models.CandidateSummary) int { return s.Uncertain }},
		{"Absent", func(s models.CandidateSummary) int { return s.Absent }},
		{"Rank", func(s models.CandidateSummary) int { return s.Rank }},
	}
	for _, t := range tallies {
		values := make([]interface{}, 0, len(view.Summary)+1)
		values = append(values, t.label)
		for _, s := range view.Summary {
			values = append(values, t.value(s))
		}
		if err := setRow(f, row, values); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}

	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
