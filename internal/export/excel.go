package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/xuri/excelize/v2"
)

const (
	candidatesSheet = "Candidates"
	positionsSheet  = "Positions"
)

var candidateHeaders = []string{
	"ID", "Position", "Full name", "Status", "Programming languages", "Technologies",
	"Languages", "Email", "Phone", "Telegram", "Resume", "Created",
}

// WriteCandidates saves the candidates of the given positions to an .xlsx
// workbook with one row per candidate and a per-position summary sheet
func WriteCandidates(candidates []core.Candidate, positions []core.Position, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(positionsSheet); err != nil {
		return fmt.Errorf("failed to create positions sheet: %w", err)
	}

	names := make(map[int64]string, len(positions))
	for _, p := range positions {
		names[p.ID] = p.Name
	}

	if err := writeCandidatesSheet(f, candidates, names); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := writePositionsSheet(f, candidates, positions); err != nil {
		return fmt.Errorf("failed to create positions sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeCandidatesSheet(f *excelize.File, candidates []core.Candidate, positionNames map[int64]string) error {
	if err := writeHeader(f, candidatesSheet, candidateHeaders); err != nil {
		return err
	}
	f.SetColWidth(candidatesSheet, "B", "C", 28)
	f.SetColWidth(candidatesSheet, "E", "G", 30)
	f.SetColWidth(candidatesSheet, "H", "K", 24)
	f.SetColWidth(candidatesSheet, "L", "L", 20)

	for i, c := range candidates {
		row := []interface{}{
			c.ID,
			positionNames[c.PositionID],
			c.FullName,
			string(c.Status),
			c.ProgrammingLanguages,
			c.Technologies,
			c.Languages,
			optional(c.Email),
			optional(c.Phone),
			c.Telegram,
			c.CVFile,
			c.CreatedAt.Format(time.DateTime),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(candidatesSheet, cell, &row); err != nil {
			return err
		}
	}

	if len(candidates) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(candidateHeaders), len(candidates)+1)
		if err := f.AutoFilter(candidatesSheet, "A1:"+last, nil); err != nil {
			return err
		}
	}
	return nil
}

func writePositionsSheet(f *excelize.File, candidates []core.Candidate, positions []core.Position) error {
	if err := writeHeader(f, positionsSheet, []string{"ID", "Position", "Requirements", "Candidates"}); err != nil {
		return err
	}
	f.SetColWidth(positionsSheet, "B", "B", 28)
	f.SetColWidth(positionsSheet, "C", "C", 60)

	counts := make(map[int64]int, len(positions))
	for _, c := range candidates {
		counts[c.PositionID]++
	}

	for i, p := range positions {
		row := []interface{}{p.ID, p.Name, p.Requirements, counts[p.ID]}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(positionsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
