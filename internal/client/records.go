package client

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"sponsor/etl/internal/domain"
)

// ParseRecords decodes one tab's CSV text into a Sheet. The first
// non-blank line supplies the column headers, every cell is trimmed
// and fully blank lines are dropped. No semantic validation happens
// here.
func ParseRecords(name domain.TabName, csvText string) (*domain.Sheet, error) {
	csvText = strings.TrimPrefix(csvText, "\xef\xbb\xbf")

	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1

	sheet := &domain.Sheet{Name: name}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse tab %s: %w", name, err)
		}

		cells := make([]string, len(row))
		blank := true
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		if sheet.Headers == nil {
			sheet.Headers = cells
			sheet.Grid = append(sheet.Grid, cells)
			continue
		}

		record := make(domain.Record, len(sheet.Headers))
		for i, header := range sheet.Headers {
			if i < len(cells) {
				record[header] = cells[i]
			} else {
				record[header] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, record)
		sheet.Grid = append(sheet.Grid, cells)
	}

	return sheet, nil
}
