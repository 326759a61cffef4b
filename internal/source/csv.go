package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVSource reads a comma-separated bill export from an io.Reader, as
// produced by the upload endpoint or a local file.
type CSVSource struct {
	r io.Reader
}

func NewCSV(r io.Reader) *CSVSource {
	return &CSVSource{r: r}
}

// Read parses the full input. The first non-empty row is the header; cell
// values are trimmed. Rows with a different field count than the header
// fail the read.
func (s *CSVSource) Read(ctx context.Context) ([]string, [][]string, error) {
	reader := csv.NewReader(s.r)
	reader.TrimLeadingSpace = true

	var header []string
	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if header == nil {
			if isBlank(row) {
				continue
			}
			header = row
			continue
		}
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}
	if header == nil {
		return nil, nil, errors.New("csv input has no header row")
	}
	return header, rows, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
