package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsSource reads a bill export straight from a Google Sheets tab,
// as an alternative to uploading a file.
type SheetsSource struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheets creates a Sheets source using Service Account credentials from
// the environment: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewSheets(ctx context.Context, spreadsheetID, sheetName string) (*SheetsSource, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName = strings.TrimSpace(sheetName); sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsSource{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func credentialsFromEnv() ([]byte, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Read fetches the whole tab. The first row is the header; trailing blank
// rows are dropped. Short rows are padded to the header width so ingest
// sees a rectangular table.
func (s *SheetsSource) Read(ctx context.Context) ([]string, [][]string, error) {
	rng := fmt.Sprintf("%s!A:Z", s.sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", s.sheetName, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, errors.New("sheet has no header row")
	}

	header := toStrings(resp.Values[0])
	var rows [][]string
	for _, raw := range resp.Values[1:] {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, strings.TrimSpace(fmt.Sprint(v)))
	}
	return out
}
