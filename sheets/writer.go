package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ChangeRow is one classification outcome to append to the change log
type ChangeRow struct {
	Kind      string // "new", "changed", "removed"
	OldNumber int    // 0 when not applicable
	NewNumber int    // 0 when not applicable
	Title     string
	Fields    string // comma-separated changed fields, empty otherwise
}

// Writer appends change-log rows to a Google Sheets spreadsheet
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a new Google Sheets writer
func NewWriter(spreadsheetID string, credentialsPath string) (*Writer, error) {
	ctx := context.Background()

	// Read credentials from file or environment variable
	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	// Validate that it's a service account credentials file
	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// AppendChanges appends one row per classification to the change log
func (w *Writer) AppendChanges(runAt time.Time, changes []ChangeRow) error {
	if len(changes) == 0 {
		log.Println("No changes to write")
		return nil
	}

	timestamp := runAt.Format("2006-01-02 15:04:05")
	var values [][]interface{}
	for _, c := range changes {
		values = append(values, []interface{}{
			timestamp,
			c.Kind,
			numberCell(c.OldNumber),
			numberCell(c.NewNumber),
			c.Title,
			c.Fields,
		})
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}
	_, err := w.service.Spreadsheets.Values.Append(w.spreadsheetID, "Sheet1!A1", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheets: %w", err)
	}

	log.Printf("Successfully appended %d change rows to Google Sheets\n", len(changes))
	return nil
}

// numberCell renders a page number, leaving the cell empty for 0
func numberCell(number int) interface{} {
	if number == 0 {
		return ""
	}
	return number
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	re := regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	matches := re.FindStringSubmatch(url)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}
