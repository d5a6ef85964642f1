// Package bulkimport ingests Students and GatePasses from tabular files.
// Rows are processed in small per-transaction batches with row-level fault
// isolation and an exponential backoff retry around each batch, matching a
// storage backend prone to short-lived exclusive locks.
package bulkimport

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gatepass/internal/gperr"

	"github.com/xuri/excelize/v2"
)

// batchSize bounds lock duration; a backend with better write concurrency
// may enlarge it without changing correctness.
const batchSize = 5

// Table is a parsed spreadsheet: one header row plus data rows. Data rows may
// be shorter than the header when trailing cells are empty.
type Table struct {
	Headers []string
	Rows    [][]string
}

// LoadTable parses path by extension. Only .csv, .xlsx and .xls are accepted;
// anything else is rejected before parsing.
func LoadTable(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xls":
		return loadExcel(path)
	default:
		return nil, gperr.Validation("invalid file format %q; accepted formats: .xlsx, .xls, .csv", ext)
	}
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error loading file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error loading file: %w", err)
	}
	if len(records) == 0 {
		return nil, gperr.Validation("file contains no rows")
	}
	return newTable(records), nil
}

func loadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, gperr.Validation("file contains no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error loading file: %w", err)
	}
	if len(records) == 0 {
		return nil, gperr.Validation("file contains no rows")
	}
	return newTable(records), nil
}

func newTable(records [][]string) *Table {
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &Table{Headers: headers, Rows: records[1:]}
}

// Cell returns the trimmed value at column idx, tolerating short rows.
// idx < 0 means "column not present".
func (t *Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ColumnIndex matches name against the headers exactly.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// FuzzyColumnIndex matches name case-insensitively with all whitespace
// removed, so "Hall Ticket No", "hall ticket no" and "HallTicketNo" all
// resolve to the same column.
func (t *Table) FuzzyColumnIndex(name string) int {
	want := normalizeHeader(name)
	for i, h := range t.Headers {
		if normalizeHeader(h) == want {
			return i
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripFraction drops a trailing fractional artifact left by spreadsheet
// numeric cells (e.g. "9391811184.0" -> "9391811184").
func stripFraction(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
	"01-02-06",
}

// parseDate parses a date cell leniently, returning the date-only value.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"03:04 PM",
	"3:04PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTime parses a time cell leniently and normalizes it to 24h "HH:MM".
func parseTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", s)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
