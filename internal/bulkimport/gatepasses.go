package bulkimport

import (
	"errors"
	"fmt"
	"strings"

	"gatepass/internal/models"
	"gatepass/internal/repository"

	"gorm.io/gorm"
)

// The gate pass importer auto-detects one of two header conventions; a file
// must fully match exactly one of them.
var (
	gatePassCodeColumns = []string{
		"hall_ticket_no", "outing_date", "outing_time",
		"expected_return_date", "expected_return_time", "purpose", "status",
	}
	gatePassExcelColumns = []string{
		"Hall Ticket No", "Outing Date", "Outing Time",
		"Expected Return Date", "Expected Return Time", "Purpose", "Status",
	}
)

type GatePassRowSuccess struct {
	Row        int    `json:"row"`
	Student    string `json:"student"`
	HallTicket string `json:"hall_ticket"`
	OutingDate string `json:"outing_date"`
	Status     string `json:"status"`
}

// GatePassImporter ingests historical gate pass rows, resolving students by
// hall ticket. It bypasses the single-request workflow but reuses the same
// status vocabulary.
type GatePassImporter struct {
	db   *gorm.DB
	path string

	Successes []GatePassRowSuccess
	Errors    []string

	beforeBatch func(batchStart int) error
}

func NewGatePassImporter(db *gorm.DB, path string) *GatePassImporter {
	return &GatePassImporter{db: db, path: path}
}

func (gi *GatePassImporter) Import() bool {
	table, err := LoadTable(gi.path)
	if err != nil {
		gi.Errors = append(gi.Errors, err.Error())
		return false
	}

	cols, ok := gi.resolveColumns(table)
	if !ok {
		return false
	}

	for batchStart := 0; batchStart < len(table.Rows); batchStart += batchSize {
		batchEnd := batchStart + batchSize
		if batchEnd > len(table.Rows) {
			batchEnd = len(table.Rows)
		}

		successMark := len(gi.Successes)
		errorMark := len(gi.Errors)

		processBatch := func() error {
			gi.Successes = gi.Successes[:successMark]
			gi.Errors = gi.Errors[:errorMark]
			return gi.db.Transaction(func(tx *gorm.DB) error {
				if gi.beforeBatch != nil {
					if err := gi.beforeBatch(batchStart); err != nil {
						return err
					}
				}
				for i := batchStart; i < batchEnd; i++ {
					gi.importRow(tx, table, cols, i, table.Rows[i])
				}
				return nil
			})
		}

		if err := executeWithRetry(processBatch); err != nil {
			gi.Errors = append(gi.Errors,
				fmt.Sprintf("Database error at rows %d-%d: %v", batchStart+2, batchEnd+1, err))
			resetConnection(gi.db)
			return false
		}
		resetConnection(gi.db)
	}

	return len(gi.Errors) == 0
}

// resolveColumns maps canonical snake_case names to column indexes, whichever
// header convention the file uses. Optional columns resolve fuzzily in either
// convention.
func (gi *GatePassImporter) resolveColumns(table *Table) (map[string]int, bool) {
	hasCode := true
	for _, name := range gatePassCodeColumns {
		if table.ColumnIndex(name) < 0 {
			hasCode = false
			break
		}
	}
	hasExcel := true
	for _, name := range gatePassExcelColumns {
		if table.ColumnIndex(name) < 0 {
			hasExcel = false
			break
		}
	}

	if !hasCode && !hasExcel {
		gi.Errors = append(gi.Errors, fmt.Sprintf(
			"Missing required columns. Expected either code format %v or Excel format %v",
			gatePassCodeColumns, gatePassExcelColumns))
		return nil, false
	}

	cols := make(map[string]int)
	for i, name := range gatePassCodeColumns {
		if hasCode {
			cols[name] = table.ColumnIndex(name)
		} else {
			cols[name] = table.ColumnIndex(gatePassExcelColumns[i])
		}
	}
	for _, name := range []string{"actual_return_date", "actual_return_time", "parent_verification"} {
		cols[name] = table.FuzzyColumnIndex(name)
	}
	return cols, true
}

func (gi *GatePassImporter) importRow(tx *gorm.DB, table *Table, cols map[string]int, idx int, row []string) {
	rowNo := idx + 2

	hallTicketNo := table.Cell(row, cols["hall_ticket_no"])
	purpose := table.Cell(row, cols["purpose"])
	statusRaw := table.Cell(row, cols["status"])

	if hallTicketNo == "" || purpose == "" || statusRaw == "" {
		gi.Errors = append(gi.Errors, fmt.Sprintf("Row %d: Missing required fields", rowNo))
		return
	}

	outingDate, err := parseDate(table.Cell(row, cols["outing_date"]))
	if err != nil {
		gi.Errors = append(gi.Errors, fmt.Sprintf("Row %d: Invalid date/time format - %v", rowNo, err))
		return
	}
	outingTime, err := parseTime(table.Cell(row, cols["outing_time"]))
	if err != nil {
		gi.Errors = append(gi.Errors, fmt.Sprintf("Row %d: Invalid date/time format - %v", rowNo, err))
		return
	}
	returnDate, err := parseDate(table.Cell(row, cols["expected_return_date"]))
	if err != nil {
		gi.Errors = append(gi.Errors, fmt.Sprintf("Row %d: Invalid date/time format - %v", rowNo, err))
		return
	}
	returnTime, err := parseTime(table.Cell(row, cols["expected_return_time"]))
	if err != nil {
		gi.Errors = append(gi.Errors, fmt.Sprintf("Row %d: Invalid date/time format - %v", rowNo, err))
		return
	}

	gp := &models.GatePass{
		OutingDate:         outingDate,
		OutingTime:         outingTime,
		ExpectedReturnDate: returnDate,
		ExpectedReturnTime: returnTime,
		Purpose:            purpose,
	}

	// Optional fields; parse failures here are ignored, not row errors.
	if v := table.Cell(row, cols["actual_return_date"]); v != "" {
		if d, err := parseDate(v); err == nil {
			gp.ActualReturnDate = &d
		}
	}
	if v := table.Cell(row, cols["actual_return_time"]); v != "" {
		if t, err := parseTime(v); err == nil {
			gp.ActualReturnTime = t
		}
	}
	gp.ParentVerification = parseBool(table.Cell(row, cols["parent_verification"]))

	student, err := repository.NewStudentRepository(tx).GetStudentByHallTicket(hallTicketNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			gi.Errors = append(gi.Errors, fmt.Sprintf(
				"Row %d: Student with hall ticket '%s' not found", rowNo, hallTicketNo))
		} else {
			gi.Errors = append(gi.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		}
		return
	}
	gp.StudentID = student.ID

	status, ok := models.NormalizeStatus(statusRaw)
	if !ok || status == "" {
		gi.Errors = append(gi.Errors, fmt.Sprintf(
			"Row %d: Invalid status '%s'. Must be one of: %s",
			rowNo, statusRaw, strings.Join(models.ValidStatuses(), ", ")))
		return
	}
	gp.Status = status

	if err := repository.NewGatePassRepository(tx).CreateGatePass(gp); err != nil {
		gi.Errors = append(gi.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	}

	gi.Successes = append(gi.Successes, GatePassRowSuccess{
		Row:        rowNo,
		Student:    student.StudentName,
		HallTicket: hallTicketNo,
		OutingDate: outingDate.Format("2006-01-02"),
		Status:     status,
	})
}
