package bulkimport

import (
	"fmt"
	"log"
	"strings"

	"gatepass/internal/models"
	"gatepass/internal/repository"
	"gatepass/internal/utils"

	"gorm.io/gorm"
)

// studentColumns are the required headers, matched case-insensitively with
// whitespace normalized. Email is the one optional column.
var studentColumns = []string{
	"Student Name", "Hall Ticket No", "Room No",
	"Gender", "Email", "Mobile", "Parent Name", "Parent Mobile",
}

// StudentRowSuccess describes one imported row. Password is the generated
// initial credential, surfaced once for out-of-band delivery.
type StudentRowSuccess struct {
	Row          int    `json:"row"`
	Username     string `json:"username"`
	StudentName  string `json:"student_name"`
	HallTicketNo string `json:"hall_ticket_no"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password"`
	Approved     bool   `json:"approved"`
}

// StudentImporter ingests student rows from an .xlsx/.xls/.csv file,
// creating a User and a Student per valid row.
type StudentImporter struct {
	db   *gorm.DB
	path string

	Successes []StudentRowSuccess
	Errors    []string

	// deliverCredential runs after a batch commits, for rows that carry an
	// email. Delivery faults are logged, never row errors.
	deliverCredential func(email, username, password string) error

	// beforeBatch is a test hook invoked at the start of each batch
	// transaction.
	beforeBatch func(batchStart int) error
}

func NewStudentImporter(db *gorm.DB, path string) *StudentImporter {
	return &StudentImporter{
		db:                db,
		path:              path,
		deliverCredential: utils.DeliverInitialCredential,
	}
}

// Import runs the pipeline and reports whether every row imported cleanly.
// Partial success leaves valid rows persisted; per-row failures are listed in
// Errors with their 1-based (header-offset) row numbers.
func (si *StudentImporter) Import() bool {
	table, err := LoadTable(si.path)
	if err != nil {
		si.Errors = append(si.Errors, err.Error())
		return false
	}

	cols := make(map[string]int, len(studentColumns))
	var missing []string
	for _, name := range studentColumns {
		idx := table.FuzzyColumnIndex(name)
		cols[name] = idx
		if idx < 0 && name != "Email" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		si.Errors = append(si.Errors, "Missing required columns: "+strings.Join(missing, ", "))
		return false
	}
	approvedIdx := table.FuzzyColumnIndex("Approved")

	for batchStart := 0; batchStart < len(table.Rows); batchStart += batchSize {
		batchEnd := batchStart + batchSize
		if batchEnd > len(table.Rows) {
			batchEnd = len(table.Rows)
		}

		// Snapshot result lengths so a retried batch does not duplicate
		// outcomes recorded by a failed attempt.
		successMark := len(si.Successes)
		errorMark := len(si.Errors)

		processBatch := func() error {
			si.Successes = si.Successes[:successMark]
			si.Errors = si.Errors[:errorMark]
			return si.db.Transaction(func(tx *gorm.DB) error {
				if si.beforeBatch != nil {
					if err := si.beforeBatch(batchStart); err != nil {
						return err
					}
				}
				for i := batchStart; i < batchEnd; i++ {
					si.importRow(tx, table, cols, approvedIdx, i, table.Rows[i])
				}
				return nil
			})
		}

		if err := executeWithRetry(processBatch); err != nil {
			si.Errors = append(si.Errors,
				fmt.Sprintf("Database error at rows %d-%d: %v", batchStart+2, batchEnd+1, err))
			resetConnection(si.db)
			return false
		}
		for _, s := range si.Successes[successMark:] {
			if s.Email == "" {
				continue
			}
			if err := si.deliverCredential(s.Email, s.Username, s.Password); err != nil {
				log.Printf("Failed to deliver initial credential to %s: %v", s.Email, err)
			}
		}
		resetConnection(si.db)
	}

	return len(si.Errors) == 0
}

// importRow validates and applies one row. Failures append to Errors and
// return; they never abort the surrounding batch.
func (si *StudentImporter) importRow(tx *gorm.DB, table *Table, cols map[string]int, approvedIdx, idx int, row []string) {
	rowNo := idx + 2 // 1-based plus header row

	studentName := table.Cell(row, cols["Student Name"])
	hallTicketNo := table.Cell(row, cols["Hall Ticket No"])
	roomNo := table.Cell(row, cols["Room No"])
	gender := table.Cell(row, cols["Gender"])
	email := table.Cell(row, cols["Email"])
	mobile := table.Cell(row, cols["Mobile"])
	parentName := table.Cell(row, cols["Parent Name"])
	parentMobile := table.Cell(row, cols["Parent Mobile"])

	isApproved := true
	if v := table.Cell(row, approvedIdx); v != "" {
		isApproved = parseBool(v)
	}

	if studentName == "" || hallTicketNo == "" || roomNo == "" || gender == "" ||
		mobile == "" || parentName == "" || parentMobile == "" {
		si.Errors = append(si.Errors, fmt.Sprintf(
			"Row %d: Missing required fields (Student Name, Hall Ticket No, Room No, Gender, Mobile, Parent Name, Parent Mobile)", rowNo))
		return
	}

	mobileStr := stripFraction(mobile)
	parentMobileStr := stripFraction(parentMobile)
	if !isDigits(mobileStr) || len(mobileStr) != 10 {
		si.Errors = append(si.Errors, fmt.Sprintf(
			"Row %d: Invalid student mobile (must be 10 digits), got '%s'", rowNo, mobile))
		return
	}
	if !isDigits(parentMobileStr) || len(parentMobileStr) != 10 {
		si.Errors = append(si.Errors, fmt.Sprintf(
			"Row %d: Invalid parent mobile (must be 10 digits), got '%s'", rowNo, parentMobile))
		return
	}

	switch strings.ToLower(gender) {
	case "male", "m":
		gender = "M"
	case "female", "f":
		gender = "F"
	default:
		si.Errors = append(si.Errors, fmt.Sprintf(
			"Row %d: Invalid gender '%s' (must be Male/Female or M/F)", rowNo, gender))
		return
	}

	if email != "" && (!strings.Contains(email, "@") || !strings.Contains(email, ".")) {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: Invalid email format", rowNo))
		return
	}

	username := DeriveUsername(studentName, hallTicketNo)

	students := repository.NewStudentRepository(tx)
	users := repository.NewUserRepository(tx)

	if exists, err := students.HallTicketExists(hallTicketNo); err != nil {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	} else if exists {
		si.Errors = append(si.Errors, fmt.Sprintf(
			"Row %d: Student with hall ticket %s already exists", rowNo, hallTicketNo))
		return
	}
	if exists, err := users.UsernameExists(username); err != nil {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	} else if exists {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: Username %s already exists", rowNo, username))
		return
	}
	if exists, err := users.MobileExists(mobileStr); err != nil {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	} else if exists {
		si.Errors = append(si.Errors, fmt.Sprintf(
			"Row %d: Mobile number %s already exists", rowNo, mobileStr))
		return
	}
	if exists, err := students.ParentMobileExists(parentMobileStr); err != nil {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	} else if exists {
		si.Errors = append(si.Errors, fmt.Sprintf(
			"Row %d: Parent mobile %s already exists", rowNo, parentMobileStr))
		return
	}

	password := utils.GeneratePassword(12)
	hash, err := utils.HashPassword(password)
	if err != nil {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Password:     hash,
		Role:         models.RoleStudent,
		Gender:       gender,
		MobileNumber: mobileStr,
		IsApproved:   isApproved,
		IsActive:     true,
	}
	if err := users.CreateUser(user); err != nil {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	}

	student := &models.Student{
		UserID:       user.ID,
		HallTicketNo: hallTicketNo,
		StudentName:  studentName,
		RoomNo:       roomNo,
		ParentName:   parentName,
		ParentMobile: parentMobileStr,
	}
	if err := students.CreateStudent(student); err != nil {
		si.Errors = append(si.Errors, fmt.Sprintf("Row %d: %v", rowNo, err))
		return
	}

	si.Successes = append(si.Successes, StudentRowSuccess{
		Row:          rowNo,
		Username:     username,
		StudentName:  studentName,
		HallTicketNo: hallTicketNo,
		Email:        email,
		Password:     password,
		Approved:     isApproved,
	})
}

// DeriveUsername builds the deterministic login name
// "{name-without-spaces}@{last 4 chars of hall ticket}".
func DeriveUsername(studentName, hallTicketNo string) string {
	suffix := hallTicketNo
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return strings.ReplaceAll(studentName, " ", "") + "@" + suffix
}
