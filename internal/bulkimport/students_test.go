package bulkimport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gatepass/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Student{}, &models.GatePass{},
		&models.ParentVerification{}, &models.Notification{},
	))
	// Pin one connection for the test's lifetime: the shared-cache in-memory
	// database is destroyed once its last connection closes, and the importer
	// releases idle connections between batches.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return db
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

const studentHeader = "Student Name,Hall Ticket No,Room No,Gender,Email,Mobile,Parent Name,Parent Mobile"

func studentRow(name, hallTicket, mobile, parentMobile string) string {
	return strings.Join([]string{
		name, hallTicket, "A-101", "Female", "", mobile, "Parent " + name, parentMobile,
	}, ",")
}

func TestStudentImportClean(t *testing.T) {
	db := newTestDB(t)
	path := writeCSV(t,
		studentHeader,
		studentRow("Jane Doe", "22D01A6607", "9391811184", "9391811185"),
		studentRow("Asha Rao", "22D01A6608", "9391811186", "9391811187"),
	)

	importer := NewStudentImporter(db, path)
	assert.True(t, importer.Import())
	assert.Empty(t, importer.Errors)
	require.Len(t, importer.Successes, 2)

	first := importer.Successes[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "JaneDoe@6607", first.Username)
	assert.NotEmpty(t, first.Password)
	assert.True(t, first.Approved)

	var user models.User
	require.NoError(t, db.Where("username = ?", "JaneDoe@6607").First(&user).Error)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "F", user.Gender)
	assert.True(t, user.IsApproved)
	assert.NotEqual(t, first.Password, user.Password)

	var student models.Student
	require.NoError(t, db.Where("hall_ticket_no = ?", "22D01A6607").First(&student).Error)
	assert.Equal(t, user.ID, student.UserID)
	assert.Equal(t, "9391811185", student.ParentMobile)
}

func TestStudentImportPartialFailure(t *testing.T) {
	db := newTestDB(t)
	path := writeCSV(t,
		studentHeader,
		studentRow("Good One", "22D01A0001", "9000000001", "9000000002"),
		"Bad Row,22D01A0002,A-101,Female,,12345,Parent,9000000004",
		studentRow("Good Two", "22D01A0003", "9000000005", "9000000006"),
		"No Gender,22D01A0004,A-101,,,9000000007,Parent,9000000008",
	)

	importer := NewStudentImporter(db, path)
	assert.False(t, importer.Import())
	assert.Len(t, importer.Successes, 2)
	require.Len(t, importer.Errors, 2)
	assert.Contains(t, importer.Errors[0], "Row 3")
	assert.Contains(t, importer.Errors[0], "mobile")
	assert.Contains(t, importer.Errors[1], "Row 5")

	// Valid rows persisted despite the failures in between.
	var count int64
	require.NoError(t, db.Model(&models.Student{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestStudentImportMissingColumns(t *testing.T) {
	db := newTestDB(t)
	path := writeCSV(t,
		"Student Name,Room No,Gender",
		"Jane Doe,A-101,F",
	)

	importer := NewStudentImporter(db, path)
	assert.False(t, importer.Import())
	require.Len(t, importer.Errors, 1)
	assert.Contains(t, importer.Errors[0], "Missing required columns")
	assert.Contains(t, importer.Errors[0], "Hall Ticket No")
	assert.Empty(t, importer.Successes)
}

func TestStudentImportFuzzyHeaders(t *testing.T) {
	db := newTestDB(t)
	path := writeCSV(t,
		"student name,HALL TICKET NO,roomno,gender,email,mobile,parentname,parent mobile",
		studentRow("Jane Doe", "22D01A6607", "9391811184", "9391811185"),
	)

	importer := NewStudentImporter(db, path)
	assert.True(t, importer.Import())
	assert.Len(t, importer.Successes, 1)
}

func TestStudentImportSpreadsheetArtifacts(t *testing.T) {
	db := newTestDB(t)
	// Numeric cells export with a trailing ".0"; genders come in long form.
	path := writeCSV(t,
		studentHeader,
		"Ravi Kumar,22D01A0009,A-101,male,ravi@example.com,9391811184.0,P Kumar,9391811185.0",
	)

	importer := NewStudentImporter(db, path)
	require.True(t, importer.Import(), "errors: %v", importer.Errors)

	var student models.Student
	require.NoError(t, db.Where("hall_ticket_no = ?", "22D01A0009").First(&student).Error)
	assert.Equal(t, "9391811185", student.ParentMobile)

	var user models.User
	require.NoError(t, db.First(&user, student.UserID).Error)
	assert.Equal(t, "M", user.Gender)
	assert.Equal(t, "9391811184", user.MobileNumber)
}

func TestStudentImportDuplicates(t *testing.T) {
	db := newTestDB(t)
	path := writeCSV(t,
		studentHeader,
		studentRow("Jane Doe", "22D01A6607", "9000000001", "9000000002"),
		studentRow("Jane Doe", "22D01A6607", "9000000003", "9000000004"),
		studentRow("Other Name", "22D01A6608", "9000000005", "9000000002"),
		studentRow("Fresh Name", "22D01A6609", "9000000001", "9000000009"),
	)

	importer := NewStudentImporter(db, path)
	assert.False(t, importer.Import())
	assert.Len(t, importer.Successes, 1)
	require.Len(t, importer.Errors, 3)
	assert.Contains(t, importer.Errors[0], "already exists")
	assert.Contains(t, importer.Errors[1], "Parent mobile")
	assert.Contains(t, importer.Errors[2], "Mobile number 9000000001 already exists")
}

func TestStudentImportDeliversCredentialByEmail(t *testing.T) {
	db := newTestDB(t)
	path := writeCSV(t,
		studentHeader,
		"Jane Doe,22D01A6607,A-101,Female,jane@example.com,9391811184,John Doe,9391811185",
		studentRow("No Email", "22D01A6608", "9000000001", "9000000002"),
	)

	importer := NewStudentImporter(db, path)
	type delivery struct{ email, username, password string }
	var delivered []delivery
	importer.deliverCredential = func(email, username, password string) error {
		delivered = append(delivered, delivery{email, username, password})
		return nil
	}

	require.True(t, importer.Import(), "errors: %v", importer.Errors)
	require.Len(t, importer.Successes, 2)

	// Only the row with an email gets a credential delivery.
	require.Len(t, delivered, 1)
	assert.Equal(t, "jane@example.com", delivered[0].email)
	assert.Equal(t, "JaneDoe@6607", delivered[0].username)
	assert.Equal(t, importer.Successes[0].Password, delivered[0].password)
}

func TestStudentImportApprovedColumn(t *testing.T) {
	db := newTestDB(t)
	path := writeCSV(t,
		studentHeader+",Approved",
		studentRow("Jane Doe", "22D01A6607", "9000000001", "9000000002")+",no",
		studentRow("Asha Rao", "22D01A6608", "9000000003", "9000000004")+",yes",
	)

	importer := NewStudentImporter(db, path)
	require.True(t, importer.Import(), "errors: %v", importer.Errors)
	require.Len(t, importer.Successes, 2)
	assert.False(t, importer.Successes[0].Approved)
	assert.True(t, importer.Successes[1].Approved)
}

func TestStudentImportRejectsUnknownExtension(t *testing.T) {
	db := newTestDB(t)
	path := filepath.Join(t.TempDir(), "import.pdf")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	importer := NewStudentImporter(db, path)
	assert.False(t, importer.Import())
	require.Len(t, importer.Errors, 1)
	assert.Contains(t, importer.Errors[0], "invalid file format")
}

func TestDeriveUsername(t *testing.T) {
	assert.Equal(t, "JaneDoe@6607", DeriveUsername("Jane Doe", "22D01A6607"))
	assert.Equal(t, "Al@A12", DeriveUsername("Al", "A12"))
	assert.Equal(t, "AshaKRao@0001", DeriveUsername("Asha K Rao", "22D01A0001"))
}
