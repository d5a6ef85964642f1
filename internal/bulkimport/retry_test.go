package bulkimport

import (
	"errors"
	"testing"
	"time"

	"gatepass/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = orig })
	return &slept
}

func TestExecuteWithRetryBackoff(t *testing.T) {
	slept := stubSleep(t)

	calls := 0
	err := executeWithRetry(func() error {
		calls++
		if calls < 4 {
			return errors.New("database is locked")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	// 1s, 2s, 4s, doubling toward the 10s cap.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *slept)
}

func TestExecuteWithRetryCapsDelay(t *testing.T) {
	slept := stubSleep(t)

	err := executeWithRetry(func() error {
		return errors.New("disk i/o error")
	})
	require.Error(t, err)
	require.Len(t, *slept, maxRetries-1)
	assert.Equal(t, maxDelay, (*slept)[len(*slept)-1])
}

func TestExecuteWithRetryNonTransient(t *testing.T) {
	slept := stubSleep(t)

	calls := 0
	boom := errors.New("constraint violation")
	err := executeWithRetry(func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

// A batch that fails transiently mid-import must not duplicate row outcomes
// when it is retried.
func TestStudentImportRetriesLockedBatch(t *testing.T) {
	stubSleep(t)
	db := newTestDB(t)

	path := writeCSV(t,
		studentHeader,
		studentRow("One Person", "22D01A0001", "9000000001", "9000000002"),
		studentRow("Two Person", "22D01A0003", "9000000003", "9000000004"),
		studentRow("Three Person", "22D01A0005", "9000000005", "9000000006"),
		studentRow("Four Person", "22D01A0007", "9000000007", "9000000008"),
		studentRow("Five Person", "22D01A0009", "9000000009", "9000000010"),
		studentRow("Six Person", "22D01A0011", "9000000011", "9000000012"),
	)

	importer := NewStudentImporter(db, path)
	failures := 2
	importer.beforeBatch = func(batchStart int) error {
		if batchStart == 0 && failures > 0 {
			failures--
			return errors.New("database is locked")
		}
		return nil
	}

	require.True(t, importer.Import(), "errors: %v", importer.Errors)
	assert.Len(t, importer.Successes, 6)
	assert.Empty(t, importer.Errors)

	var count int64
	require.NoError(t, db.Model(&models.Student{}).Count(&count).Error)
	assert.EqualValues(t, 6, count)
}

func TestStudentImportRetryExhaustion(t *testing.T) {
	stubSleep(t)
	db := newTestDB(t)

	path := writeCSV(t,
		studentHeader,
		studentRow("One Person", "22D01A0001", "9000000001", "9000000002"),
	)

	importer := NewStudentImporter(db, path)
	importer.beforeBatch = func(batchStart int) error {
		return errors.New("database is locked")
	}

	assert.False(t, importer.Import())
	require.Len(t, importer.Errors, 1)
	assert.Contains(t, importer.Errors[0], "Database error at rows 2-2")

	var count int64
	require.NoError(t, db.Model(&models.Student{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestGatePassImportRetriesLockedBatch(t *testing.T) {
	stubSleep(t)
	db := newTestDB(t)
	seedStudent(t, db, "22D01A6607")

	path := writeCSV(t,
		gatePassHeader,
		"22D01A6607,2025-01-15,09:00,2025-01-15,18:00,Family visit,pending",
		"22D01A6607,2025-01-16,09:00,2025-01-16,18:00,Family visit,completed",
	)

	importer := NewGatePassImporter(db, path)
	failed := false
	importer.beforeBatch = func(batchStart int) error {
		if !failed {
			failed = true
			return errors.New("database is locked")
		}
		return nil
	}

	require.True(t, importer.Import(), "errors: %v", importer.Errors)
	assert.Len(t, importer.Successes, 2)

	var count int64
	require.NoError(t, db.Model(&models.GatePass{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
