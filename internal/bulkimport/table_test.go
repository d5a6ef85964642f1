package bulkimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTableCSV(t *testing.T) {
	path := writeCSV(t,
		"Name, Value ,Extra",
		"a,1,x",
		"b,2", // short row
	)

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Value", "Extra"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "x", table.Cell(table.Rows[0], 2))
	assert.Equal(t, "", table.Cell(table.Rows[1], 2))
	assert.Equal(t, "", table.Cell(table.Rows[0], -1))
}

func TestLoadTableRejectsUnknownExtension(t *testing.T) {
	_, err := LoadTable("data.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestColumnMatching(t *testing.T) {
	table := &Table{Headers: []string{"Hall Ticket No", "outing_date", " Parent  Mobile "}}

	assert.Equal(t, 0, table.ColumnIndex("Hall Ticket No"))
	assert.Equal(t, -1, table.ColumnIndex("hall_ticket_no"))

	assert.Equal(t, 0, table.FuzzyColumnIndex("hall ticket no"))
	assert.Equal(t, 0, table.FuzzyColumnIndex("HALLTICKETNO"))
	assert.Equal(t, 2, table.FuzzyColumnIndex("Parent Mobile"))
	assert.Equal(t, -1, table.FuzzyColumnIndex("Status"))
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{
		"2025-01-15", "2025/01/15", "15-01-2025", "15/01/2025",
		"2025-01-15 10:30:00", "Jan 15, 2025", "15 Jan 2025",
	} {
		d, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, time.January, d.Month(), raw)
		assert.Equal(t, 15, d.Day(), raw)
		assert.Equal(t, 0, d.Hour(), raw)
	}

	_, err := parseDate("yesterday")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	cases := map[string]string{
		"09:30":    "09:30",
		"09:30:45": "09:30",
		"9:30 AM":  "09:30",
		"6:15 PM":  "18:15",
		"6:15PM":   "18:15",
	}
	for raw, want := range cases {
		got, err := parseTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := parseTime("noonish")
	assert.Error(t, err)
}

func TestStripFraction(t *testing.T) {
	assert.Equal(t, "9391811184", stripFraction("9391811184.0"))
	assert.Equal(t, "9391811184", stripFraction("9391811184"))
	assert.Equal(t, "9391811184", stripFraction(" 9391811184.25 "))
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "Yes", "y", " TRUE "} {
		assert.True(t, parseBool(v), v)
	}
	for _, v := range []string{"", "0", "no", "false", "maybe"} {
		assert.False(t, parseBool(v), v)
	}
}
