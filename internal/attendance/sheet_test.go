package attendance_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"hr-ops/internal/attendance"
	attendanceerrors "hr-ops/internal/attendance/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{name: "iso", value: "2025-01-02", ok: true},
		{name: "us slash", value: "1/2/2025", ok: true},
		{name: "day month name", value: "02-Jan-2025", ok: true},
		{name: "excel serial", value: "45659", ok: true},
		{name: "datetime", value: "2025-01-02 07:30:00", ok: true},
		{name: "ambiguous reads month first", value: "01-02-2025", ok: true},
		{name: "label", value: "101 - John Doe", ok: false},
		{name: "small number is not a date", value: "101", ok: false},
		{name: "empty", value: "  ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := attendance.ParseDate(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseDate_DayFirstFallback(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{value: "13-01-2025", want: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{value: "13/01/2025", want: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{value: "31/12/24", want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{value: "25-1-2025", want: time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := attendance.ParseDate(tt.value)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  *string
	}{
		{name: "hh:mm", value: "09:05", want: strPtr("09:05:00")},
		{name: "hh:mm:ss", value: "18:30:15", want: strPtr("18:30:15")},
		{name: "twelve hour", value: "6:30 PM", want: strPtr("18:30:00")},
		{name: "day fraction", value: "0.375", want: strPtr("09:00:00")},
		{name: "serial datetime", value: "45659.75", want: strPtr("18:00:00")},
		{name: "datetime string", value: "2025-01-02 08:45:00", want: strPtr("08:45:00")},
		{name: "placeholder", value: "--:--", want: nil},
		{name: "empty", value: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attendance.ParseClock(tt.value))
		})
	}
}

func TestReadSheet_XLSX(t *testing.T) {
	data := buildWorkbook(t, sampleRows("18:00"))

	rows, err := attendance.ReadSheet(bytes.NewReader(data), "export.xlsx")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 9)
	assert.Equal(t, []string{"Date", "First IN", "Last OUT", "Gross Hours", "Shift"}, rows[3])
	assert.Equal(t, "101 - John Doe", rows[5][0])
}

func TestReadSheet_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := attendance.ReadSheet(bytes.NewReader(nil), "export.xlsx")
		assert.True(t, errors.Is(err, attendanceerrors.ErrEmptyInput))
	})

	t.Run("workbook without cells", func(t *testing.T) {
		data := buildWorkbook(t, nil)
		_, err := attendance.ReadSheet(bytes.NewReader(data), "export.xlsx")
		assert.True(t, errors.Is(err, attendanceerrors.ErrEmptyInput))
	})

	t.Run("not a spreadsheet", func(t *testing.T) {
		_, err := attendance.ReadSheet(bytes.NewReader([]byte("id,name\n1,a\n")), "export.xls")
		assert.True(t, errors.Is(err, attendanceerrors.ErrUnreadableFile))
	})
}
