package attendance_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// sampleRows mirrors the biometric export: three banner rows, the header on
// row index 3, a blank row, then employee blocks.
func sampleRows(out string) [][]any {
	return [][]any{
		{"Daily Attendance Report"},
		{"Period", "01-Jan-2025 to 03-Jan-2025"},
		{},
		{"Date", "First IN", "Last OUT", "Gross Hours", "Shift"},
		{},
		{"101 - John Doe"},
		{"2025-01-01", "09:00", "18:00", "09:00", "G"},
		{"2025-01-02", "09:15", "18:05", "08:50", "G"},
		{"2025-01-03", "09:05", out, "08:55", "G"},
	}
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func toRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j], _ = v.(string)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }
