package attendance

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	attendanceerrors "hr-ops/internal/attendance/errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const clockLayout = "15:04:05"

// Excel serials outside this window are treated as plain numbers, so an
// employee id such as "2025" is never mistaken for a date.
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01/02/06",
	"1-2-2006",
	"01-02-2006",
	"1-2-06",
	"01-02-06",
	// Day-first, reached only when the month-first reading is impossible.
	"2/1/2006",
	"02/01/2006",
	"2/1/06",
	"02/01/06",
	"2-1-2006",
	"02-01-2006",
	"2-1-06",
	"02-01-06",
	"2006/01/02",
	"2006.01.02",
	"02-Jan-2006",
	"2-Jan-06",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006",
	"Monday, January 2, 2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	time.RFC3339,
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"3:04PM",
	"3:04pm",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/06 15:04",
	time.RFC3339,
}

// ReadSheet loads the first worksheet of an .xls or .xlsx export as rows of
// trimmed cell text.
func ReadSheet(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read attendance file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, attendanceerrors.ErrEmptyInput
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		rows, err = readXLS(data)
	default:
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, err
	}
	if isBlank(rows) {
		return nil, attendanceerrors.ErrEmptyInput
	}
	return rows, nil
}

func readXLS(data []byte) (rows [][]string, err error) {
	// The BIFF reader panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, wrapUnreadable(fmt.Errorf("xls reader: %v", r))
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, wrapUnreadable(err)
	}
	if workbook.NumSheets() == 0 {
		return nil, attendanceerrors.ErrEmptyInput
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, attendanceerrors.ErrEmptyInput
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = strings.TrimSpace(row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, wrapUnreadable(err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, attendanceerrors.ErrEmptyInput
	}
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, wrapUnreadable(err)
	}
	for i, row := range rows {
		for j := range row {
			rows[i][j] = strings.TrimSpace(row[j])
		}
	}
	return rows, nil
}

func wrapUnreadable(err error) error {
	e := *attendanceerrors.ErrUnreadableFile
	e.Err = err
	return &e
}

func isBlank(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return false
			}
		}
	}
	return true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseDate recognises the date formats biometric exports use, including
// Excel serial numbers. The result is midnight UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial < minDateSerial || serial > maxDateSerial {
			return time.Time{}, false
		}
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return truncateDay(parsed), true
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return truncateDay(parsed), true
		}
	}
	return time.Time{}, false
}

// ParseClock normalises a time-of-day cell to "15:04:05". Unparseable input
// yields nil rather than a default value.
func ParseClock(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return clockFromSerial(f)
	}

	for _, layout := range clockLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			s := parsed.Format(clockLayout)
			return &s
		}
	}
	return nil
}

// Excel stores a time as a day fraction, or as serial+fraction for datetimes.
func clockFromSerial(f float64) *string {
	if f < 0 {
		return nil
	}
	frac := f
	if f >= 1 {
		if f < minDateSerial || f > maxDateSerial {
			return nil
		}
		frac = f - float64(int64(f))
	}
	secs := int64(frac*86400 + 0.5)
	if secs >= 86400 {
		secs = 86399
	}
	s := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(secs) * time.Second).Format(clockLayout)
	return &s
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
