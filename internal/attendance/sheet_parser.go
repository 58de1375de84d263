package attendance

import (
	"iter"
	"strings"
	"time"
)

const (
	ColumnDate       = "Date"
	ColumnFirstIn    = "First IN"
	ColumnLastOut    = "Last OUT"
	ColumnGrossHours = "Gross Hours"

	// HeaderScanLimit bounds header auto-detection to the top of the sheet.
	HeaderScanLimit = 10

	// defaultHeaderRow is where the biometric export writes its header.
	defaultHeaderRow = 3
)

var requiredColumns = []string{ColumnDate, ColumnFirstIn, ColumnLastOut, ColumnGrossHours}

type ParseOptions struct {
	// HeaderRow is the zero-based header index; negative means auto-detect.
	HeaderRow int
	// SkipAfterHeader is the number of rows between the header and the first
	// data row, counting the header itself.
	SkipAfterHeader int
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{HeaderRow: -1, SkipAfterHeader: 1}
}

// Record is one data row owned by the most recent label row above it.
type Record struct {
	Line       int
	Label      string
	Date       time.Time
	FirstIn    *string
	LastOut    *string
	GrossHours *string
}

type Sheet struct {
	HeaderRow int
	columns   map[string]int
	rows      [][]string
	start     int
}

// ParseSheet locates the header row and the required columns. Rows are not
// classified until Records is ranged over.
func ParseSheet(rows [][]string, opts ParseOptions) (*Sheet, error) {
	headerRow := opts.HeaderRow
	if headerRow < 0 {
		headerRow = detectHeaderRow(rows)
	}

	var header []string
	if headerRow < len(rows) {
		header = rows[headerRow]
	}

	columns := make(map[string]int, len(requiredColumns))
	available := make([]string, 0, len(header))
	for idx, cell := range header {
		name := normalizeHeader(cell)
		if name == "" {
			continue
		}
		available = append(available, name)
		for _, want := range requiredColumns {
			if _, ok := columns[want]; ok {
				continue
			}
			if strings.EqualFold(name, want) {
				columns[want] = idx
			}
		}
	}

	var missing []string
	for _, want := range requiredColumns {
		if _, ok := columns[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, &FormatError{HeaderRow: headerRow, Missing: missing, Available: available}
	}

	skip := opts.SkipAfterHeader
	if skip < 1 {
		skip = 1
	}
	return &Sheet{
		HeaderRow: headerRow,
		columns:   columns,
		rows:      rows,
		start:     headerRow + skip,
	}, nil
}

func detectHeaderRow(rows [][]string) int {
	limit := min(len(rows), HeaderScanLimit)
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if strings.EqualFold(normalizeHeader(cell), ColumnDate) {
				return i
			}
		}
	}
	return defaultHeaderRow
}

func normalizeHeader(cell string) string {
	return strings.Join(strings.Fields(cell), " ")
}

// Records yields data rows in sheet order. A non-empty date cell that is not
// a date marks a label row; an empty date cell is a separator.
func (s *Sheet) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		label := ""
		for i := s.start; i < len(s.rows); i++ {
			row := s.rows[i]
			dateCell := cellValue(row, s.columns[ColumnDate])
			if dateCell == "" {
				continue
			}
			date, ok := ParseDate(dateCell)
			if !ok {
				label = dateCell
				continue
			}
			rec := Record{
				Line:       i + 1,
				Label:      label,
				Date:       date,
				FirstIn:    ParseClock(cellValue(row, s.columns[ColumnFirstIn])),
				LastOut:    ParseClock(cellValue(row, s.columns[ColumnLastOut])),
				GrossHours: ParseClock(cellValue(row, s.columns[ColumnGrossHours])),
			}
			if !yield(rec) {
				return
			}
		}
	}
}
