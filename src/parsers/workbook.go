// backend/src/parsers/workbook.go
package parsers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxHeaderScan bounds how deep into a sheet adapters look for their header
// row. Some exports bury the real header on row 2 under a title banner.
const maxHeaderScan = 2

// Workbook is the first sheet of a spreadsheet export, flattened to formatted
// cell strings. Adapters work on these rows; excelize stays confined here.
type Workbook struct {
	Rows [][]string
}

// ReadWorkbook opens spreadsheet bytes and extracts the rows of the first
// sheet. It fails with ErrUnreadableFile when the content is not a spreadsheet.
func ReadWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrUnreadableFile, sheets[0], err)
	}
	return &Workbook{Rows: rows}, nil
}

// HeaderRow returns the trimmed cells of row `skip`, or nil when the sheet is
// too short. skip 0 is the raw read strategy; skip 1 reads with the first row
// skipped.
func (w *Workbook) HeaderRow(skip int) []string {
	if w == nil || skip >= len(w.Rows) {
		return nil
	}
	header := make([]string, len(w.Rows[skip]))
	for i, cell := range w.Rows[skip] {
		header[i] = strings.TrimSpace(cell)
	}
	return header
}

// FindHeader scans the first maxHeaderScan rows for one containing every
// label (case- and accent-sensitive exact match, after trimming). It returns
// the row index and a column-name→index map, or ok=false.
func (w *Workbook) FindHeader(labels ...string) (rowIdx int, cols map[string]int, ok bool) {
	for skip := 0; skip < maxHeaderScan; skip++ {
		header := w.HeaderRow(skip)
		if header == nil {
			break
		}
		idx := make(map[string]int, len(header))
		for i, cell := range header {
			if _, seen := idx[cell]; !seen && cell != "" {
				idx[cell] = i
			}
		}
		found := true
		for _, label := range labels {
			if _, present := idx[label]; !present {
				found = false
				break
			}
		}
		if found {
			return skip, idx, true
		}
	}
	return 0, nil, false
}

// DataRows returns the rows following the header at headerIdx.
func (w *Workbook) DataRows(headerIdx int) [][]string {
	if headerIdx+1 >= len(w.Rows) {
		return nil
	}
	return w.Rows[headerIdx+1:]
}

// cellAt fetches a trimmed cell by column index, tolerating ragged rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
