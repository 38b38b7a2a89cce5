// backend/src/parsers/source.go
package parsers

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Source is one uploaded file: the declared filename, the raw bytes, and the
// parsed workbook when the content is a spreadsheet. The filename is used only
// to pick the HTML path; everything else works on content.
type Source struct {
	Filename string
	Raw      []byte

	workbook *Workbook
	wbErr    error
	wbLoaded bool
}

func NewSource(filename string, data []byte) *Source {
	return &Source{Filename: filename, Raw: data}
}

// IsHTML reports whether the upload should take the HTML statement path,
// decided by extension or by a tabular-HTML content sniff.
func (s *Source) IsHTML() bool {
	if strings.EqualFold(filepath.Ext(s.Filename), ".html") {
		return true
	}
	probe := bytes.ToLower(s.Raw)
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return bytes.Contains(probe, []byte("<html")) || bytes.Contains(probe, []byte("<table"))
}

// Workbook lazily parses the spreadsheet content, caching the result so the
// detector and the selected adapter share one read.
func (s *Source) Workbook() (*Workbook, error) {
	if !s.wbLoaded {
		s.workbook, s.wbErr = ReadWorkbook(s.Raw)
		s.wbLoaded = true
	}
	return s.workbook, s.wbErr
}
