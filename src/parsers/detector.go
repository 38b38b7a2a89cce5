// backend/src/parsers/detector.go
package parsers

import (
	"fmt"
)

// SourceKind selects the parsing family for an upload. Bank statements go
// through format detection; the condominium management report is its own file
// family and never competes with the bank signatures.
const (
	KindStatement  = "statement"
	KindManagement = "management"
)

// formatSignature is one entry of the detection priority list. New bank
// layouts are added as new entries, not new branches inside one function.
type formatSignature struct {
	Format  string
	Matches func(src *Source) bool
	New     func() StatementParser
}

// statementSignatures is evaluated in order; the first match wins.
var statementSignatures = []formatSignature{
	{
		Format:  FormatSicoobHTML,
		Matches: func(src *Source) bool { return src.IsHTML() },
		New:     func() StatementParser { return NewSicoobHTMLParser() },
	},
	{
		Format: FormatCaixa,
		Matches: func(src *Source) bool {
			wb, err := src.Workbook()
			if err != nil {
				return false
			}
			_, _, ok := wb.FindHeader(caixaDateColumn, caixaAmountColumn)
			return ok
		},
		New: func() StatementParser { return NewCaixaParser() },
	},
	{
		Format: FormatSicoob,
		Matches: func(src *Source) bool {
			wb, err := src.Workbook()
			if err != nil {
				return false
			}
			_, _, ok := wb.FindHeader(sicoobDateColumn, sicoobHistoryColumn)
			return ok
		},
		New: func() StatementParser { return NewSicoobParser() },
	},
}

// GetParser picks the adapter for an upload. For KindStatement the signature
// list decides; for KindManagement the condominium adapter is returned
// directly. The second return value is the detected format name.
func GetParser(kind string, src *Source) (StatementParser, string, error) {
	switch kind {
	case KindStatement:
		return detectStatementParser(src)
	case KindManagement:
		return NewCondominioParser(), FormatCondominio, nil
	default:
		return nil, "", fmt.Errorf("no parser available for source kind: %s", kind)
	}
}

func detectStatementParser(src *Source) (StatementParser, string, error) {
	for _, sig := range statementSignatures {
		if sig.Matches(src) {
			return sig.New(), sig.Format, nil
		}
	}

	// Not HTML and no signature matched. If the workbook itself was
	// unreadable, that is the failure to report.
	wb, err := src.Workbook()
	if err != nil {
		return nil, "", err
	}
	return nil, "", fmt.Errorf("%w: columns seen (raw read): %v; columns seen (header row skipped): %v",
		ErrUnrecognizedFormat, wb.HeaderRow(0), wb.HeaderRow(1))
}
