// backend/src/parsers/parser.go
package parsers

import (
	"errors"

	"github.com/username/contaclara/backend/src/models"
)

// Failure taxonomy shared by every adapter. Fatal conditions surface as a
// single wrapped error to the caller; there is no partial success.
var (
	// ErrUnreadableFile: the input could not be opened as a spreadsheet or
	// HTML document at all.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrUnrecognizedFormat: the file opened but no adapter's structural
	// signature matched. The error message carries the column headers seen
	// under both read strategies to aid diagnosis.
	ErrUnrecognizedFormat = errors.New("unrecognized statement format")
	// ErrUnparseableSource: an adapter-specific structural anchor (table,
	// header tokens, section markers) was not found.
	ErrUnparseableSource = errors.New("unparseable source")
)

// StatementParser turns one source layout into standardized transactions.
// Adapters never return partial output: either the whole source parses or the
// call fails.
type StatementParser interface {
	Parse(src *Source) ([]models.StandardizedTransaction, error)
}

// Known format names, reported back to callers and stored on batches.
const (
	FormatCaixa      = "caixa"
	FormatSicoob     = "sicoob"
	FormatSicoobHTML = "sicoob-html"
	FormatCondominio = "condominio"
)
