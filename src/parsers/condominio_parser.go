// backend/src/parsers/condominio_parser.go
package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/utils"
)

// sectionState tracks which side of the report the scanner is in. The
// condominium export has no type column: embedded section titles flip the
// running state instead.
type sectionState int

const (
	stateNoSection sectionState = iota
	stateInIncome
	stateInExpense
)

const (
	condominioIncomeToken  = "RECEITA"
	condominioExpenseToken = "DESPESA"
	// condominioTotalToken flags subtotal rows, which are never transactions
	// and never group titles.
	condominioTotalToken = "TOTAL"
	// condominioRowCells is the minimum populated width of a transaction row:
	// item label, date, document, value.
	condominioRowCells = 4

	condominioDateCell  = 1
	condominioValueCell = 3
)

var dateLikeRe = regexp.MustCompile(`^\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}$`)

// CondominioParser handles the condominium management report: a flat listing
// where section titles act as implicit state changes and group titles above
// each block of rows provide context that the row's own label lacks. Each
// transaction description is the most recent group path joined with the row's
// item label.
type CondominioParser struct{}

func NewCondominioParser() *CondominioParser {
	return &CondominioParser{}
}

func (p *CondominioParser) Parse(src *Source) ([]models.StandardizedTransaction, error) {
	wb, err := src.Workbook()
	if err != nil {
		return nil, err
	}

	scanner := newCondominioScanner()
	for _, row := range wb.Rows {
		scanner.feed(row)
	}
	if !scanner.sawSection {
		return nil, fmt.Errorf("%w: no %s/%s section title found in report",
			ErrUnparseableSource, condominioIncomeToken, condominioExpenseToken)
	}
	return scanner.txs, nil
}

// condominioScanner is the line scanner over report rows. Transitions:
//
//	any row whose first cell contains RECEITA  -> InIncome
//	any row whose first cell contains DESPESA  -> InExpense
//	short row without a date token             -> new group title (state kept)
//	full row with a date-like token            -> transaction in current state
//
// Rows seen before the first section title are ignored (NoSection).
type condominioScanner struct {
	state      sectionState
	group      string
	subgroup   string
	sawSection bool
	txs        []models.StandardizedTransaction
}

func newCondominioScanner() *condominioScanner {
	return &condominioScanner{state: stateNoSection}
}

func (s *condominioScanner) feed(row []string) {
	first := cellAt(row, 0)
	if first == "" && populatedCells(row) == 0 {
		return
	}

	upperFirst := strings.ToUpper(first)
	switch {
	case strings.Contains(upperFirst, condominioIncomeToken):
		s.enterSection(stateInIncome)
		return
	case strings.Contains(upperFirst, condominioExpenseToken):
		s.enterSection(stateInExpense)
		return
	}

	if s.state == stateNoSection {
		return
	}
	if strings.Contains(upperFirst, condominioTotalToken) {
		return
	}

	if s.isTransactionRow(row) {
		s.appendTransaction(row)
		return
	}

	// A short labelled row is a group or subgroup title. The first title
	// after a section starts a group; a further title nests under it.
	if first != "" {
		if s.group == "" {
			s.group = first
		} else {
			s.subgroup = first
		}
	}
}

func (s *condominioScanner) enterSection(next sectionState) {
	s.state = next
	s.group = ""
	s.subgroup = ""
	s.sawSection = true
}

// isTransactionRow requires the full cell count and a recognizable date-like
// token in the fixed date position; category titles have neither.
func (s *condominioScanner) isTransactionRow(row []string) bool {
	if populatedCells(row) < condominioRowCells {
		return false
	}
	return dateLikeRe.MatchString(cellAt(row, condominioDateCell))
}

func (s *condominioScanner) appendTransaction(row []string) {
	date, ok := utils.ParseDateRobust(cellAt(row, condominioDateCell))
	if !ok {
		return
	}

	txType := models.TypeIncome
	if s.state == stateInExpense {
		txType = models.TypeExpense
	}

	amount, _ := utils.ParseAmount(cellAt(row, condominioValueCell))

	parts := make([]string, 0, 3)
	for _, part := range []string{s.group, s.subgroup, cellAt(row, 0)} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	s.txs = append(s.txs, models.StandardizedTransaction{
		Date:              date,
		Description:       strings.Join(parts, " - "),
		Amount:            amount,
		Type:              txType,
		DescriptionOrigin: models.OriginHistory,
	})
}

func populatedCells(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}
