// backend/src/parsers/caixa_parser.go
package parsers

import (
	"fmt"

	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/utils"
)

// Caixa column labels, matched exactly (accents included).
const (
	caixaDateColumn        = "Data Lançamento"
	caixaAmountColumn      = "Valor Lançamento"
	caixaCounterpartColumn = "Nome/Razão Social"
	caixaHistoryColumn     = "Histórico"
)

// CaixaParser handles the Caixa Econômica Federal statement export: a signed
// value column, a counterparty name column that is frequently blank, and a
// history column that fills the gap. Title and balance rows sneak into this
// export; anything without a parsable date or with a zero amount is not a
// transaction and is discarded.
type CaixaParser struct{}

func NewCaixaParser() *CaixaParser {
	return &CaixaParser{}
}

func (p *CaixaParser) Parse(src *Source) ([]models.StandardizedTransaction, error) {
	wb, err := src.Workbook()
	if err != nil {
		return nil, err
	}

	headerIdx, cols, ok := wb.FindHeader(caixaDateColumn, caixaAmountColumn)
	if !ok {
		return nil, fmt.Errorf("%w: caixa header columns %q and %q not found",
			ErrUnparseableSource, caixaDateColumn, caixaAmountColumn)
	}

	counterpartIdx, hasCounterpart := cols[caixaCounterpartColumn]
	historyIdx, hasHistory := cols[caixaHistoryColumn]

	var txs []models.StandardizedTransaction
	for _, row := range wb.DataRows(headerIdx) {
		date, ok := utils.ParseDateRobust(cellAt(row, cols[caixaDateColumn]))
		if !ok {
			continue
		}

		signed := utils.ParseSignedAmount(cellAt(row, cols[caixaAmountColumn]))
		if signed.IsZero() {
			continue
		}

		txType := models.TypeIncome
		if signed.IsNegative() {
			txType = models.TypeExpense
		}

		description := ""
		origin := models.OriginCounterpartyName
		if hasCounterpart {
			description = cellAt(row, counterpartIdx)
		}
		if description == "" && hasHistory {
			description = cellAt(row, historyIdx)
			origin = models.OriginHistory
		}

		txs = append(txs, models.StandardizedTransaction{
			Date:              date,
			Description:       description,
			Amount:            signed.Abs(),
			Type:              txType,
			DescriptionOrigin: origin,
		})
	}
	return txs, nil
}
