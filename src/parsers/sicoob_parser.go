// backend/src/parsers/sicoob_parser.go
package parsers

import (
	"fmt"

	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/utils"
)

// Sicoob column labels, matched exactly (accents included).
const (
	sicoobDateColumn    = "DATA"
	sicoobHistoryColumn = "HISTÓRICO"
	sicoobValueColumn   = "VALOR"
)

// SicoobParser handles the Sicoob XLSX statement export, where the value
// column carries a trailing C/D letter encoding credit or debit and the
// Brazilian thousands/decimal separators.
type SicoobParser struct{}

func NewSicoobParser() *SicoobParser {
	return &SicoobParser{}
}

func (p *SicoobParser) Parse(src *Source) ([]models.StandardizedTransaction, error) {
	wb, err := src.Workbook()
	if err != nil {
		return nil, err
	}

	headerIdx, cols, ok := wb.FindHeader(sicoobDateColumn, sicoobHistoryColumn)
	if !ok {
		return nil, fmt.Errorf("%w: sicoob header columns %q and %q not found",
			ErrUnparseableSource, sicoobDateColumn, sicoobHistoryColumn)
	}
	valueIdx, hasValue := cols[sicoobValueColumn]
	if !hasValue {
		return nil, fmt.Errorf("%w: sicoob value column %q not found", ErrUnparseableSource, sicoobValueColumn)
	}

	var txs []models.StandardizedTransaction
	for _, row := range wb.DataRows(headerIdx) {
		date, ok := utils.ParseDateRobust(cellAt(row, cols[sicoobDateColumn]))
		if !ok {
			continue
		}

		amount, txType := utils.ParseAmount(cellAt(row, valueIdx))
		// Presence of the credit marker decides the type; everything
		// without it is a debit in this layout.
		if txType != models.TypeIncome {
			txType = models.TypeExpense
		}

		txs = append(txs, models.StandardizedTransaction{
			Date:              date,
			Description:       cellAt(row, cols[sicoobHistoryColumn]),
			Amount:            amount,
			Type:              txType,
			DescriptionOrigin: models.OriginHistory,
		})
	}
	return txs, nil
}
