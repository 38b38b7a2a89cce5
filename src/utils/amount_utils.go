// backend/src/utils/amount_utils.go
package utils

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/contaclara/backend/src/models"
)

const (
	CreditMarker = "C"
	DebitMarker  = "D"
)

// ParseAmount converts a locale-formatted amount string ("1.234,56", optionally
// with a trailing C/D credit/debit marker) into its magnitude and the sign it
// encodes. A value that cannot be parsed degrades to zero with TypeUnknown so a
// single malformed row never aborts a whole statement.
func ParseAmount(raw string) (decimal.Decimal, models.TransactionType) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, models.TypeUnknown
	}

	txType := models.TypeUnknown
	if strings.HasSuffix(s, CreditMarker) {
		txType = models.TypeIncome
		s = strings.TrimSpace(strings.TrimSuffix(s, CreditMarker))
	} else if strings.HasSuffix(s, DebitMarker) {
		txType = models.TypeExpense
		s = strings.TrimSpace(strings.TrimSuffix(s, DebitMarker))
	}

	d, ok := parseLocalizedDecimal(s)
	if !ok {
		return decimal.Zero, txType
	}
	return d.Abs().Round(2), txType
}

// ParseSignedAmount parses a value column where the sign itself carries the
// income/expense information (the Caixa layout). It accepts both the Brazilian
// convention ("1.234,56", "-50,00") and plain machine floats ("-1234.56", the
// form cell values take once the spreadsheet library resolves number formats).
// Parse failure degrades to zero.
func ParseSignedAmount(raw string) decimal.Decimal {
	d, ok := parseLocalizedDecimal(strings.TrimSpace(raw))
	if !ok {
		return decimal.Zero
	}
	return d.Round(2)
}

func parseLocalizedDecimal(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	// "R$ 1.234,56" style currency prefixes show up in some exports.
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))

	hasComma := strings.Contains(s, ",")
	if hasComma {
		// Comma is the decimal separator; dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	// Without a comma the string is either a plain float or an integer; either
	// way decimal handles it directly.

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
