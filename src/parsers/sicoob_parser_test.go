// backend/src/parsers/sicoob_parser_test.go
package parsers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/contaclara/backend/src/models"
)

func TestSicoobParse(t *testing.T) {
	rows := [][]string{
		{"DATA", "HISTÓRICO", "VALOR"},
		{"10/07/2023", "PIX RECEBIDO FULANO", "1.200,00C"},
		{"11/07/2023", "DEB AUTORIZADO", "89,90D"},
		{"12/07/2023", "TARIFA PACOTE", "25,00"}, // no marker: debit in this layout
		{"", "SALDO ANTERIOR", ""},               // no date: skipped
	}
	txs, err := NewSicoobParser().Parse(xlsxSource("extrato.xls", rows))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, models.TypeIncome, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("1200")))
	assert.Equal(t, "PIX RECEBIDO FULANO", txs[0].Description)
	assert.Equal(t, models.OriginHistory, txs[0].DescriptionOrigin)

	assert.Equal(t, models.TypeExpense, txs[1].Type)
	assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("89.90")))

	assert.Equal(t, models.TypeExpense, txs[2].Type)
	assert.True(t, txs[2].Amount.Equal(decimal.RequireFromString("25")))
}

func TestSicoobParseMissingValueColumn(t *testing.T) {
	rows := [][]string{
		{"DATA", "HISTÓRICO"},
		{"10/07/2023", "PIX RECEBIDO"},
	}
	_, err := NewSicoobParser().Parse(xlsxSource("extrato.xls", rows))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseableSource)
}

func TestSicoobParseMissingHeader(t *testing.T) {
	rows := [][]string{
		{"Data Lançamento", "Valor Lançamento"},
	}
	_, err := NewSicoobParser().Parse(xlsxSource("extrato.xls", rows))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseableSource)
}
