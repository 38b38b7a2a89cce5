// backend/src/parsers/workbook_test.go
package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// xlsxSource builds a Source whose workbook is preloaded from literal rows,
// bypassing the spreadsheet decode step.
func xlsxSource(filename string, rows [][]string) *Source {
	return &Source{
		Filename: filename,
		workbook: &Workbook{Rows: rows},
		wbLoaded: true,
	}
}

func TestFindHeaderOnFirstRow(t *testing.T) {
	wb := &Workbook{Rows: [][]string{
		{"DATA", "HISTÓRICO", "VALOR"},
		{"01/07/2023", "PIX", "10,00C"},
	}}
	rowIdx, cols, ok := wb.FindHeader("DATA", "VALOR")
	require.True(t, ok)
	assert.Equal(t, 0, rowIdx)
	assert.Equal(t, 0, cols["DATA"])
	assert.Equal(t, 2, cols["VALOR"])
}

func TestFindHeaderUnderTitleBanner(t *testing.T) {
	wb := &Workbook{Rows: [][]string{
		{"Extrato Conta Corrente"},
		{"Data Lançamento", "Nome/Razão Social", "Histórico", "Valor Lançamento"},
		{"01/07/2023", "FULANO", "", "-10,00"},
	}}
	rowIdx, cols, ok := wb.FindHeader("Data Lançamento", "Valor Lançamento")
	require.True(t, ok)
	assert.Equal(t, 1, rowIdx)
	assert.Equal(t, 3, cols["Valor Lançamento"])
}

func TestFindHeaderTrimsCells(t *testing.T) {
	wb := &Workbook{Rows: [][]string{
		{"  DATA ", " VALOR  "},
	}}
	_, cols, ok := wb.FindHeader("DATA", "VALOR")
	require.True(t, ok)
	assert.Equal(t, 1, cols["VALOR"])
}

func TestFindHeaderDeeperThanScanLimitIsMissed(t *testing.T) {
	wb := &Workbook{Rows: [][]string{
		{"banner"},
		{"another banner"},
		{"DATA", "VALOR"},
	}}
	_, _, ok := wb.FindHeader("DATA", "VALOR")
	assert.False(t, ok)
}

func TestDataRows(t *testing.T) {
	wb := &Workbook{Rows: [][]string{
		{"DATA", "VALOR"},
		{"01/07/2023", "10,00C"},
		{"02/07/2023", "20,00D"},
	}}
	assert.Len(t, wb.DataRows(0), 2)
	assert.Nil(t, wb.DataRows(2))
}

func TestCellAtToleratesRaggedRows(t *testing.T) {
	row := []string{"a", " b "}
	assert.Equal(t, "b", cellAt(row, 1))
	assert.Equal(t, "", cellAt(row, 5))
	assert.Equal(t, "", cellAt(row, -1))
}

func TestReadWorkbookRejectsNonSpreadsheet(t *testing.T) {
	_, err := ReadWorkbook([]byte("not a spreadsheet"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableFile)
}

func TestSourceIsHTML(t *testing.T) {
	assert.True(t, NewSource("extrato.HTML", []byte("whatever")).IsHTML())
	assert.True(t, NewSource("extrato.xls", []byte("<html><body></body></html>")).IsHTML())
	assert.True(t, NewSource("extrato.xls", []byte("junk <TABLE border=1>")).IsHTML())
	assert.False(t, NewSource("extrato.xlsx", []byte{0x50, 0x4B, 0x03, 0x04}).IsHTML())
}
