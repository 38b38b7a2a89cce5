// backend/src/processors/summary_processor_test.go
package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/contaclara/backend/src/models"
)

func persisted(amount string, txType models.TransactionType, category, description string) models.PersistedTransaction {
	return models.PersistedTransaction{
		Date:        time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		Category:    category,
		Description: description,
	}
}

func TestSummaryTotalsAndNetBalance(t *testing.T) {
	txs := []models.PersistedTransaction{
		persisted("1000.00", models.TypeIncome, "Rent", "ALUGUEL SALA 1"),
		persisted("250.50", models.TypeIncome, "Rent", "ALUGUEL SALA 2"),
		persisted("300.00", models.TypeExpense, "Utilities", "ENERGIA"),
	}
	summary := NewSummaryProcessor().Process(txs)

	assert.True(t, summary.TotalIncome.Equal(decimal.RequireFromString("1250.50")))
	assert.True(t, summary.TotalExpense.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, summary.NetBalance.Equal(decimal.RequireFromString("950.50")))
}

func TestSummaryCategorySumsSortedDescending(t *testing.T) {
	txs := []models.PersistedTransaction{
		persisted("10.00", models.TypeExpense, "Fees", "TARIFA"),
		persisted("500.00", models.TypeExpense, "Payroll", "SALARIO"),
		persisted("120.00", models.TypeExpense, "Utilities", "AGUA"),
		persisted("80.00", models.TypeExpense, "Utilities", "ENERGIA"),
	}
	summary := NewSummaryProcessor().Process(txs)

	require.Len(t, summary.ExpenseByCategory, 3)
	assert.Equal(t, "Payroll", summary.ExpenseByCategory[0].Category)
	assert.Equal(t, "Utilities", summary.ExpenseByCategory[1].Category)
	assert.True(t, summary.ExpenseByCategory[1].Amount.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, "Fees", summary.ExpenseByCategory[2].Category)
	assert.Empty(t, summary.IncomeByCategory)
}

func TestSummaryEqualSumsBreakTiesByCategoryName(t *testing.T) {
	txs := []models.PersistedTransaction{
		persisted("50.00", models.TypeIncome, "Zeta", "Z"),
		persisted("50.00", models.TypeIncome, "Alpha", "A"),
	}
	summary := NewSummaryProcessor().Process(txs)

	require.Len(t, summary.IncomeByCategory, 2)
	assert.Equal(t, "Alpha", summary.IncomeByCategory[0].Category)
	assert.Equal(t, "Zeta", summary.IncomeByCategory[1].Category)
}

func TestSummaryCollectsUncategorizedRows(t *testing.T) {
	uncat := persisted("42.00", models.TypeExpense, models.CategoryUncategorized, "DEB AUT 0042")
	uncat.DescriptionOrigin = models.OriginHistory
	txs := []models.PersistedTransaction{
		persisted("100.00", models.TypeIncome, "Rent", "ALUGUEL"),
		uncat,
	}
	summary := NewSummaryProcessor().Process(txs)

	require.Len(t, summary.Uncategorized, 1)
	row := summary.Uncategorized[0]
	assert.Equal(t, "DEB AUT 0042", row.Description)
	assert.Equal(t, models.TypeExpense, row.Type)
	assert.Equal(t, models.OriginHistory, row.DescriptionOrigin)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("42.00")))
}

func TestSummaryEmptyInput(t *testing.T) {
	summary := NewSummaryProcessor().Process(nil)

	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpense.IsZero())
	assert.True(t, summary.NetBalance.IsZero())
	assert.Empty(t, summary.IncomeByCategory)
	assert.Empty(t, summary.ExpenseByCategory)
	assert.Empty(t, summary.Uncategorized)
}
