// backend/src/processors/reconciliation_processor_test.go
package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/contaclara/backend/src/models"
)

func day(d int) time.Time {
	return time.Date(2023, 7, d, 0, 0, 0, 0, time.UTC)
}

func tx(d int, amount string, txType models.TransactionType, description string) models.StandardizedTransaction {
	return models.StandardizedTransaction{
		Date:        day(d),
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		Description: description,
	}
}

func TestReconcileSelfIsAllMatched(t *testing.T) {
	txs := []models.StandardizedTransaction{
		tx(1, "100.00", models.TypeIncome, "PIX RECEBIDO"),
		tx(1, "100.00", models.TypeIncome, "PIX RECEBIDO"),
		tx(2, "35.50", models.TypeExpense, "TARIFA"),
	}
	result := NewReconciler(nil).Reconcile(txs, txs)

	assert.Len(t, result.Matched, 3)
	assert.Empty(t, result.SourceOnly)
	assert.Empty(t, result.TargetOnly)
	for _, row := range result.Matched {
		assert.Equal(t, models.MarkerBoth, row.Marker)
		require.NotNil(t, row.Source)
		require.NotNil(t, row.Target)
	}
}

func TestReconcileDuplicatesMatchByOccurrence(t *testing.T) {
	source := []models.StandardizedTransaction{
		tx(1, "100.00", models.TypeExpense, "BOLETO FORNECEDOR"),
		tx(1, "100.00", models.TypeExpense, "BOLETO FORNECEDOR"),
	}
	target := []models.StandardizedTransaction{
		tx(1, "100.00", models.TypeExpense, "PAGTO FORNECEDOR"),
	}
	result := NewReconciler(nil).Reconcile(source, target)

	// Two source occurrences against one target occurrence: exactly one pairs
	// up, the surplus lands in SourceOnly rather than double-matching.
	assert.Len(t, result.Matched, 1)
	assert.Len(t, result.SourceOnly, 1)
	assert.Empty(t, result.TargetOnly)
	assert.Equal(t, models.MarkerSourceOnly, result.SourceOnly[0].Marker)
	assert.Nil(t, result.SourceOnly[0].Target)
}

func TestReconcileDisjointSets(t *testing.T) {
	source := []models.StandardizedTransaction{tx(1, "10.00", models.TypeIncome, "A")}
	target := []models.StandardizedTransaction{tx(2, "10.00", models.TypeIncome, "A")}
	result := NewReconciler(nil).Reconcile(source, target)

	assert.Empty(t, result.Matched)
	assert.Len(t, result.SourceOnly, 1)
	assert.Len(t, result.TargetOnly, 1)
	assert.Equal(t, models.MarkerTargetOnly, result.TargetOnly[0].Marker)
}

func TestReconcileTypeIsPartOfTheKey(t *testing.T) {
	source := []models.StandardizedTransaction{tx(1, "50.00", models.TypeIncome, "ESTORNO")}
	target := []models.StandardizedTransaction{tx(1, "50.00", models.TypeExpense, "ESTORNO")}
	result := NewReconciler(nil).Reconcile(source, target)

	assert.Empty(t, result.Matched)
	assert.Len(t, result.SourceOnly, 1)
	assert.Len(t, result.TargetOnly, 1)
}

func TestReconcileAmountsCompareAfterRounding(t *testing.T) {
	source := []models.StandardizedTransaction{tx(1, "10.004", models.TypeExpense, "X")}
	target := []models.StandardizedTransaction{tx(1, "10.00", models.TypeExpense, "X")}
	result := NewReconciler(nil).Reconcile(source, target)

	assert.Len(t, result.Matched, 1)
	assert.Empty(t, result.SourceOnly)
	assert.Empty(t, result.TargetOnly)
}

func TestReconcileDatesCompareAtMidnight(t *testing.T) {
	source := []models.StandardizedTransaction{{
		Date:        time.Date(2023, 7, 1, 14, 25, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("77.00"),
		Type:        models.TypeIncome,
		Description: "TED",
	}}
	target := []models.StandardizedTransaction{tx(1, "77.00", models.TypeIncome, "TED")}
	result := NewReconciler(nil).Reconcile(source, target)

	assert.Len(t, result.Matched, 1)
}

func TestReconcileAppliesCounterpartyAliases(t *testing.T) {
	aliases := map[string]string{"12345678000190": "ACME LTDA"}
	source := []models.StandardizedTransaction{tx(1, "200.00", models.TypeExpense, "PAGTO 12345678000190 NF 42")}
	target := []models.StandardizedTransaction{tx(1, "200.00", models.TypeExpense, "ACME LTDA")}
	result := NewReconciler(aliases).Reconcile(source, target)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "ACME LTDA", result.Matched[0].Source.Description)
}

func TestReconcilePartitionsAreSorted(t *testing.T) {
	source := []models.StandardizedTransaction{
		tx(3, "5.00", models.TypeExpense, "C"),
		tx(1, "9.00", models.TypeExpense, "A"),
		tx(1, "2.00", models.TypeExpense, "B"),
	}
	result := NewReconciler(nil).Reconcile(source, nil)

	require.Len(t, result.SourceOnly, 3)
	assert.Equal(t, "B", result.SourceOnly[0].Source.Description)
	assert.Equal(t, "A", result.SourceOnly[1].Source.Description)
	assert.Equal(t, "C", result.SourceOnly[2].Source.Description)
}
