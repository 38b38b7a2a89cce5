// backend/src/processors/summary_processor.go
package processors

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/contaclara/backend/src/models"
)

type summaryProcessor struct{}

func NewSummaryProcessor() SummaryProcessor {
	return &summaryProcessor{}
}

// Process aggregates a batch's categorized transactions: income and expense
// totals, net balance, per-category sums sorted descending by amount, and the
// uncategorized subset projected to the fixed report column set.
func (p *summaryProcessor) Process(txs []models.PersistedTransaction) models.StatementSummary {
	summary := models.StatementSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	incomeByCat := make(map[string]decimal.Decimal)
	expenseByCat := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		switch tx.Type {
		case models.TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			incomeByCat[tx.Category] = incomeByCat[tx.Category].Add(tx.Amount)
		case models.TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
			expenseByCat[tx.Category] = expenseByCat[tx.Category].Add(tx.Amount)
		}

		if tx.Category == models.CategoryUncategorized {
			summary.Uncategorized = append(summary.Uncategorized, models.UncategorizedRow{
				Type:              tx.Type,
				Date:              tx.Date,
				Description:       tx.Description,
				Amount:            tx.Amount,
				DescriptionOrigin: tx.DescriptionOrigin,
			})
		}
	}

	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpense)
	summary.IncomeByCategory = sortedCategorySums(incomeByCat)
	summary.ExpenseByCategory = sortedCategorySums(expenseByCat)
	return summary
}

func sortedCategorySums(byCategory map[string]decimal.Decimal) []models.CategorySum {
	sums := make([]models.CategorySum, 0, len(byCategory))
	for category, amount := range byCategory {
		sums = append(sums, models.CategorySum{Category: category, Amount: amount})
	}
	sort.SliceStable(sums, func(i, j int) bool {
		if !sums[i].Amount.Equal(sums[j].Amount) {
			return sums[i].Amount.GreaterThan(sums[j].Amount)
		}
		return sums[i].Category < sums[j].Category
	})
	return sums
}
