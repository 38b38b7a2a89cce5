// backend/src/models/models.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction. Amounts are always stored
// as magnitudes; a negative amount never leaves a parser.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
	TypeUnknown TransactionType = ""
)

func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (t TransactionType) String() string {
	return string(t)
}

// DescriptionOrigin records which source field contributed the description of a
// standardized transaction. The Caixa export carries both a counterparty name and
// a history field; reports need to know which one won.
type DescriptionOrigin string

const (
	OriginHistory          DescriptionOrigin = "HISTORY"
	OriginCounterpartyName DescriptionOrigin = "COUNTERPARTY_NAME"
)

// CategoryUncategorized is the sentinel category assigned when no rule matches.
const CategoryUncategorized = "Uncategorized"

// StandardizedTransaction is the unified representation every adapter emits,
// regardless of the source layout. Date is zero when the source value could not
// be parsed; such rows are dropped before categorization.
type StandardizedTransaction struct {
	Date              time.Time         `json:"date"`
	Description       string            `json:"description"`
	Amount            decimal.Decimal   `json:"amount"` // magnitude, 2 decimal places
	Type              TransactionType   `json:"type"`
	DescriptionOrigin DescriptionOrigin `json:"description_origin"`
}

// CategorizationRule maps a keyword to a category for one user. Position is the
// insertion order; it is the only tie-break during categorization and must be
// preserved from storage to lookup.
type CategorizationRule struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
	Position int    `json:"position"`
}

// StatementBatch groups the transactions of one upload event. Reprocessing a
// batch deletes and recreates its transactions (replace, not append).
type StatementBatch struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"user_id"`
	ReferencePeriod string    `json:"reference_period"`
	SourceFormat    string    `json:"source_format"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

// PersistedTransaction is a standardized transaction plus its assigned category
// and ownership links. ManualCategory marks rows a user recategorized by hand;
// reprocessing must not overwrite those.
type PersistedTransaction struct {
	ID                int64             `json:"id"`
	BatchID           string            `json:"batch_id"`
	UserID            int64             `json:"user_id"`
	Date              time.Time         `json:"date"`
	Description       string            `json:"description"`
	Amount            decimal.Decimal   `json:"amount"`
	Type              TransactionType   `json:"type"`
	Category          string            `json:"category"`
	DescriptionOrigin DescriptionOrigin `json:"description_origin"`
	ManualCategory    bool              `json:"manual_category"`
}

// Standardized projects a persisted row back to the adapter-level shape, which
// is what the reconciliation matcher consumes.
func (p PersistedTransaction) Standardized() StandardizedTransaction {
	return StandardizedTransaction{
		Date:              p.Date,
		Description:       p.Description,
		Amount:            p.Amount,
		Type:              p.Type,
		DescriptionOrigin: p.DescriptionOrigin,
	}
}

// CategorySum is one row of the per-category aggregation, ordered by amount
// descending in reports.
type CategorySum struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// UncategorizedRow is the fixed projection of records that no rule matched.
type UncategorizedRow struct {
	Type              TransactionType   `json:"type"`
	Date              time.Time         `json:"date"`
	Description       string            `json:"description"`
	Amount            decimal.Decimal   `json:"amount"`
	DescriptionOrigin DescriptionOrigin `json:"description_origin"`
}

// StatementSummary holds the aggregates computed after categorization.
type StatementSummary struct {
	TotalIncome       decimal.Decimal    `json:"total_income"`
	TotalExpense      decimal.Decimal    `json:"total_expense"`
	NetBalance        decimal.Decimal    `json:"net_balance"`
	IncomeByCategory  []CategorySum      `json:"income_by_category"`
	ExpenseByCategory []CategorySum      `json:"expense_by_category"`
	Uncategorized     []UncategorizedRow `json:"uncategorized"`
}
