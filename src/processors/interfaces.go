// backend/src/processors/interfaces.go
package processors

import (
	"github.com/username/contaclara/backend/src/models"
)

// Categorizer assigns a category to each standardized transaction from an
// ordered rule set.
type Categorizer interface {
	Categorize(description string) string
	Apply(txs []models.StandardizedTransaction) []string
}

// SummaryProcessor computes the aggregates reported after an upload.
type SummaryProcessor interface {
	Process(txs []models.PersistedTransaction) models.StatementSummary
}

// Reconciler aligns two standardized transaction sets into the three
// reconciliation partitions.
type Reconciler interface {
	Reconcile(source, target []models.StandardizedTransaction) models.ReconciliationResult
}
