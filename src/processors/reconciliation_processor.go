// backend/src/processors/reconciliation_processor.go
package processors

import (
	"sort"
	"strings"
	"time"

	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/utils"
)

// matchKey aligns the Nth occurrence of a (date, amount, type) tuple in the
// source with the Nth occurrence in the target, by input order. The occurrence
// index is what keeps legitimate duplicate transactions from collapsing into
// one match or over-matching.
type matchKey struct {
	date       time.Time
	amount     string // 2-decimal fixed form; equality is defined post-rounding
	txType     models.TransactionType
	occurrence int
}

// reconciler performs the multiplicity-aware full outer join. Aliases map a
// known counterparty identifier (a tax-id string, typically) to the canonical
// label used when the two sources name the same party differently; the
// replacement runs on descriptions before matching.
type reconciler struct {
	aliases map[string]string
}

func NewReconciler(aliases map[string]string) Reconciler {
	return &reconciler{aliases: aliases}
}

func (r *reconciler) Reconcile(source, target []models.StandardizedTransaction) models.ReconciliationResult {
	sourceByKey := r.index(source)
	targetByKey := r.index(target)

	var result models.ReconciliationResult
	for key, src := range sourceByKey {
		if tgt, ok := targetByKey[key]; ok {
			result.Matched = append(result.Matched, models.ReconciliationRow{
				Source: src,
				Target: tgt,
				Marker: models.MarkerBoth,
			})
			delete(targetByKey, key)
			continue
		}
		result.SourceOnly = append(result.SourceOnly, models.ReconciliationRow{
			Source: src,
			Marker: models.MarkerSourceOnly,
		})
	}
	for _, tgt := range targetByKey {
		result.TargetOnly = append(result.TargetOnly, models.ReconciliationRow{
			Target: tgt,
			Marker: models.MarkerTargetOnly,
		})
	}

	sortRows(result.Matched)
	sortRows(result.SourceOnly)
	sortRows(result.TargetOnly)
	return result
}

// index groups rows by (date, amount, type) and assigns each row its 0-based
// occurrence index within the group, in original input order.
func (r *reconciler) index(txs []models.StandardizedTransaction) map[matchKey]*models.StandardizedTransaction {
	type groupKey struct {
		date   time.Time
		amount string
		txType models.TransactionType
	}
	seen := make(map[groupKey]int, len(txs))
	out := make(map[matchKey]*models.StandardizedTransaction, len(txs))

	for _, tx := range txs {
		normalized := tx
		normalized.Date = utils.Midnight(tx.Date)
		normalized.Amount = tx.Amount.Round(2)
		normalized.Description = r.normalizeCounterparty(tx.Description)

		gk := groupKey{
			date:   normalized.Date,
			amount: normalized.Amount.StringFixed(2),
			txType: normalized.Type,
		}
		occ := seen[gk]
		seen[gk] = occ + 1

		row := normalized
		out[matchKey{date: gk.date, amount: gk.amount, txType: gk.txType, occurrence: occ}] = &row
	}
	return out
}

func (r *reconciler) normalizeCounterparty(description string) string {
	for identifier, canonical := range r.aliases {
		if strings.Contains(description, identifier) {
			return canonical
		}
	}
	return description
}

// sortRows orders a partition deterministically for callers; map iteration
// order would otherwise leak into responses.
func sortRows(rows []models.ReconciliationRow) {
	side := func(row models.ReconciliationRow) *models.StandardizedTransaction {
		if row.Source != nil {
			return row.Source
		}
		return row.Target
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := side(rows[i]), side(rows[j])
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.LessThan(b.Amount)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Description < b.Description
	})
}
