// backend/src/processors/categorizer.go
package processors

import (
	"strings"

	"github.com/username/contaclara/backend/src/models"
)

// keywordCategorizer matches rules by case-insensitive substring search, in
// rule order. The first matching keyword wins; there is no scoring and no
// longest-match preference, so rule order is the only tie-break and must be
// preserved from storage to lookup.
type keywordCategorizer struct {
	rules []models.CategorizationRule
	// keywords pre-lowered once per rule set; one rule set serves a whole batch.
	lowered []string
}

func NewCategorizer(rules []models.CategorizationRule) Categorizer {
	lowered := make([]string, len(rules))
	for i, r := range rules {
		lowered[i] = strings.ToLower(r.Keyword)
	}
	return &keywordCategorizer{rules: rules, lowered: lowered}
}

func (c *keywordCategorizer) Categorize(description string) string {
	if strings.TrimSpace(description) == "" {
		return models.CategoryUncategorized
	}
	lowerDesc := strings.ToLower(description)
	for i, keyword := range c.lowered {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowerDesc, keyword) {
			return c.rules[i].Category
		}
	}
	return models.CategoryUncategorized
}

// Apply categorizes a slice in input order, returning one category per row.
func (c *keywordCategorizer) Apply(txs []models.StandardizedTransaction) []string {
	categories := make([]string, len(txs))
	for i, tx := range txs {
		categories[i] = c.Categorize(tx.Description)
	}
	return categories
}
