// backend/src/models/reconciliation.go
package models

// ReconciliationMarker is the three-valued provenance of a reconciliation row.
type ReconciliationMarker string

const (
	MarkerBoth       ReconciliationMarker = "BOTH"
	MarkerSourceOnly ReconciliationMarker = "SOURCE_ONLY"
	MarkerTargetOnly ReconciliationMarker = "TARGET_ONLY"
)

// ReconciliationRow is one result of matching two transaction sets. Exactly one
// side is nil for SOURCE_ONLY and TARGET_ONLY rows; both are set for BOTH.
type ReconciliationRow struct {
	Source *StandardizedTransaction `json:"source"`
	Target *StandardizedTransaction `json:"target"`
	Marker ReconciliationMarker     `json:"marker"`
}

// ReconciliationResult partitions the full outer join of two transaction sets.
type ReconciliationResult struct {
	Matched    []ReconciliationRow `json:"matched"`
	SourceOnly []ReconciliationRow `json:"source_only"`
	TargetOnly []ReconciliationRow `json:"target_only"`
}
