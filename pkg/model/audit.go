// pkg/model/audit.go
package model

import (
	"time"
)

// Operation names recorded to the audit store.
const (
	OpCountImputation     = "count_imputation"
	OpImputationConflict  = "imputation_conflict"
	OpAggregateIncomplete = "aggregate_incomplete"
)

// ImputationOperation represents a single cleaning decision made during a
// pipeline run, recorded for traceability.
type ImputationOperation struct {
	RunID         string    // Pipeline run identifier
	Semester      string    // Semester label of the affected row
	University    string    // University name of the affected row
	ColumnName    string    // Column that was filled or flagged
	OriginalValue *string   // Original value (nil when absent)
	NewValue      string    // Value after the operation
	Operation     string    // Operation performed (e.g. "count_imputation")
	Reason        string    // Why it was performed (e.g. "total_from_male_female")
	RecordedAt    time.Time // When the operation occurred (set by the store)
}
