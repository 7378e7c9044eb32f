// pkg/pipeline/errors.go
package pipeline

import (
	"fmt"
	"time"
)

// ErrorCategory classifies errors during a pipeline run.
type ErrorCategory int

const (
	// Error categories with increasing severity
	ErrorCategoryNone ErrorCategory = iota
	// ErrorCategoryWarning covers non-fatal conditions such as imputation
	// conflicts or verification discrepancies.
	ErrorCategoryWarning
	// ErrorCategorySchema covers fatal shape/parse failures of the resource.
	ErrorCategorySchema
	// ErrorCategorySource covers fatal fetch/open failures.
	ErrorCategorySource
	// ErrorCategoryArtifact covers failures writing an output artifact.
	ErrorCategoryArtifact
	// ErrorCategoryCritical covers everything that aborts the run outright.
	ErrorCategoryCritical
)

// String returns a string representation of the error category.
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryWarning:
		return "Warning"
	case ErrorCategorySchema:
		return "Schema"
	case ErrorCategorySource:
		return "Source"
	case ErrorCategoryArtifact:
		return "Artifact"
	case ErrorCategoryCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// Fatal reports whether the category aborts the run. There is no retry
// policy and no partial-success mode: the pipeline either completes end to
// end or aborts.
func (ec ErrorCategory) Fatal() bool {
	return ec >= ErrorCategorySchema
}

// ErrorRecord represents a single error during a run.
type ErrorRecord struct {
	Category  ErrorCategory
	Stage     string
	Err       error
	Message   string
	Timestamp time.Time
}

// NewErrorRecord creates an error record with the current timestamp.
func NewErrorRecord(stage string, err error, category ErrorCategory) ErrorRecord {
	record := ErrorRecord{
		Category:  category,
		Stage:     stage,
		Err:       err,
		Timestamp: time.Now(),
	}
	if err != nil {
		record.Message = err.Error()
	}
	return record
}

// String returns a formatted error message.
func (r ErrorRecord) String() string {
	return fmt.Sprintf("[%s] Stage: %s Error: %s", r.Category, r.Stage, r.Message)
}
