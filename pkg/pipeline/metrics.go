// pkg/pipeline/metrics.go
package pipeline

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

// RunMetrics tracks counters for one pipeline run.
type RunMetrics struct {
	mu                   sync.Mutex
	logger               *zap.Logger
	StartTime            time.Time
	EndTime              time.Time
	RowsParsed           int
	RowsRetained         int
	AggregateRows        int
	ImputedCounts        int
	ImputationConflicts  int
	IncompleteAggregates int
	Artifacts            []string
	ErrorCounts          map[ErrorCategory]int
}

// NewRunMetrics creates a metrics tracker for a run starting now.
func NewRunMetrics(logger *zap.Logger) *RunMetrics {
	return &RunMetrics{
		logger:      logger,
		StartTime:   time.Now(),
		Artifacts:   make([]string, 0),
		ErrorCounts: make(map[ErrorCategory]int),
	}
}

// RecordParse records the loader outcome.
func (m *RunMetrics) RecordParse(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RowsParsed = rows
}

// RecordClean records the cleaning outcome.
func (m *RunMetrics) RecordClean(table model.OutputTable, ops []model.ImputationOperation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range table.Rows {
		if row.Aggregate {
			m.AggregateRows++
			if row.Incomplete {
				m.IncompleteAggregates++
			}
		} else {
			m.RowsRetained++
		}
	}

	for _, op := range ops {
		switch op.Operation {
		case model.OpCountImputation:
			m.ImputedCounts++
		case model.OpImputationConflict:
			m.ImputationConflicts++
		}
	}
}

// RecordArtifact registers a written output artifact.
func (m *RunMetrics) RecordArtifact(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Artifacts = append(m.Artifacts, path)
}

// RecordError increments the count for an error category.
func (m *RunMetrics) RecordError(category ErrorCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCounts[category]++
}

// Duration returns the elapsed run time.
func (m *RunMetrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Complete marks the run as finished and logs a summary.
func (m *RunMetrics) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()

	if m.logger != nil {
		m.logger.Info("Pipeline run completed",
			zap.Duration("duration", m.EndTime.Sub(m.StartTime)),
			zap.Int("rows_parsed", m.RowsParsed),
			zap.Int("rows_retained", m.RowsRetained),
			zap.Int("aggregate_rows", m.AggregateRows),
			zap.Int("imputed_counts", m.ImputedCounts),
			zap.Int("imputation_conflicts", m.ImputationConflicts),
			zap.Int("incomplete_aggregates", m.IncompleteAggregates),
			zap.Strings("artifacts", m.Artifacts))
	}
}

// GenerateReport creates a human-readable run report.
func (m *RunMetrics) GenerateReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := fmt.Sprintf(`
Pipeline Run Report
===================
Duration:              %s
Start Time:            %s
End Time:              %s

Table Summary
-------------
Rows Parsed:           %d
Rows Retained:         %d
Aggregate Rows:        %d

Cleaning Summary
----------------
Imputed Counts:        %d
Imputation Conflicts:  %d
Incomplete Aggregates: %d
`,
		formatDuration(m.Duration()),
		m.StartTime.Format(time.RFC3339),
		m.EndTime.Format(time.RFC3339),
		m.RowsParsed,
		m.RowsRetained,
		m.AggregateRows,
		m.ImputedCounts,
		m.ImputationConflicts,
		m.IncompleteAggregates,
	)

	report += "\nArtifacts\n---------\n"
	for _, path := range m.Artifacts {
		report += fmt.Sprintf("- %s\n", path)
	}

	if len(m.ErrorCounts) > 0 {
		report += "\nError Distribution\n------------------\n"
		for category, count := range m.ErrorCounts {
			report += fmt.Sprintf("- %s: %d\n", category.String(), count)
		}
	}

	return report
}

// formatDuration formats a duration to a human-readable string.
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
