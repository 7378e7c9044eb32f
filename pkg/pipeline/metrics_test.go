// pkg/pipeline/metrics_test.go
package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

func TestRunMetricsRecordClean(t *testing.T) {
	m := NewRunMetrics(zap.NewNop())

	table := model.OutputTable{Rows: []model.OutputRow{
		{SemesterLabel: "2007/08", UniversityName: "Universität Bonn", Total: model.NewCount(110)},
		{SemesterLabel: "2007/08", UniversityName: "Uni Total", Total: model.NewCount(110), Aggregate: true, Incomplete: true},
	}}
	ops := []model.ImputationOperation{
		{Operation: model.OpCountImputation},
		{Operation: model.OpCountImputation},
		{Operation: model.OpImputationConflict},
		{Operation: model.OpAggregateIncomplete},
	}

	m.RecordParse(3)
	m.RecordClean(table, ops)

	assert.Equal(t, 3, m.RowsParsed)
	assert.Equal(t, 1, m.RowsRetained)
	assert.Equal(t, 1, m.AggregateRows)
	assert.Equal(t, 1, m.IncompleteAggregates)
	assert.Equal(t, 2, m.ImputedCounts)
	assert.Equal(t, 1, m.ImputationConflicts)
}

func TestRunMetricsReport(t *testing.T) {
	m := NewRunMetrics(zap.NewNop())
	m.RecordParse(10)
	m.RecordArtifact("output/enrollment.png")
	m.RecordError(ErrorCategoryWarning)
	m.Complete()

	report := m.GenerateReport()
	assert.Contains(t, report, "Pipeline Run Report")
	assert.Contains(t, report, "output/enrollment.png")
	assert.Contains(t, report, "Warning: 1")
}

func TestErrorCategory(t *testing.T) {
	assert.Equal(t, "Warning", ErrorCategoryWarning.String())
	assert.Equal(t, "Critical", ErrorCategoryCritical.String())

	assert.False(t, ErrorCategoryNone.Fatal())
	assert.False(t, ErrorCategoryWarning.Fatal())
	assert.True(t, ErrorCategorySchema.Fatal())
	assert.True(t, ErrorCategorySource.Fatal())
	assert.True(t, ErrorCategoryArtifact.Fatal())
	assert.True(t, ErrorCategoryCritical.Fatal())
}

func TestNewErrorRecord(t *testing.T) {
	record := NewErrorRecord("load", assert.AnError, ErrorCategorySchema)

	assert.Equal(t, "load", record.Stage)
	assert.Equal(t, ErrorCategorySchema, record.Category)
	assert.Equal(t, assert.AnError.Error(), record.Message)
	assert.False(t, record.Timestamp.IsZero())
	assert.Contains(t, record.String(), "Stage: load")
}
