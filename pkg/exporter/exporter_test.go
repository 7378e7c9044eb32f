// pkg/exporter/exporter_test.go
package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

func exportTable() model.OutputTable {
	return model.OutputTable{Rows: []model.OutputRow{
		{SemesterLabel: "2007/08", UniversityName: "Universität Bonn", Total: model.NewCount(110)},
		{SemesterLabel: "2007/08", UniversityName: "Universität Bochum", Total: model.AbsentCount()},
		{SemesterLabel: "2007/08", UniversityName: "Uni Total", Total: model.NewCount(110), Aggregate: true, Incomplete: true},
		{SemesterLabel: "2008/09", UniversityName: "Universität Bonn", Total: model.NewCount(130)},
		{SemesterLabel: "2008/09", UniversityName: "Universität Bochum", Total: model.NewCount(310)},
		{SemesterLabel: "2008/09", UniversityName: "Uni Total", Total: model.NewCount(440), Aggregate: true},
	}}
}

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(zap.NewNop())
	require.NoError(t, err)
	return w
}

func TestNewWriterValidation(t *testing.T) {
	_, err := NewWriter(nil)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	w := newTestWriter(t)
	path := filepath.Join(t.TempDir(), "out", "enrollment_clean.csv")

	require.NoError(t, w.WriteCSV(path, exportTable()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 7)
	assert.Equal(t, []string{"semester", "university", "total"}, records[0])
	assert.Equal(t, []string{"2007/08", "Universität Bonn", "110"}, records[1])
	// Absent totals export as empty fields, never as zero.
	assert.Equal(t, []string{"2007/08", "Universität Bochum", ""}, records[2])
	assert.Equal(t, []string{"2008/09", "Uni Total", "440"}, records[6])
}

func TestWriteWorkbook(t *testing.T) {
	w := newTestWriter(t)
	path := filepath.Join(t.TempDir(), "enrollment_clean.xlsx")

	require.NoError(t, w.WriteWorkbook(path, exportTable()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), "Sheet1")

	rows, err := f.GetRows("Enrollment")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "Semester", rows[0][0])
	assert.Equal(t, "Universität Bonn", rows[1][1])
	assert.Equal(t, "110", rows[1][2])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	// Header plus one row per series.
	assert.Len(t, summary, 4)
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(exportTable())
	require.Len(t, summaries, 3)

	bonn := summaries[0]
	assert.Equal(t, "Universität Bonn", bonn.Name)
	assert.Equal(t, 2, bonn.Semesters)
	assert.InDelta(t, 120.0, bonn.Mean, 1e-9)
	assert.InDelta(t, 110.0, bonn.Min, 1e-9)
	assert.InDelta(t, 130.0, bonn.Max, 1e-9)

	// The absent 2007/08 total is excluded, not counted as zero.
	bochum := summaries[1]
	assert.Equal(t, 1, bochum.Semesters)
	assert.InDelta(t, 310.0, bochum.Mean, 1e-9)

	assert.Equal(t, "Uni Total", summaries[2].Name)
}

func TestSummarizeEmptySeries(t *testing.T) {
	table := model.OutputTable{Rows: []model.OutputRow{
		{SemesterLabel: "2007/08", UniversityName: "Universität Bonn", Total: model.AbsentCount()},
	}}

	summaries := Summarize(table)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].Semesters)
	assert.Zero(t, summaries[0].Mean)
}
