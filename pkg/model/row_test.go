// pkg/model/row_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountArithmetic(t *testing.T) {
	assert.Equal(t, NewCount(110), NewCount(50).Add(NewCount(60)))
	assert.Equal(t, NewCount(160), NewCount(300).Sub(NewCount(140)))

	assert.False(t, AbsentCount().Add(NewCount(5)).Valid)
	assert.False(t, NewCount(5).Add(AbsentCount()).Valid)
	assert.False(t, AbsentCount().Sub(NewCount(5)).Valid)
	assert.False(t, NewCount(5).Sub(AbsentCount()).Valid)
}

func TestCountOrZero(t *testing.T) {
	assert.Equal(t, int64(42), NewCount(42).OrZero())
	assert.Equal(t, int64(0), AbsentCount().OrZero())
}

func TestRawRowAbsentFields(t *testing.T) {
	row := RawRow{Total: NewCount(1), Male: NewCount(2), Female: NewCount(3)}
	assert.Equal(t, 0, row.AbsentFields())

	row.Total = AbsentCount()
	assert.Equal(t, 1, row.AbsentFields())

	row.Male = AbsentCount()
	row.Female = AbsentCount()
	assert.Equal(t, 3, row.AbsentFields())
}

func testTable() OutputTable {
	return OutputTable{Rows: []OutputRow{
		{SemesterLabel: "2007/08", UniversityName: "Universität Bonn", Total: NewCount(110)},
		{SemesterLabel: "2007/08", UniversityName: "Universität Bochum", Total: NewCount(300)},
		{SemesterLabel: "2007/08", UniversityName: "Uni Total", Total: NewCount(410), Aggregate: true},
		{SemesterLabel: "2008/09", UniversityName: "Universität Bonn", Total: NewCount(120)},
		{SemesterLabel: "2008/09", UniversityName: "Uni Total", Total: NewCount(120), Aggregate: true},
	}}
}

func TestOutputTableSemesters(t *testing.T) {
	assert.Equal(t, []string{"2007/08", "2008/09"}, testTable().Semesters())
	assert.Empty(t, OutputTable{}.Semesters())
}

func TestOutputTableSeriesNames(t *testing.T) {
	// Member series in first-seen order, aggregate last.
	assert.Equal(t,
		[]string{"Universität Bonn", "Universität Bochum", "Uni Total"},
		testTable().SeriesNames())
}

func TestOutputTableSeries(t *testing.T) {
	series := testTable().Series("Universität Bonn")
	assert.Len(t, series, 2)
	assert.Equal(t, "2007/08", series[0].SemesterLabel)
	assert.Equal(t, "2008/09", series[1].SemesterLabel)

	assert.Empty(t, testTable().Series("Universität Köln"))
}

func TestOutputTableAggregateRows(t *testing.T) {
	aggregates := testTable().AggregateRows()
	assert.Len(t, aggregates, 2)
	for _, row := range aggregates {
		assert.Equal(t, "Uni Total", row.UniversityName)
	}
}
