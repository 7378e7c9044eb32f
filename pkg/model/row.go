// pkg/model/row.go
package model

import "sort"

// Count is an optional enrollment count. Valid reports whether the source
// carried a usable value; absent counts are never coerced to zero outside
// the documented aggregation policy.
type Count struct {
	Value int64
	Valid bool
}

// NewCount returns a present count with the given value.
func NewCount(v int64) Count {
	return Count{Value: v, Valid: true}
}

// AbsentCount returns an absent count.
func AbsentCount() Count {
	return Count{}
}

// Add returns the sum of two counts. The result is absent unless both
// operands are present.
func (c Count) Add(other Count) Count {
	if !c.Valid || !other.Valid {
		return Count{}
	}
	return NewCount(c.Value + other.Value)
}

// Sub returns the difference of two counts. The result is absent unless
// both operands are present.
func (c Count) Sub(other Count) Count {
	if !c.Valid || !other.Valid {
		return Count{}
	}
	return NewCount(c.Value - other.Value)
}

// OrZero returns the value, treating an absent count as zero.
func (c Count) OrZero() int64 {
	if !c.Valid {
		return 0
	}
	return c.Value
}

// RawRow is one parsed input record. UniversityLabel is kept verbatim:
// its leading whitespace run encodes the institution's nesting depth in
// the published table and must survive parsing untouched.
type RawRow struct {
	SemesterLabel   string
	UniversityLabel string
	Total           Count
	Male            Count
	Female          Count
}

// AbsentFields returns how many of total/male/female are absent.
func (r RawRow) AbsentFields() int {
	n := 0
	for _, c := range []Count{r.Total, r.Male, r.Female} {
		if !c.Valid {
			n++
		}
	}
	return n
}

// CleanedRow is a post-imputation record with the hierarchy decoded out of
// the raw label.
type CleanedRow struct {
	SemesterLabel  string
	UniversityName string
	HierarchyDepth int
	Total          Count
	Male           Count
	Female         Count
}

// OutputRow is the projected record handed to exporters and the presenter.
// Aggregate marks the synthetic per-semester total row; Incomplete marks an
// aggregate whose group contained at least one absent member total.
type OutputRow struct {
	SemesterLabel  string
	UniversityName string
	Total          Count
	Aggregate      bool
	Incomplete     bool
}

// OutputTable is the final merged, ordered table.
type OutputTable struct {
	Rows []OutputRow
}

// Semesters returns the distinct semester labels in ascending order.
func (t OutputTable) Semesters() []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, row := range t.Rows {
		if _, ok := seen[row.SemesterLabel]; ok {
			continue
		}
		seen[row.SemesterLabel] = struct{}{}
		labels = append(labels, row.SemesterLabel)
	}
	sort.Strings(labels)
	return labels
}

// SeriesNames returns the distinct university names in first-seen order,
// with the aggregate series (if any) last.
func (t OutputTable) SeriesNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	var aggregate string
	for _, row := range t.Rows {
		if _, ok := seen[row.UniversityName]; ok {
			continue
		}
		seen[row.UniversityName] = struct{}{}
		if row.Aggregate {
			aggregate = row.UniversityName
			continue
		}
		names = append(names, row.UniversityName)
	}
	if aggregate != "" {
		names = append(names, aggregate)
	}
	return names
}

// Series returns the rows for one university name in table order.
func (t OutputTable) Series(name string) []OutputRow {
	rows := make([]OutputRow, 0)
	for _, row := range t.Rows {
		if row.UniversityName == name {
			rows = append(rows, row)
		}
	}
	return rows
}

// AggregateRows returns only the synthetic per-semester total rows.
func (t OutputTable) AggregateRows() []OutputRow {
	rows := make([]OutputRow, 0)
	for _, row := range t.Rows {
		if row.Aggregate {
			rows = append(rows, row)
		}
	}
	return rows
}
