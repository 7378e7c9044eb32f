// pkg/pipeline/verifier.go
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

// Discrepancy describes one verification finding in the output table.
type Discrepancy struct {
	Semester    string
	Series      string
	Description string
}

// VerificationReport contains the results of an output table verification.
type VerificationReport struct {
	VerificationTime  time.Time
	RowCount          int
	SemesterCount     int
	AggregateCoverage bool
	SumsMatch         bool
	Ordered           bool
	NamesValid        bool
	Discrepancies     []Discrepancy
	Duration          time.Duration
}

// OK reports whether the table passed all checks.
func (r *VerificationReport) OK() bool {
	return r.AggregateCoverage && r.SumsMatch && r.Ordered && r.NamesValid
}

// Verifier checks the invariants of a cleaned output table. Findings are
// logged warnings, not errors: they never abort the run.
type Verifier struct {
	targets        map[string]struct{}
	aggregateLabel string
	logger         *zap.Logger
}

// NewVerifier creates a verifier for the configured university set.
func NewVerifier(universities []string, aggregateLabel string, logger *zap.Logger) *Verifier {
	targets := make(map[string]struct{}, len(universities))
	for _, name := range universities {
		targets[name] = struct{}{}
	}

	return &Verifier{
		targets:        targets,
		aggregateLabel: aggregateLabel,
		logger:         logger,
	}
}

// Verify runs all checks over the output table.
func (v *Verifier) Verify(table model.OutputTable) *VerificationReport {
	start := time.Now()
	report := &VerificationReport{
		VerificationTime:  start,
		RowCount:          len(table.Rows),
		SemesterCount:     len(table.Semesters()),
		AggregateCoverage: true,
		SumsMatch:         true,
		Ordered:           true,
		NamesValid:        true,
	}

	v.checkAggregates(table, report)
	v.checkOrdering(table, report)
	v.checkNames(table, report)

	report.Duration = time.Since(start)

	for _, d := range report.Discrepancies {
		v.logger.Warn("Output table discrepancy",
			zap.String("semester", d.Semester),
			zap.String("series", d.Series),
			zap.String("description", d.Description))
	}

	v.logger.Info("Verified output table",
		zap.Int("rows", report.RowCount),
		zap.Int("semesters", report.SemesterCount),
		zap.Bool("ok", report.OK()),
		zap.Duration("duration", report.Duration))

	return report
}

// checkAggregates verifies that every distinct semester carries exactly one
// aggregate row and that its total equals the member sum under the
// absent-as-zero policy.
func (v *Verifier) checkAggregates(table model.OutputTable, report *VerificationReport) {
	aggregates := make(map[string]int)
	sums := make(map[string]int64)
	totals := make(map[string]int64)

	for _, row := range table.Rows {
		if row.Aggregate {
			aggregates[row.SemesterLabel]++
			totals[row.SemesterLabel] = row.Total.OrZero()
			continue
		}
		sums[row.SemesterLabel] += row.Total.OrZero()
	}

	for _, label := range table.Semesters() {
		n := aggregates[label]
		if n != 1 {
			report.AggregateCoverage = false
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Semester:    label,
				Series:      v.aggregateLabel,
				Description: fmt.Sprintf("expected 1 aggregate row, found %d", n),
			})
			continue
		}

		if sums[label] != totals[label] {
			report.SumsMatch = false
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Semester:    label,
				Series:      v.aggregateLabel,
				Description: fmt.Sprintf("aggregate total %d does not match member sum %d", totals[label], sums[label]),
			})
		}
	}
}

// checkOrdering verifies ascending lexicographic semester order.
func (v *Verifier) checkOrdering(table model.OutputTable, report *VerificationReport) {
	for i := 1; i < len(table.Rows); i++ {
		if table.Rows[i].SemesterLabel < table.Rows[i-1].SemesterLabel {
			report.Ordered = false
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Semester:    table.Rows[i].SemesterLabel,
				Series:      table.Rows[i].UniversityName,
				Description: fmt.Sprintf("row %d out of order after %q", i, table.Rows[i-1].SemesterLabel),
			})
		}
	}
}

// checkNames verifies only configured universities and the aggregate label
// appear in the table.
func (v *Verifier) checkNames(table model.OutputTable, report *VerificationReport) {
	for _, row := range table.Rows {
		if row.UniversityName == v.aggregateLabel {
			continue
		}
		if _, ok := v.targets[row.UniversityName]; !ok {
			report.NamesValid = false
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Semester:    row.SemesterLabel,
				Series:      row.UniversityName,
				Description: "university not in configured filter set",
			})
		}
	}
}
