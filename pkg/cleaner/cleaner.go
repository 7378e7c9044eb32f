// pkg/cleaner/cleaner.go
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

// Recorder persists imputation operations performed during cleaning.
type Recorder interface {
	RecordOperations(ctx context.Context, ops []model.ImputationOperation) error
}

// TableCleaner turns raw parsed rows into the final output table: it fills
// derivable missing counts, decodes the indentation hierarchy, filters to the
// configured universities and appends one aggregate row per semester.
type TableCleaner struct {
	targets        map[string]struct{}
	aggregateLabel string
	recorder       Recorder
	logger         *zap.Logger
	runID          string
}

// NewTableCleaner creates a TableCleaner. The recorder may be nil, in which
// case operations are reported to the caller but not persisted.
func NewTableCleaner(
	universities []string,
	aggregateLabel string,
	runID string,
	recorder Recorder,
	logger *zap.Logger,
) (*TableCleaner, error) {
	if len(universities) == 0 {
		return nil, errors.New("at least one target university is required")
	}
	if aggregateLabel == "" {
		return nil, errors.New("aggregate label cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	targets := make(map[string]struct{}, len(universities))
	for _, name := range universities {
		targets[name] = struct{}{}
	}

	return &TableCleaner{
		targets:        targets,
		aggregateLabel: aggregateLabel,
		recorder:       recorder,
		logger:         logger,
		runID:          runID,
	}, nil
}

// Clean runs the full transformation over an already-parsed table and
// returns the merged, ordered output table together with the operations
// performed. The input is never mutated.
func (c *TableCleaner) Clean(
	ctx context.Context,
	rows []model.RawRow,
) (model.OutputTable, []model.ImputationOperation, error) {
	var operations []model.ImputationOperation

	members := make([]model.OutputRow, 0, len(rows))
	dropped := 0
	conflicts := 0

	for _, raw := range rows {
		cleaned, op := c.cleanSingleRow(raw)
		if op != nil {
			operations = append(operations, *op)
		}

		// Exact, case-sensitive match; anything else is dropped silently.
		if _, ok := c.targets[cleaned.UniversityName]; !ok {
			dropped++
			continue
		}

		// A retained row with two or more absent counts cannot be
		// recovered; its total stays absent and flows through.
		if raw.AbsentFields() >= 2 {
			conflicts++
			operations = append(operations, c.conflictOperation(cleaned))
		}

		// Projection: only semester, name and total survive.
		members = append(members, model.OutputRow{
			SemesterLabel:  cleaned.SemesterLabel,
			UniversityName: cleaned.UniversityName,
			Total:          cleaned.Total,
		})
	}

	aggregates, aggOps := c.aggregate(members)
	operations = append(operations, aggOps...)

	merged := make([]model.OutputRow, 0, len(members)+len(aggregates))
	merged = append(merged, members...)
	merged = append(merged, aggregates...)

	// Labels are zero-padded year ranges, so lexicographic order is
	// chronological. The stable sort keeps member rows ahead of their
	// semester's aggregate row.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SemesterLabel < merged[j].SemesterLabel
	})

	if c.recorder != nil && len(operations) > 0 {
		if err := c.recorder.RecordOperations(ctx, operations); err != nil {
			return model.OutputTable{}, operations,
				fmt.Errorf("failed to record imputation operations: %w", err)
		}
	}

	c.logger.Info("Cleaned enrollment table",
		zap.Int("rows_in", len(rows)),
		zap.Int("rows_retained", len(members)),
		zap.Int("rows_dropped", dropped),
		zap.Int("aggregate_rows", len(aggregates)),
		zap.Int("imputation_conflicts", conflicts),
		zap.Int("operations", len(operations)))

	return model.OutputTable{Rows: merged}, operations, nil
}

// cleanSingleRow imputes missing counts and decodes the hierarchy for one
// raw row. The hierarchy is decoded from the verbatim label before any
// trimming happens anywhere else.
func (c *TableCleaner) cleanSingleRow(raw model.RawRow) (model.CleanedRow, *model.ImputationOperation) {
	total, male, female, filled := imputeCounts(raw.Total, raw.Male, raw.Female)
	depth, name := splitHierarchy(raw.UniversityLabel)

	row := model.CleanedRow{
		SemesterLabel:  raw.SemesterLabel,
		UniversityName: name,
		HierarchyDepth: depth,
		Total:          total,
		Male:           male,
		Female:         female,
	}

	if filled == nil {
		return row, nil
	}

	return row, &model.ImputationOperation{
		RunID:         c.runID,
		Semester:      raw.SemesterLabel,
		University:    name,
		ColumnName:    filled.column,
		OriginalValue: nil,
		NewValue:      strconv.FormatInt(filled.value, 10),
		Operation:     model.OpCountImputation,
		Reason:        filled.reason,
	}
}

// conflictOperation flags a retained row whose total could not be recovered.
func (c *TableCleaner) conflictOperation(row model.CleanedRow) model.ImputationOperation {
	return model.ImputationOperation{
		RunID:      c.runID,
		Semester:   row.SemesterLabel,
		University: row.UniversityName,
		ColumnName: "Total",
		NewValue:   "",
		Operation:  model.OpImputationConflict,
		Reason:     "multiple_fields_absent",
	}
}

// aggregate emits one synthetic total row per distinct semester over the
// retained member rows. Absent member totals count as zero; such groups are
// marked incomplete and flagged rather than silently summed.
func (c *TableCleaner) aggregate(members []model.OutputRow) ([]model.OutputRow, []model.ImputationOperation) {
	type group struct {
		sum        int64
		incomplete bool
	}

	groups := make(map[string]*group)
	labels := make([]string, 0)

	for _, row := range members {
		g, ok := groups[row.SemesterLabel]
		if !ok {
			g = &group{}
			groups[row.SemesterLabel] = g
			labels = append(labels, row.SemesterLabel)
		}
		g.sum += row.Total.OrZero()
		if !row.Total.Valid {
			g.incomplete = true
		}
	}

	sort.Strings(labels)

	aggregates := make([]model.OutputRow, 0, len(labels))
	var operations []model.ImputationOperation

	for _, label := range labels {
		g := groups[label]
		aggregates = append(aggregates, model.OutputRow{
			SemesterLabel:  label,
			UniversityName: c.aggregateLabel,
			Total:          model.NewCount(g.sum),
			Aggregate:      true,
			Incomplete:     g.incomplete,
		})

		if g.incomplete {
			c.logger.Warn("Aggregate computed over incomplete group",
				zap.String("semester", label),
				zap.Int64("sum", g.sum))
			operations = append(operations, model.ImputationOperation{
				RunID:      c.runID,
				Semester:   label,
				University: c.aggregateLabel,
				ColumnName: "Total",
				NewValue:   strconv.FormatInt(g.sum, 10),
				Operation:  model.OpAggregateIncomplete,
				Reason:     "absent_member_total_treated_as_zero",
			})
		}
	}

	return aggregates, operations
}
