// pkg/exporter/excel.go
package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"enrolltrend/pkg/model"
)

const (
	dataSheet    = "Enrollment"
	summarySheet = "Summary"
)

// SeriesSummary holds descriptive statistics for one enrollment series,
// computed over present totals only.
type SeriesSummary struct {
	Name      string
	Semesters int
	Mean      float64
	Min       float64
	Max       float64
}

// WriteWorkbook writes the output table to an XLSX workbook with a data
// sheet and a per-series summary sheet.
func (w *Writer) WriteWorkbook(path string, table model.OutputTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeDataSheet(f, table); err != nil {
		return err
	}
	if err := w.writeSummarySheet(f, table); err != nil {
		return err
	}

	// Drop the default sheet created by excelize.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Wrote XLSX export",
		zap.String("path", path),
		zap.Int("rows", len(table.Rows)))

	return nil
}

// writeDataSheet fills the Enrollment sheet with the table rows.
func (w *Writer) writeDataSheet(f *excelize.File, table model.OutputTable) error {
	if _, err := f.NewSheet(dataSheet); err != nil {
		return fmt.Errorf("failed to create data sheet: %w", err)
	}

	header := []interface{}{"Semester", "University", "Total", "Aggregate", "Incomplete"}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}

		var total interface{}
		if row.Total.Valid {
			total = row.Total.Value
		}

		values := []interface{}{row.SemesterLabel, row.UniversityName, total, row.Aggregate, row.Incomplete}
		if err := f.SetSheetRow(dataSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	return nil
}

// writeSummarySheet fills the Summary sheet with per-series statistics.
func (w *Writer) writeSummarySheet(f *excelize.File, table model.OutputTable) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	header := []interface{}{"Series", "Semesters", "Mean", "Min", "Max"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	summaries := Summarize(table)
	for i, s := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}

		values := []interface{}{s.Name, s.Semesters, s.Mean, s.Min, s.Max}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i, err)
		}
	}

	return nil
}

// Summarize computes descriptive statistics for every series in the table.
// Absent totals are excluded from the statistics, not treated as zero.
func Summarize(table model.OutputTable) []SeriesSummary {
	names := table.SeriesNames()
	summaries := make([]SeriesSummary, 0, len(names))

	for _, name := range names {
		var totals []float64
		for _, row := range table.Series(name) {
			if row.Total.Valid {
				totals = append(totals, float64(row.Total.Value))
			}
		}

		summary := SeriesSummary{
			Name:      name,
			Semesters: len(totals),
		}
		if len(totals) > 0 {
			summary.Mean = stat.Mean(totals, nil)
			summary.Min = floats.Min(totals)
			summary.Max = floats.Max(totals)
		}

		summaries = append(summaries, summary)
	}

	return summaries
}
