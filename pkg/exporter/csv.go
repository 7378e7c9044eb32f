// pkg/exporter/csv.go
package exporter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

// Writer exports the cleaned output table for inspection.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new export writer.
func NewWriter(logger *zap.Logger) (*Writer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Writer{logger: logger}, nil
}

// csvHeader is the column layout of the exported table.
var csvHeader = []string{"semester", "university", "total"}

// WriteCSV writes the output table to a CSV file. Absent totals are written
// as empty fields, never as zero.
func (w *Writer) WriteCSV(path string, table model.OutputTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		record := []string{row.SemesterLabel, row.UniversityName, formatCount(row.Total)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	w.logger.Info("Wrote CSV export",
		zap.String("path", path),
		zap.Int("rows", len(table.Rows)))

	return writer.Error()
}

// formatCount renders an optional count for export.
func formatCount(c model.Count) string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatInt(c.Value, 10)
}
