// pkg/render/chart.go
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"enrolltrend/pkg/cleaner"
	"enrolltrend/pkg/model"
)

// RenderChart writes the full static enrollment chart as PNG.
func (p *Presenter) RenderChart(table model.OutputTable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	plt, err := p.buildPlot(table, 0)
	if err != nil {
		return err
	}

	width := vg.Length(p.cfg.Width) * vg.Inch
	height := vg.Length(p.cfg.Height) * vg.Inch
	if err := plt.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}

	p.logger.Info("Rendered static chart", zap.String("path", path))
	return nil
}

// buildPlot assembles one line per series. When upToYear is positive, only
// semesters whose year key is at or below it are drawn; the axis bounds stay
// fixed either way so animation frames align.
func (p *Presenter) buildPlot(table model.OutputTable, upToYear int) (*plot.Plot, error) {
	plt := plot.New()
	plt.Title.Text = p.cfg.Title
	plt.X.Label.Text = "Winter semester"
	plt.Y.Label.Text = "Students"
	plt.Y.Min = 0
	plt.Y.Max = p.cfg.YMax
	plt.Legend.Top = true

	minYear, maxYear, err := yearBounds(table)
	if err != nil {
		return nil, err
	}
	plt.X.Min = float64(minYear)
	plt.X.Max = float64(maxYear)

	for i, name := range table.SeriesNames() {
		points, err := seriesPoints(table, name, upToYear)
		if err != nil {
			return nil, err
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, fmt.Errorf("failed to build line for %q: %w", name, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = p.seriesColor(name, i)

		plt.Add(line)
		plt.Legend.Add(name, line)
	}

	return plt, nil
}

// seriesPoints converts one series into plot points keyed by semester year.
// Absent totals produce no point.
func seriesPoints(table model.OutputTable, name string, upToYear int) (plotter.XYs, error) {
	rows := table.Series(name)
	points := make(plotter.XYs, 0, len(rows))

	for _, row := range rows {
		if !row.Total.Valid {
			continue
		}
		year, err := cleaner.SemesterYear(row.SemesterLabel)
		if err != nil {
			return nil, err
		}
		if upToYear > 0 && year > upToYear {
			continue
		}
		points = append(points, plotter.XY{X: float64(year), Y: float64(row.Total.Value)})
	}

	return points, nil
}

// yearBounds returns the smallest and largest semester year in the table.
func yearBounds(table model.OutputTable) (int, int, error) {
	semesters := table.Semesters()
	if len(semesters) == 0 {
		return 0, 0, fmt.Errorf("output table has no semesters")
	}

	minYear, err := cleaner.SemesterYear(semesters[0])
	if err != nil {
		return 0, 0, err
	}
	maxYear, err := cleaner.SemesterYear(semesters[len(semesters)-1])
	if err != nil {
		return 0, 0, err
	}

	return minYear, maxYear, nil
}

// seriesColor resolves the configured color for a series, falling back to
// the plotutil palette when no color is configured.
func (p *Presenter) seriesColor(name string, index int) color.Color {
	hex, ok := p.cfg.Colors[name]
	if !ok {
		return plotutil.Color(index)
	}

	c, err := parseHexColor(hex)
	if err != nil {
		p.logger.Warn("Invalid color, using palette fallback",
			zap.String("series", name),
			zap.String("color", hex))
		return plotutil.Color(index)
	}
	return c
}

// parseHexColor parses a #rrggbb color.
func parseHexColor(s string) (color.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
