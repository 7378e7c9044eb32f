// pkg/render/animate.go
package render

import (
	"fmt"
	"image"
	"image/color/palette"
	stddraw "image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"enrolltrend/pkg/cleaner"
	"enrolltrend/pkg/model"
)

// RenderGIF writes the animated chart: one frame per distinct semester year,
// each revealing the series up to that year in ascending order.
func (p *Presenter) RenderGIF(table model.OutputTable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	years, err := semesterYears(table)
	if err != nil {
		return err
	}

	anim := &gif.GIF{}
	for i, year := range years {
		frame, err := p.renderFrame(table, year)
		if err != nil {
			return fmt.Errorf("failed to render frame for year %d: %w", year, err)
		}

		delay := p.cfg.FrameDelay
		if i == len(years)-1 && p.cfg.FinalHold > 0 {
			delay = p.cfg.FinalHold
		}

		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create GIF file: %w", err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, anim); err != nil {
		return fmt.Errorf("failed to encode GIF: %w", err)
	}

	p.logger.Info("Rendered animation",
		zap.String("path", path),
		zap.Int("frames", len(anim.Image)))

	return nil
}

// renderFrame draws the plot revealed up to one year and quantizes it to a
// paletted GIF frame.
func (p *Presenter) renderFrame(table model.OutputTable, upToYear int) (*image.Paletted, error) {
	plt, err := p.buildPlot(table, upToYear)
	if err != nil {
		return nil, err
	}

	width := vg.Length(p.cfg.Width) * vg.Inch
	height := vg.Length(p.cfg.Height) * vg.Inch
	canvas := vgimg.New(width, height)
	plt.Draw(draw.New(canvas))

	img := canvas.Image()
	paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
	stddraw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})

	return paletted, nil
}

// semesterYears returns the distinct year keys of the table ascending.
func semesterYears(table model.OutputTable) ([]int, error) {
	seen := make(map[int]struct{})
	years := make([]int, 0)

	for _, label := range table.Semesters() {
		year, err := cleaner.SemesterYear(label)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		years = append(years, year)
	}

	sort.Ints(years)
	if len(years) == 0 {
		return nil, fmt.Errorf("output table has no semesters")
	}

	return years, nil
}
