// pkg/render/presenter.go
package render

import (
	"errors"

	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

// Config holds the display parameters for chart and animation output.
type Config struct {
	Colors     map[string]string // Series name -> #rrggbb line color
	YMax       float64           // Fixed upper bound of the count axis
	Width      float64           // Chart width in inches
	Height     float64           // Chart height in inches
	FrameDelay int               // Per-frame delay in 1/100 s
	FinalHold  int               // Delay on the last frame in 1/100 s
	Title      string
}

// Presenter renders the cleaned output table into the two artifacts of the
// report: a static chart and an animated GIF.
type Presenter struct {
	cfg    Config
	logger *zap.Logger
}

// NewPresenter creates a presenter for the given display configuration.
func NewPresenter(cfg Config, logger *zap.Logger) (*Presenter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.YMax <= 0 {
		return nil, errors.New("y axis maximum must be positive")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("chart dimensions must be positive")
	}
	if cfg.FrameDelay <= 0 {
		return nil, errors.New("frame delay must be positive")
	}
	if cfg.Title == "" {
		cfg.Title = "University enrollment in North Rhine-Westphalia"
	}

	return &Presenter{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// RenderAll produces both artifacts.
func (p *Presenter) RenderAll(table model.OutputTable, chartPath, gifPath string) error {
	if err := p.RenderChart(table, chartPath); err != nil {
		return err
	}
	return p.RenderGIF(table, gifPath)
}
