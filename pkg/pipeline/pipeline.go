// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"enrolltrend/pkg/audit"
	"enrolltrend/pkg/cleaner"
	"enrolltrend/pkg/config"
	"enrolltrend/pkg/exporter"
	"enrolltrend/pkg/loader"
	"enrolltrend/pkg/model"
	"enrolltrend/pkg/render"
	"enrolltrend/pkg/source"
)

// RunResult represents the outcome of one pipeline run.
type RunResult struct {
	RunID     string
	Success   bool
	Table     model.OutputTable
	Report    *VerificationReport
	Errors    []ErrorRecord
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Complete marks the run as finished and calculates the duration.
func (r *RunResult) Complete(success bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Success = success
}

// AddError adds an error record to the result.
func (r *RunResult) AddError(record ErrorRecord) {
	r.Errors = append(r.Errors, record)
}

// Manager wires the pipeline stages together and executes one synchronous
// pass: source -> loader -> cleaner -> verifier -> exporter -> presenter.
type Manager struct {
	cfg       *config.Config
	logger    *zap.Logger
	source    source.Source
	loader    *loader.Loader
	store     *audit.Store
	cleaner   *cleaner.TableCleaner
	verifier  *Verifier
	writer    *exporter.Writer
	presenter *render.Presenter
	metrics   *RunMetrics
	runID     string
}

// NewManager creates a fully wired pipeline manager.
func NewManager(cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	runID := uuid.New().String()

	src := source.New(cfg.SourceURI, cfg.SourceTimeout, logger)

	ld, err := loader.NewLoader(cfg.Schema(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}

	store, err := audit.NewStore(cfg.AuditDBPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit store: %w", err)
	}

	cl, err := cleaner.NewTableCleaner(cfg.Universities, cfg.AggregateLabel, runID, store, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create cleaner: %w", err)
	}

	writer, err := exporter.NewWriter(logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	presenter, err := render.NewPresenter(render.Config{
		Colors:     cfg.Colors,
		YMax:       cfg.YMax,
		Width:      cfg.ChartWidth,
		Height:     cfg.ChartHeight,
		FrameDelay: cfg.FrameDelay,
		FinalHold:  cfg.FinalHold,
	}, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	return &Manager{
		cfg:       cfg,
		logger:    logger,
		source:    src,
		loader:    ld,
		store:     store,
		cleaner:   cl,
		verifier:  NewVerifier(cfg.Universities, cfg.AggregateLabel, logger),
		writer:    writer,
		presenter: presenter,
		metrics:   NewRunMetrics(logger),
		runID:     runID,
	}, nil
}

// RunID returns the identifier of this pipeline run.
func (m *Manager) RunID() string {
	return m.runID
}

// Run executes the pipeline end to end. There is no retry and no partial
// success: the first fatal error aborts the run.
func (m *Manager) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     m.runID,
		StartTime: time.Now(),
	}

	m.logger.Info("Starting pipeline run",
		zap.String("run_id", m.runID),
		zap.String("source", m.source.Describe()))

	table, err := m.buildTable(ctx, result)
	if err != nil {
		result.Complete(false)
		m.metrics.Complete()
		return result, err
	}
	result.Table = table

	result.Report = m.verifier.Verify(table)
	if !result.Report.OK() {
		m.metrics.RecordError(ErrorCategoryWarning)
	}

	if err := m.writeArtifacts(table); err != nil {
		result.AddError(NewErrorRecord("export", err, ErrorCategoryArtifact))
		m.metrics.RecordError(ErrorCategoryArtifact)
		result.Complete(false)
		m.metrics.Complete()
		return result, err
	}

	result.Complete(true)
	m.metrics.Complete()
	m.logger.Info("Pipeline run finished",
		zap.String("run_id", m.runID),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// buildTable runs the load and clean stages.
func (m *Manager) buildTable(ctx context.Context, result *RunResult) (model.OutputTable, error) {
	rc, err := m.source.Open(ctx)
	if err != nil {
		result.AddError(NewErrorRecord("source", err, ErrorCategorySource))
		m.metrics.RecordError(ErrorCategorySource)
		return model.OutputTable{}, err
	}
	defer rc.Close()

	rows, err := m.loader.Load(rc)
	if err != nil {
		result.AddError(NewErrorRecord("load", err, ErrorCategorySchema))
		m.metrics.RecordError(ErrorCategorySchema)
		return model.OutputTable{}, err
	}
	m.metrics.RecordParse(len(rows))

	table, ops, err := m.cleaner.Clean(ctx, rows)
	if err != nil {
		result.AddError(NewErrorRecord("clean", err, ErrorCategoryCritical))
		m.metrics.RecordError(ErrorCategoryCritical)
		return model.OutputTable{}, err
	}
	m.metrics.RecordClean(table, ops)

	return table, nil
}

// writeArtifacts writes the exports and renders chart and animation.
func (m *Manager) writeArtifacts(table model.OutputTable) error {
	if err := m.writer.WriteCSV(m.cfg.CSVPath(), table); err != nil {
		return err
	}
	m.metrics.RecordArtifact(m.cfg.CSVPath())

	if err := m.writer.WriteWorkbook(m.cfg.ExcelPath(), table); err != nil {
		return err
	}
	m.metrics.RecordArtifact(m.cfg.ExcelPath())

	if err := m.presenter.RenderChart(table, m.cfg.ChartPath()); err != nil {
		return err
	}
	m.metrics.RecordArtifact(m.cfg.ChartPath())

	if err := m.presenter.RenderGIF(table, m.cfg.GIFPath()); err != nil {
		return err
	}
	m.metrics.RecordArtifact(m.cfg.GIFPath())

	return nil
}

// Metrics returns the run metrics tracker.
func (m *Manager) Metrics() *RunMetrics {
	return m.metrics
}

// Close releases the manager's resources.
func (m *Manager) Close() error {
	return m.store.Close()
}
