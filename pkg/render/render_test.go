// pkg/render/render_test.go
package render

import (
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

func renderTable() model.OutputTable {
	return model.OutputTable{Rows: []model.OutputRow{
		{SemesterLabel: "2007/08", UniversityName: "Universität Bonn", Total: model.NewCount(110)},
		{SemesterLabel: "2007/08", UniversityName: "Uni Total", Total: model.NewCount(110), Aggregate: true},
		{SemesterLabel: "2008/09", UniversityName: "Universität Bonn", Total: model.NewCount(130)},
		{SemesterLabel: "2008/09", UniversityName: "Uni Total", Total: model.NewCount(130), Aggregate: true},
		{SemesterLabel: "2009/10", UniversityName: "Universität Bonn", Total: model.AbsentCount()},
		{SemesterLabel: "2009/10", UniversityName: "Uni Total", Total: model.NewCount(0), Aggregate: true, Incomplete: true},
	}}
}

func newTestPresenter(t *testing.T) *Presenter {
	t.Helper()

	p, err := NewPresenter(Config{
		Colors:     map[string]string{"Universität Bonn": "#1b9e77", "Uni Total": "#666666"},
		YMax:       200,
		Width:      4,
		Height:     3,
		FrameDelay: 10,
		FinalHold:  50,
	}, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestNewPresenterValidation(t *testing.T) {
	logger := zap.NewNop()
	valid := Config{YMax: 100, Width: 4, Height: 3, FrameDelay: 10}

	_, err := NewPresenter(valid, nil)
	assert.Error(t, err)

	bad := valid
	bad.YMax = 0
	_, err = NewPresenter(bad, logger)
	assert.Error(t, err)

	bad = valid
	bad.Width = 0
	_, err = NewPresenter(bad, logger)
	assert.Error(t, err)

	bad = valid
	bad.FrameDelay = 0
	_, err = NewPresenter(bad, logger)
	assert.Error(t, err)
}

func TestRenderChartWritesPNG(t *testing.T) {
	p := newTestPresenter(t)
	path := filepath.Join(t.TempDir(), "charts", "enrollment.png")

	require.NoError(t, p.RenderChart(renderTable(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(data[:8]))
}

func TestRenderChartEmptyTable(t *testing.T) {
	p := newTestPresenter(t)
	path := filepath.Join(t.TempDir(), "enrollment.png")

	err := p.RenderChart(model.OutputTable{}, path)
	assert.Error(t, err)
}

func TestRenderGIFFramesAndDelays(t *testing.T) {
	p := newTestPresenter(t)
	path := filepath.Join(t.TempDir(), "enrollment.gif")

	require.NoError(t, p.RenderGIF(renderTable(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)

	// One frame per distinct semester year.
	require.Len(t, anim.Image, 3)
	assert.Equal(t, []int{10, 10, 50}, anim.Delay)
}

func TestRenderAll(t *testing.T) {
	p := newTestPresenter(t)
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "enrollment.png")
	gifPath := filepath.Join(dir, "enrollment.gif")

	require.NoError(t, p.RenderAll(renderTable(), chartPath, gifPath))

	assert.FileExists(t, chartPath)
	assert.FileExists(t, gifPath)
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#1b9e77")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1b, G: 0x9e, B: 0x77, A: 255}, c)

	_, err = parseHexColor("teal")
	assert.Error(t, err)
}

func TestSeriesColorFallback(t *testing.T) {
	p := newTestPresenter(t)

	configured := p.seriesColor("Universität Bonn", 0)
	assert.Equal(t, color.RGBA{R: 0x1b, G: 0x9e, B: 0x77, A: 255}, configured)

	fallback := p.seriesColor("Universität Köln", 1)
	assert.NotNil(t, fallback)
}
