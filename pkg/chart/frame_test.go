package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/smcchart/pkg/types"
)

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "ETHUSDT_1h_advanced_chart.png", ExportFileName("ETHUSDT", "1h"))
}

func TestChart_SaveAs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	c := New("ETHUSDT", types.Interval1h)
	c.SetData(ascendingCandles(), nil)

	filePath, err := c.SaveAs(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ETHUSDT_1h_advanced_chart.png"), filePath)

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestChart_SaveAsWithoutSurface(t *testing.T) {
	c := New("ETHUSDT", types.Interval1h)
	c.Resize(0, 0, 1)
	_, err := c.SaveAs(t.TempDir())
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestChart_ViewportSurvivesNewData(t *testing.T) {
	c := New("ETHUSDT", types.Interval1h)
	c.SetData(ascendingCandles(), nil)
	c.Wheel(-1)
	c.PointerDown(100, 100)
	c.PointerMove(60, 100)
	c.PointerUp(60, 100)

	before := c.Viewport()
	c.SetData(ascendingCandles()[:3], nil)
	assert.Equal(t, before, c.Viewport())

	c.Controller().Reset()
	assert.Equal(t, DefaultViewport(), c.Viewport())
}
