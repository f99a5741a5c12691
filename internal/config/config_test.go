package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".", c.ResolveDataDir())
	assert.Equal(t, "plots", c.OutputDir)
	assert.Equal(t, "metrics", c.ExcludePattern)
	assert.Equal(t, FirstFramePronation, c.FirstFrame)
	assert.Equal(t, 14.0, c.PlotWidthIn)
	assert.True(t, c.Workbook)
	assert.True(t, c.Manifest)
	assert.Equal(t, "plots", c.ResolveOutputDir())
	assert.NoError(t, c.Validate())
}

func TestSaveLoad_FileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LEAPMETRICS_HAND", "left")

	in := &Global{
		DataDir:        "/recordings",
		OutputDir:      "/tmp/out",
		ExcludePattern: "summary",
		FirstFrame:     FirstFrameUnclassified,
		PlotWidthIn:    8,
		PlotHeightIn:   6,
		LogLevel:       "debug",
	}
	require.NoError(t, Save(in, ""))
	_, err := os.Stat(filepath.Join(home, ".leapmetrics", "config.yaml"))
	require.NoError(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/recordings", c.DataDir)
	assert.Equal(t, "/tmp/out", c.ResolveOutputDir())
	assert.Equal(t, "summary", c.ExcludePattern)
	assert.Equal(t, FirstFrameUnclassified, c.FirstFrame)
	assert.Equal(t, 8.0, c.PlotWidthIn)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "left", c.Hand)
	assert.False(t, c.Workbook)
}

func TestValidate(t *testing.T) {
	c := &Global{FirstFrame: "sideways", PlotWidthIn: 1, PlotHeightIn: 1}
	assert.ErrorContains(t, c.Validate(), "invalid first_frame")

	c.FirstFrame = FirstFramePronation
	c.PlotHeightIn = 0
	assert.ErrorContains(t, c.Validate(), "plot size")
}
