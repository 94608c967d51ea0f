package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubelink/cubelink-go/internal/sim"
	"github.com/cubelink/cubelink-go/pkg/group"
)

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: g4\ngroup: \"21\"\nsimulate: true\n"), 0o600))

	f, fs, err := parseFlags([]string{"-config", path, "-model", "wormbot", "-readiness", "last-index"})
	require.NoError(t, err)
	cfg, err := loadConfig(f, fs)
	require.NoError(t, err)

	assert.Equal(t, "wormbot", cfg.Model)
	assert.Equal(t, group.Token("21"), cfg.Token())
	assert.Equal(t, group.PolicyLastIndex, cfg.Policy())
	assert.True(t, cfg.Simulate, "unset flags keep file values")
}

func TestInvalidFlagValue(t *testing.T) {
	f, fs, err := parseFlags([]string{"-group", "33"})
	require.NoError(t, err)
	_, err = loadConfig(f, fs)
	assert.ErrorIs(t, err, group.ErrInvalidToken)
}

func TestSimulatedScanner(t *testing.T) {
	f, fs, err := parseFlags([]string{"-simulate", "-group", "12"})
	require.NoError(t, err)
	cfg, err := loadConfig(f, fs)
	require.NoError(t, err)

	scanner := newScanner(cfg, nil)
	agg, ok := scanner.(*sim.Aggregator)
	require.True(t, ok)
	assert.Equal(t, "PINGPONG.12", agg.Name())
}

func TestLoggerWritesToConsole(t *testing.T) {
	f, fs, err := parseFlags([]string{"-log-level", "debug"})
	require.NoError(t, err)
	cfg, err := loadConfig(f, fs)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger, closer, err := newLogger(cfg, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hello", "unit", 2)
	assert.True(t, strings.Contains(buf.String(), "msg=hello unit=2"))
}

func TestLoggerRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubectl.log")
	f, fs, err := parseFlags([]string{"-log-file", path})
	require.NoError(t, err)
	cfg, err := loadConfig(f, fs)
	require.NoError(t, err)

	var console bytes.Buffer
	logger, closer, err := newLogger(cfg, &console)
	require.NoError(t, err)
	logger.Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, console.String())
}
