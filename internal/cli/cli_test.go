package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/iconpipe/internal/app"
	"github.com/specialistvlad/iconpipe/internal/watch"
)

func TestParse_BuildDefaults(t *testing.T) {
	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, action, err := Parse([]string{"build"}, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, ActionBuild, action)
	assert.Equal(t, &app.Config{
		ConfigPaths: []string{DefaultConfigPath},
		LogFormat:   "text",
		LogLevel:    "info",
	}, cfg)
}

func TestParse_BuildFlags(t *testing.T) {
	cfg, action, err := Parse([]string{
		"build", "a.yaml", "conf.d",
		"-o", "out", "--icons", "tpl", "--format", "YAML",
		"--no-png", "--no-library", "--force",
		"--workers", "3", "--unit-timeout", "2s",
		"--log-format", "JSON", "--log-level", "debug", "--status-port", "9090",
	}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, ActionBuild, action)
	assert.Equal(t, &app.Config{
		ConfigPaths: []string{"a.yaml", "conf.d"},
		Format:      app.FormatYAML,
		OutputDir:   "out",
		IconsDir:    "tpl",
		NoPNG:       true,
		NoLibrary:   true,
		Force:       true,
		Workers:     3,
		UnitTimeout: 2 * time.Second,
		LogFormat:   "json",
		LogLevel:    "debug",
		StatusPort:  9090,
	}, cfg)
}

func TestParse_Watch(t *testing.T) {
	cfg, action, err := Parse([]string{"watch", "icons.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ActionWatch, action)
	assert.Equal(t, watch.DefaultDebounce, cfg.Debounce)

	cfg, _, err = Parse([]string{"watch", "--debounce", "1s"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, []string{DefaultConfigPath}, cfg.ConfigPaths)
}

func TestParse_HelpAndVersion(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "no command", args: nil, want: "Usage:"},
		{name: "help flag", args: []string{"--help"}, want: "Available Commands:"},
		{name: "build help", args: []string{"build", "-h"}, want: "--unit-timeout"},
		{name: "version", args: []string{"version"}, want: "iconpipe version dev"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}

			cfg, action, err := Parse(tc.args, out)

			require.NoError(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, ActionNone, action)
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"build", "--nope"}, wantMsg: "unknown flag: --nope"},
		{name: "bad flag value", args: []string{"build", "--workers", "many"}, wantMsg: "invalid argument"},
		{name: "unknown command", args: []string{"deploy"}, wantMsg: "unknown command"},
		{name: "log format", args: []string{"build", "--log-format", "xml"}, wantMsg: "invalid log-format"},
		{name: "log level", args: []string{"build", "--log-level", "trace"}, wantMsg: "invalid log-level"},
		{name: "config format", args: []string{"build", "--format", "toml"}, wantMsg: "unknown config format"},
		{name: "negative workers", args: []string{"build", "--workers=-1"}, wantMsg: "workers"},
		{name: "debounce on build", args: []string{"build", "--debounce", "1s"}, wantMsg: "unknown flag"},
		{name: "version args", args: []string{"version", "x"}, wantMsg: "unknown command"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			require.Error(t, err)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "build", ActionBuild.String())
	assert.Equal(t, "watch", ActionWatch.String())
	assert.Equal(t, "none", ActionNone.String())
}
