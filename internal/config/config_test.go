package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory and home so no real
// plantdx.yaml or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, used, err := Load(New(), Sources{})
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Config{
		KB:     KBConfig{Driver: "builtin"},
		Output: OutputConfig{Format: "text", Color: true},
		Log:    LogConfig{Level: "info", Format: "console"},
		Batch:  BatchConfig{Workers: 4},
	}, cfg)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	write(t, filepath.Join(dir, "plantdx.yaml"), "kb:\n  driver: file\n  path: kb.yaml\noutput:\n  format: markdown\n")

	cfg, used, err := Load(New(), Sources{})
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.KB.Driver)
	assert.Equal(t, "kb.yaml", cfg.KB.Path)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.Equal(t, "plantdx.yaml", filepath.Base(used))
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	write(t, path, "batch:\n  workers: 9\nlog:\n  level: DEBUG\n")

	cfg, used, err := Load(New(), Sources{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 9, cfg.Batch.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, _, err := Load(New(), Sources{ConfigFile: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "plantdx.yaml")
	write(t, path, "output:\n  format: markdown\n  color: true\n")
	t.Setenv("PLANTDX_OUTPUT_FORMAT", "json")
	t.Setenv("PLANTDX_OUTPUT_COLOR", "false")

	cfg, _, err := Load(New(), Sources{})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	write(t, filepath.Join(dir, ".env"), "PLANTDX_BATCH_WORKERS=12\n")
	t.Cleanup(func() { os.Unsetenv("PLANTDX_BATCH_WORKERS") })

	cfg, _, err := Load(New(), Sources{})
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Batch.Workers)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PLANTDX_OUTPUT_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")
	require.NoError(t, flags.Parse([]string{"--format", "pretty"}))

	v := New()
	require.NoError(t, v.BindPFlag("output.format", flags.Lookup("format")))
	cfg, _, err := Load(v, Sources{})
	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.Output.Format)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"format":      "output:\n  format: html\n",
		"driver":      "kb:\n  driver: postgres\n",
		"path":        "kb:\n  driver: sqlite\n",
		"workers":     "batch:\n  workers: 0\n",
		"workers max": "batch:\n  workers: 65\n",
		"log level":   "log:\n  level: trace\n",
		"log format":  "log:\n  format: xml\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "plantdx.yaml")
			write(t, path, content)
			_, _, err := Load(New(), Sources{ConfigFile: path})
			assert.Error(t, err)
		})
	}
}
