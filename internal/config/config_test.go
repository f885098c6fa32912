package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no plotgen.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, uint64(0), cfg.Generate.Seed)
	assert.Equal(t, runtime.NumCPU(), cfg.Generate.Concurrency)
	assert.Equal(t, ".", cfg.Generate.OutDir)
	assert.Equal(t, "downloads", cfg.Export.Dir)
	assert.Equal(t, "csv", cfg.Export.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
generate:
  seed: 42
  concurrency: 2
export:
  format: xlsx
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plotgen.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, uint64(42), cfg.Generate.Seed)
	assert.Equal(t, 2, cfg.Generate.Concurrency)
	assert.Equal(t, "xlsx", cfg.Export.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "downloads", cfg.Export.Dir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
generate:
  concurrency: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plotgen.yaml"), []byte(yaml), 0644))

	t.Setenv("PLOTGEN_LOG_LEVEL", "warn")
	t.Setenv("PLOTGEN_GENERATE_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Generate.Concurrency)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLOTGEN_EXPORT_DIR=reports\nPLOTGEN_LOG_LEVEL=error\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("PLOTGEN_EXPORT_DIR")
		os.Unsetenv("PLOTGEN_LOG_LEVEL")
	})
	t.Setenv("PLOTGEN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "reports", cfg.Export.Dir)
	// already set, .env does not override
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsUnknownExportFormat(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PLOTGEN_EXPORT_FORMAT", "pdf")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Generate: GenerateConfig{Concurrency: 1}, Export: ExportConfig{Format: "shp"}},
		},
		{
			name:    "zero concurrency",
			cfg:     Config{Export: ExportConfig{Format: "csv"}},
			wantErr: "generate.concurrency must be at least 1",
		},
		{
			name:    "bad format",
			cfg:     Config{Generate: GenerateConfig{Concurrency: 4}, Export: ExportConfig{Format: "json"}},
			wantErr: "unsupported export.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
