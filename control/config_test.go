package control

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: DEBUG
  format: json
executor:
  workers: 3
pool:
  max_pooled_size: 65536
cli:
  listen: "0.0.0.0:7000"
  timeout: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, 3, cfg.Executor.Workers)
	assert.Equal(t, 65536, cfg.Pool.MaxPooledSize)
	assert.Equal(t, "0.0.0.0:7000", cfg.CLI.Listen)
	assert.Equal(t, 2*time.Second, cfg.CLI.Timeout)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("POSIXREAD_EXECUTOR_WORKERS", "7")
	t.Setenv("POSIXREAD_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Executor.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFromMap_Validation(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  string
	}{
		{"bad level", map[string]any{"logging": map[string]any{"level": "loud"}}, "Level"},
		{"bad format", map[string]any{"logging": map[string]any{"format": "xml"}}, "Format"},
		{"negative workers", map[string]any{"executor": map[string]any{"workers": -1}}, "Workers"},
		{"negative pool", map[string]any{"pool": map[string]any{"max_pooled_size": -5}}, "MaxPooledSize"},
		{"bad listen", map[string]any{"cli": map[string]any{"listen": "nocolon"}}, "cli.listen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.settings)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromMap_WeakTypes(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"executor": map[string]any{"workers": "2"},
		"cli":      map[string]any{"timeout": "150ms"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Executor.Workers)
	assert.Equal(t, 150*time.Millisecond, cfg.CLI.Timeout)
}
