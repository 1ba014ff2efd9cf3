package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("LEAGUE_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("LEAGUE_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestConfig_StorageEnvOverrides(t *testing.T) {
	t.Setenv("LEAGUE_STORAGE_BACKEND", "MEMORY")
	t.Setenv("LEAGUE_STORAGE_ADDRESS", "ws://db:8000/rpc")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "ws://db:8000/rpc", cfg.Storage.Address)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "league.toml")
	content := `
environment = "production"

[server]
port = 7070

[recorder]
interval = "5m"
min_spacing = "30s"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("LEAGUE_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset keys keep defaults")
	assert.Equal(t, 5*time.Minute, cfg.Recorder.GetInterval())
	assert.Equal(t, 30*time.Second, cfg.Recorder.GetMinSpacing())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"), "")
	require.NoError(t, err)
	assert.Equal(t, "surrealdb", cfg.Storage.Backend)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestRecorderConfig_DurationFallbacks(t *testing.T) {
	rc := RecorderConfig{Interval: "garbage", MinSpacing: "-1s"}
	assert.Equal(t, 15*time.Minute, rc.GetInterval())
	assert.Equal(t, time.Minute, rc.GetMinSpacing())
}
