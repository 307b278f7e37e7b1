package bookshelf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadConfigFile(writeTempFile(t, "config.yml", ""))
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("values", func(t *testing.T) {
		cfg, err := LoadConfigFile(writeTempFile(t, "config.yml", `
is_production: true
log_level: warn
storage:
  backend: redis
redis:
  host: localhost
  port: "6379"
  dial_timeout: 2s
discovery:
  proxy_endpoint: "off"
  primary_limit: 3
`))
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction)
		assert.Equal(t, zapcore.WarnLevel, cfg.LogLevel)
		assert.Equal(t, BackendRedis, cfg.Storage.Backend)
		assert.Equal(t, 2*time.Second, cfg.Redis.DialTimeout)
		assert.Equal(t, ProxyDisabled, cfg.Discovery.ProxyEndpoint)
		assert.Equal(t, 3, cfg.Discovery.PrimaryLimit)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadConfigFile(writeTempFile(t, "config.yml", "storage: [unclosed"))
		assert.Error(t, err)
	})
}

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, InitConfig(cfg, "abc123", "v1.0.0", "2023-07-02"))
		assert.Equal(t, "abc123", cfg.GitCommit)
		assert.Equal(t, "v1.0.0", cfg.GitTag)
		assert.Equal(t, "2023-07-02", cfg.BuildTime)
		assert.Equal(t, "./logs", cfg.LogFolder)
		assert.Equal(t, 10, cfg.LogMaxSize)
		assert.Equal(t, BackendBolt, cfg.Storage.Backend)
		assert.Equal(t, DefaultStorageKey, cfg.Storage.Key)
		assert.Equal(t, "./data/bookshelf.db", cfg.BoltDB.FilePath)
		assert.Equal(t, 5*time.Second, cfg.BoltDB.Timeout)
		assert.Equal(t, DefaultDiscoveryConfig(), cfg.Discovery)
	})

	t.Run("proxy disabled", func(t *testing.T) {
		cfg := &Config{Discovery: DiscoveryConfig{ProxyEndpoint: ProxyDisabled}}
		require.NoError(t, InitConfig(cfg, "", "", ""))
		assert.Empty(t, cfg.Discovery.ProxyEndpoint)
	})

	t.Run("redis without address", func(t *testing.T) {
		cfg := &Config{Storage: StorageConfig{Backend: BackendRedis}}
		assert.Error(t, InitConfig(cfg, "", "", ""))
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &Config{Storage: StorageConfig{Backend: "floppy"}}
		assert.Error(t, InitConfig(cfg, "", "", ""))
	})

	t.Run("memory backend", func(t *testing.T) {
		cfg := &Config{Storage: StorageConfig{Backend: BackendMemory}}
		require.NoError(t, InitConfig(cfg, "", "", ""))
		assert.Empty(t, cfg.BoltDB.FilePath)
	})
}

func TestLoadAndInitConfigs(t *testing.T) {
	configFile := writeTempFile(t, "config.yml", "storage:\n  backend: bolt\n")
	envFile := writeTempFile(t, "config.env", "BKSH_STORAGE_BACKEND=memory\nBKSH_DISCOVERY_PRIMARY_LIMIT=7\n")
	t.Cleanup(func() {
		os.Unsetenv("BKSH_STORAGE_BACKEND")
		os.Unsetenv("BKSH_DISCOVERY_PRIMARY_LIMIT")
	})

	cfg, err := LoadAndInitConfigs(configFile, envFile, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend, "environment overrides the file")
	assert.Equal(t, 7, cfg.Discovery.PrimaryLimit)
	assert.Equal(t, 1, cfg.Discovery.ProxyLimit)
}
