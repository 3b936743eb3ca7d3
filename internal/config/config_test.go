package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "turing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Store.Kind)
	assert.Equal(t, "decision", cfg.HaltOrder)
	assert.Equal(t, 4096, cfg.CheckpointEvery)
	assert.Equal(t, "last-symbol", cfg.Bench.Machine)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Zero(t, cfg.Limits.Time)
	assert.Empty(t, cfg.Store.EncryptionKey)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadWithEnv("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"), noEnv)
	assert.Error(t, err)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
limits:
  time: 500
store:
  kind: redis
  redis:
    addr: redis:6379
    ttl: 1h
server:
  max_space: 2048
`)

	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		"TURING_LIMITS_SPACE":      "64",
		"TURING_STORE_REDIS_DB":    "3",
		"TURING_HALT_ORDER":        "move",
		"TURING_CHECKPOINT_EVERY":  "128",
		"TURING_LOG_FORMAT":        "json",
		"TURING_UNRELATED_SETTING": "ignored",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 500, cfg.Limits.Time)
	assert.Equal(t, 64, cfg.Limits.Space)
	assert.Equal(t, "move", cfg.HaltOrder)
	assert.Equal(t, 128, cfg.CheckpointEvery)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "turing:run:", cfg.Store.Redis.Prefix, "untouched keys keep their default")
	assert.Equal(t, 2048, cfg.Server.MaxSpace)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]struct {
		file string
		env  map[string]string
	}{
		"Bad Level":           {file: "log:\n  level: loud\n"},
		"Negative Limit":      {env: map[string]string{"TURING_LIMITS_TIME": "-1"}},
		"Unknown Store":       {file: "store:\n  kind: s3\n"},
		"File Without Dir":    {file: "store:\n  kind: file\n  dir: \"\"\n"},
		"Redis Without Addr":  {file: "store:\n  kind: redis\n  redis:\n    addr: \"\"\n"},
		"Empty Sweep":         {file: "bench:\n  start: 10\n  stop: 10\n"},
		"Unknown Key":         {file: "colour: blue\n"},
		"Bad Duration":        {env: map[string]string{"TURING_STORE_REDIS_TTL": "soon"}},
		"Bad Halt Order":      {env: map[string]string{"TURING_HALT_ORDER": "later"}},
		"Malformed YAML":      {file: "log: [\n"},
		"Previous Key Alone":  {env: map[string]string{"TURING_STORE_PREVIOUS_KEY": "abc"}},
		"Badger Without Path": {file: "store:\n  kind: badger\n  badger:\n    path: \"\"\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			} else {
				t.Chdir(t.TempDir())
			}
			_, err := LoadWithEnv(path, envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RedisSettingsIgnoredForOtherStores(t *testing.T) {
	path := writeFile(t, "store:\n  kind: file\n  redis:\n    addr: \"\"\n")
	cfg, err := LoadWithEnv(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Store.Kind)
}

func TestLoad_Badger(t *testing.T) {
	cfg, err := LoadWithEnv(writeFile(t, "store:\n  kind: badger\n"), envMap(map[string]string{
		"TURING_STORE_BADGER_TTL":         "30m",
		"TURING_STORE_BADGER_SYNC_WRITES": "false",
	}))
	require.NoError(t, err)
	assert.Equal(t, ".turing/badger", cfg.Store.Badger.Path)
	assert.Equal(t, 30*time.Minute, cfg.Store.Badger.TTL)
	assert.False(t, cfg.Store.Badger.SyncWrites)
}

func TestKeys(t *testing.T) {
	k := keys(map[string]any{
		"b": 1,
		"a": map[string]any{"y": 1, "x": map[string]any{"z": 1}},
	}, "")
	assert.Equal(t, []string{"a.x.z", "a.y", "b"}, k)
}
