package workload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
duration: 250ms
threads: 4
initial_size: 100
key_range: 400
insert_percent: 30
delete_percent: 20
seed: 42
random_fill: true
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Duration)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, int64(100), cfg.InitialSize)
	assert.Equal(t, int64(400), cfg.KeyRange)
	assert.Equal(t, 30, cfg.InsertPercent)
	assert.Equal(t, 20, cfg.DeletePercent)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.RandomFill)
	assert.True(t, cfg.Verify, "unset fields keep their defaults")
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "run.json", `{"duration": "2s", "threads": 2, "verify": false}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Duration)
	assert.Equal(t, 2, cfg.Threads)
	assert.False(t, cfg.Verify)
	assert.Equal(t, DefaultConfig().KeyRange, cfg.KeyRange)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unsupported extension", "run.toml", "threads = 1", "unsupported config format"},
		{"bad yaml", "run.yaml", "threads: [", "failed to parse YAML"},
		{"bad json", "run.json", "{", "failed to parse JSON"},
		{"bad duration", "run.yaml", "duration: soon", "invalid duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"no threads", func(c *Config) { c.Threads = 0 }},
		{"empty key range", func(c *Config) { c.KeyRange = 0 }},
		{"negative initial size", func(c *Config) { c.InitialSize = -1 }},
		{"initial size above key range", func(c *Config) { c.InitialSize = c.KeyRange + 1 }},
		{"negative percent", func(c *Config) { c.DeletePercent = -5 }},
		{"percents above 100", func(c *Config) { c.InsertPercent, c.DeletePercent = 60, 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
