package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(&cfg))
	assert.Equal(t, "http://localhost:11434/api/generate", cfg.APIEndpoint)
	assert.Equal(t, "5m", cfg.KeepAlive)
	assert.Equal(t, "response", cfg.ResponsePath)
	assert.False(t, cfg.Vim)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"config.json": `{"MODEL": "llama3", "VIM": true}`,
		"config.toml": "MODEL = \"llama3\"\nVIM = true\n",
		"config.yaml": "MODEL: llama3\nVIM: true\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "llama3", cfg.Model)
			assert.True(t, cfg.Vim)
			// untouched fields keep defaults
			assert.Equal(t, "5m", cfg.KeepAlive)
			assert.Equal(t, "f9", cfg.FixKey)
		})
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad endpoint", func(c *Config) { c.APIEndpoint = "localhost:11434" }},
		{"empty model", func(c *Config) { c.Model = " " }},
		{"bad keep alive", func(c *Config) { c.KeepAlive = "soon" }},
		{"empty response path", func(c *Config) { c.ResponsePath = "" }},
		{"bad response path", func(c *Config) { c.ResponsePath = "choices[" }},
		{"zero connect timeout", func(c *Config) { c.ConnectTimeout = 0 }},
		{"negative settle delay", func(c *Config) { c.SettleDelay = -1 }},
		{"same hotkeys", func(c *Config) { c.ImproveKey = "F9" }},
		{"missing hotkey", func(c *Config) { c.FixKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}

	cfg := DefaultConfig()
	cfg.KeepAlive = "-1"
	assert.NoError(t, Validate(&cfg))
}

func TestApplyFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-v", "-model", "qwen2", "-settle-delay=250"}))

	cfg := DefaultConfig()
	ApplyFlags(&cfg, fv)
	assert.True(t, cfg.Vim)
	assert.Equal(t, "qwen2", cfg.Model)
	assert.Equal(t, 250, cfg.SettleDelay)
	assert.Equal(t, "5m", cfg.KeepAlive)
}

func TestApplyFlagsLongVim(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--vim"}))

	cfg := DefaultConfig()
	ApplyFlags(&cfg, fv)
	assert.True(t, cfg.Vim)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLLLM_MODEL", "phi3")
	t.Setenv("LLLLM_KEEP_ALIVE", "10m")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	assert.Equal(t, "phi3", cfg.Model)
	assert.Equal(t, "10m", cfg.KeepAlive)
	assert.Equal(t, "http://localhost:11434/api/generate", cfg.APIEndpoint)
}

func TestInitCacheDirCreates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	cfg := DefaultConfig()
	cfg.CacheDir = dir

	InitCacheDir(&cfg)
	assert.True(t, filepath.IsAbs(cfg.CacheDir))
	info, err := os.Stat(cfg.CacheDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitCacheDirRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	cfg := DefaultConfig()
	cfg.CacheDir = path

	InitCacheDir(&cfg)
	assert.Empty(t, cfg.CacheDir)
}
