package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"llllm/internal/jsonpath"
)

// Config holds configurable parameters.
type Config struct {
	APIEndpoint    string `json:"API_ENDPOINT" toml:"API_ENDPOINT" yaml:"API_ENDPOINT"`
	Model          string `json:"MODEL" toml:"MODEL" yaml:"MODEL"`
	KeepAlive      string `json:"KEEP_ALIVE" toml:"KEEP_ALIVE" yaml:"KEEP_ALIVE"`
	ResponsePath   string `json:"RESPONSE_PATH" toml:"RESPONSE_PATH" yaml:"RESPONSE_PATH"`
	ExtraConfig    string `json:"EXTRA_CONFIG" toml:"EXTRA_CONFIG" yaml:"EXTRA_CONFIG"`
	ConnectTimeout int    `json:"CONNECT_TIMEOUT" toml:"CONNECT_TIMEOUT" yaml:"CONNECT_TIMEOUT"`
	EnableHTTP2    bool   `json:"ENABLE_HTTP2" toml:"ENABLE_HTTP2" yaml:"ENABLE_HTTP2"`
	VerifySSL      bool   `json:"VERIFY_SSL" toml:"VERIFY_SSL" yaml:"VERIFY_SSL"`
	FixPrompt      string `json:"FIX_PROMPT" toml:"FIX_PROMPT" yaml:"FIX_PROMPT"`
	ImprovePrompt  string `json:"IMPROVE_PROMPT" toml:"IMPROVE_PROMPT" yaml:"IMPROVE_PROMPT"`
	Vim            bool   `json:"VIM" toml:"VIM" yaml:"VIM"`
	SelectLine     bool   `json:"SELECT_LINE" toml:"SELECT_LINE" yaml:"SELECT_LINE"`
	SettleDelay    int    `json:"SETTLE_DELAY_MS" toml:"SETTLE_DELAY_MS" yaml:"SETTLE_DELAY_MS"`
	HotKeyHook     bool   `json:"HOTKEY_HOOK" toml:"HOTKEY_HOOK" yaml:"HOTKEY_HOOK"`
	FixKey         string `json:"FIX_KEY" toml:"FIX_KEY" yaml:"FIX_KEY"`
	ImproveKey     string `json:"IMPROVE_KEY" toml:"IMPROVE_KEY" yaml:"IMPROVE_KEY"`
	CacheDir       string `json:"CACHE_DIR" toml:"CACHE_DIR" yaml:"CACHE_DIR"`
	KeepCache      bool   `json:"KEEP_CACHE" toml:"KEEP_CACHE" yaml:"KEEP_CACHE"`
	Notification   bool   `json:"NOTIFICATION" toml:"NOTIFICATION" yaml:"NOTIFICATION"`
	HOTKEY_DEBUG   bool   `json:"HOTKEY_DEBUG" toml:"HOTKEY_DEBUG" yaml:"HOTKEY_DEBUG"`
	INFER_DEBUG    bool   `json:"INFER_DEBUG" toml:"INFER_DEBUG" yaml:"INFER_DEBUG"`
	KEYS_DEBUG     bool   `json:"KEYS_DEBUG" toml:"KEYS_DEBUG" yaml:"KEYS_DEBUG"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		APIEndpoint:    "http://localhost:11434/api/generate",
		Model:          "mistral:7b-instruct-q4_K_S",
		KeepAlive:      "5m",
		ResponsePath:   "response",
		ExtraConfig:    "",
		ConnectTimeout: 5,
		EnableHTTP2:    true,
		VerifySSL:      true,
		FixPrompt:      "",
		ImprovePrompt:  "",
		Vim:            false,
		SelectLine:     false,
		SettleDelay:    100,
		HotKeyHook:     false,
		FixKey:         "f9",
		ImproveKey:     "f10",
		CacheDir:       "",
		KeepCache:      false,
		Notification:   false,
		HOTKEY_DEBUG:   true,
		INFER_DEBUG:    false,
		KEYS_DEBUG:     false,
	}
}

// Load loads config from a JSON, TOML or YAML file if provided.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode JSON: %w", err)
		}
	}
	return cfg, nil
}

// SaveDefault writes a default config JSON to the provided path.
func SaveDefault(path string) error {
	cfg := DefaultConfig()
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv overrides inference settings from LLLLM_* environment variables.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("LLLLM_API_ENDPOINT"); ok && v != "" {
		cfg.APIEndpoint = v
	}
	if v, ok := os.LookupEnv("LLLLM_MODEL"); ok && v != "" {
		cfg.Model = v
	}
	if v, ok := os.LookupEnv("LLLLM_KEEP_ALIVE"); ok && v != "" {
		cfg.KeepAlive = v
	}
}

// Validate verifies config fields and returns an error if any value is invalid.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIEndpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid API_ENDPOINT: %q (must be an http(s) URL)", cfg.APIEndpoint)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return fmt.Errorf("invalid MODEL: must not be empty")
	}
	if !validKeepAlive(cfg.KeepAlive) {
		return fmt.Errorf("invalid KEEP_ALIVE: %q (expected a duration like 5m or a number of seconds)", cfg.KeepAlive)
	}
	if _, err := jsonpath.Compile(cfg.ResponsePath); err != nil {
		return fmt.Errorf("invalid RESPONSE_PATH: %v", err)
	}
	if cfg.ConnectTimeout <= 0 {
		return fmt.Errorf("invalid CONNECT_TIMEOUT: %d (must be > 0)", cfg.ConnectTimeout)
	}
	if cfg.SettleDelay < 0 || cfg.SettleDelay > 5000 {
		return fmt.Errorf("invalid SETTLE_DELAY_MS: %d (allowed 0..5000)", cfg.SettleDelay)
	}
	if cfg.FixKey == "" || cfg.ImproveKey == "" {
		return fmt.Errorf("invalid hotkeys: FIX_KEY and IMPROVE_KEY must both be set")
	}
	if strings.EqualFold(strings.ReplaceAll(cfg.FixKey, " ", ""), strings.ReplaceAll(cfg.ImproveKey, " ", "")) {
		return fmt.Errorf("invalid hotkeys: FIX_KEY and IMPROVE_KEY are both %q", cfg.FixKey)
	}
	return nil
}

func validKeepAlive(v string) bool {
	if v == "" {
		return false
	}
	if _, err := time.ParseDuration(v); err == nil {
		return true
	}
	_, err := strconv.Atoi(v)
	return err == nil
}

// SettleDuration returns the settling delay as a time.Duration.
func (c Config) SettleDuration() time.Duration {
	return time.Duration(c.SettleDelay) * time.Millisecond
}

// InitCacheDir validates/creates the configured cache directory.
// It mutates cfg.CacheDir to an absolute path or clears it on failure.
func InitCacheDir(cfg *Config) {
	if cfg.CacheDir == "" {
		return
	}
	abs, err := filepath.Abs(cfg.CacheDir)
	if err != nil {
		fmt.Printf("[main] cache-dir path invalid '%s': %v. Transcript cache disabled.\n", cfg.CacheDir, err)
		cfg.CacheDir = ""
		return
	}
	info, err := os.Stat(abs)
	if err == nil {
		if !info.IsDir() {
			fmt.Printf("[main] cache-dir '%s' exists but is not a directory. Transcript cache disabled.\n", abs)
			cfg.CacheDir = ""
			return
		}
		cfg.CacheDir = abs
		fmt.Printf("[main] using existing cache-dir: %s\n", cfg.CacheDir)
		return
	}
	if os.IsNotExist(err) {
		if err := os.MkdirAll(abs, 0755); err != nil {
			fmt.Printf("[main] cannot create cache-dir '%s': %v. Transcript cache disabled.\n", abs, err)
			cfg.CacheDir = ""
			return
		}
		cfg.CacheDir = abs
		fmt.Printf("[main] created and using cache-dir: %s\n", cfg.CacheDir)
		return
	}
	fmt.Printf("[main] cannot access cache-dir '%s': %v. Transcript cache disabled.\n", abs, err)
	cfg.CacheDir = ""
}
