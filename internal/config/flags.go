package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// FlagValues holds parsed flags with explicit set tracking.
type FlagValues struct {
	APIEndpoint       string
	APIEndpointSet    bool
	Model             string
	ModelSet          bool
	KeepAlive         string
	KeepAliveSet      bool
	ResponsePath      string
	ResponsePathSet   bool
	ExtraConfig       string
	ExtraConfigSet    bool
	ConnectTimeout    int
	ConnectTimeoutSet bool
	Vim               bool
	VimSet            bool
	SelectLine        bool
	SelectLineSet     bool
	SettleDelay       int
	SettleDelaySet    bool
	HotKeyHook        bool
	HotKeyHookSet     bool
	FixKey            string
	FixKeySet         bool
	ImproveKey        string
	ImproveKeySet     bool
	CacheDir          string
	CacheDirSet       bool
	KeepCache         bool
	KeepCacheSet      bool
	Notification      bool
	NotificationSet   bool
	HOTKEY_DEBUG      bool
	HOTKEY_DEBUGSet   bool
	INFER_DEBUG       bool
	INFER_DEBUGSet    bool
	KEYS_DEBUG        bool
	KEYS_DEBUGSet     bool

	FilePath      string
	FilePathSet   bool
	Mode          string
	ModeSet       bool
	OutputPath    string
	OutputPathSet bool
}

type stringFlag struct {
	target *string
	set    *bool
}

func (s *stringFlag) String() string {
	if s == nil || s.target == nil {
		return ""
	}
	return *s.target
}

func (s *stringFlag) Set(v string) error {
	if s.target != nil {
		*s.target = v
	}
	if s.set != nil {
		*s.set = true
	}
	return nil
}

type intFlag struct {
	target *int
	set    *bool
}

func (i *intFlag) String() string {
	if i == nil || i.target == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i.target)
}

func (i *intFlag) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if i.target != nil {
		*i.target = n
	}
	if i.set != nil {
		*i.set = true
	}
	return nil
}

type boolFlag struct {
	target *bool
	set    *bool
}

func (b *boolFlag) String() string {
	if b == nil || b.target == nil {
		return ""
	}
	return fmt.Sprintf("%v", *b.target)
}

// IsBoolFlag lets "-vim" be given without a value.
func (b *boolFlag) IsBoolFlag() bool { return true }

func parseBoolExt(v string) (bool, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %s", v)
}

func (b *boolFlag) Set(v string) error {
	n, err := parseBoolExt(v)
	if err != nil {
		return err
	}
	if b.target != nil {
		*b.target = n
	}
	if b.set != nil {
		*b.set = true
	}
	return nil
}

// BindFlags registers all flags and returns the populated FlagValues.
func BindFlags(fs *flag.FlagSet) *FlagValues {
	fv := &FlagValues{}

	fs.Var(&stringFlag{&fv.APIEndpoint, &fv.APIEndpointSet}, "api-endpoint", "inference endpoint URL")
	fs.Var(&stringFlag{&fv.Model, &fv.ModelSet}, "model", "model name")
	fs.Var(&stringFlag{&fv.KeepAlive, &fv.KeepAliveSet}, "keep-alive", "how long the server keeps the model loaded (e.g. 5m)")
	fs.Var(&stringFlag{&fv.ResponsePath, &fv.ResponsePathSet}, "response-path", "JSON path to extract the response text")
	fs.Var(&stringFlag{&fv.ExtraConfig, &fv.ExtraConfigSet}, "extra-config", "extra JSON config to merge into request payload")
	fs.Var(&intFlag{&fv.ConnectTimeout, &fv.ConnectTimeoutSet}, "connect-timeout", "connect timeout seconds")

	vim := &boolFlag{&fv.Vim, &fv.VimSet}
	fs.Var(vim, "vim", "use vim key sequences to yank and paste")
	fs.Var(vim, "v", "shorthand for -vim")
	fs.Var(&boolFlag{&fv.SelectLine, &fv.SelectLineSet}, "select-line", "select to line start before copying (native style only)")
	fs.Var(&intFlag{&fv.SettleDelay, &fv.SettleDelaySet}, "settle-delay", "clipboard settling delay (ms)")

	fs.Var(&stringFlag{&fv.FixKey, &fv.FixKeySet}, "fix-key", "hotkey for fixing typos")
	fs.Var(&stringFlag{&fv.ImproveKey, &fv.ImproveKeySet}, "improve-key", "hotkey for rewriting for publication")
	fs.Var(&boolFlag{&fv.HotKeyHook, &fv.HotKeyHookSet}, "hotkeyhook", "use low-level keyboard hook (true/false)")

	fs.Var(&stringFlag{&fv.CacheDir, &fv.CacheDirSet}, "cache-dir", "transcript cache directory")
	fs.Var(&boolFlag{&fv.KeepCache, &fv.KeepCacheSet}, "keep-cache", "keep transcripts of each request (true/false)")

	fs.Var(&boolFlag{&fv.Notification, &fv.NotificationSet}, "notification", "enable notifications (true/false)")
	fs.Var(&boolFlag{&fv.HOTKEY_DEBUG, &fv.HOTKEY_DEBUGSet}, "hotkey-debug", "enable hotkey debug output (true/false)")
	fs.Var(&boolFlag{&fv.INFER_DEBUG, &fv.INFER_DEBUGSet}, "infer-debug", "enable inference debug output (true/false)")
	fs.Var(&boolFlag{&fv.KEYS_DEBUG, &fv.KEYS_DEBUGSet}, "keys-debug", "enable simulated key debug output (true/false)")

	fs.Var(&stringFlag{&fv.FilePath, &fv.FilePathSet}, "file", "transform a text file instead of listening for hotkeys")
	fs.Var(&stringFlag{&fv.Mode, &fv.ModeSet}, "mode", "transformation for -file mode (fix|improve)")
	fs.Var(&stringFlag{&fv.OutputPath, &fv.OutputPathSet}, "output", "output txt path for -file mode")

	return fv
}

// ApplyFlags applies present flags to the config.
func ApplyFlags(cfg *Config, fv *FlagValues) {
	if fv.APIEndpointSet {
		cfg.APIEndpoint = fv.APIEndpoint
	}
	if fv.ModelSet {
		cfg.Model = fv.Model
	}
	if fv.KeepAliveSet {
		cfg.KeepAlive = fv.KeepAlive
	}
	if fv.ResponsePathSet {
		cfg.ResponsePath = fv.ResponsePath
	}
	if fv.ExtraConfigSet {
		cfg.ExtraConfig = fv.ExtraConfig
	}
	if fv.ConnectTimeoutSet {
		cfg.ConnectTimeout = fv.ConnectTimeout
	}

	if fv.VimSet {
		cfg.Vim = fv.Vim
	}
	if fv.SelectLineSet {
		cfg.SelectLine = fv.SelectLine
	}
	if fv.SettleDelaySet {
		cfg.SettleDelay = fv.SettleDelay
	}

	if fv.FixKeySet {
		cfg.FixKey = fv.FixKey
	}
	if fv.ImproveKeySet {
		cfg.ImproveKey = fv.ImproveKey
	}
	if fv.HotKeyHookSet {
		cfg.HotKeyHook = fv.HotKeyHook
	}

	if fv.CacheDirSet {
		cfg.CacheDir = fv.CacheDir
	}
	if fv.KeepCacheSet {
		cfg.KeepCache = fv.KeepCache
	}

	if fv.NotificationSet {
		cfg.Notification = fv.Notification
	}
	if fv.HOTKEY_DEBUGSet {
		cfg.HOTKEY_DEBUG = fv.HOTKEY_DEBUG
	}
	if fv.INFER_DEBUGSet {
		cfg.INFER_DEBUG = fv.INFER_DEBUG
	}
	if fv.KEYS_DEBUGSet {
		cfg.KEYS_DEBUG = fv.KEYS_DEBUG
	}
}
