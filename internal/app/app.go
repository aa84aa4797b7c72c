package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"

	"llllm/internal/clipboard"
	"llllm/internal/config"
	"llllm/internal/editor"
	"llllm/internal/history"
	"llllm/internal/hotkey"
	"llllm/internal/inference"
	"llllm/internal/keys"
	"llllm/internal/notify"
	"llllm/internal/prompt"
)

// Hotkey ids handed to the OS facility.
const (
	FixID     = 1
	ImproveID = 2
)

// App owns the process-wide services and maps hotkey ids to transformations.
type App struct {
	cfg         config.Config
	transformer *Transformer
}

// New builds the inference client, prompt builder and editor driver from cfg.
// sender and clip are the OS keyboard and clipboard (or fakes in tests).
func New(cfg config.Config, sender keys.Sender, clip editor.Clipboard) (*App, error) {
	prompts, err := newPromptBuilder(cfg)
	if err != nil {
		return nil, err
	}
	client, err := inference.New(cfg, newHTTPClient(cfg))
	if err != nil {
		return nil, err
	}
	driver := editor.New(sender, clip, editor.StyleFor(cfg.Vim, cfg.SelectLine), cfg.SettleDuration(), cfg.KEYS_DEBUG)
	notifier := notify.Notifier{Enabled: cfg.Notification, Title: "llllm"}
	var store *history.Store
	if cfg.KeepCache {
		store = history.New(cfg.CacheDir)
	}
	return &App{cfg: cfg, transformer: NewTransformer(prompts, client, driver, notifier, store)}, nil
}

// Bindings returns the hotkeys to register, in id order.
func (a *App) Bindings() []hotkey.Binding {
	return []hotkey.Binding{
		{ID: FixID, Spec: a.cfg.FixKey},
		{ID: ImproveID, Spec: a.cfg.ImproveKey},
	}
}

// Handle runs the transformation bound to id. Failures are logged by the
// transformer and never propagate to the hotkey loop.
func (a *App) Handle(ctx context.Context, id int) {
	var mode prompt.Mode
	switch id {
	case FixID:
		mode = prompt.Fix
	case ImproveID:
		mode = prompt.Improve
	default:
		if a.cfg.HOTKEY_DEBUG {
			fmt.Printf("[hotkey] unknown id %d\n", id)
		}
		return
	}
	if a.cfg.HOTKEY_DEBUG {
		fmt.Printf("[hotkey] %s pressed\n", mode)
	}
	_, _ = a.transformer.Transform(ctx, mode)
}

// RunHotkeyMode registers the hotkeys and blocks until ctx is done.
func RunHotkeyMode(ctx context.Context, cfg config.Config) error {
	if !clipboard.Available() {
		return fmt.Errorf("no clipboard backend available")
	}
	kb, err := keys.New(cfg.KEYS_DEBUG)
	if err != nil {
		return err
	}
	a, err := New(cfg, kb, clipboard.System{})
	if err != nil {
		return err
	}

	handler := func(id int) { a.Handle(ctx, id) }
	if err := hotkey.Register(a.Bindings(), cfg.HotKeyHook, handler, cfg.HOTKEY_DEBUG); err != nil {
		return err
	}

	style := editor.StyleFor(cfg.Vim, cfg.SelectLine).Name()
	fmt.Printf("[main] ready (%s keys, model %s). %s fixes the selection, %s improves it.\n",
		style, cfg.Model, strings.ToUpper(cfg.FixKey), strings.ToUpper(cfg.ImproveKey))
	<-ctx.Done()
	fmt.Println("[main] shutting down")
	return nil
}

// RunFileMode transforms the contents of inputPath and writes the result to
// outputPath, or to ./<base>.<mode>.txt when outputPath is empty.
func RunFileMode(ctx context.Context, cfg config.Config, mode prompt.Mode, inputPath, outputPath string) error {
	b, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read '%s': %w", inputPath, err)
	}
	if len(b) == 0 {
		return fmt.Errorf("file '%s' is empty", inputPath)
	}

	prompts, err := newPromptBuilder(cfg)
	if err != nil {
		return err
	}
	client, err := inference.New(cfg, newHTTPClient(cfg))
	if err != nil {
		return err
	}

	start := time.Now()
	p, err := prompts.Build(mode, string(b))
	if err != nil {
		return err
	}
	text, inferErr := client.Infer(ctx, p)

	var store *history.Store
	if cfg.KeepCache {
		store = history.New(cfg.CacheDir)
	}
	rec := history.Record{
		ID:         uuid.New().String(),
		Mode:       mode.String(),
		Input:      string(b),
		Output:     text,
		StartedAt:  start,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if inferErr != nil {
		rec.Error = inferErr.Error()
	}
	if _, err := store.Save(rec); err != nil {
		fmt.Printf("[history] save failed: %v\n", err)
	}
	if inferErr != nil {
		return inferErr
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outPath = filepath.Join(".", base+"."+mode.String()+".txt")
	}
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return err
	}
	fmt.Printf("[main] wrote %s\n", outPath)
	return nil
}

func newPromptBuilder(cfg config.Config) (*prompt.Builder, error) {
	return prompt.New(map[prompt.Mode]string{
		prompt.Fix:     cfg.FixPrompt,
		prompt.Improve: cfg.ImprovePrompt,
	})
}

// newHTTPClient bounds connecting but not reading: the model may take as
// long as it needs to generate.
func newHTTPClient(cfg config.Config) *http.Client {
	connect := time.Duration(cfg.ConnectTimeout) * time.Second
	dialer := &net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}
	tr := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connect,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if !cfg.VerifySSL {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if cfg.EnableHTTP2 {
		_ = http2.ConfigureTransport(tr)
	}
	return &http.Client{Transport: tr}
}
