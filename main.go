package main

// llllm - fix or polish the selected text with a local model.
//
// Press the fix hotkey (F9) or the improve hotkey (F10) with text selected in
// any application. The selection is copied, sent to a local Ollama-compatible
// /api/generate endpoint together with a fixed instruction, and the answer is
// pasted back over the selection. If the request fails, the error marker
// "!ERROR<status>, prompt=..." is pasted instead so the failure is visible.
//
// Notes:
// - Hotkeys and key simulation use the Win32 API; other platforms can only
//   use -file mode.
// - On Linux the clipboard needs xclip, xsel or wl-clipboard.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"llllm/internal/app"
	"llllm/internal/config"
	"llllm/internal/prompt"
)

func usage() {
	programName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, `Usage: %s [options]

Listens for two global hotkeys and replaces the selected text with a local
model's correction.

Options:
[config]
  -config <string>
        config file (.json, .toml or .yaml). Defaults to ./config.json when it exists.
  -init-config <string>
        write a default JSON config to the given path and exit.

[editing]
  -v, -vim
        use vim key sequences (0 v $ y to yank, g v p to paste) instead of ctrl+c/ctrl+v
  -select-line
        extend the selection to the start of the line before copying (native keys only)
  -settle-delay <int>
        clipboard settling delay in ms. Default: 100
  -fix-key <string>
        hotkey that fixes typos. Default: f9
  -improve-key <string>
        hotkey that rewrites for publication. Default: f10
  -hotkeyhook
        use a low-level keyboard hook instead of RegisterHotKey

[inference]
  -api-endpoint <string>
        generate endpoint. Default: http://localhost:11434/api/generate
  -model <string>
        model name. Default: mistral:7b-instruct-q4_K_S
  -keep-alive <string>
        how long the server keeps the model loaded. Default: 5m
  -response-path <string>
        JSON path of the text in the response. Default: response
  -extra-config <string>
        extra JSON object merged into the request body, e.g. "{\"options\":{\"temperature\":0}}"
  -connect-timeout <int>
        connect timeout in seconds. Reading the answer is never timed out. Default: 5

[file mode]
  -file <string>
        transform a text file instead of listening for hotkeys
  -mode <string>
        fix or improve. Default: fix
  -output <string>
        output path. Default: ./<name>.<mode>.txt

[misc]
  -cache-dir <string>, -keep-cache
        keep a JSON transcript of every request in the directory
  -notification
        show desktop notifications on failures
  -hotkey-debug, -infer-debug, -keys-debug
        debug output

Environment:
  LLLLM_API_ENDPOINT, LLLLM_MODEL, LLLLM_KEEP_ALIVE override the config file
  (a .env file in the working directory is loaded first). Flags override both.
`, programName)
}

func main() {
	flag.Usage = usage
	var configPath, initConfigPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&initConfigPath, "init-config", "", "write a default config and exit")
	fv := config.BindFlags(flag.CommandLine)
	help := flag.Bool("h", false, "show help")
	help2 := flag.Bool("help", false, "show help")
	flag.Parse()
	if *help || *help2 {
		usage()
		return
	}

	if initConfigPath != "" {
		if err := config.SaveDefault(initConfigPath); err != nil {
			fmt.Printf("[main] failed to write default config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[main] default config created at %s\n", initConfigPath)
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("[main] failed to load .env: %v\n", err)
	}

	if configPath == "" {
		if _, err := os.Stat("config.json"); err == nil {
			configPath = "config.json"
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("[main] failed to load config '%s': %v\n", configPath, err)
		os.Exit(1)
	}
	config.ApplyEnv(&cfg)
	config.ApplyFlags(&cfg, fv)

	if err := config.Validate(&cfg); err != nil {
		fmt.Printf("[main] invalid config: %v\n", err)
		os.Exit(1)
	}
	if cfg.KeepCache {
		config.InitCacheDir(&cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if fv.FilePathSet {
		mode, err := prompt.ParseMode(fv.Mode)
		if err != nil {
			fmt.Printf("[main] %v\n", err)
			os.Exit(1)
		}
		if err := app.RunFileMode(ctx, cfg, mode, fv.FilePath, fv.OutputPath); err != nil {
			fmt.Printf("[main] %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := app.RunHotkeyMode(ctx, cfg); err != nil {
		fmt.Printf("[main] failed to start: %v\n", err)
		fmt.Println("[main] Please ensure the program has necessary permissions and that the hotkey configuration is valid.")
		os.Exit(1)
	}
}
