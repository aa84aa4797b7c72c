// Package inference talks to a local text-generation endpoint.
package inference

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"llllm/internal/config"
	"llllm/internal/jsonpath"
)

// Request is the body sent to the generate endpoint.
type Request struct {
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	KeepAlive string `json:"keep_alive"`
	Stream    bool   `json:"stream"`
}

// Client performs one blocking generate call per Infer.
type Client struct {
	cfg            config.Config
	http           *resty.Client
	textPath       jsonpath.Path
	extraConfigMap map[string]interface{}
}

// New creates a client over httpClient and parses ExtraConfig.
// The http.Client is expected to carry no overall timeout: generation
// latency is unbounded and only connecting is time-limited.
func New(cfg config.Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIEndpoint == "" {
		return nil, fmt.Errorf("API endpoint is empty")
	}
	var rc *resty.Client
	if httpClient != nil {
		rc = resty.NewWithClient(httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetHeader("User-Agent", "llllm/1.0")

	textPath, err := jsonpath.Compile(cfg.ResponsePath)
	if err != nil {
		return nil, fmt.Errorf("invalid response path: %w", err)
	}

	c := &Client{cfg: cfg, http: rc, textPath: textPath}
	if cfg.ExtraConfig != "" {
		c.extraConfigMap = make(map[string]interface{})
		if err := json.Unmarshal([]byte(cfg.ExtraConfig), &c.extraConfigMap); err != nil {
			return nil, fmt.Errorf("invalid extra-config JSON: %w", err)
		}
	}
	return c, nil
}

func (c *Client) body(prompt string) map[string]interface{} {
	base := map[string]interface{}{
		"model":      c.cfg.Model,
		"keep_alive": c.cfg.KeepAlive,
	}
	for k, v := range c.extraConfigMap {
		base[k] = v
	}
	base["prompt"] = prompt
	base["stream"] = false
	return base
}

// Infer sends prompt and returns the trimmed response text. Every failure is
// an *Error; there are no retries.
func (c *Client) Infer(ctx context.Context, prompt string) (string, error) {
	if c.cfg.INFER_DEBUG {
		fmt.Printf("[infer] POST %s model=%s prompt=%d bytes\n", c.cfg.APIEndpoint, c.cfg.Model, len(prompt))
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(c.body(prompt)).
		Post(c.cfg.APIEndpoint)
	if c.cfg.INFER_DEBUG {
		fmt.Printf("[infer] request duration: %v\n", time.Since(start))
	}
	if err != nil {
		return "", &Error{Kind: KindTransport, Prompt: prompt, Err: err}
	}

	raw := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		if c.cfg.INFER_DEBUG {
			fmt.Printf("[infer] status %d: %s\n", resp.StatusCode(), formatResponse(raw))
		}
		return "", &Error{Kind: KindStatus, StatusCode: resp.StatusCode(), Prompt: prompt, Body: raw}
	}

	text, ok := jsonpath.ExtractText(raw, c.textPath)
	if !ok {
		return "", &Error{Kind: KindDecode, StatusCode: resp.StatusCode(), Prompt: prompt, Body: raw}
	}
	return strings.TrimSpace(text), nil
}

func formatResponse(b []byte) string {
	if len(b) == 0 {
		return "<empty>"
	}
	const maxText = 1000
	const maxBin = 256

	if utf8.Valid(b) {
		s := string(b)
		if len(s) > maxText {
			return fmt.Sprintf("%s... (truncated, total %d bytes)", s[:maxText], len(b))
		}
		return s
	}

	if len(b) > maxBin {
		return fmt.Sprintf("<binary %d bytes, prefix hex: %s...>", len(b), hex.EncodeToString(b[:maxBin]))
	}
	return fmt.Sprintf("<binary %d bytes, hex: %s>", len(b), hex.EncodeToString(b))
}
