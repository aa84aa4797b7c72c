package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llllm/internal/config"
)

func newTestClient(t *testing.T, url string, mutate ...func(*config.Config)) *Client {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.APIEndpoint = url
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg, &http.Client{})
	require.NoError(t, err)
	return c
}

func TestInferTrimsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "  Hello.  "}`))
	}))
	defer server.Close()

	out, err := newTestClient(t, server.URL).Infer(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hello.", out)
}

func TestInferRequestBody(t *testing.T) {
	var got map[string]interface{}
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, func(cfg *config.Config) {
		cfg.Model = "mistral:7b-instruct-q4_K_S"
		cfg.KeepAlive = "5m"
		cfg.ExtraConfig = `{"options":{"temperature":0},"stream":true}`
	})
	_, err := c.Infer(context.Background(), "fix <this> & that")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(contentType, "application/json"))
	assert.Equal(t, "fix <this> & that", got["prompt"])
	assert.Equal(t, "mistral:7b-instruct-q4_K_S", got["model"])
	assert.Equal(t, "5m", got["keep_alive"])
	assert.Equal(t, false, got["stream"], "stream must stay false even if extra config sets it")
	assert.Equal(t, map[string]interface{}{"temperature": float64(0)}, got["options"])
}

func TestInferStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer server.Close()

	out, err := newTestClient(t, server.URL).Infer(context.Background(), "the prompt")
	require.Error(t, err)
	assert.Empty(t, out)

	var ie *Error
	require.True(t, errors.As(err, &ie), "expected *Error, got %T", err)
	assert.Equal(t, KindStatus, ie.Kind)
	assert.Equal(t, 500, ie.StatusCode)
	assert.Equal(t, "the prompt", ie.Prompt)
	assert.Equal(t, "!ERROR500, prompt=the prompt", ie.Inline())
	assert.Equal(t, "!ERROR500, prompt=the prompt", Inline(err))
}

func TestInferTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url).Infer(context.Background(), "p")
	require.Error(t, err)

	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, KindTransport, ie.Kind)
	assert.Equal(t, 0, ie.StatusCode)
	assert.True(t, strings.HasPrefix(ie.Inline(), "!ERROR("))
	assert.True(t, strings.HasSuffix(ie.Inline(), ", prompt=p"))
}

func TestInferDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"done":true}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Infer(context.Background(), "p")
	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, KindDecode, ie.Kind)
	assert.Equal(t, 200, ie.StatusCode)
}

func TestInferCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"late"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(t, server.URL).Infer(ctx, "p")
	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, KindTransport, ie.Kind)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewRejectsBadExtraConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExtraConfig = "{not json"
	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestNewRejectsBadResponsePath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ResponsePath = "choices[x]"
	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestInlineForeignError(t *testing.T) {
	assert.Equal(t, "!ERROR(boom)", Inline(errors.New("boom")))
}
