package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"llllm/internal/editor"
	"llllm/internal/history"
	"llllm/internal/inference"
	"llllm/internal/notify"
	"llllm/internal/prompt"
)

// Inferrer turns a prompt into model output.
type Inferrer interface {
	Infer(ctx context.Context, prompt string) (string, error)
}

// Request is one hotkey-triggered transformation.
type Request struct {
	ID    string
	Mode  prompt.Mode
	Input string
}

// Transformer runs the copy -> prompt -> infer -> paste pipeline.
// Runs are serialized so concurrent presses never interleave on the clipboard.
type Transformer struct {
	mu       sync.Mutex
	prompts  *prompt.Builder
	infer    Inferrer
	driver   *editor.Driver
	notifier notify.Notifier
	history  *history.Store
}

// NewTransformer wires the pipeline stages together.
func NewTransformer(prompts *prompt.Builder, infer Inferrer, driver *editor.Driver, notifier notify.Notifier, store *history.Store) *Transformer {
	return &Transformer{prompts: prompts, infer: infer, driver: driver, notifier: notifier, history: store}
}

// Transform replaces the current selection with the model's answer for mode.
// It returns the pasted text. An inference failure is pasted inline and also
// returned as the error; an empty selection returns editor.ErrEmptySelection
// without contacting the model or pasting anything. Nothing is pasted once
// ctx is done.
func (t *Transformer) Transform(ctx context.Context, mode prompt.Mode) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req := Request{ID: uuid.New().String(), Mode: mode}
	tag := req.ID[:8]
	start := time.Now()

	input, err := t.driver.CaptureSelection()
	if err != nil {
		if errors.Is(err, editor.ErrEmptySelection) {
			fmt.Printf("[%s] %s: clipboard empty after copy; nothing sent\n", tag, mode)
			t.notifier.Notify("Nothing selected")
		} else {
			fmt.Printf("[%s] %s: capture failed: %v\n", tag, mode, err)
			t.notifier.Notify("Copy failed")
		}
		return "", err
	}
	req.Input = input

	output, inferErr := t.run(ctx, req)
	if ctx.Err() != nil {
		fmt.Printf("[%s] %s: canceled; selection left unchanged\n", tag, mode)
		t.save(req, "", ctx.Err(), start)
		return "", ctx.Err()
	}
	if inferErr != nil {
		fmt.Printf("[%s] %s: %v\n", tag, mode, inferErr)
		t.notifier.Notify("Request failed")
	} else if output == "" {
		fmt.Printf("[%s] %s: model returned no text; selection left unchanged\n", tag, mode)
		t.save(req, output, nil, start)
		return "", nil
	}

	if err := t.driver.ApplyResult(output); err != nil {
		fmt.Printf("[%s] %s: paste failed: %v\n", tag, mode, err)
		t.notifier.Notify("Paste failed")
		t.save(req, output, err, start)
		return "", err
	}
	fmt.Printf("[%s] %s: replaced %d chars with %d chars in %v\n", tag, mode, len(input), len(output), time.Since(start).Round(time.Millisecond))

	t.save(req, output, inferErr, start)
	return output, inferErr
}

// run renders the prompt and calls the model. On failure the returned text
// is the inline error marker.
func (t *Transformer) run(ctx context.Context, req Request) (string, error) {
	p, err := t.prompts.Build(req.Mode, req.Input)
	if err != nil {
		return inference.Inline(err), err
	}
	out, err := t.infer.Infer(ctx, p)
	if err != nil {
		return inference.Inline(err), err
	}
	return out, nil
}

func (t *Transformer) save(req Request, output string, err error, start time.Time) {
	rec := history.Record{
		ID:         req.ID,
		Mode:       req.Mode.String(),
		Style:      t.driver.Style().Name(),
		Input:      req.Input,
		Output:     output,
		StartedAt:  start,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if path, err := t.history.Save(rec); err != nil {
		fmt.Printf("[history] save failed: %v\n", err)
	} else if path != "" {
		fmt.Printf("[history] saved %s\n", path)
	}
}
