// Package editor copies the current selection out of the focused application
// and pastes replacement text back over it.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"llllm/internal/keys"
)

// ErrEmptySelection is returned when the clipboard holds no text after the
// copy keys were sent, or when there is nothing to paste.
var ErrEmptySelection = errors.New("selection is empty")

// Clipboard is the subset of the OS clipboard the driver uses.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// Style produces the key sequences that copy the selection and paste over it.
type Style interface {
	Name() string
	Copy() []keys.Stroke
	Paste() []keys.Stroke
}

// Native uses the platform's modifier chords.
type Native struct {
	// SelectLine extends the selection to the start of the line before copying.
	SelectLine bool
}

func (Native) Name() string { return "native" }

func (n Native) Copy() []keys.Stroke {
	var s []keys.Stroke
	if n.SelectLine {
		s = append(s, keys.Chord(keys.Shift, keys.KeyHome))
	}
	return append(s, keys.Chord(keys.Ctrl, keys.KeyC))
}

func (Native) Paste() []keys.Stroke {
	return []keys.Stroke{keys.Chord(keys.Ctrl, keys.KeyV)}
}

// Modal uses vim normal-mode sequences: select to end of line and yank,
// then reselect and put.
type Modal struct{}

func (Modal) Name() string { return "modal" }

func (Modal) Copy() []keys.Stroke {
	return []keys.Stroke{keys.Tap(keys.Key0), keys.Tap(keys.KeyV), keys.Tap(keys.KeyEnd), keys.Tap(keys.KeyY)}
}

func (Modal) Paste() []keys.Stroke {
	return []keys.Stroke{keys.Tap(keys.KeyG), keys.Tap(keys.KeyV), keys.Tap(keys.KeyP)}
}

// StyleFor picks the editing style once at startup.
func StyleFor(vim, selectLine bool) Style {
	if vim {
		return Modal{}
	}
	return Native{SelectLine: selectLine}
}

// Driver moves text between the focused application and the clipboard.
type Driver struct {
	keys   keys.Sender
	clip   Clipboard
	style  Style
	settle time.Duration
	debug  bool
}

// New creates a driver. settle is slept after every clipboard-affecting step.
func New(sender keys.Sender, clip Clipboard, style Style, settle time.Duration, debug bool) *Driver {
	return &Driver{keys: sender, clip: clip, style: style, settle: settle, debug: debug}
}

// Style returns the editing style in use.
func (d *Driver) Style() Style { return d.style }

// CaptureSelection sends the copy sequence and returns the clipboard text.
// The clipboard is cleared first so a copy that selects nothing reads back
// empty; in that case the previous contents are restored and
// ErrEmptySelection is returned.
func (d *Driver) CaptureSelection() (string, error) {
	snapshot, err := d.clip.Read()
	if err != nil {
		if d.debug {
			fmt.Printf("[editor] clipboard snapshot unavailable: %v\n", err)
		}
		snapshot = ""
	}
	if err := d.clip.Write(""); err != nil {
		return "", fmt.Errorf("clear clipboard: %w", err)
	}

	if d.debug {
		fmt.Printf("[editor] copy (%s): %s\n", d.style.Name(), describe(d.style.Copy()))
	}
	if err := d.keys.Send(d.style.Copy()...); err != nil {
		d.restore(snapshot)
		return "", fmt.Errorf("send copy keys: %w", err)
	}
	time.Sleep(d.settle)

	text, err := d.clip.Read()
	if err != nil {
		d.restore(snapshot)
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	if text == "" {
		d.restore(snapshot)
		return "", ErrEmptySelection
	}
	return text, nil
}

func (d *Driver) restore(snapshot string) {
	if snapshot == "" {
		return
	}
	if err := d.clip.Write(snapshot); err != nil {
		fmt.Printf("[editor] failed to restore clipboard: %v\n", err)
	}
}

// ApplyResult writes text to the clipboard and pastes it over the selection.
// Empty text is rejected before the clipboard or keyboard is touched.
func (d *Driver) ApplyResult(text string) error {
	if text == "" {
		return ErrEmptySelection
	}
	if err := d.clip.Write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	time.Sleep(d.settle)

	if d.debug {
		fmt.Printf("[editor] paste (%s): %s\n", d.style.Name(), describe(d.style.Paste()))
	}
	if err := d.keys.Send(d.style.Paste()...); err != nil {
		return fmt.Errorf("send paste keys: %w", err)
	}
	time.Sleep(d.settle)
	return nil
}

func describe(strokes []keys.Stroke) string {
	parts := make([]string, len(strokes))
	for i, s := range strokes {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
