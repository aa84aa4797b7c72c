// Package editortest provides an in-memory desktop for exercising the editor
// without an OS keyboard or clipboard.
package editortest

import (
	"sync"

	"llllm/internal/keys"
)

// Desktop fakes a focused text field plus the clipboard. Copy strokes
// (ctrl+c, y) put Selection on the clipboard, or leave it untouched when
// Selection is empty; paste strokes (ctrl+v, p) append the clipboard to
// Pasted.
type Desktop struct {
	mu        sync.Mutex
	Selection string
	Clip      string
	Strokes   []string
	Pasted    []string
	SendErr   error
}

// Send records strokes and applies their clipboard effect.
func (d *Desktop) Send(strokes ...keys.Stroke) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SendErr != nil {
		return d.SendErr
	}
	for _, s := range strokes {
		d.Strokes = append(d.Strokes, s.String())
		switch {
		case s == keys.Chord(keys.Ctrl, keys.KeyC), s == keys.Tap(keys.KeyY):
			if d.Selection != "" {
				d.Clip = d.Selection
			}
		case s == keys.Chord(keys.Ctrl, keys.KeyV), s == keys.Tap(keys.KeyP):
			d.Pasted = append(d.Pasted, d.Clip)
		}
	}
	return nil
}

// Read returns the fake clipboard.
func (d *Desktop) Read() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Clip, nil
}

// Write replaces the fake clipboard.
func (d *Desktop) Write(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Clip = text
	return nil
}

// Sent returns a copy of the recorded strokes.
func (d *Desktop) Sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Strokes...)
}

// PastedText returns a copy of everything pasted so far.
func (d *Desktop) PastedText() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Pasted...)
}
