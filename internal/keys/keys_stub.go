//go:build !windows

package keys

import "fmt"

// Keyboard is unavailable on non-Windows builds.
type Keyboard struct{}

// New is not supported on non-Windows builds.
func New(debug bool) (*Keyboard, error) {
	return nil, fmt.Errorf("key simulation not supported on this platform")
}

// Send always fails on non-Windows builds.
func (k *Keyboard) Send(strokes ...Stroke) error {
	return fmt.Errorf("key simulation not supported on this platform")
}
