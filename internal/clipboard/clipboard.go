// Package clipboard reads and writes the OS clipboard.
package clipboard

import "github.com/atotto/clipboard"

// System is the process clipboard. On Linux it needs xclip, xsel or wl-clipboard.
type System struct{}

// Read returns the clipboard text.
func (System) Read() (string, error) {
	return clipboard.ReadAll()
}

// Write replaces the clipboard text.
func (System) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard backend was found.
func Available() bool {
	return !clipboard.Unsupported
}
