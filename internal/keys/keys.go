// Package keys describes simulated key strokes and sends them to the OS.
package keys

import "strings"

// Key names a physical key by the character or name it produces.
type Key string

const (
	KeyC    Key = "c"
	KeyV    Key = "v"
	KeyY    Key = "y"
	KeyG    Key = "g"
	KeyP    Key = "p"
	Key0    Key = "0"
	KeyEnd  Key = "$"
	KeyHome Key = "home"
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	Ctrl Modifier = 1 << iota
	Shift
)

// Stroke is one tap of a key, optionally with modifiers held.
type Stroke struct {
	Key  Key
	Mods Modifier
}

// Tap is a stroke without modifiers.
func Tap(k Key) Stroke { return Stroke{Key: k} }

// Chord is a stroke with modifiers held.
func Chord(mods Modifier, k Key) Stroke { return Stroke{Key: k, Mods: mods} }

func (s Stroke) String() string {
	var parts []string
	if s.Mods&Ctrl != 0 {
		parts = append(parts, "ctrl")
	}
	if s.Mods&Shift != 0 {
		parts = append(parts, "shift")
	}
	parts = append(parts, string(s.Key))
	return strings.Join(parts, "+")
}

// Sender delivers strokes to whatever has input focus.
type Sender interface {
	Send(strokes ...Stroke) error
}
