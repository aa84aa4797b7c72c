// Package hotkey registers process-wide hotkeys with the OS.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Binding ties a hotkey string such as "f9" or "ctrl+shift+e" to an id
// that is passed to the handler when the key is pressed.
type Binding struct {
	ID   int
	Spec string
}

// Modifier masks as used by RegisterHotKey.
const (
	ModAlt   uint32 = 0x0001
	ModCtrl  uint32 = 0x0002
	ModShift uint32 = 0x0004
	ModWin   uint32 = 0x0008
)

const (
	VK_NUMPAD0  = 0x60
	VK_ADD      = 0x6B
	VK_SUBTRACT = 0x6D
	VK_F1       = 0x70
)

var namedKeys = map[string]uint32{
	"esc":        0x1B,
	"escape":     0x1B,
	"space":      0x20,
	"enter":      0x0D,
	"return":     0x0D,
	"tab":        0x09,
	"backspace":  0x08,
	"insert":     0x2D,
	"delete":     0x2E,
	"home":       0x24,
	"end":        0x23,
	"pageup":     0x21,
	"pagedown":   0x22,
	"left":       0x25,
	"up":         0x26,
	"right":      0x27,
	"down":       0x28,
	"pause":      0x13,
	"scroll":     0x91,
	"add":        VK_ADD,
	"plus":       VK_ADD,
	"kpadd":      VK_ADD,
	"subtract":   VK_SUBTRACT,
	"minus":      VK_SUBTRACT,
	"kpsubtract": VK_SUBTRACT,
}

// Parse accepts strings like "f9", "alt+q", "ctrl+shift+F1" and returns the
// modifier mask and virtual-key code.
func Parse(s string) (uint32, uint32, error) {
	if strings.TrimSpace(s) == "" {
		return 0, 0, fmt.Errorf("empty key")
	}
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.ToLower(parts[i]))
	}
	keyToken := parts[len(parts)-1]

	var mod uint32
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "alt", "menu":
			mod |= ModAlt
		case "ctrl", "control":
			mod |= ModCtrl
		case "shift":
			mod |= ModShift
		case "win", "meta", "super", "cmd":
			mod |= ModWin
		default:
			return 0, 0, fmt.Errorf("unknown modifier %q in %s", p, s)
		}
	}

	if len(keyToken) == 1 {
		ch := keyToken[0]
		switch {
		case ch >= 'a' && ch <= 'z':
			return mod, uint32(ch - 'a' + 'A'), nil
		case ch >= '0' && ch <= '9':
			return mod, uint32(ch), nil
		}
	}
	if n, ok := strings.CutPrefix(keyToken, "f"); ok {
		if i, err := strconv.Atoi(n); err == nil && i >= 1 && i <= 24 {
			return mod, VK_F1 + uint32(i-1), nil
		}
	}
	for _, prefix := range []string{"numpad", "num", "kp"} {
		if n, ok := strings.CutPrefix(keyToken, prefix); ok && len(n) == 1 && n[0] >= '0' && n[0] <= '9' {
			return mod, VK_NUMPAD0 + uint32(n[0]-'0'), nil
		}
	}
	if v, ok := namedKeys[keyToken]; ok {
		return mod, v, nil
	}
	return 0, 0, fmt.Errorf("unsupported key token: %s", s)
}
