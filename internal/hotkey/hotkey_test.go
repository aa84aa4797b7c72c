package hotkey

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		mod  uint32
		vk   uint32
	}{
		{"f9", 0, 0x78},
		{"F10", 0, 0x79},
		{"alt+q", ModAlt, 'Q'},
		{"ctrl+shift+F1", ModCtrl | ModShift, 0x70},
		{"win + 5", ModWin, '5'},
		{"esc", 0, 0x1B},
		{"numpad3", 0, 0x63},
		{"kp0", 0, 0x60},
		{"ctrl+pagedown", ModCtrl, 0x22},
		{"minus", 0, 0x6D},
	}
	for _, tt := range tests {
		mod, vk, err := Parse(tt.spec)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected err: %v", tt.spec, err)
		}
		if mod != tt.mod || vk != tt.vk {
			t.Fatalf("Parse(%q) = mod 0x%X vk 0x%X, want mod 0x%X vk 0x%X", tt.spec, mod, vk, tt.mod, tt.vk)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{"", "f25", "hyper+a", "ctrl+", "banana"} {
		if _, _, err := Parse(spec); err == nil {
			t.Fatalf("Parse(%q) expected error", spec)
		}
	}
}
