//go:build windows

package keys

import (
	"fmt"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

type vk struct {
	code  int
	shift bool
}

var vkByKey = map[Key]vk{
	KeyC:    {code: keybd_event.VK_C},
	KeyV:    {code: keybd_event.VK_V},
	KeyY:    {code: keybd_event.VK_Y},
	KeyG:    {code: keybd_event.VK_G},
	KeyP:    {code: keybd_event.VK_P},
	Key0:    {code: keybd_event.VK_0},
	KeyEnd:  {code: keybd_event.VK_4, shift: true},
	KeyHome: {code: keybd_event.VK_HOME},
}

// Keyboard injects strokes with SendInput through keybd_event.
type Keyboard struct {
	mu    sync.Mutex
	kb    keybd_event.KeyBonding
	gap   time.Duration
	debug bool
}

// New creates the OS keyboard controller.
func New(debug bool) (*Keyboard, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, err
	}
	return &Keyboard{kb: kb, gap: 15 * time.Millisecond, debug: debug}, nil
}

// Send taps each stroke in order.
func (k *Keyboard) Send(strokes ...Stroke) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, s := range strokes {
		code, ok := vkByKey[s.Key]
		if !ok {
			return fmt.Errorf("no virtual key for %q", s.Key)
		}
		k.kb.Clear()
		k.kb.HasCTRL(s.Mods&Ctrl != 0)
		k.kb.HasSHIFT(s.Mods&Shift != 0 || code.shift)
		k.kb.SetKeys(code.code)
		if k.debug {
			fmt.Printf("[keys] tap %s\n", s)
		}
		if err := k.kb.Launching(); err != nil {
			return fmt.Errorf("send %s: %w", s, err)
		}
		time.Sleep(k.gap)
	}
	return nil
}
