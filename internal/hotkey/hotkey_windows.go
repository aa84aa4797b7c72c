//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	modNoRepeat = 0x4000
	wmHotkey    = 0x0312
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey      = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey    = user32.NewProc("UnregisterHotKey")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

type winMsg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt_x    int32
	Pt_y    int32
}

type parsed struct {
	Binding
	mod uint32
	vk  uint32
}

// Register installs the bindings and calls handler with a binding's id on
// each press. The message loop runs on its own locked OS thread for the
// lifetime of the process.
func Register(bindings []Binding, hook bool, handler func(id int), debug bool) error {
	defs := make([]parsed, 0, len(bindings))
	for _, b := range bindings {
		mod, vk, err := Parse(b.Spec)
		if err != nil {
			return fmt.Errorf("invalid hotkey '%s': %v", b.Spec, err)
		}
		if debug {
			fmt.Printf("[hotkey-debug] parsed '%s' -> mod=0x%X vk=0x%X\n", b.Spec, mod, vk)
		}
		defs = append(defs, parsed{Binding: b, mod: mod, vk: vk})
	}
	if hook {
		return startLowLevelHook(defs, handler, debug)
	}
	return registerHotkeys(defs, handler, debug)
}

func registerHotkeys(defs []parsed, handler func(id int), debug bool) error {
	errCh := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		for i, d := range defs {
			r, _, _ := procRegisterHotKey.Call(0, uintptr(d.ID), uintptr(d.mod|modNoRepeat), uintptr(d.vk))
			if r == 0 {
				for _, od := range defs[:i] {
					procUnregisterHotKey.Call(0, uintptr(od.ID))
				}
				errCh <- fmt.Errorf("RegisterHotKey failed for '%s' (id=%d); is another program using it?", d.Spec, d.ID)
				return
			}
			if debug {
				fmt.Printf("[hotkey-debug] RegisterHotKey succeeded for id=%d spec=%s\n", d.ID, d.Spec)
			}
		}
		errCh <- nil

		var msg winMsg
		for {
			ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) == -1 {
				fmt.Println("[hotkey] GetMessageW error; exiting hotkey loop")
				return
			}
			if ret == 0 {
				return
			}
			if msg.Message == wmHotkey {
				id := int(msg.WParam)
				if debug {
					fmt.Printf("[hotkey-debug] WM_HOTKEY received id=%d\n", id)
				}
				handler(id)
			}
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("timeout registering hotkeys")
	}
}

func startLowLevelHook(defs []parsed, handler func(id int), debug bool) error {
	const (
		WH_KEYBOARD_LL = 13
		WM_KEYDOWN     = 0x0100
		WM_KEYUP       = 0x0101
		WM_SYSKEYDOWN  = 0x0104
		WM_SYSKEYUP    = 0x0105
		LLKHF_INJECTED = 0x10
		VK_SHIFT       = 0x10
		VK_CONTROL     = 0x11
		VK_MENU        = 0x12
		VK_LWIN        = 0x5B
		VK_RWIN        = 0x5C
	)

	type KBDLLHOOKSTRUCT struct {
		vkCode      uint32
		scanCode    uint32
		flags       uint32
		time        uint32
		dwExtraInfo uintptr
	}

	lookup := make(map[uint32][]parsed)
	for _, d := range defs {
		lookup[d.vk] = append(lookup[d.vk], d)
	}

	down := func(vk uintptr) bool {
		st, _, _ := procGetAsyncKeyState.Call(vk)
		return st&0x8000 != 0
	}
	modsSatisfied := func(required uint32) bool {
		if required&ModCtrl != 0 && !down(VK_CONTROL) {
			return false
		}
		if required&ModAlt != 0 && !down(VK_MENU) {
			return false
		}
		if required&ModShift != 0 && !down(VK_SHIFT) {
			return false
		}
		if required&ModWin != 0 && !down(VK_LWIN) && !down(VK_RWIN) {
			return false
		}
		return true
	}

	errCh := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		swallowed := make(map[uint32]bool)

		callback := windows.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
			if int32(nCode) >= 0 {
				msg := uint32(wParam)
				k := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))

				// our own simulated copy/paste keys must pass through
				if k.flags&LLKHF_INJECTED == 0 {
					switch msg {
					case WM_KEYDOWN, WM_SYSKEYDOWN:
						for _, d := range lookup[k.vkCode] {
							if modsSatisfied(d.mod) {
								swallowed[k.vkCode] = true
								if debug {
									fmt.Printf("[hotkey-debug] swallowed keydown vk=0x%X id=%d\n", k.vkCode, d.ID)
								}
								go handler(d.ID)
								return 1
							}
						}
					case WM_KEYUP, WM_SYSKEYUP:
						if swallowed[k.vkCode] {
							delete(swallowed, k.vkCode)
							return 1
						}
					}
				}
			}
			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		})

		hook, _, _ := procSetWindowsHookExW.Call(uintptr(WH_KEYBOARD_LL), callback, 0, 0)
		if hook == 0 {
			errCh <- fmt.Errorf("SetWindowsHookExW failed")
			return
		}
		if debug {
			fmt.Printf("[hotkey] low-level hook installed (WH_KEYBOARD_LL)\n")
		}
		errCh <- nil

		var msg winMsg
		for {
			ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) == -1 || ret == 0 {
				break
			}
		}

		procUnhookWindowsHookEx.Call(hook)
		if debug {
			fmt.Println("[hotkey] low-level hook uninstalled")
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("timeout installing low-level hook")
	}
}
