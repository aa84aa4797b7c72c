//go:build !windows

package hotkey

import "fmt"

// Register is not supported on non-Windows builds.
func Register(bindings []Binding, hook bool, handler func(id int), debug bool) error {
	for _, b := range bindings {
		if _, _, err := Parse(b.Spec); err != nil {
			return fmt.Errorf("invalid hotkey '%s': %v", b.Spec, err)
		}
	}
	return fmt.Errorf("hotkey not supported on this platform")
}
