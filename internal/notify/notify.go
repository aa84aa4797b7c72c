package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Notifier shows desktop notifications when enabled.
type Notifier struct {
	Enabled bool
	Title   string
}

// Notify shows a desktop notification. Failures are only logged.
func (n Notifier) Notify(message string) {
	if !n.Enabled {
		return
	}
	title := n.Title
	if title == "" {
		title = "llllm"
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		fmt.Printf("[notify] failed: %v\n", err)
	}
}
