package inference

import (
	"errors"
	"fmt"
)

// Kind classifies a failed inference request.
type Kind int

const (
	// KindStatus means the endpoint answered with a non-200 status.
	KindStatus Kind = iota + 1
	// KindTransport means no response was received (refused, DNS, canceled).
	KindTransport
	// KindDecode means a 200 response carried no text field.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by Infer for every failure. It carries the prompt that
// was sent so the failure can be pasted back in place of the correction.
type Error struct {
	Kind       Kind
	StatusCode int
	Prompt     string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("inference failed with status %d: %s", e.StatusCode, formatResponse(e.Body))
	case KindDecode:
		return fmt.Sprintf("inference response has no text: %s", formatResponse(e.Body))
	default:
		return fmt.Sprintf("inference request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Inline renders the error as the text that replaces the selection.
func (e *Error) Inline() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("!ERROR%d, prompt=%s", e.StatusCode, e.Prompt)
	case KindDecode:
		return fmt.Sprintf("!ERROR%d(no response text), prompt=%s", e.StatusCode, e.Prompt)
	default:
		return fmt.Sprintf("!ERROR(%v), prompt=%s", e.Err, e.Prompt)
	}
}

// Inline renders any error for the inline output channel.
func Inline(err error) string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Inline()
	}
	return fmt.Sprintf("!ERROR(%v)", err)
}
