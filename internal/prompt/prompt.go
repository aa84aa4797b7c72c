// Package prompt renders the fixed instructions sent to the model.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Mode selects a transformation.
type Mode int

const (
	Fix Mode = iota
	Improve
)

// Modes lists every transformation in hotkey order.
var Modes = []Mode{Fix, Improve}

func (m Mode) String() string {
	switch m {
	case Fix:
		return "fix"
	case Improve:
		return "improve"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "fix" or "improve" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fix", "":
		return Fix, nil
	case "improve":
		return Improve, nil
	}
	return 0, fmt.Errorf("unknown mode %q (allowed: fix, improve)", s)
}

const fixTemplate = `Fix all typos, the casing, and the punctuation in the following text, ` +
	`but preserve all the newline characters. ` +
	`Do not modify LaTeX code or introduce escape characters. ` +
	`Return only the corrected text, do not include a preamble and do not place the text in a code block:

{{.Text}}
`

const improveTemplate = `Rewrite the following text in a formal register suitable for publication, ` +
	`fixing typos, casing, and punctuation along the way, but preserve all the newline characters. ` +
	`Do not modify LaTeX code or introduce escape characters. ` +
	`Return only the rewritten text, do not include a preamble and do not place the text in a code block:

{{.Text}}
`

// Builtin returns the default template body for a mode.
func Builtin(m Mode) string {
	if m == Improve {
		return improveTemplate
	}
	return fixTemplate
}

type data struct {
	Text string
}

// Builder holds one parsed template per mode. It is immutable after New.
type Builder struct {
	templates map[Mode]*template.Template
}

// New parses the builtin templates, replacing any mode with a non-empty
// override. Overrides use {{.Text}} as the substitution slot.
func New(overrides map[Mode]string) (*Builder, error) {
	b := &Builder{templates: make(map[Mode]*template.Template, len(Modes))}
	for _, m := range Modes {
		body := Builtin(m)
		if o := overrides[m]; o != "" {
			body = o
		}
		tpl, err := template.New(m.String()).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse %s prompt: %w", m, err)
		}
		b.templates[m] = tpl
	}
	return b, nil
}

// Build substitutes text into the mode's template without escaping or trimming.
func (b *Builder) Build(m Mode, text string) (string, error) {
	tpl, ok := b.templates[m]
	if !ok {
		return "", fmt.Errorf("no prompt for %s", m)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data{Text: text}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", m, err)
	}
	return buf.String(), nil
}
