// Package jsonpath locates the generated text inside a JSON response body.
package jsonpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// fallbackKeys are tried in order when the configured path does not resolve.
var fallbackKeys = []string{"response", "text"}

type step struct {
	key   string
	index int
	isIdx bool
}

// Path is a compiled dot path such as "response" or "choices[0].text".
type Path []step

// Compile parses a dot-separated path with optional [n] indexes per segment.
func Compile(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	var p Path
	for _, part := range strings.Split(s, ".") {
		steps, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", s, err)
		}
		p = append(p, steps...)
	}
	return p, nil
}

func parseSegment(part string) ([]step, error) {
	if part == "" {
		return nil, fmt.Errorf("empty segment")
	}
	br := strings.IndexByte(part, '[')
	if br == -1 {
		return []step{{key: part}}, nil
	}
	var steps []step
	if br > 0 {
		steps = append(steps, step{key: part[:br]})
	}
	rest := part[br:]
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return nil, fmt.Errorf("malformed index in %q", part)
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid index %q in %q", rest[1:end], part)
		}
		steps = append(steps, step{index: n, isIdx: true})
		rest = rest[end+1:]
	}
	return steps, nil
}

// String returns the path in its source form.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		if s.isIdx {
			fmt.Fprintf(&b, "[%d]", s.index)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// Lookup walks root and returns the string at the end of the path.
// Non-string leaves do not count as text.
func (p Path) Lookup(root interface{}) (string, bool) {
	cur := root
	for _, s := range p {
		if s.isIdx {
			arr, ok := cur.([]interface{})
			if !ok || s.index >= len(arr) {
				return "", false
			}
			cur = arr[s.index]
			continue
		}
		m, ok := cur.(map[string]interface{})
		if !ok {
			return "", false
		}
		if cur, ok = m[s.key]; !ok {
			return "", false
		}
	}
	text, ok := cur.(string)
	return text, ok
}

// ExtractText decodes a JSON body and returns the text found at p, falling
// back to the common top-level text keys. The bool result reports whether
// any text field was found.
func ExtractText(body []byte, p Path) (string, bool) {
	var root interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return "", false
	}
	if text, ok := p.Lookup(root); ok {
		return text, true
	}
	m, ok := root.(map[string]interface{})
	if !ok {
		return "", false
	}
	for _, k := range fallbackKeys {
		if s, ok := m[k].(string); ok {
			return s, true
		}
	}
	return "", false
}
