package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeepsInputVerbatim(t *testing.T) {
	b, err := New(nil)
	require.NoError(t, err)

	inputs := []string{
		"this is a sentance wit a typo",
		"we show that x>0",
		"line one\nline two\n\n  indented",
		`<b>bold</b> & "quotes" 'single' \alpha $\frac{1}{2}$`,
		"{{.Text}} is not expanded twice",
		"日本語のテキスト, émigré, naïve 🙂",
		"",
	}
	for _, m := range Modes {
		for _, in := range inputs {
			out, err := b.Build(m, in)
			require.NoError(t, err)
			assert.True(t, strings.Contains(out, in), "mode %s: %q not found in prompt", m, in)
		}
	}
}

func TestBuildUsesModeInstruction(t *testing.T) {
	b, err := New(nil)
	require.NoError(t, err)

	fix, err := b.Build(Fix, "x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fix, "Fix all typos"))
	assert.Contains(t, fix, "preserve all the newline characters")
	assert.Contains(t, fix, "do not place the text in a code block")

	improve, err := b.Build(Improve, "x")
	require.NoError(t, err)
	assert.Contains(t, improve, "formal register")
	assert.Contains(t, improve, "Do not modify LaTeX code")
}

func TestOverride(t *testing.T) {
	b, err := New(map[Mode]string{Improve: "Make it shorter: {{.Text}}"})
	require.NoError(t, err)

	out, err := b.Build(Improve, "a b c")
	require.NoError(t, err)
	assert.Equal(t, "Make it shorter: a b c", out)

	fix, err := b.Build(Fix, "a b c")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fix, "Fix all typos"))
}

func TestOverrideParseError(t *testing.T) {
	_, err := New(map[Mode]string{Fix: "{{.Text"})
	require.Error(t, err)
}

func TestUnknownMode(t *testing.T) {
	b, err := New(nil)
	require.NoError(t, err)
	_, err = b.Build(Mode(7), "x")
	require.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Improve")
	require.NoError(t, err)
	assert.Equal(t, Improve, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Fix, m)

	_, err = ParseMode("shorten")
	assert.Error(t, err)
}
