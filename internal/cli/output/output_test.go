package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"explicit markdown on tty", ModeMarkdown, true, ModeMarkdown},
		{"explicit json", ModeJSON, false, ModeJSON},
		{"unknown falls back to auto", Mode("xml"), false, ModeMarkdown},
		{"empty falls back to auto", Mode(""), true, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newBufferRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNoEscapeSequencesWhenPiped(t *testing.T) {
	r, out, errOut := newBufferRenderer(ModeText, false)

	r.Header(1, "Documents")
	r.Success("all checks passed")
	r.Warning("two items unlinked")
	r.Println(r.Styles().Error.Render("error"))

	combined := out.String() + errOut.String()
	assert.NotContains(t, combined, "\x1b[", "piped output must stay plain")
	assert.Contains(t, out.String(), "Documents")
	assert.Contains(t, out.String(), "ok all checks passed")
	assert.Contains(t, errOut.String(), "warning: two items unlinked")
}

func TestHeaderMarkdownMode(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeMarkdown, false)

	r.Header(1, "Documents")
	r.Header(2, "REQ")

	assert.Contains(t, out.String(), "# Documents\n")
	assert.Contains(t, out.String(), "## REQ\n")
}

func TestJSON(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(map[string]any{"prefixes": []string{"REQ"}}))

	var got map[string][]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []string{"REQ"}, got["prefixes"])
	assert.True(t, strings.HasPrefix(out.String(), "{\n  "), "output is indented")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "# Clamped", FormatHeader(0, "Clamped"))
	assert.Equal(t, "###### Floor", FormatHeader(9, "Floor"))
	assert.Equal(t, "- **Items**: 12", FormatKeyValue("Items", "12"))
}
