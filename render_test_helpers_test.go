package markterm

import (
	"regexp"
	"strings"
	"testing"
)

var ansiRegexp = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")
var osc8Regexp = regexp.MustCompile("\x1b\\]8;;.*?\x1b\\\\")

func stripANSI(s string) string {
	s = ansiRegexp.ReplaceAllString(s, "")
	s = osc8Regexp.ReplaceAllString(s, "")
	return s
}

func renderLines(t *testing.T, src string, width int, opts ...RenderOption) []Line {
	t.Helper()
	lines, err := Render(RenderRequest{
		Source:  []byte(src),
		Width:   width,
		Theme:   DefaultTheme(),
		Options: append([]RenderOption{WithOSC8(false)}, opts...),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return lines
}

// renderText joins the stripped line texts with newlines.
func renderText(t *testing.T, src string, width int, opts ...RenderOption) string {
	t.Helper()
	lines := renderLines(t, src, width, opts...)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(stripANSI(line.Text))
	}
	return b.String()
}
