package markterm

import (
	"os"
	"strings"
	"testing"
)

func TestRenderSampleDocument(t *testing.T) {
	data, err := os.ReadFile("testdata/sample.md")
	if err != nil {
		t.Fatalf("read sample.md: %v", err)
	}
	lines, err := Render(RenderRequest{Source: data, Width: 80, Theme: DefaultTheme()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	cw := ContentWidth(80)
	var joined strings.Builder
	for i, line := range lines {
		if line.Width() > cw {
			t.Fatalf("line %d exceeds content width %d: %q", i, cw, stripANSI(line.Text))
		}
		joined.WriteString(stripANSI(line.Text))
		joined.WriteByte('\n')
	}
	out := joined.String()

	if strings.Contains(out, "title: markterm sample") {
		t.Fatalf("front matter leaked into output")
	}
	for _, want := range []string{
		"markterm",
		"• unordered item one",
		"◦ nested item",
		"▪ deeply nested item",
		"1. ordered item",
		"[✓] write the renderer",
		"[ ] take a break",
		"│ A block quote",
		"╭─ go ",
		"hello from a fenced code block",
		"│ Column",
		"the first column of the table",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in rendered sample:\n%s", want, out)
		}
	}
}

func TestRenderDefaultsWidth(t *testing.T) {
	lines, err := Render(RenderRequest{Source: []byte("some plain text")})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	cw := ContentWidth(defaultWidth)
	for _, line := range lines {
		if line.Width() > cw {
			t.Fatalf("default width not applied: %q", stripANSI(line.Text))
		}
	}
}

func TestRenderNilThemeUsesDefault(t *testing.T) {
	lines, err := Render(RenderRequest{Source: []byte("# H"), Width: 80})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	found := false
	for _, line := range lines {
		if strings.Contains(line.Text, "\x1b[97m") {
			found = true
		}
	}
	if !found {
		t.Fatalf("nil theme should fall back to the dark theme: %#v", lines)
	}
}
