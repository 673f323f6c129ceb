package markterm

import (
	"strings"
	"testing"
)

func TestStripFrontMatter(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "yaml",
			src:  "---\ntitle: Post\ndate: 2026-02-09\n---\n# Hello\n",
			want: "# Hello\n",
		},
		{
			name: "toml",
			src:  "+++\ntitle = \"Post\"\n+++\n# Hello\n",
			want: "# Hello\n",
		},
		{
			name: "json",
			src:  ";;;\n{\"title\": \"Post\"}\n;;;\n# Hello\n",
			want: "# Hello\n",
		},
		{
			name: "bom",
			src:  "\xef\xbb\xbf---\ntitle: Post\n---\nBody\n",
			want: "Body\n",
		},
		{
			name: "crlf",
			src:  "---\r\ntitle: Post\r\n---\r\nBody\r\n",
			want: "Body\r\n",
		},
		{
			name: "unclosed fence stays",
			src:  "---\ntitle: Post\nno closing fence\n",
			want: "---\ntitle: Post\nno closing fence\n",
		},
		{
			name: "thematic break stays",
			src:  "---\n\njust a paragraph\n",
			want: "---\n\njust a paragraph\n",
		},
		{
			name: "mid-document fence stays",
			src:  "intro\n---\ntitle: Post\n---\n",
			want: "intro\n---\ntitle: Post\n---\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(stripFrontMatter([]byte(tc.src))); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestRenderOmitsFrontMatter(t *testing.T) {
	out := renderText(t, "---\ntitle: Post\ndate: 2026-02-09\n---\n\n# Hello\n\nBody.\n", 80)
	for _, omit := range []string{"title: Post", "date: 2026-02-09"} {
		if strings.Contains(out, omit) {
			t.Fatalf("front matter leaked: %q", out)
		}
	}
	for _, want := range []string{"Hello", "Body."} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}
