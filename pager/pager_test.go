package pager

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"pkt.systems/markterm"
)

func testPager(total, height int) *Pager {
	lines := make([]markterm.Line, total)
	for i := range lines {
		lines[i] = markterm.Line{Text: "line", Role: markterm.RolePlain}
	}
	p := New("sample.md", lines)
	p.height = height
	return p
}

func TestEndHomeJumps(t *testing.T) {
	p := testPager(100, 21)
	if done := p.handleKey(keyEnd); done {
		t.Fatalf("G should not exit")
	}
	if p.top != 80 {
		t.Fatalf("G: top %d, want 80", p.top)
	}
	p.handleKey(keyHome)
	if p.top != 0 {
		t.Fatalf("g: top %d, want 0", p.top)
	}
}

func TestScrollStepsAndClamps(t *testing.T) {
	p := testPager(100, 21)

	p.handleKey(keyLineDown)
	if p.top != 1 {
		t.Fatalf("line down: top %d, want 1", p.top)
	}
	p.handleKey(keyPageDown)
	if p.top != 21 {
		t.Fatalf("page down: top %d, want 21", p.top)
	}
	p.handleKey(keyHalfDown)
	if p.top != 31 {
		t.Fatalf("half page down: top %d, want 31", p.top)
	}
	p.handleKey(keyHalfUp)
	p.handleKey(keyPageUp)
	p.handleKey(keyLineUp)
	if p.top != 0 {
		t.Fatalf("symmetric scroll should return to 0, got %d", p.top)
	}
	p.handleKey(keyLineUp)
	if p.top != 0 {
		t.Fatalf("scrolling above the top must clamp, got %d", p.top)
	}
}

func TestClampUnderArbitraryKeySequence(t *testing.T) {
	p := testPager(37, 11)
	keys := []keyKind{
		keyEnd, keyPageDown, keyPageDown, keyLineDown, keyHome, keyLineUp,
		keyHalfUp, keyPageUp, keyHalfDown, keyEnd, keyLineDown, keyPageDown,
		keyHome, keyHalfDown, keyHalfDown, keyHalfDown, keyHalfDown, keyHalfDown,
	}
	max := len(p.lines) - p.contentRows()
	for i, key := range keys {
		p.handleKey(key)
		if p.top < 0 || p.top > max {
			t.Fatalf("key %d (%v): top %d out of [0,%d]", i, key, p.top, max)
		}
	}
}

func TestQuitKeyExits(t *testing.T) {
	p := testPager(100, 21)
	if done := p.handleKey(keyQuit); !done {
		t.Fatalf("quit key should exit")
	}
}

func TestPercent(t *testing.T) {
	p := testPager(100, 21)
	if got := p.percent(); got != 20 {
		t.Fatalf("top of 100 lines at 20 rows: %d%%, want 20%%", got)
	}
	p.top = 40
	if got := p.percent(); got != 60 {
		t.Fatalf("mid-document: %d%%, want 60%%", got)
	}
	p.top = 80
	if got := p.percent(); got != 100 {
		t.Fatalf("bottom: %d%%, want 100%%", got)
	}

	short := testPager(5, 21)
	if got := short.percent(); got != 100 {
		t.Fatalf("content that fits: %d%%, want 100%%", got)
	}
}

func TestStatusLine(t *testing.T) {
	p := testPager(100, 21)
	if got := p.statusLine(); got != "sample.md | lines 1-20 of 100 (20%)" {
		t.Fatalf("unexpected status: %q", got)
	}
	p.top = 80
	if got := p.statusLine(); got != "sample.md | lines 81-100 of 100 (100%)" {
		t.Fatalf("unexpected status at bottom: %q", got)
	}
}

func TestStatusLineEmptyDocument(t *testing.T) {
	p := testPager(0, 21)
	if got := p.statusLine(); !strings.Contains(got, "lines 0-0 of 0") {
		t.Fatalf("unexpected empty status: %q", got)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	p := testPager(10, 21)
	p.Shutdown()
	p.Shutdown()
}

func TestShutdownSafeFromConcurrentGoroutines(t *testing.T) {
	p := testPager(10, 21)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Shutdown()
		}()
	}
	wg.Wait()
}

func TestShutdownLeavesScreenIntact(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	p := testPager(10, 21)
	p.setTTY(w, nil)
	p.Shutdown()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read teardown output: %v", err)
	}
	if strings.Contains(string(out), "\x1b[2J") {
		t.Fatalf("quit cleared the screen: %q", out)
	}
	if !strings.Contains(string(out), "\x1b[?25h") {
		t.Fatalf("quit did not re-show the cursor: %q", out)
	}
}

func TestReadKeyDecoding(t *testing.T) {
	tests := []struct {
		input string
		want  keyKind
	}{
		{"q", keyQuit},
		{"\x03", keyQuit},
		{"\x1b", keyQuit},
		{" ", keyPageDown},
		{"\r", keyLineDown},
		{"j", keyLineDown},
		{"k", keyLineUp},
		{"b", keyPageUp},
		{"d", keyHalfDown},
		{"\x04", keyHalfDown},
		{"u", keyHalfUp},
		{"\x15", keyHalfUp},
		{"g", keyHome},
		{"G", keyEnd},
		{"\x1b[A", keyLineUp},
		{"\x1b[B", keyLineDown},
		{"\x1b[H", keyHome},
		{"\x1b[F", keyEnd},
		{"\x1bOH", keyHome},
		{"\x1bOF", keyEnd},
		{"\x1b[5~", keyPageUp},
		{"\x1b[6~", keyPageDown},
		{"\x1b[1~", keyHome},
		{"\x1b[4~", keyEnd},
		{"z", keyUnknown},
	}
	for _, tc := range tests {
		r := bufio.NewReader(bytes.NewReader([]byte(tc.input)))
		got, err := readKey(r)
		if err != nil {
			t.Fatalf("readKey(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readKey(%q): got %v, want %v", tc.input, got, tc.want)
		}
	}
}
