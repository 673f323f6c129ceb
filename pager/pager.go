// Package pager provides the built-in interactive pager for rendered
// markdown. It drives the controlling terminal directly through
// /dev/tty so piped stdin does not interfere with key input.
package pager

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"pkt.systems/markterm"
	"pkt.systems/markterm/internal/palette"
)

// ErrNoTTY is returned when the controlling terminal cannot be opened
// or switched to raw mode. Callers fall back to direct output.
var ErrNoTTY = errors.New("no terminal available")

const fallbackHeight = 24

var termGetSize = term.GetSize

// Pager displays pre-rendered lines one screen at a time. Content that
// fits the terminal is written straight through to Out instead.
type Pager struct {
	// Out receives the content when it fits without scrolling.
	Out io.Writer

	name  string
	lines []markterm.Line
	top   int

	width  int
	height int

	// mu guards tty and restore, which the signal handler goroutine
	// reads through Shutdown while Run assigns them.
	mu      sync.Mutex
	tty     *os.File
	reader  *bufio.Reader
	writer  *bufio.Writer
	restore *term.State

	shutdown sync.Once
}

// New returns a pager over lines. name is shown in the status bar,
// typically the file name or "(stdin)".
func New(name string, lines []markterm.Line) *Pager {
	return &Pager{
		Out:    os.Stdout,
		name:   name,
		lines:  lines,
		height: fallbackHeight,
	}
}

// Run opens the controlling terminal and pages through the content
// until the user quits. It returns an error wrapping ErrNoTTY when no
// terminal is available, letting the caller fall back to direct output.
func (p *Pager) Run() error {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoTTY, err)
	}
	p.setTTY(tty, nil)
	p.updateSize()

	if len(p.lines) <= p.contentRows() {
		_ = tty.Close()
		p.setTTY(nil, nil)
		return markterm.DirectSink{W: p.Out}.Present(p.lines)
	}

	restore, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		_ = tty.Close()
		p.setTTY(nil, nil)
		return fmt.Errorf("%w: %v", ErrNoTTY, err)
	}
	p.setTTY(tty, restore)
	p.reader = bufio.NewReader(tty)
	p.writer = bufio.NewWriter(tty)
	defer p.Shutdown()

	for {
		if err := p.paint(); err != nil {
			return err
		}
		key, err := readKey(p.reader)
		if err != nil {
			return err
		}
		if done := p.handleKey(key); done {
			return nil
		}
	}
}

// exitSequence re-shows the cursor and moves past the status bar on
// quit. The painted document stays on screen.
const exitSequence = "\x1b[?25h\r\n"

// Shutdown restores the terminal and releases the tty. It is
// idempotent and safe to call from a signal handler goroutine.
func (p *Pager) Shutdown() {
	p.shutdown.Do(func() {
		p.mu.Lock()
		tty, restore := p.tty, p.restore
		p.mu.Unlock()
		if tty == nil {
			return
		}
		if restore != nil {
			_ = term.Restore(int(tty.Fd()), restore)
		}
		_, _ = tty.WriteString(exitSequence)
		_ = tty.Close()
	})
}

func (p *Pager) setTTY(tty *os.File, restore *term.State) {
	p.mu.Lock()
	p.tty = tty
	p.restore = restore
	p.mu.Unlock()
}

func (p *Pager) updateSize() {
	if p.tty == nil {
		return
	}
	w, h, err := termGetSize(int(p.tty.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return
	}
	p.width = w
	p.height = h
}

// contentRows is the number of rows available for document lines; the
// bottom row is reserved for the status bar.
func (p *Pager) contentRows() int {
	rows := p.height - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (p *Pager) paint() error {
	p.updateSize()
	p.clampTop()

	p.writer.WriteString("\x1b[?25l\x1b[2J\x1b[H")
	rows := p.contentRows()
	for i := 0; i < rows; i++ {
		idx := p.top + i
		if idx < len(p.lines) {
			p.writer.WriteString(p.lines[idx].Text)
		} else {
			p.writer.WriteString(palette.Dim + "~" + palette.Reset)
		}
		p.writer.WriteString("\r\n")
	}
	p.writer.WriteString(palette.Reverse + " " + p.statusLine() + " " + palette.Reset)
	return p.writer.Flush()
}

// handleKey applies one key press to the scroll position and reports
// whether the pager should exit.
func (p *Pager) handleKey(key keyKind) bool {
	page := p.contentRows()
	half := page / 2
	if half < 1 {
		half = 1
	}

	switch key {
	case keyQuit:
		return true
	case keyLineDown:
		p.top++
	case keyLineUp:
		p.top--
	case keyPageDown:
		p.top += page
	case keyPageUp:
		p.top -= page
	case keyHalfDown:
		p.top += half
	case keyHalfUp:
		p.top -= half
	case keyHome:
		p.top = 0
	case keyEnd:
		p.top = len(p.lines)
	}
	p.clampTop()
	return false
}

func (p *Pager) clampTop() {
	max := len(p.lines) - p.contentRows()
	if max < 0 {
		max = 0
	}
	if p.top > max {
		p.top = max
	}
	if p.top < 0 {
		p.top = 0
	}
}

func (p *Pager) statusLine() string {
	total := len(p.lines)
	rows := p.contentRows()
	first := 0
	last := 0
	if total > 0 {
		first = p.top + 1
		last = p.top + rows
		if last > total {
			last = total
		}
	}
	return fmt.Sprintf("%s | lines %d-%d of %d (%d%%)",
		p.name, first, last, total, p.percent())
}

// percent is how far through the document the bottom of the screen is.
func (p *Pager) percent() int {
	total := len(p.lines)
	rows := p.contentRows()
	if total <= rows {
		return 100
	}
	bottom := p.top + rows
	if bottom > total {
		bottom = total
	}
	return bottom * 100 / total
}
