package markterm

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"

	"pkt.systems/markterm/internal/palette"
)

// span is a fragment of pending inline content. Raw spans carry escape
// sequences (OSC 8 brackets) that occupy no columns and never split.
type span struct {
	text  string
	style Style
	raw   bool
}

// word is a whitespace-delimited wrap unit assembled from one or more
// spans. Width counts visible columns only.
type word struct {
	frags []span
	width int
}

// splitWords splits pending spans into wrap units. Whitespace inside a
// span separates words and is discarded; single spaces are re-added when
// lines are assembled. A word may join fragments from adjacent spans when
// no whitespace sits between them.
func splitWords(spans []span) []word {
	var words []word
	var cur word
	flush := func() {
		if len(cur.frags) > 0 {
			words = append(words, cur)
			cur = word{}
		}
	}
	for _, sp := range spans {
		if sp.raw {
			cur.frags = append(cur.frags, sp)
			continue
		}
		rest := sp.text
		for rest != "" {
			i := strings.IndexAny(rest, " \t")
			if i < 0 {
				cur.frags = append(cur.frags, span{text: rest, style: sp.style})
				cur.width += runewidth.StringWidth(rest)
				break
			}
			if i > 0 {
				frag := rest[:i]
				cur.frags = append(cur.frags, span{text: frag, style: sp.style})
				cur.width += runewidth.StringWidth(frag)
			}
			flush()
			rest = rest[i+1:]
		}
	}
	flush()
	return words
}

// hardSplit breaks a word wider than limit at the character boundary that
// fits. No character is dropped; concatenating the parts restores the
// original word.
func hardSplit(w word, limit int) []word {
	if limit <= 0 || w.width <= limit {
		return []word{w}
	}
	var parts []word
	var cur word
	for _, frag := range w.frags {
		if frag.raw {
			cur.frags = append(cur.frags, frag)
			continue
		}
		for _, r := range frag.text {
			rw := runewidth.RuneWidth(r)
			if cur.width > 0 && cur.width+rw > limit {
				parts = append(parts, cur)
				cur = word{}
			}
			if n := len(cur.frags); n > 0 && !cur.frags[n-1].raw && cur.frags[n-1].style == frag.style {
				cur.frags[n-1].text += string(r)
			} else {
				cur.frags = append(cur.frags, span{text: string(r), style: frag.style})
			}
			cur.width += rw
		}
	}
	if len(cur.frags) > 0 {
		parts = append(parts, cur)
	}
	return parts
}

// wrapWords greedily packs words into rows of at most avail columns.
// Overlong words are hard-split; the tail of a split word starts a row
// that subsequent words continue to fill.
func wrapWords(words []word, avail int) [][]word {
	if avail < 1 {
		avail = 1
	}
	var rows [][]word
	var row []word
	width := 0
	for _, w := range words {
		if w.width > avail {
			if len(row) > 0 {
				rows = append(rows, row)
				row = nil
				width = 0
			}
			parts := hardSplit(w, avail)
			for _, part := range parts[:len(parts)-1] {
				rows = append(rows, []word{part})
			}
			last := parts[len(parts)-1]
			row = []word{last}
			width = last.width
			continue
		}
		switch {
		case len(row) == 0:
			row = []word{w}
			width = w.width
		case width+1+w.width <= avail:
			row = append(row, w)
			width += 1 + w.width
		default:
			rows = append(rows, row)
			row = []word{w}
			width = w.width
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// rebalanceOSC8 keeps hyperlinks line-local: a link left open at the end
// of a row is closed there and reopened on the next row. Without this a
// viewport boundary between the rows would leave the terminal inside the
// hyperlink for everything painted afterwards.
func rebalanceOSC8(rows [][]word) {
	open := ""
	for _, row := range rows {
		if open != "" {
			first := &row[0]
			first.frags = append([]span{{text: open, raw: true}}, first.frags...)
		}
		for _, w := range row {
			for _, frag := range w.frags {
				if !frag.raw {
					continue
				}
				if frag.text == osc8End {
					open = ""
				} else if strings.HasPrefix(frag.text, osc8Start) {
					open = frag.text
				}
			}
		}
		if open != "" {
			last := &row[len(row)-1]
			last.frags = append(last.frags, span{text: osc8End, raw: true})
		}
	}
}

// renderWords flattens a row of words into a styled string, separating
// words with single unstyled spaces and resetting between style changes.
func renderWords(b *strings.Builder, words []word) {
	current := ""
	for i, w := range words {
		if i > 0 {
			if current != "" {
				b.WriteString(palette.Reset)
				current = ""
			}
			b.WriteByte(' ')
		}
		for _, frag := range w.frags {
			if frag.raw {
				b.WriteString(frag.text)
				continue
			}
			if frag.style.Prefix != current {
				if current != "" {
					b.WriteString(palette.Reset)
				}
				current = frag.style.Prefix
				if current != "" {
					b.WriteString(current)
				}
			}
			b.WriteString(frag.text)
		}
	}
	if current != "" {
		b.WriteString(palette.Reset)
	}
}

// visibleWidth measures printable columns, skipping CSI and OSC
// sequences the way a terminal consumes them. ansi.PrintableRuneWidth
// cannot be used here: it ends an escape at the first letter, which
// miscounts OSC 8 hyperlink payloads.
func visibleWidth(s string) int {
	w := 0
	for i := 0; i < len(s); {
		if esc, n := escapeLen(s[i:]); esc {
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w += runewidth.RuneWidth(r)
		i += size
	}
	return w
}

// escapeLen reports whether s starts with an escape sequence and how
// many bytes it spans. OSC sequences run to BEL or ST; everything else
// ends at the first terminator byte.
func escapeLen(s string) (bool, int) {
	if len(s) == 0 || s[0] != 0x1b {
		return false, 0
	}
	if len(s) > 1 && s[1] == ']' {
		for j := 2; j < len(s); j++ {
			if s[j] == 0x07 {
				return true, j + 1
			}
			if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
				return true, j + 2
			}
		}
		return true, len(s)
	}
	for j := 1; j < len(s); j++ {
		if ansi.IsTerminator(rune(s[j])) {
			return true, j + 1
		}
	}
	return true, len(s)
}

// truncateWithEllipsis caps plain text at limit visible columns, marking
// the cut with a trailing ellipsis.
func truncateWithEllipsis(text string, limit int) string {
	if visibleWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	var b strings.Builder
	width := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if width+rw > limit-1 {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	b.WriteString("…")
	return b.String()
}

// ansiTruncate caps styled text at limit visible columns, preserving
// escape sequences and appending a reset plus ellipsis at the cut. An
// OSC 8 hyperlink left open by the cut is closed.
func ansiTruncate(text string, limit int) string {
	if visibleWidth(text) <= limit {
		return text
	}
	var b strings.Builder
	width := 0
	styled := false
	oscOpen := false
	for i := 0; i < len(text); {
		if esc, n := escapeLen(text[i:]); esc {
			seq := text[i : i+n]
			b.WriteString(seq)
			styled = true
			if strings.HasPrefix(seq, osc8Start) {
				oscOpen = seq != osc8End
			}
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		rw := runewidth.RuneWidth(r)
		if width+rw > limit-1 {
			break
		}
		b.WriteRune(r)
		width += rw
		i += size
	}
	if oscOpen {
		b.WriteString(osc8End)
	}
	if styled {
		b.WriteString(palette.Reset)
	}
	b.WriteString("…")
	return b.String()
}

// fitURL shrinks a URL to limit columns, dropping the scheme before
// resorting to truncation.
func fitURL(url string, limit int) string {
	if runewidth.StringWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if runewidth.StringWidth(trimmed) <= limit {
			return trimmed
		}
	}
	return truncateWithEllipsis(url, limit)
}

const spaceString = "                                                                "

func spaces(count int) string {
	if count <= 0 {
		return ""
	}
	if count <= len(spaceString) {
		return spaceString[:count]
	}
	return strings.Repeat(" ", count)
}
