package markterm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"pkt.systems/markterm/internal/palette"
)

// ErrEventStructure reports an event stream that violates nesting
// invariants. It signals a tokenizer bug, never recoverable input.
var ErrEventStructure = errors.New("inconsistent event structure")

const (
	// MinContentWidth is the floor the content width is clamped to.
	MinContentWidth = 20
	marginWidth     = 2
)

// ContentWidth derives the usable column count from a terminal width.
func ContentWidth(termWidth int) int {
	cw := termWidth - marginWidth
	if cw < MinContentWidth {
		cw = MinContentWidth
	}
	return cw
}

type listFrame struct {
	ordered bool
	next    int
	hang    int
}

type linkFrame struct {
	dest      string
	spanStart int
}

// layout consumes the structural event stream and emits display lines.
// It holds no event beyond the one being processed plus the nesting state
// below.
type layout struct {
	styles Styles
	width  int
	noWrap bool
	osc8   bool

	lines []Line
	spans []span

	headingLevel int
	strong       int
	emphasis     int
	strike       int
	links        []linkFrame

	quoteDepth int
	lists      []listFrame

	marker      string
	markerWidth int

	inCode  bool
	table   *tableState
	inCell  bool
	cellBuf strings.Builder

	scratch strings.Builder
}

func layoutEvents(events []Event, width int, theme Theme, cfg renderConfig) ([]Line, error) {
	l := &layout{
		styles: theme.Styles(),
		width:  width,
		noWrap: cfg.noWrap,
		osc8:   cfg.osc8,
	}
	for i := range events {
		if err := l.process(&events[i]); err != nil {
			return nil, err
		}
	}
	l.flushInline(l.contextRole())
	return l.lines, nil
}

func (l *layout) process(ev *Event) error {
	if l.inCell {
		return l.processInCell(ev)
	}
	switch ev.Kind {
	case EventStart:
		return l.processStart(ev)
	case EventEnd:
		return l.processEnd(ev)
	case EventText:
		l.spans = append(l.spans, span{text: ev.Text, style: l.inlineStyle()})
	case EventCode:
		if l.inCode {
			l.emitCodeLine(ev.Text)
			return nil
		}
		l.spans = append(l.spans, span{text: ev.Text, style: l.codeInlineStyle()})
	case EventSoftBreak:
		l.spans = append(l.spans, span{text: " "})
	case EventHardBreak:
		l.flushInline(l.contextRole())
	case EventRule:
		l.blankSep()
		l.emitRule()
		l.blankSep()
	case EventTaskMarker:
		if ev.Checked {
			l.marker = l.styled("[✓] ", l.styles.TaskDone)
		} else {
			l.marker = l.styled("[ ] ", l.styles.TaskOpen)
		}
		l.markerWidth = 4
		if n := len(l.lists); n > 0 {
			l.lists[n-1].hang = l.markerWidth
		}
	}
	return nil
}

func (l *layout) processStart(ev *Event) error {
	switch ev.Element {
	case ElementHeading:
		l.blankSep()
		level := ev.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		l.headingLevel = level
	case ElementParagraph:
		l.blankSep()
	case ElementBlockQuote:
		l.blankSep()
		l.quoteDepth++
	case ElementCodeBlock:
		l.blankSep()
		l.inCode = true
		l.emitCodeTop(ev.Lang)
	case ElementList:
		if len(l.lists) == 0 {
			l.blankSep()
		} else {
			// A nested list closes the parent item's inline run first.
			l.flushInline(RoleListItem)
		}
		next := ev.Start
		if next < 1 {
			next = 1
		}
		l.lists = append(l.lists, listFrame{ordered: ev.Ordered, next: next})
	case ElementListItem:
		if len(l.lists) == 0 {
			return fmt.Errorf("%w: list item outside list", ErrEventStructure)
		}
		l.flushInline(RoleListItem)
		frame := &l.lists[len(l.lists)-1]
		if frame.ordered {
			text := fmt.Sprintf("%d. ", frame.next)
			frame.next++
			l.marker = l.styled(text, l.styles.ListMarker)
			l.markerWidth = runewidth.StringWidth(text)
		} else {
			glyph := "• "
			switch {
			case len(l.lists) == 2:
				glyph = "◦ "
			case len(l.lists) >= 3:
				glyph = "▪ "
			}
			l.marker = l.styled(glyph, l.styles.ListMarker)
			l.markerWidth = 2
		}
		frame.hang = l.markerWidth
	case ElementEmphasis:
		l.emphasis++
	case ElementStrong:
		l.strong++
	case ElementStrikethrough:
		l.strike++
	case ElementLink:
		l.links = append(l.links, linkFrame{dest: ev.Dest, spanStart: len(l.spans)})
		if l.osc8 && ev.Dest != "" {
			l.spans = append(l.spans, span{text: osc8Start + ev.Dest + "\x1b\\", raw: true})
		}
	case ElementTable:
		l.blankSep()
		l.table = &tableState{}
	case ElementTableHead, ElementTableRow:
		if l.table == nil {
			return fmt.Errorf("%w: %s outside table", ErrEventStructure, ev.Element)
		}
		l.table.cur = l.table.cur[:0]
	case ElementTableCell:
		if l.table == nil {
			return fmt.Errorf("%w: table cell outside table", ErrEventStructure)
		}
		l.inCell = true
		l.cellBuf.Reset()
	}
	return nil
}

func (l *layout) processEnd(ev *Event) error {
	switch ev.Element {
	case ElementHeading:
		if l.headingLevel == 0 {
			return fmt.Errorf("%w: end of heading without start", ErrEventStructure)
		}
		l.flushInline(RoleHeading)
		l.headingLevel = 0
	case ElementParagraph:
		l.flushInline(l.contextRole())
	case ElementBlockQuote:
		if l.quoteDepth == 0 {
			return fmt.Errorf("%w: end of blockquote without start", ErrEventStructure)
		}
		l.flushInline(RoleQuote)
		l.quoteDepth--
	case ElementCodeBlock:
		if !l.inCode {
			return fmt.Errorf("%w: end of code block without start", ErrEventStructure)
		}
		l.emitCodeBottom()
		l.inCode = false
	case ElementList:
		if len(l.lists) == 0 {
			return fmt.Errorf("%w: end of list without start", ErrEventStructure)
		}
		l.flushInline(RoleListItem)
		l.lists = l.lists[:len(l.lists)-1]
		if len(l.lists) == 0 {
			l.blankSep()
		}
	case ElementListItem:
		if len(l.lists) == 0 {
			return fmt.Errorf("%w: end of list item without start", ErrEventStructure)
		}
		l.flushInline(RoleListItem)
		if l.marker != "" {
			// Item with no inline content still shows its marker.
			l.emitMarkerOnly()
		}
	case ElementEmphasis:
		if l.emphasis == 0 {
			return fmt.Errorf("%w: end of emphasis without start", ErrEventStructure)
		}
		l.emphasis--
	case ElementStrong:
		if l.strong == 0 {
			return fmt.Errorf("%w: end of strong without start", ErrEventStructure)
		}
		l.strong--
	case ElementStrikethrough:
		if l.strike == 0 {
			return fmt.Errorf("%w: end of strikethrough without start", ErrEventStructure)
		}
		l.strike--
	case ElementLink:
		if len(l.links) == 0 {
			return fmt.Errorf("%w: end of link without start", ErrEventStructure)
		}
		frame := l.links[len(l.links)-1]
		l.links = l.links[:len(l.links)-1]
		if l.osc8 && frame.dest != "" {
			l.spans = append(l.spans, span{text: osc8End, raw: true})
		}
		if frame.dest != "" && frame.dest != l.spanText(frame.spanStart) {
			url := fitURL(frame.dest, l.width-2)
			l.spans = append(l.spans, span{text: " (" + url + ")", style: l.styles.LinkURL})
		}
	case ElementTable:
		if l.table == nil {
			return fmt.Errorf("%w: end of table without start", ErrEventStructure)
		}
		l.renderTable()
		l.table = nil
	case ElementTableHead:
		if l.table == nil {
			return fmt.Errorf("%w: end of table head without start", ErrEventStructure)
		}
		l.table.rows = append(l.table.rows, append([]string(nil), l.table.cur...))
		l.table.headerRows = 1
	case ElementTableRow:
		if l.table == nil {
			return fmt.Errorf("%w: end of table row without start", ErrEventStructure)
		}
		l.table.rows = append(l.table.rows, append([]string(nil), l.table.cur...))
	case ElementTableCell:
		return fmt.Errorf("%w: end of table cell without start", ErrEventStructure)
	}
	return nil
}

// processInCell collects a table cell as plain text; inline markup inside
// cells renders unstyled.
func (l *layout) processInCell(ev *Event) error {
	switch ev.Kind {
	case EventText, EventCode:
		l.cellBuf.WriteString(ev.Text)
	case EventSoftBreak, EventHardBreak:
		l.cellBuf.WriteByte(' ')
	case EventEnd:
		if ev.Element == ElementTableCell {
			l.inCell = false
			l.table.cur = append(l.table.cur, strings.TrimSpace(l.cellBuf.String()))
		}
	}
	return nil
}

func (l *layout) inlineStyle() Style {
	var b strings.Builder
	if l.headingLevel > 0 {
		b.WriteString(l.styles.Heading[l.headingLevel-1].Prefix)
	} else {
		b.WriteString(l.styles.Text.Prefix)
	}
	if l.strong > 0 {
		b.WriteString(l.styles.Strong.Prefix)
	}
	if l.emphasis > 0 {
		b.WriteString(l.styles.Emphasis.Prefix)
	}
	if l.strike > 0 {
		b.WriteString(l.styles.Strike.Prefix)
	}
	if len(l.links) > 0 {
		b.WriteString(l.styles.LinkText.Prefix)
	}
	return Style{Prefix: b.String()}
}

func (l *layout) codeInlineStyle() Style {
	base := l.inlineStyle()
	return Style{Prefix: base.Prefix + l.styles.CodeInline.Prefix}
}

func (l *layout) contextRole() LineRole {
	switch {
	case l.headingLevel > 0:
		return RoleHeading
	case len(l.lists) > 0:
		return RoleListItem
	case l.quoteDepth > 0:
		return RoleQuote
	default:
		return RolePlain
	}
}

// spanText concatenates the visible text of spans appended since start.
func (l *layout) spanText(start int) string {
	if start >= len(l.spans) {
		return ""
	}
	var b strings.Builder
	for _, sp := range l.spans[start:] {
		if !sp.raw {
			b.WriteString(sp.text)
		}
	}
	return b.String()
}

func (l *layout) styled(text string, st Style) string {
	if st.Prefix == "" {
		return text
	}
	return st.Prefix + text + palette.Reset
}

func (l *layout) append(line Line) {
	l.lines = append(l.lines, line)
}

// blankSep flushes pending inline content and emits one blank separator,
// collapsing consecutive separators.
func (l *layout) blankSep() {
	l.flushInline(l.contextRole())
	if n := len(l.lines); n == 0 || !l.lines[n-1].Blank() {
		l.append(Line{Role: RoleBlank})
	}
}

// prefixBase renders the quote bars and list indentation shared by every
// line of the current block, returning the prefix and its visible width.
func (l *layout) prefixBase() (string, int) {
	if l.quoteDepth == 0 && len(l.lists) == 0 {
		return "", 0
	}
	var b strings.Builder
	width := 0
	if l.quoteDepth > 0 {
		bars := strings.Repeat("│", l.quoteDepth) + " "
		b.WriteString(l.styled(bars, l.styles.Quote))
		width += l.quoteDepth + 1
	}
	if n := len(l.lists); n > 0 {
		indent := 2 * (n - 1)
		b.WriteString(spaces(indent))
		width += indent
	}
	return b.String(), width
}

// flushInline wraps and emits the pending inline run. A pending list
// marker is consumed by the first emitted line; continuation lines hang
// under the marker.
func (l *layout) flushInline(role LineRole) {
	if len(l.spans) == 0 {
		return
	}
	words := splitWords(l.spans)
	l.spans = l.spans[:0]
	if len(words) == 0 {
		return
	}

	base, baseWidth := l.prefixBase()
	marker, markerW := l.marker, l.markerWidth
	l.marker, l.markerWidth = "", 0
	if marker == "" && len(l.lists) > 0 {
		// Later lines of the same item align under the first.
		pad := l.lists[len(l.lists)-1].hang
		base += spaces(pad)
		baseWidth += pad
	}
	first := base + marker
	cont := base + spaces(markerW)
	avail := l.width - baseWidth - markerW
	if avail < 1 {
		avail = 1
	}

	if l.noWrap {
		l.scratch.Reset()
		l.scratch.WriteString(first)
		renderWords(&l.scratch, words)
		text := l.scratch.String()
		if visibleWidth(text) > l.width {
			text = ansiTruncate(text, l.width)
		}
		l.append(Line{Text: text, Role: role})
		return
	}

	rows := wrapWords(words, avail)
	if l.osc8 {
		rebalanceOSC8(rows)
	}
	for i, row := range rows {
		l.scratch.Reset()
		if i == 0 {
			l.scratch.WriteString(first)
		} else {
			l.scratch.WriteString(cont)
		}
		renderWords(&l.scratch, row)
		l.append(Line{Text: l.scratch.String(), Role: role})
	}
}

func (l *layout) emitMarkerOnly() {
	base, _ := l.prefixBase()
	l.append(Line{Text: base + l.marker, Role: RoleListItem})
	l.marker, l.markerWidth = "", 0
}

func (l *layout) emitRule() {
	base, baseWidth := l.prefixBase()
	n := l.width - baseWidth
	if n < 1 {
		n = 1
	}
	l.append(Line{Text: base + l.styled(strings.Repeat("─", n), l.styles.Rule), Role: RoleRule})
}

func (l *layout) emitCodeTop(lang string) {
	base, baseWidth := l.prefixBase()
	label := ""
	if lang != "" {
		label = "─ " + lang + " "
	}
	fill := l.width - baseWidth - 1 - runewidth.StringWidth(label)
	if fill < 0 {
		fill = 0
	}
	border := "╭" + label + strings.Repeat("─", fill)
	l.append(Line{Text: base + l.styled(border, l.styles.CodeBorder), Role: RoleCodeBlock})
}

func (l *layout) emitCodeBottom() {
	base, baseWidth := l.prefixBase()
	fill := l.width - baseWidth - 1
	if fill < 0 {
		fill = 0
	}
	border := "╰" + strings.Repeat("─", fill)
	l.append(Line{Text: base + l.styled(border, l.styles.CodeBorder), Role: RoleCodeBlock})
}

// emitCodeLine emits one source line of a code block. Code is never
// re-wrapped at word boundaries: overlong lines hard-wrap with a
// continuation indent, or truncate in no-wrap mode.
func (l *layout) emitCodeLine(text string) {
	base, baseWidth := l.prefixBase()
	border := l.styled("│ ", l.styles.CodeBorder)
	avail := l.width - baseWidth - 2
	if avail < 1 {
		avail = 1
	}
	if l.noWrap {
		l.append(Line{Text: base + border + truncateWithEllipsis(text, avail), Role: RoleCodeBlock})
		return
	}
	contAvail := avail - 2
	if contAvail < 1 {
		contAvail = 1
	}
	for i, chunk := range chunkPlain(text, avail, contAvail) {
		if i == 0 {
			l.append(Line{Text: base + border + chunk, Role: RoleCodeBlock})
		} else {
			l.append(Line{Text: base + border + "  " + chunk, Role: RoleCodeBlock})
		}
	}
}

// chunkPlain splits plain text into width-bounded chunks at character
// boundaries, first chunk at most first columns wide, the rest at most
// cont columns.
func chunkPlain(text string, first, cont int) []string {
	if text == "" {
		return []string{""}
	}
	var chunks []string
	var b strings.Builder
	limit := first
	width := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if width > 0 && width+rw > limit {
			chunks = append(chunks, b.String())
			b.Reset()
			width = 0
			limit = cont
		}
		b.WriteRune(r)
		width += rw
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
