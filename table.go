package markterm

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// tableState collects the rows of the table currently being laid out.
// Tables are sized in a second pass once every row is known.
type tableState struct {
	rows       [][]string
	cur        []string
	headerRows int
}

// renderTable runs the two-pass table layout: measure every column across
// all rows (header included), shrink proportionally when the framed total
// exceeds the content width, then emit box-drawing borders and rows with
// cells padded to their column. Header cells render bold. Cells wider
// than their column wrap onto continuation rows, or truncate with an
// ellipsis in no-wrap mode.
func (l *layout) renderTable() {
	t := l.table
	if len(t.rows) == 0 {
		return
	}

	cols := 0
	for _, row := range t.rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}

	widths := make([]int, cols)
	for _, row := range t.rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}

	base, baseWidth := l.prefixBase()
	avail := l.width - baseWidth
	shrinkColumns(widths, avail)

	l.tableBorder(base, widths, "┌", "┬", "┐")
	for rowIdx, row := range t.rows {
		l.tableRow(base, widths, row, rowIdx < t.headerRows)
		if rowIdx == t.headerRows-1 {
			l.tableBorder(base, widths, "├", "┼", "┤")
		}
	}
	l.tableBorder(base, widths, "└", "┴", "┘")
}

// shrinkColumns proportionally narrows columns until the framed table
// (borders plus one space of padding per side) fits avail columns.
func shrinkColumns(widths []int, avail int) {
	cols := len(widths)
	frame := cols + 1 + 2*cols
	cells := 0
	for _, w := range widths {
		cells += w
	}
	budget := avail - frame
	if cells <= budget {
		return
	}
	if budget < cols {
		budget = cols
	}
	for i, w := range widths {
		shrunk := w * budget / cells
		if shrunk < 1 {
			shrunk = 1
		}
		widths[i] = shrunk
	}
	// Integer rounding can leave the total above budget.
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > budget {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 1 {
			break
		}
		widths[widest]--
		total--
	}
}

// appendTableLine emits a table line. When the frame alone (borders plus
// cell padding) exceeds the content width, shrinking cells cannot help;
// the assembled line is truncated as a last resort so the width bound
// holds for every emitted line.
func (l *layout) appendTableLine(text string) {
	if visibleWidth(text) > l.width {
		text = ansiTruncate(text, l.width)
	}
	l.append(Line{Text: text, Role: RoleTableRow})
}

func (l *layout) tableBorder(base string, widths []int, left, mid, right string) {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	l.appendTableLine(base + l.styled(b.String(), l.styles.CodeBorder))
}

func (l *layout) tableRow(base string, widths []int, row []string, header bool) {
	cols := len(widths)
	cells := make([][]string, cols)
	height := 1
	for i := 0; i < cols; i++ {
		text := ""
		if i < len(row) {
			text = row[i]
		}
		if l.noWrap {
			cells[i] = []string{truncateWithEllipsis(text, widths[i])}
		} else {
			cells[i] = wrapPlain(text, widths[i])
		}
		if len(cells[i]) > height {
			height = len(cells[i])
		}
	}

	bar := l.styled("│", l.styles.CodeBorder)
	for line := 0; line < height; line++ {
		var b strings.Builder
		b.WriteString(base)
		b.WriteString(bar)
		for i := 0; i < cols; i++ {
			text := ""
			if line < len(cells[i]) {
				text = cells[i][line]
			}
			padded := text + spaces(widths[i]-runewidth.StringWidth(text))
			b.WriteByte(' ')
			if header {
				b.WriteString(l.styled(padded, l.styles.Strong))
			} else {
				b.WriteString(padded)
			}
			b.WriteByte(' ')
			b.WriteString(bar)
		}
		l.appendTableLine(b.String())
	}
}

// wrapPlain word-wraps plain text to width columns, hard-splitting tokens
// wider than the column.
func wrapPlain(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return []string{""}
	}
	var lines []string
	var b strings.Builder
	lineWidth := 0
	emit := func() {
		lines = append(lines, b.String())
		b.Reset()
		lineWidth = 0
	}
	for _, field := range fields {
		fw := runewidth.StringWidth(field)
		if fw > width {
			if lineWidth > 0 {
				emit()
			}
			chunks := chunkPlain(field, width, width)
			for _, chunk := range chunks[:len(chunks)-1] {
				lines = append(lines, chunk)
			}
			last := chunks[len(chunks)-1]
			b.WriteString(last)
			lineWidth = runewidth.StringWidth(last)
			continue
		}
		switch {
		case lineWidth == 0:
			b.WriteString(field)
			lineWidth = fw
		case lineWidth+1+fw <= width:
			b.WriteByte(' ')
			b.WriteString(field)
			lineWidth += 1 + fw
		default:
			emit()
			b.WriteString(field)
			lineWidth = fw
		}
	}
	if b.Len() > 0 || len(lines) == 0 {
		lines = append(lines, b.String())
	}
	return lines
}
