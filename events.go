package markterm

// EventKind discriminates the variants of an Event.
type EventKind uint8

const (
	// EventStart opens a structural element.
	EventStart EventKind = iota
	// EventEnd closes the most recent unmatched EventStart of the same element.
	EventEnd
	// EventText carries inline text.
	EventText
	// EventCode carries inline code or one line of a code block.
	EventCode
	// EventSoftBreak is a soft line break inside a paragraph.
	EventSoftBreak
	// EventHardBreak forces a line break inside a paragraph.
	EventHardBreak
	// EventRule is a thematic break.
	EventRule
	// EventTaskMarker is a task-list checkbox preceding list item content.
	EventTaskMarker
)

// ElementKind identifies the structural element of a Start/End event.
type ElementKind uint8

const (
	ElementHeading ElementKind = iota
	ElementParagraph
	ElementBlockQuote
	ElementCodeBlock
	ElementList
	ElementListItem
	ElementEmphasis
	ElementStrong
	ElementStrikethrough
	ElementLink
	ElementTable
	ElementTableHead
	ElementTableRow
	ElementTableCell
)

func (k ElementKind) String() string {
	switch k {
	case ElementHeading:
		return "heading"
	case ElementParagraph:
		return "paragraph"
	case ElementBlockQuote:
		return "blockquote"
	case ElementCodeBlock:
		return "codeblock"
	case ElementList:
		return "list"
	case ElementListItem:
		return "listitem"
	case ElementEmphasis:
		return "emphasis"
	case ElementStrong:
		return "strong"
	case ElementStrikethrough:
		return "strikethrough"
	case ElementLink:
		return "link"
	case ElementTable:
		return "table"
	case ElementTableHead:
		return "tablehead"
	case ElementTableRow:
		return "tablerow"
	case ElementTableCell:
		return "tablecell"
	}
	return "unknown"
}

// Event is one entry of the flat structural stream the tokenizer produces
// and the layout engine consumes. Attribute fields are populated per kind:
// Level for headings, Ordered/Start for lists, Lang for fenced code blocks,
// Dest for links, Checked for task markers.
type Event struct {
	Kind    EventKind
	Element ElementKind
	Text    string
	Level   int
	Ordered bool
	Start   int
	Lang    string
	Dest    string
	Checked bool
}

func start(el ElementKind) Event { return Event{Kind: EventStart, Element: el} }
func end(el ElementKind) Event   { return Event{Kind: EventEnd, Element: el} }
