package markterm

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ParseError reports input the tokenizer could not turn into an event
// stream. No partial event sequence accompanies it.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %s", e.Msg)
}

var tokenizer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Tokenize parses CommonMark+GFM source into the flat structural event
// stream consumed by the layout engine. Events appear in document order;
// every EventStart is matched by an EventEnd of the same element.
func Tokenize(source []byte) ([]Event, error) {
	root := tokenizer.Parser().Parse(text.NewReader(source))
	events := make([]Event, 0, 256)
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Document:
			return ast.WalkContinue, nil
		case *ast.Heading:
			if entering {
				events = append(events, Event{Kind: EventStart, Element: ElementHeading, Level: node.Level})
			} else {
				events = append(events, end(ElementHeading))
			}
		case *ast.Paragraph:
			if entering {
				events = append(events, start(ElementParagraph))
			} else {
				events = append(events, end(ElementParagraph))
			}
		case *ast.TextBlock:
			// Tight list item content; the surrounding list item frame
			// already delimits it.
			return ast.WalkContinue, nil
		case *ast.Blockquote:
			if entering {
				events = append(events, start(ElementBlockQuote))
			} else {
				events = append(events, end(ElementBlockQuote))
			}
		case *ast.FencedCodeBlock:
			if entering {
				lang := ""
				if l := node.Language(source); l != nil {
					lang = string(l)
				}
				events = append(events, Event{Kind: EventStart, Element: ElementCodeBlock, Lang: lang})
				events = appendCodeLines(events, node, source)
				return ast.WalkSkipChildren, nil
			}
			events = append(events, end(ElementCodeBlock))
		case *ast.CodeBlock:
			if entering {
				events = append(events, Event{Kind: EventStart, Element: ElementCodeBlock})
				events = appendCodeLines(events, node, source)
				return ast.WalkSkipChildren, nil
			}
			events = append(events, end(ElementCodeBlock))
		case *ast.List:
			if entering {
				ev := Event{Kind: EventStart, Element: ElementList, Ordered: node.IsOrdered(), Start: 1}
				if node.IsOrdered() && node.Start > 0 {
					ev.Start = node.Start
				}
				events = append(events, ev)
			} else {
				events = append(events, end(ElementList))
			}
		case *ast.ListItem:
			if entering {
				events = append(events, start(ElementListItem))
			} else {
				events = append(events, end(ElementListItem))
			}
		case *ast.ThematicBreak:
			if entering {
				events = append(events, Event{Kind: EventRule})
			}
		case *ast.Text:
			if entering {
				events = append(events, Event{Kind: EventText, Text: string(node.Segment.Value(source))})
				if node.HardLineBreak() {
					events = append(events, Event{Kind: EventHardBreak})
				} else if node.SoftLineBreak() {
					events = append(events, Event{Kind: EventSoftBreak})
				}
			}
		case *ast.String:
			if entering {
				events = append(events, Event{Kind: EventText, Text: string(node.Value)})
			}
		case *ast.Emphasis:
			el := ElementEmphasis
			if node.Level >= 2 {
				el = ElementStrong
			}
			if entering {
				events = append(events, start(el))
			} else {
				events = append(events, end(el))
			}
		case *east.Strikethrough:
			if entering {
				events = append(events, start(ElementStrikethrough))
			} else {
				events = append(events, end(ElementStrikethrough))
			}
		case *ast.CodeSpan:
			if entering {
				events = append(events, Event{Kind: EventCode, Text: codeSpanText(node, source)})
				return ast.WalkSkipChildren, nil
			}
		case *ast.Link:
			if entering {
				events = append(events, Event{Kind: EventStart, Element: ElementLink, Dest: string(node.Destination)})
			} else {
				events = append(events, end(ElementLink))
			}
		case *ast.AutoLink:
			if entering {
				url := string(node.URL(source))
				events = append(events,
					Event{Kind: EventStart, Element: ElementLink, Dest: url},
					Event{Kind: EventText, Text: string(node.Label(source))},
					end(ElementLink))
				return ast.WalkSkipChildren, nil
			}
		case *east.TaskCheckBox:
			if entering {
				events = append(events, Event{Kind: EventTaskMarker, Checked: node.IsChecked})
			}
		case *east.Table:
			if entering {
				events = append(events, start(ElementTable))
			} else {
				events = append(events, end(ElementTable))
			}
		case *east.TableHeader:
			if entering {
				events = append(events, start(ElementTableHead))
			} else {
				events = append(events, end(ElementTableHead))
			}
		case *east.TableRow:
			if entering {
				events = append(events, start(ElementTableRow))
			} else {
				events = append(events, end(ElementTableRow))
			}
		case *east.TableCell:
			if entering {
				events = append(events, start(ElementTableCell))
			} else {
				events = append(events, end(ElementTableCell))
			}
		case *ast.Image, *ast.HTMLBlock, *ast.RawHTML:
			// Out of scope; neither the element nor its children render.
			if entering {
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	return events, nil
}

func appendCodeLines(events []Event, node ast.Node, source []byte) []Event {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := bytes.TrimRight(seg.Value(source), "\n")
		events = append(events, Event{Kind: EventCode, Text: string(line)})
	}
	return events
}

func codeSpanText(node *ast.CodeSpan, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}
