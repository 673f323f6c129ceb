// Package markterm renders Markdown to ANSI for terminal display.
//
// A complete document goes in, a flat sequence of display lines comes
// out. Tokenizing, styling and layout happen in one pass; every line is
// already wrapped to the content width, so sinks never reflow. Output is
// presented either directly or through the pager subpackage.
//
// Core properties:
//   - Single-pass layout over a goldmark event stream
//   - Lines bound by the derived content width
//   - Theme-driven styling via ANSI prefixes
//   - Optional OSC 8 hyperlinks
//
// Example:
//
//	lines, err := markterm.Render(markterm.RenderRequest{
//		Source: []byte("# Hello\n\nMarkdown in, ANSI out.\n"),
//		Width:  80,
//		Theme:  markterm.DefaultTheme(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	markterm.DirectSink{W: os.Stdout}.Present(lines)
package markterm
