package markterm

import "bytes"

// stripFrontMatter drops a leading metadata block (`---`, `+++` or `;;;`
// fenced) from a fully buffered document. Front matter is only recognized
// at the very start; an unclosed fence or a fence without metadata-like
// content is left untouched.
func stripFrontMatter(src []byte) []byte {
	openLine, openNext := nextLine(src, 0)
	delim, ok := parseOpeningFrontMatterDelimiter(openLine)
	if !ok {
		return src
	}
	secondLine, secondNext := nextLine(src, openNext)
	if !frontMatterMetadataLikely(secondLine) {
		return src
	}
	closeNext, found := findClosingFrontMatterDelimiter(src, secondNext, delim)
	if !found {
		return src
	}
	return src[closeNext:]
}

func nextLine(src []byte, start int) ([]byte, int) {
	if start >= len(src) {
		return nil, len(src)
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src)
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	if bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("=")) {
		return true
	}
	return false
}

func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, bool) {
	for idx := start; idx < len(src); {
		line, next := nextLine(src, idx)
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next, true
		}
		if next <= idx {
			return 0, false
		}
		idx = next
	}
	return 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
