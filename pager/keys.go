package pager

import "bufio"

type keyKind int

const (
	keyUnknown keyKind = iota
	keyLineDown
	keyLineUp
	keyPageDown
	keyPageUp
	keyHalfDown
	keyHalfUp
	keyHome
	keyEnd
	keyQuit
)

// readKey decodes one key press from a raw-mode terminal. Escape
// sequences are consumed whole so arrow and navigation keys arrive as
// single events.
func readKey(r *bufio.Reader) (keyKind, error) {
	b, err := r.ReadByte()
	if err != nil {
		return keyUnknown, err
	}
	switch b {
	case 0x1b:
		return parseEscapeSequence(r)
	case ' ':
		return keyPageDown, nil
	case 'b', 'B':
		return keyPageUp, nil
	case '\r', '\n', 'j', 'J':
		return keyLineDown, nil
	case 'k', 'K':
		return keyLineUp, nil
	case 'd', 0x04:
		return keyHalfDown, nil
	case 'u', 0x15:
		return keyHalfUp, nil
	case 'g':
		return keyHome, nil
	case 'G':
		return keyEnd, nil
	case 'q', 'Q', 0x03:
		return keyQuit, nil
	}
	return keyUnknown, nil
}

func parseEscapeSequence(r *bufio.Reader) (keyKind, error) {
	if r.Buffered() == 0 {
		return keyQuit, nil
	}
	next, err := r.ReadByte()
	if err != nil {
		return keyQuit, nil
	}
	switch next {
	case '[':
		return parseCSI(r)
	case 'O':
		final, err := r.ReadByte()
		if err != nil {
			return keyQuit, nil
		}
		switch final {
		case 'H':
			return keyHome, nil
		case 'F':
			return keyEnd, nil
		}
		return keyUnknown, nil
	default:
		return keyQuit, nil
	}
}

func parseCSI(r *bufio.Reader) (keyKind, error) {
	var seq []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return keyQuit, nil
		}
		seq = append(seq, b)
		if (b >= 'A' && b <= 'Z') || b == '~' {
			break
		}
		if len(seq) > 5 {
			return keyUnknown, nil
		}
	}
	switch seq[len(seq)-1] {
	case 'A':
		return keyLineUp, nil
	case 'B':
		return keyLineDown, nil
	case 'H':
		return keyHome, nil
	case 'F':
		return keyEnd, nil
	case '~':
		switch string(seq[:len(seq)-1]) {
		case "5":
			return keyPageUp, nil
		case "6":
			return keyPageDown, nil
		case "1":
			return keyHome, nil
		case "4":
			return keyEnd, nil
		}
	}
	return keyUnknown, nil
}
