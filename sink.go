package markterm

import (
	"bufio"
	"io"
)

// Sink consumes rendered lines. The Direct sink writes them straight
// through; the pager subpackage provides the interactive alternative.
type Sink interface {
	Present(lines []Line) error
}

// DirectSink writes each line followed by a newline to W.
type DirectSink struct {
	W io.Writer
}

func (s DirectSink) Present(lines []Line) error {
	bw := bufio.NewWriter(s.W)
	for _, line := range lines {
		if _, err := bw.WriteString(line.Text); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
