package crawler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

// Style block markers, matched as plain case-insensitive substrings.
// Treating them as substrings rather than parsed tags keeps the filter
// working on malformed markup, matching the extractor's philosophy.
const (
	styleOpen  = "<style"
	styleClose = "</style>"
)

// DefaultLineDelay is the pause after each emitted line. It simulates
// a streaming read; correctness does not depend on it.
const DefaultLineDelay = 5 * time.Millisecond

// Streamer writes page text to an output sink line by line while
// suppressing everything between a <style> open marker and its close
// marker, across line boundaries.
type Streamer struct {
	// out receives the emitted lines.
	out io.Writer

	// delay is the pause after each emitted line. Zero disables pacing.
	delay time.Duration
}

// StreamerOption configures a Streamer.
type StreamerOption func(*Streamer)

// WithLineDelay sets the per-line emission delay.
// A delay of zero emits as fast as the sink accepts.
func WithLineDelay(d time.Duration) StreamerOption {
	return func(s *Streamer) {
		s.delay = d
	}
}

// NewStreamer creates a Streamer writing to out.
func NewStreamer(out io.Writer, opts ...StreamerOption) *Streamer {
	s := &Streamer{
		out:   out,
		delay: DefaultLineDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Stream emits the page text to the output sink, framed by a visiting
// banner. Blank lines are never emitted. The style-skip state is reset
// per call; a page ending inside an unterminated style block does not
// leak that state into the next page.
//
// The state machine runs once per line. A line that both opens and
// closes a style block is handled as a single transition: only the
// trimmed remainder after the LAST close marker is emitted, so any
// text before the open marker on that line is dropped. That asymmetry
// is intentional and kept as-is.
func (s *Streamer) Stream(ctx context.Context, pageURL, text string) error {
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "[VISITING] %s\n", pageURL)
	fmt.Fprintln(s.out, rule)

	inStyle := false

	for _, raw := range splitLines(text) {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if line == "" {
			continue
		}

		if !inStyle && containsFold(line, styleOpen) {
			inStyle = true
			if pos := lastIndexFold(line, styleClose); pos >= 0 {
				inStyle = false
				if err := s.emitRemainder(ctx, line, pos); err != nil {
					return err
				}
			}
			continue
		}

		if inStyle {
			if pos := lastIndexFold(line, styleClose); pos >= 0 {
				inStyle = false
				if err := s.emitRemainder(ctx, line, pos); err != nil {
					return err
				}
			}
			continue
		}

		if err := s.emit(ctx, line); err != nil {
			return err
		}
	}

	fmt.Fprintln(s.out, "\n[END OF PAGE]")
	fmt.Fprintln(s.out)
	return nil
}

// emitRemainder emits the trimmed text after a close marker found at
// pos, if any text is left.
func (s *Streamer) emitRemainder(ctx context.Context, line string, pos int) error {
	after := strings.TrimSpace(line[pos+len(styleClose):])
	if after == "" {
		return nil
	}
	return s.emit(ctx, after)
}

// emit writes one line and applies the pacing delay. Cancellation cuts
// the delay short so an interrupt never waits on pacing.
func (s *Streamer) emit(ctx context.Context, line string) error {
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return err
	}
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}

// splitLines splits text on \n, \r\n, and lone \r line breaks.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}

	return lines
}

// containsFold reports whether s contains substr, ignoring ASCII case.
func containsFold(s, substr string) bool {
	return indexFold(s, substr) >= 0
}

// indexFold returns the first case-insensitive occurrence of substr
// in s, or -1. substr is expected to be ASCII.
func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// lastIndexFold returns the last case-insensitive occurrence of substr
// in s, or -1. substr is expected to be ASCII.
func lastIndexFold(s, substr string) int {
	for i := len(s) - len(substr); i >= 0; i-- {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
