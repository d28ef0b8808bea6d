package llm

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// doneSentinel terminates an event stream; it is never valid JSON.
const doneSentinel = "[DONE]"

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamDecoder turns a text/event-stream response body into an ordered
// sequence of content deltas. Lines without the "data: " prefix are skipped,
// the [DONE] sentinel ends the stream, and lines that fail to parse as JSON
// are dropped silently: a frame split across network chunks shows up as a
// truncated line and losing it is preferable to failing the whole stream.
// Consumption is strictly sequential; a decoder cannot be rewound or reused.
type StreamDecoder struct {
	scanner *bufio.Scanner
	done    bool
}

// NewStreamDecoder wraps the given stream body. The underlying bufio layer
// reassembles lines from arbitrary byte chunks, so multi-byte characters that
// straddle a chunk boundary come through intact.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &StreamDecoder{scanner: sc}
}

// Next returns the next non-empty content delta. ok is false once the stream
// has ended, either via the [DONE] sentinel, the body closing, or a read
// failure; check Err to tell a broken transport from a clean end.
func (d *StreamDecoder) Next() (delta string, ok bool) {
	if d.done {
		return "", false
	}
	for d.scanner.Scan() {
		line := d.scanner.Text()
		payload, found := strings.CutPrefix(line, "data: ")
		if !found {
			continue
		}
		if strings.TrimSpace(payload) == doneSentinel {
			d.done = true
			return "", false
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if c := chunk.Choices[0].Delta.Content; c != "" {
			return c, true
		}
	}
	d.done = true
	return "", false
}

// Err reports the read error that ended the stream, if any. It is nil after
// a clean end: the [DONE] sentinel or EOF.
func (d *StreamDecoder) Err() error {
	return d.scanner.Err()
}
