// Package sse holds the server-sent-events framing shared by the chat relay
// and the client-side stream consumer.
package sse

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// ContentType is the media type of every relay response body.
	ContentType = "text/event-stream"
	// Done is the terminal sentinel payload.
	Done = "[DONE]"

	dataField = "data:"
)

// Delta is the normalized event shape: {"choices":[{"delta":{"content":"..."}}]}.
type Delta struct {
	Choices []DeltaChoice `json:"choices"`
}

type DeltaChoice struct {
	Delta DeltaContent `json:"delta"`
}

type DeltaContent struct {
	Content string `json:"content"`
}

// NewDelta wraps a text fragment in the normalized event shape.
func NewDelta(content string) Delta {
	return Delta{Choices: []DeltaChoice{{Delta: DeltaContent{Content: content}}}}
}

// Text returns choices[0].delta.content, or "" when absent.
func (d Delta) Text() string {
	if len(d.Choices) == 0 {
		return ""
	}
	return d.Choices[0].Delta.Content
}

// Data extracts the payload of a "data:" line. A single space after the colon
// is part of the field separator and is removed. ok is false for any other line.
func Data(line string) (payload string, ok bool) {
	if !strings.HasPrefix(line, dataField) {
		return "", false
	}
	payload = strings.TrimPrefix(line, dataField)
	payload = strings.TrimPrefix(payload, " ")
	return payload, true
}

// LineReader yields upstream lines one at a time with the line terminator
// (\n or \r\n) removed. It never buffers more than the current line.
type LineReader struct {
	br *bufio.Reader
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{br: bufio.NewReaderSize(r, 64<<10)}
}

// ReadLine returns the next line. A final unterminated line is returned
// together with a nil error; io.EOF is returned once nothing is left.
func (l *LineReader) ReadLine() (string, error) {
	line, err := l.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Writer emits events to an HTTP response and flushes after each one.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter fails when w cannot flush, since the relay must never buffer a response.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("sse: response writer does not support flushing")
	}
	return &Writer{w: w, flusher: f}, nil
}

// WriteData writes "data: <payload>\n\n" and flushes.
func (w *Writer) WriteData(payload string) error {
	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}

// WriteDelta encodes a normalized event carrying content.
func (w *Writer) WriteDelta(content string) error {
	b, err := json.Marshal(NewDelta(content))
	if err != nil {
		return err
	}
	return w.WriteData(string(b))
}

// WriteDone writes the terminal sentinel.
func (w *Writer) WriteDone() error {
	return w.WriteData(Done)
}
