// Package chatstream consumes the normalized chat relay stream and rebuilds
// assistant messages fragment by fragment.
package chatstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/fitness-hub/core/internal/pkg/sse"
)

const readSize = 4 << 10

type lineResult int

const (
	lineSkip lineResult = iota
	lineFragment
	lineDone
	lineRetry
)

// Reader is a pull-based iterator over the text fragments of one relay
// response. Network reads need not align with lines or events: complete lines
// are processed as they arrive and a trailing partial line waits in the buffer.
//
//	r := chatstream.NewReader(resp.Body)
//	for r.Next() {
//		fmt.Print(r.Fragment())
//	}
//	if err := r.Err(); err != nil { ... }
type Reader struct {
	src     io.Reader
	buf     []byte
	scratch []byte

	putBack  string // line already pushed back once; a second parse failure drops it
	fresh    bool   // bytes arrived since the last put-back
	fragment string
	done     bool
	eof      bool
	err      error
}

func NewReader(src io.Reader) *Reader {
	return &Reader{src: src, scratch: make([]byte, readSize)}
}

// Next advances to the next fragment. It returns false once the sentinel is
// seen, the source is exhausted, or a read fails.
func (r *Reader) Next() bool {
	r.fragment = ""
	for {
		if r.done || r.err != nil {
			return false
		}
		if r.drainLines() {
			return true
		}
		if r.done {
			return false
		}
		if r.eof {
			return r.finish()
		}
		r.fill()
	}
}

// Fragment is the text produced by the last successful Next.
func (r *Reader) Fragment() string { return r.fragment }

// Done reports whether the terminal sentinel was received.
func (r *Reader) Done() bool { return r.done }

// Err returns the first non-EOF read error.
func (r *Reader) Err() error { return r.err }

// drainLines processes complete buffered lines until one yields a fragment
// (true), the sentinel is reached, or a line must wait for more data.
func (r *Reader) drainLines() bool {
	for {
		i := bytes.IndexByte(r.buf, '\n')
		if i < 0 {
			return false
		}
		line := string(r.buf[:i])
		r.buf = r.buf[i+1:]

		switch r.handle(line) {
		case lineFragment:
			return true
		case lineDone:
			r.done = true
			return false
		case lineRetry:
			if r.eof || (r.putBack == line && r.fresh) {
				r.putBack = ""
				continue
			}
			r.putBack = line
			r.fresh = false
			r.buf = append([]byte(line+"\n"), r.buf...)
			return false
		}
	}
}

// finish handles whatever is left after EOF as one final line.
func (r *Reader) finish() bool {
	if len(r.buf) == 0 {
		return false
	}
	line := string(r.buf)
	r.buf = nil
	switch r.handle(line) {
	case lineFragment:
		return true
	case lineDone:
		r.done = true
	}
	return false
}

func (r *Reader) fill() {
	n, err := r.src.Read(r.scratch)
	if n > 0 {
		r.buf = append(r.buf, r.scratch[:n]...)
		r.fresh = true
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.eof = true
			return
		}
		r.err = err
	}
}

func (r *Reader) handle(line string) lineResult {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") {
		return lineSkip
	}
	payload, ok := sse.Data(line)
	if !ok {
		return lineSkip
	}
	payload = strings.TrimSpace(payload)
	if payload == sse.Done {
		return lineDone
	}
	var ev sse.Delta
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return lineRetry
	}
	if text := ev.Text(); text != "" {
		r.fragment = text
		return lineFragment
	}
	return lineSkip
}

// Collect drains src and returns the concatenation of every fragment.
func Collect(src io.Reader) (string, error) {
	r := NewReader(src)
	var sb strings.Builder
	for r.Next() {
		sb.WriteString(r.Fragment())
	}
	return sb.String(), r.Err()
}
