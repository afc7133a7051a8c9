package redisserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// maxDepth bounds array nesting inside a single request.
const maxDepth = 32

var (
	// ErrMalformed reports a value that could not be parsed (bad count,
	// premature end of input). Requests failing this way are dropped
	// without a reply.
	ErrMalformed = errors.New("resp: malformed frame")

	// ErrProtocol reports a well-formed value that is not a valid request,
	// e.g. an array containing a null or nested array. The connection
	// answers it with a protocol error reply.
	ErrProtocol = errors.New("resp: protocol error")
)

var crlf = []byte("\r\n")

// Frame is one decoded client request: command name followed by arguments.
type Frame [][]byte

// Kind identifies the shape of a decoded Value.
type Kind int

const (
	KindString Kind = iota
	KindNull
	KindArray
)

// Value is a decoded protocol value.
type Value struct {
	Kind  Kind
	Str   []byte
	Elems []Value
}

// parser walks CRLF-delimited lines with an explicit cursor.
type parser struct {
	lines [][]byte
	pos   int
}

func newParser(buf []byte) *parser {
	lines := bytes.Split(buf, crlf)
	// A buffer ending in CRLF leaves an empty trailing element.
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	return &parser{lines: lines}
}

func (p *parser) done() bool {
	return p.pos >= len(p.lines)
}

func (p *parser) readLine() ([]byte, bool) {
	if p.done() {
		return nil, false
	}
	line := p.lines[p.pos]
	p.pos++
	return line, true
}

func (p *parser) parseValue(depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, fmt.Errorf("%w: nesting deeper than %d", ErrMalformed, maxDepth)
	}

	line, ok := p.readLine()
	if !ok {
		return Value{}, fmt.Errorf("%w: unexpected end of input", ErrMalformed)
	}
	if len(line) == 0 {
		return Value{Kind: KindNull}, nil
	}

	switch line[0] {
	case '*':
		n, err := strconv.Atoi(string(line[1:]))
		if err != nil || n < 0 {
			return Value{}, fmt.Errorf("%w: invalid array length %q", ErrMalformed, line[1:])
		}
		elems := make([]Value, 0, min(n, len(p.lines)-p.pos))
		for i := 0; i < n; i++ {
			v, err := p.parseValue(depth + 1)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Value{Kind: KindArray, Elems: elems}, nil

	case '$':
		// Only "$-1" is the null bulk. Any other header, numeric or not,
		// introduces a payload on the next line whose length is not checked.
		if string(line[1:]) == "-1" {
			return Value{Kind: KindNull}, nil
		}
		payload, ok := p.readLine()
		if !ok {
			return Value{}, fmt.Errorf("%w: missing bulk payload", ErrMalformed)
		}
		return Value{Kind: KindString, Str: payload}, nil

	default:
		// Inline token: everything after the type marker.
		return Value{Kind: KindString, Str: line[1:]}, nil
	}
}

// Decoder yields the request frames contained in one inbound buffer.
type Decoder struct {
	p *parser
}

// NewDecoder returns a Decoder over buf. buf must hold complete frames;
// a frame split across buffers decodes as malformed.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{p: newParser(buf)}
}

// Next returns the next request frame.
//
// It returns io.EOF once the buffer is exhausted. An ErrMalformed error
// ends decoding of the buffer; an ErrProtocol error only skips the
// offending value, and Next may be called again. Top-level values that
// are not non-empty arrays are skipped silently.
func (d *Decoder) Next() (Frame, error) {
	for {
		if d.p.done() {
			return nil, io.EOF
		}

		v, err := d.p.parseValue(0)
		if err != nil {
			d.p.pos = len(d.p.lines)
			return nil, err
		}

		if v.Kind != KindArray || len(v.Elems) == 0 {
			continue
		}

		frame := make(Frame, len(v.Elems))
		for i, e := range v.Elems {
			if e.Kind != KindString {
				return nil, fmt.Errorf("%w: argument %d is not a string", ErrProtocol, i)
			}
			frame[i] = e.Str
		}
		return frame, nil
	}
}

// DecodeFrames decodes every frame in buf. It stops at the first
// malformed value and returns the frames decoded before it together with
// the error. Values rejected with ErrProtocol are skipped.
func DecodeFrames(buf []byte) ([]Frame, error) {
	var frames []Frame
	d := NewDecoder(buf)
	for {
		f, err := d.Next()
		switch {
		case err == nil:
			frames = append(frames, f)
		case errors.Is(err, io.EOF):
			return frames, nil
		case errors.Is(err, ErrProtocol):
			continue
		default:
			return frames, err
		}
	}
}

// normalizeCommandName uppercases an ASCII command name.
func normalizeCommandName(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// Uppercase ASCII without allocating for already uppercased tokens.
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return string(bytes.ToUpper(b))
	}
	return string(b)
}
