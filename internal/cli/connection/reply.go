package connection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxReplyDepth bounds array nesting in a reply.
const maxReplyDepth = 32

// ErrInvalidReply reports a reply that does not follow the wire grammar.
var ErrInvalidReply = errors.New("connection: invalid reply")

// Kind identifies the type of a Reply.
type Kind int

const (
	KindStatus Kind = iota
	KindError
	KindInteger
	KindBulk
	KindNil
	KindArray
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindNil:
		return "nil"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Reply is one decoded server reply.
type Reply struct {
	Kind Kind
	// Str holds the text of status, error and bulk replies.
	Str string
	// Int holds the value of integer replies.
	Int int64
	// Elems holds the elements of array replies.
	Elems []Reply
}

// IsError reports whether r is an error reply.
func (r Reply) IsError() bool {
	return r.Kind == KindError
}

// ReadReply reads exactly one reply from br.
func ReadReply(br *bufio.Reader) (Reply, error) {
	return readReply(br, 0)
}

func readReply(br *bufio.Reader, depth int) (Reply, error) {
	if depth > maxReplyDepth {
		return Reply{}, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidReply, maxReplyDepth)
	}

	line, err := readLine(br)
	if err != nil {
		return Reply{}, err
	}
	if len(line) == 0 {
		return Reply{}, fmt.Errorf("%w: empty line", ErrInvalidReply)
	}

	body := line[1:]
	switch line[0] {
	case '+':
		return Reply{Kind: KindStatus, Str: body}, nil
	case '-':
		return Reply{Kind: KindError, Str: body}, nil
	case ':':
		n, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return Reply{}, fmt.Errorf("%w: bad integer %q", ErrInvalidReply, body)
		}
		return Reply{Kind: KindInteger, Int: n}, nil
	case '$':
		n, err := strconv.Atoi(body)
		if err != nil || n < -1 {
			return Reply{}, fmt.Errorf("%w: bad bulk length %q", ErrInvalidReply, body)
		}
		if n == -1 {
			return Reply{Kind: KindNil}, nil
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(br, buf); err != nil {
			return Reply{}, err
		}
		if buf[n] != '\r' || buf[n+1] != '\n' {
			return Reply{}, fmt.Errorf("%w: bulk payload not terminated", ErrInvalidReply)
		}
		return Reply{Kind: KindBulk, Str: string(buf[:n])}, nil
	case '*':
		n, err := strconv.Atoi(body)
		if err != nil || n < -1 {
			return Reply{}, fmt.Errorf("%w: bad array length %q", ErrInvalidReply, body)
		}
		if n == -1 {
			return Reply{Kind: KindNil}, nil
		}
		elems := make([]Reply, 0, n)
		for i := 0; i < n; i++ {
			e, err := readReply(br, depth+1)
			if err != nil {
				return Reply{}, err
			}
			elems = append(elems, e)
		}
		return Reply{Kind: KindArray, Elems: elems}, nil
	default:
		return Reply{}, fmt.Errorf("%w: unknown type byte %q", ErrInvalidReply, line[0])
	}
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	if !strings.HasSuffix(line, "\r\n") {
		return "", fmt.Errorf("%w: line not terminated by CRLF", ErrInvalidReply)
	}
	return line[:len(line)-2], nil
}
