package redisserver

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
)

// Reply is a structured command result. The concrete types are
// SimpleStatus, ErrorStatus, Integer, BulkString and Array.
type Reply interface {
	reply()
}

// SimpleStatus is a "+<text>" status reply.
type SimpleStatus string

// ErrorStatus is a "-<text>" error reply.
type ErrorStatus string

// Integer is a ":<n>" integer reply.
type Integer int64

// BulkString is a length-prefixed byte string, or the null bulk reply.
type BulkString struct {
	Value []byte
	Null  bool
}

// Array is a "*<n>" reply followed by its elements.
type Array []Reply

func (SimpleStatus) reply() {}
func (ErrorStatus) reply()  {}
func (Integer) reply()      {}
func (BulkString) reply()   {}
func (Array) reply()        {}

// Bulk returns a non-null bulk reply holding b.
func Bulk(b []byte) BulkString {
	return BulkString{Value: b}
}

// NullBulk is the "$-1" reply.
var NullBulk = BulkString{Null: true}

// Common replies.
var (
	replyOK            = SimpleStatus("OK")
	replyPong          = SimpleStatus("PONG")
	replyProtocolError = ErrorStatus("ERR protocol error")
)

// WriteReply serializes r to w.
func WriteReply(w *bufio.Writer, r Reply) error {
	switch v := r.(type) {
	case SimpleStatus:
		return WriteSimpleString(w, string(v))
	case ErrorStatus:
		return WriteError(w, string(v))
	case Integer:
		return WriteInteger(w, int64(v))
	case BulkString:
		if v.Null {
			return WriteNullBulk(w)
		}
		return WriteBulk(w, v.Value)
	case Array:
		if err := WriteArrayHeader(w, len(v)); err != nil {
			return err
		}
		for _, elem := range v {
			if err := WriteReply(w, elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("redisserver: unsupported reply type %T", r)
	}
}

// Encode returns the wire bytes for r.
func Encode(r Reply) ([]byte, error) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := WriteReply(w, r); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteSimpleString(w *bufio.Writer, s string) error {
	_, err := w.WriteString("+" + s + "\r\n")
	return err
}

func WriteError(w *bufio.Writer, s string) error {
	_, err := w.WriteString("-" + s + "\r\n")
	return err
}

func WriteInteger(w *bufio.Writer, n int64) error {
	_, err := w.WriteString(":" + strconv.FormatInt(n, 10) + "\r\n")
	return err
}

func WriteNullBulk(w *bufio.Writer) error {
	_, err := w.WriteString("$-1\r\n")
	return err
}

// WriteBulk writes b as a bulk string. The length prefix counts bytes,
// so multi-byte text is measured correctly. A nil b is written as an
// empty string, not as the null bulk reply.
func WriteBulk(w *bufio.Writer, b []byte) error {
	if _, err := w.WriteString("$" + strconv.Itoa(len(b)) + "\r\n"); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err := w.WriteString("\r\n")
	return err
}

func WriteArrayHeader(w *bufio.Writer, n int) error {
	_, err := w.WriteString("*" + strconv.Itoa(n) + "\r\n")
	return err
}
