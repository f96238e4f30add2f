package resp

import (
	"bufio"
	"io"
	"strconv"
)

var crlf = []byte("\r\n")

// maxScratch caps the encode buffer kept between calls.
const maxScratch = 1 << 20

// Encode returns the wire representation of v. A nil v encodes as Null.
func Encode(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the wire representation of v to dst.
func AppendValue(dst []byte, v Value) []byte {
	switch v := v.(type) {
	case SimpleString:
		dst = append(dst, TagSimpleString)
		dst = appendLine(dst, string(v))
		return append(dst, crlf...)
	case Error:
		dst = append(dst, TagError)
		dst = appendLine(dst, string(v))
		return append(dst, crlf...)
	case Integer:
		dst = append(dst, TagInteger)
		dst = strconv.AppendInt(dst, int64(v), 10)
		return append(dst, crlf...)
	case BulkString:
		// len of a Go string is its byte length.
		dst = append(dst, TagBulkString)
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, v...)
		return append(dst, crlf...)
	case Array:
		dst = append(dst, TagArray)
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, crlf...)
		for _, item := range v {
			dst = AppendValue(dst, item)
		}
		return dst
	default:
		return append(dst, "$-1\r\n"...)
	}
}

// appendLine appends s with CR and LF replaced by spaces so a simple
// string or error always occupies exactly one line on the wire.
func appendLine(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		switch b := s[i]; b {
		case '\r', '\n':
			dst = append(dst, ' ')
		default:
			dst = append(dst, b)
		}
	}
	return dst
}

// Encoder writes RESP values to a buffered stream.
type Encoder struct {
	bw      *bufio.Writer
	scratch []byte
}

// NewEncoder returns an Encoder writing to w. If w is already a
// *bufio.Writer it is used directly.
func NewEncoder(w io.Writer) *Encoder {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &Encoder{bw: bw}
}

// Encode buffers the encoding of v. Call Flush to send it.
func (e *Encoder) Encode(v Value) error {
	e.scratch = AppendValue(e.scratch[:0], v)
	_, err := e.bw.Write(e.scratch)
	if cap(e.scratch) > maxScratch {
		e.scratch = nil
	}
	return err
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	return e.bw.Flush()
}

// Buffered returns the number of bytes waiting to be flushed.
func (e *Encoder) Buffered() int {
	return e.bw.Buffered()
}
