package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxHeaderLen bounds a "$<n>" or "*<n>" length field, excluding CRLF.
const maxHeaderLen = 20

// bulkPreallocLimit is the largest bulk body allocated up front; larger
// bodies grow as bytes actually arrive.
const bulkPreallocLimit = 64 * 1024

var (
	errLineTooLong = errors.New("line too long")
	errMissingCR   = errors.New("missing CR before LF")
)

// Decoder reads RESP values from a byte stream.
type Decoder struct {
	br     *bufio.Reader
	limits Limits
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLimits sets the decode limits. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(d *Decoder) {
		d.limits = l.withDefaults()
	}
}

// NewDecoder returns a Decoder reading from r. If r is already a
// *bufio.Reader it is used directly.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	d := &Decoder{
		br:     br,
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads exactly one complete value and leaves the stream positioned
// immediately after it.
//
// It returns io.EOF, unwrapped, only when the stream ends before the first
// byte of the value. Malformed input yields an error wrapping ErrProtocol.
// Other I/O errors (timeouts, resets) are returned as is.
func (d *Decoder) Decode() (Value, error) {
	return d.decode(0)
}

// Decode reads one value from r with default limits.
func Decode(r io.Reader) (Value, error) {
	return NewDecoder(r).Decode()
}

func (d *Decoder) decode(depth int) (Value, error) {
	tag, err := d.br.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if depth == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: expected array element", ErrStreamClosed)
		}
		return nil, err
	}

	switch tag {
	case TagSimpleString:
		s, err := d.readText()
		if err != nil {
			return nil, err
		}
		return SimpleString(s), nil
	case TagError:
		s, err := d.readText()
		if err != nil {
			return nil, err
		}
		return Error(s), nil
	case TagInteger:
		s, err := d.readText()
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedInteger, s)
		}
		return Integer(n), nil
	case TagBulkString:
		return d.readBulk()
	case TagArray:
		return d.readArray(depth)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, tag)
	}
}

func (d *Decoder) readArray(depth int) (Value, error) {
	n, err := d.readLength(d.limits.MaxArrayLen)
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return Null{}, nil
	}
	if n == 0 {
		return Array{}, nil
	}
	if depth+1 > d.limits.MaxDepth {
		return nil, fmt.Errorf("%w: nesting depth exceeds %d", ErrLimitExceeded, d.limits.MaxDepth)
	}

	out := make(Array, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		v, err := d.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Decoder) readBulk() (Value, error) {
	n, err := d.readLength(d.limits.MaxBulkLen)
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return Null{}, nil
	}

	var body []byte
	if n+2 <= bulkPreallocLimit {
		body = make([]byte, n+2)
		if _, err := io.ReadFull(d.br, body); err != nil {
			return nil, d.bodyErr(err, n)
		}
	} else {
		var buf bytes.Buffer
		buf.Grow(bulkPreallocLimit)
		if _, err := io.CopyN(&buf, d.br, int64(n+2)); err != nil {
			return nil, d.bodyErr(err, n)
		}
		body = buf.Bytes()
	}

	if body[n] != '\r' || body[n+1] != '\n' {
		return nil, fmt.Errorf("%w: bulk string of length %d not followed by CRLF", ErrInvalidTerminator, n)
	}
	return BulkString(body[:n]), nil
}

func (d *Decoder) bodyErr(err error, n int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: expected %d bytes", ErrTruncated, n)
	}
	return err
}

// readLength reads a "<digits>\r\n" length field. The null sentinel -1 is
// returned as is; any other negative or non-decimal value is malformed.
func (d *Decoder) readLength(max int) (int, error) {
	line, err := d.readLine(maxHeaderLen)
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return 0, fmt.Errorf("%w: in length field", ErrStreamClosed)
		case errors.Is(err, errLineTooLong), errors.Is(err, errMissingCR):
			return 0, fmt.Errorf("%w: unterminated length field", ErrMalformedLength)
		default:
			return 0, err
		}
	}

	if len(line) == 0 {
		return 0, fmt.Errorf("%w: empty length field", ErrMalformedLength)
	}
	if len(line) == 2 && line[0] == '-' && line[1] == '1' {
		return -1, nil
	}

	n := 0
	for _, c := range line {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedLength, line)
		}
		n = n*10 + int(c-'0')
		if n > max {
			return 0, fmt.Errorf("%w: length exceeds %d", ErrLimitExceeded, max)
		}
	}
	return n, nil
}

// readText reads a CRLF-terminated line for simple strings, errors and
// integers. Invalid UTF-8 is replaced with U+FFFD.
func (d *Decoder) readText() (string, error) {
	line, err := d.readLine(d.limits.MaxLineLen)
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return "", fmt.Errorf("%w: in line", ErrStreamClosed)
		case errors.Is(err, errLineTooLong):
			return "", fmt.Errorf("%w: line exceeds %d bytes", ErrLimitExceeded, d.limits.MaxLineLen)
		case errors.Is(err, errMissingCR):
			return "", fmt.Errorf("%w: line not terminated by CRLF", ErrInvalidTerminator)
		default:
			return "", err
		}
	}
	return strings.ToValidUTF8(string(line), "\uFFFD"), nil
}

// readLine returns the bytes before the next CRLF. The result aliases the
// bufio buffer and is only valid until the next read.
func (d *Decoder) readLine(maxLen int) ([]byte, error) {
	var buf []byte
	for {
		frag, err := d.br.ReadSlice('\n')
		if err == nil {
			if buf == nil {
				buf = frag
			} else {
				buf = append(buf, frag...)
			}
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > maxLen+1 {
				return nil, errLineTooLong
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}

	if len(buf) > maxLen+2 {
		return nil, errLineTooLong
	}
	if len(buf) < 2 || buf[len(buf)-2] != '\r' {
		return nil, errMissingCR
	}
	return buf[:len(buf)-2], nil
}
