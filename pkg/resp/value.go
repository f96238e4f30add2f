package resp

import "strconv"

// Protocol type tags.
const (
	TagSimpleString = '+'
	TagError        = '-'
	TagInteger      = ':'
	TagBulkString   = '$'
	TagArray        = '*'
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindSimpleString Kind = iota + 1
	KindInteger
	KindBulkString
	KindArray
	KindError
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple_string"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk_string"
	case KindArray:
		return "array"
	case KindError:
		return "error"
	case KindNull:
		return "null"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single RESP unit. The set of implementations is closed to this
// package.
type Value interface {
	Kind() Kind
	value()
}

// SimpleString is a CRLF-free text reply, e.g. "+OK".
type SimpleString string

// Integer is a signed 32-bit integer.
type Integer int32

// BulkString is a length-prefixed byte string. It may hold any bytes,
// including CR and LF.
type BulkString string

// Array is an ordered sequence of values.
type Array []Value

// Error is an error reply.
type Error string

// Null is the null bulk string ("$-1").
type Null struct{}

func (SimpleString) Kind() Kind { return KindSimpleString }
func (Integer) Kind() Kind      { return KindInteger }
func (BulkString) Kind() Kind   { return KindBulkString }
func (Array) Kind() Kind        { return KindArray }
func (Error) Kind() Kind        { return KindError }
func (Null) Kind() Kind         { return KindNull }

func (SimpleString) value() {}
func (Integer) value()      {}
func (BulkString) value()   {}
func (Array) value()        {}
func (Error) value()        {}
func (Null) value()         {}

// Error implements the error interface so that error replies can be
// returned through Go error paths on the client side.
func (e Error) Error() string { return string(e) }

// Command builds a request array of bulk strings.
func Command(name string, args ...string) Array {
	out := make(Array, 0, len(args)+1)
	out = append(out, BulkString(name))
	for _, a := range args {
		out = append(out, BulkString(a))
	}
	return out
}

// IsCommand reports whether v has the shape of a client request: an array
// whose elements are all bulk strings.
func IsCommand(v Value) bool {
	arr, ok := v.(Array)
	if !ok {
		return false
	}
	for _, item := range arr {
		if _, ok := item.(BulkString); !ok {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are the same value. A nil Value equals Null.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
