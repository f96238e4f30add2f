package resp

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Decode - well-formed input
// ============================================================

func TestDecode_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{
			name:  "PING command",
			input: "*1\r\n$4\r\nPING\r\n",
			want:  Array{BulkString("PING")},
		},
		{
			name:  "SET command",
			input: "*3\r\n$3\r\nSET\r\n$5\r\nmykey\r\n$7\r\nmyvalue\r\n",
			want:  Command("SET", "mykey", "myvalue"),
		},
		{
			name:  "multi-digit bulk length",
			input: "$12\r\nhello world!\r\n",
			want:  BulkString("hello world!"),
		},
		{
			name:  "multi-digit array length",
			input: "*11\r\n" + strings.Repeat("$1\r\nx\r\n", 11),
			want:  Array{BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x"), BulkString("x")},
		},
		{
			name:  "simple string",
			input: "+OK\r\n",
			want:  SimpleString("OK"),
		},
		{
			name:  "error",
			input: "-Wrong number of arguments\r\n",
			want:  Error("Wrong number of arguments"),
		},
		{
			name:  "integer",
			input: ":1000\r\n",
			want:  Integer(1000),
		},
		{
			name:  "negative integer",
			input: ":-42\r\n",
			want:  Integer(-42),
		},
		{
			name:  "null bulk string",
			input: "$-1\r\n",
			want:  Null{},
		},
		{
			name:  "null array",
			input: "*-1\r\n",
			want:  Null{},
		},
		{
			name:  "empty array",
			input: "*0\r\n",
			want:  Array{},
		},
		{
			name:  "empty bulk string",
			input: "$0\r\n\r\n",
			want:  BulkString(""),
		},
		{
			name:  "bulk with embedded CRLF",
			input: "$7\r\nab\r\ncd\n\r\n",
			want:  BulkString("ab\r\ncd\n"),
		},
		{
			name:  "nested array",
			input: "*2\r\n*2\r\n:1\r\n:2\r\n+x\r\n",
			want:  Array{Array{Integer(1), Integer(2)}, SimpleString("x")},
		},
		{
			name:  "leading zeros in length",
			input: "$003\r\nabc\r\n",
			want:  BulkString("abc"),
		},
		{
			name:  "invalid utf-8 in simple string",
			input: "+a\xffb\r\n",
			want:  SimpleString("a�b"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %#v, want %#v", got, tt.want)
		})
	}
}

func TestDecode_LeavesStreamAfterUnit(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("$3\r\nfoo\r\n:7\r\n*1\r\n$4\r\nPING\r\n"))
	dec := NewDecoder(br)

	v, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, BulkString("foo"), v)

	v, err = dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, Integer(7), v)

	v, err = dec.Decode()
	require.NoError(t, err)
	assert.True(t, Equal(Array{BulkString("PING")}, v))

	_, err = dec.Decode()
	assert.Equal(t, io.EOF, err)
}

func TestDecode_LargeBulk(t *testing.T) {
	payload := strings.Repeat("0123456789", 20000)
	input := "$200000\r\n" + payload + "\r\n"

	got, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, BulkString(payload), got)
}

// ============================================================
// Decode - malformed input
// ============================================================

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"unknown type", "!oops\r\n", ErrUnknownType},
		{"inline command", "PING\r\n", ErrUnknownType},
		{"non-digit length", "$a\r\nabc\r\n", ErrMalformedLength},
		{"empty length", "$\r\n\r\n", ErrMalformedLength},
		{"negative length", "$-2\r\n", ErrMalformedLength},
		{"length with sign", "*+1\r\n", ErrMalformedLength},
		{"LF without CR", "$3\nabc\r\n", ErrMalformedLength},
		{"unterminated length", "*" + strings.Repeat("1", 64) + "\r\n", ErrMalformedLength},
		{"eof in length", "$12", ErrStreamClosed},
		{"eof in simple string", "+OK", ErrStreamClosed},
		{"eof in array", "*2\r\n$1\r\na\r\n", ErrStreamClosed},
		{"short bulk body", "$10\r\nabc", ErrTruncated},
		{"bulk missing CRLF at eof", "$3\r\nabc", ErrTruncated},
		{"bulk wrong terminator", "$3\r\nabcde\r\n", ErrInvalidTerminator},
		{"non-numeric integer", ":12a\r\n", ErrMalformedInteger},
		{"integer overflows int32", ":2147483648\r\n", ErrMalformedInteger},
		{"empty integer", ":\r\n", ErrMalformedInteger},
		{"simple string LF only", "+OK\n", ErrInvalidTerminator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}
}

func TestDecode_EmptyStream(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.Equal(t, io.EOF, err)
}

func TestDecode_IOErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	_, err := Decode(io.MultiReader(strings.NewReader("$5\r\nab"), &failingReader{err: boom}))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrProtocol)
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

// ============================================================
// Decode - limits
// ============================================================

func TestDecode_Limits(t *testing.T) {
	limits := Limits{MaxBulkLen: 8, MaxArrayLen: 4, MaxLineLen: 16, MaxDepth: 3}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"bulk at limit", "$8\r\n12345678\r\n", false},
		{"bulk over limit", "$9\r\n123456789\r\n", true},
		{"array at limit", "*4\r\n:1\r\n:2\r\n:3\r\n:4\r\n", false},
		{"array over limit", "*5\r\n", true},
		{"line over limit", "+" + strings.Repeat("a", 17) + "\r\n", true},
		{"depth at limit", "*1\r\n*1\r\n*1\r\n:1\r\n", false},
		{"depth over limit", "*1\r\n*1\r\n*1\r\n*1\r\n:1\r\n", true},
		{"huge length digits", "$99999999999999999999\r\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(strings.NewReader(tt.input), WithLimits(limits))
			_, err := dec.Decode()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrLimitExceeded)
		})
	}
}

func TestDecode_DeepNestingBoundedByDefault(t *testing.T) {
	input := strings.Repeat("*1\r\n", 10000) + ":1\r\n"
	_, err := Decode(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "unknown_type", ErrorKind(ErrUnknownType))
	assert.Equal(t, "limit_exceeded", ErrorKind(ErrLimitExceeded))
	assert.Equal(t, "truncated", ErrorKind(ErrTruncated))
	assert.Equal(t, "io", ErrorKind(io.ErrClosedPipe))
}
