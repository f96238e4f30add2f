package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// PlainFormatter renders replies the way redis-cli does.
type PlainFormatter struct{}

// Format writes v followed by a newline.
func (f *PlainFormatter) Format(w io.Writer, v resp.Value) error {
	var b strings.Builder
	writePlain(&b, v, 0)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func writePlain(b *strings.Builder, v resp.Value, indent int) {
	switch x := v.(type) {
	case resp.SimpleString:
		b.WriteString(string(x))
	case resp.BulkString:
		b.WriteString(strconv.Quote(string(x)))
	case resp.Integer:
		fmt.Fprintf(b, "(integer) %d", x)
	case resp.Error:
		b.WriteString("(error) ")
		b.WriteString(string(x))
	case resp.Array:
		if len(x) == 0 {
			b.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(x)))
		for i, item := range x {
			if i > 0 {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", indent))
			}
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			b.WriteString(prefix)
			writePlain(b, item, indent+len(prefix))
		}
	default:
		b.WriteString("(nil)")
	}
}
