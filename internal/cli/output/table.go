package output

import (
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/yndnr/respkv/pkg/resp"
)

// TableFormatter formats replies as an aligned table. Flat arrays of bulk
// strings with even length are shown as FIELD/VALUE pairs.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats v as a table.
func (f *TableFormatter) Format(w io.Writer, v resp.Value) error {
	return toTable(v).RenderWithOptions(w, f.NoHeaders)
}

func toTable(v resp.Value) *Table {
	if p, ok := pairs(v); ok && len(p) > 0 {
		t := &Table{Headers: []string{"FIELD", "VALUE"}}
		for _, kv := range p {
			t.AddRow(kv[0], kv[1])
		}
		return t
	}

	if arr, ok := v.(resp.Array); ok {
		t := &Table{Headers: []string{"#", "TYPE", "VALUE"}}
		for i, item := range arr {
			t.AddRow(strconv.Itoa(i+1), item.Kind().String(), cell(item))
		}
		return t
	}

	t := &Table{Headers: []string{"TYPE", "VALUE"}}
	kind := "null"
	if v != nil {
		kind = v.Kind().String()
	}
	t.AddRow(kind, cell(v))
	return t
}

// cell renders a single value on one line.
func cell(v resp.Value) string {
	switch x := v.(type) {
	case resp.SimpleString:
		return string(x)
	case resp.BulkString:
		return strconv.Quote(string(x))
	case resp.Integer:
		return strconv.Itoa(int(x))
	case resp.Error:
		return string(x)
	case resp.Array:
		return "[" + strconv.Itoa(len(x)) + " items]"
	default:
		return "(nil)"
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		writeRow(tw, t.Headers)
	}
	for _, row := range t.Rows {
		writeRow(tw, row)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, c)
	}
	io.WriteString(w, "\n")
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
