package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// Tokenize splits a line into arguments. Whitespace separates arguments
// unless quoted. Double-quoted strings understand \n, \r, \t, \\, \" and
// \xHH; single-quoted strings are literal except for \'.
func Tokenize(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		i       int
		runes   = []rune(line)
		advance = func() rune { r := runes[i]; i++; return r }
	)

	for i < len(runes) {
		r := advance()
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}

		case r == '"':
			inArg = true
			closed := false
			for i < len(runes) {
				c := advance()
				if c == '"' {
					closed = true
					break
				}
				if c == '\\' && i < len(runes) {
					esc := advance()
					switch esc {
					case 'n':
						cur.WriteByte('\n')
					case 'r':
						cur.WriteByte('\r')
					case 't':
						cur.WriteByte('\t')
					case 'x':
						if i+2 <= len(runes) {
							if b, err := strconv.ParseUint(string(runes[i:i+2]), 16, 8); err == nil {
								cur.WriteByte(byte(b))
								i += 2
								continue
							}
						}
						cur.WriteString(`\x`)
					default:
						cur.WriteRune(esc)
					}
					continue
				}
				cur.WriteRune(c)
			}
			if !closed {
				return nil, ErrUnbalancedQuotes
			}

		case r == '\'':
			inArg = true
			closed := false
			for i < len(runes) {
				c := advance()
				if c == '\'' {
					closed = true
					break
				}
				if c == '\\' && i < len(runes) && runes[i] == '\'' {
					cur.WriteRune(advance())
					continue
				}
				cur.WriteRune(c)
			}
			if !closed {
				return nil, ErrUnbalancedQuotes
			}

		default:
			inArg = true
			cur.WriteRune(r)
		}
	}

	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
