package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/pkg/resp"
)

// Session is the connection the REPL sends commands to.
type Session interface {
	Do(ctx context.Context, args ...string) (resp.Value, error)
	Connect(ctx context.Context, addr string) error
	Addr() string
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	session   Session
	formatter output.Formatter
	completer *Completer
	history   *History
	timeout   time.Duration
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithTimeout bounds each command.
func WithTimeout(d time.Duration) Option {
	return func(r *REPL) {
		r.timeout = d
	}
}

// New creates a REPL that runs commands on s and prints replies with f.
func New(s Session, f output.Formatter, opts ...Option) *REPL {
	r := &REPL{
		session:   s,
		formatter: f,
		completer: NewCompleter(),
		history:   NewHistory("", 0),
		timeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and executes lines until EOF or an exit command.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: history not loaded: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: history not saved: %v\n", err)
		}
	}()

	scanner := bufio.NewScanner(r.input)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt())

		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)

		quit, err := r.execute(ctx, line)
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (r *REPL) prompt() string {
	addr := r.session.Addr()
	if addr == "" {
		addr = "not connected"
	}
	return addr + "> "
}

// execute runs one line. quit reports whether the REPL should stop.
func (r *REPL) execute(ctx context.Context, line string) (quit bool, err error) {
	args, err := Tokenize(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true, nil
	case "help":
		r.printHelp(args[1:])
		return false, nil
	case "history":
		entries := r.history.Entries()
		if len(args) > 1 {
			entries = r.history.Search(strings.Join(args[1:], " "))
		}
		for i, e := range entries {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
		}
		return false, nil
	case "connect":
		if len(args) != 2 {
			return false, errors.New("usage: connect <host:port>")
		}
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return false, r.session.Connect(cctx, args[1])
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.session.Do(cctx, args...)
	if err != nil {
		return false, err
	}
	return false, r.formatter.Format(r.output, reply)
}

func (r *REPL) printHelp(args []string) {
	if len(args) == 1 {
		matches := r.completer.Complete(args[0])
		if len(matches) == 0 {
			fmt.Fprintf(r.output, "no command matches %q\n", args[0])
			return
		}
		for _, m := range matches {
			fmt.Fprintln(r.output, usage[strings.ToUpper(m)])
		}
		return
	}

	fmt.Fprintln(r.output, "Server commands:")
	for _, c := range Commands {
		fmt.Fprintf(r.output, "  %s\n", usage[c])
	}
	fmt.Fprintln(r.output, "REPL commands:")
	for _, b := range Builtins {
		fmt.Fprintf(r.output, "  %s\n", usage[strings.ToUpper(b)])
	}
}

var usage = map[string]string{
	"PING":    "PING [message]",
	"SET":     "SET key value",
	"GET":     "GET key",
	"HSET":    "HSET key field value",
	"HGET":    "HGET key field",
	"HGETALL": "HGETALL key",
	"HELP":    "help [command]",
	"HISTORY": "history [substring]",
	"CONNECT": "connect host:port",
	"EXIT":    "exit",
	"QUIT":    "quit",
}
