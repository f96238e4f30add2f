package redisserver

import (
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/store"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Error replies sent for command-level failures.
const (
	msgWrongArity      = "Wrong number of arguments"
	msgUnknownCommand  = "Unknown command: "
	msgInvalidCommand  = "Invalid command"
	msgInvalidArgument = "Invalid argument"
	msgInternal        = "Internal error"
	msgRateLimited     = "Rate limit exceeded"
)

// lineSafe keeps client text echoed in a reply on a single line.
var lineSafe = strings.NewReplacer("\r", " ", "\n", " ")

// Metric labels for requests that never resolve to a known command.
const (
	labelInvalid = "invalid"
	labelUnknown = "unknown"
)

// command describes one entry of the command table. minArgs and maxArgs
// bound the number of arguments after the command name.
type command struct {
	name    string
	minArgs int
	maxArgs int
	run     func(d *Dispatcher, args []resp.Value) resp.Value
}

var commandTable = map[string]command{
	"PING":    {name: "PING", minArgs: 0, maxArgs: 1, run: (*Dispatcher).ping},
	"SET":     {name: "SET", minArgs: 2, maxArgs: 2, run: (*Dispatcher).set},
	"GET":     {name: "GET", minArgs: 1, maxArgs: 1, run: (*Dispatcher).get},
	"HSET":    {name: "HSET", minArgs: 3, maxArgs: 3, run: (*Dispatcher).hset},
	"HGET":    {name: "HGET", minArgs: 2, maxArgs: 2, run: (*Dispatcher).hget},
	"HGETALL": {name: "HGETALL", minArgs: 1, maxArgs: 1, run: (*Dispatcher).hgetall},
}

// CommandNames returns the supported command names in upper case.
func CommandNames() []string {
	return []string{"PING", "SET", "GET", "HSET", "HGET", "HGETALL"}
}

// Dispatcher executes decoded requests against a Store.
// It is safe for concurrent use.
type Dispatcher struct {
	store   *store.Store
	metrics *metric.Registry
	logger  logger.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherMetrics records every dispatch in reg.
func WithDispatcherMetrics(reg *metric.Registry) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = reg
	}
}

// WithDispatcherLogger sets the logger used to report recovered panics.
func WithDispatcherLogger(l logger.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a Dispatcher backed by st.
func NewDispatcher(st *store.Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  st,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes one request and returns its reply. It never panics and
// always returns a non-nil Value.
func (d *Dispatcher) Dispatch(req resp.Value) (reply resp.Value) {
	start := time.Now()
	label := labelInvalid

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "command", label, "panic", r)
			reply = resp.Error(msgInternal)
		}
		result := metric.ResultOK
		if _, isErr := reply.(resp.Error); isErr {
			result = metric.ResultError
		}
		d.metrics.ObserveCommand(label, result, time.Since(start))
	}()

	arr, ok := req.(resp.Array)
	if !ok || len(arr) == 0 {
		return resp.Error(msgInvalidCommand)
	}
	name, ok := arr[0].(resp.BulkString)
	if !ok {
		return resp.Error(msgInvalidCommand)
	}

	cmd, ok := commandTable[strings.ToUpper(string(name))]
	if !ok {
		label = labelUnknown
		return resp.Error(msgUnknownCommand + lineSafe.Replace(string(name)))
	}
	label = cmd.name

	args := arr[1:]
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return resp.Error(msgWrongArity)
	}
	return cmd.run(d, args)
}

// ping echoes its optional argument unchanged.
func (d *Dispatcher) ping(args []resp.Value) resp.Value {
	if len(args) == 1 {
		return args[0]
	}
	return resp.SimpleString("PONG")
}

func (d *Dispatcher) set(args []resp.Value) resp.Value {
	s, ok := bulkArgs(args)
	if !ok {
		return resp.Error(msgInvalidArgument)
	}
	d.store.Set(s[0], s[1])
	return resp.SimpleString("OK")
}

func (d *Dispatcher) get(args []resp.Value) resp.Value {
	s, ok := bulkArgs(args)
	if !ok {
		return resp.Error(msgInvalidArgument)
	}
	v, found := d.store.Get(s[0])
	if !found {
		return resp.Null{}
	}
	return resp.BulkString(v)
}

func (d *Dispatcher) hset(args []resp.Value) resp.Value {
	s, ok := bulkArgs(args)
	if !ok {
		return resp.Error(msgInvalidArgument)
	}
	d.store.HSet(s[0], s[1], s[2])
	return resp.SimpleString("OK")
}

func (d *Dispatcher) hget(args []resp.Value) resp.Value {
	s, ok := bulkArgs(args)
	if !ok {
		return resp.Error(msgInvalidArgument)
	}
	v, found := d.store.HGet(s[0], s[1])
	if !found {
		return resp.Null{}
	}
	return resp.BulkString(v)
}

func (d *Dispatcher) hgetall(args []resp.Value) resp.Value {
	s, ok := bulkArgs(args)
	if !ok {
		return resp.Error(msgInvalidArgument)
	}
	pairs, found := d.store.HGetAll(s[0])
	if !found {
		return resp.Null{}
	}
	out := make(resp.Array, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, resp.BulkString(p.Field), resp.BulkString(p.Value))
	}
	return out
}

// bulkArgs converts arguments to strings; ok is false if any is not a
// bulk string.
func bulkArgs(args []resp.Value) ([]string, bool) {
	out := make([]string, len(args))
	for i, a := range args {
		b, ok := a.(resp.BulkString)
		if !ok {
			return nil, false
		}
		out[i] = string(b)
	}
	return out, true
}
