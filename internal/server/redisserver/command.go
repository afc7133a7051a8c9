package redisserver

import (
	"sort"
	"time"

	"github.com/yndnr/miniredis-go/internal/telemetry/metric"
)

// Store is the keyspace commands operate on.
type Store interface {
	Set(key, value []byte)
	Get(key []byte) ([]byte, bool)
	DeleteMany(keys [][]byte) int
	CountExisting(keys [][]byte) int
	Keys() [][]byte
}

// ExecFunc executes a command. args excludes the command name and has
// already been checked against the command's MinArgs.
type ExecFunc func(store Store, args [][]byte) Reply

// Command is a registered command.
type Command struct {
	// Name is the uppercased command name.
	Name string
	// MinArgs is the minimum number of arguments after the name.
	MinArgs int
	Exec    ExecFunc
}

// Dispatcher routes frames to registered commands.
type Dispatcher struct {
	store    Store
	commands map[string]*Command
	rec      metric.Recorder
}

// NewDispatcher creates a Dispatcher over store with the built-in
// command set registered. rec may be nil.
func NewDispatcher(store Store, rec metric.Recorder) *Dispatcher {
	if rec == nil {
		rec = metric.Nop()
	}
	d := &Dispatcher{
		store:    store,
		commands: make(map[string]*Command),
		rec:      rec,
	}
	for _, cmd := range builtinCommands() {
		d.Register(cmd)
	}
	return d
}

// Register adds or replaces a command.
func (d *Dispatcher) Register(cmd *Command) {
	d.commands[cmd.Name] = cmd
}

// Commands returns the registered command names, sorted.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch executes frame and returns its reply.
func (d *Dispatcher) Dispatch(frame Frame) Reply {
	if len(frame) == 0 {
		return ErrorStatus("ERR no command")
	}

	start := time.Now()
	name := normalizeCommandName(frame[0])

	cmd, ok := d.commands[name]
	if !ok {
		d.rec.CommandProcessed("unknown", "error", time.Since(start))
		return ErrorStatus("ERR unknown command '" + string(frame[0]) + "'")
	}

	args := frame[1:]
	if len(args) < cmd.MinArgs {
		d.rec.CommandProcessed(cmd.Name, "error", time.Since(start))
		return ErrorStatus("ERR wrong number of arguments for " + cmd.Name)
	}

	r := cmd.Exec(d.store, args)

	result := "ok"
	if _, isErr := r.(ErrorStatus); isErr {
		result = "error"
	}
	d.rec.CommandProcessed(cmd.Name, result, time.Since(start))
	return r
}

func builtinCommands() []*Command {
	return []*Command{
		{Name: "PING", MinArgs: 0, Exec: execPing},
		{Name: "ECHO", MinArgs: 0, Exec: execEcho},
		{Name: "SET", MinArgs: 2, Exec: execSet},
		{Name: "GET", MinArgs: 1, Exec: execGet},
		{Name: "DEL", MinArgs: 0, Exec: execDel},
		{Name: "EXISTS", MinArgs: 0, Exec: execExists},
		{Name: "KEYS", MinArgs: 0, Exec: execKeys},
	}
}

// PING
func execPing(_ Store, _ [][]byte) Reply {
	return replyPong
}

// ECHO [message]
//
// A missing message echoes the empty string.
func execEcho(_ Store, args [][]byte) Reply {
	if len(args) == 0 {
		return Bulk([]byte{})
	}
	return Bulk(args[0])
}

// SET <key> <value>
func execSet(store Store, args [][]byte) Reply {
	store.Set(args[0], args[1])
	return replyOK
}

// GET <key>
func execGet(store Store, args [][]byte) Reply {
	v, ok := store.Get(args[0])
	if !ok {
		return NullBulk
	}
	return Bulk(v)
}

// DEL [key ...]
func execDel(store Store, args [][]byte) Reply {
	return Integer(store.DeleteMany(args))
}

// EXISTS [key ...]
func execExists(store Store, args [][]byte) Reply {
	return Integer(store.CountExisting(args))
}

// KEYS [pattern]
//
// Only the literal pattern "*" matches; it lists every key in insertion
// order. A missing or empty pattern means "*". Any other pattern yields
// an empty array.
func execKeys(store Store, args [][]byte) Reply {
	pattern := "*"
	if len(args) > 0 && len(args[0]) > 0 {
		pattern = string(args[0])
	}
	if pattern != "*" {
		return Array{}
	}

	keys := store.Keys()
	out := make(Array, len(keys))
	for i, k := range keys {
		out[i] = Bulk(k)
	}
	return out
}
