package redisserver

import (
	"sync"
	"testing"
	"time"

	"github.com/yndnr/miniredis-go/internal/storage/memory"
)

type commandCall struct {
	command string
	result  string
}

type recordingRecorder struct {
	mu        sync.Mutex
	commands  []commandCall
	opened    int
	closed    int
	protoErrs map[string]int
	limited   int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{protoErrs: make(map[string]int)}
}

func (r *recordingRecorder) CommandProcessed(command, result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, commandCall{command, result})
}

func (r *recordingRecorder) ConnectionOpened() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened++
}

func (r *recordingRecorder) ConnectionClosed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
}

func (r *recordingRecorder) ProtocolError(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protoErrs[kind]++
}

func (r *recordingRecorder) RateLimited() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limited++
}

func (r *recordingRecorder) protocolErrors(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.protoErrs[kind]
}

func dispatch(t *testing.T, d *Dispatcher, args ...string) string {
	t.Helper()
	out, err := Encode(d.Dispatch(frame(args...)))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return string(out)
}

func TestDispatcher_Scenarios(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"PING"}, "+PONG\r\n"},
		{[]string{"SET", "a", "1"}, "+OK\r\n"},
		{[]string{"GET", "a"}, "$1\r\n1\r\n"},
		{[]string{"GET", "missing"}, "$-1\r\n"},
		{[]string{"SET", "b", "2"}, "+OK\r\n"},
		{[]string{"KEYS", "*"}, "*2\r\n$1\r\na\r\n$1\r\nb\r\n"},
		{[]string{"EXISTS", "a", "b", "c"}, ":2\r\n"},
		{[]string{"DEL", "a", "c"}, ":1\r\n"},
		{[]string{"KEYS", "*"}, "*1\r\n$1\r\nb\r\n"},
		{[]string{"FOO"}, "-ERR unknown command 'FOO'\r\n"},
	}

	for _, s := range steps {
		if got := dispatch(t, d, s.args...); got != s.want {
			t.Errorf("%q = %q, want %q", s.args, got, s.want)
		}
	}
}

func TestDispatcher_CaseInsensitive(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)

	if got := dispatch(t, d, "ping"); got != "+PONG\r\n" {
		t.Errorf("ping = %q", got)
	}
	if got := dispatch(t, d, "sEt", "k", "v"); got != "+OK\r\n" {
		t.Errorf("sEt = %q", got)
	}
	if got := dispatch(t, d, "get", "k"); got != "$1\r\nv\r\n" {
		t.Errorf("get = %q", got)
	}
	// Keys and values stay case-sensitive.
	if got := dispatch(t, d, "GET", "K"); got != "$-1\r\n" {
		t.Errorf("GET K = %q", got)
	}
}

func TestDispatcher_UnknownCommandEchoesToken(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)

	if got := dispatch(t, d, "flushall"); got != "-ERR unknown command 'flushall'\r\n" {
		t.Errorf("flushall = %q", got)
	}
}

func TestDispatcher_Arity(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"SET"}, "-ERR wrong number of arguments for SET\r\n"},
		{[]string{"SET", "a"}, "-ERR wrong number of arguments for SET\r\n"},
		{[]string{"set", "a"}, "-ERR wrong number of arguments for SET\r\n"},
		{[]string{"GET"}, "-ERR wrong number of arguments for GET\r\n"},
		{[]string{"DEL"}, ":0\r\n"},
		{[]string{"EXISTS"}, ":0\r\n"},
		{[]string{"ECHO"}, "$0\r\n\r\n"},
		{[]string{"KEYS"}, "*0\r\n"},
	}

	for _, tt := range tests {
		if got := dispatch(t, d, tt.args...); got != tt.want {
			t.Errorf("%q = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestDispatcher_ExtraArgumentsIgnored(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)

	if got := dispatch(t, d, "PING", "extra"); got != "+PONG\r\n" {
		t.Errorf("PING extra = %q", got)
	}
	if got := dispatch(t, d, "SET", "a", "1", "EX", "10"); got != "+OK\r\n" {
		t.Errorf("SET with extras = %q", got)
	}
	if got := dispatch(t, d, "ECHO", "x", "y"); got != "$1\r\nx\r\n" {
		t.Errorf("ECHO x y = %q", got)
	}
}

func TestDispatcher_Echo(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)

	if got := dispatch(t, d, "ECHO", "hello"); got != "$5\r\nhello\r\n" {
		t.Errorf("ECHO hello = %q", got)
	}
	if got := dispatch(t, d, "ECHO", "héllo"); got != "$6\r\nhéllo\r\n" {
		t.Errorf("ECHO héllo = %q", got)
	}
	if got := dispatch(t, d, "ECHO", ""); got != "$0\r\n\r\n" {
		t.Errorf("ECHO empty = %q", got)
	}
}

func TestDispatcher_KeysPattern(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)
	dispatch(t, d, "SET", "x", "1")
	dispatch(t, d, "SET", "y", "2")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"KEYS", "*"}, "*2\r\n$1\r\nx\r\n$1\r\ny\r\n"},
		{[]string{"KEYS", ""}, "*2\r\n$1\r\nx\r\n$1\r\ny\r\n"},
		{[]string{"KEYS"}, "*2\r\n$1\r\nx\r\n$1\r\ny\r\n"},
		{[]string{"KEYS", "x"}, "*0\r\n"},
		{[]string{"KEYS", "x*"}, "*0\r\n"},
	}

	for _, tt := range tests {
		if got := dispatch(t, d, tt.args...); got != tt.want {
			t.Errorf("%q = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestDispatcher_OverwriteKeepsOrder(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)
	dispatch(t, d, "SET", "a", "1")
	dispatch(t, d, "SET", "b", "2")
	dispatch(t, d, "SET", "a", "3")

	if got := dispatch(t, d, "KEYS", "*"); got != "*2\r\n$1\r\na\r\n$1\r\nb\r\n" {
		t.Errorf("KEYS after overwrite = %q", got)
	}
	if got := dispatch(t, d, "GET", "a"); got != "$1\r\n3\r\n" {
		t.Errorf("GET a = %q", got)
	}

	dispatch(t, d, "DEL", "a")
	dispatch(t, d, "SET", "a", "4")
	if got := dispatch(t, d, "KEYS", "*"); got != "*2\r\n$1\r\nb\r\n$1\r\na\r\n" {
		t.Errorf("KEYS after re-set = %q", got)
	}
}

func TestDispatcher_DuplicateKeys(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)
	dispatch(t, d, "SET", "a", "1")

	if got := dispatch(t, d, "EXISTS", "a", "a"); got != ":2\r\n" {
		t.Errorf("EXISTS a a = %q", got)
	}
	if got := dispatch(t, d, "DEL", "a", "a"); got != ":1\r\n" {
		t.Errorf("DEL a a = %q", got)
	}
}

func TestDispatcher_EmptyFrame(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)
	if _, ok := d.Dispatch(nil).(ErrorStatus); !ok {
		t.Error("Dispatch(nil) should return an error reply")
	}
}

func TestDispatcher_Register(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)
	d.Register(&Command{
		Name:    "HELLO",
		MinArgs: 1,
		Exec: func(_ Store, args [][]byte) Reply {
			return SimpleStatus("hi " + string(args[0]))
		},
	})

	if got := dispatch(t, d, "hello", "bob"); got != "+hi bob\r\n" {
		t.Errorf("hello bob = %q", got)
	}
	if got := dispatch(t, d, "HELLO"); got != "-ERR wrong number of arguments for HELLO\r\n" {
		t.Errorf("HELLO = %q", got)
	}
}

func TestDispatcher_Commands(t *testing.T) {
	d := NewDispatcher(memory.New(), nil)
	want := []string{"DEL", "ECHO", "EXISTS", "GET", "KEYS", "PING", "SET"}

	got := d.Commands()
	if len(got) != len(want) {
		t.Fatalf("Commands() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Commands()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatcher_RecordsMetrics(t *testing.T) {
	rec := newRecordingRecorder()
	d := NewDispatcher(memory.New(), rec)

	dispatch(t, d, "PING")
	dispatch(t, d, "SET", "a")
	dispatch(t, d, "NOPE")

	want := []commandCall{
		{"PING", "ok"},
		{"SET", "error"},
		{"unknown", "error"},
	}
	if len(rec.commands) != len(want) {
		t.Fatalf("recorded %v, want %v", rec.commands, want)
	}
	for i := range want {
		if rec.commands[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, rec.commands[i], want[i])
		}
	}
}
