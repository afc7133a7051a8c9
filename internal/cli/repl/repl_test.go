package repl

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder) (*REPL, *bytes.Buffer, *History) {
	out := &bytes.Buffer{}
	h := NewHistoryFile("")
	r := New(rec.exec, WithIO(strings.NewReader(input), out), WithHistory(h))
	return r, out, h
}

func TestNew(t *testing.T) {
	r := New(func(context.Context, []string) error { return nil })
	if r.completer == nil {
		t.Error("completer should be initialized")
	}
	if r.history == nil {
		t.Error("history should be initialized")
	}
	if r.prompt != DefaultPrompt {
		t.Errorf("prompt = %q, want %q", r.prompt, DefaultPrompt)
	}
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\nPING\n"},
		{"quit command", "quit\nPING\n"},
		{"uppercase", "EXIT\nPING\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r, _, _ := newTestREPL(tt.input, rec)
			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() error = %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("executor called %d times after exit", len(rec.calls))
			}
		})
	}
}

func TestREPL_Run_Executes(t *testing.T) {
	rec := &recorder{}
	r, _, _ := newTestREPL("SET greeting \"hello world\"\nGET greeting\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{
		{"SET", "greeting", "hello world"},
		{"GET", "greeting"},
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("executor calls = %q, want %q", rec.calls, want)
	}
}

func TestREPL_Run_LastLineWithoutNewline(t *testing.T) {
	rec := &recorder{}
	r, _, _ := newTestREPL("PING", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0][0] != "PING" {
		t.Errorf("executor calls = %q, want [[PING]]", rec.calls)
	}
}

func TestREPL_Run_EmptyLines(t *testing.T) {
	rec := &recorder{}
	r, out, _ := newTestREPL("\n\n\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if prompts := strings.Count(out.String(), "miniredis>"); prompts != 4 {
		t.Errorf("prompts = %d, want 4", prompts)
	}
	if len(rec.calls) != 0 {
		t.Errorf("executor called for empty lines")
	}
}

func TestREPL_Run_HistoryAdded(t *testing.T) {
	rec := &recorder{}
	r, _, h := newTestREPL("PING\n  GET a  \nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"exit", "GET a", "PING"}
	for i, w := range want {
		if got := h.Get(i); got != w {
			t.Errorf("history.Get(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestREPL_Run_ExecutorError(t *testing.T) {
	rec := &recorder{err: errors.New("connection reset")}
	r, out, _ := newTestREPL("PING\nPING\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 2 {
		t.Errorf("executor calls = %d, want 2", len(rec.calls))
	}
	if !strings.Contains(out.String(), "Error: connection reset") {
		t.Errorf("output %q should contain the executor error", out.String())
	}
}

func TestREPL_Run_UnbalancedQuotes(t *testing.T) {
	rec := &recorder{}
	r, out, _ := newTestREPL("ECHO \"open\nPING\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "(error) "+ErrUnbalancedQuotes.Error()) {
		t.Errorf("output %q should report unbalanced quotes", out.String())
	}
	if len(rec.calls) != 1 || rec.calls[0][0] != "PING" {
		t.Errorf("executor calls = %q, want [[PING]]", rec.calls)
	}
}

func TestREPL_Run_Help(t *testing.T) {
	rec := &recorder{}
	r, out, _ := newTestREPL("help E\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, name := range []string{"ECHO\n", "EXISTS\n", "exit\n"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("help output %q missing %q", out.String(), name)
		}
	}
	if strings.Contains(out.String(), "GET") {
		t.Errorf("help E should not list GET")
	}
	if len(rec.calls) != 0 {
		t.Error("help should not reach the executor")
	}
}

func TestREPL_Run_CustomPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	r := New(func(context.Context, []string) error { return nil },
		WithIO(strings.NewReader("exit\n"), out),
		WithHistory(NewHistoryFile("")),
		WithPrompt("127.0.0.1:6370> "),
	)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "127.0.0.1:6370> ") {
		t.Errorf("output = %q, want custom prompt", out.String())
	}
}

func TestREPL_Run_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	r, _, _ := newTestREPL("PING\n", rec)
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(rec.calls) != 0 {
		t.Error("executor should not run after cancellation")
	}
}
