package redisserver

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func framesEqual(a, b []Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if string(a[i][j]) != string(b[i][j]) {
				return false
			}
		}
	}
	return true
}

func frame(args ...string) Frame {
	f := make(Frame, len(args))
	for i, a := range args {
		f[i] = []byte(a)
	}
	return f
}

func TestDecodeFrames(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Frame
		wantErr error
	}{
		{
			name:  "single command",
			input: "*1\r\n$4\r\nPING\r\n",
			want:  []Frame{frame("PING")},
		},
		{
			name:  "command with arguments",
			input: "*3\r\n$3\r\nSET\r\n$1\r\na\r\n$1\r\n1\r\n",
			want:  []Frame{frame("SET", "a", "1")},
		},
		{
			name:  "pipelined commands",
			input: "*1\r\n$4\r\nPING\r\n*2\r\n$3\r\nGET\r\n$1\r\na\r\n",
			want:  []Frame{frame("PING"), frame("GET", "a")},
		},
		{
			name:  "declared length not enforced",
			input: "*1\r\n$10\r\nPING\r\n",
			want:  []Frame{frame("PING")},
		},
		{
			name:  "inline token element",
			input: "*2\r\n+ECHO\r\n:42\r\n",
			want:  []Frame{frame("ECHO", "42")},
		},
		{
			name:  "whitespace preserved",
			input: "*2\r\n$4\r\nECHO\r\n$3\r\n a \r\n",
			want:  []Frame{frame("ECHO", " a ")},
		},
		{
			name:  "no trailing crlf",
			input: "*1\r\n$4\r\nPING",
			want:  []Frame{frame("PING")},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "top-level null skipped",
			input: "$-1\r\n*1\r\n$4\r\nPING\r\n",
			want:  []Frame{frame("PING")},
		},
		{
			name:  "empty array skipped",
			input: "*0\r\n",
			want:  nil,
		},
		{
			name:  "top-level string skipped",
			input: "+PING\r\n",
			want:  nil,
		},
		{
			name:    "negative array count",
			input:   "*-1\r\n",
			wantErr: ErrMalformed,
		},
		{
			name:    "non-numeric array count",
			input:   "*x\r\n",
			wantErr: ErrMalformed,
		},
		{
			name:  "non-numeric bulk length",
			input: "*2\r\n$4\r\nECHO\r\n$x\r\nhi\r\n",
			want:  []Frame{frame("ECHO", "hi")},
		},
		{
			name:  "bulk length below -1",
			input: "*2\r\n$4\r\nECHO\r\n$-2\r\nhi\r\n",
			want:  []Frame{frame("ECHO", "hi")},
		},
		{
			name:  "empty bulk length",
			input: "*2\r\n$4\r\nECHO\r\n$\r\nhi\r\n",
			want:  []Frame{frame("ECHO", "hi")},
		},
		{
			name:    "missing bulk payload",
			input:   "*1\r\n$4\r\n",
			wantErr: ErrMalformed,
		},
		{
			name:    "truncated array",
			input:   "*2\r\n$3\r\nGET\r\n",
			wantErr: ErrMalformed,
		},
		{
			name:    "malformed stops decoding",
			input:   "*1\r\n$4\r\nPING\r\n*x\r\n*1\r\n$4\r\nPING\r\n",
			want:    []Frame{frame("PING")},
			wantErr: ErrMalformed,
		},
		{
			name:  "protocol error skipped",
			input: "*2\r\n$3\r\nGET\r\n$-1\r\n*1\r\n$4\r\nPING\r\n",
			want:  []Frame{frame("PING")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFrames([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeFrames() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("DecodeFrames() unexpected error: %v", err)
			}
			if !framesEqual(got, tt.want) {
				t.Errorf("DecodeFrames() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecoder_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"null bulk element", "*2\r\n$3\r\nGET\r\n$-1\r\n"},
		{"empty line element", "*2\r\n$3\r\nGET\r\n\r\n"},
		{"nested array element", "*1\r\n*1\r\n$1\r\na\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder([]byte(tt.input))
			_, err := d.Next()
			if !errors.Is(err, ErrProtocol) {
				t.Fatalf("Next() error = %v, want ErrProtocol", err)
			}
			if _, err := d.Next(); !errors.Is(err, io.EOF) {
				t.Errorf("Next() after protocol error = %v, want io.EOF", err)
			}
		})
	}
}

func TestDecoder_ContinuesAfterProtocolError(t *testing.T) {
	d := NewDecoder([]byte("*1\r\n$-1\r\n*1\r\n$4\r\nPING\r\n"))

	if _, err := d.Next(); !errors.Is(err, ErrProtocol) {
		t.Fatalf("first Next() error = %v, want ErrProtocol", err)
	}
	f, err := d.Next()
	if err != nil {
		t.Fatalf("second Next() error = %v", err)
	}
	if string(f[0]) != "PING" {
		t.Errorf("frame = %q, want PING", f)
	}
}

func TestDecoder_StopsAfterMalformed(t *testing.T) {
	d := NewDecoder([]byte("*x\r\n*1\r\n$4\r\nPING\r\n"))

	if _, err := d.Next(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Next() error = %v, want ErrMalformed", err)
	}
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after malformed = %v, want io.EOF", err)
	}
}

func TestDecoder_MaxDepth(t *testing.T) {
	deep := strings.Repeat("*1\r\n", maxDepth+2) + "$1\r\na\r\n"
	if _, err := DecodeFrames([]byte(deep)); !errors.Is(err, ErrMalformed) {
		t.Errorf("DecodeFrames(deep) error = %v, want ErrMalformed", err)
	}

	// Within the limit the value parses and is rejected as a non-string element.
	shallow := strings.Repeat("*1\r\n", 3) + "$1\r\na\r\n"
	d := NewDecoder([]byte(shallow))
	if _, err := d.Next(); !errors.Is(err, ErrProtocol) {
		t.Errorf("Next(shallow) error = %v, want ErrProtocol", err)
	}
}

func TestNormalizeCommandName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PING", "PING"},
		{"ping", "PING"},
		{"PiNg", "PING"},
		{"", ""},
		{"set2", "SET2"},
	}

	for _, tt := range tests {
		if got := normalizeCommandName([]byte(tt.in)); got != tt.want {
			t.Errorf("normalizeCommandName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
