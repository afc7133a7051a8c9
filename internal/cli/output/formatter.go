package output

import (
	"fmt"
	"io"

	"github.com/yndnr/miniredis-go/internal/cli/connection"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatText, FormatRaw, FormatJSON, FormatYAML}

// Formatter writes a reply to w.
type Formatter interface {
	Format(w io.Writer, r connection.Reply) error
}

// NewFormatter creates a formatter for the given format. Unknown formats
// fall back to text.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatRaw:
		return &RawFormatter{}
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want text, raw, json or yaml)", s)
}

// toValue converts r into plain Go values for the structured encoders.
// Error replies become {"error": text} so they stay distinguishable from
// status replies.
func toValue(r connection.Reply) any {
	switch r.Kind {
	case connection.KindStatus, connection.KindBulk:
		return r.Str
	case connection.KindError:
		return map[string]string{"error": r.Str}
	case connection.KindInteger:
		return r.Int
	case connection.KindArray:
		out := make([]any, len(r.Elems))
		for i, e := range r.Elems {
			out[i] = toValue(e)
		}
		return out
	default:
		return nil
	}
}
