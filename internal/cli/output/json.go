package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/miniredis-go/internal/cli/connection"
)

// JSONFormatter formats replies as JSON.
type JSONFormatter struct{}

// Format formats r as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, r connection.Reply) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toValue(r))
}
