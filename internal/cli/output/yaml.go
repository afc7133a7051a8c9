package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/miniredis-go/internal/cli/connection"
)

// YAMLFormatter formats replies as YAML.
type YAMLFormatter struct{}

// Format formats r as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, r connection.Reply) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(toValue(r)); err != nil {
		return err
	}
	return encoder.Close()
}
