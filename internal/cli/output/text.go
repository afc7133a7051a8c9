package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/miniredis-go/internal/cli/connection"
)

// TextFormatter renders replies the way redis-cli does on a terminal.
type TextFormatter struct{}

// Format writes r followed by a newline.
func (f *TextFormatter) Format(w io.Writer, r connection.Reply) error {
	_, err := io.WriteString(w, strings.Join(textLines(r), "\n")+"\n")
	return err
}

func textLines(r connection.Reply) []string {
	switch r.Kind {
	case connection.KindStatus:
		return []string{r.Str}
	case connection.KindError:
		return []string{"(error) " + r.Str}
	case connection.KindInteger:
		return []string{"(integer) " + strconv.FormatInt(r.Int, 10)}
	case connection.KindBulk:
		return []string{strconv.Quote(r.Str)}
	case connection.KindNil:
		return []string{"(nil)"}
	case connection.KindArray:
		if len(r.Elems) == 0 {
			return []string{"(empty array)"}
		}
		width := len(strconv.Itoa(len(r.Elems)))
		var lines []string
		for i, e := range r.Elems {
			idx := strconv.Itoa(i + 1)
			prefix := strings.Repeat(" ", width-len(idx)) + idx + ") "
			pad := strings.Repeat(" ", len(prefix))
			for j, l := range textLines(e) {
				if j == 0 {
					lines = append(lines, prefix+l)
				} else {
					lines = append(lines, pad+l)
				}
			}
		}
		return lines
	default:
		return []string{""}
	}
}

// RawFormatter prints reply payloads without type annotations or quoting,
// one array element per line.
type RawFormatter struct{}

// Format writes r followed by a newline.
func (f *RawFormatter) Format(w io.Writer, r connection.Reply) error {
	_, err := io.WriteString(w, strings.Join(rawLines(r), "\n")+"\n")
	return err
}

func rawLines(r connection.Reply) []string {
	switch r.Kind {
	case connection.KindInteger:
		return []string{strconv.FormatInt(r.Int, 10)}
	case connection.KindNil:
		return []string{""}
	case connection.KindArray:
		lines := make([]string, 0, len(r.Elems))
		for _, e := range r.Elems {
			lines = append(lines, rawLines(e)...)
		}
		return lines
	default:
		return []string{r.Str}
	}
}
