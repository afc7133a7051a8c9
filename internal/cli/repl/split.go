package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned by Split for a line with an open quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes in request")

// Split breaks line into arguments. Arguments are separated by
// whitespace; double quotes allow spaces and the escapes \n, \r, \t, \\,
// \" and \xHH; single quotes allow spaces and \' only.
func Split(line string) ([]string, error) {
	var (
		args []string
		cur  strings.Builder
		in   bool // inside an argument
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			if in {
				args = append(args, cur.String())
				cur.Reset()
				in = false
			}

		case ch == '"':
			in = true
			j, err := readDoubleQuoted(line, i+1, &cur)
			if err != nil {
				return nil, err
			}
			i = j

		case ch == '\'':
			in = true
			j, err := readSingleQuoted(line, i+1, &cur)
			if err != nil {
				return nil, err
			}
			i = j

		default:
			in = true
			cur.WriteByte(ch)
		}
	}
	if in {
		args = append(args, cur.String())
	}
	return args, nil
}

// readDoubleQuoted consumes a double-quoted section starting after the
// opening quote and returns the index of the closing quote.
func readDoubleQuoted(line string, i int, cur *strings.Builder) (int, error) {
	for ; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			return i, nil
		case ch == '\\' && i+1 < len(line):
			i++
			switch line[i] {
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			case 't':
				cur.WriteByte('\t')
			case 'x':
				if i+2 < len(line) {
					if b, err := strconv.ParseUint(line[i+1:i+3], 16, 8); err == nil {
						cur.WriteByte(byte(b))
						i += 2
						continue
					}
				}
				cur.WriteByte('x')
			default:
				cur.WriteByte(line[i])
			}
		default:
			cur.WriteByte(ch)
		}
	}
	return 0, ErrUnbalancedQuotes
}

func readSingleQuoted(line string, i int, cur *strings.Builder) (int, error) {
	for ; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '\'':
			return i, nil
		case ch == '\\' && i+1 < len(line) && line[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		default:
			cur.WriteByte(ch)
		}
	}
	return 0, ErrUnbalancedQuotes
}
