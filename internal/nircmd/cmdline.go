package nircmd

import (
	"errors"
	"strings"
)

// SplitCommandLine splits a command line into arguments, honoring double
// quotes. Backslashes are literal (Windows paths) except before a quote.
func SplitCommandLine(input string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuote := false
	started := false

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			started = true
			i++
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if inQuote {
		return nil, errors.New("unterminated quote in command")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}

// BuildCommandLine joins a command with its parameters, quoting any
// parameter that contains a space and is not already quoted.
func BuildCommandLine(command string, params ...string) string {
	var b strings.Builder
	b.WriteString(command)
	for _, p := range params {
		if p == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(quoteIfNeeded(p))
	}
	return b.String()
}

func quoteIfNeeded(p string) string {
	if strings.Contains(p, " ") && !strings.HasPrefix(p, `"`) {
		return `"` + p + `"`
	}
	return p
}

// Verb returns the leading command word(s) used to label metrics and logs:
// "win hide" for window commands, the first word otherwise.
func Verb(commandLine string) string {
	fields := strings.Fields(commandLine)
	switch {
	case len(fields) == 0:
		return ""
	case len(fields) >= 2 && (fields[0] == "win" || fields[0] == "service" || fields[0] == "clipboard"):
		return fields[0] + " " + fields[1]
	default:
		return fields[0]
	}
}
