package groups

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mj1618/nirctl/internal/model"
)

// GroupMarker starts a group header line in the app groups file.
const GroupMarker = "[GROUP]"

// ErrInvalidField is returned for names and values the file format cannot
// hold: a field separator in an entry, or a line break anywhere.
var ErrInvalidField = errors.New("invalid group field")

// ValidateGroupName reports whether name can be stored as a group header.
func ValidateGroupName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: group name is empty", ErrInvalidField)
	case strings.ContainsAny(name, "\r\n"):
		return fmt.Errorf("%w: group name %q contains a line break", ErrInvalidField, name)
	}
	return nil
}

// ValidateEntry reports whether e can be stored as an entry line.
func ValidateEntry(e model.AppEntry) error {
	if e.Name == "" || e.Target.Value == "" {
		return fmt.Errorf("%w: app name and value are required", ErrInvalidField)
	}
	if strings.HasPrefix(e.Name, GroupMarker) {
		return fmt.Errorf("%w: app name %q starts with %s", ErrInvalidField, e.Name, GroupMarker)
	}
	for _, f := range []string{e.Name, e.Target.Value} {
		if strings.ContainsAny(f, "|\r\n") {
			return fmt.Errorf("%w: %q contains '|' or a line break", ErrInvalidField, f)
		}
	}
	return nil
}

// ParseError describes a line that could not be parsed. Parse skips such
// lines and reports them so the caller can log them.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

// Parse reads the line-oriented groups format:
//
//	[GROUP]Work
//	VS Code|process|Code.exe|0
//	Tools|folder|C:\Tools|1
//
// Entry lines with only three fields load as non-recursive.
func Parse(r io.Reader) ([]model.AppGroup, []ParseError, error) {
	var groups []model.AppGroup
	var skipped []ParseError
	current := -1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if n == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, GroupMarker) {
			groups = append(groups, model.AppGroup{Name: line[len(GroupMarker):]})
			current = len(groups) - 1
			continue
		}
		if current < 0 {
			skipped = append(skipped, ParseError{Line: n, Text: line, Err: fmt.Errorf("entry outside of a group")})
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			skipped = append(skipped, ParseError{Line: n, Text: line, Err: err})
			continue
		}
		groups[current].Apps = append(groups[current].Apps, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, err
	}
	return groups, skipped, nil
}

func parseEntry(line string) (model.AppEntry, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return model.AppEntry{}, fmt.Errorf("expected name|type|value[|recursive], got %d field(s)", len(fields))
	}
	kind, err := model.ParseTargetKind(fields[1])
	if err != nil {
		return model.AppEntry{}, err
	}
	recursive := false
	if len(fields) >= 4 {
		recursive = fields[3] == "1"
	}
	return model.AppEntry{
		Name:   fields[0],
		Target: model.TargetSpec{Kind: kind, Value: fields[2], Recursive: recursive},
	}, nil
}

// Write serializes groups in the format read by Parse. The recursive flag
// is always written.
func Write(w io.Writer, groups []model.AppGroup) error {
	bw := bufio.NewWriter(w)
	for _, g := range groups {
		if _, err := fmt.Fprintf(bw, "%s%s\n", GroupMarker, g.Name); err != nil {
			return err
		}
		for _, a := range g.Apps {
			flag := "0"
			if a.Target.Recursive {
				flag = "1"
			}
			if _, err := fmt.Fprintf(bw, "%s|%s|%s|%s\n", a.Name, a.Target.Kind, a.Target.Value, flag); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
