package model

import (
	"runtime"
	"strings"
)

// caseInsensitiveFS reports whether process names should be compared the
// way the host filesystem compares file names.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// Match returns the windows selected by spec. It never returns nil; zero
// matches is a normal result (the target app may simply not be running).
func Match(spec TargetSpec, windows []Window) []Window {
	result := []Window{}
	if spec.Value == "" {
		return result
	}
	match := matcherFor(spec)
	if match == nil {
		return result
	}
	for _, w := range windows {
		if match(w) {
			result = append(result, w)
		}
	}
	return result
}

func matcherFor(spec TargetSpec) func(Window) bool {
	switch spec.Kind {
	case KindProcess:
		return func(w Window) bool { return sameFileName(w.Process, spec.Value) }
	case KindClass:
		return func(w Window) bool { return w.Class == spec.Value }
	case KindTitle:
		return func(w Window) bool { return strings.Contains(w.Title, spec.Value) }
	case KindITitle:
		needle := strings.ToLower(spec.Value)
		return func(w Window) bool { return strings.Contains(strings.ToLower(w.Title), needle) }
	case KindHandle:
		want := spec.Value
		if h, err := ParseHandle(want); err == nil {
			want = h.String()
		}
		return func(w Window) bool { return strings.EqualFold(w.Handle.String(), want) }
	case KindFolder:
		return func(w Window) bool { return InFolder(w.ProcessPath, spec.Value, spec.Recursive) }
	}
	return nil
}

func sameFileName(a, b string) bool {
	if caseInsensitiveFS {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// NormalizeFolder converts separators to backslashes and strips trailing ones.
func NormalizeFolder(p string) string {
	p = strings.ReplaceAll(p, "/", `\`)
	return strings.TrimRight(p, `\`)
}

// InFolder reports whether the executable at path lives in folder. Without
// recursive, the executable must sit directly inside folder.
func InFolder(path, folder string, recursive bool) bool {
	path = strings.ReplaceAll(path, "/", `\`)
	folder = NormalizeFolder(folder)
	if folder == "" || len(path) <= len(folder) {
		return false
	}
	if !strings.EqualFold(path[:len(folder)], folder) {
		return false
	}
	if path[len(folder)] != '\\' {
		return false
	}
	if recursive {
		return true
	}
	return !strings.Contains(path[len(folder)+1:], `\`)
}
