package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Window is one visible top-level window captured by an enumeration.
// Handles are only stable until the window closes.
type Window struct {
	Handle      Handle `yaml:"handle"            json:"handle"`
	PID         int    `yaml:"pid"               json:"pid"`
	Process     string `yaml:"process,omitempty" json:"process,omitempty"`
	ProcessPath string `yaml:"path,omitempty"    json:"path,omitempty"`
	Class       string `yaml:"class,omitempty"   json:"class,omitempty"`
	Title       string `yaml:"title,omitempty"   json:"title,omitempty"`
}

// Handle is an opaque native window handle.
type Handle uint64

// String renders the handle the way nircmd expects it: 0x followed by lowercase hex.
func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint64(h))
}

func (h Handle) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}

func (h Handle) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

// ParseHandle parses "0x1a2b" or "1a2b" into a Handle.
func ParseHandle(s string) (Handle, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, fmt.Errorf("empty handle")
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	return Handle(v), nil
}

// ProcessNameFromPath returns the executable file name of a full image path.
// Both separators are accepted regardless of host OS.
func ProcessNameFromPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}

// AppSummary is one running application aggregated from a window snapshot.
type AppSummary struct {
	Process string `yaml:"process" json:"process"`
	PID     int    `yaml:"pid"     json:"pid"`
	Windows int    `yaml:"windows" json:"windows"`
}

// SummarizeApps aggregates windows into unique (process, pid) pairs in first-seen order.
func SummarizeApps(windows []Window) []AppSummary {
	type key struct {
		name string
		pid  int
	}
	idx := make(map[key]int)
	apps := []AppSummary{}
	for _, w := range windows {
		k := key{w.Process, w.PID}
		if i, ok := idx[k]; ok {
			apps[i].Windows++
			continue
		}
		idx[k] = len(apps)
		apps = append(apps, AppSummary{Process: w.Process, PID: w.PID, Windows: 1})
	}
	return apps
}
