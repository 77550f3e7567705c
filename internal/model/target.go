package model

import (
	"errors"
	"fmt"
	"strings"
)

// TargetKind selects how a TargetSpec value is compared against a window.
type TargetKind int

const (
	KindProcess TargetKind = iota + 1
	KindClass
	KindTitle
	KindITitle
	KindHandle
	KindFolder
)

// ErrUnknownTargetKind is returned by ParseTargetKind for names outside the closed set.
var ErrUnknownTargetKind = errors.New("unknown target kind")

var kindNames = map[TargetKind]string{
	KindProcess: "process",
	KindClass:   "class",
	KindTitle:   "title",
	KindITitle:  "ititle",
	KindHandle:  "handle",
	KindFolder:  "folder",
}

// TargetKinds lists every kind in display order.
func TargetKinds() []TargetKind {
	return []TargetKind{KindProcess, KindClass, KindTitle, KindITitle, KindHandle, KindFolder}
}

// ParseTargetKind maps the wire name ("process", "ititle", ...) to a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid: process, class, title, ititle, handle, folder)", ErrUnknownTargetKind, s)
}

func (k TargetKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k TargetKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k TargetKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *TargetKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTargetKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TargetKind) UnmarshalText(b []byte) error {
	parsed, err := ParseTargetKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TargetSpec is a declarative window/process selector.
type TargetSpec struct {
	Kind      TargetKind `yaml:"kind"                json:"kind"`
	Value     string     `yaml:"value"               json:"value"`
	Recursive bool       `yaml:"recursive,omitempty" json:"recursive,omitempty"`
}

// NewTargetSpec parses kind and builds a spec. Recursive is dropped for
// every kind except folder.
func NewTargetSpec(kind, value string, recursive bool) (TargetSpec, error) {
	k, err := ParseTargetKind(strings.TrimSpace(kind))
	if err != nil {
		return TargetSpec{}, err
	}
	return TargetSpec{Kind: k, Value: value, Recursive: recursive && k == KindFolder}, nil
}

func (t TargetSpec) String() string {
	s := fmt.Sprintf("%s %q", t.Kind, t.Value)
	if t.Kind == KindFolder && t.Recursive {
		s += " (recursive)"
	}
	return s
}

// ImpliedProcess returns the process name the target itself names, if any.
func (t TargetSpec) ImpliedProcess() string {
	if t.Kind == KindProcess {
		return t.Value
	}
	return ""
}
