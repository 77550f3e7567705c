package model

import "time"

// AppEntry is a named target bound to a group.
type AppEntry struct {
	Name   string     `yaml:"name"   json:"name"`
	Target TargetSpec `yaml:"target" json:"target"`
}

// AppGroup is an ordered list of entries under a unique name.
type AppGroup struct {
	Name string     `yaml:"name" json:"name"`
	Apps []AppEntry `yaml:"apps" json:"apps"`
}

// FrozenRecord tracks one frozen unit: either a matched window or a
// synthetic entry created when nothing matched (Handle and PID zero).
type FrozenRecord struct {
	ID          string     `yaml:"id"                json:"id"`
	BatchID     string     `yaml:"batch"             json:"batch"`
	Group       string     `yaml:"group,omitempty"   json:"group,omitempty"`
	Target      TargetSpec `yaml:"target"            json:"target"`
	ProcessName string     `yaml:"process,omitempty" json:"process,omitempty"`
	ClassName   string     `yaml:"class,omitempty"   json:"class,omitempty"`
	WindowTitle string     `yaml:"title,omitempty"   json:"title,omitempty"`
	Handle      Handle     `yaml:"handle,omitempty"  json:"handle,omitempty"`
	PID         int        `yaml:"pid,omitempty"     json:"pid,omitempty"`
	FrozenAt    time.Time  `yaml:"frozen_at"         json:"frozen_at"`
}

// Synthetic reports whether the record was created without a live window match.
func (r FrozenRecord) Synthetic() bool {
	return r.Handle == 0 && r.PID == 0
}
