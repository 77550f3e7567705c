package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"list", "freeze", "unfreeze", "frozen", "group", "exec", "do", "catalog", "history", "serve", "version"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"format", "pretty", "config", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q not found", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("v"); f == nil || f.Name != "verbose" {
		t.Error("-v should be shorthand for --verbose")
	}
}

func TestSubcommands_Registered(t *testing.T) {
	tests := []struct {
		parent string
		subs   []string
	}{
		{"group", []string{"list", "create", "delete", "add", "remove", "run"}},
		{"catalog", []string{"categories", "commands", "search", "info"}},
		{"history", []string{"list", "clear"}},
	}
	for _, tt := range tests {
		parent, _, err := rootCmd.Find([]string{tt.parent})
		if err != nil || parent.Name() != tt.parent {
			t.Errorf("%s: not found (%v)", tt.parent, err)
			continue
		}
		have := make(map[string]bool)
		for _, c := range parent.Commands() {
			have[c.Name()] = true
		}
		for _, s := range tt.subs {
			if !have[s] {
				t.Errorf("%s %s: not registered", tt.parent, s)
			}
		}
	}
}
