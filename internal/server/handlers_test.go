package server

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/nirctl/internal/app"
	"github.com/mj1618/nirctl/internal/config"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/nircmd"
	"github.com/mj1618/nirctl/internal/notify"
	"github.com/mj1618/nirctl/internal/platform"
)

type fakeRunner struct {
	commands []string
}

func (f *fakeRunner) Execute(_ context.Context, line string, _ bool) (nircmd.Result, error) {
	f.commands = append(f.commands, line)
	return nircmd.Result{Command: line, Success: true}, nil
}

type countingEnumerator struct {
	calls int
}

func (c *countingEnumerator) Enumerate(context.Context) ([]model.Window, error) {
	c.calls++
	return []model.Window{
		{Handle: 0x100, PID: 10, Process: "Code.exe", Title: "main.go - Code"},
		{Handle: 0x200, PID: 20, Process: "notepad.exe", Title: "notes.txt"},
	}, nil
}

func newTestServer(t *testing.T) (*Server, *fakeRunner, *countingEnumerator) {
	t.Helper()
	dir := t.TempDir()
	run := &fakeRunner{}
	enum := &countingEnumerator{}
	a, err := app.New(context.Background(), app.Options{
		Config:     config.Config{DataDir: dir, GroupsFile: filepath.Join(dir, "app_groups.txt")},
		Enumerator: enum,
		Runner:     run,
		Notifier:   notify.New(false, nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return New(a, Config{CacheTTL: time.Minute}, nil), run, enum
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestListWindows_CachedUntilMutation(t *testing.T) {
	s, _, enum := newTestServer(t)

	text, isErr := call(t, s.handleListWindows, map[string]interface{}{"kind": "process", "value": "notepad.exe"})
	if isErr || !strings.Contains(text, "notes.txt") || strings.Contains(text, "Code.exe") {
		t.Errorf("filtered list:\n%s", text)
	}
	call(t, s.handleListWindows, nil)
	if enum.calls != 1 {
		t.Errorf("enumerations = %d, want 1 (cached)", enum.calls)
	}

	call(t, s.handleFreeze, map[string]interface{}{"kind": "process", "value": "Code.exe"})
	call(t, s.handleListWindows, map[string]interface{}{"apps": true})
	// freeze enumerates once itself, then the cache refills.
	if enum.calls != 3 {
		t.Errorf("enumerations = %d, want 3", enum.calls)
	}
}

func TestListWindows_BadKind(t *testing.T) {
	s, _, _ := newTestServer(t)
	text, isErr := call(t, s.handleListWindows, map[string]interface{}{"kind": "window", "value": "x"})
	if !isErr || !strings.Contains(text, "unknown target kind") {
		t.Errorf("got %v %q", isErr, text)
	}
}

func TestFreezeUnfreezeTools(t *testing.T) {
	s, run, _ := newTestServer(t)

	text, isErr := call(t, s.handleFreeze, map[string]interface{}{"kind": "process", "value": "Code.exe", "group": "Work"})
	if isErr || !strings.Contains(text, "Frozen: Code.exe (1 window(s), 1 process(es))") {
		t.Fatalf("freeze: %v\n%s", isErr, text)
	}

	text, _ = call(t, s.handleListFrozen, nil)
	if !strings.Contains(text, "group: Work") {
		t.Errorf("list_frozen:\n%s", text)
	}

	run.commands = nil
	text, isErr = call(t, s.handleUnfreeze, map[string]interface{}{"kind": "process", "value": "Code.exe", "group": "Work"})
	if isErr || !strings.Contains(text, "Unfrozen: Code.exe") {
		t.Errorf("unfreeze: %v\n%s", isErr, text)
	}
	if len(run.commands) == 0 || run.commands[0] != "resumeprocess /10" {
		t.Errorf("commands = %q", run.commands)
	}

	text, _ = call(t, s.handleListFrozen, nil)
	if strings.TrimSpace(text) != "[]" {
		t.Errorf("list_frozen after unfreeze: %q", text)
	}

	if _, isErr := call(t, s.handleFreeze, map[string]interface{}{"kind": "process"}); !isErr {
		t.Error("freeze without value should fail")
	}
}

func TestGroupTools(t *testing.T) {
	s, run, _ := newTestServer(t)

	if _, isErr := call(t, s.handleCreateGroup, map[string]interface{}{"name": "Work"}); isErr {
		t.Fatal("create_group failed")
	}
	if text, isErr := call(t, s.handleCreateGroup, map[string]interface{}{"name": "Work"}); !isErr || !strings.Contains(text, "already exists") {
		t.Errorf("duplicate create: %v %q", isErr, text)
	}
	if _, isErr := call(t, s.handleAddApp, map[string]interface{}{"group": "Work", "name": "Pad", "kind": "process", "value": "notepad.exe"}); isErr {
		t.Fatal("add_app failed")
	}
	if text, isErr := call(t, s.handleAddApp, map[string]interface{}{"group": "Work", "name": "Mail", "kind": "title", "value": "Inbox | Outlook"}); !isErr || !strings.Contains(text, "invalid group field") {
		t.Errorf("add_app with '|': %v %q", isErr, text)
	}
	if _, isErr := call(t, s.handleAddApp, map[string]interface{}{"group": "Nope", "name": "Pad", "kind": "process", "value": "x"}); !isErr {
		t.Error("add_app to missing group should fail")
	}

	text, _ := call(t, s.handleListGroups, nil)
	if !strings.Contains(text, "name: Pad") {
		t.Errorf("list_groups:\n%s", text)
	}

	text, isErr := call(t, s.handleRunGroup, map[string]interface{}{"name": "Work", "action": "close"})
	if isErr || !strings.Contains(text, "Executed 'close' on 1 apps in group 'Work'") {
		t.Errorf("run_group: %v\n%s", isErr, text)
	}
	if run.commands[len(run.commands)-1] != `win close process "notepad.exe"` {
		t.Errorf("commands = %q", run.commands)
	}

	if _, isErr := call(t, s.handleRemoveApp, map[string]interface{}{"group": "Work", "name": "Pad"}); isErr {
		t.Error("remove_app failed")
	}
	if _, isErr := call(t, s.handleDeleteGroup, map[string]interface{}{"name": "Work"}); isErr {
		t.Error("delete_group failed")
	}
	if _, isErr := call(t, s.handleDeleteGroup, map[string]interface{}{"name": "Work"}); !isErr {
		t.Error("second delete_group should fail")
	}
}

func TestExecAndSearchTools(t *testing.T) {
	s, run, _ := newTestServer(t)

	if _, isErr := call(t, s.handleExecCommand, map[string]interface{}{"command": "mutesysvolume 2"}); isErr {
		t.Error("exec_command failed")
	}
	if run.commands[0] != "mutesysvolume 2" {
		t.Errorf("commands = %q", run.commands)
	}
	if _, isErr := call(t, s.handleExecCommand, map[string]interface{}{}); !isErr {
		t.Error("exec_command without command should fail")
	}

	text, _ := call(t, s.handleSearchCommands, map[string]interface{}{"query": "volume"})
	if !strings.Contains(text, "setsysvolume") {
		t.Errorf("search_commands:\n%s", text)
	}
}

func TestServe_UnknownTransport(t *testing.T) {
	s, _, _ := newTestServer(t)
	if err := s.Serve(Config{Transport: "carrier-pigeon"}); err == nil {
		t.Error("expected error")
	}
}

var _ platform.Enumerator = (*countingEnumerator)(nil)
