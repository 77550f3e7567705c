package groups

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mj1618/nirctl/internal/freeze"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/nircmd"
)

type fakeRunner struct {
	commands []string
	fail     map[string]bool
	err      error
}

func (f *fakeRunner) Execute(_ context.Context, line string, _ bool) (nircmd.Result, error) {
	f.commands = append(f.commands, line)
	if f.err != nil {
		return nircmd.Result{ExitCode: -1}, f.err
	}
	if f.fail[line] {
		return nircmd.Result{Command: line, ExitCode: 2}, nil
	}
	return nircmd.Result{Command: line, Success: true}, nil
}

type fakeEnumerator []model.Window

func (f fakeEnumerator) Enumerate(context.Context) ([]model.Window, error) { return f, nil }

type fixture struct {
	store   *Store
	tracker *freeze.Tracker
	exec    *fakeRunner
	runner  *Runner
}

func newFixture(windows ...model.Window) fixture {
	exec := &fakeRunner{}
	store := NewStore("", nil)
	tracker := freeze.NewTracker(nil, nil)
	engine := freeze.NewEngine(fakeEnumerator(windows), exec, nil)
	return fixture{
		store:   store,
		tracker: tracker,
		exec:    exec,
		runner:  NewRunner(store, engine, tracker, exec, nil),
	}
}

func TestRun_FreezeContinuesPastZeroMatch(t *testing.T) {
	f := newFixture(
		model.Window{Handle: 0x1, PID: 11, Process: "Code.exe"},
		model.Window{Handle: 0x2, PID: 22, Process: "slack.exe"},
	)
	f.store.CreateGroup("Work")
	f.store.AddApp("Work", entry("VS Code", "process", "Code.exe", false))
	f.store.AddApp("Work", entry("Ghost", "process", "ghost.exe", false))
	f.store.AddApp("Work", entry("Slack", "process", "slack.exe", false))

	res, err := f.runner.Run(context.Background(), "Work", ActionFreeze)
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 3 || len(res.Entries) != 3 {
		t.Fatalf("processed %d entries, want 3", res.Processed)
	}
	wantSummaries := []string{
		"Frozen: Code.exe (1 window(s), 1 process(es))",
		"Frozen: ghost.exe (1 window(s), 0 process(es))",
		"Frozen: slack.exe (1 window(s), 1 process(es))",
	}
	for i, w := range wantSummaries {
		if res.Entries[i].Summary != w {
			t.Errorf("entry %d summary = %q, want %q", i, res.Entries[i].Summary, w)
		}
	}
	if res.Summary != "Executed 'freeze' on 3 apps in group 'Work'" {
		t.Errorf("summary = %q", res.Summary)
	}
	if f.tracker.Len() != 3 {
		t.Errorf("tracker holds %d records, want 3", f.tracker.Len())
	}
	for _, r := range f.tracker.List() {
		if r.Group != "Work" {
			t.Errorf("record group = %q, want Work", r.Group)
		}
	}
}

func TestRun_UnfreezeUsesTrackedRecords(t *testing.T) {
	f := newFixture(model.Window{Handle: 0xa, PID: 5, Process: "Code.exe"})
	f.store.CreateGroup("Work")
	f.store.AddApp("Work", entry("VS Code", "process", "Code.exe", false))

	if _, err := f.runner.Run(context.Background(), "Work", ActionFreeze); err != nil {
		t.Fatal(err)
	}
	f.exec.commands = nil

	if _, err := f.runner.Run(context.Background(), "Work", ActionUnfreeze); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"resumeprocess /5",
		"win show handle 0xa",
		"win normal handle 0xa",
		"win activate handle 0xa",
	}
	if !reflect.DeepEqual(f.exec.commands, want) {
		t.Errorf("commands = %q, want %q", f.exec.commands, want)
	}
	if f.tracker.Len() != 0 {
		t.Errorf("records should be consumed, %d left", f.tracker.Len())
	}
}

func TestRun_UnfreezeHandleEntryResumesTrackedWindow(t *testing.T) {
	f := newFixture(model.Window{Handle: 0xa, PID: 5, Process: "Code.exe"})
	f.tracker.Add(context.Background(), model.FrozenRecord{
		Target: model.TargetSpec{Kind: model.KindProcess, Value: "Code.exe"},
		Handle: 0xa,
		PID:    5,
	})
	f.store.CreateGroup("Work")
	f.store.AddApp("Work", entry("Editor", "handle", "0xa", false))

	if _, err := f.runner.Run(context.Background(), "Work", ActionUnfreeze); err != nil {
		t.Fatal(err)
	}
	if len(f.exec.commands) == 0 || f.exec.commands[0] != "resumeprocess /5" {
		t.Errorf("commands = %q", f.exec.commands)
	}
	if f.tracker.Len() != 0 {
		t.Errorf("%d record(s) left", f.tracker.Len())
	}
}

func TestRun_UnfreezeUntrackedSynthesizes(t *testing.T) {
	f := newFixture()
	f.store.CreateGroup("G")
	f.store.AddApp("G", entry("Code", "process", "Code.exe", false))
	f.store.AddApp("G", entry("Report", "ititle", "report", false))

	res, err := f.runner.Run(context.Background(), "G", ActionUnfreeze)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"resumeprocess Code.exe",
		`win show process "Code.exe"`,
		`win normal process "Code.exe"`,
		`win show ititle "report"`,
		`win normal ititle "report"`,
	}
	if !reflect.DeepEqual(f.exec.commands, want) {
		t.Errorf("commands = %q, want %q", f.exec.commands, want)
	}
	if res.Processed != 2 {
		t.Errorf("processed = %d", res.Processed)
	}
}

func TestRun_PassthroughAction(t *testing.T) {
	f := newFixture()
	f.exec.fail = map[string]bool{`win min title "Two"`: true}
	f.store.CreateGroup("G")
	f.store.AddApp("G", entry("One", "process", "one.exe", false))
	f.store.AddApp("G", entry("Two", "title", "Two", false))
	f.store.AddApp("G", entry("Three", "folder", `C:\Apps`, true))

	res, err := f.runner.Run(context.Background(), "G", "min")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`win min process "one.exe"`,
		`win min title "Two"`,
		`win min folder "C:\Apps"`,
	}
	if !reflect.DeepEqual(f.exec.commands, want) {
		t.Errorf("commands = %q, want %q", f.exec.commands, want)
	}
	if res.Processed != 3 || res.Failed != 1 {
		t.Errorf("processed=%d failed=%d", res.Processed, res.Failed)
	}
	if res.Entries[1].OK || res.Entries[1].Error != "exit code 2" {
		t.Errorf("second entry = %+v", res.Entries[1])
	}
}

func TestRun_Errors(t *testing.T) {
	f := newFixture()
	if _, err := f.runner.Run(context.Background(), "nope", "min"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}

	f.store.CreateGroup("G")
	if _, err := f.runner.Run(context.Background(), "G", "min now"); err == nil {
		t.Error("expected error for action with spaces")
	}

	f.store.AddApp("G", entry("One", "process", "one.exe", false))
	f.exec.err = nircmd.ErrToolUnavailable
	if _, err := f.runner.Run(context.Background(), "G", "hide"); !errors.Is(err, nircmd.ErrToolUnavailable) {
		t.Errorf("expected ErrToolUnavailable, got %v", err)
	}
}

func TestRun_EmptyGroup(t *testing.T) {
	f := newFixture()
	f.store.CreateGroup("Empty")
	res, err := f.runner.Run(context.Background(), "Empty", "show")
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 0 || res.Summary != "Executed 'show' on 0 apps in group 'Empty'" {
		t.Errorf("unexpected result %+v", res)
	}
}
