package app

import (
	"context"
	"strings"
	"testing"
)

func TestRunStep(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, false)
	a.Groups.CreateGroup("Work")

	steps := []struct {
		action  string
		params  map[string]interface{}
		ok      bool
		wantErr string
		summary string
	}{
		{"freeze", map[string]interface{}{"kind": "process", "value": "Code.exe"}, true, "", "Frozen: Code.exe (2 window(s), 1 process(es))"},
		{"freeze", map[string]interface{}{"kind": "process"}, false, "kind and value are required", ""},
		{"unfreeze", map[string]interface{}{"all": true}, true, "", "Unfrozen: Code.exe"},
		{"unfreeze", map[string]interface{}{"id": "deadbeef"}, false, "frozen record not found", ""},
		{"unfreeze", map[string]interface{}{}, false, "or pass id", ""},
		{"group", map[string]interface{}{"name": "Work", "action": "max"}, true, "", "Executed 'max' on 0 apps in group 'Work'"},
		{"group", map[string]interface{}{"name": "Work"}, false, "name and action are required", ""},
		{"exec", map[string]interface{}{"command": "beep 500 100"}, true, "", ""},
		{"exec", map[string]interface{}{}, false, "command is required", ""},
		{"sleep", map[string]interface{}{"ms": 1}, true, "", ""},
		{"sleep", map[string]interface{}{"ms": 0}, false, "ms must be > 0", ""},
		{"click", nil, false, "unknown action", ""},
	}
	for _, s := range steps {
		res, err := a.RunStep(ctx, s.action, s.params)
		if s.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), s.wantErr) {
				t.Errorf("%s %v: err = %v, want %q", s.action, s.params, err, s.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s %v: unexpected error %v", s.action, s.params, err)
			continue
		}
		if res.OK != s.ok || res.Action != s.action {
			t.Errorf("%s %v: result = %+v", s.action, s.params, res)
		}
		if s.summary != "" && res.Summary != s.summary {
			t.Errorf("%s: summary = %q, want %q", s.action, res.Summary, s.summary)
		}
	}
}

func TestSleepStep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sleepStep(ctx, map[string]interface{}{"ms": 60000}); err == nil {
		t.Error("expected context error")
	}
}

func TestParams(t *testing.T) {
	p := map[string]interface{}{
		"s": "text", "n": 3, "f": 2.0, "b": true, "bs": "1", "num": 42, "nil": nil,
	}
	if got := StringParam(p, "s", ""); got != "text" {
		t.Errorf("StringParam = %q", got)
	}
	if got := StringParam(p, "num", ""); got != "42" {
		t.Errorf("StringParam(num) = %q", got)
	}
	if got := StringParam(p, "nil", "def"); got != "def" {
		t.Errorf("StringParam(nil) = %q", got)
	}
	if IntParam(p, "n", 0) != 3 || IntParam(p, "f", 0) != 2 || IntParam(p, "missing", 7) != 7 {
		t.Error("IntParam conversions")
	}
	if !BoolParam(p, "b", false) || !BoolParam(p, "bs", false) || BoolParam(p, "s", false) {
		t.Error("BoolParam conversions")
	}
}
