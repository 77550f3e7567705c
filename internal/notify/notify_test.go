package notify

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

type captured struct {
	title, message string
	calls          int
}

func withFake(n *Notifier, c *captured, err error) {
	n.send = func(title, message string, _ any) error {
		c.calls++
		c.title, c.message = title, message
		return err
	}
}

func TestNotify_Disabled(t *testing.T) {
	var c captured
	n := New(false, nil)
	withFake(n, &c, nil)
	n.Notify("t", "m")
	if c.calls != 0 {
		t.Errorf("disabled notifier sent %d messages", c.calls)
	}

	var nilNotifier *Notifier
	if nilNotifier.Enabled() {
		t.Error("nil notifier should be disabled")
	}
	nilNotifier.Notify("t", "m")
}

func TestNotify_Enabled(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		message   string
		wantTitle string
		wantLen   int
	}{
		{"plain", "Group run", "done", "Group run", 4},
		{"default title", "  ", "done", "nirctl", 4},
		{"truncated", "x", strings.Repeat("a", 900), "x", maxMessage + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c captured
			n := New(true, nil)
			withFake(n, &c, nil)
			n.Notify(tt.title, tt.message)
			if c.calls != 1 {
				t.Fatalf("calls = %d", c.calls)
			}
			if c.title != tt.wantTitle || len(c.message) != tt.wantLen {
				t.Errorf("got title %q len %d", c.title, len(c.message))
			}
		})
	}
}

func TestNotify_SendErrorSwallowed(t *testing.T) {
	var c captured
	n := New(true, nil)
	withFake(n, &c, errors.New("no dbus"))
	n.Notify("t", "m")
	if c.calls != 1 {
		t.Errorf("calls = %d", c.calls)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// "é" is two bytes; a byte cut at 5 would split the third one.
	got := truncate("ééééé", 5)
	if got != "éé..." {
		t.Errorf("truncate = %q", got)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated message is not valid UTF-8")
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("short message changed: %q", got)
	}

	long := strings.Repeat("日本", 300)
	if out := truncate(long, maxMessage); !utf8.ValidString(out) || len(out) > maxMessage+3 {
		t.Errorf("long message: valid=%v len=%d", utf8.ValidString(out), len(out))
	}
}
