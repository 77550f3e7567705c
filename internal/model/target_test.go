package model

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseTargetKind(t *testing.T) {
	for _, k := range TargetKinds() {
		got, err := ParseTargetKind(k.String())
		if err != nil {
			t.Fatalf("ParseTargetKind(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseTargetKind(%q) = %v, want %v", k.String(), got, k)
		}
	}

	_, err := ParseTargetKind("Process")
	if !errors.Is(err, ErrUnknownTargetKind) {
		t.Errorf("expected ErrUnknownTargetKind for mixed case, got %v", err)
	}
}

func TestNewTargetSpec_RecursiveOnlyForFolder(t *testing.T) {
	spec, err := NewTargetSpec("process", "Code.exe", true)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Recursive {
		t.Error("recursive should be dropped for process targets")
	}

	spec, err = NewTargetSpec("folder", `C:\Apps`, true)
	if err != nil {
		t.Fatal(err)
	}
	if !spec.Recursive {
		t.Error("recursive should be kept for folder targets")
	}
}

func TestTargetSpec_YAMLUsesKindName(t *testing.T) {
	spec := TargetSpec{Kind: KindITitle, Value: "notes"}
	b, err := yaml.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "kind: ititle\nvalue: notes\n" {
		t.Errorf("unexpected yaml:\n%s", b)
	}

	var decoded TargetSpec
	if err := yaml.Unmarshal([]byte("kind: folder\nvalue: C:/Apps\nrecursive: true\n"), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Kind != KindFolder || !decoded.Recursive {
		t.Errorf("decoded = %+v", decoded)
	}

	if err := yaml.Unmarshal([]byte("kind: window\nvalue: x\n"), &decoded); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestTargetSpec_JSONUsesKindName(t *testing.T) {
	b, err := json.Marshal(TargetSpec{Kind: KindHandle, Value: "0x10"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"kind":"handle","value":"0x10"}` {
		t.Errorf("got %s", b)
	}
}

func TestHandle(t *testing.T) {
	if got := Handle(0xABC).String(); got != "0xabc" {
		t.Errorf("String() = %q", got)
	}
	h, err := ParseHandle("0x1F")
	if err != nil || h != 0x1f {
		t.Errorf("ParseHandle = %v, %v", h, err)
	}
	if _, err := ParseHandle("0xzz"); err == nil {
		t.Error("expected error for non-hex handle")
	}
}

func TestSummarizeApps(t *testing.T) {
	apps := SummarizeApps(sampleWindows())
	if len(apps) != 3 {
		t.Fatalf("got %d apps, want 3", len(apps))
	}
	if apps[0].Process != "A.exe" || apps[0].Windows != 2 {
		t.Errorf("first app = %+v", apps[0])
	}
}

func TestProcessNameFromPath(t *testing.T) {
	if got := ProcessNameFromPath(`C:\Program Files\App\app.exe`); got != "app.exe" {
		t.Errorf("got %q", got)
	}
	if got := ProcessNameFromPath(""); got != "" {
		t.Errorf("got %q", got)
	}
}
