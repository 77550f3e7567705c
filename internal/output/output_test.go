package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/mj1618/nirctl/internal/model"
	"gopkg.in/yaml.v3"
)

func TestPrintYAML(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := PrintYAML(sampleList())
	w.Close()
	os.Stdout = old

	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	// YAML output should be multi-line
	if bytes.Count([]byte(output), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["count"] != 1 {
		t.Errorf("count: got %v, want 1", decoded["count"])
	}
	if !strings.Contains(output, "0x1a2b") {
		t.Errorf("handle should render as hex:\n%s", output)
	}
}

func TestFprint_Formats(t *testing.T) {
	defer func(f Format) { OutputFormat = f }(OutputFormat)

	tests := []struct {
		format Format
		want   string
	}{
		{FormatYAML, "message: done\n"},
		{FormatJSON, `"message":"done"`},
	}
	for _, tt := range tests {
		OutputFormat = tt.format
		var buf bytes.Buffer
		if err := Fprint(&buf, MessageResult{OK: true, Message: "done"}); err != nil {
			t.Fatalf("%s: %v", tt.format, err)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("%s output %q missing %q", tt.format, buf.String(), tt.want)
		}
	}

	OutputFormat = "xml"
	if err := Fprint(&bytes.Buffer{}, MessageResult{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %q, %v", f, err)
	}
	if _, err := ParseFormat("JSON"); err == nil {
		t.Error("format names are case-sensitive")
	}
}

func TestNewResults(t *testing.T) {
	windows := []model.Window{
		{Handle: 1, PID: 10, Process: "a.exe"},
		{Handle: 2, PID: 10, Process: "a.exe"},
		{Handle: 3, PID: 11, Process: "b.exe"},
	}
	if got := NewListResult(nil); got.Windows == nil || got.Count != 0 {
		t.Errorf("NewListResult(nil) = %+v", got)
	}
	apps := NewAppsResult(windows)
	if len(apps.Apps) != 2 || apps.Apps[0].Windows != 2 {
		t.Errorf("apps = %+v", apps.Apps)
	}
}
