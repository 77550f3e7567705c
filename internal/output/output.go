package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mj1618/nirctl/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (expected yaml or json)", s)
	}
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ListResult is the top-level output of the `list` command.
type ListResult struct {
	TS      int64          `yaml:"ts"      json:"ts"`
	Count   int            `yaml:"count"   json:"count"`
	Windows []model.Window `yaml:"windows" json:"windows"`
}

// AppsResult is the output of `list --apps`.
type AppsResult struct {
	TS   int64              `yaml:"ts"   json:"ts"`
	Apps []model.AppSummary `yaml:"apps" json:"apps"`
}

// NewListResult stamps a window snapshot with the current time.
func NewListResult(windows []model.Window) ListResult {
	if windows == nil {
		windows = []model.Window{}
	}
	return ListResult{TS: time.Now().Unix(), Count: len(windows), Windows: windows}
}

// NewAppsResult aggregates a window snapshot into applications.
func NewAppsResult(windows []model.Window) AppsResult {
	return AppsResult{TS: time.Now().Unix(), Apps: model.SummarizeApps(windows)}
}

// MessageResult is a minimal acknowledgement for commands without a richer result.
type MessageResult struct {
	OK      bool   `yaml:"ok"      json:"ok"`
	Message string `yaml:"message" json:"message"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return EncodeJSON(w, v, PrettyOutput)
	case FormatYAML:
		return EncodeYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}
