package platform

import (
	"testing"

	"github.com/mj1618/nirctl/internal/model"
)

func TestListOptions_Filter(t *testing.T) {
	windows := []model.Window{
		{Handle: 1, PID: 10, Process: "code.exe", Title: "main.go - Code"},
		{Handle: 2, PID: 10, Process: "code.exe", Title: "Settings"},
		{Handle: 3, PID: 20, Process: "notepad.exe", Title: "Untitled"},
	}
	code := model.TargetSpec{Kind: model.KindProcess, Value: "code.exe"}
	ghost := model.TargetSpec{Kind: model.KindTitle, Value: "nothing here"}

	tests := []struct {
		name string
		opts ListOptions
		want []model.Handle
	}{
		{"all", ListOptions{}, []model.Handle{1, 2, 3}},
		{"by pid", ListOptions{PID: 20}, []model.Handle{3}},
		{"by target", ListOptions{Target: &code}, []model.Handle{1, 2}},
		{"target and pid", ListOptions{Target: &code, PID: 20}, nil},
		{"no match", ListOptions{Target: &ghost}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.Filter(windows)
			if got == nil {
				t.Fatal("Filter returned nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d windows, want %d", len(got), len(tt.want))
			}
			for i, h := range tt.want {
				if got[i].Handle != h {
					t.Errorf("window %d = %v, want %v", i, got[i].Handle, h)
				}
			}
		})
	}

	if got := (ListOptions{}).Filter(nil); got == nil {
		t.Error("nil snapshot should give empty slice")
	}
}
