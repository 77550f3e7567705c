package platform

import "github.com/mj1618/nirctl/internal/model"

// ListOptions controls window/app listing.
type ListOptions struct {
	Target *model.TargetSpec // Only windows matching this target (nil = all)
	PID    int               // Filter by PID (0 = unset)
	Apps   bool              // Aggregate into applications instead of windows
}

// Filter applies the target and PID filters to a snapshot.
func (o ListOptions) Filter(windows []model.Window) []model.Window {
	if o.Target != nil {
		windows = model.Match(*o.Target, windows)
	}
	if o.PID == 0 {
		if windows == nil {
			return []model.Window{}
		}
		return windows
	}
	out := []model.Window{}
	for _, w := range windows {
		if w.PID == o.PID {
			out = append(out, w)
		}
	}
	return out
}
