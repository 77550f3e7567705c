package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mj1618/nirctl/internal/freeze"
	"github.com/mj1618/nirctl/internal/metrics"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/nircmd"
)

// Actions with dedicated handling. Any other word is passed to nircmd as
// "win <action> <kind> <value>".
const (
	ActionFreeze   = "freeze"
	ActionUnfreeze = "unfreeze"
)

// KnownActions lists the actions offered by the CLI and MCP tool descriptions.
var KnownActions = []string{"min", "max", "normal", "close", "hide", "show", ActionFreeze, ActionUnfreeze}

// EntryResult is the outcome of one group entry.
type EntryResult struct {
	Name    string           `yaml:"name"             json:"name"`
	Target  model.TargetSpec `yaml:"target"           json:"target"`
	OK      bool             `yaml:"ok"               json:"ok"`
	Summary string           `yaml:"summary"          json:"summary"`
	Error   string           `yaml:"error,omitempty"  json:"error,omitempty"`
	Steps   []freeze.Step    `yaml:"steps,omitempty"  json:"steps,omitempty"`
}

// BatchResult is the outcome of running one action over a group.
type BatchResult struct {
	Group     string        `yaml:"group"     json:"group"`
	Action    string        `yaml:"action"    json:"action"`
	Processed int           `yaml:"processed" json:"processed"`
	Failed    int           `yaml:"failed"    json:"failed"`
	Entries   []EntryResult `yaml:"entries"   json:"entries"`
	Summary   string        `yaml:"summary"   json:"summary"`
}

// Runner applies an action to every entry of a group, sequentially. A
// failing entry is recorded and the batch continues.
type Runner struct {
	store   *Store
	engine  *freeze.Engine
	tracker *freeze.Tracker
	exec    freeze.Runner
	log     *slog.Logger
}

// NewRunner wires a batch runner.
func NewRunner(store *Store, engine *freeze.Engine, tracker *freeze.Tracker, exec freeze.Runner, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{store: store, engine: engine, tracker: tracker, exec: exec, log: log}
}

// Run applies action to each entry of groupName. It fails only for an
// unknown group, an invalid action, or a missing nircmd binary.
func (r *Runner) Run(ctx context.Context, groupName, action string) (BatchResult, error) {
	res := BatchResult{Group: groupName, Action: action, Entries: []EntryResult{}}
	action = strings.TrimSpace(action)
	if action == "" || strings.ContainsAny(action, " \t\"") {
		return res, fmt.Errorf("invalid action %q", action)
	}
	g, ok := r.store.Group(groupName)
	if !ok {
		return res, fmt.Errorf("%w: %s", ErrGroupNotFound, groupName)
	}

	for _, entry := range g.Apps {
		er, err := r.runEntry(ctx, g.Name, action, entry)
		if errors.Is(err, nircmd.ErrToolUnavailable) {
			return res, err
		}
		res.Processed++
		if !er.OK {
			res.Failed++
		}
		metrics.IncGroupEntry(action, er.OK)
		r.log.Info("group entry", "group", g.Name, "action", action, "app", entry.Name, "ok", er.OK, "summary", er.Summary)
		res.Entries = append(res.Entries, er)
	}

	res.Summary = fmt.Sprintf("Executed '%s' on %d apps in group '%s'", action, res.Processed, g.Name)
	return res, nil
}

func (r *Runner) runEntry(ctx context.Context, group, action string, entry model.AppEntry) (EntryResult, error) {
	er := EntryResult{Name: entry.Name, Target: entry.Target}

	switch action {
	case ActionFreeze:
		out, err := r.engine.Freeze(ctx, freeze.Request{Target: entry.Target, Group: group})
		if err != nil {
			return er, err
		}
		r.tracker.Add(ctx, out.Records...)
		er.Summary, er.Steps, er.OK = out.Summary, out.Steps, out.OK()

	case ActionUnfreeze:
		recs, err := r.tracker.TakeTarget(ctx, group, entry.Target)
		if errors.Is(err, freeze.ErrRecordNotFound) {
			recs = []model.FrozenRecord{{
				Group:       group,
				Target:      entry.Target,
				ProcessName: entry.Target.ImpliedProcess(),
			}}
		}
		out, err := r.engine.UnfreezeAll(ctx, recs)
		if err != nil {
			return er, err
		}
		er.Summary, er.Steps, er.OK = out.Summary, out.Steps, out.OK()

	default:
		line := nircmd.WinBySpec(action, entry.Target)
		res, err := r.exec.Execute(ctx, line, true)
		if err != nil {
			return er, err
		}
		er.OK = res.Success
		er.Steps = []freeze.Step{{Command: line, OK: res.Success, ExitCode: res.ExitCode, ElapsedMs: res.ElapsedMs}}
		if res.Success {
			er.Summary = fmt.Sprintf("%s: %s", action, entry.Name)
		} else {
			er.Error = strings.TrimSpace(res.Stderr)
			if er.Error == "" {
				er.Error = fmt.Sprintf("exit code %d", res.ExitCode)
			}
			er.Steps[0].Error = er.Error
			er.Summary = fmt.Sprintf("%s failed: %s", action, entry.Name)
		}
	}

	if !er.OK && er.Error == "" {
		er.Error = firstStepError(er.Steps)
	}
	return er, nil
}

func firstStepError(steps []freeze.Step) string {
	for _, s := range steps {
		if !s.OK {
			return fmt.Sprintf("%s: %s", s.Command, s.Error)
		}
	}
	return ""
}
