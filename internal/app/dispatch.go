package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/nirctl/internal/freeze"
	"github.com/mj1618/nirctl/internal/groups"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/nircmd"
)

const (
	prefixFreeze   = "win freeze "
	prefixUnfreeze = "win unfreeze "
	prefixGroup    = "group "
	recursiveFlag  = " recursive="
)

// Result is the outcome of one dispatched command line.
type Result struct {
	Command   string              `yaml:"command"           json:"command"`
	Success   bool                `yaml:"success"           json:"success"`
	Output    string              `yaml:"output,omitempty"  json:"output,omitempty"`
	Error     string              `yaml:"error,omitempty"   json:"error,omitempty"`
	Warning   string              `yaml:"warning,omitempty" json:"warning,omitempty"`
	ExitCode  int                 `yaml:"exit_code"         json:"exit_code"`
	ElapsedMs int64               `yaml:"elapsed_ms"        json:"elapsed_ms"`
	Freeze    *freeze.Outcome     `yaml:"freeze,omitempty"  json:"freeze,omitempty"`
	Batch     *groups.BatchResult `yaml:"batch,omitempty"   json:"batch,omitempty"`
	Groups    []model.AppGroup    `yaml:"groups,omitempty"  json:"groups,omitempty"`
}

func (r *Result) fail(format string, args ...interface{}) {
	r.Success = false
	r.ExitCode = 1
	r.Error = fmt.Sprintf(format, args...)
}

// Dispatch routes one command line. "win freeze", "win unfreeze" and
// "group ..." are handled internally; anything else is passed to nircmd.
// When wait is false passthrough commands are started in the background.
// Every line is recorded in the history. The returned error is reserved for
// a missing nircmd binary; other failures are reported in the Result.
func (a *App) Dispatch(ctx context.Context, line string, wait bool) (Result, error) {
	line = strings.TrimSpace(line)
	start := time.Now()
	res := Result{Command: line, Success: true}
	if line == "" {
		res.fail("empty command")
		return res, nil
	}

	var err error
	switch {
	case strings.HasPrefix(line, prefixFreeze):
		err = a.dispatchFreeze(ctx, &res, line[len(prefixFreeze):], false)
	case strings.HasPrefix(line, prefixUnfreeze):
		err = a.dispatchFreeze(ctx, &res, line[len(prefixUnfreeze):], true)
	case strings.HasPrefix(line, prefixGroup):
		err = a.dispatchGroup(ctx, &res, line[len(prefixGroup):])
	default:
		err = a.passthrough(ctx, &res, line, wait)
	}
	return a.finish(ctx, res, err, start)
}

// Group runs one group subcommand (list, create, delete, add, remove, run)
// with its arguments already split, so values keep embedded quotes and
// trailing backslashes. It is recorded in the history like a dispatched
// "group ..." line.
func (a *App) Group(ctx context.Context, args ...string) (Result, error) {
	start := time.Now()
	res := Result{Command: nircmd.BuildCommandLine("group", args...), Success: true}
	err := a.groupCommand(ctx, &res, args)
	return a.finish(ctx, res, err, start)
}

func (a *App) finish(ctx context.Context, res Result, err error, start time.Time) (Result, error) {
	if err != nil {
		res.fail("%v", err)
	}
	res.ElapsedMs = time.Since(start).Milliseconds()
	a.record(ctx, res.Command, res.Success, time.Since(start))
	if errors.Is(err, nircmd.ErrToolUnavailable) {
		return res, err
	}
	return res, nil
}

// ParseFreezeArgs splits "<kind> <value> [recursive=true|1]". The value
// runs to the end of the line and may be wrapped in double quotes.
func ParseFreezeArgs(rest string) (model.TargetSpec, error) {
	rest = strings.TrimSpace(rest)
	kind, value, ok := strings.Cut(rest, " ")
	if !ok {
		return model.TargetSpec{}, errors.New("usage: win freeze|unfreeze <kind> <value> [recursive=true]")
	}
	value = strings.TrimSpace(value)
	recursive := false
	if i := strings.Index(value, recursiveFlag); i >= 0 {
		flag := strings.TrimSpace(value[i+len(recursiveFlag):])
		recursive = flag == "true" || flag == "1"
		value = strings.TrimSpace(value[:i])
	}
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	if value == "" {
		return model.TargetSpec{}, errors.New("target value is empty")
	}
	return model.NewTargetSpec(kind, value, recursive)
}

func (a *App) dispatchFreeze(ctx context.Context, res *Result, rest string, unfreeze bool) error {
	spec, err := ParseFreezeArgs(rest)
	if err != nil {
		return err
	}
	var out freeze.Outcome
	if unfreeze {
		out, err = a.unfreeze(ctx, spec, "")
	} else {
		out, err = a.freeze(ctx, spec, "")
	}
	if err != nil {
		return err
	}
	res.Freeze = &out
	res.Output = out.Summary
	if !out.OK() {
		res.Success = false
		res.Error = firstFailedStep(out.Steps)
	}
	return nil
}

func (a *App) dispatchGroup(ctx context.Context, res *Result, rest string) error {
	words, err := nircmd.SplitCommandLine(rest)
	if err != nil {
		return err
	}
	return a.groupCommand(ctx, res, words)
}

func (a *App) groupCommand(ctx context.Context, res *Result, words []string) error {
	if len(words) == 0 {
		return errors.New("usage: group list|create|delete|add|remove|run")
	}
	arg := func(i int) string {
		if i < len(words) {
			return words[i]
		}
		return ""
	}

	switch sub := words[0]; sub {
	case "list":
		gs := a.Groups.Groups()
		res.Groups = gs
		res.Output = FormatGroups(gs)

	case "create":
		name := arg(1)
		if name == "" {
			return errors.New("usage: group create <name>")
		}
		if err := groups.ValidateGroupName(name); err != nil {
			return err
		}
		if !a.Groups.CreateGroup(name) {
			res.fail("Group already exists: %s", name)
			return nil
		}
		res.Output = "Created group: " + name

	case "delete":
		name := arg(1)
		if name == "" {
			return errors.New("usage: group delete <name>")
		}
		if !a.Groups.DeleteGroup(name) {
			res.fail("Group not found: %s", name)
			return nil
		}
		res.Output = "Deleted group: " + name

	case "add":
		group, name, kind, value := arg(1), arg(2), arg(3), arg(4)
		if group == "" || name == "" || kind == "" || value == "" {
			return errors.New("usage: group add <group> <name> <kind> <value> [recursive]")
		}
		flag := arg(5)
		spec, err := model.NewTargetSpec(kind, value, flag == "true" || flag == "1")
		if err != nil {
			return err
		}
		entry := model.AppEntry{Name: name, Target: spec}
		if err := groups.ValidateEntry(entry); err != nil {
			return err
		}
		if !a.Groups.AddApp(group, entry) {
			res.fail("Group not found: %s", group)
			return nil
		}
		res.Output = fmt.Sprintf("Added %s to %s", name, group)

	case "remove":
		group, name := arg(1), arg(2)
		if group == "" || name == "" {
			return errors.New("usage: group remove <group> <name>")
		}
		if !a.Groups.RemoveApp(group, name) {
			res.fail("Group or app not found")
			return nil
		}
		res.Output = fmt.Sprintf("Removed %s from %s", name, group)

	case "run":
		group, action := arg(1), arg(2)
		if group == "" || action == "" {
			return errors.New("usage: group run <group> <action>")
		}
		batch, err := a.runGroup(ctx, group, action)
		if err != nil {
			return err
		}
		res.Batch = &batch
		res.Output = batch.Summary
		if batch.Failed > 0 {
			res.Success = false
			res.Error = fmt.Sprintf("%d of %d entries failed", batch.Failed, batch.Processed)
		}

	default:
		return fmt.Errorf("unknown group subcommand %q", sub)
	}
	return nil
}

// passthrough checks line against the catalog, then hands it to nircmd.
// Catalog mismatches are reported as a warning only; nircmd has the final
// say on what it accepts.
func (a *App) passthrough(ctx context.Context, res *Result, line string, wait bool) error {
	res.Warning = a.checkCatalog(line)
	out, err := a.Exec.Execute(ctx, line, wait)
	if err != nil {
		return err
	}
	res.Success = out.Success
	res.ExitCode = out.ExitCode
	res.Output = strings.TrimSpace(out.Stdout)
	if !out.Success {
		res.Error = strings.TrimSpace(out.Stderr)
		if res.Error == "" {
			res.Error = fmt.Sprintf("exit code %d", out.ExitCode)
		}
	}
	return nil
}

func (a *App) checkCatalog(line string) string {
	if a.Catalog == nil {
		return ""
	}
	args, err := nircmd.SplitCommandLine(line)
	if err != nil {
		return ""
	}
	cmd, rest, ok := a.Catalog.Resolve(args)
	if !ok {
		a.log.Debug("command not in catalog, passing through", "command", line)
		return ""
	}
	if err := cmd.Validate(rest); err != nil {
		a.log.Warn("command does not match catalog", "command", line, "err", err)
		return err.Error()
	}
	return ""
}

// FormatGroups renders groups as an indented text listing.
func FormatGroups(gs []model.AppGroup) string {
	var b strings.Builder
	b.WriteString("App Groups:\n")
	for _, g := range gs {
		fmt.Fprintf(&b, "  %s (%d apps)\n", g.Name, len(g.Apps))
		for _, app := range g.Apps {
			fmt.Fprintf(&b, "    - %s [%s: %s]", app.Name, app.Target.Kind, app.Target.Value)
			if app.Target.Kind == model.KindFolder && app.Target.Recursive {
				b.WriteString(" (recursive)")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func firstFailedStep(steps []freeze.Step) string {
	for _, s := range steps {
		if !s.OK {
			return fmt.Sprintf("%s: %s", s.Command, s.Error)
		}
	}
	return ""
}
