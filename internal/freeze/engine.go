package freeze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mj1618/nirctl/internal/metrics"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/nircmd"
)

// Runner executes one nircmd command line.
type Runner interface {
	Execute(ctx context.Context, commandLine string, wait bool) (nircmd.Result, error)
}

// Enumerator produces a fresh snapshot of visible top-level windows.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]model.Window, error)
}

// Step is the outcome of a single external command issued by the engine.
type Step struct {
	Command   string `yaml:"command"          json:"command"`
	OK        bool   `yaml:"ok"               json:"ok"`
	ExitCode  int    `yaml:"exit_code"        json:"exit_code"`
	Error     string `yaml:"error,omitempty"  json:"error,omitempty"`
	ElapsedMs int64  `yaml:"elapsed_ms"       json:"elapsed_ms"`
}

// Outcome summarizes a freeze or unfreeze. Steps are best-effort: a failed
// step never stops the ones after it.
type Outcome struct {
	Target    model.TargetSpec     `yaml:"target"             json:"target"`
	Windows   int                  `yaml:"windows"            json:"windows"`
	Processes int                  `yaml:"processes"          json:"processes"`
	Records   []model.FrozenRecord `yaml:"records,omitempty"  json:"records,omitempty"`
	Steps     []Step               `yaml:"steps"              json:"steps"`
	Warning   string               `yaml:"warning,omitempty"  json:"warning,omitempty"`
	Summary   string               `yaml:"summary"            json:"summary"`
}

// OK reports whether every issued step succeeded.
func (o Outcome) OK() bool {
	for _, s := range o.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// Request describes one freeze. Group is the owning group name, if any.
// ProcessHint is used as the process name of a synthetic record when the
// target matched nothing.
type Request struct {
	Target      model.TargetSpec
	Group       string
	ProcessHint string
}

// Engine applies hide+suspend and resume+show transitions through nircmd.
type Engine struct {
	enum Enumerator
	run  Runner
	log  *slog.Logger
	now  func() time.Time
}

// NewEngine wires an engine to its collaborators.
func NewEngine(enum Enumerator, run Runner, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{enum: enum, run: run, log: log, now: time.Now}
}

// Freeze hides every window matching req.Target and suspends each owning
// process once. With no match it still issues a hide by spec and returns a
// single synthetic record. The returned records are not tracked; the
// caller commits them. The only error is nircmd.ErrToolUnavailable.
func (e *Engine) Freeze(ctx context.Context, req Request) (Outcome, error) {
	spec := req.Target
	out := Outcome{Target: spec}
	batch := uuid.NewString()
	now := e.now()

	var windows []model.Window
	if e.enum != nil {
		snap, err := e.enum.Enumerate(ctx)
		if err != nil {
			e.log.Warn("window enumeration failed, falling back to target", "target", spec.String(), "err", err)
			out.Warning = fmt.Sprintf("enumeration failed: %v", err)
		} else {
			windows = model.Match(spec, snap)
		}
	}

	for _, w := range windows {
		if err := e.step(ctx, &out, nircmd.WinByHandle(nircmd.WinHide, w.Handle)); err != nil {
			return out, err
		}
		out.Records = append(out.Records, model.FrozenRecord{
			BatchID:     batch,
			Group:       req.Group,
			Target:      spec,
			ProcessName: w.Process,
			ClassName:   w.Class,
			WindowTitle: w.Title,
			Handle:      w.Handle,
			PID:         w.PID,
			FrozenAt:    now,
		})
	}

	if len(windows) == 0 {
		if err := e.step(ctx, &out, nircmd.WinBySpec(nircmd.WinHide, spec)); err != nil {
			return out, err
		}
		name := req.ProcessHint
		if name == "" {
			name = spec.ImpliedProcess()
		}
		out.Records = append(out.Records, model.FrozenRecord{
			BatchID:     batch,
			Group:       req.Group,
			Target:      spec,
			ProcessName: name,
			FrozenAt:    now,
		})
	}
	out.Windows = len(out.Records)

	pids := uniquePIDs(windows)
	for _, pid := range pids {
		if err := e.step(ctx, &out, nircmd.SuspendPID(pid)); err != nil {
			return out, err
		}
	}
	out.Processes = len(pids)

	if len(pids) == 0 {
		if name := out.Records[0].ProcessName; name != "" {
			if err := e.step(ctx, &out, nircmd.SuspendName(name)); err != nil {
				return out, err
			}
		}
	}

	metrics.IncFreeze(spec.Kind.String())
	out.Summary = fmt.Sprintf("Frozen: %s (%d window(s), %d process(es))", spec.Value, out.Windows, out.Processes)
	e.log.Info("frozen", "target", spec.String(), "group", req.Group, "windows", out.Windows, "processes", out.Processes)
	return out, nil
}

// Unfreeze resumes and shows what a single record froze.
func (e *Engine) Unfreeze(ctx context.Context, rec model.FrozenRecord) (Outcome, error) {
	return e.UnfreezeAll(ctx, []model.FrozenRecord{rec})
}

// UnfreezeAll reverses a set of records in order. A freeze suspends each
// process once per batch, so each PID or process name is resumed once per
// batch: two batches that suspended the same PID get two resumes.
func (e *Engine) UnfreezeAll(ctx context.Context, recs []model.FrozenRecord) (Outcome, error) {
	var out Outcome
	if len(recs) == 0 {
		out.Summary = "Nothing to unfreeze"
		return out, nil
	}
	out.Target = recs[0].Target

	type pidKey struct {
		batch string
		pid   int
	}
	type nameKey struct {
		batch string
		name  string
	}
	resumedPID := make(map[pidKey]bool)
	resumedName := make(map[nameKey]bool)
	for _, rec := range recs {
		switch {
		case rec.PID != 0:
			k := pidKey{rec.BatchID, rec.PID}
			if !resumedPID[k] {
				resumedPID[k] = true
				if err := e.step(ctx, &out, nircmd.ResumePID(rec.PID)); err != nil {
					return out, err
				}
			}
		case rec.ProcessName != "":
			k := nameKey{rec.BatchID, rec.ProcessName}
			if !resumedName[k] {
				resumedName[k] = true
				if err := e.step(ctx, &out, nircmd.ResumeName(rec.ProcessName)); err != nil {
					return out, err
				}
			}
		}

		var cmds []string
		if rec.Handle != 0 {
			cmds = []string{
				nircmd.WinByHandle(nircmd.WinShow, rec.Handle),
				nircmd.WinByHandle(nircmd.WinNormal, rec.Handle),
				nircmd.WinByHandle(nircmd.WinActivate, rec.Handle),
			}
		} else {
			cmds = []string{
				nircmd.WinBySpec(nircmd.WinShow, rec.Target),
				nircmd.WinBySpec(nircmd.WinNormal, rec.Target),
			}
		}
		for _, c := range cmds {
			if err := e.step(ctx, &out, c); err != nil {
				return out, err
			}
		}
		out.Windows++
		metrics.IncUnfreeze(rec.Target.Kind.String())
	}
	out.Processes = len(resumedPID) + len(resumedName)
	out.Records = recs

	if sameValue(recs) {
		out.Summary = "Unfrozen: " + recs[0].Target.Value
	} else {
		out.Summary = fmt.Sprintf("Unfrozen: %d record(s)", len(recs))
	}
	e.log.Info("unfrozen", "records", len(recs), "processes", out.Processes)
	return out, nil
}

// step issues one command and records its outcome. Failures are logged and
// swallowed; only a missing nircmd binary aborts the sequence.
func (e *Engine) step(ctx context.Context, out *Outcome, commandLine string) error {
	res, err := e.run.Execute(ctx, commandLine, true)
	if errors.Is(err, nircmd.ErrToolUnavailable) {
		return err
	}
	s := Step{Command: commandLine, OK: err == nil && res.Success, ExitCode: res.ExitCode, ElapsedMs: res.ElapsedMs}
	switch {
	case err != nil:
		s.Error = err.Error()
	case !res.Success:
		s.Error = res.Stderr
		if s.Error == "" {
			s.Error = fmt.Sprintf("exit code %d", res.ExitCode)
		}
	}
	if !s.OK {
		e.log.Warn("nircmd step failed", "command", commandLine, "exit_code", s.ExitCode, "err", s.Error)
	}
	out.Steps = append(out.Steps, s)
	return nil
}

func uniquePIDs(windows []model.Window) []int {
	seen := make(map[int]bool)
	var pids []int
	for _, w := range windows {
		if w.PID == 0 || seen[w.PID] {
			continue
		}
		seen[w.PID] = true
		pids = append(pids, w.PID)
	}
	return pids
}

func sameValue(recs []model.FrozenRecord) bool {
	for _, r := range recs[1:] {
		if r.Target.Value != recs[0].Target.Value {
			return false
		}
	}
	return true
}
