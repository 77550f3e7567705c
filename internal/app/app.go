package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/nirctl/internal/catalog"
	"github.com/mj1618/nirctl/internal/config"
	"github.com/mj1618/nirctl/internal/freeze"
	"github.com/mj1618/nirctl/internal/groups"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/nircmd"
	"github.com/mj1618/nirctl/internal/notify"
	"github.com/mj1618/nirctl/internal/platform"
	"github.com/mj1618/nirctl/internal/state"
)

// ErrStateDisabled is returned by history operations when no state database
// is configured.
var ErrStateDisabled = errors.New("state database disabled (state.db: none)")

// Options overrides collaborators, mainly for tests. Zero values select the
// production implementations.
type Options struct {
	Config     config.Config
	Logger     *slog.Logger
	Enumerator platform.Enumerator
	Runner     freeze.Runner
	Notifier   *notify.Notifier
}

// App wires the nircmd executor, the freeze engine, the group store and the
// durable state into the operations exposed by the CLI and the MCP server.
type App struct {
	cfg config.Config
	log *slog.Logger

	// mu serializes operations that touch the engine and the tracker.
	mu sync.Mutex

	Windows  platform.Enumerator
	Exec     freeze.Runner
	Engine   *freeze.Engine
	Tracker  *freeze.Tracker
	Groups   *groups.Store
	Batch    *groups.Runner
	Catalog  *catalog.Catalog
	State    *state.Store
	Notifier *notify.Notifier

	nircmdPath string
}

// New builds an App, opening the state database and loading the groups
// file and the persisted frozen records.
func New(ctx context.Context, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: opts.Config, log: log, Windows: opts.Enumerator, Exec: opts.Runner, Notifier: opts.Notifier}

	if a.Windows == nil {
		a.Windows = platform.DefaultEnumerator()
	}
	if a.Exec == nil {
		path, err := nircmd.Locate(a.cfg.NircmdPath)
		if err != nil {
			log.Debug("nircmd not located", "err", err)
		}
		a.nircmdPath = path
		a.Exec = nircmd.New(path, log.With("component", "nircmd"))
	}
	if a.Notifier == nil {
		a.Notifier = notify.New(a.cfg.Notify.Desktop, log)
	}

	cat, err := catalog.Builtin()
	if err != nil {
		return nil, fmt.Errorf("load command catalog: %w", err)
	}
	a.Catalog = cat

	var persister freeze.Persister
	if a.cfg.State.DB != "" {
		st, err := state.Open(ctx, a.cfg.State.DB)
		if err != nil {
			return nil, fmt.Errorf("open state db: %w", err)
		}
		a.State = st
		persister = st
	}

	a.Tracker = freeze.NewTracker(persister, log.With("component", "tracker"))
	if err := a.Tracker.Load(ctx); err != nil {
		log.Warn("load frozen records failed, starting empty", "err", err)
	}

	a.Groups = groups.NewStore(a.cfg.GroupsFile, log.With("component", "groups"))
	if err := a.Groups.Load(); err != nil {
		log.Warn("load groups file failed, starting empty", "path", a.cfg.GroupsFile, "err", err)
	}

	a.Engine = freeze.NewEngine(a.Windows, a.Exec, log.With("component", "freeze"))
	a.Batch = groups.NewRunner(a.Groups, a.Engine, a.Tracker, a.Exec, log.With("component", "batch"))
	return a, nil
}

// Close releases the state database.
func (a *App) Close() error {
	if a.State != nil {
		return a.State.Close()
	}
	return nil
}

// NircmdPath returns the located nircmd.exe, or "" if none was found or a
// custom runner is in use.
func (a *App) NircmdPath() string { return a.nircmdPath }

// Config returns the configuration the App was built from.
func (a *App) Config() config.Config { return a.cfg }

func (a *App) Logger() *slog.Logger { return a.log }

// ListWindows returns the current snapshot filtered by opts.
func (a *App) ListWindows(ctx context.Context, opts platform.ListOptions) ([]model.Window, error) {
	windows, err := a.Windows.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	return opts.Filter(windows), nil
}

// Freeze freezes spec and commits the resulting records to the tracker.
func (a *App) Freeze(ctx context.Context, spec model.TargetSpec, group string) (freeze.Outcome, error) {
	start := time.Now()
	out, err := a.freeze(ctx, spec, group)
	a.record(ctx, freezeLine("freeze", spec), err == nil && out.OK(), time.Since(start))
	return out, err
}

func (a *App) freeze(ctx context.Context, spec model.TargetSpec, group string) (freeze.Outcome, error) {
	if spec.Value == "" {
		return freeze.Outcome{Target: spec}, errors.New("target value is empty")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	out, err := a.Engine.Freeze(ctx, freeze.Request{Target: spec, Group: group})
	if err != nil {
		return out, err
	}
	out.Records = a.Tracker.Add(ctx, out.Records...)
	return out, nil
}

// Unfreeze releases the records frozen for spec. With nothing tracked it
// still issues a resume and show by spec, since the target may have been
// frozen by another tool.
func (a *App) Unfreeze(ctx context.Context, spec model.TargetSpec, group string) (freeze.Outcome, error) {
	start := time.Now()
	out, err := a.unfreeze(ctx, spec, group)
	a.record(ctx, freezeLine("unfreeze", spec), err == nil && out.OK(), time.Since(start))
	return out, err
}

func (a *App) unfreeze(ctx context.Context, spec model.TargetSpec, group string) (freeze.Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	recs, err := a.Tracker.TakeTarget(ctx, group, spec)
	if errors.Is(err, freeze.ErrRecordNotFound) {
		recs = []model.FrozenRecord{{Group: group, Target: spec, ProcessName: spec.ImpliedProcess()}}
	}
	return a.Engine.UnfreezeAll(ctx, recs)
}

// UnfreezeID releases a single tracked record.
func (a *App) UnfreezeID(ctx context.Context, id string) (freeze.Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.Tracker.Take(ctx, id)
	if err != nil {
		return freeze.Outcome{}, fmt.Errorf("%w: %s", err, id)
	}
	return a.Engine.Unfreeze(ctx, rec)
}

// UnfreezeAll releases every tracked record.
func (a *App) UnfreezeAll(ctx context.Context) (freeze.Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Engine.UnfreezeAll(ctx, a.Tracker.TakeAll(ctx))
}

// Frozen lists the tracked records in freeze order.
func (a *App) Frozen() []model.FrozenRecord {
	return a.Tracker.List()
}

// RunGroup applies action to every entry of group and posts a desktop
// notification with the summary when enabled.
func (a *App) RunGroup(ctx context.Context, group, action string) (groups.BatchResult, error) {
	start := time.Now()
	res, err := a.runGroup(ctx, group, action)
	a.record(ctx, nircmd.BuildCommandLine("group run", group, action), err == nil && res.Failed == 0, time.Since(start))
	return res, err
}

func (a *App) runGroup(ctx context.Context, group, action string) (groups.BatchResult, error) {
	a.mu.Lock()
	res, err := a.Batch.Run(ctx, group, action)
	a.mu.Unlock()
	if err != nil {
		return res, err
	}
	a.Notifier.Notify("nirctl: "+res.Group, res.Summary)
	return res, nil
}

// History returns up to limit entries, newest first.
func (a *App) History(ctx context.Context, limit int) ([]state.HistoryEntry, error) {
	if a.State == nil {
		return nil, ErrStateDisabled
	}
	return a.State.History(ctx, limit)
}

// ClearHistory removes every history entry.
func (a *App) ClearHistory(ctx context.Context) error {
	if a.State == nil {
		return ErrStateDisabled
	}
	return a.State.ClearHistory(ctx)
}

func (a *App) record(ctx context.Context, line string, ok bool, elapsed time.Duration) {
	if a.State == nil || strings.TrimSpace(line) == "" {
		return
	}
	e := state.HistoryEntry{Command: line, Success: ok, ElapsedMs: elapsed.Milliseconds()}
	if err := a.State.RecordHistory(ctx, e, a.cfg.History.Limit); err != nil {
		a.log.Warn("record history failed", "err", err)
	}
}

// freezeLine renders the router form of a freeze or unfreeze.
func freezeLine(verb string, spec model.TargetSpec) string {
	line := nircmd.WinBySpec(verb, spec)
	if spec.Kind == model.KindFolder && spec.Recursive {
		line += " recursive=true"
	}
	return line
}
