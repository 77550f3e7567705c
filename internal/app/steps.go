package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mj1618/nirctl/internal/model"
)

// StepActions lists the step types accepted by RunStep.
var StepActions = []string{"freeze", "unfreeze", "group", "exec", "sleep"}

// StepResult is the output for a single step within a batch.
type StepResult struct {
	Step    int    `yaml:"step"              json:"step"`
	OK      bool   `yaml:"ok"                json:"ok"`
	Action  string `yaml:"action"            json:"action"`
	Error   string `yaml:"error,omitempty"   json:"error,omitempty"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`
	Output  string `yaml:"output,omitempty"  json:"output,omitempty"`
	Elapsed string `yaml:"elapsed,omitempty" json:"elapsed,omitempty"`
}

// RunStep executes one batch step. params come from a YAML or MCP argument
// map. A step whose commands partly failed returns OK=false without error.
func (a *App) RunStep(ctx context.Context, action string, params map[string]interface{}) (StepResult, error) {
	switch action {
	case "freeze":
		return a.freezeStep(ctx, params)
	case "unfreeze":
		return a.unfreezeStep(ctx, params)
	case "group":
		return a.groupStep(ctx, params)
	case "exec":
		return a.execStep(ctx, params)
	case "sleep":
		return sleepStep(ctx, params)
	default:
		return StepResult{Action: action}, fmt.Errorf("unknown action %q (supported: freeze, unfreeze, group, exec, sleep)", action)
	}
}

// TargetParam builds a target from the "kind", "value" and "recursive" keys.
func TargetParam(params map[string]interface{}) (model.TargetSpec, error) {
	kind := StringParam(params, "kind", "")
	value := StringParam(params, "value", "")
	if kind == "" || value == "" {
		return model.TargetSpec{}, errors.New("kind and value are required")
	}
	return model.NewTargetSpec(kind, value, BoolParam(params, "recursive", false))
}

func (a *App) freezeStep(ctx context.Context, params map[string]interface{}) (StepResult, error) {
	res := StepResult{Action: "freeze"}
	spec, err := TargetParam(params)
	if err != nil {
		return res, err
	}
	out, err := a.Freeze(ctx, spec, StringParam(params, "group", ""))
	if err != nil {
		return res, err
	}
	res.OK, res.Summary = out.OK(), out.Summary
	if !res.OK {
		res.Error = firstFailedStep(out.Steps)
	}
	return res, nil
}

func (a *App) unfreezeStep(ctx context.Context, params map[string]interface{}) (StepResult, error) {
	res := StepResult{Action: "unfreeze"}
	var (
		summary string
		ok      bool
	)
	switch id := StringParam(params, "id", ""); {
	case BoolParam(params, "all", false):
		out, err := a.UnfreezeAll(ctx)
		if err != nil {
			return res, err
		}
		summary, ok = out.Summary, out.OK()
	case id != "":
		out, err := a.UnfreezeID(ctx, id)
		if err != nil {
			return res, err
		}
		summary, ok = out.Summary, out.OK()
	default:
		spec, err := TargetParam(params)
		if err != nil {
			return res, fmt.Errorf("%w (or pass id, or all: true)", err)
		}
		out, err := a.Unfreeze(ctx, spec, StringParam(params, "group", ""))
		if err != nil {
			return res, err
		}
		summary, ok = out.Summary, out.OK()
	}
	res.OK, res.Summary = ok, summary
	return res, nil
}

func (a *App) groupStep(ctx context.Context, params map[string]interface{}) (StepResult, error) {
	res := StepResult{Action: "group"}
	name := StringParam(params, "name", "")
	action := StringParam(params, "action", "")
	if name == "" || action == "" {
		return res, errors.New("name and action are required")
	}
	batch, err := a.RunGroup(ctx, name, action)
	if err != nil {
		return res, err
	}
	res.OK = batch.Failed == 0
	res.Summary = batch.Summary
	if !res.OK {
		res.Error = fmt.Sprintf("%d of %d entries failed", batch.Failed, batch.Processed)
	}
	return res, nil
}

func (a *App) execStep(ctx context.Context, params map[string]interface{}) (StepResult, error) {
	res := StepResult{Action: "exec"}
	line := StringParam(params, "command", "")
	if line == "" {
		return res, errors.New("command is required")
	}
	out, err := a.Dispatch(ctx, line, BoolParam(params, "wait", true))
	if err != nil {
		return res, err
	}
	res.OK, res.Output, res.Error = out.Success, out.Output, out.Error
	res.Elapsed = fmt.Sprintf("%dms", out.ElapsedMs)
	return res, nil
}

func sleepStep(ctx context.Context, params map[string]interface{}) (StepResult, error) {
	ms := IntParam(params, "ms", 0)
	if ms <= 0 {
		return StepResult{Action: "sleep"}, fmt.Errorf("ms must be > 0")
	}
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return StepResult{Action: "sleep"}, ctx.Err()
	case <-t.C:
	}
	return StepResult{Action: "sleep", OK: true, Elapsed: fmt.Sprintf("%dms", ms)}, nil
}

// Parameter extraction helpers for step and tool argument maps

func StringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that YAML may parse as int/float
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func IntParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func BoolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		switch b := v.(type) {
		case bool:
			return b
		case string:
			return b == "true" || b == "1"
		}
	}
	return defaultVal
}
