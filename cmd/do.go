package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mj1618/nirctl/internal/app"
	"github.com/mj1618/nirctl/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DoResult is the YAML output of a batch do command.
type DoResult struct {
	OK        bool             `yaml:"ok"              json:"ok"`
	Action    string           `yaml:"action"          json:"action"`
	Steps     int              `yaml:"steps"           json:"steps"`
	Completed int              `yaml:"completed"       json:"completed"`
	Error     string           `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []app.StepResult `yaml:"results"         json:"results"`
}

// stepRunner is the part of *app.App the batch needs.
type stepRunner interface {
	RunStep(ctx context.Context, action string, params map[string]interface{}) (app.StepResult, error)
}

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute multiple actions in a batch",
	Long: `Execute a sequence of actions from a YAML list on stdin.

Each step is an action name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error.

Supported step types: freeze, unfreeze, group, exec, sleep

Example:
  nirctl do <<'EOF'
  - freeze: { kind: process, value: "Discord.exe", group: Focus }
  - group: { name: Work, action: max }
  - exec: { command: "setsysvolume 20000" }
  - sleep: { ms: 500 }
  - unfreeze: { all: true }
  EOF`,
	Args: cobra.NoArgs,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error (default: true)")
}

func runDo(cmd *cobra.Command, args []string) error {
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	steps, err := parseSteps(data)
	if err != nil {
		return err
	}

	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	res := runSteps(cmdContext(cmd), a, steps, stopOnError)
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.OK {
		return exitCodeError{code: 1}
	}
	return nil
}

// parseSteps decodes a YAML list of single-key action maps.
func parseSteps(data []byte) ([]map[string]map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, errors.New("no steps provided on stdin, pipe a YAML list of actions")
	}
	var steps []map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, errors.New("no steps provided, expected a YAML list of actions")
	}
	return steps, nil
}

func runSteps(ctx context.Context, r stepRunner, steps []map[string]map[string]interface{}, stopOnError bool) DoResult {
	res := DoResult{Action: "do", Steps: len(steps), Results: make([]app.StepResult, 0, len(steps))}
	failed := false

	for i, step := range steps {
		stepNum := i + 1

		if len(step) != 1 {
			msg := fmt.Sprintf("step %d: expected exactly one action key, got %d", stepNum, len(step))
			res.Results = append(res.Results, app.StepResult{Step: stepNum, Error: msg})
			failed = true
			if stopOnError {
				res.Error = msg
				break
			}
			continue
		}

		var action string
		var params map[string]interface{}
		for k, v := range step {
			action, params = k, v
		}

		start := time.Now()
		result, err := r.RunStep(ctx, action, params)
		result.Step = stepNum
		if result.Action == "" {
			result.Action = action
		}
		if result.Elapsed == "" {
			result.Elapsed = fmt.Sprintf("%dms", time.Since(start).Milliseconds())
		}
		if err != nil {
			result.OK = false
			result.Error = err.Error()
		}
		res.Results = append(res.Results, result)

		if !result.OK {
			failed = true
			if stopOnError {
				res.Error = fmt.Sprintf("step %d: %s", stepNum, result.Error)
				break
			}
			continue
		}
		res.Completed++
	}

	res.OK = !failed
	return res
}
