package nircmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mj1618/nirctl/internal/metrics"
)

// ExecutableName is the file name searched for by Locate.
const ExecutableName = "nircmd.exe"

// BackgroundOutput is reported for commands started without waiting.
const BackgroundOutput = "Command started in background"

// ErrToolUnavailable is returned when nircmd.exe cannot be found on disk.
var ErrToolUnavailable = errors.New("nircmd not available: place nircmd.exe next to nirctl, in the config dir, or set nircmd_path")

// Result is the outcome of one nircmd invocation.
type Result struct {
	Command   string `yaml:"command"          json:"command"`
	ExitCode  int    `yaml:"exit_code"        json:"exit_code"`
	Stdout    string `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Stderr    string `yaml:"stderr,omitempty" json:"stderr,omitempty"`
	Success   bool   `yaml:"success"          json:"success"`
	ElapsedMs int64  `yaml:"elapsed_ms"       json:"elapsed_ms"`
}

// Executor runs nircmd command lines as subprocesses.
type Executor struct {
	path string
	log  *slog.Logger
}

// New returns an Executor for the binary at path. An empty path makes
// every Execute call fail with ErrToolUnavailable.
func New(path string, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{path: path, log: log}
}

// Path returns the resolved nircmd.exe path, or "" if none was found.
func (e *Executor) Path() string { return e.path }

// Available reports whether a nircmd binary was located.
func (e *Executor) Available() bool { return e.path != "" }

// Execute runs commandLine through nircmd. When wait is false the process
// is started and reaped in the background. A non-zero exit is reported in
// the Result, not as an error; the only error is ErrToolUnavailable.
func (e *Executor) Execute(ctx context.Context, commandLine string, wait bool) (Result, error) {
	res := Result{Command: commandLine, ExitCode: -1}
	if e.path == "" {
		return res, ErrToolUnavailable
	}

	args, err := SplitCommandLine(commandLine)
	if err != nil {
		res.Stderr = err.Error()
		return res, nil
	}

	start := time.Now()
	verb := Verb(commandLine)
	defer func() {
		metrics.ObserveCommand(verb, res.Success, time.Since(start))
	}()

	if !wait {
		cmd := exec.Command(e.path, args...)
		configureCmd(cmd, e.path, commandLine)
		if err := cmd.Start(); err != nil {
			res.Stderr = fmt.Sprintf("failed to start: %v", err)
			e.log.Warn("nircmd start failed", "command", commandLine, "err", err)
			return res, nil
		}
		go func() { _ = cmd.Wait() }()
		res.ExitCode = 0
		res.Success = true
		res.Stdout = BackgroundOutput
		res.ElapsedMs = time.Since(start).Milliseconds()
		e.log.Debug("nircmd started", "command", commandLine, "pid", cmd.Process.Pid)
		return res, nil
	}

	cmd := exec.CommandContext(ctx, e.path, args...)
	configureCmd(cmd, e.path, commandLine)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res.ElapsedMs = time.Since(start).Milliseconds()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		res.ExitCode = 0
		res.Success = true
	case errors.As(runErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		if res.Stderr == "" {
			res.Stderr = fmt.Sprintf("failed to run: %v", runErr)
		}
	}

	e.log.Debug("nircmd finished",
		"command", commandLine,
		"exit_code", res.ExitCode,
		"elapsed_ms", res.ElapsedMs,
	)
	return res, nil
}

// SearchPaths returns the candidate locations checked by Locate, in order.
func SearchPaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, ExecutableName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "nirctl", ExecutableName))
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ExecutableName))
	}
	winDir := os.Getenv("WINDIR")
	if winDir == "" {
		winDir = `C:\Windows`
	}
	paths = append(paths,
		filepath.Join(winDir, ExecutableName),
		filepath.Join(winDir, "System32", ExecutableName),
	)
	return paths
}

// Locate returns the first existing nircmd.exe from SearchPaths.
func Locate(explicit string) (string, error) {
	for _, p := range SearchPaths(explicit) {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	if explicit != "" {
		return "", fmt.Errorf("%w (configured path %s does not exist)", ErrToolUnavailable, explicit)
	}
	return "", ErrToolUnavailable
}
