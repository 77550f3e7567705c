package cmd

import (
	"github.com/mj1618/nirctl/internal/nircmd"
	"github.com/mj1618/nirctl/internal/output"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run a nircmd command",
	Long: `Run any nircmd command line. "win freeze", "win unfreeze" and "group ..."
lines are handled by nirctl itself; everything else is passed to nircmd.exe.
The exit code of nircmd is propagated.

Examples:
  nirctl exec setsysvolume 32768
  nirctl exec win freeze process notepad.exe
  nirctl exec --no-wait speak text "build finished"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().Bool("no-wait", false, "Start the command in the background and return immediately")
	execCmd.Flags().SetInterspersed(false)
}

func runExec(cmd *cobra.Command, args []string) error {
	noWait, _ := cmd.Flags().GetBool("no-wait")
	line := nircmd.BuildCommandLine(args[0], args[1:]...)

	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	res, err := a.Dispatch(cmdContext(cmd), line, !noWait)
	if err != nil {
		return err
	}
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.Success {
		code := res.ExitCode
		if code <= 0 {
			code = 1
		}
		return exitCodeError{code: code}
	}
	return nil
}
