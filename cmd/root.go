package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mj1618/nirctl/internal/output"
	"github.com/mj1618/nirctl/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nirctl",
	Short: "Freeze, group and control Windows apps through nircmd",
	Long: `nirctl drives NirSoft's nircmd utility from the command line and over MCP.

It freezes applications (hide their windows and suspend their processes),
manages named app groups stored in app_groups.txt, and passes any other
nircmd command straight through.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCodeError carries a child process exit code to Execute.
type exitCodeError struct {
	code int
	msg  string
}

func (e exitCodeError) Error() string { return e.msg }

func Execute() {
	err := rootCmd.Execute()
	closeApp()
	if err == nil {
		return
	}
	var ec exitCodeError
	if errors.As(err, &ec) {
		if ec.msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", ec.msg)
		}
		os.Exit(ec.code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <user config dir>/nirctl/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging to stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
