package cmd

import (
	"fmt"

	"github.com/mj1618/nirctl/internal/freeze"
	"github.com/mj1618/nirctl/internal/output"
	"github.com/spf13/cobra"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze <kind> <value>",
	Short: "Hide an app's windows and suspend its processes",
	Long: `Freeze every window matching the target: hide it, then suspend each owning
process once. When nothing matches, the hide and suspend are still issued by
target so an app that starts hidden is caught too.

Kinds: process, class, title, ititle, handle, folder

Examples:
  nirctl freeze process slack.exe
  nirctl freeze ititle "youtube"
  nirctl freeze folder "C:\Games" --recursive`,
	Args: cobra.ExactArgs(2),
	RunE: runFreeze,
}

func init() {
	rootCmd.AddCommand(freezeCmd)
	freezeCmd.Flags().Bool("recursive", false, "For folder targets, include subfolders")
	freezeCmd.Flags().String("group", "", "Tag the frozen records with a group name")
}

func runFreeze(cmd *cobra.Command, args []string) error {
	recursive, _ := cmd.Flags().GetBool("recursive")
	group, _ := cmd.Flags().GetString("group")
	spec, err := targetFromArgs(args, recursive)
	if err != nil {
		return err
	}

	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	out, err := a.Freeze(cmdContext(cmd), spec, group)
	if err != nil {
		return err
	}
	return printOutcome(out)
}

// printOutcome prints a freeze or unfreeze outcome and fails the command
// when any step failed.
func printOutcome(out freeze.Outcome) error {
	if err := output.Print(out); err != nil {
		return err
	}
	if !out.OK() {
		return fmt.Errorf("%s: some nircmd steps failed", out.Summary)
	}
	return nil
}
