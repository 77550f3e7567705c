package cmd

import (
	"strings"

	"github.com/mj1618/nirctl/internal/groups"
	"github.com/mj1618/nirctl/internal/output"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage app groups",
	Long: `Manage named groups of apps stored in app_groups.txt and run actions on them.

Examples:
  nirctl group create Work
  nirctl group add Work "VS Code" process Code.exe
  nirctl group add Work Games folder "C:\Games" --recursive
  nirctl group run Work freeze
  nirctl group run Work unfreeze`,
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List app groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, "list")
	},
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, "create", args[0])
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, "delete", args[0])
	},
}

var groupAddCmd = &cobra.Command{
	Use:   "add <group> <name> <kind> <value>",
	Short: "Add an app entry to a group",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")
		params := append([]string{"add"}, args...)
		if recursive {
			params = append(params, "true")
		}
		return runGroup(cmd, params...)
	},
}

var groupRemoveCmd = &cobra.Command{
	Use:   "remove <group> <name>",
	Short: "Remove an app entry from a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, "remove", args[0], args[1])
	},
}

var groupRunCmd = &cobra.Command{
	Use:   "run <group> <action>",
	Short: "Apply an action to every app in a group",
	Long: "Apply an action to every app in a group. Actions: " + strings.Join(groups.KnownActions, ", ") + `.
freeze and unfreeze use the freeze engine; any other word is sent to nircmd
as "win <action> <kind> <value>".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, "run", args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupListCmd, groupCreateCmd, groupDeleteCmd, groupAddCmd, groupRemoveCmd, groupRunCmd)
	groupAddCmd.Flags().Bool("recursive", false, "For folder targets, include subfolders")
}

// runGroup hands the parsed arguments to the group commands unchanged.
func runGroup(cmd *cobra.Command, args ...string) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	res, err := a.Group(cmdContext(cmd), args...)
	if err != nil {
		return err
	}
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.Success {
		return exitCodeError{code: 1, msg: res.Error}
	}
	return nil
}
