package cmd

import (
	"github.com/mj1618/nirctl/internal/output"
	"github.com/mj1618/nirctl/internal/platform"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible windows and applications",
	Long: `List visible top-level windows with their handle, PID, process, class and title.

Filter with the same target kinds used by freeze and app groups:
  nirctl list --type process --value Code.exe
  nirctl list --type folder --value "C:\Games" --recursive
  nirctl list --apps`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("apps", false, "List running applications")
	listCmd.Flags().String("type", "", "Filter target kind: process, class, title, ititle, handle, folder")
	listCmd.Flags().String("value", "", "Filter target value")
	listCmd.Flags().Bool("recursive", false, "Folder filter includes subfolders")
	listCmd.Flags().Int("pid", 0, "Filter windows by PID")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}

	target, err := targetFromFlags(cmd)
	if err != nil {
		return err
	}
	apps, _ := cmd.Flags().GetBool("apps")
	pid, _ := cmd.Flags().GetInt("pid")

	opts := platform.ListOptions{Target: target, PID: pid, Apps: apps}
	windows, err := a.ListWindows(cmdContext(cmd), opts)
	if err != nil {
		return err
	}

	if apps {
		return output.Print(output.NewAppsResult(windows))
	}
	return output.Print(output.NewListResult(windows))
}
