package cmd

import (
	"fmt"

	"github.com/mj1618/nirctl/internal/freeze"
	"github.com/spf13/cobra"
)

var unfreezeCmd = &cobra.Command{
	Use:   "unfreeze [<kind> <value>]",
	Short: "Resume and show a frozen app",
	Long: `Unfreeze a target: resume its processes, then show, restore and activate its
windows. Select what to release by target, by record id (see 'nirctl frozen'),
or release everything with --all.

Examples:
  nirctl unfreeze process slack.exe
  nirctl unfreeze --id 3f2a9c1e
  nirctl unfreeze --all`,
	Args: cobra.MaximumNArgs(2),
	RunE: runUnfreeze,
}

func init() {
	rootCmd.AddCommand(unfreezeCmd)
	unfreezeCmd.Flags().String("id", "", "Unfreeze a single record by id")
	unfreezeCmd.Flags().Bool("all", false, "Unfreeze every frozen record")
	unfreezeCmd.Flags().Bool("recursive", false, "For folder targets, include subfolders")
	unfreezeCmd.Flags().String("group", "", "Group the records were frozen under")
}

func runUnfreeze(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	all, _ := cmd.Flags().GetBool("all")
	recursive, _ := cmd.Flags().GetBool("recursive")
	group, _ := cmd.Flags().GetString("group")

	modes := 0
	if id != "" {
		modes++
	}
	if all {
		modes++
	}
	if len(args) > 0 {
		modes++
	}
	if modes != 1 {
		return fmt.Errorf("specify exactly one of <kind> <value>, --id, or --all")
	}

	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmdContext(cmd)

	var out freeze.Outcome
	switch {
	case all:
		out, err = a.UnfreezeAll(ctx)
	case id != "":
		out, err = a.UnfreezeID(ctx, id)
	default:
		spec, perr := targetFromArgs(args, recursive)
		if perr != nil {
			return perr
		}
		out, err = a.Unfreeze(ctx, spec, group)
	}
	if err != nil {
		return err
	}
	return printOutcome(out)
}
