package cmd

import (
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/output"
	"github.com/spf13/cobra"
)

var frozenCmd = &cobra.Command{
	Use:   "frozen",
	Short: "List frozen apps",
	Long:  "List the frozen records kept in the state database, oldest first.",
	Args:  cobra.NoArgs,
	RunE:  runFrozen,
}

func init() {
	rootCmd.AddCommand(frozenCmd)
}

func runFrozen(cmd *cobra.Command, args []string) error {
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	recs := a.Frozen()
	if recs == nil {
		recs = []model.FrozenRecord{}
	}
	return output.Print(recs)
}
