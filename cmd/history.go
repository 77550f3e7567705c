package cmd

import (
	"github.com/mj1618/nirctl/internal/output"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the command history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List executed commands, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := a.History(cmdContext(cmd), limit)
		if err != nil {
			return err
		}
		return output.Print(entries)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := a.ClearHistory(cmdContext(cmd)); err != nil {
			return err
		}
		return output.Print(output.MessageResult{OK: true, Message: "History cleared"})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	historyListCmd.Flags().Int("limit", 0, "Max entries to show (0 = all kept entries)")
}
