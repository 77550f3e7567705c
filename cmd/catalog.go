package cmd

import (
	"fmt"
	"strings"

	"github.com/mj1618/nirctl/internal/catalog"
	"github.com/mj1618/nirctl/internal/output"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the built-in nircmd command reference",
}

// categorySummary is one line of `catalog categories`.
type categorySummary struct {
	Name        string `yaml:"name"        json:"name"`
	Description string `yaml:"description" json:"description"`
	Commands    int    `yaml:"commands"    json:"commands"`
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List command categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Builtin()
		if err != nil {
			return err
		}
		var out []categorySummary
		for _, cat := range c.Categories() {
			out = append(out, categorySummary{Name: cat.Name, Description: cat.Description, Commands: len(cat.Commands)})
		}
		return output.Print(out)
	},
}

var catalogCommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List commands, optionally within one category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Builtin()
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("category")
		if name == "" {
			var all []catalog.Command
			for _, cat := range c.Categories() {
				all = append(all, cat.Commands...)
			}
			return output.Print(all)
		}
		cat, ok := c.Category(name)
		if !ok {
			return fmt.Errorf("unknown category %q (see 'nirctl catalog categories')", name)
		}
		return output.Print(cat.Commands)
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search commands by name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Builtin()
		if err != nil {
			return err
		}
		return output.Print(c.Search(args[0]))
	},
}

var catalogInfoCmd = &cobra.Command{
	Use:   "info <command>",
	Short: "Show one command with its parameters",
	Long: `Show one command with its parameters. Multi-word commands may be quoted or
given as separate words, e.g. 'nirctl catalog info win hide'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Builtin()
		if err != nil {
			return err
		}
		name := strings.Join(args, " ")
		found, ok := c.Find(name)
		if !ok {
			return fmt.Errorf("unknown command %q (see 'nirctl catalog search')", name)
		}
		return output.Print(found)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogCategoriesCmd, catalogCommandsCmd, catalogSearchCmd, catalogInfoCmd)
	catalogCommandsCmd.Flags().String("category", "", "Only commands in this category")
}

