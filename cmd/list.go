package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"snowdemo/internal/config"
	"snowdemo/internal/vertical"
)

var listFlags struct {
	tables bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List verticals, scenarios and the objects they create",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listFlags.tables, "tables", false, "Also list every table per vertical")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Vertical", "Database", "Scenario", "Documents", "Search Services"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)

	for _, v := range vertical.All() {
		v.Configure(cfg)
		name := v.Name
		if v.Disabled {
			name += " (disabled)"
		}
		for _, sc := range v.Scenarios {
			var docs, services []string
			for _, d := range sc.Documents {
				docs = append(docs, d.Name)
			}
			for _, s := range sc.Search {
				services = append(services, s.Name)
			}
			table.Append([]string{name, v.Database, sc.Name, strings.Join(docs, "\n"), strings.Join(services, "\n")})
		}
	}
	table.Render()

	if listFlags.tables {
		for _, v := range vertical.All() {
			v.Configure(cfg)
			fmt.Fprintf(w, "\n%s (%s)\n", v.Name, v.Database)
			for _, t := range v.TableNames() {
				fmt.Fprintf(w, "  %s\n", t)
			}
			fmt.Fprintf(w, "  %s.DOCUMENTS\n  %s\n", v.DocSchema, v.PromptTable())
			for _, sv := range v.SemanticViews {
				fmt.Fprintf(w, "  %s (semantic view)\n", sv.Name)
			}
		}
	}

	connName := cfg.Connection
	if _, resolved, err := config.LookupConnection(config.ConnectionsFile(), cfg.Connection, cfg.Snowflake); err == nil {
		connName = resolved
	}
	fmt.Fprintf(w, "\nConnection: %s (%s)\n", connName, config.ConnectionsFile())
	return nil
}
