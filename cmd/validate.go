package cmd

import (
	"github.com/spf13/cobra"

	"snowdemo/internal/provision"
)

var validateCmd = &cobra.Command{
	Use:   "validate <vertical>",
	Short: "Run the acceptance checks against an existing demo database",
	Long: `Run only the validation step: row counts per table, document counts per
scenario and the vertical's own consistency checks. Same as
'provision <vertical> --validate-only'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvision(cmd, args[0], []provision.Step{provision.StepValidate})
	},
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&provisionFlags.scenario, "scenario", "all", "Scenario whose documents are checked")
	f.BoolVar(&provisionFlags.quick, "quick", false, "Expect the document range of a --quick run")
	f.BoolVar(&provisionFlags.dryRun, "dry-run", false, "Print the check queries instead of running them")

	rootCmd.AddCommand(validateCmd)
}
