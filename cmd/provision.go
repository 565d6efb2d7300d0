package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snowdemo/internal/config"
	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/observability"
	"snowdemo/internal/provision"
	"snowdemo/internal/snowflake"
	"snowdemo/internal/ui"
	"snowdemo/internal/vertical"
	"snowdemo/pkg/errors"
	"snowdemo/pkg/models"
)

var provisionFlags struct {
	scenario     string
	steps        []string
	quick        bool
	validateOnly bool
	yes          bool
	seed         int64
	dryRun       bool
}

var provisionCmd = &cobra.Command{
	Use:   "provision <vertical>",
	Short: "Create and populate a demo database",
	Long: `Run the demo pipeline for one vertical:

  ddl → data → documents → search → semantic → validate

The ddl step replaces the demo database. Use --step to run a subset and
--dry-run to print the SQL without connecting.`,
	Example: `  snowdemo provision banking
  snowdemo provision asset_management --scenario portfolio_copilot --quick
  snowdemo provision insurance --step search --step semantic
  snowdemo provision research --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := provision.ParseSteps(provisionFlags.steps)
		if err != nil {
			return err
		}
		if provisionFlags.validateOnly {
			steps = []provision.Step{provision.StepValidate}
		}
		return runProvision(cmd, args[0], steps)
	},
}

func init() {
	f := provisionCmd.Flags()
	f.StringVar(&provisionFlags.scenario, "scenario", "all", "Scenario to provision documents and search services for")
	f.StringSliceVar(&provisionFlags.steps, "step", nil, "Step to run (repeatable): ddl, data, documents, search, semantic, validate")
	f.BoolVar(&provisionFlags.quick, "quick", false, "Smaller data set and document batches")
	f.BoolVar(&provisionFlags.validateOnly, "validate-only", false, "Only run the validation step")
	f.BoolVarP(&provisionFlags.yes, "yes", "y", false, "Do not ask before replacing the database")
	f.Int64Var(&provisionFlags.seed, "seed", 0, "Random seed (default from config)")
	f.BoolVar(&provisionFlags.dryRun, "dry-run", false, "Print SQL instead of executing it")

	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, name string, steps []provision.Step) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := vertical.Get(name)
	if err != nil {
		return err
	}
	v.Configure(cfg)

	// Disabled verticals and unknown scenarios fail before any prompt or connection.
	if v.Disabled {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Vertical %s is disabled in config", v.Name)).
			WithSuggestions(fmt.Sprintf("Remove verticals.%s.disabled from the config", v.Name)).
			AsFatal()
	}
	if _, err := v.SelectScenarios(provisionFlags.scenario); err != nil {
		return err
	}
	if len(steps) == 0 {
		steps = provision.AllSteps
	}

	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = provisionFlags.seed
	}

	opts, err := runOptions(cfg, steps, seed)
	if err != nil {
		return err
	}
	if opts.Warehouse == "" {
		opts.Warehouse = connectionWarehouse(cfg, opts.DryRun)
	}

	if containsStep(steps, provision.StepDDL) && !provisionFlags.dryRun && !provisionFlags.yes {
		ok, err := ui.Confirm(fmt.Sprintf("This replaces database %s. Continue?", v.Database), false)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeUserInput, "Provisioning cancelled").
				WithSuggestions("Pass --yes to skip the confirmation")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, runID := observability.WithRunID(ctx)
	log := observability.FromContext(ctx, logger)

	exec, closeExec, err := openExecutor(ctx, cmd, cfg, opts, v.Name, runID, log)
	if err != nil {
		return err
	}
	defer closeExec()

	out := newUI(cmd)
	runner, err := provision.NewRunner(exec, v, opts, log, out)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	printSummary(cmd, summary, opts.DryRun)
	if err != nil {
		return err
	}
	if !opts.DryRun && !summary.OK() {
		return errRunFailed
	}
	return nil
}

// runOptions maps config and flags onto provisioning options. Quick mode
// scales both the data and the document range by quick_scale.
func runOptions(cfg *models.Config, steps []provision.Step, seed int64) (provision.Options, error) {
	opts := provision.Options{
		Steps:         steps,
		Scenario:      provisionFlags.scenario,
		Scale:         1,
		Seed:          seed,
		Model:         cfg.Model,
		Warehouse:     cfg.Warehouse,
		TargetLag:     cfg.SearchService.TargetLag,
		DocMin:        cfg.Documents.MinPerScenario,
		DocMax:        cfg.Documents.MaxPerScenario,
		WaitForSearch: cfg.SearchService.Wait,
		Wait:          cortex.DefaultWaitOptions(),
		DryRun:        provisionFlags.dryRun,
	}

	if provisionFlags.quick {
		opts.Scale = cfg.QuickScale
		opts.DocMin = datagen.Scale(cfg.Documents.MinPerScenario, cfg.QuickScale, 1)
		opts.DocMax = datagen.Scale(cfg.Documents.MaxPerScenario, cfg.QuickScale, opts.DocMin)
	}

	if cfg.SearchService.WaitFor != "" {
		d, err := time.ParseDuration(cfg.SearchService.WaitFor)
		if err != nil || d <= 0 {
			return opts, errors.ConfigError(fmt.Sprintf("invalid duration %q", cfg.SearchService.WaitFor), "search_service.wait_for")
		}
		opts.Wait.MaxElapsed = d
	}
	return opts, nil
}

// openExecutor returns the dry-run printer or a connected session. The
// returned func closes whatever was opened.
func openExecutor(ctx context.Context, cmd *cobra.Command, cfg *models.Config, opts provision.Options, verticalName, runID string, log *zap.Logger) (snowflake.Executor, func(), error) {
	if opts.DryRun {
		return snowflake.NewDryRun(cmd.OutOrStdout()), func() {}, nil
	}

	conn, connName, err := config.ResolveConnection(config.ConnectionsFile(), cfg.Connection, cfg.Snowflake)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("resolved connection", zap.String("connection", connName))

	svc := snowflake.NewService(snowflake.Config{
		Account:           conn.Account,
		User:              conn.User,
		Password:          conn.Password,
		Authenticator:     conn.Authenticator,
		PrivateKeyFile:    conn.PrivateKeyFile,
		PrivateKeyFilePwd: conn.PrivateKeyFilePwd,
		Role:              conn.Role,
		Warehouse:         opts.Warehouse,
		QueryTag:          fmt.Sprintf("snowdemo:%s:%s", verticalName, runID),
		LoginTimeout:      60 * time.Second,
	}, log)

	if err := svc.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return svc, func() {
		if err := svc.Close(); err != nil {
			log.Warn("failed to close session", zap.Error(err))
		}
	}, nil
}

// connectionWarehouse falls back to the connection's warehouse. Dry runs
// without one print a placeholder so the search DDL is still shown.
func connectionWarehouse(cfg *models.Config, dryRun bool) string {
	conn, _, err := config.LookupConnection(config.ConnectionsFile(), cfg.Connection, cfg.Snowflake)
	if err == nil && conn.Warehouse != "" {
		return conn.Warehouse
	}
	if dryRun {
		return "<WAREHOUSE>"
	}
	return ""
}

func printSummary(cmd *cobra.Command, summary *provision.Summary, dryRun bool) {
	if summary == nil || len(summary.Steps) == 0 {
		return
	}
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Statements", "Failures", "Warnings", "Duration"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, st := range summary.Steps {
		table.Append([]string{
			string(st.Step),
			fmt.Sprintf("%d", st.Statements),
			fmt.Sprintf("%d", len(st.Failures)),
			fmt.Sprintf("%d", len(st.Warnings)),
			ui.FormatDuration(st.Duration),
		})
	}
	table.Render()

	switch {
	case dryRun:
		fmt.Fprintf(w, "\n%s dry run for %s, nothing was executed\n", ui.ColorInfo("ℹ"), summary.Database)
	case summary.OK():
		fmt.Fprintf(w, "\n%s %s is ready\n", ui.ColorSuccess("✅"), summary.Database)
	default:
		fmt.Fprintf(w, "\n%s %s finished with failures\n", ui.ColorError("❌"), summary.Database)
	}
}

func containsStep(steps []provision.Step, step provision.Step) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}
