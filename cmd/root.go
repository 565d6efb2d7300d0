package cmd

import (
    stderrors "errors"
    "fmt"
    "os"
    "strings"

    "github.com/spf13/cobra"
    "github.com/spf13/pflag"
    "go.uber.org/zap"

    "snowdemo/internal/config"
    "snowdemo/internal/observability"
    "snowdemo/internal/ui"
    "snowdemo/pkg/models"
)

// errRunFailed is returned after the summary has been printed, so Execute
// only sets the exit code.
var errRunFailed = stderrors.New("provisioning finished with failures")

var (
    globalFlags struct {
        config     string
        connection string
        verbose    bool
        quiet      bool
        noColor    bool
        logFormat  string
    }

    logger *zap.Logger

    rootCmd = &cobra.Command{
        Use:   "snowdemo",
        Short: "Provision Snowflake Intelligence demo databases",
        Long: `snowdemo builds self-contained Snowflake Intelligence demos for the banking,
asset management, insurance and investment research verticals.

Each run creates the demo database, loads synthetic data, asks Cortex to
write the documents, and creates the search services and semantic views
the agents use. Everything runs through one Snowflake session.`,
        SilenceUsage:  true,
        SilenceErrors: true,
        PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
            return initLogging(cmd)
        },
        PersistentPostRun: func(cmd *cobra.Command, args []string) {
            if logger != nil {
                _ = logger.Sync()
            }
        },
    }
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
    if err := rootCmd.Execute(); err != nil {
        if !stderrors.Is(err, errRunFailed) {
            ui.ShowError(os.Stderr, err)
        }
        os.Exit(1)
    }
}

func init() {
    rootCmd.SetGlobalNormalizationFunc(normalizeFlag)

    pf := rootCmd.PersistentFlags()
    pf.StringVar(&globalFlags.config, "config", "", "Demo config file (default ./config.yaml, then ~/.snowdemo/config.yaml)")
    pf.StringVarP(&globalFlags.connection, "connection", "c", "", "Connection name in connections.toml")
    pf.BoolVarP(&globalFlags.verbose, "verbose", "v", false, "Show debug logs and SQL")
    pf.BoolVarP(&globalFlags.quiet, "quiet", "q", false, "Only print errors and the final summary")
    pf.BoolVar(&globalFlags.noColor, "no-color", false, "Disable colored output")
    pf.StringVar(&globalFlags.logFormat, "log-format", "console", "Log format: console or json")
}

// normalizeFlag makes --validate_only and --validate-only the same flag.
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
    return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func initLogging(cmd *cobra.Command) error {
    if globalFlags.verbose && globalFlags.quiet {
        return fmt.Errorf("--verbose and --quiet cannot be combined")
    }
    if globalFlags.noColor {
        ui.SetColor(false)
    }

    level := "info"
    switch {
    case globalFlags.verbose:
        level = "debug"
    case globalFlags.quiet:
        level = "error"
    }

    l, err := observability.NewLogger(observability.LoggerConfig{
        Level:   level,
        Format:  globalFlags.logFormat,
        Output:  cmd.ErrOrStderr(),
        Service: "snowdemo",
        Version: Version,
    })
    if err != nil {
        return err
    }
    logger = l
    return nil
}

// loadConfig reads .env and the demo config. The --connection flag wins
// over the config's connection name.
func loadConfig() (*models.Config, error) {
    if err := config.LoadDotEnv(); err != nil {
        logger.Warn("ignoring .env", zap.Error(err))
    }

    cfg, err := config.Load(globalFlags.config)
    if err != nil {
        return nil, err
    }
    if globalFlags.connection != "" {
        cfg.Connection = globalFlags.connection
    }
    if err := config.Validate(cfg); err != nil {
        return nil, err
    }
    return cfg, nil
}

func newUI(cmd *cobra.Command) *ui.UI {
    return ui.NewWriterUI(cmd.OutOrStdout(), globalFlags.verbose, globalFlags.quiet)
}
