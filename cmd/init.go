package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"snowdemo/internal/config"
	"snowdemo/internal/ui"
	"snowdemo/pkg/errors"
	"snowdemo/pkg/models"
)

var initFlags struct {
	path     string
	force    bool
	defaults bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml",
	Long: `Write a config.yaml with the default model, seed and document range.
Prompts for the connection name, warehouse and Cortex model when run in a
terminal; --defaults skips the questions.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFlags.path, "path", "config.yaml", "Where to write the config")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite an existing file")
	initCmd.Flags().BoolVar(&initFlags.defaults, "defaults", false, "Do not prompt, write the defaults")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := initFlags.path
	if _, err := os.Stat(path); err == nil && !initFlags.force {
		return errors.New(errors.ErrCodeFileOperation, fmt.Sprintf("%s already exists", path)).
			WithSuggestions("Pass --force to overwrite it")
	}

	cfg := models.Defaults()
	if globalFlags.connection != "" {
		cfg.Connection = globalFlags.connection
	}

	if !initFlags.defaults && ui.Interactive() {
		var err error
		if cfg.Connection, err = ui.Input("Connection name in connections.toml:", cfg.Connection); err != nil {
			return err
		}
		if cfg.Warehouse, err = ui.Input("Warehouse for search services (empty uses the connection's):", cfg.Warehouse); err != nil {
			return err
		}
		if cfg.Model, err = ui.Input("Cortex model:", cfg.Model); err != nil {
			return err
		}
	}

	if err := config.Validate(&cfg); err != nil {
		return err
	}
	if err := config.Save(path, &cfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write config").WithContext("path", path)
	}

	abs, _ := filepath.Abs(path)
	u := newUI(cmd)
	u.Success("wrote %s", abs)
	u.Printf("\nNext steps:\n")
	connName := cfg.Connection
	if connName == "" {
		connName = config.DefaultConnectionName
	}
	u.Printf("1. Add a [%s] connection to %s\n", connName, config.ConnectionsFile())
	u.Printf("2. Run 'snowdemo login' if the connection has no password\n")
	u.Printf("3. Run 'snowdemo provision banking --quick'\n")
	return nil
}
