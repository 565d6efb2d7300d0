package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"snowdemo/internal/config"
	"snowdemo/internal/ui"
	"snowdemo/pkg/errors"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the connection password in the OS keyring",
	Long: `Prompt for the password of the selected connection and store it in the
OS keyring. Later runs use it when connections.toml, the config and the
environment carry no password.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	conn, name, err := config.LookupConnection(config.ConnectionsFile(), cfg.Connection, cfg.Snowflake)
	if err != nil {
		return err
	}
	if conn.User == "" {
		return errors.New(errors.ErrCodeRequiredField, fmt.Sprintf("Connection '%s' has no user", name)).
			WithSuggestions("Set user in connections.toml or SNOWFLAKE_USER")
	}
	if !ui.Interactive() {
		return errors.New(errors.ErrCodeUserInput, "login needs an interactive terminal").
			WithSuggestions("Export SNOWFLAKE_PASSWORD instead")
	}

	password, err := ui.Password(fmt.Sprintf("Password for %s@%s:", conn.User, conn.Account))
	if err != nil {
		return err
	}
	if err := config.StorePassword(name, conn, password); err != nil {
		return err
	}

	newUI(cmd).Success("password stored in the keyring for connection %s", name)
	return nil
}
