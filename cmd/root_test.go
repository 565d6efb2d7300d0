package cmd

import (
    "bytes"
    "os"
    "path/filepath"
    "testing"

    "github.com/spf13/cobra"
    "github.com/spf13/pflag"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "github.com/zalando/go-keyring"

    "snowdemo/pkg/errors"
)

// isolate points config and connection lookups at an empty temp dir.
func isolate(t *testing.T) string {
    t.Helper()
    dir := t.TempDir()
    chdir(t, dir)
    t.Setenv("HOME", dir)
    t.Setenv("SNOWFLAKE_HOME", dir)
    t.Setenv("SNOWDEMO_CONFIG", "")
    t.Setenv("SNOWFLAKE_WAREHOUSE", "")
    return dir
}

func executeCommand(t *testing.T, args ...string) (string, error) {
    t.Helper()
    resetFlags(rootCmd)

    b := new(bytes.Buffer)
    rootCmd.SetOut(b)
    rootCmd.SetErr(b)
    rootCmd.SetArgs(args)

    err := rootCmd.Execute()
    return b.String(), err
}

// resetFlags restores every flag to its default; cobra keeps values
// between Execute calls on the same command tree.
func resetFlags(c *cobra.Command) {
    reset := func(f *pflag.Flag) {
        if sv, ok := f.Value.(pflag.SliceValue); ok {
            _ = sv.Replace(nil)
        } else {
            _ = f.Value.Set(f.DefValue)
        }
        f.Changed = false
    }
    c.PersistentFlags().VisitAll(reset)
    c.Flags().VisitAll(reset)
    for _, sub := range c.Commands() {
        resetFlags(sub)
    }
}

func TestRootCommand(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t)
    assert.NoError(t, err)
    assert.Contains(t, output, "snowdemo")
    assert.Contains(t, output, "Snowflake Intelligence")
}

func TestRootCommandHelp(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "--help")
    assert.NoError(t, err)

    assert.Contains(t, output, "Available Commands:")
    for _, name := range []string{"provision", "validate", "list", "export", "init", "login", "version"} {
        assert.Contains(t, output, name)
    }
}

func TestInvalidCommand(t *testing.T) {
    isolate(t)
    _, err := executeCommand(t, "invalid-command")
    assert.Error(t, err)
    assert.Contains(t, err.Error(), "unknown command")
}

func TestVerboseAndQuietConflict(t *testing.T) {
    isolate(t)
    _, err := executeCommand(t, "list", "-v", "-q")
    assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "version")
    require.NoError(t, err)
    assert.Contains(t, output, "snowdemo version dev")
}

func TestListCommand(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "list", "--tables")
    require.NoError(t, err)

    for _, db := range []string{"BANK_AI_DEMO", "ASSET_MGMT_AI_DEMO", "INSURANCE_AI_DEMO", "RESEARCH_AI_DEMO"} {
        assert.Contains(t, output, db)
    }
    assert.Contains(t, output, "CLAIMS_DOCS_SEARCH")
    assert.Contains(t, output, "CURATED.FACT_POSITION_DAILY_ABOR")
}

func TestListHonoursDatabaseOverride(t *testing.T) {
    dir := isolate(t)
    cfgPath := filepath.Join(dir, "config.yaml")
    require.NoError(t, os.WriteFile(cfgPath, []byte("verticals:\n  insurance:\n    database: INS_SANDBOX\n"), 0600))

    output, err := executeCommand(t, "list", "--config", cfgPath)
    require.NoError(t, err)
    assert.Contains(t, output, "INS_SANDBOX")
    assert.NotContains(t, output, "INSURANCE_AI_DEMO")
}

func TestListShowsDefaultConnectionName(t *testing.T) {
    dir := isolate(t)
    toml := "default_connection_name = \"demo\"\n\n[demo]\naccount = \"acct\"\nuser = \"DEMO_USER\"\n"
    require.NoError(t, os.WriteFile(filepath.Join(dir, "connections.toml"), []byte(toml), 0600))

    output, err := executeCommand(t, "list")
    require.NoError(t, err)
    assert.Contains(t, output, "Connection: demo")
}

func TestProvisionDryRun(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "provision", "banking", "--scenario", "aml", "--quick", "--dry-run")
    require.NoError(t, err)

    assert.Contains(t, output, "CREATE OR REPLACE DATABASE BANK_AI_DEMO")
    assert.Contains(t, output, "SNOWFLAKE.CORTEX.COMPLETE")
    assert.Contains(t, output, "AML_DOCS_SEARCH")
    assert.NotContains(t, output, "CREDIT_DOCS_SEARCH")
    assert.Contains(t, output, "WAREHOUSE = <WAREHOUSE>")
    assert.Contains(t, output, "dry run for BANK_AI_DEMO")
}

func TestProvisionValidateOnlyNormalizedFlag(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "provision", "insurance", "--validate_only", "--dry-run")
    require.NoError(t, err)

    assert.Contains(t, output, "SELECT COUNT(*)")
    assert.NotContains(t, output, "CREATE OR REPLACE DATABASE")
}

func TestValidateCommandDryRun(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "validate", "research", "--dry-run")
    require.NoError(t, err)
    assert.Contains(t, output, "USE DATABASE RESEARCH_AI_DEMO")
    assert.NotContains(t, output, "CREATE OR REPLACE")
}

func TestProvisionStepFilter(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "provision", "asset_management", "--step", "semantic", "--dry-run")
    require.NoError(t, err)

    assert.Contains(t, output, "CREATE OR REPLACE SEMANTIC VIEW")
    assert.NotContains(t, output, "INSERT INTO")
}

func TestProvisionRejectsBadInputBeforeConnecting(t *testing.T) {
    tests := []struct {
        name string
        args []string
    }{
        {"unknown vertical", []string{"provision", "retail"}},
        {"unknown scenario", []string{"provision", "banking", "--scenario", "payments"}},
        {"unknown step", []string{"provision", "banking", "--step", "deploy"}},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            isolate(t)
            _, err := executeCommand(t, tt.args...)
            require.Error(t, err)
            assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetErrorCode(err))
        })
    }
}

func TestProvisionDisabledVerticalBeforeConnecting(t *testing.T) {
    dir := isolate(t)
    keyring.MockInit()
    cfgPath := filepath.Join(dir, "config.yaml")
    require.NoError(t, os.WriteFile(cfgPath, []byte("verticals:\n  insurance:\n    disabled: true\n"), 0600))

    _, err := executeCommand(t, "provision", "insurance", "--config", cfgPath)
    require.Error(t, err)
    assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetErrorCode(err))
    assert.Contains(t, err.Error(), "disabled")
}

func TestNoColorFlag(t *testing.T) {
    isolate(t)
    output, err := executeCommand(t, "provision", "banking", "--scenario", "aml", "--quick", "--dry-run", "--no-color")
    require.NoError(t, err)
    assert.NotContains(t, output, "\x1b[")
}

func TestProvisionWithoutCredentialsIsFatal(t *testing.T) {
    isolate(t)
    keyring.MockInit()
    for _, key := range []string{"SNOWFLAKE_ACCOUNT", "SNOWFLAKE_USER", "SNOWFLAKE_PASSWORD"} {
        t.Setenv(key, "")
    }

    _, err := executeCommand(t, "provision", "banking", "--step", "validate")
    require.Error(t, err)
    assert.True(t, errors.IsFatal(err))
}

func TestExportCommand(t *testing.T) {
    dir := isolate(t)
    out := filepath.Join(dir, "am.json")

    output, err := executeCommand(t, "export", "am", "--quick", "--out", out, "--csv-dir", dir, "--samples", "2")
    require.NoError(t, err)
    assert.Contains(t, output, "securities.csv")

    data, err := os.ReadFile(out)
    require.NoError(t, err)
    assert.Contains(t, string(data), `"database": "ASSET_MGMT_AI_DEMO"`)
    assert.FileExists(t, filepath.Join(dir, "securities.csv"))
}

func TestExportDefaultPath(t *testing.T) {
    dir := isolate(t)
    _, err := executeCommand(t, "export", "insurance", "--quick")
    require.NoError(t, err)
    assert.FileExists(t, filepath.Join(dir, "insurance-demo-package.json"))
}

func TestInitCommand(t *testing.T) {
    dir := isolate(t)
    path := filepath.Join(dir, "config.yaml")

    _, err := executeCommand(t, "init", "--defaults", "--path", path, "-c", "demo")
    require.NoError(t, err)

    data, err := os.ReadFile(path)
    require.NoError(t, err)
    assert.Contains(t, string(data), "connection: demo")
    assert.Contains(t, string(data), "llama3.1-70b")

    _, err = executeCommand(t, "init", "--defaults", "--path", path)
    require.Error(t, err)

    _, err = executeCommand(t, "init", "--defaults", "--path", path, "--force")
    require.NoError(t, err)
}

func TestNormalizeFlag(t *testing.T) {
    assert.Equal(t, pflag.NormalizedName("validate-only"), normalizeFlag(nil, "validate_only"))
    assert.Equal(t, pflag.NormalizedName("dry-run"), normalizeFlag(nil, "dry-run"))
}
