package config

import (
    "os"
    "path/filepath"
    "testing"

    "snowdemo/pkg/errors"
    "snowdemo/pkg/models"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "github.com/zalando/go-keyring"
)

func writeFile(t *testing.T, dir, name, content string) string {
    t.Helper()
    path := filepath.Join(dir, name)
    require.NoError(t, os.WriteFile(path, []byte(content), 0600))
    return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
    chdir(t, t.TempDir())
    t.Setenv("HOME", t.TempDir())
    t.Setenv("SNOWDEMO_CONFIG", "")

    cfg, err := Load("")
    require.NoError(t, err)

    assert.Empty(t, cfg.Connection)
    assert.Equal(t, "llama3.1-70b", cfg.Model)
    assert.Equal(t, 35, cfg.Documents.MinPerScenario)
    assert.Equal(t, 50, cfg.Documents.MaxPerScenario)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
    dir := t.TempDir()
    path := writeFile(t, dir, "config.yaml", `
connection: sandbox
model: mistral-large2
documents:
  min_per_scenario: 20
  max_per_scenario: 30
verticals:
  banking:
    database: BANK_DEMO
`)
    t.Setenv("SNOWDEMO_MODEL", "claude-3-5-sonnet")

    cfg, err := Load(path)
    require.NoError(t, err)

    assert.Equal(t, "sandbox", cfg.Connection)
    assert.Equal(t, "claude-3-5-sonnet", cfg.Model)
    assert.Equal(t, 20, cfg.Documents.MinPerScenario)
    assert.Equal(t, "BANK_DEMO", cfg.Verticals["banking"].Database)
    assert.InDelta(t, 0.2, cfg.QuickScale, 1e-9)
}

func TestLoadExplicitMissingFile(t *testing.T) {
    _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
    require.Error(t, err)
    assert.Equal(t, errors.ErrCodeConfigNotFound, errors.GetErrorCode(err))
}

func TestValidate(t *testing.T) {
    tests := []struct {
        name    string
        mutate  func(*models.Config)
        wantErr string
    }{
        {"defaults", func(*models.Config) {}, ""},
        {"min below one", func(c *models.Config) { c.Documents.MinPerScenario = 0 }, "min_per_scenario"},
        {"max below min", func(c *models.Config) { c.Documents.MaxPerScenario = 10 }, "max_per_scenario"},
        {"scale too big", func(c *models.Config) { c.QuickScale = 2 }, "quick_scale"},
        {"empty model", func(c *models.Config) { c.Model = " " }, "model"},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            cfg := models.Defaults()
            tt.mutate(&cfg)
            err := Validate(&cfg)
            if tt.wantErr == "" {
                assert.NoError(t, err)
                return
            }
            require.Error(t, err)
            assert.Contains(t, err.Error(), tt.wantErr)
        })
    }
}

func TestSaveRoundTrip(t *testing.T) {
    path := filepath.Join(t.TempDir(), "nested", "config.yaml")
    cfg := models.Defaults()
    cfg.Connection = "demo"

    require.NoError(t, Save(path, &cfg))

    loaded, err := Load(path)
    require.NoError(t, err)
    assert.Equal(t, "demo", loaded.Connection)
}

const connectionsTOML = `
default_connection_name = "demo"

[demo]
account = "xy12345.eu-west-1"
user = "DEMO_USER"
password = "secret"
role = "ACCOUNTADMIN"
warehouse = "DEMO_WH"

[keypair]
account = "xy12345.eu-west-1"
user = "SVC_USER"
private_key_file = "/keys/rsa_key.p8"
`

func clearSnowflakeEnv(t *testing.T) {
    for _, key := range []string{
        "SNOWFLAKE_ACCOUNT", "SNOWFLAKE_USER", "SNOWFLAKE_PASSWORD", "SNOWFLAKE_ROLE",
        "SNOWFLAKE_WAREHOUSE", "SNOWFLAKE_AUTHENTICATOR", "SNOWFLAKE_PRIVATE_KEY_FILE",
        "SNOWFLAKE_PRIVATE_KEY_FILE_PWD",
    } {
        t.Setenv(key, "")
    }
}

func TestResolveConnectionFromTOML(t *testing.T) {
    clearSnowflakeEnv(t)
    keyring.MockInit()
    file := writeFile(t, t.TempDir(), "connections.toml", connectionsTOML)

    conn, name, err := ResolveConnection(file, "", models.Connection{})
    require.NoError(t, err)
    assert.Equal(t, "demo", name)
    assert.Equal(t, "xy12345.eu-west-1", conn.Account)
    assert.Equal(t, "DEMO_USER", conn.User)
    assert.Equal(t, "DEMO_WH", conn.Warehouse)

    conn, name, err = ResolveConnection(file, "keypair", models.Connection{})
    require.NoError(t, err)
    assert.Equal(t, "keypair", name)
    assert.Equal(t, "/keys/rsa_key.p8", conn.PrivateKeyFile)
    assert.Empty(t, conn.Password)
}

func TestResolveConnectionEnvFallback(t *testing.T) {
    clearSnowflakeEnv(t)
    keyring.MockInit()
    t.Setenv("SNOWFLAKE_ACCOUNT", "env-account")
    t.Setenv("SNOWFLAKE_USER", "env-user")
    t.Setenv("SNOWFLAKE_PASSWORD", "env-pass")

    conn, _, err := ResolveConnection(filepath.Join(t.TempDir(), "missing.toml"), "default", models.Connection{})
    require.NoError(t, err)
    assert.Equal(t, "env-account", conn.Account)
    assert.Equal(t, "env-pass", conn.Password)
}

func TestResolveConnectionKeyringPassword(t *testing.T) {
    clearSnowflakeEnv(t)
    keyring.MockInit()
    inline := models.Connection{Account: "acct", User: "Analyst"}
    require.NoError(t, StorePassword("default", inline, "from-keyring"))

    conn, _, err := ResolveConnection(filepath.Join(t.TempDir(), "missing.toml"), "default", inline)
    require.NoError(t, err)
    assert.Equal(t, "from-keyring", conn.Password)
}

func TestResolveConnectionUnknown(t *testing.T) {
    clearSnowflakeEnv(t)
    keyring.MockInit()
    file := writeFile(t, t.TempDir(), "connections.toml", connectionsTOML)

    _, _, err := ResolveConnection(file, "nope", models.Connection{})
    require.Error(t, err)
    assert.Equal(t, errors.ErrCodeConnectionUnknown, errors.GetErrorCode(err))
    assert.True(t, errors.IsFatal(err))
}

func TestLoadedConfigUsesDefaultConnectionName(t *testing.T) {
    clearSnowflakeEnv(t)
    keyring.MockInit()
    chdir(t, t.TempDir())
    t.Setenv("HOME", t.TempDir())
    t.Setenv("SNOWDEMO_CONFIG", "")
    file := writeFile(t, t.TempDir(), "connections.toml", connectionsTOML)

    cfg, err := Load("")
    require.NoError(t, err)

    conn, name, err := ResolveConnection(file, cfg.Connection, cfg.Snowflake)
    require.NoError(t, err)
    assert.Equal(t, "demo", name)
    assert.Equal(t, "DEMO_USER", conn.User)
}

func TestKeyringUsesResolvedConnectionName(t *testing.T) {
    clearSnowflakeEnv(t)
    keyring.MockInit()
    file := writeFile(t, t.TempDir(), "connections.toml", `
default_connection_name = "analyst"

[analyst]
account = "acct"
user = "Analyst"
`)

    conn, name, err := LookupConnection(file, "", models.Connection{})
    require.NoError(t, err)
    require.Equal(t, "analyst", name)
    require.NoError(t, StorePassword(name, conn, "from-keyring"))

    resolved, _, err := ResolveConnection(file, "", models.Connection{})
    require.NoError(t, err)
    assert.Equal(t, "from-keyring", resolved.Password)
}

func TestConnectionsFile(t *testing.T) {
    t.Setenv("SNOWFLAKE_HOME", "/opt/snow")
    assert.Equal(t, filepath.Join("/opt/snow", "connections.toml"), ConnectionsFile())
}
