package config

import (
    stderrors "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "snowdemo/pkg/errors"
    "snowdemo/pkg/models"

    "github.com/joho/godotenv"
    "github.com/spf13/viper"
    "github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name passwords are stored under.
const KeyringService = "snowdemo"

// ConnectionsFile returns the connections.toml location used by the
// Snowflake CLI: $SNOWFLAKE_HOME first, then ~/.snowflake.
func ConnectionsFile() string {
    if home := os.Getenv("SNOWFLAKE_HOME"); home != "" {
        return filepath.Join(home, "connections.toml")
    }
    home, _ := os.UserHomeDir()
    return filepath.Join(home, ".snowflake", "connections.toml")
}

// LoadDotEnv loads .env from the working directory without overriding
// variables already present in the environment. A missing file is not an error.
func LoadDotEnv() error {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
        return fmt.Errorf("failed to load .env: %w", err)
    }
    return nil
}

// ResolveConnection produces the connection named name, or the file's
// default_connection_name when name is empty. Lookup order: connections.toml
// entry, the config's inline snowflake block, then the SNOWFLAKE_* environment
// variables for any field still empty. A missing password falls back to the
// OS keyring. The resolved connection name is returned alongside.
func ResolveConnection(file, name string, inline models.Connection) (models.Connection, string, error) {
    conn, resolved, found, err := readConnection(file, name)
    if err != nil {
        return models.Connection{}, "", err
    }

    if !found {
        conn = inline
    }

    applyEnv(&conn)

    if conn.Password == "" && conn.PrivateKeyFile == "" && !isExternalAuth(conn) {
        if secret, err := keyring.Get(KeyringService, keyringUser(resolved, conn)); err == nil {
            conn.Password = secret
        } else if !stderrors.Is(err, keyring.ErrNotFound) {
            return models.Connection{}, "", errors.Wrap(err, errors.ErrCodeConfigMissing, "Failed to read password from keyring")
        }
    }

    if err := ValidateConnection(conn); err != nil {
        if !found && inline.IsZero() && name != "" {
            return models.Connection{}, "", errors.New(errors.ErrCodeConnectionUnknown,
                fmt.Sprintf("Connection '%s' not found", name)).
                WithContext("file", file).
                WithSuggestions(
                    fmt.Sprintf("Add a [%s] section to %s", name, file),
                    "Or export SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER and SNOWFLAKE_PASSWORD",
                ).AsFatal()
        }
        return models.Connection{}, "", err
    }

    return conn, resolved, nil
}

// StorePassword saves a password in the OS keyring for later runs.
func StorePassword(name string, conn models.Connection, password string) error {
    if err := keyring.Set(KeyringService, keyringUser(name, conn), password); err != nil {
        return errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to store password in keyring")
    }
    return nil
}

// LookupConnection returns the named connection and its resolved name with
// environment fallbacks applied but without validation or keyring lookup.
func LookupConnection(file, name string, inline models.Connection) (models.Connection, string, error) {
    conn, resolved, found, err := readConnection(file, name)
    if err != nil {
        return models.Connection{}, "", err
    }
    if !found {
        conn = inline
    }
    applyEnv(&conn)
    return conn, resolved, nil
}

func keyringUser(name string, conn models.Connection) string {
    if conn.User != "" {
        return name + ":" + strings.ToLower(conn.User)
    }
    return name
}

// DefaultConnectionName is used when neither the config nor connections.toml
// names a connection.
const DefaultConnectionName = "default"

func readConnection(file, name string) (models.Connection, string, bool, error) {
    if _, err := os.Stat(file); err != nil {
        if name == "" {
            name = DefaultConnectionName
        }
        return models.Connection{}, name, false, nil
    }

    v := viper.New()
    v.SetConfigFile(file)
    v.SetConfigType("toml")
    if err := v.ReadInConfig(); err != nil {
        return models.Connection{}, "", false, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to parse connections file").
            WithContext("file", file)
    }

    if name == "" {
        name = v.GetString("default_connection_name")
    }
    if name == "" {
        name = DefaultConnectionName
    }

    sub := v.Sub(name)
    if sub == nil {
        // older snowsql-style files nest everything under [connections]
        sub = v.Sub("connections." + name)
    }
    if sub == nil {
        return models.Connection{}, name, false, nil
    }

    var conn models.Connection
    if err := sub.Unmarshal(&conn); err != nil {
        return models.Connection{}, "", false, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to decode connection").
            WithContext("connection", name)
    }
    return conn, name, true, nil
}

func applyEnv(conn *models.Connection) {
    fill := func(dst *string, key string) {
        if *dst == "" {
            *dst = os.Getenv(key)
        }
    }
    fill(&conn.Account, "SNOWFLAKE_ACCOUNT")
    fill(&conn.User, "SNOWFLAKE_USER")
    fill(&conn.Password, "SNOWFLAKE_PASSWORD")
    fill(&conn.Role, "SNOWFLAKE_ROLE")
    fill(&conn.Warehouse, "SNOWFLAKE_WAREHOUSE")
    fill(&conn.Authenticator, "SNOWFLAKE_AUTHENTICATOR")
    fill(&conn.PrivateKeyFile, "SNOWFLAKE_PRIVATE_KEY_FILE")
    fill(&conn.PrivateKeyFilePwd, "SNOWFLAKE_PRIVATE_KEY_FILE_PWD")
}

func isExternalAuth(conn models.Connection) bool {
    return strings.EqualFold(conn.Authenticator, "externalbrowser")
}

// ValidateConnection checks the fields every authenticator needs.
func ValidateConnection(conn models.Connection) error {
    if conn.Account == "" {
        return errors.New(errors.ErrCodeRequiredField, "account is required").
            WithContext("field", "account").AsFatal()
    }
    if conn.User == "" {
        return errors.New(errors.ErrCodeRequiredField, "user is required").
            WithContext("field", "user").AsFatal()
    }
    if conn.Password == "" && conn.PrivateKeyFile == "" && !isExternalAuth(conn) {
        return errors.New(errors.ErrCodeRequiredField, "password or private_key_file is required").
            WithContext("field", "password").
            WithSuggestions("Set SNOWFLAKE_PASSWORD or store it with 'snowdemo login'").
            AsFatal()
    }
    return nil
}
