package config

import (
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "snowdemo/pkg/errors"
    "snowdemo/pkg/models"

    "github.com/spf13/viper"
    "gopkg.in/yaml.v3"
)

const envPrefix = "SNOWDEMO"

// GetConfigPath returns the per-user configuration directory.
func GetConfigPath() string {
    home, _ := os.UserHomeDir()
    return filepath.Join(home, ".snowdemo")
}

// FindConfigFile returns the first existing config.yaml, checking the
// working directory before the per-user directory. Empty when none exists.
func FindConfigFile() string {
    if configFile := os.Getenv("SNOWDEMO_CONFIG"); configFile != "" {
        return filepath.Clean(configFile)
    }
    for _, candidate := range []string{
        "config.yaml",
        filepath.Join(GetConfigPath(), "config.yaml"),
    } {
        if _, err := os.Stat(candidate); err == nil {
            return candidate
        }
    }
    return ""
}

// Load reads the demo configuration. An empty path triggers FindConfigFile;
// when no file exists the defaults are returned. SNOWDEMO_* environment
// variables override file values (SNOWDEMO_DOCUMENTS_MAX_PER_SCENARIO etc).
func Load(path string) (*models.Config, error) {
    v := viper.New()
    v.SetConfigType("yaml")
    v.SetEnvPrefix(envPrefix)
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()
    setDefaults(v)

    explicit := path != ""
    if path == "" {
        path = FindConfigFile()
    }

    if path != "" {
        v.SetConfigFile(path)
        if err := v.ReadInConfig(); err != nil {
            if os.IsNotExist(err) && !explicit {
                return fromViper(v)
            }
            if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
                return nil, errors.New(errors.ErrCodeConfigNotFound, fmt.Sprintf("Config file %s not found", path)).
                    WithContext("path", path).
                    WithSuggestions("Run 'snowdemo init' to write a starter config.yaml")
            }
            return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to read config file").
                WithContext("path", path)
        }
    }

    return fromViper(v)
}

func fromViper(v *viper.Viper) (*models.Config, error) {
    var cfg models.Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to decode configuration")
    }
    if err := Validate(&cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}

func setDefaults(v *viper.Viper) {
    d := models.Defaults()
    v.SetDefault("connection", d.Connection)
    v.SetDefault("model", d.Model)
    v.SetDefault("warehouse", d.Warehouse)
    v.SetDefault("seed", d.Seed)
    v.SetDefault("quick_scale", d.QuickScale)
    v.SetDefault("documents.min_per_scenario", d.Documents.MinPerScenario)
    v.SetDefault("documents.max_per_scenario", d.Documents.MaxPerScenario)
    v.SetDefault("search_service.target_lag", d.SearchService.TargetLag)
    v.SetDefault("search_service.wait", d.SearchService.Wait)
    v.SetDefault("search_service.wait_for", d.SearchService.WaitFor)
    v.SetDefault("asset_management.securities_csv", "")
}

// Validate checks value ranges that would otherwise surface as odd SQL.
func Validate(cfg *models.Config) error {
    if cfg.Documents.MinPerScenario < 1 {
        return errors.ConfigError("documents.min_per_scenario must be at least 1", "documents.min_per_scenario")
    }
    if cfg.Documents.MaxPerScenario < cfg.Documents.MinPerScenario {
        return errors.ConfigError("documents.max_per_scenario must not be below min_per_scenario", "documents.max_per_scenario")
    }
    if cfg.QuickScale <= 0 || cfg.QuickScale > 1 {
        return errors.ConfigError("quick_scale must be in (0, 1]", "quick_scale")
    }
    if strings.TrimSpace(cfg.Model) == "" {
        return errors.ConfigError("model must name a Cortex model", "model")
    }
    return nil
}

// Save writes cfg as YAML, creating parent directories.
func Save(path string, cfg *models.Config) error {
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0700); err != nil {
            return fmt.Errorf("failed to create config directory: %w", err)
        }
    }

    data, err := yaml.Marshal(cfg)
    if err != nil {
        return fmt.Errorf("failed to marshal config: %w", err)
    }

    if err := os.WriteFile(path, data, 0600); err != nil {
        return fmt.Errorf("failed to write config file: %w", err)
    }

    return nil
}
