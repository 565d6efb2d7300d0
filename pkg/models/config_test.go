package models

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gopkg.in/yaml.v3"
)

func TestConfigYAML(t *testing.T) {
    raw := `
connection: demo
model: mistral-large2
seed: 7
documents:
  min_per_scenario: 10
  max_per_scenario: 12
asset_management:
  securities_csv: cache/securities.csv
verticals:
  banking:
    database: BANK_AI_DEMO
  insurance:
    disabled: true
`
    var cfg Config
    require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

    assert.Equal(t, "demo", cfg.Connection)
    assert.Equal(t, "mistral-large2", cfg.Model)
    assert.Equal(t, int64(7), cfg.Seed)
    assert.Equal(t, 10, cfg.Documents.MinPerScenario)
    assert.Equal(t, "cache/securities.csv", cfg.AssetManagement.SecuritiesCSV)
    assert.Equal(t, "BANK_AI_DEMO", cfg.Verticals["banking"].Database)
    assert.True(t, cfg.Verticals["insurance"].Disabled)
}

func TestDefaults(t *testing.T) {
    cfg := Defaults()

    assert.Empty(t, cfg.Connection)
    assert.Equal(t, 35, cfg.Documents.MinPerScenario)
    assert.Equal(t, 50, cfg.Documents.MaxPerScenario)
    assert.InDelta(t, 0.2, cfg.QuickScale, 1e-9)
    assert.True(t, cfg.Snowflake.IsZero())
}

func TestConnectionIsZero(t *testing.T) {
    assert.True(t, Connection{}.IsZero())
    assert.False(t, Connection{Account: "xy12345"}.IsZero())
}
