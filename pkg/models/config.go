package models

// Config is the demo configuration read from config.yaml.
type Config struct {
    Connection      string                    `yaml:"connection" mapstructure:"connection"`
    Model           string                    `yaml:"model" mapstructure:"model"`
    Warehouse       string                    `yaml:"warehouse" mapstructure:"warehouse"`
    Seed            int64                     `yaml:"seed" mapstructure:"seed"`
    QuickScale      float64                   `yaml:"quick_scale" mapstructure:"quick_scale"`
    Documents       Documents                 `yaml:"documents" mapstructure:"documents"`
    SearchService   SearchService             `yaml:"search_service" mapstructure:"search_service"`
    AssetManagement AssetManagement           `yaml:"asset_management" mapstructure:"asset_management"`
    Verticals       map[string]VerticalConfig `yaml:"verticals" mapstructure:"verticals"`
    Snowflake       Connection                `yaml:"snowflake" mapstructure:"snowflake"` // inline fallback when connections.toml has no entry
}

// Documents controls how many prompts are rendered per scenario.
type Documents struct {
    MinPerScenario int `yaml:"min_per_scenario" mapstructure:"min_per_scenario"`
    MaxPerScenario int `yaml:"max_per_scenario" mapstructure:"max_per_scenario"`
}

// SearchService holds defaults for every Cortex Search service created.
type SearchService struct {
    TargetLag string `yaml:"target_lag" mapstructure:"target_lag"`
    Wait      bool   `yaml:"wait" mapstructure:"wait"`
    WaitFor   string `yaml:"wait_for" mapstructure:"wait_for"` // duration, e.g. "5m"
}

// AssetManagement holds settings only the asset management vertical reads.
type AssetManagement struct {
    SecuritiesCSV string `yaml:"securities_csv" mapstructure:"securities_csv"`
}

// VerticalConfig overrides a vertical's defaults.
type VerticalConfig struct {
    Database string `yaml:"database" mapstructure:"database"`
    Disabled bool   `yaml:"disabled" mapstructure:"disabled"`
}

// Connection is one named entry of connections.toml.
type Connection struct {
    Account           string `yaml:"account" mapstructure:"account"`
    User              string `yaml:"user" mapstructure:"user"`
    Password          string `yaml:"password,omitempty" mapstructure:"password"`
    Authenticator     string `yaml:"authenticator,omitempty" mapstructure:"authenticator"`
    PrivateKeyFile    string `yaml:"private_key_file,omitempty" mapstructure:"private_key_file"`
    PrivateKeyFilePwd string `yaml:"private_key_file_pwd,omitempty" mapstructure:"private_key_file_pwd"`
    Role              string `yaml:"role" mapstructure:"role"`
    Warehouse         string `yaml:"warehouse" mapstructure:"warehouse"`
    Database          string `yaml:"database,omitempty" mapstructure:"database"`
    Schema            string `yaml:"schema,omitempty" mapstructure:"schema"`
}

// IsZero reports whether no connection field has been set.
func (c Connection) IsZero() bool {
    return c == Connection{}
}

// Defaults returns the configuration used when no config.yaml exists.
func Defaults() Config {
    return Config{
        Model:      "llama3.1-70b",
        Seed:       42,
        QuickScale: 0.2,
        Documents: Documents{
            MinPerScenario: 35,
            MaxPerScenario: 50,
        },
        SearchService: SearchService{
            TargetLag: "1 hour",
            WaitFor:   "5m",
        },
    }
}
