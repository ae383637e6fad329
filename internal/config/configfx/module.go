package configfx

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const EnvPrefix = "CODESEARCH"

// Config holds the application configuration
type Config struct {
	Workspace      string    `mapstructure:"workspace"`
	IgnoreDirs     []string  `mapstructure:"ignore_dirs"`
	SnapshotPath   string    `mapstructure:"snapshot_path"`
	QueryCacheSize int       `mapstructure:"query_cache_size"`
	Log            LogConfig `mapstructure:"log"`
	MCP            MCPConfig `mapstructure:"mcp"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport"` // stdio, http or sse
	Address   string `mapstructure:"address"`
}

// Params represents the parameters needed to create configuration
type Params struct {
	fx.In

	ConfigPath   string `name:"configPath"   optional:"true"`
	Workspace    string `name:"workspace"    optional:"true"`
	SnapshotPath string `name:"snapshotPath" optional:"true"`
}

// Load reads defaults, the optional config file and CODESEARCH_* env vars.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workspace", ".")
	v.SetDefault("ignore_dirs", []string{"node_modules", "dist", "build"})
	v.SetDefault("snapshot_path", "")
	v.SetDefault("query_cache_size", 256)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.address", ":8080")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace path must be specified")
	}
	if c.QueryCacheSize <= 0 {
		return fmt.Errorf("invalid query cache size: %d", c.QueryCacheSize)
	}
	switch c.MCP.Transport {
	case "stdio", "http", "sse":
	default:
		return fmt.Errorf("unsupported mcp transport: %s", c.MCP.Transport)
	}
	return nil
}

// NewConfig loads the configuration; flag values override file and env.
func NewConfig(params Params) (*Config, error) {
	cfg, err := Load(params.ConfigPath)
	if err != nil {
		return nil, err
	}
	if params.Workspace != "" {
		cfg.Workspace = params.Workspace
	}
	if params.SnapshotPath != "" {
		cfg.SnapshotPath = params.SnapshotPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Module provides configuration for the application
var Module = fx.Module("config",
	fx.Provide(NewConfig),
)
