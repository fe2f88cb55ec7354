package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/openalpha/hedge-vault/metrics"
)

const (
	// Name is the application name
	Name = "vaultd"

	// EnvPrefix prefixes environment overrides, e.g. VAULTD_LOG_LEVEL
	EnvPrefix = "VAULTD"

	// ConfigFileName is the config file under <home>/config
	ConfigFileName = "vaultd.toml"
)

// DefaultNodeHome default home directory for the application daemon
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".vaultd")
}

// Config is the host configuration
type Config struct {
	Home       string           `mapstructure:"home" json:"home"`
	DBBackend  string           `mapstructure:"db_backend" json:"db_backend"`
	LogLevel   string           `mapstructure:"log_level" json:"log_level"`
	LogFormat  string           `mapstructure:"log_format" json:"log_format"`
	Metrics    MetricsConfig    `mapstructure:"metrics" json:"metrics"`
	Simulation SimulationConfig `mapstructure:"simulation" json:"simulation"`
}

// MetricsConfig controls the Prometheus collector
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" json:"enabled"`
	Namespace string `mapstructure:"namespace" json:"namespace"`
}

// SimulationConfig parameterizes the simulated swap venue
type SimulationConfig struct {
	SwapRateBps   uint64 `mapstructure:"swap_rate_bps" json:"swap_rate_bps"`
	SwapLiquidity uint64 `mapstructure:"swap_liquidity" json:"swap_liquidity"`
}

// DefaultConfig returns the default host configuration
func DefaultConfig() Config {
	return Config{
		Home:      DefaultNodeHome,
		DBBackend: string(dbm.GoLevelDBBackend),
		LogLevel:  zerolog.InfoLevel.String(),
		LogFormat: "plain",
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: metrics.DefaultNamespace,
		},
		Simulation: SimulationConfig{
			SwapRateBps:   10000,
			SwapLiquidity: 0,
		},
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend:
		if c.Home == "" {
			return errors.New("home is required for the goleveldb backend")
		}
	case dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "plain" {
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.New("metrics namespace is required when metrics are enabled")
	}
	if c.Simulation.SwapRateBps == 0 {
		return errors.New("simulation swap_rate_bps must be positive")
	}
	return nil
}

// DataDir is where the ledger database lives
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// ConfigFile is the path of the config file under home
func ConfigFile(home string) string {
	return filepath.Join(home, "config", ConfigFileName)
}

// SetDefaults registers the default configuration on v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("home", d.Home)
	v.SetDefault("db_backend", d.DBBackend)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("simulation.swap_rate_bps", d.Simulation.SwapRateBps)
	v.SetDefault("simulation.swap_liquidity", d.Simulation.SwapLiquidity)
}

// LoadConfig resolves the configuration from defaults, the config file under
// home, VAULTD_* environment variables and whatever flags are bound to v.
func LoadConfig(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(ConfigFile(v.GetString("home")))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteDefaultConfig writes the default config file under home, refusing to overwrite
func WriteDefaultConfig(home string) (string, error) {
	path := ConfigFile(home)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.Set("home", home)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// NewLogger builds the host logger from the configured level and format
func NewLogger(cfg Config, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(out, opts...), nil
}
