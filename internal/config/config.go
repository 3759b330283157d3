package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"timercraft/internal/logger"
)

// AppName names the data directory and seeds the single-instance port.
const AppName = "TimerCraft"

const (
	envPrefix       = "TIMERCRAFT"
	databaseFile    = "timercraft.db"
	minTickInterval = 10 * time.Millisecond
	maxTickInterval = time.Minute
)

// Config holds runtime configuration.
type Config struct {
	LogLevel     string         `mapstructure:"log_level"`
	TickInterval time.Duration  `mapstructure:"tick_interval"`
	DataDir      string         `mapstructure:"data_dir"`
	Database     DatabaseConfig `mapstructure:"database"`
	Metrics      MetricsConfig  `mapstructure:"metrics"`
	Control      ControlConfig  `mapstructure:"control"`
}

// DatabaseConfig holds sqlite settings. Path defaults to data_dir/timercraft.db.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ControlConfig toggles the local control API.
type ControlConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Options select where configuration is read from.
type Options struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// EnvFile is an optional dotenv file; a missing file is ignored.
	EnvFile string
}

// Load reads defaults, the config file, the dotenv file and TIMERCRAFT_* env vars,
// in increasing order of precedence.
func Load(opts Options) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	defaultDataDir, err := defaultDataDir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("log_level", logger.InfoLevel)
	v.SetDefault("tick_interval", time.Second)
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("database.path", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("control.enabled", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(cfg.DataDir, databaseFile)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (cfg Config) Validate() error {
	if cfg.TickInterval < minTickInterval || cfg.TickInterval > maxTickInterval {
		return fmt.Errorf("tick_interval %s outside [%s, %s]", cfg.TickInterval, minTickInterval, maxTickInterval)
	}
	switch cfg.LogLevel {
	case logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel:
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", cfg.LogLevel)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is empty")
	}
	return nil
}

func defaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}
