// Package config loads plantdx settings from defaults, an optional YAML
// config file, a .env file, PLANTDX_* environment variables and command
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = "plantdx"
	envPrefix  = "PLANTDX"
)

// Config is the decoded and validated configuration.
type Config struct {
	KB     KBConfig     `mapstructure:"kb"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
	Batch  BatchConfig  `mapstructure:"batch"`
}

// KBConfig selects the knowledge-base backend.
type KBConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=builtin file sqlite"`
	// Path is a built-in name for the builtin driver, otherwise a file or
	// database path.
	Path string `mapstructure:"path" validate:"required_unless=Driver builtin"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=text markdown json pretty"`
	Color  bool   `mapstructure:"color"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers" validate:"min=1,max=64"`
}

// validate caches struct info.
var validate = validator.New()

// New returns a viper instance with defaults and environment binding set.
// Flags are bound by the caller with BindPFlag before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("kb.driver", "builtin")
	v.SetDefault("kb.path", "")
	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("batch.workers", 4)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Sources names the optional files Load reads.
type Sources struct {
	// ConfigFile is an explicit config path. When empty, plantdx.yaml is
	// searched for in the working directory and then $HOME.
	ConfigFile string
	// EnvFile defaults to ".env". A missing env file is not an error.
	EnvFile string
}

// Load reads the sources into v, decodes the result and validates it. It
// returns the config file used, or "" when none was found.
func Load(v *viper.Viper, src Sources) (Config, string, error) {
	envFile := src.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, "", fmt.Errorf("config: load %s: %w", envFile, err)
	}

	if src.ConfigFile != "" {
		v.SetConfigFile(src.ConfigFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if src.ConfigFile != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("config: read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, used, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := validate.Struct(cfg); err != nil {
		return Config{}, used, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, used, nil
}
