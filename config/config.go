// Package config provides configuration loading and validation for the
// shape mapper and its command line tool.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"shape-mapper/primitive"
)

// EnvPrefix is the prefix of environment variables overriding the file.
const EnvPrefix = "SHAPEMAP"

var validate = validator.New()

// Config holds all configuration of the mapper.
type Config struct {
	Mapping  MappingConfig `mapstructure:"mapping" yaml:"mapping"`
	Logging  LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Profiles []string      `mapstructure:"profiles" yaml:"profiles" validate:"dive,required"`
}

// MappingConfig holds the defaults of new configurations.
type MappingConfig struct {
	RequireInitialize bool     `mapstructure:"require_initialize" yaml:"require_initialize"`
	NullSafe          bool     `mapstructure:"null_safe" yaml:"null_safe"`
	NormalizedNames   bool     `mapstructure:"normalized_names" yaml:"normalized_names"`
	Flattening        bool     `mapstructure:"flattening" yaml:"flattening"`
	Conversions       []string `mapstructure:"conversions" yaml:"conversions" validate:"dive,required"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// Load loads configuration from the file at path, when given, and from
// SHAPEMAP_ prefixed environment variables. Without a path a shapemap.yaml
// in the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("shapemap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mapping.require_initialize", true)
	v.SetDefault("mapping.null_safe", true)
	v.SetDefault("mapping.normalized_names", true)
	v.SetDefault("mapping.flattening", true)
	v.SetDefault("mapping.conversions", []string{"safe_number", "enum_string"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("profiles", []string{})
}

// Validate checks the struct tags and the conversion category names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := c.Mapping.Categories(); err != nil {
		return err
	}

	return nil
}

// Categories parses the configured conversion category names.
func (m MappingConfig) Categories() (primitive.CategoryEnum, error) {
	return primitive.ParseCategories(m.Conversions)
}

// Build creates the zap logger described by the configuration.
func (l LoggingConfig) Build() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}

	zc := zap.NewProductionConfig()
	if l.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Level = level
	zc.OutputPaths = []string{l.Output}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}
