package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thoreinstein/docxval/internal/paths"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "DOCXVAL"

// DotEnvFile is loaded from the working directory, when present, before
// environment variables are read.
const DotEnvFile = ".env"

// Defaults for every key.
const (
	DefaultExtension   = ".docx"
	DefaultFormat      = "text"
	DefaultMaxErrors   = 1000
	DefaultMaxPartSize = 64 << 20
)

// Config represents the top-level configuration structure.
type Config struct {
	Version       int      `mapstructure:"version" yaml:"version" validate:"eq=1"`
	Extension     string   `mapstructure:"extension" yaml:"extension" validate:"required,startswith=.,excludesall=/\\"`
	Format        string   `mapstructure:"format" yaml:"format" validate:"oneof=text json yaml"`
	MaxErrors     int      `mapstructure:"max_errors" yaml:"max_errors" validate:"gte=0"`
	MaxPartSize   int64    `mapstructure:"max_part_size" yaml:"max_part_size" validate:"gt=0"`
	Workers       int      `mapstructure:"workers" yaml:"workers" validate:"gte=0,lte=256"`
	DisabledRules []string `mapstructure:"disabled_rules" yaml:"disabled_rules" validate:"dive,required,alphanum,uppercase"`
	MetricsFile   string   `mapstructure:"metrics_file" yaml:"metrics_file,omitempty"`
}

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		Version:     1,
		Extension:   DefaultExtension,
		Format:      DefaultFormat,
		MaxErrors:   DefaultMaxErrors,
		MaxPartSize: DefaultMaxPartSize,
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	// config.yaml, config.toml and config.json are all accepted
	viper.SetConfigName("config")

	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("extension", d.Extension)
	viper.SetDefault("format", d.Format)
	viper.SetDefault("max_errors", d.MaxErrors)
	viper.SetDefault("max_part_size", d.MaxPartSize)
	viper.SetDefault("workers", d.Workers)
	viper.SetDefault("disabled_rules", []string{})
	viper.SetDefault("metrics_file", "")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load without a file: defaults apply
		case errors.As(err, &notFound), os.IsNotExist(errors.UnwrapAll(err)):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(&ValidationError{Errs: errs}, "validating config")
	}

	return &cfg, nil
}

// loadDotEnv loads path into the process environment if it exists.
// Variables already set in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}
	return nil
}
