// Package config resolves qasheet settings from flags, QASHEET_* environment
// variables and an optional .qasheet.yaml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores (log.level -> QASHEET_LOG_LEVEL).
const EnvPrefix = "QASHEET"

// Keys understood by Load.
const (
	KeyFormat    = "format"
	KeyOutput    = "output"
	KeyTitle     = "title"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
)

type Config struct {
	// Render defaults
	Format string
	Output string
	Title  string

	// Logging
	LogLevel  string
	LogFormat string

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// NewViper returns a viper instance bound to the environment and, when one
// is found, a config file. An explicit file (the argument, then
// QASHEET_CONFIG_FILE) must exist; the default .qasheet.yaml in the working
// directory is optional.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyFormat, "plain")
	v.SetDefault(KeyOutput, "-")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")

	if file == "" {
		file = os.Getenv(EnvPrefix + "_CONFIG_FILE")
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(".qasheet")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load reads the settings from v, clamping empty values to defaults.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Format:     strings.ToLower(strings.TrimSpace(v.GetString(KeyFormat))),
		Output:     strings.TrimSpace(v.GetString(KeyOutput)),
		Title:      strings.TrimSpace(v.GetString(KeyTitle)),
		LogLevel:   strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		ConfigFile: v.ConfigFileUsed(),
	}

	if cfg.Format == "" {
		cfg.Format = "plain"
	}
	if cfg.Output == "" {
		cfg.Output = "-"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}

	return cfg
}

// Validate checks the logging settings. The output format is checked by the
// renderer so that an unknown format is reported like any other run failure.
func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is invalid (want json or text)", c.LogFormat)
	}
	return nil
}

// Logger builds the slog logger described by the config.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log.level %q is invalid (want debug, info, warn or error)", c.LogLevel)
	}
	return level, nil
}
