// Package config holds the run configuration of datecast and resolves it from
// flags, DATECAST_* environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/nconklindev/datecast/internal/csvio"

	"github.com/spf13/viper"
)

const EnvPrefix = "DATECAST"

// Keys shared by flags, environment variables and config files.
const (
	KeyDate      = "date"
	KeyTimestamp = "timestamp"
	KeyInput     = "input"
	KeyOutput    = "output"
	KeyNaiveTZ   = "naive_tz"
	KeyEncoding  = "encoding"
	KeyCRLF      = "crlf"
	KeyHeader    = "header"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeyTUI       = "tui"
)

var (
	ErrNoColumns      = errors.New("no date or timestamp columns given")
	ErrNegativeColumn = errors.New("column indices must be non-negative")
)

type Config struct {
	DateColumns      []int  `mapstructure:"date"`
	TimestampColumns []int  `mapstructure:"timestamp"`
	Input            string `mapstructure:"input"`
	Output           string `mapstructure:"output"`
	NaiveTZ          string `mapstructure:"naive_tz"`
	Encoding         string `mapstructure:"encoding"`
	CRLF             bool   `mapstructure:"crlf"`
	Header           bool   `mapstructure:"header"`
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	TUI              bool   `mapstructure:"tui"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDate, []int{})
	v.SetDefault(KeyTimestamp, []int{})
	v.SetDefault(KeyNaiveTZ, "UTC")
	v.SetDefault(KeyEncoding, "utf-8")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads the optional config file and the environment into v and
// returns the merged configuration. Flags must already be bound to v.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := Config{
		DateColumns:      v.GetIntSlice(KeyDate),
		TimestampColumns: v.GetIntSlice(KeyTimestamp),
		Input:            v.GetString(KeyInput),
		Output:           v.GetString(KeyOutput),
		NaiveTZ:          v.GetString(KeyNaiveTZ),
		Encoding:         v.GetString(KeyEncoding),
		CRLF:             v.GetBool(KeyCRLF),
		Header:           v.GetBool(KeyHeader),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		TUI:              v.GetBool(KeyTUI),
	}
	return cfg, nil
}

// Validate checks the configuration before any input is read.
func (c *Config) Validate() error {
	if !c.TUI && len(c.DateColumns) == 0 && len(c.TimestampColumns) == 0 {
		return ErrNoColumns
	}
	for _, cols := range [][]int{c.DateColumns, c.TimestampColumns} {
		for _, i := range cols {
			if i < 0 {
				return fmt.Errorf("%w: got %d", ErrNegativeColumn, i)
			}
		}
	}
	if _, err := csvio.LookupEncoding(c.Encoding); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves NaiveTZ. "Local" is the process time zone, an empty
// value is UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.NaiveTZ == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.NaiveTZ)
	if err != nil {
		return nil, fmt.Errorf("naive timezone: %w", err)
	}
	return loc, nil
}
