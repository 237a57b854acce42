package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log LogConfig
	S3  S3Config
	Run RunConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// S3Config holds AWS S3 settings used by s3 sources and report uploads.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// RunConfig holds defaults for validation runs. CLI flags override them.
type RunConfig struct {
	Vladfile  string `mapstructure:"vladfile"`
	Processes int    `mapstructure:"processes"`
	Delimiter string `mapstructure:"delimiter"`
	ReportOut string `mapstructure:"report_out"`
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *RunConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// Load reads configuration from environment variables with the VLADIATE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VLADIATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")

	// Run defaults
	v.SetDefault("run.vladfile", "vladfile")
	v.SetDefault("run.processes", 1)
	v.SetDefault("run.delimiter", ",")
	v.SetDefault("run.report_out", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"log.level":      "VLADIATE_LOG_LEVEL",
		"log.format":     "VLADIATE_LOG_FORMAT",
		"s3.region":      "VLADIATE_S3_REGION",
		"s3.endpoint":    "VLADIATE_S3_ENDPOINT",
		"s3.access_key":  "VLADIATE_S3_ACCESS_KEY",
		"s3.secret_key":  "VLADIATE_S3_SECRET_KEY",
		"run.vladfile":   "VLADIATE_RUN_VLADFILE",
		"run.processes":  "VLADIATE_RUN_PROCESSES",
		"run.delimiter":  "VLADIATE_RUN_DELIMITER",
		"run.report_out": "VLADIATE_RUN_REPORT_OUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		S3: S3Config{
			Region:    v.GetString("s3.region"),
			Endpoint:  v.GetString("s3.endpoint"),
			AccessKey: v.GetString("s3.access_key"),
			SecretKey: v.GetString("s3.secret_key"),
		},
		Run: RunConfig{
			Vladfile:  v.GetString("run.vladfile"),
			Processes: v.GetInt("run.processes"),
			Delimiter: v.GetString("run.delimiter"),
			ReportOut: v.GetString("run.report_out"),
		},
	}

	if cfg.Run.Processes < 1 {
		return nil, fmt.Errorf("run.processes must be at least 1, got %d", cfg.Run.Processes)
	}
	if utf8.RuneCountInString(cfg.Run.Delimiter) != 1 {
		return nil, fmt.Errorf("run.delimiter must be a single character, got %q", cfg.Run.Delimiter)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return nil, fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format)
	}

	return cfg, nil
}
