package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

// Config holds application configuration loaded from the environment.
type Config struct {
	Addr            string        `mapstructure:"addr"`             // NIYOG_ADDR, default ":8080"
	DBPath          string        `mapstructure:"db"`               // NIYOG_DB, default "niyog.db"
	AuthToken       string        `mapstructure:"auth_token"`       // NIYOG_AUTH_TOKEN, optional
	LogLevel        string        `mapstructure:"log_level"`        // NIYOG_LOG_LEVEL, default "info"
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`  // NIYOG_ALLOWED_ORIGINS, comma separated
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // NIYOG_SHUTDOWN_TIMEOUT, default 5s
	SweepSchedule   string        `mapstructure:"sweep_schedule"`   // NIYOG_SWEEP_SCHEDULE, default "@every 1h"
	StallAfter      time.Duration `mapstructure:"stall_after"`      // NIYOG_STALL_AFTER, default 72h
	OpenAIModel     string        `mapstructure:"openai_model"`     // NIYOG_OPENAI_MODEL
	OpenAIKey       string        `mapstructure:"openai_api_key"`   // OPENAI_API_KEY, optional
}

// Load reads configuration from the environment, after filling unset
// variables from an optional .env file.
func Load() (Config, error) {
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix("NIYOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("db", "niyog.db")
	v.SetDefault("auth_token", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("sweep_schedule", "@every 1h")
	v.SetDefault("stall_after", 72*time.Hour)
	v.SetDefault("openai_model", "gpt-3.5-turbo-instruct")
	v.SetDefault("openai_api_key", "")
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.DBPath == "" {
		return errors.New("db path is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.StallAfter <= 0 {
		return errors.New("stall_after must be positive")
	}
	return nil
}

// splitOrigins flattens comma-separated entries and drops blanks.
func splitOrigins(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, o := range strings.Split(entry, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
