package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Simplici0/estatecalc/internal/formula"
)

const (
	defaultEnv      = "dev"
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from the environment and an
// optional config file.
type Config struct {
	Env             string `mapstructure:"app_env"`
	DBPath          string `mapstructure:"db_path"`
	Port            string `mapstructure:"port"`
	APIToken        string `mapstructure:"api_token"`
	LogLevel        string `mapstructure:"log_level"`
	SolverMaxPasses int    `mapstructure:"solver_max_passes"`

	// Warnings lists settings that were missing or replaced by a default.
	Warnings []string `mapstructure:"-"`
}

// IsDev reports whether the application runs in the development environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// Level returns the zerolog level named by LogLevel, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Load reads .env (never overriding variables already set), then the
// environment and, when configFile is not empty, that file.
func Load(configFile string) (Config, error) {
	// Best-effort: production should use real env injection.
	_ = loadDotEnv(".env")

	v := viper.New()
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("port", defaultPort)
	v.SetDefault("api_token", "")
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("solver_max_passes", formula.DefaultMaxPasses)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.SolverMaxPasses <= 0 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("SOLVER_MAX_PASSES=%d is not positive, using %d", cfg.SolverMaxPasses, formula.DefaultMaxPasses))
		cfg.SolverMaxPasses = formula.DefaultMaxPasses
	}
	if cfg.APIToken == "" {
		cfg.Warnings = append(cfg.Warnings, "API_TOKEN is not set, the API accepts unauthenticated requests")
	}

	return cfg, nil
}
