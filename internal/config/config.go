package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	ScoringURL     string   `mapstructure:"SCORING_URL"`
	RosterPath     string   `mapstructure:"ROSTER_PATH"`
	StateBackend   string   `mapstructure:"STATE_BACKEND"`
	StatePath      string   `mapstructure:"STATE_PATH"`
	RedisURL       string   `mapstructure:"REDIS_URL"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("SCORING_URL", "http://localhost:8000")
	v.SetDefault("ROSTER_PATH", "data/patient_database.json")
	v.SetDefault("STATE_BACKEND", "file")
	v.SetDefault("STATE_PATH", "data/dashboard_state.json")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("SCORING_URL")
	v.BindEnv("ROSTER_PATH")
	v.BindEnv("STATE_BACKEND")
	v.BindEnv("STATE_PATH")
	v.BindEnv("REDIS_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is usable before the server starts.
// The scoring service URL is required since every risk assessment goes
// through it, and the state backend must resolve to a concrete store.
func (c *Config) Validate() error {
	if c.ScoringURL == "" {
		return fmt.Errorf("SCORING_URL is required")
	}
	switch c.StateBackend {
	case "file":
		if c.StatePath == "" {
			return fmt.Errorf("STATE_PATH is required when STATE_BACKEND is \"file\"")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STATE_BACKEND is \"redis\"")
		}
	default:
		return fmt.Errorf("STATE_BACKEND must be \"file\" or \"redis\", got %q", c.StateBackend)
	}
	if c.RosterPath == "" {
		return fmt.Errorf("ROSTER_PATH is required")
	}
	return nil
}
