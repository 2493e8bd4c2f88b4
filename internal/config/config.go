package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	RulesModeExtend  = "extend"
	RulesModeReplace = "replace"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

// PlateRulesConfig points at an optional YAML file with jurisdiction rules.
type PlateRulesConfig struct {
	File string
	Mode string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	PlateRules  PlateRulesConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		PlateRules: PlateRulesConfig{
			File: v.GetString("PLATE_RULES_FILE"),
			Mode: v.GetString("PLATE_RULES_MODE"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.PlateRules.Mode == "" {
		cfg.PlateRules.Mode = RulesModeExtend
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	switch cfg.PlateRules.Mode {
	case RulesModeExtend, RulesModeReplace:
	default:
		return fmt.Errorf("PLATE_RULES_MODE must be %q or %q, got %q", RulesModeExtend, RulesModeReplace, cfg.PlateRules.Mode)
	}
	if cfg.PlateRules.Mode == RulesModeReplace && cfg.PlateRules.File == "" {
		return fmt.Errorf("PLATE_RULES_FILE is required when PLATE_RULES_MODE is %q", RulesModeReplace)
	}
	return nil
}
