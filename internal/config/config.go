package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// devJWTSecret solo se usa con ENV=development y JWT_SECRET vacío.
const devJWTSecret = "dev-insecure-secret"

type Config struct {
	AppName       string        `mapstructure:"APP_NAME"`
	Port          string        `mapstructure:"PORT"`
	Env           string        `mapstructure:"ENV"`
	DBDSN         string        `mapstructure:"DB_DSN"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	JWTTTL        time.Duration `mapstructure:"JWT_TTL"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	LogFormat     string        `mapstructure:"LOG_FORMAT"`
	AdviceURL     string        `mapstructure:"ADVICE_URL"`
	AdviceAPIKey  string        `mapstructure:"ADVICE_API_KEY"`
	AdviceTimeout time.Duration `mapstructure:"ADVICE_TIMEOUT"`
	Seed          bool          `mapstructure:"SEED"`
	UpcomingLimit int           `mapstructure:"UPCOMING_LIMIT"`
}

var keys = []string{
	"APP_NAME", "PORT", "ENV", "DB_DSN", "JWT_SECRET", "JWT_TTL",
	"LOG_LEVEL", "LOG_FORMAT", "ADVICE_URL", "ADVICE_API_KEY",
	"ADVICE_TIMEOUT", "SEED", "UPCOMING_LIMIT",
}

// Load lee variables de entorno (y .env si existe).
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "healthcare-portal")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("JWT_TTL", 12*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ADVICE_TIMEOUT", 15*time.Second)
	v.SetDefault("SEED", true)
	v.SetDefault("UPCOMING_LIMIT", 3)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env es opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")

	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.UpcomingLimit <= 0 {
		return fmt.Errorf("UPCOMING_LIMIT must be > 0, got %d", c.UpcomingLimit)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0, got %s", c.JWTTTL)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		if !c.IsDev() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWTSecret = devJWTSecret
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DebugAuth habilita X-Debug-User-ID; nunca fuera de development.
func (c *Config) DebugAuth() bool {
	return c.IsDev()
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
