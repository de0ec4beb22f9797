package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	DatabasePath string

	JWTSecret          string
	AccessTokenMinutes int

	CORSOrigins       []string
	MaxMessageLength  int
	BroadcastBatchLen int
}

// Load reads configuration from the environment with sane defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "NiralaTechieConnect Messaging API")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8000)
	v.SetDefault("DATABASE_PATH", "techieconnect.db")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)
	v.SetDefault("MAX_MESSAGE_LENGTH", 5000)
	v.SetDefault("BROADCAST_BATCH_SIZE", 50)

	cfg := &Config{
		AppName:            v.GetString("APP_NAME"),
		Env:                v.GetString("APP_ENV"),
		Host:               v.GetString("HTTP_HOST"),
		Port:               v.GetInt("HTTP_PORT"),
		DatabasePath:       v.GetString("DATABASE_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		AccessTokenMinutes: v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES"),
		MaxMessageLength:   v.GetInt("MAX_MESSAGE_LENGTH"),
		BroadcastBatchLen:  v.GetInt("BROADCAST_BATCH_SIZE"),
	}

	cors := v.GetString("CORS_ORIGINS")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
