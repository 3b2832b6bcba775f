package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server Server
	Mongo  Mongo
	JWT    JWT
	Mail   Mail
	Logger Logger
}

type Server struct {
	Port        string
	Environment string
}

type Mongo struct {
	URI      string
	Database string
}

type JWT struct {
	Secret    string
	ExpiresIn int // hours
}

type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Logger struct {
	Development bool
	Level       string
}

// LoadConfig reads config/<filename>.yaml; environment variables override
// file values (SERVER_PORT, MONGO_URI, JWT_SECRET, ...).
func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "skillswap")
	v.SetDefault("jwt.expiresIn", 24)
	v.SetDefault("logger.development", true)
	v.SetDefault("logger.level", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// env-only configuration is fine in containers
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		slog.Error("unable to unmarshal config", "err", err)
		return nil, err
	}
	if c.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &c, nil
}
