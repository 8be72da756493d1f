package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	SocketPort  string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8000"`
	HTTPPort    string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	MaxSessions int    `yaml:"max-sessions" env:"MAX_SESSIONS" env-default:"0"`
	Board       Board  `yaml:"board"`
	Redis       Redis  `yaml:"redis"`
}

type Board struct {
	Rows    int `yaml:"rows" env:"BOARD_ROWS" env-default:"6"`
	Columns int `yaml:"columns" env:"BOARD_COLUMNS" env-default:"7"`
}

type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DialTimeout time.Duration `yaml:"dial-timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	SessionTTL  time.Duration `yaml:"session-ttl" env:"REDIS_SESSION_TTL" env-default:"1h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the yaml file at path; environment variables override it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error", any case); unknown values mean info.
func (that *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
