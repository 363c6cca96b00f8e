package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Config is the environment-driven configuration shared by the server and the historian.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	HistorianQueue     string        `env:"HISTORIAN_QUEUE_NAME" envDefault:"uno_actions"`
	HistorianBatchSize int           `env:"HISTORIAN_BATCH_SIZE" envDefault:"20"`
	HistorianFlushMs   int           `env:"HISTORIAN_FLUSH_MS" envDefault:"500"`
	InactivityTimeout  time.Duration `env:"GAME_INACTIVITY_TIMEOUT" envDefault:"10m"`

	// TokenExpireTime is a duration, or "never"/"0"/empty for tokens without expiry.
	TokenExpireTime   string `env:"TOKEN_EXPIRE_TIME"`
	JWTPrivateKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPublicKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.HistorianBatchSize <= 0 {
		return Config{}, fmt.Errorf("HISTORIAN_BATCH_SIZE must be positive, got %d", cfg.HistorianBatchSize)
	}
	if cfg.HistorianFlushMs <= 0 {
		return Config{}, fmt.Errorf("HISTORIAN_FLUSH_MS must be positive, got %d", cfg.HistorianFlushMs)
	}
	return cfg, nil
}

// FlushDelay is the historian's batch flush interval.
func (c Config) FlushDelay() time.Duration {
	return time.Duration(c.HistorianFlushMs) * time.Millisecond
}

// Logger configures the standard logrus logger with the configured level.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.StandardLogger()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}
