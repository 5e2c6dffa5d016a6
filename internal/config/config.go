package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the bot needs from the environment.
type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`

	// PostgresDSN selects the Postgres history store when set; otherwise
	// the file store under DataDir is used.
	PostgresDSN string `env:"POSTGRES_DSN"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Team1Name    string `env:"TEAM1_NAME" envDefault:"Malaka Racers"`
	ForfeitScore int    `env:"FORFEIT_SCORE" envDefault:"150"`
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, relying on environment variables")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
