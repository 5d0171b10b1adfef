package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	APIURL         string `env:"API_URL" envDefault:"http://localhost:8080"`
	Username       string `env:"BOT_USERNAME" envDefault:"autoplay_bot"`
	Games          int    `env:"BOT_GAMES" envDefault:"1"`
	PollIntervalMS int    `env:"BOT_POLL_INTERVAL_MS" envDefault:"250"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
