package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	// Pairs and lives shape every new board. The reveal delay is how long
	// a mismatched pair stays face up before flipping back.
	Pairs         int `env:"BOARD_PAIRS" envDefault:"6"`
	Lives         int `env:"BOARD_LIVES" envDefault:"5"`
	RevealDelayMS int `env:"REVEAL_DELAY_MS" envDefault:"800"`

	HistoryPageSize int `env:"HISTORY_PAGE_SIZE" envDefault:"20"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
