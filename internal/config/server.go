package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// POSTGRES_DSN switches persistence to postgres; without it the
	// server keeps JSON records under DATA_DIR.
	PostgresDSN string `env:"POSTGRES_DSN"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`

	// POOL_DIR points at a directory holding players.yaml and
	// captains.yaml; when set, a default auction is seeded from it at
	// startup.
	PoolDir string `env:"POOL_DIR"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
