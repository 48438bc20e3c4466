package config

import "github.com/caarlos0/env/v11"

// AuctionConfig carries the defaults for the auction seeded from
// POOL_DIR at startup. Point values follow the league's long-standing
// numbers: 200 points, base price 5, eight players per team.
type AuctionConfig struct {
	DefaultAuctionID string   `env:"DEFAULT_AUCTION_ID" envDefault:"main"`
	SeasonName       string   `env:"SEASON_NAME" envDefault:"Cricket Auction"`
	InitialPoints    int      `env:"INITIAL_POINTS" envDefault:"200"`
	BasePrice        int      `env:"BASE_PRICE" envDefault:"5"`
	TeamSize         int      `env:"TEAM_SIZE" envDefault:"8"`
	Captains         []string `env:"CAPTAINS" envSeparator:","`
}

func LoadAuction() (AuctionConfig, error) {
	var cfg AuctionConfig
	err := env.Parse(&cfg)
	return cfg, err
}
