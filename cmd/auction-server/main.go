package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/connect2sanju/cricket-auction-system/internal/app/registry"
	"github.com/connect2sanju/cricket-auction-system/internal/auction"
	"github.com/connect2sanju/cricket-auction-system/internal/config"
	"github.com/connect2sanju/cricket-auction-system/internal/logging"
	"github.com/connect2sanju/cricket-auction-system/internal/pool"
	"github.com/connect2sanju/cricket-auction-system/internal/store"
	httptransport "github.com/connect2sanju/cricket-auction-system/internal/transport/http"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	auctionCfg, err := config.LoadAuction()
	if err != nil {
		log.Fatal().Err(err).Msg("load auction config failed")
	}

	ctx := context.Background()
	st, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()

	svc := registry.NewService(st)
	if err := svc.Resume(ctx); err != nil {
		log.Fatal().Err(err).Msg("resume auctions failed")
	}

	if cfg.PoolDir != "" {
		if err := seedDefaultAuction(ctx, svc, cfg.PoolDir, auctionCfg); err != nil {
			log.Fatal().Err(err).Msg("seed default auction failed")
		}
	}

	r := httptransport.NewRouter(svc)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func newStore(ctx context.Context, cfg config.ServerConfig) (store.Store, error) {
	if cfg.PostgresDSN != "" {
		return store.NewPostgres(ctx, cfg.PostgresDSN)
	}
	return store.NewFile(cfg.DataDir)
}

// seedDefaultAuction creates the configured default auction from the
// YAML pool directory. An auction that already exists, resumed from a
// previous run, is left alone.
func seedDefaultAuction(ctx context.Context, svc *registry.Service, poolDir string, auctionCfg config.AuctionConfig) error {
	players, err := pool.LoadPlayers(poolDir, auctionCfg.Captains)
	if err != nil {
		return err
	}
	captains, err := pool.LoadCaptains(poolDir, auctionCfg.Captains)
	if err != nil {
		return err
	}
	cfg := auction.Config{
		SeasonName:    auctionCfg.SeasonName,
		BasePrice:     auctionCfg.BasePrice,
		TeamSize:      auctionCfg.TeamSize,
		InitialPoints: auctionCfg.InitialPoints,
		Players:       players,
		Captains:      captains,
	}
	_, err = svc.Create(ctx, auctionCfg.DefaultAuctionID, cfg)
	if errors.Is(err, registry.ErrAuctionExists) {
		log.Info().Str("auction", auctionCfg.DefaultAuctionID).Msg("default auction already present")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().
		Str("auction", auctionCfg.DefaultAuctionID).
		Int("players", len(players)).
		Int("captains", len(captains)).
		Msg("default auction seeded")
	return nil
}
