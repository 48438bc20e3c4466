package registry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/connect2sanju/cricket-auction-system/internal/auction"
	"github.com/connect2sanju/cricket-auction-system/internal/store"
)

var validAuctionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Service maps auction ids to isolated engine+persistence pairs. Each
// auction has its own mutex, so operations on different auctions run
// in parallel while operations on one auction are strictly serialized.
type Service struct {
	st store.Store

	mu       sync.RWMutex
	runtimes map[string]*runtime
}

type runtime struct {
	mu      sync.Mutex
	cfg     auction.Config
	eng     *auction.Engine
	corrupt bool
}

func NewService(st store.Store) *Service {
	return &Service{st: st, runtimes: make(map[string]*runtime)}
}

// Resume reopens every auction found in durable storage. An auction
// whose record cannot be recovered is registered corrupt: lookups find
// it but every mutating operation fails closed until the record is
// repaired and reloaded.
func (s *Service) Resume(ctx context.Context) error {
	ids, err := s.st.List(ctx)
	if err != nil {
		return fmt.Errorf("list auctions: %w", err)
	}
	for _, id := range ids {
		cfg, err := s.st.LoadConfig(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("auction", id).Msg("config unreadable; skipping auction")
			continue
		}
		rt := &runtime{cfg: cfg}
		eng, err := s.loadEngine(ctx, id, cfg)
		if err != nil {
			log.Error().Err(err).Str("auction", id).Msg("state unrecoverable; auction fails closed")
			rt.corrupt = true
		} else {
			rt.eng = eng
		}
		s.mu.Lock()
		s.runtimes[id] = rt
		s.mu.Unlock()
		log.Info().Str("auction", id).Bool("corrupt", rt.corrupt).Msg("auction resumed")
	}
	return nil
}

// loadEngine reads the durable record, falling back to the backup
// generation when the current copy is unreadable or fails the
// invariant check.
func (s *Service) loadEngine(ctx context.Context, id string, cfg auction.Config) (*auction.Engine, error) {
	st, err := s.st.LoadState(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return auction.New(cfg)
	}
	if err == nil {
		eng, rerr := auction.Restore(cfg, st)
		if rerr == nil {
			return eng, nil
		}
		err = rerr
	}

	log.Warn().Err(err).Str("auction", id).Msg("current state rejected; trying backup")
	backup, berr := s.st.LoadBackupState(ctx, id)
	if berr != nil {
		return nil, fmt.Errorf("%w: %v (backup: %v)", store.ErrCorrupt, err, berr)
	}
	eng, rerr := auction.Restore(cfg, backup)
	if rerr != nil {
		return nil, fmt.Errorf("%w: %v (backup: %v)", store.ErrCorrupt, err, rerr)
	}
	log.Warn().Str("auction", id).Msg("recovered from backup generation")
	return eng, nil
}

// Create registers a new auction. An empty id gets a generated ULID.
func (s *Service) Create(ctx context.Context, id string, cfg auction.Config) (*CreateResponse, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		id = store.NewID()
	}
	if !validAuctionID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAuctionID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runtimes[id]; ok {
		return nil, ErrAuctionExists
	}
	eng, err := auction.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.st.SaveConfig(ctx, id, cfg); err != nil {
		return nil, fmt.Errorf("persist config: %w", err)
	}
	if err := s.st.SaveState(ctx, id, eng.Snapshot()); err != nil {
		return nil, fmt.Errorf("persist state: %w", err)
	}
	s.runtimes[id] = &runtime{cfg: cfg, eng: eng}
	log.Info().Str("auction", id).Str("season", cfg.SeasonName).
		Int("players", len(cfg.Players)).Int("captains", len(cfg.Captains)).
		Msg("auction created")
	return &CreateResponse{AuctionID: id}, nil
}

// Delete tears down the runtime and removes both durable records.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	rt, ok := s.runtimes[id]
	if ok {
		delete(s.runtimes, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrUnknownAuction
	}
	// Wait out any in-flight operation before dropping storage.
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := s.st.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete auction %s: %w", id, err)
	}
	log.Info().Str("auction", id).Msg("auction deleted")
	return nil
}

func (s *Service) List() *ListResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.runtimes))
	for id := range s.runtimes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &ListResponse{Items: ids}
}

func (s *Service) get(id string) (*runtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.runtimes[id]
	if !ok {
		return nil, ErrUnknownAuction
	}
	return rt, nil
}

// persist writes the engine state durably; a failed write rolls the
// in-memory state back to prev so no partial mutation is observable.
func (s *Service) persist(ctx context.Context, id string, rt *runtime, prev *auction.State) error {
	if err := s.st.SaveState(ctx, id, rt.eng.Snapshot()); err != nil {
		if rerr := rt.eng.Reload(prev); rerr != nil {
			rt.corrupt = true
			log.Error().Err(rerr).Str("auction", id).Msg("rollback failed; auction fails closed")
		}
		return fmt.Errorf("persist auction %s: %w", id, err)
	}
	return nil
}

func (s *Service) Pick(ctx context.Context, id string) (*PickResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.corrupt {
		return nil, store.ErrCorrupt
	}
	prev := rt.eng.Snapshot()
	p, err := rt.eng.Pick()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id, rt, prev); err != nil {
		return nil, err
	}
	st := rt.eng.Snapshot()
	log.Info().Str("auction", id).Str("player", p.Name).
		Int("remaining", len(st.Remaining)).Msg("player picked")
	return &PickResponse{
		Current:        p,
		RemainingCount: len(st.Remaining),
		SkippedCount:   len(st.Skipped),
	}, nil
}

func (s *Service) Skip(ctx context.Context, id string) (*SkipResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.corrupt {
		return nil, store.ErrCorrupt
	}
	prev := rt.eng.Snapshot()
	p, err := rt.eng.Skip()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id, rt, prev); err != nil {
		return nil, err
	}
	st := rt.eng.Snapshot()
	log.Info().Str("auction", id).Str("player", p.Name).
		Int("skipped", len(st.Skipped)).Msg("player skipped")
	return &SkipResponse{
		Skipped:        p.Name,
		RemainingCount: len(st.Remaining),
		SkippedCount:   len(st.Skipped),
	}, nil
}

func (s *Service) Assign(ctx context.Context, id, captain string, price int) (*AssignResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.corrupt {
		return nil, store.ErrCorrupt
	}
	prev := rt.eng.Snapshot()
	a, err := rt.eng.Assign(captain, price)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id, rt, prev); err != nil {
		return nil, err
	}
	st := rt.eng.Snapshot()
	log.Info().Str("auction", id).Str("player", a.Player).Str("captain", a.Captain).
		Int("price", a.Price).Int("balance", st.Balances[a.Captain]).Msg("player assigned")
	return &AssignResponse{
		Assigned:       a,
		Balances:       st.Balances,
		Teams:          st.Rosters,
		RemainingCount: len(st.Remaining),
		SkippedCount:   len(st.Skipped),
	}, nil
}

func (s *Service) Undo(ctx context.Context, id string) (*UndoResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.corrupt {
		return nil, store.ErrCorrupt
	}
	prev := rt.eng.Snapshot()
	a, err := rt.eng.Undo()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id, rt, prev); err != nil {
		return nil, err
	}
	st := rt.eng.Snapshot()
	log.Info().Str("auction", id).Str("player", a.Player).Str("captain", a.Captain).
		Int("price", a.Price).Msg("assignment undone")
	return &UndoResponse{Restored: a, Balances: st.Balances, Teams: st.Rosters}, nil
}

func (s *Service) Reset(ctx context.Context, id string) (*StatusResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.corrupt {
		return nil, store.ErrCorrupt
	}
	prev := rt.eng.Snapshot()
	rt.eng.Reset()
	if err := s.persist(ctx, id, rt, prev); err != nil {
		return nil, err
	}
	log.Warn().Str("auction", id).Msg("auction reset")
	return buildStatus(id, rt), nil
}

// Reload re-reads the durable record, clearing the corrupt flag when
// the record (or its backup) has been repaired out of band.
func (s *Service) Reload(ctx context.Context, id string) (*StatusResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	eng, err := s.loadEngine(ctx, id, rt.cfg)
	if err != nil {
		rt.corrupt = true
		return nil, err
	}
	rt.eng = eng
	rt.corrupt = false
	log.Info().Str("auction", id).Msg("auction reloaded from storage")
	return buildStatus(id, rt), nil
}

func (s *Service) Status(id string) (*StatusResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.corrupt {
		return nil, store.ErrCorrupt
	}
	return buildStatus(id, rt), nil
}

func (s *Service) Players(id string) (*PlayersResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &PlayersResponse{Players: rt.cfg.Players}, nil
}

func buildStatus(id string, rt *runtime) *StatusResponse {
	cfg := rt.cfg
	st := rt.eng.Snapshot()

	var current *auction.Player
	if st.Current != "" {
		if p, ok := cfg.PlayerByName(st.Current); ok {
			current = &p
		}
	}
	maxBids := make(map[string]int, len(cfg.Captains))
	for _, c := range cfg.Captains {
		maxBids[c.Name] = auction.MaxBid(cfg, st, c.Name)
	}
	return &StatusResponse{
		AuctionID:      id,
		SeasonName:     cfg.SeasonName,
		TotalPlayers:   len(cfg.Players),
		Remaining:      st.Remaining,
		RemainingCount: len(st.Remaining),
		SkippedCount:   len(st.Skipped),
		Assigned:       st.AssignedCount(),
		Current:        current,
		Balances:       st.Balances,
		MaxBids:        maxBids,
		Teams:          st.Rosters,
		Captains:       cfg.Captains,
		BasePrice:      cfg.BasePrice,
		InitialPoints:  cfg.InitialPoints,
		TeamSize:       cfg.TeamSize,
		LastAssignment: st.Last,
		Complete:       rt.eng.Complete(),
	}
}
