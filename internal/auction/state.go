package auction

import (
	"fmt"
	"strings"
)

// Player is one biddable entry in the pool. Whether it is remaining,
// skipped, up for bidding or sold is tracked on State, never here.
type Player struct {
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// Captain is a team owner bidding with a point balance.
type Captain struct {
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// Config is fixed at auction setup. The engine treats it as read-only;
// reconfiguration means creating a new auction.
type Config struct {
	SeasonName    string    `json:"season_name"`
	BasePrice     int       `json:"base_price"`
	TeamSize      int       `json:"team_size"`
	InitialPoints int       `json:"initial_points"`
	Players       []Player  `json:"players"`
	Captains      []Captain `json:"captains"`
}

func (c Config) Validate() error {
	if c.BasePrice < 1 {
		return fmt.Errorf("%w: base_price must be >= 1", ErrInvalidConfig)
	}
	if c.TeamSize < 1 {
		return fmt.Errorf("%w: team_size must be >= 1", ErrInvalidConfig)
	}
	if c.InitialPoints < 1 {
		return fmt.Errorf("%w: initial_points must be >= 1", ErrInvalidConfig)
	}
	if len(c.Captains) == 0 {
		return fmt.Errorf("%w: at least one captain required", ErrInvalidConfig)
	}
	if len(c.Players) == 0 {
		return fmt.Errorf("%w: player pool is empty", ErrInvalidConfig)
	}
	captains := make(map[string]bool, len(c.Captains))
	for _, ct := range c.Captains {
		name := strings.TrimSpace(ct.Name)
		if name == "" {
			return fmt.Errorf("%w: captain with empty name", ErrInvalidConfig)
		}
		if captains[name] {
			return fmt.Errorf("%w: duplicate captain %q", ErrInvalidConfig, name)
		}
		captains[name] = true
	}
	players := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("%w: player with empty name", ErrInvalidConfig)
		}
		if players[name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidConfig, name)
		}
		if captains[name] {
			return fmt.Errorf("%w: %q is both captain and player", ErrInvalidConfig, name)
		}
		players[name] = true
	}
	return nil
}

func (c Config) HasCaptain(name string) bool {
	for _, ct := range c.Captains {
		if ct.Name == name {
			return true
		}
	}
	return false
}

func (c Config) PlayerByName(name string) (Player, bool) {
	for _, p := range c.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// RosterEntry records one sale inside a captain's roster.
type RosterEntry struct {
	Player string `json:"player"`
	Price  int    `json:"price"`
}

// Assignment is the single undoable snapshot of the most recent sale.
type Assignment struct {
	Captain string `json:"captain"`
	Player  string `json:"player"`
	Price   int    `json:"price"`
}

// State is the mutable aggregate of one auction. Players are referred
// to by name; photos live on Config.
type State struct {
	Remaining []string                 `json:"remaining"`
	Skipped   []string                 `json:"skipped"`
	Current   string                   `json:"current,omitempty"`
	Rosters   map[string][]RosterEntry `json:"teams"`
	Balances  map[string]int           `json:"balances"`
	Last      *Assignment              `json:"last_assignment,omitempty"`
}

func newState(cfg Config) *State {
	st := &State{
		Remaining: make([]string, 0, len(cfg.Players)),
		Skipped:   []string{},
		Rosters:   make(map[string][]RosterEntry, len(cfg.Captains)),
		Balances:  make(map[string]int, len(cfg.Captains)),
	}
	for _, p := range cfg.Players {
		st.Remaining = append(st.Remaining, p.Name)
	}
	for _, c := range cfg.Captains {
		st.Rosters[c.Name] = []RosterEntry{}
		st.Balances[c.Name] = cfg.InitialPoints
	}
	return st
}

func (s *State) Clone() *State {
	out := &State{
		Remaining: append([]string{}, s.Remaining...),
		Skipped:   append([]string{}, s.Skipped...),
		Current:   s.Current,
		Rosters:   make(map[string][]RosterEntry, len(s.Rosters)),
		Balances:  make(map[string]int, len(s.Balances)),
	}
	for name, roster := range s.Rosters {
		out.Rosters[name] = append([]RosterEntry{}, roster...)
	}
	for name, bal := range s.Balances {
		out.Balances[name] = bal
	}
	if s.Last != nil {
		last := *s.Last
		out.Last = &last
	}
	return out
}

// AssignedCount is the number of players sold so far.
func (s *State) AssignedCount() int {
	n := 0
	for _, roster := range s.Rosters {
		n += len(roster)
	}
	return n
}
