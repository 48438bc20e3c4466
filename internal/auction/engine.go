package auction

import (
	"math/rand"
	"time"
)

// Engine owns the mutable state of one auction and applies the
// pick/skip/assign/undo/reset transitions. It is not safe for
// concurrent use; callers serialize access per auction id.
type Engine struct {
	cfg   Config
	state *State
	rng   *rand.Rand
}

// New builds an engine with a fresh state: full remaining pool, empty
// rosters and skips, every balance at InitialPoints.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, state: newState(cfg), rng: newRNG()}, nil
}

// Restore builds an engine around a previously persisted state. The
// state is invariant-checked first; a record that fails the check is
// rejected with ErrStateInvalid rather than served.
func Restore(cfg Config, st *State) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := CheckState(cfg, st); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, state: st.Clone(), rng: newRNG()}, nil
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (e *Engine) Config() Config { return e.cfg }

// Snapshot returns a deep copy of the current state, safe to hand out
// while further mutations happen.
func (e *Engine) Snapshot() *State { return e.state.Clone() }

// Reload replaces the engine state, re-running the invariant check.
// Used to roll back after a failed durable write and to re-read a
// repaired record from storage.
func (e *Engine) Reload(st *State) error {
	if err := CheckState(e.cfg, st); err != nil {
		return err
	}
	e.state = st.Clone()
	return nil
}

// Complete reports whether every non-skipped player has been sold and
// no player is up for bidding.
func (e *Engine) Complete() bool {
	return e.state.Current == "" && len(e.state.Remaining) == 0
}

// Pick selects one player uniformly at random from the remaining pool
// and puts it up for bidding.
func (e *Engine) Pick() (Player, error) {
	if e.state.Current != "" {
		return Player{}, ErrPlayerAlreadyUp
	}
	if len(e.state.Remaining) == 0 {
		return Player{}, ErrEmptyPool
	}
	idx := e.rng.Intn(len(e.state.Remaining))
	name := e.state.Remaining[idx]
	e.state.Remaining = append(e.state.Remaining[:idx], e.state.Remaining[idx+1:]...)
	e.state.Current = name
	p, _ := e.cfg.PlayerByName(name)
	return p, nil
}

// Skip moves the current player into the skipped set. Skipped players
// stay there; they are not re-offered.
func (e *Engine) Skip() (Player, error) {
	if e.state.Current == "" {
		return Player{}, ErrNoCurrentPlayer
	}
	name := e.state.Current
	e.state.Skipped = append(e.state.Skipped, name)
	e.state.Current = ""
	p, _ := e.cfg.PlayerByName(name)
	return p, nil
}

// Assign sells the current player to the captain at the given price,
// recording the sale as the single undoable assignment.
func (e *Engine) Assign(captain string, price int) (Assignment, error) {
	if err := ValidateAssign(e.cfg, e.state, captain, price); err != nil {
		return Assignment{}, err
	}
	a := Assignment{Captain: captain, Player: e.state.Current, Price: price}
	e.state.Rosters[captain] = append(e.state.Rosters[captain], RosterEntry{Player: a.Player, Price: a.Price})
	e.state.Balances[captain] -= price
	e.state.Last = &a
	e.state.Current = ""
	return a, nil
}

// Undo reverts the most recent assignment: the entry leaves the roster,
// the points return to the captain, and the player goes back into the
// remaining pool. Only one level is retained; a second consecutive Undo
// fails. A player currently up for bidding is left untouched.
func (e *Engine) Undo() (Assignment, error) {
	if e.state.Last == nil {
		return Assignment{}, ErrNothingToUndo
	}
	a := *e.state.Last
	roster := e.state.Rosters[a.Captain]
	for i := len(roster) - 1; i >= 0; i-- {
		if roster[i].Player == a.Player && roster[i].Price == a.Price {
			e.state.Rosters[a.Captain] = append(roster[:i], roster[i+1:]...)
			break
		}
	}
	e.state.Balances[a.Captain] += a.Price
	e.state.Remaining = append(e.state.Remaining, a.Player)
	e.state.Last = nil
	return a, nil
}

// Reset returns the auction to its initial configured state. It always
// succeeds and cannot be undone.
func (e *Engine) Reset() {
	e.state = newState(e.cfg)
}

// MaxBid exposes the bidding cap for one captain given the current
// roster and balance.
func (e *Engine) MaxBid(captain string) int {
	return MaxBid(e.cfg, e.state, captain)
}
