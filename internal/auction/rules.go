package auction

import "fmt"

// MaxBid returns the highest price the captain may offer for the player
// currently up. The captain must retain at least BasePrice for every
// mandatory slot still open, counting the player about to be assigned
// as filling one slot:
//
//	needed = max(0, TeamSize - rosterSize)
//	MaxBid = max(BasePrice, balance - needed*BasePrice)
func MaxBid(cfg Config, st *State, captain string) int {
	needed := cfg.TeamSize - len(st.Rosters[captain])
	if needed < 0 {
		needed = 0
	}
	bid := st.Balances[captain] - needed*cfg.BasePrice
	if bid < cfg.BasePrice {
		bid = cfg.BasePrice
	}
	return bid
}

// ValidateAssign checks an assignment request against the current
// state. Each failure mode maps to its own sentinel so callers can
// tell the caller-correctable cases apart.
func ValidateAssign(cfg Config, st *State, captain string, price int) error {
	if st.Current == "" {
		return ErrNoCurrentPlayer
	}
	if captain == "" || !cfg.HasCaptain(captain) {
		return ErrNoCaptainSelected
	}
	if price < cfg.BasePrice {
		return ErrPriceBelowMinimum
	}
	if bal := st.Balances[captain]; price > bal {
		return &BalanceError{Captain: captain, Balance: bal, Price: price}
	}
	if maxBid := MaxBid(cfg, st, captain); price > maxBid {
		return &MaxBidError{Captain: captain, MaxBid: maxBid, Price: price}
	}
	return nil
}

// CheckState verifies the structural invariants of a state against its
// config. It is applied to every state loaded from storage so a
// corrupted or partially-written record can never be served.
func CheckState(cfg Config, st *State) error {
	if st == nil {
		return fmt.Errorf("%w: nil state", ErrStateInvalid)
	}
	if st.Rosters == nil || st.Balances == nil {
		return fmt.Errorf("%w: missing rosters or balances", ErrStateInvalid)
	}

	// Every configured player must sit in exactly one bucket.
	seen := make(map[string]int, len(cfg.Players))
	mark := func(name string) error {
		if _, ok := cfg.PlayerByName(name); !ok {
			return fmt.Errorf("%w: unknown player %q", ErrStateInvalid, name)
		}
		seen[name]++
		if seen[name] > 1 {
			return fmt.Errorf("%w: player %q appears in more than one bucket", ErrStateInvalid, name)
		}
		return nil
	}
	for _, name := range st.Remaining {
		if err := mark(name); err != nil {
			return err
		}
	}
	for _, name := range st.Skipped {
		if err := mark(name); err != nil {
			return err
		}
	}
	if st.Current != "" {
		if err := mark(st.Current); err != nil {
			return err
		}
	}

	spent := 0
	for name, roster := range st.Rosters {
		if !cfg.HasCaptain(name) {
			return fmt.Errorf("%w: roster for unknown captain %q", ErrStateInvalid, name)
		}
		for _, entry := range roster {
			if err := mark(entry.Player); err != nil {
				return err
			}
			if entry.Price < cfg.BasePrice {
				return fmt.Errorf("%w: %q sold below base price", ErrStateInvalid, entry.Player)
			}
			spent += entry.Price
		}
	}
	if len(seen) != len(cfg.Players) {
		return fmt.Errorf("%w: %d of %d players unaccounted for", ErrStateInvalid, len(cfg.Players)-len(seen), len(cfg.Players))
	}

	// Point conservation across balances and sold prices.
	total := 0
	for _, c := range cfg.Captains {
		bal, ok := st.Balances[c.Name]
		if !ok {
			return fmt.Errorf("%w: no balance for captain %q", ErrStateInvalid, c.Name)
		}
		if bal < 0 {
			return fmt.Errorf("%w: negative balance for captain %q", ErrStateInvalid, c.Name)
		}
		if _, ok := st.Rosters[c.Name]; !ok {
			return fmt.Errorf("%w: no roster for captain %q", ErrStateInvalid, c.Name)
		}
		total += bal
	}
	if want := len(cfg.Captains) * cfg.InitialPoints; total+spent != want {
		return fmt.Errorf("%w: points not conserved (%d+%d != %d)", ErrStateInvalid, total, spent, want)
	}

	if st.Last != nil {
		found := false
		for _, entry := range st.Rosters[st.Last.Captain] {
			if entry.Player == st.Last.Player && entry.Price == st.Last.Price {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: last assignment not present in roster", ErrStateInvalid)
		}
	}
	return nil
}
