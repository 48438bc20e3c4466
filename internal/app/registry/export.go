package registry

import (
	"sort"
	"strconv"
	"time"

	"github.com/connect2sanju/cricket-auction-system/internal/store"
)

// Export produces the tabular roster dump: one row per sale grouped by
// captain, a dash row for captains who bought nobody, the unassigned
// players listed separately, and a totals summary.
func (s *Service) Export(id string) (*ExportResponse, error) {
	rt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.corrupt {
		return nil, store.ErrCorrupt
	}
	cfg := rt.cfg
	st := rt.eng.Snapshot()

	captains := make([]string, 0, len(cfg.Captains))
	for _, c := range cfg.Captains {
		captains = append(captains, c.Name)
	}
	sort.Strings(captains)

	resp := &ExportResponse{SeasonName: cfg.SeasonName, Rows: []ExportRow{}}
	for _, captain := range captains {
		roster := st.Rosters[captain]
		balance := st.Balances[captain]
		if len(roster) == 0 {
			resp.Rows = append(resp.Rows, ExportRow{
				Captain:          captain,
				Player:           "-",
				Price:            "-",
				BalanceRemaining: strconv.Itoa(balance),
			})
			continue
		}
		for i, entry := range roster {
			row := ExportRow{Player: entry.Player, Price: strconv.Itoa(entry.Price)}
			if i == 0 {
				row.Captain = captain
				row.BalanceRemaining = strconv.Itoa(balance)
			}
			resp.Rows = append(resp.Rows, row)
			resp.Summary.TotalPlayers++
			resp.Summary.TotalSpent += entry.Price
		}
	}

	unassigned := append([]string{}, st.Remaining...)
	unassigned = append(unassigned, st.Skipped...)
	if st.Current != "" {
		unassigned = append(unassigned, st.Current)
	}
	sort.Strings(unassigned)
	resp.Unassigned = unassigned

	for _, bal := range st.Balances {
		resp.Summary.TotalRemaining += bal
	}
	resp.Summary.ExportedAt = time.Now().UTC()
	return resp, nil
}
