package registry

import (
	"time"

	"github.com/connect2sanju/cricket-auction-system/internal/auction"
)

type CreateResponse struct {
	AuctionID string `json:"auction_id"`
}

type ListResponse struct {
	Items []string `json:"items"`
}

type PlayersResponse struct {
	Players []auction.Player `json:"players"`
}

type PickResponse struct {
	Current        auction.Player `json:"current"`
	RemainingCount int            `json:"remaining_count"`
	SkippedCount   int            `json:"skipped_count"`
}

type SkipResponse struct {
	Skipped        string `json:"skipped"`
	RemainingCount int    `json:"remaining_count"`
	SkippedCount   int    `json:"skipped_count"`
}

type AssignResponse struct {
	Assigned       auction.Assignment               `json:"assigned"`
	Balances       map[string]int                   `json:"balances"`
	Teams          map[string][]auction.RosterEntry `json:"teams"`
	RemainingCount int                              `json:"remaining_count"`
	SkippedCount   int                              `json:"skipped_count"`
}

type UndoResponse struct {
	Restored auction.Assignment               `json:"restored"`
	Balances map[string]int                   `json:"balances"`
	Teams    map[string][]auction.RosterEntry `json:"teams"`
}

// StatusResponse is the full polling snapshot: state, per-captain caps,
// and a config echo.
type StatusResponse struct {
	AuctionID      string                           `json:"auction_id"`
	SeasonName     string                           `json:"season_name"`
	TotalPlayers   int                              `json:"total_players"`
	Remaining      []string                         `json:"remaining"`
	RemainingCount int                              `json:"remaining_count"`
	SkippedCount   int                              `json:"skipped_count"`
	Assigned       int                              `json:"assigned"`
	Current        *auction.Player                  `json:"current"`
	Balances       map[string]int                   `json:"balances"`
	MaxBids        map[string]int                   `json:"max_bids"`
	Teams          map[string][]auction.RosterEntry `json:"teams"`
	Captains       []auction.Captain                `json:"captains"`
	BasePrice      int                              `json:"base_price"`
	InitialPoints  int                              `json:"initial_points"`
	TeamSize       int                              `json:"team_size"`
	LastAssignment *auction.Assignment              `json:"last_assignment,omitempty"`
	Complete       bool                             `json:"complete"`
}

// ExportRow is one spreadsheet line: the captain and running balance
// appear only on the captain's first row, and captains with an empty
// roster get a dash row.
type ExportRow struct {
	Captain          string `json:"captain"`
	Player           string `json:"player"`
	Price            string `json:"price"`
	BalanceRemaining string `json:"balance_remaining"`
}

type ExportSummary struct {
	TotalPlayers   int       `json:"total_players"`
	TotalSpent     int       `json:"total_spent"`
	TotalRemaining int       `json:"total_remaining"`
	ExportedAt     time.Time `json:"exported_at"`
}

type ExportResponse struct {
	SeasonName string        `json:"season_name"`
	Rows       []ExportRow   `json:"rows"`
	Unassigned []string      `json:"unassigned"`
	Summary    ExportSummary `json:"summary"`
}
