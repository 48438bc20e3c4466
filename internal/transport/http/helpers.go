package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/connect2sanju/cricket-auction-system/internal/app/registry"
	"github.com/connect2sanju/cricket-auction-system/internal/auction"
	"github.com/connect2sanju/cricket-auction-system/internal/store"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	WriteJSON(w, status, map[string]any{"error": code})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError maps engine/registry/store failures onto the wire.
// Validation failures are 400s with distinguishable codes; the two
// detail-carrying cases also echo what the caller needs to correct the
// bid.
func writeServiceError(w http.ResponseWriter, err error) {
	var maxErr *auction.MaxBidError
	if errors.As(err, &maxErr) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "price_exceeds_max_bid",
			"max_bid": maxErr.MaxBid,
			"captain": maxErr.Captain,
		})
		return
	}
	var balErr *auction.BalanceError
	if errors.As(err, &balErr) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "insufficient_balance",
			"balance": balErr.Balance,
			"captain": balErr.Captain,
		})
		return
	}

	switch {
	case errors.Is(err, registry.ErrUnknownAuction):
		WriteHTTPError(w, http.StatusNotFound, "unknown_auction")
	case errors.Is(err, registry.ErrAuctionExists):
		WriteHTTPError(w, http.StatusConflict, "auction_exists")
	case errors.Is(err, registry.ErrInvalidAuctionID):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_auction_id")
	case errors.Is(err, auction.ErrInvalidConfig):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_config")
	case errors.Is(err, auction.ErrEmptyPool):
		WriteHTTPError(w, http.StatusBadRequest, "empty_pool")
	case errors.Is(err, auction.ErrPlayerAlreadyUp):
		WriteHTTPError(w, http.StatusBadRequest, "player_already_up")
	case errors.Is(err, auction.ErrNoCurrentPlayer):
		WriteHTTPError(w, http.StatusBadRequest, "no_current_player")
	case errors.Is(err, auction.ErrNoCaptainSelected):
		WriteHTTPError(w, http.StatusBadRequest, "no_captain_selected")
	case errors.Is(err, auction.ErrPriceBelowMinimum):
		WriteHTTPError(w, http.StatusBadRequest, "price_below_minimum")
	case errors.Is(err, auction.ErrNothingToUndo):
		WriteHTTPError(w, http.StatusBadRequest, "nothing_to_undo")
	case errors.Is(err, store.ErrCorrupt):
		WriteHTTPError(w, http.StatusInternalServerError, "persistence_corrupt")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
