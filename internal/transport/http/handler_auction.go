package httptransport

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/connect2sanju/cricket-auction-system/internal/app/registry"
	"github.com/connect2sanju/cricket-auction-system/internal/auction"
)

type AuctionHandlers struct {
	svc *registry.Service
}

func NewAuctionHandlers(svc *registry.Service) *AuctionHandlers {
	return &AuctionHandlers{svc: svc}
}

func auctionID(r *http.Request) string {
	return chi.URLParam(r, "auction_id")
}

func (h *AuctionHandlers) Create() http.HandlerFunc {
	type request struct {
		AuctionID string         `json:"auction_id"`
		Config    auction.Config `json:"config"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.Create(r.Context(), req.AuctionID, req.Config)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, resp)
	}
}

func (h *AuctionHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), auctionID(r)); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AuctionHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, h.svc.List())
	}
}

func (h *AuctionHandlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Status(auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *AuctionHandlers) Players() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Players(auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *AuctionHandlers) Pick() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Pick(r.Context(), auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *AuctionHandlers) Skip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Skip(r.Context(), auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *AuctionHandlers) Assign() http.HandlerFunc {
	type request struct {
		Captain string `json:"captain"`
		Price   int    `json:"price"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.Assign(r.Context(), auctionID(r), req.Captain, req.Price)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *AuctionHandlers) Undo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Undo(r.Context(), auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *AuctionHandlers) Reset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Reset(r.Context(), auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *AuctionHandlers) Reload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Reload(r.Context(), auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// Export serves the roster dump as JSON or, with format=csv, as a
// downloadable spreadsheet.
func (h *AuctionHandlers) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Export(auctionID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if r.URL.Query().Get("format") != "csv" {
			WriteJSON(w, http.StatusOK, resp)
			return
		}

		filename := fmt.Sprintf("auction_results_%s.csv", time.Now().Format("20060102_150405"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"Captain", "Player", "Price", "Balance Remaining"})
		for _, row := range resp.Rows {
			_ = cw.Write([]string{row.Captain, row.Player, row.Price, row.BalanceRemaining})
		}
		_ = cw.Write([]string{
			"=== SUMMARY ===",
			fmt.Sprintf("Total Players: %d", resp.Summary.TotalPlayers),
			fmt.Sprintf("Total Spent: %d", resp.Summary.TotalSpent),
			fmt.Sprintf("Total Remaining: %d", resp.Summary.TotalRemaining),
		})
		for _, name := range resp.Unassigned {
			_ = cw.Write([]string{"UNASSIGNED", name, "", ""})
		}
		cw.Flush()
	}
}
