package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/connect2sanju/cricket-auction-system/internal/app/registry"
	"github.com/connect2sanju/cricket-auction-system/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	fs, err := store.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	return NewRouter(registry.NewService(fs))
}

func createAuction(t *testing.T, router http.Handler, id string) {
	t.Helper()
	body := `{
		"auction_id": "` + id + `",
		"config": {
			"season_name": "season-9",
			"base_price": 5,
			"team_size": 8,
			"initial_points": 200,
			"players": [{"name": "Sachin"}, {"name": "Rahul"}, {"name": "Virat"}],
			"captains": [{"name": "Alpha"}, {"name": "Bravo"}]
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/auctions", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return resp.Error
}

func TestAuctionLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	createAuction(t, router, "s1")

	w := doJSON(t, router, http.MethodPost, "/api/auctions/s1/pick", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pick expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var pick struct {
		Current struct {
			Name string `json:"name"`
		} `json:"current"`
		RemainingCount int `json:"remaining_count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&pick); err != nil {
		t.Fatalf("decode pick: %v", err)
	}
	if pick.Current.Name == "" || pick.RemainingCount != 2 {
		t.Fatalf("unexpected pick response: %+v", pick)
	}

	w = doJSON(t, router, http.MethodPost, "/api/auctions/s1/assign", map[string]any{"captain": "Alpha", "price": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("assign expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/auctions/s1/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status expected 200, got %d", w.Code)
	}
	var status struct {
		Assigned int            `json:"assigned"`
		Balances map[string]int `json:"balances"`
	}
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Assigned != 1 || status.Balances["Alpha"] != 190 {
		t.Fatalf("unexpected status: %+v", status)
	}

	w = doJSON(t, router, http.MethodPost, "/api/auctions/s1/undo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, "/api/auctions/s1/undo", nil)
	if w.Code != http.StatusBadRequest || decodeError(t, w) != "nothing_to_undo" {
		t.Fatalf("second undo: code=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/api/auctions/s1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete expected 204, got %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/auctions/s1/status", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status after delete expected 404, got %d", w.Code)
	}
}

func TestAssignValidationCodes(t *testing.T) {
	router := newTestRouter(t)
	createAuction(t, router, "s1")

	// No player up yet.
	w := doJSON(t, router, http.MethodPost, "/api/auctions/s1/assign", map[string]any{"captain": "Alpha", "price": 10})
	if w.Code != http.StatusBadRequest || decodeError(t, w) != "no_current_player" {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, router, http.MethodPost, "/api/auctions/s1/pick", nil); w.Code != http.StatusOK {
		t.Fatalf("pick: %d", w.Code)
	}

	tests := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{name: "unknown captain", body: map[string]any{"captain": "Zulu", "price": 10}, wantCode: "no_captain_selected"},
		{name: "below base price", body: map[string]any{"captain": "Alpha", "price": 4}, wantCode: "price_below_minimum"},
		{name: "above balance", body: map[string]any{"captain": "Alpha", "price": 300}, wantCode: "insufficient_balance"},
		{name: "above max bid", body: map[string]any{"captain": "Alpha", "price": 170}, wantCode: "price_exceeds_max_bid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/auctions/s1/assign", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if got := decodeError(t, w); got != tt.wantCode {
				t.Fatalf("error = %q, want %q", got, tt.wantCode)
			}
		})
	}

	// The max-bid rejection includes the computed cap.
	w = doJSON(t, router, http.MethodPost, "/api/auctions/s1/assign", map[string]any{"captain": "Alpha", "price": 170})
	var detail struct {
		Error  string `json:"error"`
		MaxBid int    `json:"max_bid"`
	}
	if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.MaxBid != 160 {
		t.Fatalf("max_bid = %d, want 160", detail.MaxBid)
	}
}

func TestUnknownAuctionIs404(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/api/auctions/nope/pick", "/api/auctions/nope/skip", "/api/auctions/nope/reset"} {
		w := doJSON(t, router, http.MethodPost, path, nil)
		if w.Code != http.StatusNotFound || decodeError(t, w) != "unknown_auction" {
			t.Fatalf("%s: code=%d body=%s", path, w.Code, w.Body.String())
		}
	}
	w := doJSON(t, router, http.MethodGet, "/api/auctions/nope/export", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("export: code=%d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	router := newTestRouter(t)
	createAuction(t, router, "s1")
	if w := doJSON(t, router, http.MethodPost, "/api/auctions/s1/pick", nil); w.Code != http.StatusOK {
		t.Fatalf("pick: %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/auctions/s1/assign", map[string]any{"captain": "Bravo", "price": 25}); w.Code != http.StatusOK {
		t.Fatalf("assign: %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/auctions/s1/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Captain,Player,Price,Balance Remaining") {
		t.Fatalf("missing header row: %s", body)
	}
	if !strings.Contains(body, "Bravo") || !strings.Contains(body, "=== SUMMARY ===") {
		t.Fatalf("missing roster or summary rows: %s", body)
	}

	// JSON is the default format.
	w = doJSON(t, router, http.MethodGet, "/api/auctions/s1/export", nil)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestListAuctions(t *testing.T) {
	router := newTestRouter(t)
	createAuction(t, router, "beta")
	createAuction(t, router, "alpha")

	w := doJSON(t, router, http.MethodGet, "/api/auctions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list expected 200, got %d", w.Code)
	}
	var resp struct {
		Items []string `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0] != "alpha" {
		t.Fatalf("items = %v", resp.Items)
	}
}
