package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/connect2sanju/cricket-auction-system/internal/app/registry"
)

func NewRouter(svc *registry.Service) *chi.Mux {
	handlers := NewAuctionHandlers(svc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/auctions", handlers.List())
		r.Post("/auctions", handlers.Create())
		r.Route("/auctions/{auction_id}", func(r chi.Router) {
			r.Delete("/", handlers.Delete())
			r.Get("/status", handlers.Status())
			r.Get("/players", handlers.Players())
			r.Get("/export", handlers.Export())
			r.Post("/pick", handlers.Pick())
			r.Post("/skip", handlers.Skip())
			r.Post("/assign", handlers.Assign())
			r.Post("/undo", handlers.Undo())
			r.Post("/reset", handlers.Reset())
			r.Post("/reload", handlers.Reload())
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
