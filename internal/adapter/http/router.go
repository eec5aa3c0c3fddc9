package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lukegrady1/Roomify/internal/adapter/http/middleware"
	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const requestTimeout = 10 * time.Second

// NewRouter mounts the search API. Favorites require a signed-in user;
// every other route accepts anonymous callers.
func NewRouter(h *Handler, verifier *auth.Verifier, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/healthz", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(verifier, log))

		r.Get("/search", h.HandleSearch)
		r.Get("/search/validate", h.HandleValidate)
		r.Post("/search/url", h.HandleBuildURL)

		r.Get("/campuses", h.HandleCampuses)
		r.Get("/campuses/{slug}", h.HandleCampusBySlug)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/favorites", h.HandleListFavorites)
			r.Post("/favorites/{listingID}", h.HandleAddFavorite)
			r.Delete("/favorites/{listingID}", h.HandleRemoveFavorite)
		})
	})

	return otelhttp.NewHandler(r, "roomify-search-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))
}
