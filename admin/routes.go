package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maxpert/cqlcmd/telemetry"
	"github.com/rs/zerolog/log"
)

// RegisterRoutes registers the admin API on mux under /admin, plus /metrics
// when Prometheus is enabled.
func RegisterRoutes(mux *http.ServeMux, handlers *Handlers) {
	r := chi.NewRouter()

	r.Get("/health", handlers.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Get("/classify", handlers.handleClassify)
		r.Post("/execute", handlers.handleExecute)
		r.Post("/scalar", handlers.handleScalar)
		r.Post("/query", handlers.handleQuery)
		r.Post("/tables/{table}/rows", handlers.handleInsert)
	})

	mux.Handle("/admin", http.RedirectHandler("/admin/", http.StatusMovedPermanently))
	mux.Handle("/admin/", http.StripPrefix("/admin", r))

	if metrics := telemetry.GetMetricsHandler(); metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	log.Info().Msg("Admin endpoints enabled at /admin/*")
}
