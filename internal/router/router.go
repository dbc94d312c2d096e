// Package router sets up all HTTP routes and middleware chains for the
// policy service. Public read routes and collaborator write routes get
// the same lean middleware stack — authentication and rate limiting live
// in the deployment's gateway, not here.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"policyhub/internal/handlers"
	"policyhub/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(policies *handlers.Policies, sites *handlers.Sites, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	// Public policy documents.
	r.Get("/policy/{siteID}/{policyType}", policies.GetSitePolicy)
	r.Get("/demo-policy/{policyType}", policies.GetDemoPolicy)

	// Registration and scanner collaborator contracts. Each mutation
	// issues its cache invalidation before responding.
	r.Put("/sites/{siteID}", sites.SiteUpsert)
	r.Post("/sites/{siteID}/scans", sites.ScanIngest)

	// Template management.
	r.Route("/admin", func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", admin.TemplatesList)
			r.Post("/", admin.TemplateCreate)
			r.Put("/{id}", admin.TemplateUpdate)
			r.Delete("/{id}", admin.TemplateDelete)
			r.Post("/{id}/activate", admin.TemplateActivate)
		})
		r.Post("/cache/flush", admin.CacheFlush)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
