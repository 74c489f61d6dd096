package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/laguz/internal/vaultservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *vaultservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Vault contents.
	r.Get("/files", h.ListFiles)
	r.Get("/notes/*", h.GetNote)
	r.Get("/backlinks", h.Backlinks)

	// Search.
	r.Get("/search", h.Search)

	// Graph and vault-wide views.
	r.Get("/graph", h.Graph)
	r.Get("/analytics", h.Analytics)
	r.Get("/metadata", h.Metadata)

	// Manual rebuild trigger (auth-protected).
	r.Post("/rebuild", h.Rebuild)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
