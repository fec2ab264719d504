package api

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the API routes on r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/tenant-website", func(r chi.Router) {
		r.Post("/getTenant", s.HandleGetTenant)
		r.Post("/save-pages", s.HandleSavePages)
		r.Get("/{websiteName}/pages/{slug}", s.HandleRenderPage)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.HandleCatalog)
		r.Get("/tenants", s.HandleListTenants)
		r.Get("/tenants/{websiteName}/revisions", s.HandleRevisions)
		r.Get("/tenants/{websiteName}/revisions/{id}", s.HandleRevision)
		r.Get("/stats", s.HandleStats)
	})

	r.Get("/ws/notifications", s.HandleNotifications)
	r.Get("/health", s.HandleHealth)
}
