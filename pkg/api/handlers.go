package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/realtime"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/reconciler"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/render"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/version"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body data-website="{{.WebsiteName}}" data-page="{{.Slug}}">
{{.Body}}
</body>
</html>
`))

// HandleGetTenant returns the stored document of {websiteName}. Unknown
// websites get 404, which the editor treats as an error state.
func (s *Server) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	var req GetTenantRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WebsiteName == "" {
		s.writeMessage(w, http.StatusBadRequest, "websiteName is required")
		return
	}

	doc, err := s.store.Load(r.Context(), req.WebsiteName)
	if errors.Is(err, model.ErrTenantNotFound) {
		s.writeMessage(w, http.StatusNotFound, "Website not found")
		return
	}
	if err != nil {
		s.logger.Errorf("loading %s: %v", req.WebsiteName, err)
		s.writeMessage(w, http.StatusInternalServerError, "Failed to load website")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// HandleSavePages stores a save payload. The bearer token must belong to
// the website being saved.
func (s *Server) HandleSavePages(w http.ResponseWriter, r *http.Request) {
	id, err := s.verifier.Verify(bearerToken(r))
	if err != nil {
		s.logger.Debugf("rejected save: %v", err)
		s.writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var p model.SavePayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&p); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid save payload")
		return
	}
	if p.WebsiteName == "" {
		p.WebsiteName = p.Username
	}
	if p.WebsiteName == "" {
		s.writeMessage(w, http.StatusBadRequest, "websiteName is required")
		return
	}
	if id.TenantKey() != p.WebsiteName {
		s.logger.Warnf("%s tried to save %s", id.Username, p.WebsiteName)
		s.writeMessage(w, http.StatusForbidden, "Not allowed to edit this website")
		return
	}
	if p.Username == "" {
		p.Username = id.Username
	}
	if p.TenantID == "" {
		p.TenantID = id.TenantID
	}

	rev, err := s.store.Save(r.Context(), p)
	if err != nil {
		s.logger.Errorf("saving %s: %v", p.WebsiteName, err)
		s.writeMessage(w, http.StatusInternalServerError, reconciler.GenericFailure)
		return
	}

	pages := make([]string, 0, len(p.Pages)+len(p.StaticPages))
	for slug := range p.Pages {
		pages = append(pages, slug)
	}
	for slug := range p.StaticPages {
		pages = append(pages, slug)
	}
	s.hub.PublishSave(realtime.NewSaveEvent(rev.WebsiteName, rev.Username, rev.ID, rev.CreatedAt, pages))
	s.logger.Infof("saved %s revision %s", rev.WebsiteName, rev.ID)

	s.writeJSON(w, http.StatusOK, SaveResponse{Message: reconciler.SuccessMessage, RevisionID: rev.ID})
}

// HandleRenderPage resolves a page of a stored website. It answers JSON
// descriptors, or HTML when ?format=html or the client accepts text/html.
func (s *Server) HandleRenderPage(w http.ResponseWriter, r *http.Request) {
	websiteName := chi.URLParam(r, "websiteName")
	slug := chi.URLParam(r, "slug")

	doc, err := s.store.Load(r.Context(), websiteName)
	if errors.Is(err, model.ErrTenantNotFound) {
		s.writeMessage(w, http.StatusNotFound, "Website not found")
		return
	}
	if err != nil {
		s.logger.Errorf("loading %s: %v", websiteName, err)
		s.writeMessage(w, http.StatusInternalServerError, "Failed to load website")
		return
	}

	rd := render.NewRenderer(s.catalog, render.StaticDocument{Doc: doc})
	if wantsHTML(r) {
		svc := render.NewService(rd, s.registry)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := pageTemplate.Execute(w, map[string]any{
			"Title":       pageTitle(doc, slug),
			"WebsiteName": websiteName,
			"Slug":        slug,
			"Body":        svc.RenderPageHTML(slug),
		})
		if err != nil {
			s.logger.Errorf("rendering %s/%s: %v", websiteName, slug, err)
		}
		return
	}

	resp := PageResponse{
		WebsiteName: websiteName,
		Slug:        slug,
		Components:  rd.RenderPage(slug),
	}
	if resp.Components == nil {
		resp.Components = []render.Descriptor{}
	}
	if h, err := rd.RenderGlobal("header"); err == nil && h.Visible {
		resp.Header = &h
	}
	if f, err := rd.RenderGlobal("footer"); err == nil && f.Visible {
		resp.Footer = &f
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// HandleCatalog lists component descriptors, optionally of one
// ?category.
func (s *Server) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	list := s.catalog.List()
	if category != "" {
		list = s.catalog.ListByCategory(category)
	}
	s.writeJSON(w, http.StatusOK, CatalogResponse{
		Categories: s.catalog.Categories(),
		Components: list,
		Count:      len(list),
	})
}

func (s *Server) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.WebsiteNames(r.Context())
	if err != nil {
		s.logger.Errorf("listing websites: %v", err)
		s.writeMessage(w, http.StatusInternalServerError, "Failed to list websites")
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, TenantsResponse{WebsiteNames: names, Count: len(names)})
}

// HandleRevisions lists the revisions of a website, newest first. ?limit
// defaults to 20.
func (s *Server) HandleRevisions(w http.ResponseWriter, r *http.Request) {
	websiteName := chi.URLParam(r, "websiteName")
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeMessage(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	revs, err := s.store.Revisions(r.Context(), websiteName, limit)
	if err != nil {
		s.logger.Errorf("listing revisions of %s: %v", websiteName, err)
		s.writeMessage(w, http.StatusInternalServerError, "Failed to list revisions")
		return
	}
	if len(revs) == 0 {
		if _, err := s.store.Load(r.Context(), websiteName); errors.Is(err, model.ErrTenantNotFound) {
			s.writeMessage(w, http.StatusNotFound, "Website not found")
			return
		}
	}
	s.writeJSON(w, http.StatusOK, RevisionsResponse{WebsiteName: websiteName, Revisions: revs, Count: len(revs)})
}

// HandleRevision returns the document saved as one revision.
func (s *Server) HandleRevision(w http.ResponseWriter, r *http.Request) {
	websiteName := chi.URLParam(r, "websiteName")
	doc, err := s.store.RevisionDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, model.ErrTenantNotFound) {
			s.writeMessage(w, http.StatusNotFound, "Revision not found")
			return
		}
		s.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if doc.WebsiteName != websiteName {
		s.writeMessage(w, http.StatusNotFound, "Revision not found")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeMessage(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: s.now().UTC(),
		Version:   version.APIVersion(),
		Listeners: s.hub.Size(),
	})
}

func wantsHTML(r *http.Request) bool {
	switch r.URL.Query().Get("format") {
	case "html":
		return true
	case "json":
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// pageTitle uses the page meta tag title, then the website name.
func pageTitle(doc *model.TenantDocument, slug string) string {
	if mt, ok := doc.WebsiteLayout.MetaTags[slug]; ok && mt.Title != "" {
		return mt.Title
	}
	return doc.WebsiteName
}
