package render

import (
	"html/template"
	"strings"
)

// Service produces the HTML of whole pages: header, the visible page
// components in order, footer.
type Service struct {
	renderer *Renderer
	registry *Registry
}

// NewService returns a service. A nil registry uses NewRegistry.
func NewService(r *Renderer, reg *Registry) *Service {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Service{renderer: r, registry: reg}
}

// Renderer returns the underlying resolver.
func (s *Service) Renderer() *Renderer { return s.renderer }

// RenderPageHTML renders slug. Missing pages render the globals only.
func (s *Service) RenderPageHTML(slug string) template.HTML {
	var b strings.Builder
	if h, err := s.renderer.RenderGlobal("header"); err == nil {
		b.WriteString(string(s.registry.Render(h)))
	}
	for _, d := range s.renderer.RenderPage(slug) {
		b.WriteString(string(s.registry.Render(d)))
	}
	if f, err := s.renderer.RenderGlobal("footer"); err == nil {
		b.WriteString(string(s.registry.Render(f)))
	}
	return template.HTML(b.String())
}

// RenderComponentHTML renders one descriptor.
func (s *Service) RenderComponentHTML(d Descriptor) template.HTML {
	return s.registry.Render(d)
}
