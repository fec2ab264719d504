package render

import (
	"errors"
	"html/template"
	"sync"
)

// ErrUnknownSlot is returned for global slots other than header and footer.
var ErrUnknownSlot = errors.New("unknown global slot")

// HTMLRenderer turns a resolved component into markup. Implementations
// return trusted HTML.
type HTMLRenderer interface {
	Render(d Descriptor) template.HTML
	CanRender(d Descriptor) bool
	ComponentType() string
}

// Registry holds the HTML renderers of component types, a default renderer
// for types without one and the placeholder used for unresolved names.
type Registry struct {
	mu          sync.RWMutex
	renderers   []HTMLRenderer
	defaultHTML HTMLRenderer
	fallback    HTMLRenderer
}

// NewRegistry returns a registry with the built-in renderers.
func NewRegistry() *Registry {
	r := &Registry{
		defaultHTML: NewDefaultRenderer(),
		fallback:    NewFallbackRenderer(),
	}
	for _, br := range builtinRenderers() {
		r.Register(br)
	}
	return r
}

// Register adds a renderer. Earlier registrations win.
func (r *Registry) Register(renderer HTMLRenderer) {
	if renderer == nil {
		return
	}
	r.mu.Lock()
	r.renderers = append(r.renderers, renderer)
	r.mu.Unlock()
}

// Render renders d. Unresolved components always get the placeholder;
// hidden components render nothing.
func (r *Registry) Render(d Descriptor) template.HTML {
	if !d.Visible {
		return ""
	}

	r.mu.RLock()
	renderers := r.renderers
	def := r.defaultHTML
	fb := r.fallback
	r.mu.RUnlock()

	if d.Fallback {
		return fb.Render(d)
	}
	for _, renderer := range renderers {
		if renderer.CanRender(d) {
			return renderer.Render(d)
		}
	}
	return def.Render(d)
}

// ComponentTypes lists the types with a dedicated renderer.
func (r *Registry) ComponentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	seen := make(map[string]struct{})
	for _, ren := range r.renderers {
		t := ren.ComponentType()
		if t == "" {
			continue
		}
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// SetDefaultRenderer replaces the renderer of types without one.
func (r *Registry) SetDefaultRenderer(hr HTMLRenderer) {
	r.mu.Lock()
	r.defaultHTML = hr
	r.mu.Unlock()
}
