package render

import (
	"sort"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/catalog"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// Descriptor is a fully resolved component, ready for a host UI to mount.
type Descriptor struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	ComponentName string         `json:"componentName"`
	BaseName      string         `json:"baseName"`
	Variant       int            `json:"variant"`
	DisplayName   string         `json:"displayName"`
	Props         map[string]any `json:"props"`
	Visible       bool           `json:"visible"`
	Fallback      bool           `json:"fallback,omitempty"`
	Unresolved    string         `json:"unresolved,omitempty"`
	Position      int            `json:"position"`
	Layout        model.Layout   `json:"layout"`
}

// DocumentSource provides the persisted tenant document.
type DocumentSource interface {
	Document() *model.TenantDocument
}

// LiveSource provides the in-memory edits of an editing session.
type LiveSource interface {
	Components(page string) []model.ComponentInstance
	Component(page, id string) (model.ComponentInstance, bool)
	Global(slot string) (model.GlobalComponent, error)
	WebsiteLayout() model.WebsiteLayout
}

// StaticDocument adapts a plain document to DocumentSource.
type StaticDocument struct {
	Doc *model.TenantDocument
}

// Document implements DocumentSource.
func (s StaticDocument) Document() *model.TenantDocument { return s.Doc }

// Renderer resolves component props through the cascade
//
//	catalog defaults < theme defaults < tenant per-base settings <
//	data of the instance as given < persisted instance data <
//	live edits < explicit props
//
// Live edits only take part when the renderer is in edit mode.
type Renderer struct {
	catalog *catalog.Catalog
	doc     DocumentSource
	live    LiveSource
	logger  *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLive puts the renderer in edit mode over live.
func WithLive(live LiveSource) Option {
	return func(r *Renderer) { r.live = live }
}

// NewRenderer returns a renderer over the persisted document of doc. A nil
// catalog uses the built-in one.
func NewRenderer(cat *catalog.Catalog, doc DocumentSource, opts ...Option) *Renderer {
	if cat == nil {
		cat = catalog.Default()
	}
	r := &Renderer{catalog: cat, doc: doc, logger: log.ForService("render")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EditMode reports whether live edits take part in resolution.
func (r *Renderer) EditMode() bool { return r.live != nil }

// Resolve returns the descriptor of inst on page with props applied last.
// The data carried by inst counts even when the instance is not in the
// persisted document.
func (r *Renderer) Resolve(page string, inst model.ComponentInstance, props map[string]any) Descriptor {
	doc := r.document()

	given := inst.Data
	var persisted, live map[string]any
	if p, ok := doc.FindInstance(page, inst.ID); ok {
		persisted = p.Data
	} else if sp, ok := r.staticPage(doc, page); ok {
		for _, c := range sp.Components {
			if c.ID == inst.ID {
				persisted = c.Data
				break
			}
		}
	}
	if r.live != nil {
		if l, ok := r.live.Component(page, inst.ID); ok {
			inst = l
			live = l.Data
		}
	}

	d := r.resolveName(doc, inst)
	base := doc.Components[d.Type]
	out := r.describe(d, r.currentTheme(doc), base.Data, given, persisted, live, props)
	out.ID = inst.ID
	out.Position = inst.Position
	out.Layout = inst.EffectiveLayout()
	return out
}

// ResolvePage returns every component of slug in position order, hidden
// ones included.
func (r *Renderer) ResolvePage(slug string) []Descriptor {
	list := r.instances(slug)
	out := make([]Descriptor, 0, len(list))
	for _, inst := range list {
		out = append(out, r.Resolve(slug, inst, nil))
	}
	return out
}

// RenderPage returns the visible components of slug in position order.
func (r *Renderer) RenderPage(slug string) []Descriptor {
	var out []Descriptor
	for _, d := range r.ResolvePage(slug) {
		if !d.Visible {
			continue
		}
		out = append(out, d)
	}
	return out
}

// RenderGlobal resolves the header or footer. The variant comes from the
// live slot in edit mode, then from the persisted slot, then variant 1.
func (r *Renderer) RenderGlobal(slot string) (Descriptor, error) {
	if !model.IsValidSlot(slot) {
		return Descriptor{}, ErrUnknownSlot
	}
	doc := r.document()
	persisted := model.SplitVariant(doc.GlobalComponentsData.Slot(slot))
	variant := persisted.Variant

	var live map[string]any
	if r.live != nil {
		if g, err := r.live.Global(slot); err == nil {
			live = g.Data
			if g.Variant != "" {
				variant = g.Variant
			}
		}
	}
	if variant == "" {
		variant = catalog.ComponentName(slot, 1)
	}

	d := r.catalog.ResolveName(variant)
	out := r.describe(d, r.currentTheme(doc), doc.Components[slot].Data, persisted.Data, live, nil)
	out.ID = slot
	out.Layout = model.DefaultLayout()
	return out, nil
}

func (r *Renderer) describe(d catalog.Descriptor, theme int, layers ...map[string]any) Descriptor {
	all := append([]map[string]any{d.Defaults(), d.ThemeDefaults(theme)}, layers...)
	props := Merge(all...)
	if d.Fallback {
		r.logger.Warnf("unknown component %q, rendering placeholder", d.Unresolved)
	}
	return Descriptor{
		Type:          d.Type,
		ComponentName: d.ComponentName,
		BaseName:      d.Type,
		Variant:       d.Variant,
		DisplayName:   d.DisplayName,
		Props:         props,
		Visible:       Visible(props),
		Fallback:      d.Fallback,
		Unresolved:    d.Unresolved,
	}
}

// resolveName picks the catalog entry of inst. Instances without a
// component name use the tenant-wide variant of their type when one is set.
func (r *Renderer) resolveName(doc *model.TenantDocument, inst model.ComponentInstance) catalog.Descriptor {
	if inst.ComponentName == "" {
		if v := doc.Components[inst.Type].Variant; v != "" {
			return r.catalog.ResolveName(v)
		}
	}
	return r.catalog.ResolveInstance(inst)
}

func (r *Renderer) instances(slug string) []model.ComponentInstance {
	if r.live != nil {
		return r.live.Components(slug)
	}
	doc := r.document()
	if list, ok := doc.PageComponents()[slug]; ok {
		return sortByPosition(list)
	}
	if sp, ok := r.staticPage(doc, slug); ok {
		return sortByPosition(sp.Components)
	}
	return nil
}

func (r *Renderer) staticPage(doc *model.TenantDocument, slug string) (model.StaticPage, bool) {
	raw, ok := doc.StaticPages[slug]
	if !ok {
		return model.StaticPage{}, false
	}
	sp, err := model.DecodeStaticPage(slug, raw)
	if err != nil {
		r.logger.Warnf("static page %q: %v", slug, err)
		return model.StaticPage{}, false
	}
	return sp, true
}

func (r *Renderer) currentTheme(doc *model.TenantDocument) int {
	if r.live != nil {
		return r.live.WebsiteLayout().CurrentTheme
	}
	return doc.WebsiteLayout.CurrentTheme
}

func (r *Renderer) document() *model.TenantDocument {
	if r.doc != nil {
		if doc := r.doc.Document(); doc != nil {
			return doc
		}
	}
	return model.DefaultDocument("")
}

func sortByPosition(list []model.ComponentInstance) []model.ComponentInstance {
	out := model.CloneInstances(list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
