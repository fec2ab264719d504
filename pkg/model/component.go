package model

// Layout is the grid placement hint of a component instance.
type Layout struct {
	Row  int `json:"row" yaml:"row"`
	Col  int `json:"col" yaml:"col"`
	Span int `json:"span" yaml:"span"`
}

// DefaultLayout is used for instances persisted without a layout.
func DefaultLayout() Layout {
	return Layout{Row: 0, Col: 0, Span: 2}
}

// ComponentInstance is one placed block on a page.
//
// ID is the merge key across sessions and must be unique within a page.
// ComponentName is "<base><variant>", e.g. "hero3". Position orders the
// instances of a page; gaps are allowed, ties keep insertion order.
type ComponentInstance struct {
	ID            string         `json:"id" yaml:"id"`
	Type          string         `json:"type" yaml:"type"`
	Name          string         `json:"name" yaml:"name"`
	ComponentName string         `json:"componentName" yaml:"componentName"`
	Data          map[string]any `json:"data" yaml:"data"`
	Position      int            `json:"position" yaml:"position"`
	Layout        *Layout        `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// EffectiveLayout returns the instance layout or the default one.
func (c ComponentInstance) EffectiveLayout() Layout {
	if c.Layout == nil {
		return DefaultLayout()
	}
	return *c.Layout
}

// Normalized returns a copy with a non-nil data map and an explicit layout.
func (c ComponentInstance) Normalized() ComponentInstance {
	out := c.Clone()
	if out.Data == nil {
		out.Data = map[string]any{}
	}
	l := c.EffectiveLayout()
	out.Layout = &l
	return out
}

// Stripped keeps only the persisted fields of an instance. Every field of
// ComponentInstance is persisted today, so this is a deep copy with the
// layout made explicit.
func (c ComponentInstance) Stripped() ComponentInstance {
	return ComponentInstance{
		ID:            c.ID,
		Type:          c.Type,
		Name:          c.Name,
		ComponentName: c.ComponentName,
		Data:          CloneData(c.Data),
		Position:      c.Position,
		Layout:        layoutPtr(c.EffectiveLayout()),
	}
}

// Clone deep-copies the instance.
func (c ComponentInstance) Clone() ComponentInstance {
	out := c
	out.Data = CloneData(c.Data)
	if c.Layout != nil {
		out.Layout = layoutPtr(*c.Layout)
	}
	return out
}

func layoutPtr(l Layout) *Layout { return &l }

// CloneInstances deep-copies a component list.
func CloneInstances(in []ComponentInstance) []ComponentInstance {
	if in == nil {
		return nil
	}
	out := make([]ComponentInstance, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// ClonePages deep-copies a slug -> instances map.
func ClonePages(in map[string][]ComponentInstance) map[string][]ComponentInstance {
	out := make(map[string][]ComponentInstance, len(in))
	for slug, list := range in {
		out[slug] = CloneInstances(list)
	}
	return out
}
