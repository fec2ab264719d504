package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackType is the component every unresolvable name falls back to.
const FallbackType = "hero"

// Descriptor describes one component type and, once resolved, the variant
// that was asked for.
type Descriptor struct {
	Type        string                 `json:"type"`
	DisplayName string                 `json:"displayName"`
	Icon        string                 `json:"icon"`
	Category    string                 `json:"category"`
	Variants    int                    `json:"variants"`
	DefaultData map[string]any         `json:"defaultData"`
	ThemeData   map[int]map[string]any `json:"themeData,omitempty"`

	// Set by Resolve.
	Variant       int    `json:"variant,omitempty"`
	ComponentName string `json:"componentName,omitempty"`
	Fallback      bool   `json:"fallback,omitempty"`
	Unresolved    string `json:"unresolved,omitempty"`
}

// Defaults returns a private copy of the default data.
func (d Descriptor) Defaults() map[string]any {
	out := model.CloneData(d.DefaultData)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// ThemeDefaults returns the overrides the descriptor carries for theme, or nil.
func (d Descriptor) ThemeDefaults(theme int) map[string]any {
	return model.CloneData(d.ThemeData[theme])
}

// Catalog is a read-mostly table of component descriptors with a mandatory
// fallback entry. Lookups never fail.
type Catalog struct {
	mu       sync.RWMutex
	order    []string
	entries  map[string]Descriptor
	fallback string
}

// New builds a catalog from descriptors. The fallback type must be among
// them.
func New(fallback string, descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Descriptor), fallback: fallback}
	for _, d := range descriptors {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	if _, ok := c.entries[fallback]; !ok {
		return nil, fmt.Errorf("fallback component %q is not registered", fallback)
	}
	return c, nil
}

// Register adds a descriptor. Types are unique.
func (c *Catalog) Register(d Descriptor) error {
	if d.Type == "" {
		return fmt.Errorf("component descriptor without type")
	}
	if d.Variants < 1 {
		d.Variants = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[d.Type]; exists {
		return fmt.Errorf("component %s already registered", d.Type)
	}
	c.entries[d.Type] = d
	c.order = append(c.order, d.Type)
	return nil
}

// Has reports whether componentType is registered.
func (c *Catalog) Has(componentType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[componentType]
	return ok
}

// Resolve returns the descriptor of componentType at variant. Variants out
// of range resolve to variant 1. Unknown types resolve to the fallback
// descriptor with Fallback set.
func (c *Catalog) Resolve(componentType string, variant int) Descriptor {
	c.mu.RLock()
	d, ok := c.entries[componentType]
	fb := c.entries[c.fallback]
	c.mu.RUnlock()

	if !ok {
		return c.fallbackFor(fb, componentType+strconv.Itoa(max(variant, 1)))
	}
	if variant < 1 || variant > d.Variants {
		variant = 1
	}
	return resolved(d, variant)
}

// ResolveName resolves a "<base><variant>" component name.
func (c *Catalog) ResolveName(componentName string) Descriptor {
	base, variant := ParseComponentName(componentName)
	if !c.Has(base) {
		c.mu.RLock()
		fb := c.entries[c.fallback]
		c.mu.RUnlock()
		return c.fallbackFor(fb, componentName)
	}
	return c.Resolve(base, variant)
}

// ResolveInstance resolves the catalog entry of a placed instance. The
// component name decides; the type is used only when the name is empty.
func (c *Catalog) ResolveInstance(inst model.ComponentInstance) Descriptor {
	if inst.ComponentName == "" {
		return c.Resolve(inst.Type, 1)
	}
	return c.ResolveName(inst.ComponentName)
}

// ListByCategory returns the descriptors of category in registration order.
func (c *Catalog) ListByCategory(category string) []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Descriptor
	for _, t := range c.order {
		d := c.entries[t]
		if d.Category == category {
			out = append(out, copyDescriptor(d))
		}
	}
	return out
}

// List returns every descriptor in registration order.
func (c *Catalog) List() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Descriptor, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, copyDescriptor(c.entries[t]))
	}
	return out
}

// Types returns the registered types in registration order.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Categories returns the sorted set of categories.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, d := range c.entries {
		if _, ok := seen[d.Category]; ok {
			continue
		}
		seen[d.Category] = struct{}{}
		out = append(out, d.Category)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) fallbackFor(fb Descriptor, requested string) Descriptor {
	d := resolved(fb, 1)
	d.Fallback = true
	d.Unresolved = requested
	d.DisplayName = "Unknown component: " + humanize(requested)
	return d
}

func resolved(d Descriptor, variant int) Descriptor {
	out := copyDescriptor(d)
	out.Variant = variant
	out.ComponentName = d.Type + strconv.Itoa(variant)
	return out
}

func copyDescriptor(d Descriptor) Descriptor {
	out := d
	out.DefaultData = model.CloneData(d.DefaultData)
	if d.ThemeData != nil {
		out.ThemeData = make(map[int]map[string]any, len(d.ThemeData))
		for k, v := range d.ThemeData {
			out.ThemeData[k] = model.CloneData(v)
		}
	}
	return out
}

// ParseComponentName splits "hero3" into ("hero", 3). Names without a
// numeric suffix are variant 1.
func ParseComponentName(name string) (string, int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	base := name[:i]
	if i == len(name) {
		return base, 1
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil || n < 1 {
		return base, 1
	}
	return base, n
}

// ComponentName joins a base and a variant.
func ComponentName(base string, variant int) string {
	return base + strconv.Itoa(max(variant, 1))
}

var titleCaser = cases.Title(language.English)

// humanize turns "propertyDetail2" into "Property Detail 2".
func humanize(name string) string {
	if name == "" {
		return "Unnamed"
	}
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if i > 0 {
			switch {
			case r >= 'A' && r <= 'Z' && !(prev >= 'A' && prev <= 'Z'):
				b.WriteByte(' ')
			case r >= '0' && r <= '9' && !(prev >= '0' && prev <= '9'):
				b.WriteByte(' ')
			}
		}
		if r == '-' || r == '_' {
			r = ' '
		}
		b.WriteRune(r)
		prev = r
	}
	return titleCaser.String(strings.ToLower(b.String()))
}
