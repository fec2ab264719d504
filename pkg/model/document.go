package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// BaseComponentSettings is the tenant-wide setting of one base component
// type (e.g. every "hero"), independent of page instances.
type BaseComponentSettings struct {
	Variant string         `json:"variant,omitempty" yaml:"variant,omitempty"`
	Data    map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Clone deep-copies the settings.
func (b BaseComponentSettings) Clone() BaseComponentSettings {
	return BaseComponentSettings{Variant: b.Variant, Data: CloneData(b.Data)}
}

// TenantDocument is the persisted website of one tenant.
//
// StaticPages is kept raw because the backend has stored it in two shapes
// over time; DecodeStaticPages normalizes it.
type TenantDocument struct {
	Username             string                                  `json:"username"`
	WebsiteName          string                                  `json:"websiteName"`
	Pages                map[string][]ComponentInstance          `json:"pages,omitempty"`
	ComponentSettings    map[string]map[string]ComponentInstance `json:"componentSettings,omitempty"`
	Components           map[string]BaseComponentSettings        `json:"components,omitempty"`
	GlobalComponentsData GlobalComponentsData                    `json:"globalComponentsData"`
	WebsiteLayout        WebsiteLayout                           `json:"WebsiteLayout"`
	StaticPages          map[string]json.RawMessage              `json:"StaticPages,omitempty"`
	ThemesBackup         map[string]ThemeBackup                  `json:"ThemesBackup,omitempty"`
}

// DefaultDocument is the minimal well-formed document used when the
// backend has nothing for key.
func DefaultDocument(key string) *TenantDocument {
	return &TenantDocument{
		WebsiteName:   key,
		Pages:         map[string][]ComponentInstance{},
		WebsiteLayout: WebsiteLayout{CurrentTheme: 1},
	}
}

// ParseDocument decodes a response body. An empty or null body yields a
// nil document and no error.
func ParseDocument(body []byte) (*TenantDocument, error) {
	if len(body) == 0 || string(body) == "null" {
		return nil, nil
	}
	var doc TenantDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedDocument)
	}
	return &doc, nil
}

// PageComponents returns the normalized component list of every page.
// The legacy componentSettings map is read first and pages overrides it
// slug by slug.
func (d *TenantDocument) PageComponents() map[string][]ComponentInstance {
	out := make(map[string][]ComponentInstance)
	for slug, byID := range d.ComponentSettings {
		list := make([]ComponentInstance, 0, len(byID))
		for id, inst := range byID {
			if inst.ID == "" {
				inst.ID = id
			}
			list = append(list, inst.Normalized())
		}
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Position != list[j].Position {
				return list[i].Position < list[j].Position
			}
			return list[i].ID < list[j].ID
		})
		out[slug] = list
	}
	for slug, list := range d.Pages {
		normalized := make([]ComponentInstance, len(list))
		for i, inst := range list {
			normalized[i] = inst.Normalized()
		}
		out[slug] = normalized
	}
	return out
}

// FindInstance looks up a persisted instance by page and id.
func (d *TenantDocument) FindInstance(page, id string) (ComponentInstance, bool) {
	for _, inst := range d.Pages[page] {
		if inst.ID == id {
			return inst, true
		}
	}
	if byID, ok := d.ComponentSettings[page]; ok {
		if inst, ok := byID[id]; ok {
			return inst, true
		}
	}
	return ComponentInstance{}, false
}

// DecodeStaticPages normalizes the StaticPages table.
func (d *TenantDocument) DecodeStaticPages() (map[string]StaticPage, []string) {
	return DecodeStaticPages(d.StaticPages)
}

// Clone deep-copies the document.
func (d *TenantDocument) Clone() *TenantDocument {
	if d == nil {
		return nil
	}
	out := &TenantDocument{
		Username:             d.Username,
		WebsiteName:          d.WebsiteName,
		GlobalComponentsData: d.GlobalComponentsData.Clone(),
		WebsiteLayout:        d.WebsiteLayout.Clone(),
	}
	if d.Pages != nil {
		out.Pages = ClonePages(d.Pages)
	}
	if d.ComponentSettings != nil {
		out.ComponentSettings = make(map[string]map[string]ComponentInstance, len(d.ComponentSettings))
		for slug, byID := range d.ComponentSettings {
			m := make(map[string]ComponentInstance, len(byID))
			for id, inst := range byID {
				m[id] = inst.Clone()
			}
			out.ComponentSettings[slug] = m
		}
	}
	if d.Components != nil {
		out.Components = make(map[string]BaseComponentSettings, len(d.Components))
		for base, s := range d.Components {
			out.Components[base] = s.Clone()
		}
	}
	if d.StaticPages != nil {
		out.StaticPages = make(map[string]json.RawMessage, len(d.StaticPages))
		for slug, raw := range d.StaticPages {
			b := make(json.RawMessage, len(raw))
			copy(b, raw)
			out.StaticPages[slug] = b
		}
	}
	if d.ThemesBackup != nil {
		out.ThemesBackup = make(map[string]ThemeBackup, len(d.ThemesBackup))
		for k, b := range d.ThemesBackup {
			out.ThemesBackup[k] = b.Clone()
		}
	}
	return out
}
