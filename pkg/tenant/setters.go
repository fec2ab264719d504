package tenant

import (
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// SetHeaderData installs a document whose header data is data.
func (s *Store) SetHeaderData(data map[string]any) *model.TenantDocument {
	return s.update(func(d *model.TenantDocument) {
		d.GlobalComponentsData.Header = model.CloneData(data)
	})
}

// SetFooterData installs a document whose footer data is data.
func (s *Store) SetFooterData(data map[string]any) *model.TenantDocument {
	return s.update(func(d *model.TenantDocument) {
		d.GlobalComponentsData.Footer = model.CloneData(data)
	})
}

// SetHeaderVariant installs a document whose header variant is variant.
func (s *Store) SetHeaderVariant(variant string) *model.TenantDocument {
	return s.update(func(d *model.TenantDocument) {
		d.GlobalComponentsData.Header = withVariant(d.GlobalComponentsData.Header, variant)
	})
}

// SetFooterVariant installs a document whose footer variant is variant.
func (s *Store) SetFooterVariant(variant string) *model.TenantDocument {
	return s.update(func(d *model.TenantDocument) {
		d.GlobalComponentsData.Footer = withVariant(d.GlobalComponentsData.Footer, variant)
	})
}

// SetComponentData installs a document whose tenant-wide settings for the
// base component carry data.
func (s *Store) SetComponentData(base string, data map[string]any) *model.TenantDocument {
	return s.update(func(d *model.TenantDocument) {
		if d.Components == nil {
			d.Components = make(map[string]model.BaseComponentSettings)
		}
		settings := d.Components[base]
		settings.Data = model.CloneData(data)
		d.Components[base] = settings
	})
}

// SetComponentVariant installs a document whose tenant-wide settings for
// the base component use variant.
func (s *Store) SetComponentVariant(base, variant string) *model.TenantDocument {
	return s.update(func(d *model.TenantDocument) {
		if d.Components == nil {
			d.Components = make(map[string]model.BaseComponentSettings)
		}
		settings := d.Components[base]
		settings.Variant = variant
		d.Components[base] = settings
	})
}

// ApplySaved mirrors a confirmed save into the cache so the next read sees
// the saved state without a fetch. The legacy componentSettings map is
// dropped since the saved pages supersede it. The cache is keyed by the
// saved website from then on, so a save of another website replaces the
// cached tenant instead of being filed under its key.
func (s *Store) ApplySaved(p model.SavePayload) (*model.TenantDocument, error) {
	static, err := model.EncodeStaticPages(p.StaticPages)
	if err != nil {
		return nil, err
	}
	doc := s.update(func(d *model.TenantDocument) {
		if p.WebsiteName != "" && d.WebsiteName != p.WebsiteName {
			*d = *model.DefaultDocument(p.WebsiteName)
		}
		if p.Username != "" {
			d.Username = p.Username
		}
		if p.WebsiteName != "" {
			d.WebsiteName = p.WebsiteName
		}
		d.Pages = model.ClonePages(p.Pages)
		d.ComponentSettings = nil
		d.GlobalComponentsData = p.GlobalComponentsData.Clone()
		d.WebsiteLayout = p.WebsiteLayout.Clone()
		d.StaticPages = static
		d.ThemesBackup = nil
		if len(p.ThemesBackup) > 0 {
			d.ThemesBackup = make(map[string]model.ThemeBackup, len(p.ThemesBackup))
			for k, b := range p.ThemesBackup {
				d.ThemesBackup[k] = b.Clone()
			}
		}
	})

	s.mu.Lock()
	if s.state != Loading {
		s.state = Loaded
		s.errMsg = ""
		if doc.WebsiteName != "" {
			s.key = doc.WebsiteName
		}
	}
	s.mu.Unlock()
	return doc, nil
}

// update applies fn to a copy of the current document and installs it.
func (s *Store) update(fn func(*model.TenantDocument)) *model.TenantDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next *model.TenantDocument
	if s.doc != nil {
		next = s.doc.Clone()
	} else {
		next = model.DefaultDocument(s.key)
	}
	fn(next)
	s.doc = next
	return next
}

func withVariant(data map[string]any, variant string) map[string]any {
	g := model.SplitVariant(data)
	g.Variant = variant
	return g.Fold()
}
