package model

// SavePayload is the body of POST /tenant-website/save-pages.
type SavePayload struct {
	TenantID             string                         `json:"tenantId"`
	Username             string                         `json:"username"`
	WebsiteName          string                         `json:"websiteName"`
	Pages                map[string][]ComponentInstance `json:"pages"`
	GlobalComponentsData GlobalComponentsData           `json:"globalComponentsData"`
	WebsiteLayout        WebsiteLayout                  `json:"WebsiteLayout"`
	ThemesBackup         map[string]ThemeBackup         `json:"ThemesBackup,omitempty"`
	StaticPages          map[string]StaticPage          `json:"StaticPages,omitempty"`
}

// Document turns the payload into a tenant document, the shape the fetch
// endpoint returns after the save is applied.
func (p SavePayload) Document() (*TenantDocument, error) {
	static, err := EncodeStaticPages(p.StaticPages)
	if err != nil {
		return nil, err
	}
	doc := &TenantDocument{
		Username:             p.Username,
		WebsiteName:          p.WebsiteName,
		Pages:                ClonePages(p.Pages),
		GlobalComponentsData: p.GlobalComponentsData.Clone(),
		WebsiteLayout:        p.WebsiteLayout.Clone(),
		StaticPages:          static,
	}
	if len(p.ThemesBackup) > 0 {
		doc.ThemesBackup = make(map[string]ThemeBackup, len(p.ThemesBackup))
		for k, b := range p.ThemesBackup {
			doc.ThemesBackup[k] = b.Clone()
		}
	}
	return doc, nil
}

// Sanitized returns a copy of p with the exclusion rules applied: slugs
// present in StaticPages are removed from Pages, and ThemesBackup keeps
// only well-formed keys of inactive themes.
func (p SavePayload) Sanitized() SavePayload {
	out := p
	out.Pages = make(map[string][]ComponentInstance, len(p.Pages))
	for slug, list := range p.Pages {
		if _, static := p.StaticPages[slug]; static {
			continue
		}
		out.Pages[slug] = CloneInstances(list)
	}
	out.ThemesBackup = InactiveThemeBackups(p.ThemesBackup, p.WebsiteLayout.CurrentTheme)
	if len(out.ThemesBackup) == 0 {
		out.ThemesBackup = nil
	}
	if len(p.StaticPages) > 0 {
		out.StaticPages = CloneStaticPages(p.StaticPages)
	}
	out.GlobalComponentsData = p.GlobalComponentsData.Clone()
	out.WebsiteLayout = p.WebsiteLayout.Clone()
	return out
}
