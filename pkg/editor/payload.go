package editor

import (
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// BuildSavePayload serializes the working state for the save endpoint.
//
// Pages that are also static pages are left out of Pages. Instances are
// stripped to their persisted fields and written in position order. The
// header and footer variants are folded into their data. Only well-formed
// theme backups of inactive themes are kept. StaticPages is attached when
// non-empty. The payload is attributed to actor; the website name falls
// back to the actor's username.
//
// Pre-save hooks that flush static page buffers must run before this.
func (s *Store) BuildSavePayload(actor identity.Identity) model.SavePayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages := make(map[string][]model.ComponentInstance, len(s.pages))
	for slug, list := range s.pages {
		if _, static := s.static[slug]; static {
			continue
		}
		pages[slug] = stripAll(ordered(list))
	}

	p := model.SavePayload{
		TenantID:    actor.TenantID,
		Username:    actor.Username,
		WebsiteName: actor.WebsiteName,
		Pages:       pages,
		GlobalComponentsData: model.GlobalComponentsData{
			Header: s.header.Fold(),
			Footer: s.footer.Fold(),
		},
		WebsiteLayout: s.layout.Clone(),
		ThemesBackup:  model.InactiveThemeBackups(s.backups, s.layout.CurrentTheme),
	}
	if p.WebsiteName == "" {
		p.WebsiteName = actor.Username
	}
	if len(s.static) > 0 {
		p.StaticPages = model.CloneStaticPages(s.static)
	}
	return p
}

func stripAll(list []model.ComponentInstance) []model.ComponentInstance {
	out := make([]model.ComponentInstance, len(list))
	for i, c := range list {
		out[i] = c.Stripped()
	}
	return out
}
