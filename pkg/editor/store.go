// Package editor holds the working copy of a tenant website while it is
// being edited: per-page component lists, the header and footer slots,
// static pages, the website layout and the backups of inactive themes.
//
// A Store is hydrated from a tenant document, mutated by the editor and
// turned back into a save payload by BuildSavePayload. Every exported
// method is safe for concurrent use; readers always observe a state that
// no mutator is halfway through.
package editor

import (
	"errors"
	"sort"
	"sync"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

var (
	// ErrUnknownSlot is returned for global slots other than header and footer.
	ErrUnknownSlot = errors.New("unknown global slot")

	// ErrUnknownComponent is returned when an id is not on the page.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrThemeNotSnapshotted is returned when the active theme would change
	// while its edits are not in a backup.
	ErrThemeNotSnapshotted = errors.New("current theme has unsaved edits; snapshot it first")

	// ErrEmptySlug is returned for page operations without a slug.
	ErrEmptySlug = errors.New("empty page slug")

	// ErrStaticPage is returned when a dynamic page operation targets the
	// slug of a static page. Static pages are edited with SetStaticPage.
	ErrStaticPage = errors.New("slug belongs to a static page")
)

// Store is the in-memory composition of one tenant website.
type Store struct {
	mu     sync.Mutex
	logger *log.Logger

	pages   map[string][]model.ComponentInstance
	header  model.GlobalComponent
	footer  model.GlobalComponent
	layout  model.WebsiteLayout
	static  map[string]model.StaticPage
	backups map[string]model.ThemeBackup

	// dirty is set by edits to pages or globals and cleared by Hydrate and
	// by a snapshot of the active theme.
	dirty bool
}

// New returns an empty store on theme 1.
func New() *Store {
	s := &Store{logger: log.ForService("editor")}
	s.reset()
	return s
}

// Reset discards the working state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.pages = make(map[string][]model.ComponentInstance)
	s.header = model.SplitVariant(nil)
	s.footer = model.SplitVariant(nil)
	s.layout = model.WebsiteLayout{CurrentTheme: 1}
	s.static = make(map[string]model.StaticPage)
	s.backups = make(map[string]model.ThemeBackup)
	s.dirty = false
}

// Hydrate replaces the working state with doc. Legacy componentSettings
// are merged under pages, the global slots are split into data and
// variant, and static pages are normalized; static pages that decode in
// neither encoding are skipped and logged. A nil doc resets the store.
func (s *Store) Hydrate(doc *model.TenantDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	if doc == nil {
		return
	}

	s.pages = doc.PageComponents()
	s.header = model.SplitVariant(doc.GlobalComponentsData.Header)
	s.footer = model.SplitVariant(doc.GlobalComponentsData.Footer)
	s.layout = doc.WebsiteLayout.Clone()

	static, skipped := doc.DecodeStaticPages()
	for _, slug := range skipped {
		s.logger.Warnf("skipping malformed static page %q of %s", slug, doc.WebsiteName)
	}
	s.static = static

	for key, b := range doc.ThemesBackup {
		s.backups[key] = b.Clone()
	}
	s.logger.Debugf("hydrated %s: %d pages, %d static pages, %d theme backups",
		doc.WebsiteName, len(s.pages), len(s.static), len(s.backups))
}

// Dirty reports whether pages or globals changed since the last hydrate or
// snapshot of the active theme.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Pages returns the sorted slugs of the dynamic and static pages held in
// the working copy.
func (s *Store) Pages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(s.pages))
	out := make([]string, 0, len(s.pages)+len(s.static))
	for slug := range s.pages {
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	for slug := range s.static {
		if _, ok := seen[slug]; !ok {
			out = append(out, slug)
		}
	}
	sort.Strings(out)
	return out
}

// Components returns a copy of the components of page ordered by position.
// Ties keep insertion order. Slugs without a dynamic page are looked up
// among the static pages.
func (s *Store) Components(page string) []model.ComponentInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ordered(s.list(page))
}

// Component returns one component of page.
func (s *Store) Component(page, id string) (model.ComponentInstance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(page)
	if i := indexOf(list, id); i >= 0 {
		return list[i].Clone(), true
	}
	return model.ComponentInstance{}, false
}

// Global returns the data and variant of a global slot.
func (s *Store) Global(slot string) (model.GlobalComponent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.slot(slot)
	if err != nil {
		return model.GlobalComponent{}, err
	}
	return g.Clone(), nil
}

// WebsiteLayout returns a copy of the website layout.
func (s *Store) WebsiteLayout() model.WebsiteLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}

// SetWebsiteLayout replaces branding, meta tags and the active theme. A
// theme change follows the rules of SetCurrentTheme.
func (s *Store) SetWebsiteLayout(l model.WebsiteLayout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.CurrentTheme != s.layout.CurrentTheme && s.dirty {
		return ErrThemeNotSnapshotted
	}
	s.layout = l.Clone()
	return nil
}

// StaticPages returns a copy of the normalized static pages.
func (s *Store) StaticPages() map[string]model.StaticPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneStaticPages(s.static)
}

// SetStaticPage stores page under its slug, replacing any previous version.
func (s *Store) SetStaticPage(page model.StaticPage) error {
	if page.Slug == "" {
		return ErrEmptySlug
	}
	p := page.Clone()
	if p.Components == nil {
		p.Components = []model.ComponentInstance{}
	}
	for i := range p.Components {
		p.Components[i] = p.Components[i].Normalized()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.static[p.Slug] = p
	return nil
}

// RemoveStaticPage drops a static page. It reports whether one existed.
func (s *Store) RemoveStaticPage(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.static[slug]
	delete(s.static, slug)
	return ok
}

// ThemeBackups returns a copy of every held backup, including malformed
// keys and the active theme if present.
func (s *Store) ThemeBackups() map[string]model.ThemeBackup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.ThemeBackup, len(s.backups))
	for k, b := range s.backups {
		out[k] = b.Clone()
	}
	return out
}

func (s *Store) list(page string) []model.ComponentInstance {
	if list, ok := s.pages[page]; ok {
		return list
	}
	return s.static[page].Components
}

func (s *Store) slot(slot string) (*model.GlobalComponent, error) {
	switch slot {
	case model.SlotHeader:
		return &s.header, nil
	case model.SlotFooter:
		return &s.footer, nil
	}
	return nil, ErrUnknownSlot
}

func ordered(list []model.ComponentInstance) []model.ComponentInstance {
	out := model.CloneInstances(list)
	if out == nil {
		out = []model.ComponentInstance{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func indexOf(list []model.ComponentInstance, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}
