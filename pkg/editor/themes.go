package editor

import (
	"fmt"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// SetGlobalComponentData replaces the data of a global slot. A variant
// folded into data is split out and becomes the slot variant; without one
// the current variant is kept.
func (s *Store) SetGlobalComponentData(slot string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.slot(slot)
	if err != nil {
		return fmt.Errorf("%q: %w", slot, err)
	}
	next := model.SplitVariant(data)
	if next.Variant == "" {
		next.Variant = g.Variant
	}
	*g = next
	s.dirty = true
	return nil
}

// SetGlobalVariant sets the variant of a global slot.
func (s *Store) SetGlobalVariant(slot, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.slot(slot)
	if err != nil {
		return fmt.Errorf("%q: %w", slot, err)
	}
	g.Variant = variant
	s.dirty = true
	return nil
}

// SnapshotThemeBackup copies the current pages and globals into the
// backup slot of theme n. Snapshotting the active theme marks the store
// clean, which allows the next theme change.
func (s *Store) SnapshotThemeBackup(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backups[model.ThemeBackupKey(n)] = s.currentThemeState()
	if n == s.layout.CurrentTheme {
		s.dirty = false
	}
	s.logger.Debugf("snapshotted theme %d", n)
}

// SetCurrentTheme changes the active theme number without touching pages
// or globals. It fails with ErrThemeNotSnapshotted while the store holds
// edits that were not snapshotted.
func (s *Store) SetCurrentTheme(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == s.layout.CurrentTheme {
		return nil
	}
	if s.dirty {
		return fmt.Errorf("switching theme %d to %d: %w", s.layout.CurrentTheme, n, ErrThemeNotSnapshotted)
	}
	s.layout.CurrentTheme = n
	return nil
}

// SwitchTheme snapshots the active theme, then loads theme n from its
// backup and removes that backup. A theme without a backup starts with
// empty pages and globals. Static pages and branding are shared by all
// themes and stay as they are.
func (s *Store) SwitchTheme(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.layout.CurrentTheme
	if n == current {
		return
	}
	s.backups[model.ThemeBackupKey(current)] = s.currentThemeState()

	key := model.ThemeBackupKey(n)
	if b, ok := s.backups[key]; ok {
		s.pages = model.ClonePages(b.Pages)
		for slug, list := range s.pages {
			for i := range list {
				list[i] = list[i].Normalized()
			}
			s.pages[slug] = list
		}
		s.header = model.SplitVariant(b.GlobalComponentsData.Header)
		s.footer = model.SplitVariant(b.GlobalComponentsData.Footer)
		delete(s.backups, key)
	} else {
		s.pages = make(map[string][]model.ComponentInstance)
		s.header = model.SplitVariant(nil)
		s.footer = model.SplitVariant(nil)
	}
	s.layout.CurrentTheme = n
	s.dirty = false
	s.logger.Infof("switched theme %d to %d", current, n)
}

// currentThemeState is the backup form of the active pages and globals.
func (s *Store) currentThemeState() model.ThemeBackup {
	pages := make(map[string][]model.ComponentInstance, len(s.pages))
	for slug, list := range s.pages {
		pages[slug] = stripAll(ordered(list))
	}
	return model.ThemeBackup{
		Pages: pages,
		GlobalComponentsData: model.GlobalComponentsData{
			Header: s.header.Fold(),
			Footer: s.footer.Fold(),
		},
	}
}
