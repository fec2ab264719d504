package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// Branding holds the tenant's visual identity.
type Branding struct {
	Colors  map[string]string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Logo    string            `json:"logo,omitempty" yaml:"logo,omitempty"`
	Favicon string            `json:"favicon,omitempty" yaml:"favicon,omitempty"`
	Font    string            `json:"font,omitempty" yaml:"font,omitempty"`
}

// MetaTag is the SEO entry of one page.
type MetaTag struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

// WebsiteLayout carries branding, the meta-tag table and the active theme.
type WebsiteLayout struct {
	Branding     Branding           `json:"branding" yaml:"branding"`
	MetaTags     map[string]MetaTag `json:"metaTags,omitempty" yaml:"metaTags,omitempty"`
	CurrentTheme int                `json:"currentTheme" yaml:"currentTheme"`
}

// Clone deep-copies the layout.
func (w WebsiteLayout) Clone() WebsiteLayout {
	out := w
	if w.Branding.Colors != nil {
		out.Branding.Colors = make(map[string]string, len(w.Branding.Colors))
		for k, v := range w.Branding.Colors {
			out.Branding.Colors[k] = v
		}
	}
	if w.MetaTags != nil {
		out.MetaTags = make(map[string]MetaTag, len(w.MetaTags))
		for k, v := range w.MetaTags {
			out.MetaTags[k] = v
		}
	}
	return out
}

// ThemeBackup is the full component state of a theme that is not active.
type ThemeBackup struct {
	Pages                map[string][]ComponentInstance `json:"pages" yaml:"pages"`
	GlobalComponentsData GlobalComponentsData           `json:"globalComponentsData" yaml:"globalComponentsData"`
}

// Clone deep-copies the backup.
func (t ThemeBackup) Clone() ThemeBackup {
	return ThemeBackup{
		Pages:                ClonePages(t.Pages),
		GlobalComponentsData: t.GlobalComponentsData.Clone(),
	}
}

var themeBackupKey = regexp.MustCompile(`^Theme(\d+)Backup$`)

// ThemeBackupKey returns the ThemesBackup key of theme n.
func ThemeBackupKey(n int) string {
	return fmt.Sprintf("Theme%dBackup", n)
}

// ParseThemeBackupKey extracts N from "Theme<N>Backup".
func ParseThemeBackupKey(key string) (int, bool) {
	m := themeBackupKey.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// InactiveThemeBackups keeps the well-formed backup keys whose theme number
// differs from current. Entries are deep-copied.
func InactiveThemeBackups(backups map[string]ThemeBackup, current int) map[string]ThemeBackup {
	out := make(map[string]ThemeBackup)
	for key, b := range backups {
		n, ok := ParseThemeBackupKey(key)
		if !ok || n == current {
			continue
		}
		out[key] = b.Clone()
	}
	return out
}
