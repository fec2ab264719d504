package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// StaticPage is a fixed-slug system page (privacy, updates, ...). Its
// components and endpoint bindings live apart from the dynamic pages.
type StaticPage struct {
	Slug         string              `json:"slug" yaml:"slug"`
	Components   []ComponentInstance `json:"components" yaml:"components"`
	APIEndpoints map[string]any      `json:"apiEndpoints,omitempty" yaml:"apiEndpoints,omitempty"`
}

// Clone deep-copies the page.
func (s StaticPage) Clone() StaticPage {
	return StaticPage{
		Slug:         s.Slug,
		Components:   CloneInstances(s.Components),
		APIEndpoints: CloneData(s.APIEndpoints),
	}
}

// CloneStaticPages deep-copies a slug -> page map.
func CloneStaticPages(in map[string]StaticPage) map[string]StaticPage {
	out := make(map[string]StaticPage, len(in))
	for slug, p := range in {
		out[slug] = p.Clone()
	}
	return out
}

// DecodeStaticPage accepts both persisted encodings of a static page:
//
//	["privacy", [...components], {...apiEndpoints}]
//	{"slug": "privacy", "components": [...], "apiEndpoints": {...}}
//
// The map key wins over an empty embedded slug.
func DecodeStaticPage(key string, raw json.RawMessage) (StaticPage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return StaticPage{}, fmt.Errorf("static page %q: empty value: %w", key, ErrMalformedStaticPage)
	}

	var page StaticPage
	switch trimmed[0] {
	case '[':
		var tuple []json.RawMessage
		if err := json.Unmarshal(trimmed, &tuple); err != nil {
			return StaticPage{}, fmt.Errorf("static page %q: %v: %w", key, err, ErrMalformedStaticPage)
		}
		if len(tuple) < 2 {
			return StaticPage{}, fmt.Errorf("static page %q: tuple has %d elements: %w", key, len(tuple), ErrMalformedStaticPage)
		}
		if err := json.Unmarshal(tuple[0], &page.Slug); err != nil {
			return StaticPage{}, fmt.Errorf("static page %q: slug: %v: %w", key, err, ErrMalformedStaticPage)
		}
		if err := decodeComponents(tuple[1], &page.Components); err != nil {
			return StaticPage{}, fmt.Errorf("static page %q: components: %v: %w", key, err, ErrMalformedStaticPage)
		}
		if len(tuple) > 2 && !isNull(tuple[2]) {
			if err := json.Unmarshal(tuple[2], &page.APIEndpoints); err != nil {
				return StaticPage{}, fmt.Errorf("static page %q: apiEndpoints: %v: %w", key, err, ErrMalformedStaticPage)
			}
		}
	case '{':
		var obj struct {
			Slug         string          `json:"slug"`
			Components   json.RawMessage `json:"components"`
			APIEndpoints map[string]any  `json:"apiEndpoints"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return StaticPage{}, fmt.Errorf("static page %q: %v: %w", key, err, ErrMalformedStaticPage)
		}
		page.Slug = obj.Slug
		page.APIEndpoints = obj.APIEndpoints
		if len(obj.Components) > 0 && !isNull(obj.Components) {
			if err := decodeComponents(obj.Components, &page.Components); err != nil {
				return StaticPage{}, fmt.Errorf("static page %q: components: %v: %w", key, err, ErrMalformedStaticPage)
			}
		}
	default:
		return StaticPage{}, fmt.Errorf("static page %q: neither tuple nor object: %w", key, ErrMalformedStaticPage)
	}

	if page.Slug == "" {
		page.Slug = key
	}
	if page.Components == nil {
		page.Components = []ComponentInstance{}
	}
	for i := range page.Components {
		page.Components[i] = page.Components[i].Normalized()
	}
	return page, nil
}

func decodeComponents(raw json.RawMessage, out *[]ComponentInstance) error {
	if isNull(raw) {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// DecodeStaticPages normalizes every entry. Malformed entries are left out
// and their slugs returned in sorted order so callers can log them.
func DecodeStaticPages(raw map[string]json.RawMessage) (map[string]StaticPage, []string) {
	pages := make(map[string]StaticPage, len(raw))
	var skipped []string
	for key, value := range raw {
		page, err := DecodeStaticPage(key, value)
		if err != nil {
			skipped = append(skipped, key)
			continue
		}
		pages[key] = page
	}
	sort.Strings(skipped)
	return pages, skipped
}

// EncodeStaticPages writes the canonical object encoding.
func EncodeStaticPages(pages map[string]StaticPage) (map[string]json.RawMessage, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	out := make(map[string]json.RawMessage, len(pages))
	for slug, page := range pages {
		b, err := json.Marshal(page)
		if err != nil {
			return nil, fmt.Errorf("encoding static page %q: %w", slug, err)
		}
		out[slug] = b
	}
	return out, nil
}
