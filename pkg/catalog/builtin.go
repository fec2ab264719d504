package catalog

// Component categories shown in the editor sidebar.
const (
	CategoryLayout     = "layout"
	CategoryBanner     = "banner"
	CategoryContent    = "content"
	CategoryProperties = "properties"
	CategoryMedia      = "media"
	CategoryForms      = "forms"
)

// Builtin returns the descriptors shipped with the editor.
func Builtin() []Descriptor {
	return []Descriptor{
		{
			Type: "header", DisplayName: "Header", Icon: "layout-top", Category: CategoryLayout, Variants: 2,
			DefaultData: map[string]any{
				"visible": true,
				"logo":    map[string]any{"image": "", "text": "", "url": "/"},
				"menu": []any{
					map[string]any{"text": "Home", "url": "/"},
					map[string]any{"text": "Properties", "url": "/for-rent"},
					map[string]any{"text": "About us", "url": "/about-us"},
					map[string]any{"text": "Contact", "url": "/contact-us"},
				},
				"styling": map[string]any{"background": "#ffffff", "text": "#1f2937", "sticky": true},
			},
			ThemeData: map[int]map[string]any{
				2: {"styling": map[string]any{"background": "#111827", "text": "#f9fafb", "sticky": true}},
			},
		},
		{
			Type: "footer", DisplayName: "Footer", Icon: "layout-bottom", Category: CategoryLayout, Variants: 2,
			DefaultData: map[string]any{
				"visible":    true,
				"content":    map[string]any{"companyName": "", "description": "", "copyright": ""},
				"social":     []any{},
				"newsletter": map[string]any{"enabled": false},
				"styling":    map[string]any{"background": "#1f2937", "text": "#f9fafb"},
			},
			ThemeData: map[int]map[string]any{
				2: {"styling": map[string]any{"background": "#000000", "text": "#e5e7eb"}},
			},
		},
		{
			Type: "hero", DisplayName: "Hero", Icon: "image-wide", Category: CategoryBanner, Variants: 3,
			DefaultData: map[string]any{
				"visible":    true,
				"height":     map[string]any{"desktop": "90vh", "mobile": "60vh"},
				"background": map[string]any{"image": "", "overlay": map[string]any{"enabled": true, "opacity": 0.45}},
				"content": map[string]any{
					"title":    "Find your next home",
					"subtitle": "Apartments, villas and offices for rent and sale",
				},
				"searchForm": map[string]any{"enabled": true},
			},
			ThemeData: map[int]map[string]any{
				2: {"height": map[string]any{"desktop": "70vh", "mobile": "50vh"}},
			},
		},
		{
			Type: "ctaValuation", DisplayName: "Valuation call to action", Icon: "megaphone", Category: CategoryBanner, Variants: 1,
			DefaultData: map[string]any{
				"visible": true,
				"content": map[string]any{"title": "What is your property worth?", "button": "Request a valuation"},
			},
		},
		{
			Type: "title", DisplayName: "Title", Icon: "heading", Category: CategoryContent, Variants: 1,
			DefaultData: map[string]any{
				"visible": true,
				"text":    "Section title",
				"align":   "center",
			},
		},
		{
			Type: "halfTextHalfImage", DisplayName: "Text and image", Icon: "columns", Category: CategoryContent, Variants: 6,
			DefaultData: map[string]any{
				"visible": true,
				"content": map[string]any{"title": "", "paragraph": "", "button": map[string]any{"text": "", "url": ""}},
				"image":   map[string]any{"src": "", "alt": "", "position": "right"},
			},
		},
		{
			Type: "contactCards", DisplayName: "Contact cards", Icon: "id-card", Category: CategoryContent, Variants: 1,
			DefaultData: map[string]any{
				"visible": true,
				"cards":   []any{},
			},
		},
		{
			Type: "propertySlider", DisplayName: "Property slider", Icon: "gallery-horizontal", Category: CategoryProperties, Variants: 1,
			DefaultData: map[string]any{
				"visible":     true,
				"title":       "Latest properties",
				"dataSource":  map[string]any{"apiUrl": "/v1/tenant-website/{tenantId}/properties?limit=10", "enabled": true},
				"autoplay":    true,
				"itemsPerRow": 3,
			},
		},
		{
			Type: "propertyDetail", DisplayName: "Property detail", Icon: "building", Category: CategoryProperties, Variants: 2,
			DefaultData: map[string]any{
				"visible":  true,
				"gallery":  map[string]any{"enabled": true},
				"map":      map[string]any{"enabled": true},
				"features": map[string]any{"enabled": true},
			},
		},
		{
			Type: "grid", DisplayName: "Property grid", Icon: "grid", Category: CategoryProperties, Variants: 1,
			DefaultData: map[string]any{
				"visible":    true,
				"pageSize":   12,
				"emptyState": "No properties found",
			},
		},
		{
			Type: "filterButtons", DisplayName: "Filter buttons", Icon: "filter", Category: CategoryProperties, Variants: 1,
			DefaultData: map[string]any{
				"visible": true,
				"buttons": []any{
					map[string]any{"text": "All", "value": "all"},
					map[string]any{"text": "Available", "value": "available"},
					map[string]any{"text": "Sold", "value": "sold"},
				},
			},
		},
		{
			Type: "video", DisplayName: "Video", Icon: "play", Category: CategoryMedia, Variants: 1,
			DefaultData: map[string]any{
				"visible":  true,
				"src":      "",
				"autoplay": false,
				"muted":    true,
			},
		},
		{
			Type: "photosGrid", DisplayName: "Photos grid", Icon: "images", Category: CategoryMedia, Variants: 2,
			DefaultData: map[string]any{
				"visible": true,
				"photos":  []any{},
				"columns": 3,
			},
		},
		{
			Type: "responsiveImage", DisplayName: "Image", Icon: "image", Category: CategoryMedia, Variants: 1,
			DefaultData: map[string]any{
				"visible": true,
				"src":     "",
				"alt":     "",
				"width":   "100%",
			},
		},
		{
			Type: "contactFormSection", DisplayName: "Contact form", Icon: "mail", Category: CategoryForms, Variants: 1,
			DefaultData: map[string]any{
				"visible": true,
				"title":   "Get in touch",
				"fields":  []any{"name", "phone", "message"},
			},
		},
		{
			Type: "applicationForm", DisplayName: "Application form", Icon: "clipboard", Category: CategoryForms, Variants: 1,
			DefaultData: map[string]any{
				"visible": true,
				"title":   "Submit your request",
			},
		},
	}
}

// Default returns a catalog holding the built-in descriptors with hero as
// the fallback.
func Default() *Catalog {
	c, err := New(FallbackType, Builtin()...)
	if err != nil {
		// The built-in table is static; an error here is a programming bug.
		panic(err)
	}
	return c
}
