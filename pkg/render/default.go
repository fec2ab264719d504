package render

import (
	"html/template"
	"strings"
)

// defaultTemplate renders any component as a labelled section listing its
// scalar props. Nested objects are shown as JSON.
var defaultTemplate = `
<section class="cmp cmp-{{.Type}}" data-component="{{.ComponentName}}" data-id="{{.ID}}">
  {{with str .Props "title"}}<h2 class="cmp-title">{{.}}</h2>{{end}}
  <dl class="cmp-props">
    {{range $k := sortedKeys .Props}}{{if ne $k "visible"}}
    <dt>{{$k}}</dt><dd>{{toJSON (index $.Props $k)}}</dd>
    {{end}}{{end}}
  </dl>
</section>
`

// fallbackTemplate is the visible placeholder of a component whose name
// has no catalog entry.
var fallbackTemplate = `
<section class="cmp cmp-fallback" data-component="{{.Unresolved}}" data-id="{{.ID}}">
  <div class="cmp-fallback-badge">{{.DisplayName}}</div>
  <p>Component <code>{{.Unresolved}}</code> is not available. Showing the default {{.Type}} block.</p>
</section>

<style>
.cmp-fallback {
  border: 2px dashed #d97706;
  background: #fffbeb;
  padding: .75rem 1rem;
  margin: 0 0 1rem;
}
.cmp-fallback .cmp-fallback-badge {
  font-size: 12px;
  font-weight: 600;
  color: #92400e;
}
</style>
`

// TemplateRenderer renders one component type with an html/template.
type TemplateRenderer struct {
	componentType string
	tmpl          *template.Template
}

// NewTemplateRenderer parses text for componentType. An empty type matches
// every component.
func NewTemplateRenderer(componentType, text string) (*TemplateRenderer, error) {
	name := componentType
	if name == "" {
		name = "default"
	}
	t, err := template.New(name).Funcs(TemplateFuncs()).Parse(text)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{componentType: componentType, tmpl: t}, nil
}

// Render implements HTMLRenderer.
func (r *TemplateRenderer) Render(d Descriptor) template.HTML {
	var buf strings.Builder
	if err := r.tmpl.Execute(&buf, d); err != nil {
		return template.HTML("<!-- " + template.HTMLEscapeString(r.tmpl.Name()) + " renderer error -->")
	}
	return template.HTML(buf.String())
}

// CanRender implements HTMLRenderer.
func (r *TemplateRenderer) CanRender(d Descriptor) bool {
	return r.componentType == "" || d.Type == r.componentType
}

// ComponentType implements HTMLRenderer.
func (r *TemplateRenderer) ComponentType() string { return r.componentType }

// NewDefaultRenderer returns the generic renderer.
func NewDefaultRenderer() HTMLRenderer {
	return mustTemplate("", defaultTemplate)
}

// NewFallbackRenderer returns the placeholder renderer.
func NewFallbackRenderer() HTMLRenderer {
	return mustTemplate("", fallbackTemplate)
}

// FallbackHTML renders the placeholder of an unresolved component.
func FallbackHTML(d Descriptor) template.HTML {
	return fallbackRenderer.Render(d)
}

var fallbackRenderer = NewFallbackRenderer()

func mustTemplate(componentType, text string) *TemplateRenderer {
	r, err := NewTemplateRenderer(componentType, text)
	if err != nil {
		panic(err)
	}
	return r
}

var heroTemplate = `
<section class="cmp cmp-hero cmp-hero-{{.Variant}}" data-component="{{.ComponentName}}" data-id="{{.ID}}">
  {{with obj .Props "content"}}
  <h1>{{str . "title"}}</h1>
  {{with str . "subtitle"}}<p class="cmp-subtitle">{{.}}</p>{{end}}
  {{end}}
</section>
`

var titleTemplate = `
<h2 class="cmp cmp-title" style="text-align: {{default "center" (str .Props "align")}}" data-id="{{.ID}}">{{str .Props "text"}}</h2>
`

var headerTemplate = `
<header class="cmp cmp-header cmp-{{.ComponentName}}">
  <nav>
    {{range $item := list .Props "menu"}}<a href="{{str $item "url"}}">{{str $item "text"}}</a>{{end}}
  </nav>
</header>
`

var footerTemplate = `
<footer class="cmp cmp-footer cmp-{{.ComponentName}}">
  {{with obj .Props "content"}}<p>{{str . "companyName"}} {{str . "copyright"}}</p>{{end}}
</footer>
`

func builtinRenderers() []HTMLRenderer {
	return []HTMLRenderer{
		mustTemplate("hero", heroTemplate),
		mustTemplate("title", titleTemplate),
		mustTemplate("header", headerTemplate),
		mustTemplate("footer", footerTemplate),
	}
}
