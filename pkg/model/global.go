package model

// Global component slots shared by every page of a tenant.
const (
	SlotHeader = "header"
	SlotFooter = "footer"
)

// VariantKey is the data key the variant is folded under on the wire.
const VariantKey = "variant"

// GlobalComponent is the in-memory form of a header or footer: its data
// and its variant are kept apart.
type GlobalComponent struct {
	Data    map[string]any `json:"data" yaml:"data"`
	Variant string         `json:"variant" yaml:"variant"`
}

// Clone deep-copies the component.
func (g GlobalComponent) Clone() GlobalComponent {
	return GlobalComponent{Data: CloneData(g.Data), Variant: g.Variant}
}

// Fold returns the wire form: data with the variant stored under "variant".
func (g GlobalComponent) Fold() map[string]any {
	out := CloneData(g.Data)
	if out == nil {
		out = map[string]any{}
	}
	if g.Variant != "" {
		out[VariantKey] = g.Variant
	}
	return out
}

// SplitVariant is the inverse of Fold. A missing or non-string "variant"
// key leaves Variant empty.
func SplitVariant(data map[string]any) GlobalComponent {
	out := CloneData(data)
	if out == nil {
		out = map[string]any{}
	}
	var variant string
	if v, ok := out[VariantKey]; ok {
		if s, ok := v.(string); ok {
			variant = s
		}
		delete(out, VariantKey)
	}
	return GlobalComponent{Data: out, Variant: variant}
}

// GlobalComponentsData is the wire form of both global slots.
type GlobalComponentsData struct {
	Header map[string]any `json:"header,omitempty" yaml:"header,omitempty"`
	Footer map[string]any `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// Slot returns the wire data of a slot.
func (g GlobalComponentsData) Slot(slot string) map[string]any {
	switch slot {
	case SlotHeader:
		return g.Header
	case SlotFooter:
		return g.Footer
	}
	return nil
}

// Clone deep-copies both slots.
func (g GlobalComponentsData) Clone() GlobalComponentsData {
	return GlobalComponentsData{Header: CloneData(g.Header), Footer: CloneData(g.Footer)}
}

// IsValidSlot reports whether slot names one of the two global slots.
func IsValidSlot(slot string) bool {
	return slot == SlotHeader || slot == SlotFooter
}
