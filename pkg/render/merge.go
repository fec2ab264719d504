package render

import "github.com/tarekmohameddev/taearifv3-sub012/pkg/model"

// Merge folds layers from lowest to highest precedence. Keys of a later
// layer replace the same top-level keys of earlier ones; nested objects
// are replaced whole, never merged. Nil layers are skipped. The result
// shares no maps with the inputs.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		for k, v := range model.CloneData(layer) {
			out[k] = v
		}
	}
	return out
}

// Visible reports the merged visibility flag. Only an explicit false hides
// a component.
func Visible(props map[string]any) bool {
	v, ok := props["visible"].(bool)
	return !ok || v
}
