package scene

import (
	"encoding/json"
	"fmt"

	apperr "invitation-canvas-editor/internal/errors"
)

// Patch is a partial layer update in the layer's JSON shape. Nested objects
// merge key by key; arrays and scalars replace.
type Patch map[string]any

// Apply returns a copy of l with p deep-merged onto it. l is never modified
// and its type is fixed.
func (l Layer) Apply(p Patch) (Layer, error) {
	if id, ok := p["id"]; ok && id != l.ID {
		return Layer{}, apperr.Invalid("id", "layer id cannot change")
	}
	if t, ok := p["type"]; ok && fmt.Sprint(t) != string(l.Type) {
		return Layer{}, apperr.Invalid("type", "layer type cannot change")
	}

	current, err := toMap(l)
	if err != nil {
		return Layer{}, err
	}
	changes, err := toMap(p)
	if err != nil {
		return Layer{}, apperr.Invalid("patch", err.Error())
	}

	merged := DeepMerge(current, changes)
	raw, err := json.Marshal(merged)
	if err != nil {
		return Layer{}, apperr.Invalid("patch", err.Error())
	}
	return DecodeLayerStrict(raw)
}

// DeepMerge merges src into dst and returns dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[k] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
	return dst
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
