package editor

import (
	apperr "invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/scene"
)

// canvasList resolves a canvas id to the slice that holds its layers.
func (s *Session) canvasList(canvas string) (*[]scene.Layer, error) {
	if canvas == GlobalCanvas {
		return &s.doc.Layers, nil
	}
	i := s.doc.SectionIndex(canvas)
	if i < 0 {
		return nil, apperr.Missing("section", canvas)
	}
	return &s.doc.Sections[i].Elements, nil
}

// locate finds the slot holding a layer through the ownership index.
func (s *Session) locate(id string) (*[]scene.Layer, int, error) {
	canvas, ok := s.owners[id]
	if !ok {
		return nil, -1, apperr.Missing("layer", id)
	}
	list, err := s.canvasList(canvas)
	if err != nil {
		return nil, -1, err
	}
	for i := range *list {
		if (*list)[i].ID == id {
			return list, i, nil
		}
	}
	// index and lists disagree; rebuild and report
	s.reindex()
	return nil, -1, apperr.Missing("layer", id)
}

// Layer returns a copy of the layer with the given id.
func (s *Session) Layer(id string) (scene.Layer, bool) {
	list, i, err := s.locate(id)
	if err != nil {
		return scene.Layer{}, false
	}
	return (*list)[i], true
}

// Layers returns the layers of a canvas in stored order.
func (s *Session) Layers(canvas string) ([]scene.Layer, error) {
	list, err := s.canvasList(canvas)
	if err != nil {
		return nil, err
	}
	out := make([]scene.Layer, len(*list))
	copy(out, *list)
	return out, nil
}

// AddLayer creates a layer of type t on canvas. Overrides are deep-merged into
// the type's defaults. Nothing is added when the type or overrides are rejected.
func (s *Session) AddLayer(canvas string, t scene.LayerType, overrides scene.Patch) (scene.Layer, error) {
	list, err := s.canvasList(canvas)
	if err != nil {
		return scene.Layer{}, err
	}
	l, err := scene.NewLayer(t, overrides)
	if err != nil {
		return scene.Layer{}, err
	}
	if s.hasLayer(l.ID) {
		return scene.Layer{}, apperr.Invalid("id", "layer id already in use")
	}

	*list = append(*list, l)
	s.owners[l.ID] = canvas
	return l, nil
}

// AddToActive adds to the active section, or to the global list when no section is active.
func (s *Session) AddToActive(t scene.LayerType, overrides scene.Patch) (scene.Layer, error) {
	return s.AddLayer(s.activeSectionID, t, overrides)
}

// UpdateLayer deep-merges patch into the layer wherever it lives. An unknown id
// is a NotFoundError; it never creates a layer.
func (s *Session) UpdateLayer(id string, patch scene.Patch) (scene.Layer, error) {
	list, i, err := s.locate(id)
	if err != nil {
		return scene.Layer{}, err
	}
	next, err := (*list)[i].Apply(patch)
	if err != nil {
		return scene.Layer{}, err
	}
	(*list)[i] = next
	return next, nil
}

func (s *Session) RemoveLayer(id string) error {
	list, i, err := s.locate(id)
	if err != nil {
		return err
	}
	*list = append((*list)[:i], (*list)[i+1:]...)
	delete(s.owners, id)
	if s.selectedLayerID == id {
		s.selectedLayerID = ""
		s.exitSubMode()
	}
	return nil
}

// MoveLayer transfers a layer to another canvas. The layer is removed from its
// old list before it is appended to the new one.
func (s *Session) MoveLayer(id, canvas string) error {
	dst, err := s.canvasList(canvas)
	if err != nil {
		return err
	}
	src, i, err := s.locate(id)
	if err != nil {
		return err
	}
	if s.owners[id] == canvas {
		return nil
	}

	l := (*src)[i]
	*src = append((*src)[:i], (*src)[i+1:]...)
	*dst = append(*dst, l)
	s.owners[id] = canvas
	return nil
}

// siblingsZ reports the z range of the other layers sharing id's canvas.
func (s *Session) siblingsZ(id string) (lo, hi int, ok bool, err error) {
	list, _, err := s.locate(id)
	if err != nil {
		return 0, 0, false, err
	}
	lo, hi = scene.MaxZIndex, scene.MinZIndex
	for _, l := range *list {
		if l.ID == id {
			continue
		}
		ok = true
		if l.ZIndex < lo {
			lo = l.ZIndex
		}
		if l.ZIndex > hi {
			hi = l.ZIndex
		}
	}
	return lo, hi, ok, nil
}

func (s *Session) setZ(id string, z int) (scene.Layer, error) {
	return s.UpdateLayer(id, scene.Patch{"zIndex": scene.ClampZIndex(z)})
}

func (s *Session) BringToFront(id string) (scene.Layer, error) {
	_, hi, ok, err := s.siblingsZ(id)
	if err != nil {
		return scene.Layer{}, err
	}
	if !ok {
		l, _ := s.Layer(id)
		return l, nil
	}
	return s.setZ(id, hi+1)
}

func (s *Session) SendToBack(id string) (scene.Layer, error) {
	lo, _, ok, err := s.siblingsZ(id)
	if err != nil {
		return scene.Layer{}, err
	}
	if !ok {
		l, _ := s.Layer(id)
		return l, nil
	}
	return s.setZ(id, lo-1)
}

func (s *Session) BringForward(id string) (scene.Layer, error) {
	l, ok := s.Layer(id)
	if !ok {
		return scene.Layer{}, apperr.Missing("layer", id)
	}
	return s.setZ(id, l.ZIndex+1)
}

func (s *Session) SendBackward(id string) (scene.Layer, error) {
	l, ok := s.Layer(id)
	if !ok {
		return scene.Layer{}, apperr.Missing("layer", id)
	}
	return s.setZ(id, l.ZIndex-1)
}
