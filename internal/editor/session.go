// Package editor is the single mutation entry point for an open document.
// A Session owns the document, the ownership index that says which canvas
// each layer lives on, and the transient selection and sub-mode state.
//
// A Session is not safe for concurrent use; callers drive it from one goroutine.
package editor

import (
	"invitation-canvas-editor/internal/camera"
	apperr "invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/scene"
)

// GlobalCanvas addresses the document-level layer list.
const GlobalCanvas = ""

type Mode int

const (
	ModeSelect Mode = iota
	ModePathEdit
	ModeZoomEdit
)

func (m Mode) String() string {
	switch m {
	case ModePathEdit:
		return "path-edit"
	case ModeZoomEdit:
		return "zoom-edit"
	default:
		return "select"
	}
}

type Session struct {
	doc *scene.Document

	activeSectionID string
	selectedLayerID string
	mode            Mode

	// layer id -> owning canvas (GlobalCanvas or a section id)
	owners map[string]string

	Viewport camera.Viewport
}

// NewSession takes ownership of doc. A layer id that appears in more than one
// list keeps its first occurrence (global list first, then sections in stored
// order); later copies are dropped.
func NewSession(doc *scene.Document) *Session {
	if doc.Layers == nil {
		doc.Layers = []scene.Layer{}
	}
	s := &Session{
		doc:      doc,
		Viewport: camera.Viewport{Zoom: camera.ClampZoom(doc.Zoom), Pan: doc.Pan},
	}
	s.reindex()
	if sorted := doc.SortedSections(); len(sorted) > 0 {
		s.activeSectionID = sorted[0].ID
	}
	return s
}

func (s *Session) reindex() {
	s.owners = make(map[string]string)
	s.doc.Layers = s.claim(GlobalCanvas, s.doc.Layers)
	for i := range s.doc.Sections {
		sec := &s.doc.Sections[i]
		if sec.Elements == nil {
			sec.Elements = []scene.Layer{}
		}
		sec.Elements = s.claim(sec.ID, sec.Elements)
	}
}

func (s *Session) claim(canvas string, layers []scene.Layer) []scene.Layer {
	kept := layers[:0]
	for _, l := range layers {
		if _, dup := s.owners[l.ID]; dup {
			continue
		}
		s.owners[l.ID] = canvas
		kept = append(kept, l)
	}
	return kept
}

// Document returns the live document. Mutate it only through the session.
func (s *Session) Document() *scene.Document {
	s.doc.Zoom = s.Viewport.Zoom
	s.doc.Pan = s.Viewport.Pan
	return s.doc
}

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) ActiveSectionID() string { return s.activeSectionID }

func (s *Session) SelectedLayerID() string { return s.selectedLayerID }

// LayerCount is the number of layers across every canvas.
func (s *Session) LayerCount() int { return len(s.owners) }

func (s *Session) exitSubMode() { s.mode = ModeSelect }

func (s *Session) hasLayer(id string) bool {
	_, ok := s.owners[id]
	return ok
}

// Owner reports which canvas holds the layer.
func (s *Session) Owner(layerID string) (string, bool) {
	c, ok := s.owners[layerID]
	return c, ok
}

// ActiveSection returns the section currently shown in the editor.
func (s *Session) ActiveSection() (*scene.Section, bool) {
	if s.activeSectionID == "" {
		return nil, false
	}
	i := s.doc.SectionIndex(s.activeSectionID)
	if i < 0 {
		return nil, false
	}
	return &s.doc.Sections[i], true
}

func (s *Session) SetActiveSection(id string) error {
	if s.doc.SectionIndex(id) < 0 {
		return apperr.Missing("section", id)
	}
	if id == s.activeSectionID {
		return nil
	}
	s.activeSectionID = id
	s.exitSubMode()
	if owner, ok := s.owners[s.selectedLayerID]; ok && owner != GlobalCanvas && owner != id {
		s.selectedLayerID = ""
	}
	return nil
}

// SelectLayer sets the selection. An empty id deselects and leaves any editing sub-mode.
func (s *Session) SelectLayer(id string) error {
	if id == "" {
		s.selectedLayerID = ""
		s.exitSubMode()
		return nil
	}
	if !s.hasLayer(id) {
		return apperr.Missing("layer", id)
	}
	if id != s.selectedLayerID {
		s.exitSubMode()
	}
	s.selectedLayerID = id
	return nil
}

// Selected returns a copy of the selected layer.
func (s *Session) Selected() (scene.Layer, bool) {
	if s.selectedLayerID == "" {
		return scene.Layer{}, false
	}
	return s.Layer(s.selectedLayerID)
}

// Camera is the resting camera for the active section.
func (s *Session) Camera() camera.Transform {
	sec, ok := s.ActiveSection()
	if !ok {
		return camera.IdentityTransform()
	}
	return camera.ForSection(*sec)
}

// ScreenToCanvas converts a pointer position with the session's viewport.
func (s *Session) ScreenToCanvas(screen scene.Point) scene.Point {
	return camera.ScreenToCanvas(screen, s.Viewport, camera.EditingPadding)
}
