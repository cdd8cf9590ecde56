package editor

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	apperr "invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/scene"
)

// DefaultSectionBackground is the dark fill of a freshly added section.
const DefaultSectionBackground = "#0f0f0f"

func (s *Session) nextOrder() int {
	next := 0
	for _, sec := range s.doc.Sections {
		if sec.Order >= next {
			next = sec.Order + 1
		}
	}
	return next
}

// AddSection appends a blank section and makes it active.
func (s *Session) AddSection(key, title string) (scene.Section, error) {
	if key == "" {
		return scene.Section{}, apperr.Invalid("key", "is required")
	}
	sec := scene.Section{
		ID:              uuid.NewString(),
		Key:             key,
		Title:           title,
		Order:           s.nextOrder(),
		IsVisible:       true,
		BackgroundColor: DefaultSectionBackground,
		Elements:        []scene.Layer{},
	}
	s.doc.Sections = append(s.doc.Sections, sec)
	s.activeSectionID = sec.ID
	s.exitSubMode()
	return sec, nil
}

// RemoveSection deletes a section together with its elements.
func (s *Session) RemoveSection(id string) error {
	i := s.doc.SectionIndex(id)
	if i < 0 {
		return apperr.Missing("section", id)
	}

	for _, l := range s.doc.Sections[i].Elements {
		delete(s.owners, l.ID)
		if l.ID == s.selectedLayerID {
			s.selectedLayerID = ""
		}
	}
	s.doc.Sections = append(s.doc.Sections[:i], s.doc.Sections[i+1:]...)

	if s.activeSectionID == id {
		s.activeSectionID = ""
		if sorted := s.doc.SortedSections(); len(sorted) > 0 {
			s.activeSectionID = sorted[0].ID
		}
		s.exitSubMode()
	}
	return nil
}

// ReorderSections assigns Order from the position of each id. ids must name every section exactly once.
func (s *Session) ReorderSections(ids []string) error {
	if len(ids) != len(s.doc.Sections) {
		return apperr.Invalid("sections", fmt.Sprintf("expected %d ids, got %d", len(s.doc.Sections), len(ids)))
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := pos[id]; dup {
			return apperr.Invalid("sections", "duplicate id "+id)
		}
		if s.doc.SectionIndex(id) < 0 {
			return apperr.Missing("section", id)
		}
		pos[id] = i
	}
	for i := range s.doc.Sections {
		s.doc.Sections[i].Order = pos[s.doc.Sections[i].ID]
	}
	return nil
}

// DuplicateSection copies a section, and every element in it, under fresh ids.
// The copy is ordered directly after the source.
func (s *Session) DuplicateSection(id string) (scene.Section, error) {
	i := s.doc.SectionIndex(id)
	if i < 0 {
		return scene.Section{}, apperr.Missing("section", id)
	}
	src := s.doc.Sections[i]

	raw, err := json.Marshal(src)
	if err != nil {
		return scene.Section{}, err
	}
	var cp scene.Section
	if err := json.Unmarshal(raw, &cp); err != nil {
		return scene.Section{}, err
	}

	cp.ID = uuid.NewString()
	cp.Key = src.Key + "-copy"
	for j := range cp.Elements {
		cp.Elements[j].ID = uuid.NewString()
	}
	for j := range cp.ZoomConfig.Points {
		cp.ZoomConfig.Points[j].ID = uuid.NewString()
	}

	for j := range s.doc.Sections {
		if s.doc.Sections[j].Order > src.Order {
			s.doc.Sections[j].Order++
		}
	}
	cp.Order = src.Order + 1

	s.doc.Sections = append(s.doc.Sections, cp)
	for _, l := range cp.Elements {
		s.owners[l.ID] = cp.ID
	}
	return cp, nil
}
