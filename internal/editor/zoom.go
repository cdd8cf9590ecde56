package editor

import (
	"time"

	"github.com/google/uuid"

	"invitation-canvas-editor/internal/camera"
	apperr "invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/scene"
)

// BeginZoomEdit enters zoom-point editing on the active section.
func (s *Session) BeginZoomEdit() error {
	if _, ok := s.ActiveSection(); !ok {
		return apperr.Invalid("section", "no active section")
	}
	s.mode = ModeZoomEdit
	return nil
}

func (s *Session) EndZoomEdit() {
	if s.mode == ModeZoomEdit {
		s.exitSubMode()
	}
}

func (s *Session) zoomSection() (*scene.Section, error) {
	if s.mode != ModeZoomEdit {
		return nil, apperr.Invalid("mode", "not editing zoom points")
	}
	sec, ok := s.ActiveSection()
	if !ok {
		return nil, apperr.Invalid("section", "no active section")
	}
	return sec, nil
}

func guardRegion(r scene.Rect) scene.Rect {
	if r.Width < camera.MinRegionWidth {
		r.Width = camera.MinRegionWidth
	}
	if r.Height < camera.MinRegionWidth {
		r.Height = camera.MinRegionWidth
	}
	return r
}

func zoomPointIndex(sec *scene.Section, id string) int {
	for i, p := range sec.ZoomConfig.Points {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) AddZoomPoint(label string, region scene.Rect) (scene.ZoomPoint, error) {
	sec, err := s.zoomSection()
	if err != nil {
		return scene.ZoomPoint{}, err
	}
	p := scene.ZoomPoint{ID: uuid.NewString(), Label: label, TargetRegion: guardRegion(region)}
	sec.ZoomConfig.Points = append(sec.ZoomConfig.Points, p)
	return p, nil
}

func (s *Session) UpdateZoomPoint(id, label string, region scene.Rect) (scene.ZoomPoint, error) {
	sec, err := s.zoomSection()
	if err != nil {
		return scene.ZoomPoint{}, err
	}
	i := zoomPointIndex(sec, id)
	if i < 0 {
		return scene.ZoomPoint{}, apperr.Missing("zoom point", id)
	}
	sec.ZoomConfig.Points[i].Label = label
	sec.ZoomConfig.Points[i].TargetRegion = guardRegion(region)
	return sec.ZoomConfig.Points[i], nil
}

// RemoveZoomPoint deletes a point and keeps the selection pointing at the same point, if it survives.
func (s *Session) RemoveZoomPoint(id string) error {
	sec, err := s.zoomSection()
	if err != nil {
		return err
	}
	i := zoomPointIndex(sec, id)
	if i < 0 {
		return apperr.Missing("zoom point", id)
	}
	zc := &sec.ZoomConfig
	zc.Points = append(zc.Points[:i], zc.Points[i+1:]...)

	if sel := zc.SelectedPointIndex; sel != nil {
		switch {
		case *sel == i:
			zc.SelectedPointIndex = nil
		case *sel > i:
			next := *sel - 1
			zc.SelectedPointIndex = &next
		}
	}
	return nil
}

// SelectZoomPoint points the camera at index i, or back at the full canvas for
// i < 0, and returns the transition to play from now.
func (s *Session) SelectZoomPoint(i int, now time.Time) (camera.Transition, error) {
	sec, err := s.zoomSection()
	if err != nil {
		return camera.Transition{}, err
	}
	from := camera.ForSection(*sec)

	if i < 0 {
		sec.ZoomConfig.SelectedPointIndex = nil
	} else {
		if i >= len(sec.ZoomConfig.Points) {
			return camera.Transition{}, apperr.Invalid("zoomPoint", "index out of range")
		}
		idx := i
		sec.ZoomConfig.SelectedPointIndex = &idx
	}

	to := camera.ForSection(*sec)
	return camera.NewTransition(from, to, sec.ZoomConfig.Duration(), now), nil
}

// SetTransitionDuration sets the section's camera move duration in milliseconds.
func (s *Session) SetTransitionDuration(ms int) error {
	sec, err := s.zoomSection()
	if err != nil {
		return err
	}
	if ms < 0 {
		return apperr.Invalid("transitionDuration", "must not be negative")
	}
	sec.ZoomConfig.TransitionDuration = ms
	return nil
}
